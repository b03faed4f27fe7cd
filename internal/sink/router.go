// Package sink implements batch writers for the supported backends.
package sink

import (
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/jittakal/chunker/pkg/chunk"
	"github.com/jittakal/chunker/pkg/sink"
)

// Ensure implementations satisfy interfaces.
var _ sink.Router = (*DefaultRouter)(nil)

// DefaultPathTemplate partitions objects Hive-style by flush date and hour.
const DefaultPathTemplate = "dt={date}/hour={hour}"

// DefaultRouter expands a path template below a base path.
//
// Supported placeholders: {date} (YYYY-MM-DD), {hour} (HH), {reason} and {sequence}.
// Times are rendered in UTC.
type DefaultRouter struct {
	basePath string
	template string
}

// NewRouter creates a new router. An empty template uses DefaultPathTemplate.
func NewRouter(basePath, template string) *DefaultRouter {
	if template == "" {
		template = DefaultPathTemplate
	}
	return &DefaultRouter{
		basePath: strings.Trim(basePath, "/"),
		template: strings.Trim(template, "/"),
	}
}

// Route returns the directory a batch flushed at flushedAt is stored under,
// with a trailing slash and no leading slash.
func (r *DefaultRouter) Route(batch chunk.Batch, flushedAt time.Time) string {
	t := flushedAt.UTC()
	expanded := strings.NewReplacer(
		"{date}", t.Format("2006-01-02"),
		"{hour}", t.Format("15"),
		"{reason}", string(batch.Reason),
		"{sequence}", formatSequence(batch.Sequence),
	).Replace(r.template)

	dir := path.Join(r.basePath, expanded)
	if dir == "" || dir == "." {
		return ""
	}
	return dir + "/"
}

// ObjectKey returns the full object key for a batch: routed directory, batch key and extension.
func ObjectKey(r sink.Router, batch chunk.Batch, ext string) string {
	return r.Route(batch, batch.FlushedAt) + batch.Key() + ext
}

func formatSequence(seq uint64) string {
	return fmt.Sprintf("%08d", seq)
}
