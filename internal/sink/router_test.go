package sink

import (
	"testing"
	"time"

	"github.com/jittakal/chunker/pkg/chunk"
)

func TestNewRouter(t *testing.T) {
	router := NewRouter("/chunks/", "")

	if router.basePath != "chunks" {
		t.Errorf("basePath = %v, want chunks", router.basePath)
	}
	if router.template != DefaultPathTemplate {
		t.Errorf("template = %v, want %v", router.template, DefaultPathTemplate)
	}
}

func TestDefaultRouter_Route(t *testing.T) {
	flushedAt := time.Date(2025, 12, 18, 10, 30, 0, 0, time.UTC)
	batch := chunk.Batch{ID: "b", Reason: chunk.ReasonTime, Sequence: 42}

	tests := []struct {
		name     string
		basePath string
		template string
		at       time.Time
		want     string
	}{
		{
			name:     "default template with base path",
			basePath: "base",
			want:     "base/dt=2025-12-18/hour=10/",
		},
		{
			name: "default template without base path",
			want: "dt=2025-12-18/hour=10/",
		},
		{
			name:     "reason and sequence placeholders",
			basePath: "out",
			template: "{reason}/{sequence}",
			want:     "out/time/00000042/",
		},
		{
			name:     "non-UTC time is converted",
			template: "{date}/{hour}",
			at:       time.Date(2025, 12, 18, 23, 30, 0, 0, time.FixedZone("UTC-2", -2*60*60)),
			want:     "2025-12-19/01/",
		},
		{
			name:     "template that collapses to nothing",
			template: "/",
			want:     "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			at := tt.at
			if at.IsZero() {
				at = flushedAt
			}
			if got := NewRouter(tt.basePath, tt.template).Route(batch, at); got != tt.want {
				t.Errorf("Route() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestObjectKey(t *testing.T) {
	batch := chunk.Batch{
		ID:        "abc",
		Sequence:  3,
		FlushedAt: time.Date(2025, 12, 18, 10, 30, 0, 0, time.UTC),
	}

	got := ObjectKey(NewRouter("events", ""), batch, ".txt")
	want := "events/dt=2025-12-18/hour=10/00000003-abc.txt"
	if got != want {
		t.Errorf("ObjectKey() = %v, want %v", got, want)
	}
}
