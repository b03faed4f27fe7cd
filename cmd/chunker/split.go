package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/jittakal/chunker/internal/source"
	"github.com/jittakal/chunker/pkg/chunker"
)

var splitCommand = &cli.Command{
	Name:      "split",
	Usage:     "Append every input line to a fresh engine, flush once and print the chunks",
	ArgsUsage: "[file]",
	Flags: []cli.Flag{
		&cli.IntFlag{
			Name:    "size",
			Aliases: []string{"s"},
			Usage:   "maximum chunk length in bytes",
			Value:   10,
		},
		&cli.StringFlag{
			Name:  "line-char",
			Usage: `line terminator appended to every line, empty for none; Go escapes such as "\r\n" are accepted`,
			Value: `\n`,
		},
		&cli.BoolFlag{
			Name:  "raw",
			Usage: "print chunks verbatim instead of quoted",
		},
	},
	Action: splitCmd,
}

func splitCmd(c *cli.Context) error {
	if c.Int("size") < 1 {
		return cli.Exit("Error: --size must be a positive number.", 1)
	}
	lineChar, err := unescape(c.String("line-char"))
	if err != nil {
		return cli.Exit(fmt.Sprintf("Error: invalid --line-char: %v", err), 1)
	}

	var src *source.Reader
	switch c.NArg() {
	case 0:
		src = source.NewReader("stdin", c.App.Reader, 0)
	case 1:
		src, err = source.OpenFile(c.Args().First(), 0)
		if err != nil {
			return cli.Exit(fmt.Sprintf("Error: %v", err), 1)
		}
	default:
		return cli.Exit("Error: at most one input file can be given.", 1)
	}

	engine := chunker.New(chunker.Config{ChunkSize: c.Int("size"), LineTerminator: &lineChar})
	defer engine.Close()

	if err := src.Run(c.Context, engine.AppendLine); err != nil {
		return err
	}
	return printChunks(c.App.Writer, engine.Flush(), !c.Bool("raw"))
}

func printChunks(w io.Writer, chunks []string, quote bool) error {
	bw := bufio.NewWriter(w)
	for _, c := range chunks {
		if quote {
			c = strconv.Quote(c)
		}
		if _, err := fmt.Fprintln(bw, c); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// unescape interprets Go string escapes in s.
func unescape(s string) (string, error) {
	return strconv.Unquote(`"` + s + `"`)
}

