package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
)

const wordWrap = 100

// render prints a Markdown document, styled for the terminal unless
// --plain was given.
func render(cmd *cobra.Command, opts *rootOptions, md string) error {
	out := cmd.OutOrStdout()
	if opts.plain {
		_, err := io.WriteString(out, md)
		return err
	}

	style := glamour.WithAutoStyle()
	if opts.style != "" && opts.style != "auto" {
		style = glamour.WithStandardStyle(opts.style)
	}
	r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(wordWrap))
	if err != nil {
		return fmt.Errorf("create renderer: %w", err)
	}
	styled, err := r.Render(md)
	if err != nil {
		return fmt.Errorf("render output: %w", err)
	}
	_, err = io.WriteString(out, styled)
	return err
}

var cellEscaper = strings.NewReplacer("|", `\|`, "\n", " ", "\r", "")

// cell makes free text safe inside a Markdown table row.
func cell(s string) string {
	return cellEscaper.Replace(s)
}
