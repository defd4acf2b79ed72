package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mediaprobe/internal/report"
	"mediaprobe/internal/scalar"
)

var formatDescriptions = map[string]string{
	"default": "INI-like blocks with [SECTION] ... [/SECTION] markers",
	"compact": "one line per section, separator-joined values",
	"csv":     "compact preset with comma separator and quoting",
	"flat":    "shell-friendly key=\"value\" lines with dotted paths",
	"ini":     "INI dialect with dotted section headers",
	"json":    "a single JSON document",
	"xml":     "an XML document with an optional strict schema",
}

func newFormatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "formats",
		Short:       "List output formats and hash algorithms",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			rows := make([][]string, 0, len(formatDescriptions))
			for _, name := range report.Formats() {
				rows = append(rows, []string{name, formatDescriptions[name]})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(
				[]string{"Format", "Output"},
				rows,
				[]columnAlignment{alignLeft, alignLeft},
			))

			hashRows := make([][]string, 0, 8)
			for _, name := range scalar.HashAlgorithms() {
				hashRows = append(hashRows, []string{name})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Hash"},
				hashRows,
				[]columnAlignment{alignLeft},
			))
			return nil
		},
	}
}
