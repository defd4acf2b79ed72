package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"mediaprobe/internal/report"
)

func newSectionsCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "sections",
		Short:       "List report sections usable with --show-entries",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			registry := report.Sections()

			rows := make([][]string, 0, registry.Len())
			for _, section := range registry.All() {
				rows = append(rows, []string{
					section.FilterName(),
					sectionKind(section),
					childNames(registry, section),
				})
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Section", "Kind", "Children"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft},
			))
			return nil
		},
	}
}

func sectionKind(s *report.Section) string {
	switch {
	case s.Flags&report.FlagWrapper != 0:
		return "wrapper"
	case s.Flags&report.FlagArray != 0:
		return "array"
	case s.Flags&report.FlagVariableFields != 0:
		return "variable fields"
	default:
		return "struct"
	}
}

func childNames(registry *report.Registry, s *report.Section) string {
	if len(s.Children) == 0 {
		return ""
	}
	names := make([]string, 0, len(s.Children))
	for _, id := range s.Children {
		names = append(names, registry.Descriptor(id).FilterName())
	}
	return strings.Join(names, ", ")
}
