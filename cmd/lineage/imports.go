package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/cpcf/lineage/directive"
	"github.com/cpcf/lineage/project"
)

type importEntry struct {
	Name         string `json:"name"`
	Kind         string `json:"kind"`
	Path         string `json:"path,omitempty"`
	PhysicalPath string `json:"physical_path,omitempty"`
}

type importsReport struct {
	Template   string         `json:"template"`
	Imports    []importEntry  `json:"imports"`
	Directives *directive.Set `json:"directives,omitempty"`
}

func newImportsCmd(opts *rootOptions) *cobra.Command {
	var (
		jsonOutput     bool
		showDirectives bool
	)

	cmd := &cobra.Command{
		Use:   "imports <template>",
		Short: "Show the imports a template inherits, lowest precedence first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer s.Close()

			ctx := s.context()
			templatePath := project.NormalizePath(args[0])

			items, err := s.engine.Imports(ctx, templatePath)
			if err != nil {
				return err
			}

			report := importsReport{Template: templatePath, Imports: make([]importEntry, 0, len(items))}
			for _, item := range items {
				report.Imports = append(report.Imports, importEntry{
					Name:         project.DisplayName(item),
					Kind:         item.Kind().String(),
					Path:         item.FilePath(),
					PhysicalPath: item.PhysicalPath(),
				})
			}

			if showDirectives {
				set, err := s.engine.Directives(ctx, templatePath)
				if err != nil {
					return err
				}
				report.Directives = &set
			}

			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}
			return printImports(cmd.OutOrStdout(), report)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the chain as JSON")
	cmd.Flags().BoolVar(&showDirectives, "directives", false, "Also print the merged directive set")

	return cmd
}

func printImports(w io.Writer, report importsReport) error {
	if len(report.Imports) == 0 {
		if _, err := fmt.Fprintf(w, "%s: no imports\n", report.Template); err != nil {
			return err
		}
	}
	for i, entry := range report.Imports {
		if _, err := fmt.Fprintf(w, "%d. %s\n", i+1, entry.Name); err != nil {
			return err
		}
	}

	if report.Directives == nil {
		return nil
	}

	set := report.Directives
	for _, using := range set.Usings {
		fmt.Fprintf(w, "@using %s\n", using)
	}
	for _, name := range set.InjectedNames() {
		fmt.Fprintf(w, "@inject %s %s\t(%s)\n", name, set.Injections[name], set.Origins[name])
	}
	for _, pattern := range set.Partials {
		fmt.Fprintf(w, "@partials %s\n", pattern)
	}
	return nil
}
