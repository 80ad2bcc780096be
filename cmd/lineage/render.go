package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newRenderCmd(opts *rootOptions) *cobra.Command {
	var dataPath string

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render every page in the template tree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer s.Close()

			data, err := loadData(dataPath)
			if err != nil {
				return err
			}

			templateDir, err := projectPath(s.project.PhysicalRoot(), s.cfg.Templates)
			if err != nil {
				return err
			}

			start := time.Now()
			if err := s.engine.RenderDir(s.context(), templateDir, data); err != nil {
				return err
			}

			s.logger.Info("render complete",
				"templates", templateDir,
				"output", s.cfg.Output,
				"duration", time.Since(start),
			)
			return nil
		},
	}

	cmd.Flags().StringVarP(&dataPath, "data", "d", "", "YAML or JSON file passed to templates as the root value")

	return cmd
}

// loadData reads the template data file. YAML is a superset of JSON, so
// one decoder serves both.
func loadData(path string) (map[string]any, error) {
	data := map[string]any{}
	if path == "" {
		return data, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read data file: %w", err)
	}
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to parse data file %s: %w", path, err)
	}
	return data, nil
}
