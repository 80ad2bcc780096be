// Package main provides the lineage command line tool.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cpcf/lineage/config"
	"github.com/cpcf/lineage/debug"
	"github.com/cpcf/lineage/engine"
	"github.com/cpcf/lineage/processors"
	"github.com/cpcf/lineage/project"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type rootOptions struct {
	configPath string
	root       string
	output     string
	logLevel   string
	pkg        string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "lineage",
		Short: "Render template trees with inherited directives",
		Long: `Lineage renders text/template trees. Every page inherits @using,
@inject and @partials directives from the _imports.tmpl files in its
directory and each ancestor directory, nearest taking precedence.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Config file path (defaults to <root>/"+config.DefaultFileName+" when present)")
	cmd.PersistentFlags().StringVar(&opts.root, "root", ".", "Project root the template paths are relative to")
	cmd.PersistentFlags().StringVarP(&opts.output, "output", "o", "", "Output directory, overrides the config")
	cmd.PersistentFlags().StringVar(&opts.pkg, "package", "", "Go package path exposed to templates as packagePath")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error), overrides the config")

	cmd.AddCommand(newImportsCmd(opts))
	cmd.AddCommand(newRenderCmd(opts))

	return cmd
}

// session is the state shared by subcommands once flags and config are
// resolved.
type session struct {
	cfg     config.Config
	project *project.FileSystem
	engine  *engine.Engine
	logger  *slog.Logger
	closer  io.Closer
	pkg     string
}

func (s *session) Close() error {
	return s.closer.Close()
}

func (s *session) context() engine.Context {
	return engine.NewContext(s.project, s.cfg.Output, s.pkg)
}

func openSession(opts *rootOptions, stderr io.Writer) (*session, error) {
	root, err := filepath.Abs(opts.root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root: %w", err)
	}

	cfg, err := loadConfig(opts, root)
	if err != nil {
		return nil, err
	}

	logger, closer, err := debug.NewLogger(cfg.Log, stderr)
	if err != nil {
		return nil, err
	}

	p, err := project.NewDirFileSystem(root)
	if err != nil {
		closer.Close()
		return nil, err
	}

	failMode, err := engine.ParseFailureMode(cfg.FailureMode)
	if err != nil {
		closer.Close()
		return nil, err
	}

	eng := engine.New(
		engine.WithLogger(logger),
		engine.WithOutputRoot(cfg.Output),
		engine.WithFailureMode(failMode),
		engine.WithWorkers(cfg.Workers),
	)
	if cfg.GoImports {
		eng.AddPostProcessor(processors.NewGoImports())
	}

	return &session{
		cfg:     cfg,
		project: p,
		engine:  eng,
		logger:  logger,
		closer:  closer,
		pkg:     opts.pkg,
	}, nil
}

func loadConfig(opts *rootOptions, root string) (config.Config, error) {
	path := opts.configPath
	if path == "" {
		candidate := filepath.Join(root, config.DefaultFileName)
		if _, err := os.Stat(candidate); err == nil {
			path = candidate
		}
	}

	var cfg config.Config
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return config.Config{}, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	} else {
		cfg = config.Default()
		cfg.Templates = filepath.Join(root, cfg.Templates)
		cfg.Output = filepath.Join(root, cfg.Output)
	}

	if opts.output != "" {
		output, err := filepath.Abs(opts.output)
		if err != nil {
			return config.Config{}, fmt.Errorf("failed to resolve output: %w", err)
		}
		cfg.Output = output
	}
	if opts.logLevel != "" {
		cfg.Log.Level = strings.ToLower(opts.logLevel)
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

var errOutsideRoot = errors.New("path is outside the project root")

// projectPath converts a disk path to a rooted path inside the project.
func projectPath(root, diskPath string) (string, error) {
	abs, err := filepath.Abs(diskPath)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(root, abs)
	if err != nil {
		return "", err
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", errOutsideRoot, diskPath)
	}
	return project.NormalizePath(filepath.ToSlash(rel)), nil
}
