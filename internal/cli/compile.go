package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Delen0828/gramm-export-to-vega/pkg/pipeline"
	"github.com/Delen0828/gramm-export-to-vega/pkg/plot"
	"github.com/Delen0828/gramm-export-to-vega/pkg/vega"
)

// compileCommand creates the compile command.
func (c *CLI) compileCommand() *cobra.Command {
	var (
		output      string
		configPath  string
		html        bool
		noCache     bool
		refresh     bool
		interactive bool
		tooltip     bool
	)
	var opts plot.Options

	cmd := &cobra.Command{
		Use:   "compile [context.json]",
		Short: "Compile an analysis context into a Vega spec",
		Long: `Compile an analysis context into a Vega spec.

The compile command takes an analysis-context JSON file (aesthetic mappings,
layers, and precomputed statistics) and produces a self-contained Vega scene
description ready for any Vega v5 renderer.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(configPath)
			if err != nil {
				return err
			}
			if interactive {
				opts.Interactive = "true"
			}
			if tooltip {
				opts.Tooltip = "true"
			}
			applyConfig(&opts, cfg)
			return c.runCompile(cmd.Context(), args[0], cfg, opts, compileOutput{
				path:    output,
				html:    html,
				noCache: noCache,
				refresh: refresh,
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output spec file (defaults to <export_path>/<file_name>.json)")
	cmd.Flags().StringVar(&configPath, "config", "", "config file (default: ./vegaexport.toml)")
	cmd.Flags().BoolVar(&html, "html", false, "also write a standalone HTML preview page")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "recompile even if a cached spec exists")

	cmd.Flags().StringVar(&opts.FileName, "name", "", "output base name")
	cmd.Flags().StringVar(&opts.ExportPath, "export-path", "", "output directory")
	cmd.Flags().StringVar(&opts.Title, "title", "", "plot title")
	cmd.Flags().StringVar(&opts.XTitle, "x-title", "", "x axis title")
	cmd.Flags().StringVar(&opts.YTitle, "y-title", "", "y axis title")
	cmd.Flags().StringVar(&opts.Width, "width", "", "plot width in pixels")
	cmd.Flags().StringVar(&opts.Height, "height", "", "plot height in pixels")
	cmd.Flags().BoolVar(&interactive, "interactive", false, "emit the interactive legend protocol")
	cmd.Flags().BoolVar(&tooltip, "tooltip", false, "emit per-point tooltips")

	return cmd
}

// compileOutput bundles the output-related compile flags.
type compileOutput struct {
	path    string
	html    bool
	noCache bool
	refresh bool
}

// runCompile executes the pipeline and writes the resulting artifacts.
func (c *CLI) runCompile(ctx context.Context, input string, cfg Config, opts plot.Options, out compileOutput) error {
	raw, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("read context %s: %w", input, err)
	}

	runner, err := c.newRunner(cfg, out.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	result, err := runner.Execute(ctx, raw, pipeline.Options{
		Plot:    opts,
		Refresh: out.refresh,
		Logger:  c.Logger,
	})
	if err != nil {
		printError("Compilation failed")
		return err
	}
	prog.done(fmt.Sprintf("Compiled %d mark groups", len(result.Spec.Marks)))

	specPath := out.path
	if specPath == "" {
		specPath = specOutputPath(opts)
	}
	if dir := filepath.Dir(specPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	if err := os.WriteFile(specPath, result.SpecJSON, 0o644); err != nil {
		return fmt.Errorf("write spec: %w", err)
	}

	printSuccess("Compiled %s", input)
	printFile(specPath)

	if out.html {
		htmlPath := htmlOutputPath(specPath)
		title := opts.Title
		if title == "" {
			title = appName
		}
		if err := vega.WriteHTMLFile(htmlPath, title, filepath.Base(specPath)); err != nil {
			return fmt.Errorf("write html: %w", err)
		}
		printFile(htmlPath)
	}

	printStats(len(result.Spec.Marks), result.Removed, result.CacheHit)
	for _, w := range result.Warnings {
		printWarning("%s", w.String())
	}
	for _, note := range result.Notes {
		printDetail("%s", note)
	}
	if !out.html {
		printNextStep("Preview in a browser", fmt.Sprintf("%s serve", appName))
	}
	return nil
}

// specOutputPath derives the output file from the option contract:
// <export_path>/<file_name>.json.
func specOutputPath(opts plot.Options) string {
	name := opts.FileName
	if name == "" {
		name = plot.DefaultFileName
	}
	return filepath.Join(opts.ExportPath, name+".json")
}

// htmlOutputPath swaps the spec extension for .html.
func htmlOutputPath(specPath string) string {
	ext := filepath.Ext(specPath)
	return specPath[:len(specPath)-len(ext)] + ".html"
}
