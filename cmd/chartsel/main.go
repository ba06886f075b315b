// Package main is chartsel, a command line host for the chart selection engine.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sgostarter/i/commerr"
	"github.com/sgostarter/i/l"
	"github.com/sgostarter/libchart/config"
	"github.com/sgostarter/libchart/curve"
	"github.com/sgostarter/libchart/series"
	"github.com/sgostarter/libeasygo/stg/fs/rawfs"
	"github.com/spf13/cobra"
)

type cliOptions struct {
	configFile  string
	samplesFile string
	seriesKey   string
	verbose     bool

	width  float64
	height float64

	cfg    *config.Config
	logger l.Wrapper
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &cliOptions{}

	rootCmd := &cobra.Command{
		Use:           "chartsel",
		Short:         "Fit, probe and render smooth selectable charts",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.prepare(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&opts.configFile, "config", "c", "", "YAML chart configuration")
	rootCmd.PersistentFlags().StringVar(&opts.samplesFile, "samples", "", "YAML samples file")
	rootCmd.PersistentFlags().StringVar(&opts.seriesKey, "series", "", "series name in the series store")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log to console")
	rootCmd.PersistentFlags().Float64Var(&opts.width, "width", 0, "chart width in pixels")
	rootCmd.PersistentFlags().Float64Var(&opts.height, "height", 0, "chart height in pixels")

	rootCmd.AddCommand(newFitCmd(opts), newProbeCmd(opts), newSimulateCmd(opts), newRenderCmd(opts),
		newImportCmd(opts), newAddCmd(opts))

	return rootCmd
}

func (opts *cliOptions) prepare(cmd *cobra.Command) (err error) {
	opts.logger = l.NewNopLoggerWrapper()
	if opts.verbose {
		opts.logger = l.NewConsoleLoggerWrapper()
	}

	if opts.configFile != "" {
		opts.cfg, err = config.Load(opts.configFile)
		if err != nil {
			return fmt.Errorf("load config %s: %w", opts.configFile, err)
		}
	} else {
		opts.cfg = config.Default()
	}

	if cmd.Flags().Changed("width") {
		opts.cfg.Size.Width = opts.width
	}

	if cmd.Flags().Changed("height") {
		opts.cfg.Size.Height = opts.height
	}

	if err = opts.cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	return nil
}

func (opts *cliOptions) store() series.Store {
	return series.NewStore(opts.cfg.SeriesFile, rawfs.NewFSStorage(""), opts.logger)
}

func (opts *cliOptions) loadSamples() (samples []curve.Sample, err error) {
	switch {
	case opts.samplesFile != "":
		samples, err = curve.NewCommonStorage(filepath.Dir(opts.samplesFile)).Load(filepath.Base(opts.samplesFile))
		if err != nil {
			err = fmt.Errorf("load samples %s: %w", opts.samplesFile, err)
		}
	case opts.seriesKey != "":
		samples, err = opts.store().Load(opts.seriesKey)
		if err != nil {
			err = fmt.Errorf("load series %s: %w", opts.seriesKey, err)
		}
	default:
		err = fmt.Errorf("%w: one of --samples or --series is required", commerr.ErrInvalidArgument)
	}

	return
}

func newFitCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "fit",
		Short: "Print the fitted curve path and its last point",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			samples, err := opts.loadSamples()
			if err != nil {
				return err
			}

			cfg := opts.cfg

			cp := curve.NewFitter(cfg.FitCacheExpiration, opts.logger).Fit(samples, cfg.Size, cfg.Padding.X, cfg.Padding.Y)
			if cp.Empty() {
				return fmt.Errorf("%w: chart size %vx%v", commerr.ErrInvalidArgument, cfg.Size.Width, cfg.Size.Height)
			}

			fmt.Fprintln(cmd.OutOrStdout(), cp.Path.String())
			fmt.Fprintf(cmd.OutOrStdout(), "last %s,%s\n", formatFloat(cp.LastPoint.X), formatFloat(cp.LastPoint.Y))

			return nil
		},
	}
}

func newProbeCmd(opts *cliOptions) *cobra.Command {
	var x float64

	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Print the curve y under a chart pixel x",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			samples, err := opts.loadSamples()
			if err != nil {
				return err
			}

			cfg := opts.cfg

			y := curve.YForX(x, samples, cfg.Size, cfg.Padding.X, cfg.Padding.Y)

			fmt.Fprintln(cmd.OutOrStdout(), formatFloat(y))

			return nil
		},
	}

	cmd.Flags().Float64Var(&x, "x", 0, "chart pixel x")

	return cmd
}

func newSimulateCmd(opts *cliOptions) *cobra.Command {
	var from, drag float64

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Drag across the chart, release and print where the selection snapped",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			samples, err := opts.loadSamples()
			if err != nil {
				return err
			}

			r, err := simulate(cmd.Context(), opts.cfg, samples, from, drag, opts.logger)
			if err != nil {
				return fmt.Errorf("simulate: %w", err)
			}

			out := cmd.OutOrStdout()

			if r.IndexValid {
				fmt.Fprintf(out, "index %d\n", r.Index)
			} else {
				fmt.Fprintln(out, "index none")
			}

			fmt.Fprintf(out, "x %s\n", formatFloat(r.X))

			if r.YValid {
				fmt.Fprintf(out, "y %s\n", formatFloat(r.Y))
			}

			fmt.Fprintf(out, "frames %d\n", r.Frames)

			return nil
		},
	}

	cmd.Flags().Float64Var(&from, "from", 0, "pointer x where the drag starts")
	cmd.Flags().Float64Var(&drag, "drag", 0, "pointer x where the drag is released")

	return cmd
}

func newRenderCmd(opts *cliOptions) *cobra.Command {
	var (
		out    string
		format string
		index  int
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the curve and an optional selection to svg or png",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if out == "" {
				return fmt.Errorf("%w: --out is required", commerr.ErrInvalidArgument)
			}

			samples, err := opts.loadSamples()
			if err != nil {
				return err
			}

			if format == "" {
				format = formatFromFile(out)
			}

			var selected *int
			if cmd.Flags().Changed("index") {
				selected = &index
			}

			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("create %s: %w", out, err)
			}

			defer func() {
				_ = f.Close()
			}()

			if err = renderChart(f, format, opts.cfg, samples, selected, opts.logger); err != nil {
				return fmt.Errorf("render %s: %w", out, err)
			}

			opts.logger.WithFields(l.StringField("out", out), l.StringField("format", format)).Info("rendered")

			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "output file, .svg or .png")
	cmd.Flags().StringVar(&format, "format", "", "svg or png, defaults to the output extension")
	cmd.Flags().IntVar(&index, "index", 0, "selected sample index")

	return cmd
}

func newImportCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import",
		Short: "Copy a samples file into the series store under --series",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.samplesFile == "" || opts.seriesKey == "" {
				return fmt.Errorf("%w: --samples and --series are required", commerr.ErrInvalidArgument)
			}

			samples, err := curve.NewCommonStorage(filepath.Dir(opts.samplesFile)).Load(filepath.Base(opts.samplesFile))
			if err != nil {
				return fmt.Errorf("load samples %s: %w", opts.samplesFile, err)
			}

			if err = opts.store().Save(opts.seriesKey, samples); err != nil {
				return fmt.Errorf("save series %s: %w", opts.seriesKey, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "imported %d samples\n", len(samples))

			return nil
		},
	}
}

func newAddCmd(opts *cliOptions) *cobra.Command {
	var (
		value float64
		label string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Append one sample to a series in the store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			index, err := opts.store().Append(opts.seriesKey, value, label)
			if err != nil {
				return fmt.Errorf("append to series %s: %w", opts.seriesKey, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "index %d\n", index)

			return nil
		},
	}

	cmd.Flags().Float64Var(&value, "value", 0, "sample value")
	cmd.Flags().StringVar(&label, "label", "", "sample label")

	return cmd
}
