// Package main provides the etsispec binary, which looks up an ETSI
// specification and reports its latest published version.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/git-pkgs/etsi"
	"github.com/git-pkgs/etsi/internal/config"
	"github.com/spf13/cobra"
)

const (
	Version = "0.1.0"
	appName = "etsispec"
)

// errReported means the failure has already been written to the output.
var errReported = errors.New("reported")

func main() {
	if err := rootCmd().Execute(); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

type flags struct {
	output       string
	baseURL      string
	tablesPath   string
	logLevel     string
	userAgent    string
	timeout      time.Duration
	probeTimeout time.Duration
	noMetadata   bool
}

func rootCmd() *cobra.Command {
	var f flags

	cmd := &cobra.Command{
		Use:   appName + " <identifier>",
		Short: "Look up an ETSI specification",
		Long: `Look up an ETSI specification and report its latest version,
download URL, title and publication date.

Accepted identifiers:
  103224
  103 224
  ETSI TS 103 224
  EG 202 396-3
  pkg:generic/etsi/ts-103224`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := newResolver(cmd, f)
			if err != nil {
				return err
			}
			defer r.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			input := strings.Join(args, " ")
			spec, err := r.Resolve(ctx, input)
			return present(cmd, f.output, input, spec, err)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&f.output, "output", "o", "text", "Output format (text, json, yaml)")
	pf.StringVar(&f.baseURL, "base-url", etsi.DefaultBaseURL, "Root of the delivery tree")
	pf.StringVar(&f.tablesPath, "tables", "", "YAML file with range and filename tables")
	pf.StringVar(&f.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	pf.StringVar(&f.userAgent, "user-agent", "", "User-Agent header")
	pf.DurationVar(&f.timeout, "timeout", etsi.DefaultTimeout, "Timeout for listing pages and downloads")
	pf.DurationVar(&f.probeTimeout, "probe-timeout", etsi.DefaultProbeTimeout, "Timeout for each artifact probe")
	pf.BoolVar(&f.noMetadata, "no-metadata", false, "Skip downloading the PDF")

	cmd.AddCommand(batchCmd(&f))
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", appName, Version)
		},
	})

	return cmd
}

func batchCmd(f *flags) *cobra.Command {
	var concurrency int

	cmd := &cobra.Command{
		Use:   "batch <identifier>...",
		Short: "Look up several specifications, one identifier per argument",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := newResolver(cmd, *f)
			if err != nil {
				return err
			}
			defer r.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			failed := 0
			for _, o := range r.ResolveAllWithConcurrency(ctx, args, concurrency) {
				if err := present(cmd, f.output, o.Input, o.Spec, o.Err); err != nil {
					failed++
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d lookups failed: %w", failed, len(args), errReported)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&concurrency, "concurrency", 1, "Number of lookups to run at once")
	return cmd
}

func newResolver(cmd *cobra.Command, f flags) (*etsi.Resolver, error) {
	format := strings.ToLower(f.output)
	if format != "text" && format != "json" && format != "yaml" {
		return nil, fmt.Errorf("unknown output format %q", f.output)
	}

	logger := newLogger(f.logLevel)

	// File settings first. Flags override them only when given explicitly.
	var opts []etsi.Option
	if f.tablesPath != "" {
		cfg, err := config.Load(f.tablesPath)
		if err != nil {
			return nil, err
		}
		opts = append(opts, cfg.Options()...)
	}

	opts = append(opts, etsi.WithLogger(logger))
	changed := cmd.Flags().Changed
	if changed("base-url") {
		opts = append(opts, etsi.WithBaseURL(f.baseURL))
	}
	if changed("user-agent") && f.userAgent != "" {
		opts = append(opts, etsi.WithUserAgent(f.userAgent))
	}
	if changed("timeout") && f.timeout > 0 {
		opts = append(opts, etsi.WithTimeout(f.timeout))
	}
	if changed("probe-timeout") && f.probeTimeout > 0 {
		opts = append(opts, etsi.WithProbeTimeout(f.probeTimeout))
	}
	if f.noMetadata {
		opts = append(opts, etsi.WithoutMetadata())
	}

	return etsi.New(opts...), nil
}

func newLogger(level string) *slog.Logger {
	lvl := slog.LevelWarn
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "info":
		lvl = slog.LevelInfo
	case "error":
		lvl = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

// present writes one lookup result and returns errReported when it failed.
func present(cmd *cobra.Command, format, input string, spec *etsi.ResolvedSpec, err error) error {
	out := cmd.OutOrStdout()
	switch strings.ToLower(format) {
	case "json":
		if werr := writeJSON(out, newReport(input, spec, err)); werr != nil {
			return werr
		}
	case "yaml":
		if werr := writeYAML(out, newReport(input, spec, err)); werr != nil {
			return werr
		}
	default:
		writeText(out, input, spec, err)
	}

	if err != nil {
		return errReported
	}
	return nil
}

// interrupted reports whether err came from the user stopping the command.
func interrupted(err error) bool {
	return errors.Is(err, context.Canceled)
}
