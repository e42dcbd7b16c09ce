// cxscan ranks the functions of a source tree by heuristic structural complexity.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/phobologic/cxscan/internal/analyze"
	"github.com/phobologic/cxscan/internal/config"
	"github.com/phobologic/cxscan/internal/lang"
	"github.com/phobologic/cxscan/internal/logging"
	"github.com/phobologic/cxscan/internal/telemetry"
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cmd := newRootCmd(stdout, stderr)
	cmd.SetArgs(args)
	return cmd.ExecuteContext(ctx)
}

// flagKeys maps command-line flags to the config keys they override.
var flagKeys = map[string]string{
	"log-level":      "log.level",
	"log-format":     "log.format",
	"limit":          "scan.limit",
	"workers":        "scan.workers",
	"max-file-size":  "scan.max_file_size",
	"file-timeout":   "scan.file_timeout",
	"gitignore":      "scan.gitignore",
	"exclude":        "scan.exclude",
	"lang":           "scan.languages",
	"base-url":       "scan.base_url",
	"indent-bodies":  "scan.indent_bodies",
	"cognitive-mode": "metrics.cognitive_mode",
	"format":         "output.format",
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var cfgFile string

	cmd := &cobra.Command{
		Use:   "cxscan [flags] [root]",
		Short: "Rank functions by structural complexity",
		Long: `cxscan walks a source tree, locates function-like units with per-language
line patterns and scores each one on cyclomatic complexity, nesting depth,
length, parameter count, cognitive complexity and comment density.

The highest scoring functions are written to stdout as JSON, YAML or TOON.

Supported languages: ` + strings.Join(lang.Names(), ", ") + `

Examples:
  cxscan                                   # current directory
  cxscan ./service --limit 20              # top 20 functions
  cxscan -l go,python --format toon        # filter languages, compact output
  cxscan --base-url https://github.com/o/r/blob/main .`,
		Args:          cobra.MaximumNArgs(1),
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cfgFile, cmd.Flags())
			if err != nil {
				return err
			}
			root := "."
			if len(args) > 0 {
				root = args[0]
			}
			return scan(cmd.Context(), cfg, root, stdout, stderr)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetVersionTemplate("cxscan {{.Version}}\n")

	pf := cmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default: ./"+config.FileName+".yaml or ~/"+config.FileName+".yaml)")
	pf.String("log-level", "info", "Log level (debug, info, warn, error, quiet)")
	pf.String("log-format", "text", "Log format (text, json)")

	f := cmd.Flags()
	f.IntP("limit", "n", 100, "maximum number of functions to report")
	f.IntP("workers", "j", 0, "number of files analyzed concurrently (default: GOMAXPROCS)")
	f.Int64("max-file-size", 1_000_000, "skip files larger than this many bytes")
	f.Duration("file-timeout", 5*time.Second, "time budget per file")
	f.Bool("gitignore", false, "skip files ignored by git")
	f.StringSliceP("exclude", "x", nil, "glob of paths to skip, relative to root (repeatable)")
	f.StringSliceP("lang", "l", nil, "comma-separated languages to include")
	f.String("base-url", "", "permalink prefix, e.g. https://github.com/org/repo/blob/main")
	f.Bool("indent-bodies", false, "capture indentation-delimited bodies for indent-based languages")
	f.String("cognitive-mode", "compat", "cognitive complexity for indent-based languages (compat, scoped)")
	f.StringP("format", "f", config.FormatJSON, "output format (json, yaml, toon)")

	cmd.AddCommand(newInitCmd(stdout, stderr, &cfgFile))
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the cxscan version",
		Args:  cobra.NoArgs,
		Run: func(*cobra.Command, []string) {
			_, _ = fmt.Fprintf(stdout, "cxscan %s\n", version)
		},
	})

	return cmd
}

// loadConfig layers .env, the config file, CXSCAN_* variables and any flags
// that were set explicitly.
func loadConfig(cfgFile string, flags *pflag.FlagSet) (*config.Config, error) {
	if err := config.LoadDotEnv(); err != nil {
		return nil, err
	}
	v, err := config.NewViper(cfgFile)
	if err != nil {
		return nil, err
	}
	if err := bindFlags(v, flags); err != nil {
		return nil, err
	}
	return config.Load(v)
}

// bindFlags overrides config keys with the flags the user actually set.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for name, key := range flagKeys {
		fl := flags.Lookup(name)
		if fl == nil || !fl.Changed {
			continue
		}
		if err := v.BindPFlag(key, fl); err != nil {
			return fmt.Errorf("binding --%s: %w", name, err)
		}
	}
	return nil
}

func scan(ctx context.Context, cfg *config.Config, root string, stdout, stderr io.Writer) error {
	level, err := logging.LevelFromString(cfg.Log.Level)
	if err != nil {
		return err
	}
	format, err := logging.ParseFormat(cfg.Log.Format)
	if err != nil {
		return err
	}
	logger := logging.New(stderr, level, format)

	inst, err := telemetry.New(nil)
	if err != nil {
		return err
	}

	a, err := analyze.New(cfg, analyze.WithLogger(logger), analyze.WithInstruments(inst))
	if err != nil {
		return err
	}

	report, err := a.Analyze(ctx, root, cfg.Scan.BaseURL)
	if err != nil {
		return err
	}
	return writeReport(stdout, cfg.Output.Format, report)
}
