package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/phobologic/cxscan/internal/config"
)

const configHeader = `# cxscan configuration.
# Every key can be overridden with CXSCAN_<SECTION>_<KEY>, e.g. CXSCAN_SCAN_LIMIT=20.
`

// newInitCmd implements `cxscan init`, which writes (or completes) a config
// file holding every setting with its default value.
func newInitCmd(stdout, stderr io.Writer, cfgFile *string) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write a starter config file",
		Long: `Write a cxscan config file containing every setting with its default value.

If the file already exists, its values are kept and only missing settings are
added. path defaults to the --config value or ./` + config.FileName + `.yaml.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			path := config.FileName + ".yaml"
			if *cfgFile != "" {
				path = *cfgFile
			}
			if len(args) > 0 {
				path = args[0]
			}

			existing, err := os.ReadFile(path)
			if err != nil && !errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("reading %s: %w", path, err)
			}

			updated, err := applyDefaults(existing)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}

			if dryRun {
				_, _ = stdout.Write(updated)
				return nil
			}

			if err := os.WriteFile(path, updated, 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", path, err)
			}
			_, _ = fmt.Fprintf(stderr, "wrote cxscan config to %s\n", path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print what would be written without modifying the file")
	return cmd
}

// applyDefaults merges the default settings under the YAML in existing and
// returns the rendered file. Values already present win. The merged result
// must validate. It is a pure function for easy testing.
func applyDefaults(existing []byte) ([]byte, error) {
	v := viper.New()
	config.SetDefaults(v)
	v.SetConfigType("yaml")
	if len(bytes.TrimSpace(existing)) > 0 {
		if err := v.ReadConfig(bytes.NewReader(existing)); err != nil {
			return nil, fmt.Errorf("parsing existing config: %w", err)
		}
	}
	if _, err := config.Load(v); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.WriteString(configHeader)
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(v.AllSettings()); err != nil {
		return nil, fmt.Errorf("encoding config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encoding config: %w", err)
	}
	return buf.Bytes(), nil
}
