package main

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/phobologic/cxscan/internal/config"
	"github.com/phobologic/cxscan/internal/model"
	"github.com/phobologic/cxscan/internal/toon"
)

// writeReport encodes report to w in the given output format.
func writeReport(w io.Writer, format string, report *model.Report) error {
	switch format {
	case config.FormatJSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		return nil
	case config.FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(report); err != nil {
			return fmt.Errorf("failed to marshal YAML: %w", err)
		}
		return enc.Close()
	case config.FormatTOON:
		_, err := fmt.Fprintln(w, toon.Encode(report))
		return err
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}
