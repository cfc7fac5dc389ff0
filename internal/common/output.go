package common

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"gopkg.in/yaml.v3"
)

// NewLogger returns the JSON stderr logger used by every command. quiet wins
// over verbose.
func NewLogger(w io.Writer, quiet, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	switch {
	case quiet:
		level = slog.LevelError
	case verbose:
		level = slog.LevelDebug
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// Marshal renders v as indented JSON or YAML.
func Marshal(format string, v any) ([]byte, error) {
	switch strings.ToLower(format) {
	case "", "json":
		return json.MarshalIndent(v, "", "  ")
	case "yaml":
		return yaml.Marshal(v)
	default:
		return nil, fmt.Errorf("unsupported format %q: must be json or yaml", format)
	}
}

// Print writes v to w in the given format.
func Print(w io.Writer, format string, v any) error {
	data, err := Marshal(format, v)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, strings.TrimRight(string(data), "\n")); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
