package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile  string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "docstruct",
	Short: "Infer the heading hierarchy of a document from its typography",
	Long: `docstruct reads a document as styled text spans and infers its outline
from visual cues alone: font size, font and color rarity, bold and upper case.

Supported inputs: PDF, DOCX, Markdown, HTML, plain text and CSV.`,
	Version:      version,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./docstruct.yaml or ~/.docstruct/docstruct.yaml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&logLevel, "log-level", "warn", "log level: debug, info, warn or error",
	)

	rootCmd.AddCommand(outlineCmd)
	rootCmd.AddCommand(versionCmd)
}

// newLogger logs to stderr so stdout carries only command output.
func newLogger() (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(logLevel)); err != nil {
		return nil, fmt.Errorf("invalid --log-level %q: %w", logLevel, err)
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})), nil
}
