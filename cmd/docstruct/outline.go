package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/dgallion1/docstruct/internal/chunker"
	"github.com/dgallion1/docstruct/internal/config"
	"github.com/dgallion1/docstruct/internal/outline"
	"github.com/dgallion1/docstruct/internal/output"
	"github.com/dgallion1/docstruct/internal/pipeline"
	"github.com/dgallion1/docstruct/internal/scoring"
	"github.com/dgallion1/docstruct/internal/spansource"
)

var outlineFlags struct {
	format       string
	weights      scoring.Weights
	chunkSize    int
	chunkOverlap int
	pdftotext    bool
}

var outlineCmd = &cobra.Command{
	Use:   "outline <file>",
	Short: "Print the inferred outline of a document",
	Long: `Extract styled spans from a document, score its styles and print the
resulting tree.

Formats:
  text     indented outline (default)
  json     nested nodes with summary
  yaml     nested nodes with summary
  summary  pages, paragraphs and characters per level
  walk     pre-order span indices
  levels   score and level of every style
  chunks   breadcrumbed text chunks`,
	Args: cobra.ExactArgs(1),
	RunE: runOutline,
}

func init() {
	f := outlineCmd.Flags()
	f.StringVarP(&outlineFlags.format, "format", "f", "text", "output format")
	f.Float64Var(&outlineFlags.weights.FontFactor, "font-factor", 1, "weight of font rarity")
	f.Float64Var(&outlineFlags.weights.ColorFactor, "color-factor", 1, "weight of color rarity")
	f.Float64Var(&outlineFlags.weights.SizeFactor, "size-factor", 1, "weight of normalized font size")
	f.Float64Var(&outlineFlags.weights.BoldBonus, "bold-bonus", 1, "bonus for bold styles")
	f.Float64Var(&outlineFlags.weights.UpperBonus, "upper-bonus", 1, "bonus for upper-case styles")
	f.IntVar(&outlineFlags.chunkSize, "chunk-size", 1500, "target chunk size in tokens for --format chunks")
	f.IntVar(&outlineFlags.chunkOverlap, "chunk-overlap", 200, "chunk overlap in tokens for --format chunks")
	f.BoolVar(&outlineFlags.pdftotext, "pdftotext", true, "fall back to pdftotext for unreadable PDFs")
}

func runOutline(cmd *cobra.Command, args []string) error {
	log, err := newLogger()
	if err != nil {
		return err
	}

	format, err := output.ParseFormat(outlineFlags.format)
	if err != nil {
		return err
	}

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	applyOutlineFlags(cmd, &cfg)
	if err := cfg.Weights.Validate(); err != nil {
		return err
	}

	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	filename := filepath.Base(path)
	spans, err := pipeline.ExtractSpans(data, filename, spansource.Options{PDFFallbackPdftotext: cfg.PDFFallbackPdftotext})
	if err != nil {
		return err
	}
	log.Info("extracted spans", "file", filename, "spans", len(spans))

	start := time.Now()
	doc, err := outline.Load(spans, cfg.Weights)
	if err != nil {
		return fmt.Errorf("build outline: %w", err)
	}
	log.Info("built outline",
		"styles", len(doc.Styles()),
		"levels", doc.Levels(),
		"roots", len(doc.Roots()),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	chunkCfg := chunker.DefaultConfig()
	chunkCfg.ChunkSize = cfg.ChunkSize
	chunkCfg.ChunkOverlap = cfg.ChunkOverlap
	return output.Document(cmd.OutOrStdout(), doc, format, chunkCfg)
}

// applyOutlineFlags lets flags the user set win over config and environment.
func applyOutlineFlags(cmd *cobra.Command, cfg *config.Config) {
	f := cmd.Flags()
	set := func(name string, apply func()) {
		if f.Changed(name) {
			apply()
		}
	}
	set("font-factor", func() { cfg.Weights.FontFactor = outlineFlags.weights.FontFactor })
	set("color-factor", func() { cfg.Weights.ColorFactor = outlineFlags.weights.ColorFactor })
	set("size-factor", func() { cfg.Weights.SizeFactor = outlineFlags.weights.SizeFactor })
	set("bold-bonus", func() { cfg.Weights.BoldBonus = outlineFlags.weights.BoldBonus })
	set("upper-bonus", func() { cfg.Weights.UpperBonus = outlineFlags.weights.UpperBonus })
	set("chunk-size", func() { cfg.ChunkSize = outlineFlags.chunkSize })
	set("chunk-overlap", func() { cfg.ChunkOverlap = outlineFlags.chunkOverlap })
	set("pdftotext", func() { cfg.PDFFallbackPdftotext = outlineFlags.pdftotext })
}
