package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/1F47E/go-asciireel/internal/config"
	"github.com/1F47E/go-asciireel/internal/preset"
)

func renderTable(headers []string, rows [][]string) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	tw.AppendHeader(header)
	for _, row := range rows {
		r := make(table.Row, len(row))
		for i, v := range row {
			r[i] = v
		}
		tw.AppendRow(r)
	}

	configs := make([]table.ColumnConfig, len(headers))
	for i := range headers {
		align := text.AlignRight
		if i == 0 {
			align = text.AlignLeft
		}
		configs[i] = table.ColumnConfig{Number: i + 1, Align: align, AlignHeader: text.AlignLeft}
	}
	tw.SetColumnConfigs(configs)
	return tw.Render()
}

func printPresets(w io.Writer) {
	var rows [][]string
	for _, r := range preset.Table() {
		rows = append(rows, []string{
			string(r.Name),
			r.Ratio.String(),
			fmt.Sprintf("%dx%d", r.ChunkW, r.ChunkH),
			strconv.Itoa(r.GlyphSize),
			strconv.Itoa(preset.SourceQuality),
		})
	}
	fmt.Fprintln(w, renderTable([]string{"Preset", "Ratio", "Chunk", "Glyph size", "Source quality"}, rows))
	fmt.Fprintln(w, "Other ratios keep the configured chunk and glyph size. Presets use the default font.")
}

func printSettings(w io.Writer, cfg config.Config) {
	font := cfg.FontPath
	if font == "" {
		font = "Go Mono (embedded)"
	}
	p := cfg.Preset
	if p == "" {
		p = "none"
	}
	rows := [][]string{
		{"Glyphs", cfg.Glyphs},
		{"Chunk", formatChunk(cfg.Chunk)},
		{"Preset", p},
		{"Source quality", strconv.Itoa(cfg.SourceQuality())},
		{"Font", font},
		{"Font size", strconv.Itoa(cfg.FontSize)},
		{"Font color", formatColor(cfg.FontColor)},
		{"Weights", formatWeights(cfg.Weights)},
		{"Compression", strconv.Itoa(cfg.Compression)},
		{"Pad to 16:9", strconv.FormatBool(cfg.ForceAspectRatio)},
		{"Mute", strconv.FormatBool(cfg.Mute)},
		{"Threads", strconv.Itoa(cfg.Threads)},
	}
	fmt.Fprintln(w, renderTable([]string{"Setting", "Value"}, rows))
}

func printSampleConfig(w io.Writer) error {
	s, err := config.Sample()
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(w, s)
	return err
}

// the format* helpers print values in the form the config parsers read back

func formatChunk(c [2]int) string {
	return fmt.Sprintf("%dx%d", c[0], c[1])
}

func formatColor(c [3]int) string {
	return fmt.Sprintf("%d,%d,%d", c[0], c[1], c[2])
}

func formatWeights(w [3]float64) string {
	return strconv.FormatFloat(w[0], 'f', -1, 64) + "," +
		strconv.FormatFloat(w[1], 'f', -1, 64) + "," +
		strconv.FormatFloat(w[2], 'f', -1, 64)
}
