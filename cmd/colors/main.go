// Package main prints the Flow Board palette from a config file so task
// marker and accent colors can be tuned against the current terminal.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/hylla/flowboard/internal/config"
	"github.com/hylla/flowboard/internal/platform"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("colors", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var (
		configPath string
		show256    bool
	)
	fs.StringVar(&configPath, "config", "", "path to config TOML (default: platform config path)")
	fs.BoolVar(&show256, "256", false, "also print the ANSI 256 color grid")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}

	paths, err := platform.DefaultPaths()
	if err != nil {
		return err
	}
	if configPath == "" {
		if envPath := strings.TrimSpace(os.Getenv("FLOWBOARD_CONFIG")); envPath != "" {
			configPath = envPath
		} else {
			configPath = paths.ConfigPath
		}
	}
	cfg, err := config.Load(configPath, config.Default(paths.LogDir))
	if err != nil {
		return fmt.Errorf("load config %q: %w", configPath, err)
	}

	_, _ = fmt.Fprintf(stdout, "config: %s\n\n", configPath)
	_, _ = fmt.Fprintln(stdout, paletteTable(cfg.Palette).Render())
	_, _ = fmt.Fprintln(stdout)
	_, _ = fmt.Fprintln(stdout, markerPreview(cfg.Palette))
	if show256 {
		_, _ = fmt.Fprintln(stdout, "\nANSI 256 colors:")
		write256Colors(stdout)
	}
	return nil
}

func headerTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("62"))).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("230"))
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
}

// paletteTable lists every configured color with a swatch.
func paletteTable(p config.PaletteConfig) *table.Table {
	t := headerTable("Role", "Value", "Sample")
	for _, entry := range []struct {
		role  string
		value string
	}{
		{"green task", p.Green},
		{"red task", p.Red},
		{"blue task", p.Blue},
		{"accent", p.Accent},
	} {
		sample := lipgloss.NewStyle().
			Background(lipgloss.Color(entry.value)).
			Foreground(lipgloss.Color("15")).
			Width(12).
			Align(lipgloss.Center).
			Render(entry.value)
		t.Row(entry.role, entry.value, sample)
	}
	return t
}

// markerPreview renders the task markers the way the board draws them.
func markerPreview(p config.PaletteConfig) string {
	var b strings.Builder
	for _, entry := range []struct {
		name  string
		color string
	}{
		{"green", p.Green},
		{"red", p.Red},
		{"blue", p.Blue},
	} {
		marker := lipgloss.NewStyle().Foreground(lipgloss.Color(entry.color)).Render("●")
		fmt.Fprintf(&b, "%s %s  ", marker, entry.name)
	}
	title := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(p.Accent)).Render("Flow Board")
	return title + "  " + strings.TrimRight(b.String(), " ")
}

func write256Colors(w io.Writer) {
	for i := 0; i <= 255; i++ {
		style := lipgloss.NewStyle().
			Background(lipgloss.Color(strconv.Itoa(i))).
			Foreground(contrastColor(i)).
			Width(5).
			Align(lipgloss.Center)
		_, _ = fmt.Fprint(w, style.Render(strconv.Itoa(i)))
		if (i+1)%16 == 0 {
			_, _ = fmt.Fprintln(w)
		}
	}
}

// contrastColor picks black or white text for a 256-color background.
func contrastColor(index int) lipgloss.Color {
	switch {
	case index < 16:
		switch index {
		case 0, 1, 4, 5, 8:
			return lipgloss.Color("15")
		}
		return lipgloss.Color("0")
	case index >= 232:
		if index < 244 {
			return lipgloss.Color("15")
		}
		return lipgloss.Color("0")
	default:
		return lipgloss.Color("15")
	}
}
