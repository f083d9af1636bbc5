package replay

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/hylla/flowboard/internal/domain"
	"gopkg.in/yaml.v3"
)

// OutputFormat selects how a replayed board is printed.
type OutputFormat string

const (
	OutputText OutputFormat = "text"
	OutputJSON OutputFormat = "json"
	OutputYAML OutputFormat = "yaml"
)

// ParseOutputFormat validates a --format value.
func ParseOutputFormat(raw string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(strings.TrimSpace(raw))); f {
	case "", OutputText:
		return OutputText, nil
	case OutputJSON, OutputYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported output format %q (want text, json or yaml)", raw)
	}
}

// Render writes the replayed board to w. JSON and YAML output use the
// exported snapshot document so the result can seed another replay.
func Render(w io.Writer, res Result, format OutputFormat) error {
	switch format {
	case OutputJSON:
		data, err := json.MarshalIndent(res.Snapshot, "", "  ")
		if err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case OutputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(res.Snapshot); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	case OutputText, "":
		_, err := fmt.Fprintln(w, boardTable(res.Board))
		return err
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}

// boardTable lays columns out side by side with one task per row.
func boardTable(board domain.Board) string {
	if len(board.Columns) == 0 {
		return "(no columns)"
	}
	headers := make([]string, 0, len(board.Columns))
	depth := 0
	for _, column := range board.Columns {
		headers = append(headers, fmt.Sprintf("%s (%d)", column.Title, len(column.Tasks)))
		depth = max(depth, len(column.Tasks))
	}
	rows := make([][]string, 0, depth)
	for i := 0; i < depth; i++ {
		row := make([]string, len(board.Columns))
		for ci, column := range board.Columns {
			if i < len(column.Tasks) {
				task := column.Tasks[i]
				row[ci] = fmt.Sprintf("%s [%s]", task.Text, task.Color)
			}
		}
		rows = append(rows, row)
	}

	headerStyle := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	return t.String()
}
