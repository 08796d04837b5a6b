package formatting

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"gopkg.in/yaml.v3"
)

// ComponentRow is one line of the component list view.
type ComponentRow struct {
	Key          string   `json:"key" yaml:"key"`
	Type         string   `json:"type,omitempty" yaml:"type,omitempty"`
	Dependencies []string `json:"dependencies,omitempty" yaml:"dependencies,omitempty"`
	Position     int      `json:"position" yaml:"position"`
	State        string   `json:"state,omitempty" yaml:"state,omitempty"`
}

// OrderView is the computed start order of a system, optionally with the
// dependency levels.
type OrderView struct {
	System string     `json:"system" yaml:"system"`
	Order  []string   `json:"order" yaml:"order"`
	Levels [][]string `json:"levels,omitempty" yaml:"levels,omitempty"`
}

// WriteList renders the component list in the requested format.
func WriteList(w io.Writer, format Format, rows []ComponentRow) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, rows)
	case FormatYAML:
		return writeYAML(w, rows)
	}

	t := newTable(w)
	if format == FormatWide {
		t.AppendHeader(header("KEY", "TYPE", "DEPENDENCIES", "POSITION", "STATE"))
	} else {
		t.AppendHeader(header("KEY", "TYPE", "DEPENDENCIES"))
	}
	for _, row := range rows {
		deps := depsCell(row.Dependencies)
		if format == FormatWide {
			t.AppendRow(table.Row{row.Key, row.Type, deps, row.Position, row.State})
		} else {
			t.AppendRow(table.Row{row.Key, row.Type, deps})
		}
	}
	t.Render()
	return nil
}

// WriteOrder renders the start order in the requested format. Table output
// numbers the sequence; when level information is present a LEVEL column
// shows which components have no ordering constraints between them.
func WriteOrder(w io.Writer, format Format, view OrderView) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, view)
	case FormatYAML:
		return writeYAML(w, view)
	}

	levelOf := make(map[string]int, len(view.Order))
	for i, level := range view.Levels {
		for _, key := range level {
			levelOf[key] = i
		}
	}

	t := newTable(w)
	if len(view.Levels) > 0 {
		t.AppendHeader(header("POSITION", "KEY", "LEVEL"))
	} else {
		t.AppendHeader(header("POSITION", "KEY"))
	}
	for i, key := range view.Order {
		if len(view.Levels) > 0 {
			t.AppendRow(table.Row{i + 1, key, levelOf[key]})
		} else {
			t.AppendRow(table.Row{i + 1, key})
		}
	}
	t.Render()
	return nil
}

// depsCellMaxLen bounds the DEPENDENCIES column so one component with a long
// dependency list cannot blow up the table layout.
const depsCellMaxLen = 60

// depsCell renders a dependency list as a single table cell, truncated with
// an ellipsis when it exceeds the column bound. Truncation slices runes, not
// bytes, so multi-byte component keys stay intact.
func depsCell(deps []string) string {
	if len(deps) == 0 {
		return "-"
	}
	joined := strings.Join(deps, ", ")
	runes := []rune(joined)
	if len(runes) <= depsCellMaxLen {
		return joined
	}
	return string(runes[:depsCellMaxLen-3]) + "..."
}

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	return t
}

func header(columns ...string) table.Row {
	row := make(table.Row, 0, len(columns))
	for _, column := range columns {
		row = append(row, text.FgHiCyan.Sprint(column))
	}
	return row
}

func writeJSON(w io.Writer, data interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func writeYAML(w io.Writer, data interface{}) error {
	out, err := yaml.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshaling to YAML: %w", err)
	}
	_, err = w.Write(out)
	return err
}
