package formatting

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestValidate(t *testing.T) {
	for _, format := range ValidFormats {
		assert.NoError(t, Validate(string(format)))
	}
	assert.Error(t, Validate("xml"))
	assert.Error(t, Validate(""))
}

var listRows = []ComponentRow{
	{Key: "db", Type: "kvstore", Position: 1, State: "started"},
	{Key: "admin", Type: "httpserver", Dependencies: []string{"metrics", "db"}, Position: 3, State: "started"},
}

func TestWriteListTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteList(&buf, FormatTable, listRows))

	out := buf.String()
	assert.Contains(t, out, "KEY")
	assert.Contains(t, out, "db")
	assert.Contains(t, out, "metrics, db")
	assert.NotContains(t, out, "POSITION", "narrow table omits wide columns")
}

func TestWriteListWide(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteList(&buf, FormatWide, listRows))

	out := buf.String()
	assert.Contains(t, out, "POSITION")
	assert.Contains(t, out, "STATE")
	assert.Contains(t, out, "started")
}

func TestWriteListJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteList(&buf, FormatJSON, listRows))

	var decoded []ComponentRow
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, listRows, decoded)
}

func TestWriteListYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteList(&buf, FormatYAML, listRows))

	var decoded []ComponentRow
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, listRows, decoded)
}

func TestDepsCell(t *testing.T) {
	tests := []struct {
		name string
		deps []string
		want string
	}{
		{name: "empty list renders a dash", deps: nil, want: "-"},
		{name: "short list stays intact", deps: []string{"db", "cache"}, want: "db, cache"},
		{
			name: "list at the bound stays intact",
			deps: []string{strings.Repeat("a", depsCellMaxLen)},
			want: strings.Repeat("a", depsCellMaxLen),
		},
		{
			name: "long list gains an ellipsis",
			deps: []string{strings.Repeat("a", depsCellMaxLen+1)},
			want: strings.Repeat("a", depsCellMaxLen-3) + "...",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, depsCell(tt.deps))
			assert.LessOrEqual(t, len([]rune(depsCell(tt.deps))), depsCellMaxLen)
		})
	}
}

func TestDepsCellTruncatesRunesNotBytes(t *testing.T) {
	key := strings.Repeat("ü", depsCellMaxLen+10)
	cell := depsCell([]string{key})

	assert.True(t, strings.HasSuffix(cell, "..."))
	assert.Equal(t, depsCellMaxLen, len([]rune(cell)))
	assert.Equal(t, strings.Repeat("ü", depsCellMaxLen-3)+"...", cell)
}

func TestWriteListTruncatesLongDependencyLists(t *testing.T) {
	deps := make([]string, 0, 20)
	for i := 0; i < 20; i++ {
		deps = append(deps, fmt.Sprintf("component-%02d", i))
	}
	rows := []ComponentRow{{Key: "api", Type: "httpserver", Dependencies: deps}}

	var buf bytes.Buffer
	require.NoError(t, WriteList(&buf, FormatTable, rows))

	out := buf.String()
	assert.Contains(t, out, "...")
	assert.NotContains(t, out, "component-19", "tail of a long list is cut, not wrapped")
}

func TestWriteOrderTable(t *testing.T) {
	view := OrderView{
		System: "demo",
		Order:  []string{"db", "metrics", "admin"},
		Levels: [][]string{{"db", "metrics"}, {"admin"}},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteOrder(&buf, FormatTable, view))

	out := buf.String()
	assert.Contains(t, out, "POSITION")
	assert.Contains(t, out, "LEVEL")
	assert.Contains(t, out, "admin")
}

func TestWriteOrderTableWithoutLevels(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteOrder(&buf, FormatTable, OrderView{System: "demo", Order: []string{"db"}}))

	out := buf.String()
	assert.Contains(t, out, "db")
	assert.NotContains(t, out, "LEVEL")
}

func TestWriteOrderJSONRoundTrip(t *testing.T) {
	view := OrderView{System: "demo", Order: []string{"db", "admin"}}

	var buf bytes.Buffer
	require.NoError(t, WriteOrder(&buf, FormatJSON, view))

	var decoded OrderView
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, view, decoded)
}
