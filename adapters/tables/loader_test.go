package tables

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"gochance/domain/weighted"
	"gochance/internal"
	"gochance/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func quietLoader() *Loader {
	return NewLoader(internal.NewLoggerTo(internal.LogLevelError, io.Discard))
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_YAMLFlat(t *testing.T) {
	path := writeFile(t, "coins.yaml", `
name: coins
entries:
  - value: heads
    weight: 0.5
  - value: tails
    weight: 0.5
`)
	table, err := quietLoader().Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "coins", table.Name)

	kind, err := table.Kind()
	require.NoError(t, err)
	assert.Equal(t, weighted.KindFlat, kind)
	assert.Equal(t, []weighted.Outcome[string]{{Value: "heads", Weight: 0.5}, {Value: "tails", Weight: 0.5}}, table.Flat())
}

func TestLoad_JSONGrouped(t *testing.T) {
	path := writeFile(t, "chests.json", `{
  "name": "chests",
  "entries": [
    {"group": ["sword", "axe"], "weight": 0.1},
    {"group": ["potion"], "weight": 0.9}
  ]
}`)
	table, err := quietLoader().Load(context.Background(), path)
	require.NoError(t, err)

	kind, err := table.Kind()
	require.NoError(t, err)
	assert.Equal(t, weighted.KindGrouped, kind)
	assert.Equal(t, []string{"sword", "axe"}, table.Grouped()[0].Members)
}

func TestLoad_MissingWeightRejected(t *testing.T) {
	path := writeFile(t, "broken.yaml", `
name: broken
entries:
  - value: heads
  - value: tails
    weight: 1
`)
	_, err := quietLoader().Load(context.Background(), path)
	require.Error(t, err)
	assert.Equal(t, errors.CodeValidationError, errors.GetCode(err))
	assert.Contains(t, err.Error(), "Entries[0].Weight is required")
}

func TestLoad_MixedTableRejected(t *testing.T) {
	path := writeFile(t, "mixed.yaml", `
name: mixed
entries:
  - value: gold
    weight: 0.5
  - group: [gem]
    weight: 0.5
`)
	_, err := quietLoader().Load(context.Background(), path)
	require.Error(t, err)
	assert.Equal(t, errors.CodeValidationError, errors.GetCode(err))
}

func TestLoad_CSVGroups(t *testing.T) {
	path := writeFile(t, "ores.csv", "value,weight,group\ncopper,0.7,common\ntin,,common\ngold,0.3,rare\n")

	table, err := quietLoader().Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "ores", table.Name)

	groups := table.Grouped()
	require.Len(t, groups, 2)
	assert.Equal(t, []string{"copper", "tin"}, groups[0].Members)
	assert.Equal(t, 0.7, groups[0].Weight)
	assert.Equal(t, []string{"gold"}, groups[1].Members)
}

func TestLoad_CSVConflictingGroupWeight(t *testing.T) {
	path := writeFile(t, "ores.csv", "value,weight,group\ncopper,0.7,common\ntin,0.7,common\niron,0.5,common\ngold,0.3,rare\n")

	_, err := quietLoader().Load(context.Background(), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 4")
	assert.Contains(t, err.Error(), `group "common"`)
}

func TestLoad_Workbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weather.xlsx")

	f := excelize.NewFile()
	rows := [][]interface{}{
		{"Value", "Weight"},
		{"sun", 0.6},
		{"rain", 0.3},
		{"storm", 0.1},
	}
	for i, row := range rows {
		cellRef, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cellRef, &row))
	}
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	table, err := quietLoader().Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "weather", table.Name)
	assert.Equal(t, []string{"sun", "rain", "storm"}, table.Labels())
	assert.InDelta(t, 1.0, table.TotalWeight(), 1e-12)
}

func TestLoad_BadWeightCell(t *testing.T) {
	path := writeFile(t, "bad.csv", "value,weight\nsun,lots\n")
	_, err := quietLoader().Load(context.Background(), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 2")
}

func TestLoad_UnknownExtensionAndMissingFile(t *testing.T) {
	path := writeFile(t, "table.toml", "name = 'x'")
	_, err := quietLoader().Load(context.Background(), path)
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))

	_, err = quietLoader().Load(context.Background(), filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Equal(t, errors.CodeNotFound, errors.GetCode(err))
}

func TestLoad_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := quietLoader().Load(ctx, "whatever.yaml")
	assert.ErrorIs(t, err, context.Canceled)
}
