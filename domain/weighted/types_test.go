package weighted

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableKind(t *testing.T) {
	flat := Table{Name: "coins", Entries: []Entry{
		{Value: "heads", Weight: Float(0.5)},
		{Value: "tails", Weight: Float(0.5)},
	}}
	kind, err := flat.Kind()
	require.NoError(t, err)
	assert.Equal(t, KindFlat, kind)
	assert.InDelta(t, 1.0, flat.TotalWeight(), 1e-12)
	assert.Equal(t, []string{"heads", "tails"}, flat.Labels())

	grouped := Table{Name: "chests", Entries: []Entry{
		{Group: []string{"sword", "axe"}, Weight: Float(0.25)},
		{Group: []string{"potion"}, Weight: Float(0.75)},
	}}
	kind, err = grouped.Kind()
	require.NoError(t, err)
	assert.Equal(t, KindGrouped, kind)

	groups := grouped.Grouped()
	require.Len(t, groups, 2)
	assert.Equal(t, []string{"sword", "axe"}, groups[0].Members)
	assert.Equal(t, 0.75, groups[1].Weight)
}

func TestTableKindRejectsMixedEntries(t *testing.T) {
	mixed := Table{Name: "bad", Entries: []Entry{
		{Value: "gold", Weight: Float(0.5)},
		{Group: []string{"gem"}, Weight: Float(0.5)},
	}}
	_, err := mixed.Kind()
	assert.Error(t, err)

	both := Table{Name: "bad", Entries: []Entry{
		{Value: "gold", Group: []string{"gem"}, Weight: Float(1)},
	}}
	_, err = both.Kind()
	assert.Error(t, err)
}

func TestEmptyGroupEntryIsGrouped(t *testing.T) {
	table := Table{Name: "empty", Entries: []Entry{{Group: []string{}, Weight: Float(1)}}}
	kind, err := table.Kind()
	require.NoError(t, err)
	assert.Equal(t, KindGrouped, kind)
	assert.Empty(t, table.Grouped()[0].Members)
}
