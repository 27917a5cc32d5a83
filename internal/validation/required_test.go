package validation

import (
	"testing"

	"gochance/domain/weighted"
	"gochance/internal/errors"

	"github.com/stretchr/testify/assert"
)

func TestStruct_ValidTable(t *testing.T) {
	table := weighted.Table{
		Name:    "coins",
		Entries: []weighted.Entry{{Value: "heads", Weight: weighted.Float(1)}},
	}
	assert.NoError(t, Struct(table))
}

func TestStruct_ZeroWeightIsSet(t *testing.T) {
	table := weighted.Table{
		Name: "coins",
		Entries: []weighted.Entry{
			{Value: "edge", Weight: weighted.Float(0)},
			{Value: "heads", Weight: weighted.Float(1)},
		},
	}
	assert.NoError(t, Struct(table))
}

func TestStruct_MissingFields(t *testing.T) {
	table := weighted.Table{
		Entries: []weighted.Entry{{Value: "heads"}},
	}
	err := Struct(table)
	assert.Equal(t, errors.CodeValidationError, errors.GetCode(err))
	assert.Contains(t, err.Error(), "Table.Name is required")
	assert.Contains(t, err.Error(), "Table.Entries[0].Weight is required")
}

func TestStruct_NoEntries(t *testing.T) {
	err := Struct(weighted.Table{Name: "empty", Entries: []weighted.Entry{}})
	assert.Contains(t, err.Error(), "Entries")
}
