package inventory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/popis/internal/model"
)

func TestNormalizeItemDefaults(t *testing.T) {
	in := model.ItemInput{Name: "  Monitor  ", SerialNumber: " M1 "}
	require.NoError(t, normalizeItem(&in))
	assert.Equal(t, "Monitor", in.ItemName)
	assert.Equal(t, "M1", in.SerialNumber)
	assert.Equal(t, model.ItemStatusAvailable, in.Status)
	assert.Equal(t, model.ConditionGood, in.Condition)
}

func TestNormalizeItemPrefersItemName(t *testing.T) {
	in := model.ItemInput{ItemName: "Primary", Name: "Alias", SerialNumber: "S"}
	require.NoError(t, normalizeItem(&in))
	assert.Equal(t, "Primary", in.ItemName)
}

func TestCheckers(t *testing.T) {
	assert.NoError(t, checkMAC("00-1A-2B-3C-4D-5E"))
	assert.Error(t, checkMAC("00:1A"))
	assert.NoError(t, checkIP("2001:db8::1"))
	assert.Error(t, checkIP("localhost"))
	assert.NoError(t, checkEmail("a.b@example.org"))
	assert.Error(t, checkEmail("Ana <ana@example.org>"))
	assert.NoError(t, checkDate("d", "2025-12-31"))
	assert.Error(t, checkDate("d", "2025-13-01"))
	assert.NoError(t, checkDate("d", ""))
}

func TestValidationErrorMessage(t *testing.T) {
	assert.Equal(t, "serial_number: is required", invalid("serial_number", "is required").Error())
	assert.Equal(t, "no fields to update", invalid("", "no fields to update").Error())
}
