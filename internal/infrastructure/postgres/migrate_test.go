package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrations_Embedded(t *testing.T) {
	list, err := Migrations()
	require.NoError(t, err)
	require.NotEmpty(t, list)

	assert.Equal(t, "001", list[0].Version)
	for _, table := range []string{"locations", "suppliers", "items", "movements"} {
		assert.Contains(t, list[0].SQL, "CREATE TABLE IF NOT EXISTS "+table)
	}
	// Los nombres que mapean errores de dominio deben existir en el esquema.
	for _, c := range []string{"items_sku_key", "items_location_id_fkey", "items_supplier_id_fkey",
		"locations_code_key", "suppliers_tax_id_key", "movements_item_id_fkey"} {
		assert.Contains(t, list[0].SQL, c)
	}
}
