package boosts

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schappie/backend/internal/domain"
)

func writeBoostsFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "boosts.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeBoostsFile(t, `{
		"Melk": {"dairy": 0.9, "drinks": 0.2},
		"banaan": {"produce": 1.0}
	}`)

	table := Load(path)

	require.NotNil(t, table)
	assert.Len(t, table, 2)
	// Queries are lowercased
	assert.Equal(t, 0.9, table["melk"][domain.CategoryDairy])
	assert.Equal(t, 1.0, table["banaan"][domain.CategoryProduce])
}

func TestLoad_MissingFile(t *testing.T) {
	assert.Nil(t, Load(filepath.Join(t.TempDir(), "absent.json")))
	assert.Nil(t, Load(""))
}

func TestLoad_InvalidJSON(t *testing.T) {
	path := writeBoostsFile(t, `{broken`)
	assert.Nil(t, Load(path))
}

func TestLoad_Sanitization(t *testing.T) {
	path := writeBoostsFile(t, `{
		"melk": {"dairy": 1.5, "niet-bestaand": 0.9},
		"  ": {"dairy": 0.5},
		"leeg": {"niet-bestaand": 0.5}
	}`)

	table := Load(path)

	require.NotNil(t, table)
	// Weights clamp into [0,1]
	assert.Equal(t, 1.0, table["melk"][domain.CategoryDairy])
	// Unknown categories are dropped
	_, ok := table["melk"]["niet-bestaand"]
	assert.False(t, ok)
	// Blank queries and entries with no valid categories disappear
	assert.Len(t, table, 1)
}
