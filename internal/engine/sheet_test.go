package engine

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinSheetIsValid(t *testing.T) {
	require.NoError(t, builtinSheet.Validate())
	assert.Len(t, builtinSheet.RateTable, 22)

	// The cash-out table deliberately stops at 680-699.
	_, ok := builtinSheet.Transaction[TxCashOut]["660-679"]
	assert.False(t, ok)
}

func TestSheetStorePublish(t *testing.T) {
	store := NewSheetStore()
	assert.Equal(t, "2025-08-builtin", store.Current().Version)

	next := cloneBuiltin(t)
	next.Version = "2025-09"
	require.NoError(t, store.Publish(next))
	assert.Equal(t, "2025-09", store.Current().Version)
}

func TestSheetStorePublishRejectsInvalid(t *testing.T) {
	store := NewSheetStore()

	bad := cloneBuiltin(t)
	bad.RateTable = nil
	require.Error(t, store.Publish(bad))
	assert.Equal(t, "2025-08-builtin", store.Current().Version)
}

func TestSheetStoreLoadFile(t *testing.T) {
	store := NewSheetStore()

	next := cloneBuiltin(t)
	next.Version = "2025-10-file"
	data, err := json.Marshal(next)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "sheet.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	loaded, err := store.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "2025-10-file", loaded.Version)
	assert.Equal(t, "2025-10-file", store.Current().Version)

	// The round trip preserves both numeric and N/O cells.
	assert.False(t, loaded.LoanAmount["<=$3,000,000"][0].Offered)
	assert.Equal(t, builtinSheet.Transaction[TxPurchase]["780+"], loaded.Transaction[TxPurchase]["780+"])
}

func TestSheetStoreLoadFileKeepsPreviousOnError(t *testing.T) {
	store := NewSheetStore()

	path := filepath.Join(t.TempDir(), "sheet.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := store.LoadFile(path)
	require.Error(t, err)
	assert.Equal(t, "2025-08-builtin", store.Current().Version)

	_, err = store.LoadFile(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.Equal(t, "2025-08-builtin", store.Current().Version)
}

// cloneBuiltin deep-copies the compiled-in sheet through its JSON form.
func cloneBuiltin(t *testing.T) *RateSheet {
	t.Helper()
	data, err := json.Marshal(builtinSheet)
	require.NoError(t, err)
	sheet := &RateSheet{}
	require.NoError(t, json.Unmarshal(data, sheet))
	return sheet
}
