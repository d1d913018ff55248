package backup

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotFilenameLayout(t *testing.T) {
	ts := time.Date(2025, 8, 5, 14, 30, 5, 0, time.Local)
	assert.Equal(t, "products_20250805_143005.json", snapshotFilename(ts))
}

func TestEncodeSnapshotWritesBareNumbers(t *testing.T) {
	image := "img/tea.jpg"
	entries := []SnapshotProduct{
		{Name: "Smoked Tea", Description: "Lapsang", Price: jsonPrice{decimal.RequireFromString("10.5")}, Category: "Teas", ImagePath: &image},
		{Name: "Plain Tea", Price: jsonPrice{decimal.RequireFromString("3")}, Category: "Teas"},
	}

	data, err := encodeSnapshot(entries)
	require.NoError(t, err)

	text := string(data)
	assert.Contains(t, text, `"price": 10.5`)
	assert.Contains(t, text, `"price": 3`)
	assert.Contains(t, text, `"image_path": null`)
	assert.True(t, strings.HasPrefix(text, "[\n    {"), "expected 4-space indent, got %q", text[:20])
}

func TestDecodeSnapshotAcceptsBareAndQuotedPrices(t *testing.T) {
	data := []byte(`[
    {
        "name": "Smoked Tea",
        "description": "",
        "price": 10.5,
        "category": "Teas",
        "image_path": null
    },
    {
        "name": "Plain Tea",
        "description": "",
        "price": "3.00",
        "category": "Teas",
        "image_path": "img/plain.jpg"
    }
]`)

	entries, err := decodeSnapshot(data)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.True(t, entries[0].Price.Equal(decimal.RequireFromString("10.5")))
	assert.Nil(t, entries[0].ImagePath)
	assert.True(t, entries[1].Price.Equal(decimal.RequireFromString("3")))
	require.NotNil(t, entries[1].ImagePath)
	assert.Equal(t, "img/plain.jpg", *entries[1].ImagePath)
}

func TestDecodeSnapshotRejectsMalformed(t *testing.T) {
	_, err := decodeSnapshot([]byte(`{"not": "an array"`))
	require.Error(t, err)
}

func TestWriteSnapshotRefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products_20250805_143005.json")
	require.NoError(t, writeSnapshot(path, []byte("[]")))

	err := writeSnapshot(path, []byte("[]"))
	require.Error(t, err)
	assert.True(t, os.IsExist(err))
}
