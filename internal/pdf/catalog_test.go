package pdf

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayoub-kd/costume-rental/internal/model"
)

func TestWriteCatalog(t *testing.T) {
	cat := "fantasy"
	costumes := []model.Costume{
		{ID: 1, Name: "Pirate", Category: &cat, PricePerDayCents: 2000},
		{ID: 2, Name: "Witch", PricePerDayCents: 1550},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCatalog(&buf, costumes))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
	assert.Greater(t, buf.Len(), 500)
}

func TestWriteCatalogEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCatalog(&buf, nil))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}

func TestWriteCatalogManyPages(t *testing.T) {
	costumes := make([]model.Costume, 120)
	for i := range costumes {
		costumes[i] = model.Costume{ID: uint64(i + 1), Name: "Costume", PricePerDayCents: 1000}
	}
	var buf bytes.Buffer
	require.NoError(t, WriteCatalog(&buf, costumes))
	assert.Greater(t, buf.Len(), 1000)
}
