package design

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsComplete(t *testing.T) {
	ds := Default()
	assert.Empty(t, ds.Missing())
	assert.True(t, ds.Complete())
	assert.Equal(t, "#3b82f6", ds.ColorPalette.Primary)
}

func TestMissingReportsPartialSystems(t *testing.T) {
	ds := Default()
	ds.ColorPalette.Warning = ""
	ds.Typography.FontWeights.Bold = 0
	ds.Spacing.XXXL = ""

	missing := ds.Missing()
	assert.ElementsMatch(t, []string{
		"colorPalette.warning",
		"typography.fontWeights.bold",
		"spacing.3xl",
	}, missing)
	assert.False(t, ds.Complete())
}

func TestSystemDecodesModelShape(t *testing.T) {
	raw := `{
		"colorPalette": {"primary": "#111111"},
		"spacing": {"2xl": "3rem", "3xl": "4rem"},
		"componentStyles": {"card": {"padding": 16, "shadow": "lg"}}
	}`

	var ds System
	require.NoError(t, json.Unmarshal([]byte(raw), &ds))
	assert.Equal(t, "#111111", ds.ColorPalette.Primary)
	assert.Equal(t, "4rem", ds.Spacing.XXXL)
	assert.Equal(t, float64(16), ds.ComponentStyles.Card["padding"])
	assert.False(t, ds.Complete())
}
