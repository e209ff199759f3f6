package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/Veraticus/finsense/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCategories(t *testing.T) {
	cats := DefaultCategories()
	require.Len(t, cats, 12)

	var highImpact []string
	names := map[string]bool{}
	for _, c := range cats {
		assert.True(t, c.Type.Valid(), c.Name)
		assert.Regexp(t, `^#[0-9a-f]{6}$`, c.Color)
		assert.False(t, names[c.Name], "duplicate %s", c.Name)
		names[c.Name] = true
		if c.HighImpact {
			highImpact = append(highImpact, c.Name)
		}
	}
	assert.Equal(t, []string{"Loan Payments", "Equipment"}, highImpact)
}

func TestParse(t *testing.T) {
	cats, err := Parse([]byte(`
categories:
  - name: " Loan Payments "
    type: expense
    color: "#dc2626"
    high_impact: true
  - name: Revenue
    type: revenue
`))
	require.NoError(t, err)
	require.Len(t, cats, 2)
	assert.Equal(t, "Loan Payments", cats[0].Name)
	assert.True(t, cats[0].HighImpact)
	assert.Equal(t, model.CategoryTypeRevenue, cats[1].Type)
	assert.False(t, cats[1].HighImpact)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr string
	}{
		{name: "not yaml", data: "categories: [", wantErr: "failed to parse YAML"},
		{name: "missing name", data: "categories:\n  - type: expense\n", wantErr: "missing name"},
		{name: "bad type", data: "categories:\n  - name: X\n    type: asset\n", wantErr: "unknown type"},
		{name: "duplicate", data: "categories:\n  - name: X\n  - name: x\n", wantErr: "listed twice"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "categories.yaml")
	require.NoError(t, os.WriteFile(path, []byte("categories:\n  - name: Travel\n"), 0600))

	cats, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, cats, 1)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

type recordingImporter struct {
	got []model.Category
}

func (r *recordingImporter) ImportCategories(_ context.Context, cats []model.Category) (int, error) {
	r.got = append(r.got, cats...)
	return len(cats), nil
}

func TestSeed(t *testing.T) {
	imp := &recordingImporter{}
	n, err := Seed(context.Background(), imp)
	require.NoError(t, err)
	assert.Equal(t, 12, n)
	assert.Equal(t, DefaultCategories(), imp.got)
}
