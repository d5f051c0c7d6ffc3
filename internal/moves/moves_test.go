package moves

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/pkghome/internal/entity"
)

// Test Plan for moves:
// - Documents decode per project; unknown projects have no moves
// - A move is confirmed only when location, signature and package match
// - Missing documents report ErrMovesNotFound; malformed ones fail to decode
// - A nil index behaves as empty

const doc = `{
  "shop": [
    {
      "signature": "total(Order, int)",
      "file_path": "/test/shop/com/shop/service/Billing.java",
      "line_from": 10,
      "line_to": 14,
      "package_orig": "com.shop.model",
      "class_name": "Billing",
      "method_name": "total",
      "package_moved": "com.shop.service"
    }
  ],
  "other": []
}`

func TestParse(t *testing.T) {
	t.Parallel()

	idx, err := Parse(strings.NewReader(doc), "shop")
	require.NoError(t, err)
	assert.Equal(t, 1, idx.Len())

	m, ok := idx.Lookup("/test/shop/com/shop/service/Billing.java", 10, 14)
	require.True(t, ok)
	assert.Equal(t, "com.shop.service", m.PackageMoved)
	assert.Equal(t, "Billing", m.ClassName)

	empty, err := Parse(strings.NewReader(doc), "missing")
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Len())
}

func TestConfirm(t *testing.T) {
	t.Parallel()

	idx, err := Parse(strings.NewReader(doc), "shop")
	require.NoError(t, err)

	const keyPath = "/test/shop/com/shop/service/Billing.java"
	method := func(pkg, signature string, from, to int) *entity.Method {
		name, _, _ := strings.Cut(signature, "(")
		return entity.NewMethod(pkg, entity.Method(pkg, name, signature), "/abs"+keyPath, from, to)
	}

	tests := []struct {
		name   string
		method *entity.Method
		want   bool
	}{
		{"match", method("com.shop.model", "total(Order, int)", 10, 14), true},
		{"signature differs", method("com.shop.model", "total(Order)", 10, 14), false},
		{"package differs", method("com.shop.service", "total(Order, int)", 10, 14), false},
		{"lines differ", method("com.shop.model", "total(Order, int)", 10, 15), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, ok := idx.Confirm(tt.method, keyPath)
			assert.Equal(t, tt.want, ok)
		})
	}
}

func TestLoad(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "move.json"), "shop")
	assert.ErrorIs(t, err, ErrMovesNotFound)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0o644))
	_, err = Load(bad, "shop")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrMovesNotFound)

	good := filepath.Join(dir, "good.json")
	require.NoError(t, os.WriteFile(good, []byte(doc), 0o644))
	idx, err := Load(good, "shop")
	require.NoError(t, err)
	assert.Equal(t, 1, idx.Len())
}

func TestNilIndex(t *testing.T) {
	t.Parallel()

	var idx *Index
	assert.Equal(t, 0, idx.Len())
	_, ok := idx.Lookup("/a", 1, 2)
	assert.False(t, ok)
}
