package templates

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finadvisor/pkg/errors"
)

func TestRegistryLoadAndRender(t *testing.T) {
	base := t.TempDir()
	dir := filepath.Join(base, "prompts")
	require.NoError(t, os.MkdirAll(dir, 0o755))

	path := filepath.Join(dir, "greeting.tmpl")
	require.NoError(t, os.WriteFile(path, []byte("Hello {{.Name}}"), 0o644))

	reg, err := NewRegistry(base)
	require.NoError(t, err)

	tmpl, err := reg.GetTemplate("prompts/greeting")
	require.NoError(t, err)

	rendered, err := tmpl.Render(map[string]string{"Name": "Asha"})
	require.NoError(t, err)
	assert.Equal(t, "Hello Asha", rendered)

	// parsed content is fixed at load time
	require.NoError(t, os.WriteFile(path, []byte("Hi {{.Name}}"), 0o644))
	rendered, err = tmpl.Render(map[string]string{"Name": "Ravi"})
	require.NoError(t, err)
	assert.Equal(t, "Hello Ravi", rendered)
}

func TestRegistryLazyLoad(t *testing.T) {
	base := t.TempDir()
	reg, err := NewRegistry(base)
	require.NoError(t, err)
	assert.Empty(t, reg.List())

	path := filepath.Join(base, "prompts", "late.tmpl")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("Ticker {{.Symbol}}"), 0o644))

	rendered, err := reg.Render("prompts/late", map[string]string{"Symbol": "INFY.NS"})
	require.NoError(t, err)
	assert.Equal(t, "Ticker INFY.NS", rendered)
}

func TestRegistryMissingTemplate(t *testing.T) {
	reg, err := NewRegistryFromFS(fstest.MapFS{})
	require.NoError(t, err)

	_, err = reg.Render("prompts/nope", nil)
	assert.True(t, errors.Is(err, errors.ErrNotFound))
}

func TestRegistryLayersOverride(t *testing.T) {
	base := fstest.MapFS{
		"prompts/a.tmpl": {Data: []byte("base a")},
		"prompts/b.tmpl": {Data: []byte("base b")},
	}
	override := fstest.MapFS{
		"prompts/b.tmpl": {Data: []byte("custom b")},
	}

	reg, err := NewRegistryFromFS(base, override)
	require.NoError(t, err)

	a, err := reg.Render("prompts/a", nil)
	require.NoError(t, err)
	b, err := reg.Render("prompts/b", nil)
	require.NoError(t, err)

	assert.Equal(t, "base a", a)
	assert.Equal(t, "custom b", b)
	assert.Equal(t, []string{"prompts/a", "prompts/b"}, reg.List())
}

func TestRegistryParseError(t *testing.T) {
	_, err := NewRegistryFromFS(fstest.MapFS{
		"prompts/bad.tmpl": {Data: []byte("{{ .Broken ")},
	})
	assert.Error(t, err)
}

func TestNewRegistryWithOverride(t *testing.T) {
	t.Run("empty dir uses embedded prompts", func(t *testing.T) {
		reg, err := NewRegistryWithOverride("")
		require.NoError(t, err)
		assert.Contains(t, reg.List(), "prompts/stock_system")
	})

	t.Run("directory overrides one prompt", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(dir, "prompts"), 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "prompts", "stock_system.tmpl"), []byte("custom {{.Tools}}"), 0o644))

		reg, err := NewRegistryWithOverride(dir)
		require.NoError(t, err)

		out, err := reg.Render("prompts/stock_system", map[string]string{"Tools": "x"})
		require.NoError(t, err)
		assert.Equal(t, "custom x", out)

		out, err = reg.Render("prompts/financial_system", map[string]string{"Tools": "x"})
		require.NoError(t, err)
		assert.Contains(t, out, "FinancialAdvisor")
	})

	t.Run("missing directory", func(t *testing.T) {
		_, err := NewRegistryWithOverride(filepath.Join(t.TempDir(), "absent"))
		assert.Error(t, err)
	})

	t.Run("file instead of directory", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "file.txt")
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
		_, err := NewRegistryWithOverride(path)
		assert.True(t, errors.Is(err, errors.ErrInvalidInput))
	})
}
