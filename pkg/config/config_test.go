package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/gridrange/pkg/alg/hyperrect"
)

// writeConfig writes a YAML config file into a temp dir and returns its path.
func writeConfig(t *testing.T, contents string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "grid.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))

	return path
}

// TestLoad_FromYAML verifies file loading and defaulting.
func TestLoad_FromYAML(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, "dims: [4, 4]\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []int{4, 4}, cfg.Dims)
	assert.Equal(t, int64(0), cfg.Fill, "fill defaults to zero")
	assert.Empty(t, cfg.Values)
}

// TestLoad_ExplicitValues verifies loading explicit initial cells.
func TestLoad_ExplicitValues(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, "dims: [2, 2]\nvalues: [1, 2, 3, 4]\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []int64{1, 2, 3, 4}, cfg.Values)
}

// TestLoad_MissingFile verifies the wrapped read error.
func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

// TestLoad_EnvOverride verifies GRIDRANGE_FILL takes effect.
func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("GRIDRANGE_FILL", "7")

	path := writeConfig(t, "dims: [3]\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, int64(7), cfg.Fill)
}

// TestValidate verifies every configuration invariant.
func TestValidate(t *testing.T) {
	t.Parallel()

	assert.ErrorIs(t, (&GridConfig{}).Validate(), ErrNoDims)
	assert.ErrorIs(t, (&GridConfig{Dims: []int{4, 0}}).Validate(), ErrNonPositiveDim)
	assert.ErrorIs(t, (&GridConfig{Dims: []int{2, 2}, Values: []int64{1}}).Validate(), ErrValuesMismatch)
	assert.NoError(t, (&GridConfig{Dims: []int{2, 3}}).Validate())
}

// TestNewTree_Fill verifies uniform-fill construction.
func TestNewTree_Fill(t *testing.T) {
	t.Parallel()

	cfg := &GridConfig{Dims: []int{3, 3}, Fill: 2}

	tree, err := cfg.NewTree()
	require.NoError(t, err)

	total, err := tree.QueryRange(hyperrect.New([]int{0, 0}, []int{3, 3}))
	require.NoError(t, err)
	assert.Equal(t, int64(18), total)
}

// TestNewTree_Values verifies explicit-values construction.
func TestNewTree_Values(t *testing.T) {
	t.Parallel()

	cfg := &GridConfig{Dims: []int{2, 2}, Values: []int64{1, 2, 3, 4}}

	tree, err := cfg.NewTree()
	require.NoError(t, err)

	got, err := tree.Get([]int{1, 0})
	require.NoError(t, err)
	assert.Equal(t, int64(3), got)

	total, err := tree.QueryRange(tree.Domain())
	require.NoError(t, err)
	assert.Equal(t, int64(10), total)
}

// TestNewTree_Invalid verifies validation happens before construction.
func TestNewTree_Invalid(t *testing.T) {
	t.Parallel()

	_, err := (&GridConfig{Dims: []int{-1}}).NewTree()
	assert.ErrorIs(t, err, ErrNonPositiveDim)
}
