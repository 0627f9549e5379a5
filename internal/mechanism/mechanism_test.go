package mechanism_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brookesia/internal/mechanism"
)

func TestInferSubMechanisms(t *testing.T) {
	t.Parallel()

	sub := mechanism.InferSubMechanisms([]string{"H2", "O2", "CH4", "C2H4", "CH3CHO", "NO", "AR"})
	assert.Equal(t, 2, sub.MaxCarbon)
	assert.True(t, sub.Nitrogen)
	assert.False(t, sub.Sulfur)
	assert.False(t, sub.Silicon)

	sub = mechanism.InferSubMechanisms([]string{"SiH4", "H2S", "C3H8"})
	assert.Equal(t, 3, sub.MaxCarbon)
	assert.True(t, sub.Silicon)
	assert.True(t, sub.Sulfur)
}

func TestDefaultSubMechanisms(t *testing.T) {
	t.Parallel()

	s := &mechanism.Summary{Species: []string{"CH4", "C2H6", "N2", "H2O"}}
	assert.Equal(t, []string{"H2", "CO", "C1", "C2", "N"}, mechanism.DefaultSubMechanisms(s))
	assert.Equal(t, []string{"H2", "CO"}, mechanism.DefaultSubMechanisms(nil))
}

func TestLoadSummary(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := mechanism.SummaryPath(dir, "/data/mechs/gri30.cti")
	assert.Equal(t, filepath.Join(dir, "gri30.toml"), path)

	content := "reactions = 325\nspecies = [\"H2\", \"O2\", \"CH4\", \"C2H6\"]\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	s, err := mechanism.LoadSummary(path)
	require.NoError(t, err)
	assert.Equal(t, "gri30", s.Name)
	assert.Equal(t, 4, s.SpeciesCount())
	assert.Equal(t, 325, s.ReactionCount())
	assert.Equal(t, 2, s.SubMechanisms().MaxCarbon)
}

func TestLoadSummaryMissingFile(t *testing.T) {
	t.Parallel()

	_, err := mechanism.LoadSummary(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}
