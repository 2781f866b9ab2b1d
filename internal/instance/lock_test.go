package instance

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquireIsExclusive(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "state")

	first, err := Acquire(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "skylaunch.lock"), first.Path())

	_, err = Acquire(dir)
	require.ErrorIs(t, err, ErrAlreadyRunning)
	assert.Contains(t, err.Error(), first.Path())

	require.NoError(t, first.Release())

	again, err := Acquire(dir)
	require.NoError(t, err)
	assert.NoError(t, again.Release())
}

func TestAcquireSeparateDirs(t *testing.T) {
	a, err := Acquire(t.TempDir())
	require.NoError(t, err)
	defer a.Release()

	b, err := Acquire(t.TempDir())
	require.NoError(t, err)
	defer b.Release()
}
