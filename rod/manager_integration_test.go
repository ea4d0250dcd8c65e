//go:build integration

package rod

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_RecyclesAfterMaxSessions(t *testing.T) {
	t.Parallel()

	m := &Manager{maxSessions: 3}
	require.NoError(t, m.launch())
	defer m.Close()

	first := m.Browser()
	require.NotNil(t, first)

	m.IncrementSessionCount()
	m.IncrementSessionCount()
	m.IncrementSessionCount()

	second := m.Browser()
	require.NotNil(t, second)
	assert.NotSame(t, first, second)
}

func TestManager_DoesNotRecycleBeforeMaxSessions(t *testing.T) {
	t.Parallel()

	m := &Manager{maxSessions: 5}
	require.NoError(t, m.launch())
	defer m.Close()

	first := m.Browser()
	require.NotNil(t, first)

	m.IncrementSessionCount()
	m.IncrementSessionCount()

	assert.Same(t, first, m.Browser())
}

func TestManager_Close_Idempotent(t *testing.T) {
	t.Parallel()

	m := &Manager{maxSessions: DefaultMaxSessions}
	require.NoError(t, m.launch())

	require.NoError(t, m.Close())
	require.NoError(t, m.Close())
}
