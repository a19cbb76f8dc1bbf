package hooks

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMutationLifecycle(t *testing.T) {
	fail := true
	m := NewMutation(func(_ context.Context, in string) (string, error) {
		if fail {
			return "", errors.New("nope")
		}
		return "ok:" + in, nil
	})
	assert.Equal(t, StatusIdle, m.State().Status)

	_, err := m.Mutate(context.Background(), "x")
	require.Error(t, err)
	state := m.State()
	assert.Equal(t, StatusError, state.Status)
	assert.False(t, state.HasData)

	fail = false
	out, err := m.Mutate(context.Background(), "y")
	require.NoError(t, err)
	assert.Equal(t, "ok:y", out)
	state = m.State()
	assert.Equal(t, StatusSuccess, state.Status)
	assert.Nil(t, state.Err)
	assert.Equal(t, "ok:y", state.Data)

	m.Reset()
	assert.Equal(t, StatusIdle, m.State().Status)
}

func TestMutationPendingWhileRunning(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	m := NewMutation(func(_ context.Context, in int) (int, error) {
		close(started)
		<-release
		return in, nil
	})

	go func() { _, _ = m.Mutate(context.Background(), 1) }()
	<-started
	assert.True(t, m.State().IsPending())
	close(release)
	assert.Eventually(t, func() bool { return m.State().Status == StatusSuccess }, time.Second, time.Millisecond)
}
