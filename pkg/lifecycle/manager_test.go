package lifecycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShutdownWakesSleepingService(t *testing.T) {
	m := NewManager()
	handle, err := m.NewServiceHandle("worker")
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		defer handle.Close()
		done <- handle.Sleep(time.Hour)
	}()

	m.Shutdown()

	select {
	case err := <-done:
		assert.Error(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("sleep was not interrupted by shutdown")
	}

	remaining := m.WaitWithTimeout(2 * time.Second)
	assert.Empty(t, remaining)
}

func TestWaitWithTimeoutReportsStuckServices(t *testing.T) {
	m := NewManager()
	_, err := m.NewServiceHandle("stuck")
	require.NoError(t, err)

	m.Shutdown()
	remaining := m.WaitWithTimeout(50 * time.Millisecond)
	assert.Equal(t, []string{"stuck"}, remaining)
}

func TestDuplicateServiceNameRejected(t *testing.T) {
	m := NewManager()
	_, err := m.NewServiceHandle("worker")
	require.NoError(t, err)

	_, err = m.NewServiceHandle("worker")
	assert.Error(t, err)
}

func TestSleepReturnsNilAfterDuration(t *testing.T) {
	m := NewManager()
	handle, err := m.NewServiceHandle("worker")
	require.NoError(t, err)
	defer handle.Close()

	assert.NoError(t, handle.Sleep(time.Millisecond))
}
