package core

import (
	"bytes"
	"os/exec"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// syncBuffer guards a bytes.Buffer against writes from the reap loop.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestReapRetiresTerminatedChildren(t *testing.T) {
	var out syncBuffer
	m := NewSignalManager(&out)
	defer m.Close()

	cmd := exec.Command("true")
	require.NoError(t, cmd.Start())
	m.Track(cmd.Process.Pid, "true")

	assert.Eventually(t, func() bool {
		m.reap()
		return len(m.Pending()) == 0
	}, 5*time.Second, 10*time.Millisecond)
	assert.Contains(t, out.String(), "[done] pid ")
	assert.Contains(t, out.String(), "status 0")
}

func TestReapDoesNotBlockOnRunningChildren(t *testing.T) {
	var out syncBuffer
	m := NewSignalManager(&out)
	defer m.Close()

	cmd := exec.Command("sleep", "30")
	require.NoError(t, cmd.Start())
	m.Track(cmd.Process.Pid, "sleep")

	// A reap with nothing terminated is a no-op and returns at once.
	start := time.Now()
	m.reap()
	assert.Less(t, time.Since(start), time.Second)
	assert.Equal(t, []int{cmd.Process.Pid}, m.Pending())

	require.NoError(t, cmd.Process.Kill())
	assert.Eventually(t, func() bool {
		m.reap()
		return len(m.Pending()) == 0
	}, 5*time.Second, 10*time.Millisecond)
	assert.Contains(t, out.String(), "killed by")
}

func TestPendingEmpty(t *testing.T) {
	m := NewSignalManager(&syncBuffer{})
	defer m.Close()
	assert.Empty(t, m.Pending())
}
