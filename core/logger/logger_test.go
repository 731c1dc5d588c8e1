package logger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf)

	require.NoError(t, l.Record(&Entry{
		Statement: "sleep 5 &",
		Args:      []string{"sleep", "5"},
		Pids:      []int{4242},
		Background: true,
	}))
	require.NoError(t, l.Record(&Entry{
		Statement: "cat < missing.txt",
		Status:    1,
		Error:     "open missing.txt: no such file or directory",
	}))
	require.NoError(t, l.Record(&Entry{
		Statement: "ls | wc -l",
		Args:      []string{"ls"},
		RightArgs: []string{"wc", "-l"},
		Pids:      []int{100, 101},
	}))

	var entries []*Entry
	require.NoError(t, ReadLog(&buf, func(e *Entry) {
		entries = append(entries, e)
	}))
	require.Len(t, entries, 3)

	assert.Equal(t, "sleep 5 &", entries[0].Statement)
	assert.Equal(t, []int{4242}, entries[0].Pids)
	assert.True(t, entries[0].Background)
	assert.NotZero(t, entries[0].TimestampMicros)

	assert.Equal(t, 1, entries[1].Status)
	assert.Contains(t, entries[1].Error, "missing.txt")

	assert.Equal(t, []string{"ls"}, entries[2].Args)
	assert.Equal(t, []string{"wc", "-l"}, entries[2].RightArgs)
	assert.Equal(t, []int{100, 101}, entries[2].Pids)
}

func TestNilLogDiscards(t *testing.T) {
	var l *Log
	assert.NoError(t, l.Record(&Entry{Statement: "ls"}))
}

func TestReadLogBadInput(t *testing.T) {
	err := ReadLog(strings.NewReader("{not json"), func(e *Entry) {})
	assert.Error(t, err)
}
