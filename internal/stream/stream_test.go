package stream

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_CreatesParentsAndTruncates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "build", "gmake", "Engine.make")

	s, err := Open(path)
	require.NoError(t, err)
	s.Print("first run, much longer content\n")
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	s.Print("CONFIG := %s\n", "Debug")
	require.NoError(t, s.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "CONFIG := Debug\n", string(data))
}

func TestPrintAndWriteString(t *testing.T) {
	var buf bytes.Buffer
	s := New("buffer", &buf)

	s.WriteString("100% literal $(CONFIG)\n")
	s.Print("%s=%d\n", "jobs", 4)
	s.Print("100%% done\n")
	require.NoError(t, s.Close())

	assert.Equal(t, "100% literal $(CONFIG)\njobs=4\n100% done\n", buf.String())
}

func TestWriteString_DroppedAfterClose(t *testing.T) {
	var buf bytes.Buffer
	s := New("buffer", &buf)
	s.WriteString("kept")
	require.NoError(t, s.Close())

	s.WriteString("dropped")
	assert.Equal(t, "kept", buf.String())
}

func TestClose_Idempotent(t *testing.T) {
	var buf bytes.Buffer
	s := New("buffer", &buf)
	s.Print("x")

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	s.Print("dropped")
	assert.Equal(t, "x", buf.String())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestClose_ReportsWriteError(t *testing.T) {
	s := New("broken", failingWriter{})
	s.Print("some text")

	err := s.Close()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Contains(t, err.Error(), "broken")
}
