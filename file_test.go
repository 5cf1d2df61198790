package gzstream

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/andybalholm/gzstream/gzerr"
)

func tempPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), uuid.NewString()+".gz")
}

func TestFileWriteThenReadRoundTrip(t *testing.T) {
	path := tempPath(t)

	w := NewFile(Options{Mode: Writable, BufSize: 512})
	require.NoError(t, w.Open(path, Writable))
	_, err := w.Write([]byte("hello, gzstream facade\n"))
	require.NoError(t, err)
	require.NoError(t, w.FinalFlush())
	require.NoError(t, w.Close())

	r := NewFile(Options{Mode: Readable, BufSize: 512})
	require.NoError(t, r.Open(path, Readable))
	got := make([]byte, 512)
	n, err := r.Read(got)
	require.NoError(t, err)
	require.Equal(t, "hello, gzstream facade\n", string(got[:n]))
	require.NoError(t, r.Close())
}

func TestFileReadLineIncludesDelimiter(t *testing.T) {
	path := tempPath(t)
	w := NewFile(Options{Mode: Writable, BufSize: 512})
	require.NoError(t, w.Open(path, Writable))
	require.NoError(t, w.WriteLines([]string{"first", "second", "third"}))
	require.NoError(t, w.FinalFlush())
	require.NoError(t, w.Close())

	r := NewFile(Options{Mode: Readable, BufSize: 512})
	require.NoError(t, r.Open(path, Readable))
	line, err := r.ReadLine()
	require.NoError(t, err)
	require.Equal(t, "first\n", line)
	require.NoError(t, r.Close())
}

func TestFileReadLineDelimiterFirstByte(t *testing.T) {
	path := tempPath(t)
	w := NewFile(Options{Mode: Writable, BufSize: 512})
	require.NoError(t, w.Open(path, Writable))
	_, err := w.Write([]byte("\nafter"))
	require.NoError(t, err)
	require.NoError(t, w.FinalFlush())
	require.NoError(t, w.Close())

	r := NewFile(Options{Mode: Readable, BufSize: 512})
	require.NoError(t, r.Open(path, Readable))
	line, err := r.ReadLine()
	require.NoError(t, err)
	require.Equal(t, "\n", line)
	require.NoError(t, r.Close())
}

func TestFileReadLines(t *testing.T) {
	path := tempPath(t)
	w := NewFile(Options{Mode: Writable, BufSize: 512})
	require.NoError(t, w.Open(path, Writable))
	require.NoError(t, w.WriteLines([]string{"alpha", "beta", "gamma"}))
	require.NoError(t, w.FinalFlush())
	require.NoError(t, w.Close())

	r := NewFile(Options{Mode: Readable, BufSize: 512})
	require.NoError(t, r.Open(path, Readable))
	var lines []string
	for line := range r.ReadLines() {
		lines = append(lines, line)
	}
	require.NoError(t, r.Close())
	require.Equal(t, []string{"alpha", "beta", "gamma"}, lines)
}

func TestFileReopen(t *testing.T) {
	pathA := tempPath(t)
	pathB := tempPath(t)

	f := NewFile(Options{Mode: Writable, BufSize: 512})
	require.NoError(t, f.Open(pathA, Writable))
	_, err := f.Write([]byte("first file"))
	require.NoError(t, err)

	require.NoError(t, f.Open(pathB, Writable))
	_, err = f.Write([]byte("second file"))
	require.NoError(t, err)
	require.NoError(t, f.FinalFlush())
	require.NoError(t, f.Close())

	stat, err := os.Stat(pathA)
	require.NoError(t, err)
	require.NotZero(t, stat.Size())

	r := NewFile(Options{Mode: Readable, BufSize: 512})
	require.NoError(t, r.Open(pathB, Readable))
	got := make([]byte, 512)
	n, err := r.Read(got)
	require.NoError(t, err)
	require.Equal(t, "second file", string(got[:n]))
	require.NoError(t, r.Close())
}

func TestFileDeferredAllocationDoesNotTouchDisk(t *testing.T) {
	f := NewFile(Options{Mode: Readable})
	require.True(t, f.IsClosed())
	require.False(t, f.IsOpen())
	require.NoError(t, f.Close())
}

func TestFileNativeHandleIsInformationalOnly(t *testing.T) {
	path := tempPath(t)
	f := NewFile(Options{Mode: Writable, BufSize: 512})
	require.NoError(t, f.Open(path, Writable))
	h, ok := f.NativeHandle().(*os.File)
	require.True(t, ok)
	require.Equal(t, path, h.Name())
	require.NoError(t, f.Close())
}

func TestFileOpenMissingFileFails(t *testing.T) {
	f := NewFile(Options{Mode: Readable})
	err := f.Open(filepath.Join(t.TempDir(), "does-not-exist.gz"), Readable)
	require.Error(t, err)
	var e *gzerr.Error
	require.True(t, errors.As(err, &e))
	require.Equal(t, gzerr.OpenFailed, e.Kind())
}

func TestFileReadLineEOF(t *testing.T) {
	path := tempPath(t)
	w := NewFile(Options{Mode: Writable, BufSize: 512})
	require.NoError(t, w.Open(path, Writable))
	require.NoError(t, w.FinalFlush())
	require.NoError(t, w.Close())

	r := NewFile(Options{Mode: Readable, BufSize: 512})
	require.NoError(t, r.Open(path, Readable))
	_, err := r.ReadLine()
	require.ErrorIs(t, err, io.EOF)
	require.NoError(t, r.Close())
}
