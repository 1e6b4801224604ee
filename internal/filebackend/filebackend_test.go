package filebackend

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testLogger() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}

func TestOpenCreatesMissingFileAndParentDir(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "db.dat")

	b, err := Open(&Config{Path: path, Logger: testLogger()})
	require.NoError(t, err)
	defer b.Close()

	require.Equal(t, int64(0), b.EOF())
}

func TestAppendAdvancesEOF(t *testing.T) {
	dir := t.TempDir()
	b, err := Open(&Config{Path: filepath.Join(dir, "db.dat"), Logger: testLogger()})
	require.NoError(t, err)
	defer b.Close()

	offset, err := b.Append([]byte("hello"))
	require.NoError(t, err)
	require.Equal(t, int64(0), offset)
	require.Equal(t, int64(5), b.EOF())

	offset, err = b.Append([]byte("world!"))
	require.NoError(t, err)
	require.Equal(t, int64(5), offset)
	require.Equal(t, int64(11), b.EOF())
}

func TestWriteAtThenReadAt(t *testing.T) {
	dir := t.TempDir()
	b, err := Open(&Config{Path: filepath.Join(dir, "db.dat"), Logger: testLogger()})
	require.NoError(t, err)
	defer b.Close()

	require.NoError(t, b.WriteAt([]byte("abcdef"), 0))

	buf := make([]byte, 3)
	require.NoError(t, b.ReadAt(buf, 2))
	require.Equal(t, "cde", string(buf))
}

func TestWriteAtWithinFileNeverShrinksEOF(t *testing.T) {
	dir := t.TempDir()
	b, err := Open(&Config{Path: filepath.Join(dir, "db.dat"), Logger: testLogger()})
	require.NoError(t, err)
	defer b.Close()

	_, err = b.Append(make([]byte, 32))
	require.NoError(t, err)
	require.Equal(t, int64(32), b.EOF())

	require.NoError(t, b.WriteAt([]byte("x"), 0))
	require.Equal(t, int64(32), b.EOF())
}

func TestTruncateResetsEOF(t *testing.T) {
	dir := t.TempDir()
	b, err := Open(&Config{Path: filepath.Join(dir, "db.dat"), Logger: testLogger()})
	require.NoError(t, err)
	defer b.Close()

	_, err = b.Append([]byte("some bytes"))
	require.NoError(t, err)

	require.NoError(t, b.Truncate())
	require.Equal(t, int64(0), b.EOF())
}

func TestReopenRecoversEOFFromFileSize(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "db.dat")

	b1, err := Open(&Config{Path: path, Logger: testLogger()})
	require.NoError(t, err)
	_, err = b1.Append([]byte("persisted"))
	require.NoError(t, err)
	require.NoError(t, b1.Close())

	b2, err := Open(&Config{Path: path, Logger: testLogger()})
	require.NoError(t, err)
	defer b2.Close()
	require.Equal(t, int64(len("persisted")), b2.EOF())
}
