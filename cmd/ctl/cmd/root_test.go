package cmd

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpfielding/greygrid.go/pkg/config"
	"github.com/jpfielding/greygrid.go/pkg/pgm"
	"github.com/jpfielding/greygrid.go/pkg/transform"
)

const uniform4 = "P2\n4 4\n255\n100 100 100 100\n100 100 100 100\n100 100 100 100\n100 100 100 100\n"

func writeInput(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "in.pgm")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRoot(context.Background(), "test-sha")
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestRoot_Operations(t *testing.T) {
	tests := []struct {
		option string
		file   string
		want   string
	}{
		{"1", "threshold.pgm", "P2\n4 4\n255\n0 0 0 0\n0 0 0 0\n0 0 0 0\n0 0 0 0\n"},
		{"2", "flipped.pgm", uniform4},
		{"3", "edge.pgm", "P2\n4 4\n255\n0 0 0 0\n0 0 0 0\n0 0 0 0\n0 0 0 0\n"},
	}
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			dir := t.TempDir()
			in := writeInput(t, dir, uniform4)
			_, err := execute(t, in, tt.option, "--out-dir", dir, "--workers", "3")
			require.NoError(t, err)

			raw, err := os.ReadFile(filepath.Join(dir, tt.file))
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(raw))
		})
	}
}

func TestRoot_Histogram(t *testing.T) {
	dir := t.TempDir()
	in := writeInput(t, dir, uniform4)
	_, err := execute(t, in, "4", "-o", dir, "--aggregation", "atomic")
	require.NoError(t, err)

	raw, err := os.ReadFile(filepath.Join(dir, "histogram.dat"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 255)
	assert.Equal(t, "100\t16", lines[100])
	assert.Equal(t, "99\t0", lines[99])
}

func TestRoot_UsageErrors(t *testing.T) {
	dir := t.TempDir()
	in := writeInput(t, dir, uniform4)

	for _, args := range [][]string{
		{},
		{in},
		{in, "1", "extra"},
		{in, "0"},
		{in, "5"},
		{in, "two"},
		{in, "edge"},
		{in, "+1"},
		{in, " 1"},
	} {
		out, err := execute(t, args...)
		assert.Error(t, err, "args %v", args)
		assert.Contains(t, out, "Usage:", "args %v", args)
	}
}

func TestRoot_RowMajorFlip(t *testing.T) {
	dir := t.TempDir()
	in := writeInput(t, dir, "P2\n2 2\n255\n1 2\n3 4\n")
	_, err := execute(t, in, "2", "-o", dir)
	require.NoError(t, err)

	raw, err := os.ReadFile(filepath.Join(dir, "flipped.pgm"))
	require.NoError(t, err)
	assert.Equal(t, "P2\n2 2\n255\n3 4\n1 2\n", string(raw))
}

func TestRoot_InputErrorWritesNothing(t *testing.T) {
	dir := t.TempDir()
	in := writeInput(t, dir, "P2\n3 2\n255\n0 0 0 0 0 0\n")
	out, err := execute(t, in, "1", "-o", dir)
	assert.ErrorIs(t, err, pgm.ErrNotSquare)
	assert.NoFileExists(t, filepath.Join(dir, "threshold.pgm"))
	// reported once through the logger, not again by cobra
	assert.NotContains(t, out, "Error:")
	assert.NotContains(t, out, "Usage:")

	_, err = execute(t, filepath.Join(dir, "missing.pgm"), "1", "-o", dir)
	assert.Error(t, err)
}

func TestExecute_ClosesLogFileOnFailure(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "greyctl.log")
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })
	sink := &logSink{}
	root := newRoot(context.Background(), "test-sha", sink)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs([]string{filepath.Join(dir, "missing.pgm"), "1", "--log-file", logPath})

	assert.Error(t, executeWith(root, sink))
	assert.Nil(t, sink.file)

	raw, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "failed to load image")
}

func TestRoot_BadConfig(t *testing.T) {
	dir := t.TempDir()
	in := writeInput(t, dir, uniform4)
	_, err := execute(t, in, "1", "--workers", "0")
	assert.Error(t, err)
}

func TestRoot_Subcommands(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "test-sha\n", out)

	out, err = execute(t, "ops")
	require.NoError(t, err)
	assert.Contains(t, out, "(3) edge")
	assert.Contains(t, out, "histogram.dat")
}

func TestRun_WriteFailureIsNotFatal(t *testing.T) {
	dir := t.TempDir()
	in := writeInput(t, dir, uniform4)

	cfg := config.Default()
	cfg.OutDir = filepath.Join(dir, "does", "not", "exist")
	cfg.Preview = filepath.Join(dir, "preview.png")
	cfg.PreviewScale = 2
	require.NoError(t, Run(context.Background(), cfg, in, transform.OpFlip))

	// preview still produced even though the pgm could not be written
	assert.FileExists(t, cfg.Preview)
}
