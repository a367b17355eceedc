package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kgstrand/gnsstrack/internal/tracklog"
	"github.com/kgstrand/gnsstrack/track"
)

func TestWriteResults_WritesOneLinePerChannel(t *testing.T) {
	dir := t.TempDir()
	oldwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	defer os.Chdir(oldwd)

	var buf bytes.Buffer
	l := tracklog.NewWithWriter(&buf, log.InfoLevel)

	results := []track.TrackResult{
		{PRN: 3, Status: track.StatusTracked},
		{PRN: 7, Status: track.StatusCancelled},
	}

	err = writeResults("fixed-name.log", results, l)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "fixed-name.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "prn=3 status=T steps=0")
	assert.Contains(t, string(data), "prn=7 status=C steps=0")
	assert.Contains(t, buf.String(), "wrote results")
}

func TestProgressLogger_ReportDoesNotPanic(t *testing.T) {
	var buf bytes.Buffer
	l := tracklog.NewWithWriter(&buf, log.DebugLevel)
	p := progressLogger{logger: l}
	p.Report(2, 0.5)
	assert.Contains(t, buf.String(), "progress")
}
