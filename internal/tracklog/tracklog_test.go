package tracklog

import (
	"bytes"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
)

func TestLogger_EmitsAtOrAboveConfiguredLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, log.InfoLevel)

	l.Debug("should be suppressed")
	l.Info("hello", "prn", 3)

	out := buf.String()
	assert.NotContains(t, out, "should be suppressed")
	assert.Contains(t, out, "hello")
	assert.Contains(t, out, "prn")
}

func TestLogger_WithChannelTagsEvents(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, log.DebugLevel)

	chLog := l.WithChannel(14)
	chLog.Info("tracking")

	assert.Contains(t, buf.String(), "prn=14")
}

func TestLogger_WithStageTagsEvents(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, log.DebugLevel)

	stageLog := l.WithChannel(2).WithStage(2)
	stageLog.Warn("handover")

	out := buf.String()
	assert.Contains(t, out, "prn=2")
	assert.Contains(t, out, "stage=2")
}

func TestLogger_ErrorLevelAlwaysEmits(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, log.ErrorLevel)

	l.Warn("suppressed")
	l.Error("boom")

	out := buf.String()
	assert.NotContains(t, out, "suppressed")
	assert.Contains(t, out, "boom")
}
