package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductionLogsJSON(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithOutput("production", "debug", &buf)
	log.WithField("room", "blue-fox-lake").Info("joined")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "joined", line["msg"])
	assert.Equal(t, "blue-fox-lake", line["room"])
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())
}

func TestUnknownLevelFallsBackToInfo(t *testing.T) {
	log := NewWithOutput("dev", "chatty", &bytes.Buffer{})
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
	_, isText := log.Formatter.(*logrus.TextFormatter)
	assert.True(t, isText)
}
