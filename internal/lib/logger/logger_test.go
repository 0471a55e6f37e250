package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/movie-gateway/internal/config"
)

func TestNewWithWriter_ProductionIsJSON(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(config.EnvProduction, &buf)

	log.Debug("hidden")
	log.Info("visible", "route", "/api/search")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "visible", line["msg"])
	assert.Equal(t, "/api/search", line["route"])
}

func TestNewWithWriter_LocalIsTextWithDebug(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(config.EnvLocal, &buf)

	log.Debug("debug messages are enabled")

	assert.Contains(t, buf.String(), "level=DEBUG")
	assert.Contains(t, buf.String(), "debug messages are enabled")
}
