package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	InitWithOutput(&buf, "debug", "json")
	t.Cleanup(func() { Init("info", "text") })

	Info("movie saved", "id", 7, []Field{String("title", "Alien"), Bool("favorite", true)})

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "movie saved", entry["@message"])
	assert.Equal(t, "info", entry["@level"])
	assert.Equal(t, float64(7), entry["id"])
	assert.Equal(t, "Alien", entry["title"])
	assert.Equal(t, true, entry["favorite"])
}

func TestSetLevelAppliesToNamedLoggers(t *testing.T) {
	var buf bytes.Buffer
	InitWithOutput(&buf, "info", "text")
	t.Cleanup(func() { Init("info", "text") })

	child := Named("tmdb")
	child.Debug("hidden")
	assert.Empty(t, buf.String())

	SetLevel("debug")
	child.Debug("visible")
	assert.Contains(t, buf.String(), "cinelist.tmdb: visible")
}

func TestSetLevelIgnoresUnknown(t *testing.T) {
	var buf bytes.Buffer
	InitWithOutput(&buf, "warn", "text")
	t.Cleanup(func() { Init("info", "text") })

	SetLevel("loud")
	assert.Contains(t, buf.String(), "ignoring unknown log level")

	Info("still filtered")
	assert.NotContains(t, buf.String(), "still filtered")
}

func TestErrField(t *testing.T) {
	assert.Equal(t, Field{Key: "error", Value: "boom"}, Err("error", errors.New("boom")))
	assert.Equal(t, Field{Key: "error", Value: nil}, Err("error", nil))
}
