package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormlogger "gorm.io/gorm/logger"

	"github.com/yukikurage/todo-api/internal/config"
)

func TestNewWithWriter_JSONFields(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewWithWriter(&config.Config{Env: config.EnvProduction, Log: config.LogConfig{Level: "info"}}, &buf)
	require.NoError(t, err)

	log.Debug().Msg("hidden")
	log.Info().Str("user_id", "abc").Msg("visible")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "visible", line["message"])
	assert.Equal(t, "production", line["env"])
	assert.Contains(t, line, "timestamp")
	assert.Contains(t, line, "pid")
	assert.NotContains(t, buf.String(), "hidden")
}

func TestNewWithWriter_InvalidLevel(t *testing.T) {
	_, err := NewWithWriter(&config.Config{Log: config.LogConfig{Level: "loud"}}, &bytes.Buffer{})
	assert.Error(t, err)
}

func TestGorm_LevelFollowsLogger(t *testing.T) {
	var buf bytes.Buffer
	base := zerolog.New(&buf).Level(zerolog.WarnLevel)

	gl := Gorm(base)
	gl.Info(context.Background(), "ignored %s", "info")
	assert.Empty(t, buf.String())

	gl.Warn(context.Background(), "slow %s", "query")
	assert.Contains(t, buf.String(), `"component":"gorm"`)
	assert.Contains(t, buf.String(), `"level":"warn"`)

	buf.Reset()
	debug := Gorm(zerolog.New(&buf).Level(zerolog.DebugLevel))
	debug.Trace(context.Background(), time.Now(), func() (string, int64) { return "SELECT 1", 1 }, nil)
	assert.Contains(t, buf.String(), "SELECT 1")
	assert.Contains(t, buf.String(), `"level":"debug"`)

	var _ gormlogger.Interface = gl
}
