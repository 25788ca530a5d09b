package logger

import (
	"errors"
	"testing"

	"github.com/mstgnz/gopos/infra/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitGlobalLogger(t *testing.T) {
	t.Cleanup(func() { SetGlobalLogger(nil) })

	InitGlobalLogger(nil, &config.AppConfig{Environment: "test", LoggingLevel: "warn", EnableLogging: true})

	l := GetGlobalLogger()
	require.NotNil(t, l)
	assert.Equal(t, "gopos", l.service)
	assert.Equal(t, LevelWarn, l.minLevel)
	assert.False(t, l.enableOpenSearch)
}

func TestGetGlobalLogger_Fallback(t *testing.T) {
	SetGlobalLogger(nil)
	t.Cleanup(func() { SetGlobalLogger(nil) })

	l := GetGlobalLogger()
	require.NotNil(t, l)
	assert.Same(t, l, GetGlobalLogger())
}

func TestGlobalConvenienceFunctions(t *testing.T) {
	l, buf := newBufferedLogger(LevelDebug)
	SetGlobalLogger(l)
	t.Cleanup(func() { SetGlobalLogger(nil) })

	Debug("debug")
	Info("info", LogContext{Gateway: "garanti_pos"})
	Warn("warn")
	Error("error", errors.New("boom"))
	WithGateway("payfor").Info("scoped")

	entries := decodeLines(t, buf)
	require.Len(t, entries, 5)
	assert.Equal(t, "garanti_pos", entries[1]["gateway"])
	assert.Equal(t, "boom", entries[3]["error"])
	assert.Equal(t, "payfor", entries[4]["gateway"])
}
