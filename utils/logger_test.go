package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.WarnLevel, parseLevel("warn"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zapcore.DebugLevel, parseLevel("nonsense"))
}

func TestGetLoggerIsShared(t *testing.T) {
	first := GetLogger()
	assert.NotNil(t, first)
	assert.Same(t, first, GetLogger())
}
