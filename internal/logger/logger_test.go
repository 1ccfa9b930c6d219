package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestBuildProductionLogger(t *testing.T) {
	l, err := build("production")
	assert.NoError(t, err)
	assert.False(t, l.Core().Enabled(zapcore.DebugLevel))
	assert.True(t, l.Core().Enabled(zapcore.InfoLevel))
}

func TestBuildLocalLogger(t *testing.T) {
	l, err := build("local")
	assert.NoError(t, err)
	assert.True(t, l.Core().Enabled(zapcore.DebugLevel))
}

func TestMaskPhone(t *testing.T) {
	assert.Equal(t, "+5511***", MaskPhone("+5511987654321"))
	assert.Equal(t, "+55***", MaskPhone("+55"))
}
