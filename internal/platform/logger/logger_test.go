package logger_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"

	"github.com/srgjo27/villa_booking/internal/platform/logger"
)

func TestNew(t *testing.T) {
	dev, err := logger.New(false, "")
	assert.NoError(t, err)
	assert.True(t, dev.Core().Enabled(zapcore.DebugLevel))

	prod, err := logger.New(true, "")
	assert.NoError(t, err)
	assert.False(t, prod.Core().Enabled(zapcore.DebugLevel))

	warn, err := logger.New(true, "warn")
	assert.NoError(t, err)
	assert.False(t, warn.Core().Enabled(zapcore.InfoLevel))

	_, err = logger.New(false, "loud")
	assert.Error(t, err)
}
