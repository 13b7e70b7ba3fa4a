package testutil_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/turtacn/StructAlign/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/StructAlign/internal/testutil"
)

func TestMockLogger(t *testing.T) {
	logger := testutil.NewMockLogger()

	logger.Info("test info", logging.String("key", "value"))

	messages := logger.GetMessages()
	assert.Len(t, messages, 1)
	assert.Equal(t, "info", messages[0].Level)
	assert.Equal(t, "test info", messages[0].Message)

	logger.Clear()
	assert.Len(t, logger.GetMessages(), 0)

	logger.Error("test error")
	assert.True(t, logger.HasMessage("error", "test error"))
	assert.False(t, logger.HasMessage("info", "test info"))
}

func TestMockLogger_MessagesAt(t *testing.T) {
	logger := testutil.NewMockLogger()

	logger.Warn("first", logging.Int("segment", 0))
	logger.Info("between")
	logger.Warn("second", logging.Int("segment", 3))

	warns := logger.MessagesAt("warn")
	assert.Len(t, warns, 2)
	assert.Equal(t, "first", warns[0].Message)
	assert.Equal(t, logging.Int("segment", 3), warns[1].Fields[0])
	assert.Empty(t, logger.MessagesAt("error"))
}

func TestMockLogger_WithAndNamedReturnSelf(t *testing.T) {
	logger := testutil.NewMockLogger()

	child := logger.With(logging.String("component", "test")).Named("sub")
	child.Info("through child")

	assert.True(t, logger.HasMessage("info", "through child"))
}
