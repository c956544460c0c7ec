package logger_test

import (
	"context"
	"testing"

	"github.com/dom/war-planner/internal/logger"
	"github.com/stretchr/testify/assert"
)

func TestNewRequestID(t *testing.T) {
	a := logger.NewRequestID()
	b := logger.NewRequestID()
	assert.Len(t, a, 8)
	assert.NotEqual(t, a, b)
	assert.Regexp(t, "^[a-zA-Z0-9]{8}$", a)
}

func TestRequestIDRoundTrip(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, logger.RequestIDFromContext(ctx))

	ctx = logger.WithRequestID(ctx, "abc12345")
	assert.Equal(t, "abc12345", logger.RequestIDFromContext(ctx))
	assert.NotNil(t, logger.ForRequest(ctx))
}
