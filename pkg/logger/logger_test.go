package logger

import (
	"bytes"
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetLoggerFallback(t *testing.T) {
	ctx := context.Background()
	entry := GetLogger(ctx)
	require.NotNil(t, entry)
	assert.Equal(t, L.Logger, entry.Logger)
}

func TestWithLogger(t *testing.T) {
	var buf bytes.Buffer
	l := logrus.New()
	l.SetOutput(&buf)
	l.SetLevel(logrus.DebugLevel)

	ctx := WithLogger(context.Background(), logrus.NewEntry(l).WithField("component", "test"))
	G(ctx).Debug("hello")

	assert.Contains(t, buf.String(), "hello")
	assert.Contains(t, buf.String(), "component=test")
}

func TestSetLogLevel(t *testing.T) {
	require.NoError(t, SetLogLevel("debug"))
	assert.Equal(t, logrus.DebugLevel, L.Logger.GetLevel())

	require.NoError(t, SetLogLevel("info"))
	assert.Equal(t, logrus.InfoLevel, L.Logger.GetLevel())

	assert.Error(t, SetLogLevel("not-a-level"))
}

func TestSetLogFormat(t *testing.T) {
	SetLogFormat("json")
	_, ok := L.Logger.Formatter.(*logrus.JSONFormatter)
	assert.True(t, ok)

	SetLogFormat("text")
	_, ok = L.Logger.Formatter.(*logrus.TextFormatter)
	assert.True(t, ok)
}
