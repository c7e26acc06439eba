package sentry

import (
	"context"
	"testing"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finadvisor/pkg/errors"
	"finadvisor/pkg/logger"
)

type captureTransport struct {
	events []*sentry.Event
}

func (c *captureTransport) Configure(sentry.ClientOptions)        {}
func (c *captureTransport) SendEvent(event *sentry.Event)         { c.events = append(c.events, event) }
func (c *captureTransport) Flush(time.Duration) bool              { return true }
func (c *captureTransport) FlushWithContext(context.Context) bool { return true }
func (c *captureTransport) Close()                                {}

func TestCaptureErrorTagsTurn(t *testing.T) {
	transport := &captureTransport{}
	client, err := sentry.NewClient(sentry.ClientOptions{Transport: transport})
	require.NoError(t, err)

	tracker := &Tracker{hub: sentry.NewHub(client, sentry.NewScope())}
	ctx := logger.WithTurnID(context.Background(), "turn-1")

	require.NoError(t, tracker.CaptureError(ctx, errors.New("boom"), map[string]string{"tool": "get_beta"}))

	require.Len(t, transport.events, 1)
	assert.Equal(t, "get_beta", transport.events[0].Tags["tool"])
	assert.Equal(t, "turn-1", transport.events[0].Tags["turn_id"])
}

func TestConvertLevel(t *testing.T) {
	assert.Equal(t, sentry.LevelWarning, convertLevel(errors.LevelWarning))
	assert.Equal(t, sentry.LevelInfo, convertLevel(errors.Level("unknown")))
}
