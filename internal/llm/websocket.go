package llm

import (
	"context"
	"log/slog"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/alexsohr/autodoc/internal/config"
	derrors "github.com/alexsohr/autodoc/internal/errors"
)

// WebsocketChannel implements Channel over a websocket endpoint.
type WebsocketChannel struct {
	url    string
	dialer *websocket.Dialer
}

// NewWebsocketChannel constructs a channel client from model configuration.
// A missing channel URL is a configuration error: the pipeline cannot run
// without the transport.
func NewWebsocketChannel(mc config.ModelConfig) (*WebsocketChannel, error) {
	if mc.ChannelURL == "" {
		return nil, derrors.ConfigError("model channel URL not configured").Build()
	}
	dialer := &websocket.Dialer{
		HandshakeTimeout: mc.DialTimeout,
	}
	return &WebsocketChannel{url: mc.ChannelURL, dialer: dialer}, nil
}

// Complete connects, sends the request, and accumulates every received text
// message until the remote side closes the connection normally.
func (c *WebsocketChannel) Complete(ctx context.Context, req Request) (string, error) {
	conn, _, err := c.dialer.DialContext(ctx, c.url, nil)
	if err != nil {
		return "", derrors.WrapError(err, derrors.CategoryModel, "model channel dial failed").
			Retryable().WithContext("url", c.url).Build()
	}
	defer func() { _ = conn.Close() }()

	// Reads below do not take a context; closing the connection on cancel
	// unblocks them.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-done:
		}
	}()

	if err := conn.WriteJSON(req); err != nil {
		return "", derrors.WrapError(err, derrors.CategoryModel, "model channel send failed").
			Retryable().Build()
	}

	var sb strings.Builder
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseNoStatusReceived) {
				break
			}
			if ctx.Err() != nil {
				return "", derrors.WrapError(ctx.Err(), derrors.CategoryModel, "model channel canceled").Build()
			}
			return "", derrors.WrapError(err, derrors.CategoryModel, "model channel read failed").
				Retryable().Build()
		}
		sb.Write(msg)
	}

	slog.Debug("Model channel response complete", slog.Int("length", sb.Len()))
	return sb.String(), nil
}
