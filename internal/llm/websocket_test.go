package llm

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexsohr/autodoc/internal/config"
)

var upgrader = websocket.Upgrader{}

// modelServer runs a fake model endpoint that decodes one request and streams
// the configured chunks back before closing normally.
func modelServer(t *testing.T, chunks []string, capture *Request) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		defer conn.Close()

		if capture != nil {
			require.NoError(t, conn.ReadJSON(capture))
		} else {
			var discard Request
			_ = conn.ReadJSON(&discard)
		}

		for _, chunk := range chunks {
			require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(chunk)))
		}
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	}))
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestNewWebsocketChannel_RequiresURL(t *testing.T) {
	_, err := NewWebsocketChannel(config.ModelConfig{})
	assert.Error(t, err)
}

func TestComplete_AccumulatesStreamedMessages(t *testing.T) {
	var got Request
	srv := modelServer(t, []string{"<wiki_", "structure>", "...", "</wiki_structure>"}, &got)
	defer srv.Close()

	c, err := NewWebsocketChannel(config.ModelConfig{ChannelURL: wsURL(srv), DialTimeout: 5 * time.Second})
	require.NoError(t, err)

	req := UserRequest("https://github.com/acme/widgets", "English", "propose a structure")
	resp, err := c.Complete(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "<wiki_structure>...</wiki_structure>", resp)

	// Wire format expected by the model endpoint.
	assert.Equal(t, "https://github.com/acme/widgets", got.RepoURL)
	assert.Equal(t, "github", got.Type)
	assert.Equal(t, "English", got.Language)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "user", got.Messages[0].Role)
	assert.Equal(t, "propose a structure", got.Messages[0].Content)
}

func TestComplete_EmptyStream(t *testing.T) {
	srv := modelServer(t, nil, nil)
	defer srv.Close()

	c, err := NewWebsocketChannel(config.ModelConfig{ChannelURL: wsURL(srv), DialTimeout: 5 * time.Second})
	require.NoError(t, err)

	resp, err := c.Complete(context.Background(), UserRequest("u", "English", "p"))
	require.NoError(t, err)
	assert.Empty(t, resp)
}

func TestComplete_DialFailure(t *testing.T) {
	c, err := NewWebsocketChannel(config.ModelConfig{ChannelURL: "ws://127.0.0.1:1/ws", DialTimeout: time.Second})
	require.NoError(t, err)

	_, err = c.Complete(context.Background(), UserRequest("u", "English", "p"))
	assert.Error(t, err)
}

func TestComplete_ContextCancel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		var discard Request
		_ = conn.ReadJSON(&discard)
		// Never respond; the client context must unblock the read.
		time.Sleep(2 * time.Second)
	}))
	defer srv.Close()

	c, err := NewWebsocketChannel(config.ModelConfig{ChannelURL: wsURL(srv), DialTimeout: 5 * time.Second})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err = c.Complete(ctx, UserRequest("u", "English", "p"))
	require.Error(t, err)
	assert.Less(t, time.Since(start), time.Second)
}
