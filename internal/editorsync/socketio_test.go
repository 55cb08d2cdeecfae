package editorsync

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/specialistvlad/flowblock/internal/ctxlog"
	"github.com/specialistvlad/flowblock/internal/nested"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zishang520/socket.io/v2/socket"
)

// editorServer starts an in-process socket.io server that forwards every
// block_updated payload to the returned channel.
func editorServer(t *testing.T) (string, <-chan any) {
	t.Helper()
	received := make(chan any, 1)
	io := socket.NewServer(nil, nil)
	io.On("connection", func(clients ...any) {
		client := clients[0].(*socket.Socket)
		client.On(EventBlockUpdated, func(args ...any) {
			if len(args) > 0 {
				received <- args[0]
			}
		})
	})

	mux := http.NewServeMux()
	mux.Handle("/socket.io/", io.ServeHandler(nil))
	srv := httptest.NewServer(mux)
	t.Cleanup(func() {
		io.Close(nil)
		srv.Close()
	})
	return srv.URL + "/socket.io/", received
}

func TestSocketIOPublisher(t *testing.T) {
	url, received := editorServer(t)
	ctx, cancel := context.WithTimeout(ctxlog.Discard(context.Background()), 10*time.Second)
	defer cancel()

	pub, err := Dial(ctx, SocketIOOptions{URL: url, Namespace: "/"})
	require.NoError(t, err)

	data := nested.New("key", "blocks_copy")
	require.NoError(t, pub.Publish(ctx, Event{Name: EventBlockUpdated, BlockID: "blocks_copy_0", Data: data}))

	select {
	case got := <-received:
		payload, ok := got.(map[string]any)
		require.True(t, ok, "payload is a JSON object, got %T", got)
		assert.Equal(t, "blocks_copy_0", payload["block_id"])
		assert.Contains(t, payload, "data")
	case <-ctx.Done():
		t.Fatal("editor did not receive the event")
	}

	require.NoError(t, pub.Close())
	assert.ErrorIs(t, pub.Publish(ctx, Event{Name: EventBlockUpdated}), ErrNotConnected)
}

func TestDial_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(ctxlog.Discard(context.Background()))
	cancel()
	_, err := Dial(ctx, SocketIOOptions{URL: "http://127.0.0.1:1/socket.io/", Namespace: "/"})
	require.Error(t, err)
}
