package editorsync

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/specialistvlad/flowblock/internal/ctxlog"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

// DialTimeout bounds the wait for the socket.io handshake.
const DialTimeout = 15 * time.Second

// ErrNotConnected is returned by Publish after the socket dropped.
var ErrNotConnected = errors.New("socket.io client is not connected")

// SocketIOOptions configures Dial.
type SocketIOOptions struct {
	URL                string
	Namespace          string
	InsecureSkipVerify bool
}

// SocketIOPublisher emits events on a socket.io connection.
type SocketIOPublisher struct {
	client *socket.Socket
	logger *slog.Logger
}

// Dial connects to a socket.io server over websocket and waits for the
// handshake.
func Dial(ctx context.Context, o SocketIOOptions) (*SocketIOPublisher, error) {
	if o.URL == "" {
		return nil, errors.New("socket.io URL is required")
	}
	logger := ctxlog.FromContext(ctx).With("component", "editorsync", "url", o.URL)

	parsedURL, err := url.Parse(o.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}

	opts := socket.DefaultOptions()
	opts.SetPath(parsedURL.Path)
	if o.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification")
		opts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))

	connected := make(chan error, 1)

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	manager := socket.NewManager(baseURL, opts)
	io := manager.Socket(o.Namespace, opts)

	io.Once(types.EventName("connect"), func(...any) {
		logger.Info("Connected to editor.", "sid", io.Id())
		connected <- nil
	})
	io.Once(types.EventName("connect_error"), func(errs ...any) {
		var err error = errors.New("connect_error")
		if len(errs) > 0 {
			if e, ok := errs[0].(error); ok {
				err = e
			}
		}
		connected <- err
	})

	io.Connect()

	select {
	case err := <-connected:
		if err != nil {
			io.Disconnect()
			return nil, fmt.Errorf("socket.io connection failed: %w", err)
		}
		return &SocketIOPublisher{client: io, logger: logger}, nil
	case <-ctx.Done():
		io.Disconnect()
		return nil, fmt.Errorf("context cancelled while waiting for socket.io connection: %w", ctx.Err())
	case <-time.After(DialTimeout):
		io.Disconnect()
		return nil, fmt.Errorf("timed out after %s waiting for socket.io connection", DialTimeout)
	}
}

// Publish emits ev under its name.
func (p *SocketIOPublisher) Publish(_ context.Context, ev Event) error {
	if !p.client.Connected() {
		return ErrNotConnected
	}
	p.logger.Debug("Emitting event.", "event", ev.Name, "block_id", ev.BlockID)
	return p.client.Emit(ev.Name, ev.Payload())
}

// Close disconnects the socket.
func (p *SocketIOPublisher) Close() error {
	p.logger.Info("Disconnecting from editor.", "sid", p.client.Id())
	p.client.Disconnect()
	return nil
}
