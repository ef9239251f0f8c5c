package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	rerrors "github.com/vango-dev/vrouter/internal/errors"
	"github.com/vango-dev/vrouter/pkg/routepath"
)

// ErrClosed is returned by writes on a closed Remote.
var ErrClosed = errors.New("remote history closed")

// RemoteOptions configures a Remote.
type RemoteOptions struct {
	// Initial is the peer's location before any frame arrives. Default "/".
	Initial string

	// Codec defaults to JSONCodec.
	Codec Codec

	// WriteTimeout bounds each frame write. Default 10s.
	WriteTimeout time.Duration

	// ReadTimeout bounds the wait for the next frame. Zero waits forever.
	ReadTimeout time.Duration

	Logger *slog.Logger
}

// Remote is a history whose URL bar lives with a websocket peer. Pop
// frames are delivered to listeners on the goroutine running Run.
type Remote struct {
	conn   *websocket.Conn
	codec  Codec
	logger *slog.Logger

	writeTimeout time.Duration
	readTimeout  time.Duration

	writeMu sync.Mutex

	mu       sync.Mutex
	location string
	closed   bool

	listeners listeners
}

// NewRemote wraps conn. Call Run to start reading frames.
func NewRemote(conn *websocket.Conn, opts RemoteOptions) *Remote {
	r := &Remote{
		conn:         conn,
		codec:        opts.Codec,
		logger:       opts.Logger,
		writeTimeout: opts.WriteTimeout,
		readTimeout:  opts.ReadTimeout,
		location:     opts.Initial,
	}
	if r.codec == nil {
		r.codec = JSONCodec{}
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	if r.writeTimeout == 0 {
		r.writeTimeout = 10 * time.Second
	}
	if r.location == "" {
		r.location = "/"
	}
	return r
}

// Location returns the last URL written or reported by the peer.
func (r *Remote) Location() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.location
}

// PushURL records url and sends it to the peer as a push frame.
func (r *Remote) PushURL(url string) error {
	return r.write(url, FramePush)
}

// ReplaceURL records url and sends it to the peer as a replace frame.
func (r *Remote) ReplaceURL(url string) error {
	return r.write(url, FrameReplace)
}

func (r *Remote) write(url string, typ FrameType) error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return ErrClosed
	}
	r.location = url
	r.mu.Unlock()
	return r.Send(Frame{Type: typ, URL: url})
}

// Go asks the peer to move n entries. The move arrives later as a pop
// frame.
func (r *Remote) Go(n int) {
	if err := r.Send(Frame{Type: FrameGo, N: n}); err != nil {
		r.logger.Warn("remote history go failed", "n", n, "error", err)
	}
}

// SendRoute sends v, typically a committed route, to the peer.
func (r *Remote) SendRoute(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode route: %w", err)
	}
	return r.Send(Frame{Type: FrameRoute, Route: data})
}

// Listen registers fn for locations the peer reports.
func (r *Remote) Listen(fn func(url string)) func() {
	return r.listeners.add(fn)
}

// Send writes one frame.
func (r *Remote) Send(f Frame) error {
	data, err := r.codec.Encode(f)
	if err != nil {
		return fmt.Errorf("encode %s frame: %w", f.Type, err)
	}

	r.writeMu.Lock()
	defer r.writeMu.Unlock()
	r.conn.SetWriteDeadline(time.Now().Add(r.writeTimeout))
	if err := r.conn.WriteMessage(r.codec.MessageType(), data); err != nil {
		return fmt.Errorf("write %s frame: %w", f.Type, err)
	}
	return nil
}

// Run reads frames until the connection closes or ctx ends. A normal
// close returns nil. Undecodable frames and unsafe URLs are dropped.
func (r *Remote) Run(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() { r.conn.Close() })
	defer stop()

	for {
		if r.readTimeout > 0 {
			r.conn.SetReadDeadline(time.Now().Add(r.readTimeout))
		}
		_, data, err := r.conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil || r.isClosed() {
				return nil
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return fmt.Errorf("read frame: %w", err)
		}

		f, err := r.codec.Decode(data)
		if err != nil {
			rerrors.New("R030").Wrap(err).Log(r.logger)
			continue
		}
		r.handle(f)
	}
}

func (r *Remote) handle(f Frame) {
	if f.Type != FramePop {
		rerrors.New("R030").
			WithDetail(fmt.Sprintf("Unexpected %q frame from peer.", f.Type)).
			Log(r.logger)
		return
	}
	url, err := routepath.CanonicalizeNavPath(f.URL)
	if err != nil {
		rerrors.New("R030").
			WithDetail(fmt.Sprintf("Peer reported unsafe URL %q.", f.URL)).
			Wrap(err).
			Log(r.logger)
		return
	}

	r.mu.Lock()
	r.location = url
	r.mu.Unlock()
	r.listeners.notify(url)
}

func (r *Remote) isClosed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}

// Close marks the history closed and closes the connection.
func (r *Remote) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	r.mu.Unlock()

	r.writeMu.Lock()
	r.conn.SetWriteDeadline(time.Now().Add(time.Second))
	r.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	r.writeMu.Unlock()
	return r.conn.Close()
}
