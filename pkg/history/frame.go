package history

import (
	"encoding/json"
	"fmt"

	"github.com/gorilla/websocket"
	"github.com/vmihailenco/msgpack/v5"
)

// FrameType identifies a Remote frame.
type FrameType string

const (
	// FramePush and FrameReplace tell the peer the router wrote URL.
	FramePush    FrameType = "push"
	FrameReplace FrameType = "replace"

	// FrameGo asks the peer to move N entries through its history.
	FrameGo FrameType = "go"

	// FramePop reports that the peer moved to URL on its own.
	FramePop FrameType = "pop"

	// FrameRoute carries the committed route, JSON encoded in Route, to
	// the peer for display.
	FrameRoute FrameType = "route"
)

// Frame is one message between a Remote and its peer.
type Frame struct {
	Type  FrameType       `json:"type" msgpack:"type"`
	URL   string          `json:"url,omitempty" msgpack:"url,omitempty"`
	N     int             `json:"n,omitempty" msgpack:"n,omitempty"`
	Route json.RawMessage `json:"route,omitempty" msgpack:"route,omitempty"`
}

// Codec converts frames to websocket messages.
type Codec interface {
	// MessageType is the websocket message type frames are sent as.
	MessageType() int
	Encode(f Frame) ([]byte, error)
	Decode(data []byte) (Frame, error)
}

// JSONCodec sends frames as JSON text messages.
type JSONCodec struct{}

func (JSONCodec) MessageType() int { return websocket.TextMessage }

func (JSONCodec) Encode(f Frame) ([]byte, error) { return json.Marshal(f) }

func (JSONCodec) Decode(data []byte) (Frame, error) {
	var f Frame
	if err := json.Unmarshal(data, &f); err != nil {
		return Frame{}, fmt.Errorf("decode json frame: %w", err)
	}
	return f, nil
}

// MsgpackCodec sends frames as msgpack binary messages.
type MsgpackCodec struct{}

func (MsgpackCodec) MessageType() int { return websocket.BinaryMessage }

func (MsgpackCodec) Encode(f Frame) ([]byte, error) { return msgpack.Marshal(f) }

func (MsgpackCodec) Decode(data []byte) (Frame, error) {
	var f Frame
	if err := msgpack.Unmarshal(data, &f); err != nil {
		return Frame{}, fmt.Errorf("decode msgpack frame: %w", err)
	}
	return f, nil
}

// CodecFor returns the codec named name: "json" or "msgpack".
func CodecFor(name string) (Codec, error) {
	switch name {
	case "", "json":
		return JSONCodec{}, nil
	case "msgpack":
		return MsgpackCodec{}, nil
	}
	return nil, fmt.Errorf("unknown frame codec %q", name)
}
