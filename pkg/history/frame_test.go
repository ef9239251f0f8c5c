package history

import (
	"encoding/json"
	"testing"

	"github.com/gorilla/websocket"
)

func TestCodecs(t *testing.T) {
	frames := []Frame{
		{Type: FramePop, URL: "/a?x=1#h"},
		{Type: FrameGo, N: -2},
		{Type: FrameRoute, Route: json.RawMessage(`{"path":"/a"}`)},
	}
	for _, name := range []string{"json", "msgpack"} {
		codec, err := CodecFor(name)
		if err != nil {
			t.Fatal(err)
		}
		for _, f := range frames {
			data, err := codec.Encode(f)
			if err != nil {
				t.Fatalf("%s: Encode(%+v): %v", name, f, err)
			}
			got, err := codec.Decode(data)
			if err != nil {
				t.Fatalf("%s: Decode: %v", name, err)
			}
			if got.Type != f.Type || got.URL != f.URL || got.N != f.N || string(got.Route) != string(f.Route) {
				t.Errorf("%s: got %+v, want %+v", name, got, f)
			}
		}
	}
}

func TestCodecMessageTypes(t *testing.T) {
	if (JSONCodec{}).MessageType() != websocket.TextMessage {
		t.Error("json frames should be text messages")
	}
	if (MsgpackCodec{}).MessageType() != websocket.BinaryMessage {
		t.Error("msgpack frames should be binary messages")
	}
	if _, err := CodecFor("xml"); err == nil {
		t.Error("CodecFor(xml) should fail")
	}
}

func TestDecodeGarbage(t *testing.T) {
	if _, err := (JSONCodec{}).Decode([]byte("{")); err == nil {
		t.Error("json: expected error")
	}
	if _, err := (MsgpackCodec{}).Decode([]byte{0xc1}); err == nil {
		t.Error("msgpack: expected error")
	}
}
