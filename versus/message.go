package versus

import (
	"encoding/json"
	"fmt"
)

// ProtocolVersion must match on both sides of a match.
const ProtocolVersion = 1

const (
	MsgHello    = "hello"
	MsgSnapshot = "snapshot"
	MsgEffect   = "effect"
	MsgOver     = "over"
)

// Envelope frames every message on the wire.
type Envelope struct {
	T string          `json:"t"`
	P json.RawMessage `json:"p"`
}

// Hello is exchanged once when a connection opens. The host sends the match
// id and the player number it assigns; the joiner echoes both back.
type Hello struct {
	Match   string `json:"match"`
	Player  uint8  `json:"player"`
	Version int    `json:"version"`
}

// Snapshot carries a full board in the comma-separated snapshot format.
type Snapshot struct {
	Cells string `json:"cells"`
}

// Effect asks the receiver to apply an effect to its local player.
type Effect struct {
	Kind string `json:"kind"`
}

// Over reports that the sender's player topped out.
type Over struct {
	Loser uint8 `json:"loser"`
}

func Encode(t string, payload any) ([]byte, error) {
	if t == "" {
		return nil, fmt.Errorf("encode: empty message type")
	}
	if payload == nil {
		return nil, fmt.Errorf("encode %s: nil payload", t)
	}
	pb, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{T: t, P: pb})
}

func DecodeEnvelope(b []byte) (Envelope, error) {
	if len(b) == 0 {
		return Envelope{}, fmt.Errorf("decode: empty message")
	}
	var e Envelope
	if err := json.Unmarshal(b, &e); err != nil {
		return Envelope{}, err
	}
	return e, nil
}

func DecodePayload[T any](env Envelope) (T, error) {
	var out T
	if len(env.P) == 0 {
		return out, fmt.Errorf("empty payload for type %q", env.T)
	}
	err := json.Unmarshal(env.P, &out)
	return out, err
}
