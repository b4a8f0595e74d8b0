package v1alpha1

import (
	"encoding/json"
	"time"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/RevenantSoul/Text-base-RPG-Game/internal/entities/game"
	"github.com/RevenantSoul/Text-base-RPG-Game/internal/errors"
)

// Request field names
const (
	FieldPlayerName = "player_name"
	FieldSessionID  = "session_id"
	FieldStyle      = "style"
)

// SessionView is the wire shape of every session response
type SessionView struct {
	SessionID string        `json:"session_id"`
	Character game.Snapshot `json:"character"`
	// Events are the events produced by the call, or the full log for GetSession
	Events    []game.Event `json:"events"`
	CreatedAt *time.Time   `json:"created_at,omitempty"`
	ExpiresAt *time.Time   `json:"expires_at,omitempty"`
}

// DeleteView is the wire shape of a delete response
type DeleteView struct {
	Deleted bool `json:"deleted"`
}

// toStruct encodes a JSON-tagged value as a Struct message
func toStruct(v any) (*structpb.Struct, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode response")
	}

	out := &structpb.Struct{}
	if err := protojson.Unmarshal(raw, out); err != nil {
		return nil, errors.Wrap(err, "failed to build response struct")
	}
	return out, nil
}

// fromStruct decodes a Struct message into a JSON-tagged value
func fromStruct(in *structpb.Struct, v any) error {
	if in == nil {
		in = &structpb.Struct{}
	}

	raw, err := protojson.Marshal(in)
	if err != nil {
		return errors.Wrap(err, "failed to read response struct")
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return errors.Wrap(err, "failed to decode response")
	}
	return nil
}

func stringField(req *structpb.Struct, name string) string {
	return req.GetFields()[name].GetStringValue()
}

func sessionRequest(sessionID string) *structpb.Struct {
	return &structpb.Struct{
		Fields: map[string]*structpb.Value{
			FieldSessionID: structpb.NewStringValue(sessionID),
		},
	}
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
