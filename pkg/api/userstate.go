package api

import (
	"fmt"

	"github.com/goccy/go-json"
)

// FlowSeen is the per-flow persisted record. One entry is created the first
// time a flow is ever registered and is never removed automatically.
type FlowSeen struct {
	Seen bool `json:"seen"`
}

// UserState is the state that survives reloads: the master enable switch and
// the per-flow "seen" flags. It is independent of the live flow/item
// topology, which is rebuilt from scratch by registration on every session.
type UserState struct {
	SystemEnabled bool                `json:"systemEnabled"`
	Flows         map[FlowID]FlowSeen `json:"flows"`
}

// DefaultUserState is the canonical shape loaded state is merged against.
// Help starts enabled.
func DefaultUserState() UserState {
	return UserState{
		SystemEnabled: true,
		Flows:         make(map[FlowID]FlowSeen),
	}
}

// Clone returns a deep copy.
func (u UserState) Clone() UserState {
	out := UserState{
		SystemEnabled: u.SystemEnabled,
		Flows:         make(map[FlowID]FlowSeen, len(u.Flows)),
	}
	for id, f := range u.Flows {
		out.Flows[id] = f
	}
	return out
}

// EncodeUserState serializes the state to the single JSON blob handed to the
// storage collaborator.
func EncodeUserState(u UserState) (string, error) {
	data, err := json.Marshal(u)
	if err != nil {
		return "", fmt.Errorf("encode user state: %w", err)
	}
	return string(data), nil
}

// DecodeUserState parses a stored blob and merges it field by field against
// the canonical default shape: unknown stored fields are dropped, missing
// fields take their defaults. This merge is what keeps old persisted blobs
// loadable across releases, so a parse failure falls back to defaults rather
// than failing the caller.
func DecodeUserState(blob string) (UserState, error) {
	out := DefaultUserState()
	if blob == "" {
		return out, nil
	}

	// Decode into a loose map first so that a blob written by an older or
	// newer release never fails wholesale over one unexpected field.
	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(blob), &raw); err != nil {
		return out, fmt.Errorf("decode user state: %w", err)
	}

	if v, ok := raw["systemEnabled"]; ok {
		var enabled bool
		if err := json.Unmarshal(v, &enabled); err == nil {
			out.SystemEnabled = enabled
		}
	}

	if v, ok := raw["flows"]; ok {
		var flows map[FlowID]json.RawMessage
		if err := json.Unmarshal(v, &flows); err == nil {
			for id, fv := range flows {
				var fs FlowSeen
				if err := json.Unmarshal(fv, &fs); err == nil {
					out.Flows[id] = fs
				}
			}
		}
	}

	return out, nil
}
