package cognite

import (
	"encoding/json"
	"fmt"
)

// Identity is a tagged value that is exactly one of an internal id, an
// external id, or a data-modelling instance id. Serialization is
// untagged: it encodes as whichever of the three shapes it holds.
type Identity struct {
	kind       identityKind
	id         int64
	externalID string
	space      string
}

type identityKind int

const (
	identityEmpty identityKind = iota
	identityID
	identityExternalID
	identityInstanceID
)

// IdentityByID builds an Identity wrapping an internal numeric id.
func IdentityByID(id int64) Identity {
	return Identity{kind: identityID, id: id}
}

// IdentityByExternalID builds an Identity wrapping a caller-assigned
// external id.
func IdentityByExternalID(externalID string) Identity {
	return Identity{kind: identityExternalID, externalID: externalID}
}

// IdentityByInstanceID builds an Identity wrapping a data-modelling
// (space, externalId) pair.
func IdentityByInstanceID(space, externalID string) Identity {
	return Identity{kind: identityInstanceID, space: space, externalID: externalID}
}

// IsEmpty reports whether this is the zero-value Identity (Id 0).
// Implementations may use it as a zero value but must never send it
// silently — callers should check IsEmpty before including an Identity in
// a request.
func (i Identity) IsEmpty() bool {
	return i.kind == identityEmpty || (i.kind == identityID && i.id == 0)
}

// ID returns (id, true) if this Identity holds an internal id.
func (i Identity) ID() (int64, bool) {
	if i.kind == identityID {
		return i.id, true
	}

	return 0, false
}

// ExternalID returns (externalId, true) if this Identity holds an
// external id.
func (i Identity) ExternalID() (string, bool) {
	if i.kind == identityExternalID {
		return i.externalID, true
	}

	return "", false
}

// InstanceID returns (space, externalId, true) if this Identity holds an
// instance id.
func (i Identity) InstanceID() (string, string, bool) {
	if i.kind == identityInstanceID {
		return i.space, i.externalID, true
	}

	return "", "", false
}

// Equal reports whether two Identities are the same variant with equal
// fields.
func (i Identity) Equal(other Identity) bool {
	return i == other
}

func (i Identity) String() string {
	switch i.kind {
	case identityID:
		return fmt.Sprintf("Id(%d)", i.id)
	case identityExternalID:
		return fmt.Sprintf("ExternalId(%q)", i.externalID)
	case identityInstanceID:
		return fmt.Sprintf("InstanceId(%q, %q)", i.space, i.externalID)
	default:
		return "Id(0)"
	}
}

type identityWire struct {
	ID         *int64            `json:"id,omitempty"`
	ExternalID *string           `json:"externalId,omitempty"`
	InstanceID *instanceIDWire   `json:"instanceId,omitempty"`
}

type instanceIDWire struct {
	Space      string `json:"space"`
	ExternalID string `json:"externalId"`
}

// MarshalJSON encodes the Identity as whichever single-field shape it
// holds: {"id":...}, {"externalId":...}, or {"instanceId":{...}}.
func (i Identity) MarshalJSON() ([]byte, error) {
	switch i.kind {
	case identityID, identityEmpty:
		return json.Marshal(identityWire{ID: &i.id})
	case identityExternalID:
		return json.Marshal(identityWire{ExternalID: &i.externalID})
	case identityInstanceID:
		return json.Marshal(identityWire{InstanceID: &instanceIDWire{Space: i.space, ExternalID: i.externalID}})
	default:
		return json.Marshal(identityWire{ID: &i.id})
	}
}

// UnmarshalJSON decodes whichever of the three shapes is present,
// preferring instanceId, then externalId, then id, matching the
// extraction precedence used for error detail lists.
func (i *Identity) UnmarshalJSON(data []byte) error {
	var w identityWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	switch {
	case w.InstanceID != nil:
		*i = IdentityByInstanceID(w.InstanceID.Space, w.InstanceID.ExternalID)
	case w.ExternalID != nil:
		*i = IdentityByExternalID(*w.ExternalID)
	case w.ID != nil:
		*i = IdentityByID(*w.ID)
	default:
		*i = Identity{}
	}

	return nil
}

// IdentityList is a convenience wrapper that always marshals as a JSON
// array, even when constructed from a single Identity.
type IdentityList []Identity

// MarshalJSON always encodes as an array, satisfying the "accepts a
// convenience of a single value or a list, always emits a list" rule.
func (l IdentityList) MarshalJSON() ([]byte, error) {
	if l == nil {
		return []byte("[]"), nil
	}

	return json.Marshal([]Identity(l))
}

// ExtractIdentities reads an Identity out of each detail map, preferring
// instanceId.{space,externalId}, then externalId, then id, per §4.6.
// Maps that match none of these shapes are skipped.
func ExtractIdentities(details []DetailItem) []Identity {
	out := make([]Identity, 0, len(details))

	for _, d := range details {
		if id, ok := identityFromDetail(d); ok {
			out = append(out, id)
		}
	}

	return out
}

func identityFromDetail(d DetailItem) (Identity, bool) {
	if raw, ok := d["instanceId"]; ok {
		if m, ok := raw.(map[string]interface{}); ok {
			space, _ := m["space"].(string)
			externalID, _ := m["externalId"].(string)

			if space != "" || externalID != "" {
				return IdentityByInstanceID(space, externalID), true
			}
		}
	}

	if raw, ok := d["externalId"]; ok {
		if s, ok := raw.(string); ok {
			return IdentityByExternalID(s), true
		}
	}

	if raw, ok := d["id"]; ok {
		switch v := raw.(type) {
		case float64:
			return IdentityByID(int64(v)), true
		case json.Number:
			n, err := v.Int64()
			if err == nil {
				return IdentityByID(n), true
			}
		}
	}

	return Identity{}, false
}
