package cognite

import "encoding/json"

// UpdateSet replaces a scalar field with Value on the wire: {"set": value}.
type UpdateSet[T any] struct {
	Value T
}

func (u UpdateSet[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Set T `json:"set"`
	}{Set: u.Value})
}

// UpdateSetNull replaces a nullable field with Value, or clears it
// entirely when Null is true. The two are mutually exclusive on the wire:
// {"set": value} or {"setNull": true}, never both.
type UpdateSetNull[T any] struct {
	Value T
	Null  bool
}

// SetValue builds an UpdateSetNull that sets Value.
func SetValue[T any](v T) UpdateSetNull[T] {
	return UpdateSetNull[T]{Value: v}
}

// SetNull builds an UpdateSetNull that clears the field.
func SetNull[T any]() UpdateSetNull[T] {
	return UpdateSetNull[T]{Null: true}
}

func (u UpdateSetNull[T]) MarshalJSON() ([]byte, error) {
	if u.Null {
		return json.Marshal(struct {
			SetNull bool `json:"setNull"`
		}{SetNull: true})
	}

	return json.Marshal(struct {
		Set T `json:"set"`
	}{Set: u.Value})
}

// UpdateList expresses either an additive add/remove delta or a full
// replacement on a list field. Exactly one of (Add/Remove) or Set should
// be populated; an empty Add/Remove delta is omitted rather than sent as
// an empty list.
type UpdateList[Add any, Remove any] struct {
	AddItems    []Add
	RemoveItems []Remove
	SetItems    []Add
	IsSet       bool
}

// AddRemove builds an additive UpdateList delta.
func AddRemove[Add, Remove any](add []Add, remove []Remove) UpdateList[Add, Remove] {
	return UpdateList[Add, Remove]{AddItems: add, RemoveItems: remove}
}

// ReplaceList builds a full-replacement UpdateList.
func ReplaceList[Add, Remove any](set []Add) UpdateList[Add, Remove] {
	return UpdateList[Add, Remove]{SetItems: set, IsSet: true}
}

func (u UpdateList[Add, Remove]) MarshalJSON() ([]byte, error) {
	if u.IsSet {
		return json.Marshal(struct {
			Set []Add `json:"set"`
		}{Set: u.SetItems})
	}

	payload := struct {
		Add    []Add    `json:"add,omitempty"`
		Remove []Remove `json:"remove,omitempty"`
	}{}

	if len(u.AddItems) > 0 {
		payload.Add = u.AddItems
	}

	if len(u.RemoveItems) > 0 {
		payload.Remove = u.RemoveItems
	}

	return json.Marshal(payload)
}

// UpdateMap expresses either a per-key add/remove delta or a full
// replacement on a map field, mirroring UpdateList.
type UpdateMap[V any] struct {
	AddItems    map[string]V
	RemoveItems []string
	SetItems    map[string]V
	IsSet       bool
}

// AddRemoveMap builds an additive UpdateMap delta.
func AddRemoveMap[V any](add map[string]V, remove []string) UpdateMap[V] {
	return UpdateMap[V]{AddItems: add, RemoveItems: remove}
}

// ReplaceMap builds a full-replacement UpdateMap.
func ReplaceMap[V any](set map[string]V) UpdateMap[V] {
	return UpdateMap[V]{SetItems: set, IsSet: true}
}

func (u UpdateMap[V]) MarshalJSON() ([]byte, error) {
	if u.IsSet {
		return json.Marshal(struct {
			Set map[string]V `json:"set"`
		}{Set: u.SetItems})
	}

	payload := struct {
		Add    map[string]V `json:"add,omitempty"`
		Remove []string     `json:"remove,omitempty"`
	}{}

	if len(u.AddItems) > 0 {
		payload.Add = u.AddItems
	}

	if len(u.RemoveItems) > 0 {
		payload.Remove = u.RemoveItems
	}

	return json.Marshal(payload)
}

// Patch is an update request keyed by an Identity: it flattens the
// identity fields alongside an "update" object carrying one or more of
// the Update* wrapper types above.
type Patch[U any] struct {
	Identity Identity
	Update   U
}

func (p Patch[U]) MarshalJSON() ([]byte, error) {
	idBytes, err := json.Marshal(p.Identity)
	if err != nil {
		return nil, err
	}

	var idFields map[string]json.RawMessage
	if err := json.Unmarshal(idBytes, &idFields); err != nil {
		return nil, err
	}

	updateBytes, err := json.Marshal(p.Update)
	if err != nil {
		return nil, err
	}

	idFields["update"] = updateBytes

	return json.Marshal(idFields)
}
