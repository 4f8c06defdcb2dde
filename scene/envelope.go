package scene

import (
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Text forms wrap the payload in an envelope with the kind first:
//
//	{"kind": "Mesh", "payload": {...}}
//
// Graph links are not part of the text forms.

// ErrMissingKind is returned when a text envelope has no kind. Decoding never
// falls back to a default kind.
var ErrMissingKind = errors.New("Node envelope has no kind")

type jsonEnvelope struct {
	Kind    Kind            `json:"kind"`
	Payload json.RawMessage `json:"payload"`
}

func (n *Node) MarshalJSON() ([]byte, error) {
	payload, err := json.Marshal(n.payload())
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to marshal %v payload", n.Kind())
	}
	return json.Marshal(&jsonEnvelope{Kind: n.Kind(), Payload: payload})
}

func (n *Node) UnmarshalJSON(data []byte) error {
	var env struct {
		Kind    *Kind           `json:"kind"`
		Payload json.RawMessage `json:"payload"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return err
	}
	if env.Kind == nil {
		return ErrMissingKind
	}
	fresh, err := FromKind(*env.Kind)
	if err != nil {
		return err
	}
	if len(env.Payload) != 0 {
		if err := json.Unmarshal(env.Payload, fresh.payload()); err != nil {
			return errors.Wrapf(err, "Failed to unmarshal %v payload", *env.Kind)
		}
	}
	*n = fresh
	return nil
}

var (
	_ yaml.Marshaler   = (*Node)(nil)
	_ yaml.Unmarshaler = (*Node)(nil)
)

type yamlEnvelope struct {
	Kind    yaml.Node   `yaml:"kind"`
	Payload interface{} `yaml:"payload"`
}

func (n *Node) MarshalYAML() (interface{}, error) {
	return &yamlEnvelope{
		Kind: yaml.Node{
			Kind:        yaml.ScalarNode,
			Value:       n.Kind().String(),
			LineComment: fmt.Sprintf("id %d", n.Id()),
		},
		Payload: n.payload(),
	}, nil
}

func (n *Node) UnmarshalYAML(value *yaml.Node) error {
	var env struct {
		Kind    *Kind     `yaml:"kind"`
		Payload yaml.Node `yaml:"payload"`
	}
	if err := value.Decode(&env); err != nil {
		return err
	}
	if env.Kind == nil {
		return ErrMissingKind
	}
	fresh, err := FromKind(*env.Kind)
	if err != nil {
		return err
	}
	if env.Payload.Kind != 0 {
		if err := env.Payload.Decode(fresh.payload()); err != nil {
			return errors.Wrapf(err, "Failed to decode %v payload", *env.Kind)
		}
	}
	*n = fresh
	return nil
}
