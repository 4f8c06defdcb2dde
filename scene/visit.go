package scene

import (
	"bytes"

	"github.com/mogaika/scenenode/visitor"
)

// KindIdField is the name of the identifier visited ahead of every payload.
const KindIdField = "KindId"

// Visit writes the kind identifier followed by the payload fields. On read the
// identifier selects the kind: n is replaced by a default node of that kind,
// which then reads its own fields. Payload errors are returned as is. An
// unknown identifier is returned as *UnknownKindError and is also recorded as
// the session error of v, so a later v.Err() reports it.
func (n *Node) Visit(name string, v *visitor.Visitor) error {
	id := n.Id()
	offset := v.Offset()
	if err := v.Uint8(KindIdField, &id); err != nil {
		return err
	}

	if v.IsReading() {
		fresh, err := FromId(id)
		if err != nil {
			kerr := err.(*UnknownKindError)
			kerr.Offset = offset
			v.Fail(KindIdField, kerr)
			return kerr
		}
		*n = fresh
	}

	return n.payload().Visit(name, v)
}

// Encode returns the self describing binary form of n.
func Encode(n *Node) ([]byte, error) {
	var buf bytes.Buffer
	if err := n.Visit("Node", visitor.NewWriter(&buf)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode reads a node written by Encode. Trailing bytes are ignored.
func Decode(data []byte) (Node, error) {
	var n Node
	if err := n.Visit("Node", visitor.NewReader(bytes.NewReader(data))); err != nil {
		return Node{}, err
	}
	return n, nil
}
