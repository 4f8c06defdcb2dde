package sprite

import (
	"bytes"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mogaika/scenenode/visitor"
)

func TestVisitRoundTrip(t *testing.T) {
	in := New()
	in.Name = "Flare"
	in.Texture = uuid.New()
	in.Color = [4]uint8{10, 20, 30, 40}
	in.Size = 2.5
	in.Rotation = 0.75

	var buf bytes.Buffer
	require.NoError(t, in.Visit("Sprite", visitor.NewWriter(&buf)))

	out := New()
	require.NoError(t, out.Visit("Sprite", visitor.NewReader(&buf)))
	assert.Equal(t, in, out)
}

func TestTruncated(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, New().Visit("Sprite", visitor.NewWriter(&buf)))

	data := buf.Bytes()
	err := New().Visit("Sprite", visitor.NewReader(bytes.NewReader(data[:len(data)-2])))
	var verr *visitor.Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Sprite.Rotation", verr.Path)
}
