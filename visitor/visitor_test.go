package visitor

import (
	"bytes"
	"io"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	Id       uint8
	Flags    uint16
	Count    uint32
	Delta    int32
	Weight   float32
	Enabled  bool
	Name     string
	Blob     []byte
	UV       mgl32.Vec2
	Position mgl32.Vec3
	Color    mgl32.Vec4
	Rotation mgl32.Quat
	Matrix   mgl32.Mat4
	Resource uuid.UUID
	Points   []point
}

type point struct {
	X, Y float32
}

func (p *point) Visit(name string, v *Visitor) error {
	v.Enter(name)
	defer v.Leave()
	if err := v.Float32("X", &p.X); err != nil {
		return err
	}
	return v.Float32("Y", &p.Y)
}

func (r *record) Visit(name string, v *Visitor) error {
	v.Enter(name)
	defer v.Leave()

	v.Uint8("Id", &r.Id)
	v.Uint16("Flags", &r.Flags)
	v.Uint32("Count", &r.Count)
	v.Int32("Delta", &r.Delta)
	v.Float32("Weight", &r.Weight)
	v.Bool("Enabled", &r.Enabled)
	v.String("Name", &r.Name)
	v.Bytes("Blob", &r.Blob)
	v.Vec2("UV", &r.UV)
	v.Vec3("Position", &r.Position)
	v.Vec4("Color", &r.Color)
	v.Quat("Rotation", &r.Rotation)
	v.Mat4("Matrix", &r.Matrix)
	v.UUID("Resource", &r.Resource)
	Slice(v, "Points", &r.Points)
	return v.Err()
}

func sampleRecord() record {
	return record{
		Id:       7,
		Flags:    0xbeef,
		Count:    123456,
		Delta:    -42,
		Weight:   0.5,
		Enabled:  true,
		Name:     "Лампа",
		Blob:     []byte{1, 2, 3},
		UV:       mgl32.Vec2{0.25, 0.75},
		Position: mgl32.Vec3{1, 2, 3},
		Color:    mgl32.Vec4{0.1, 0.2, 0.3, 1},
		Rotation: mgl32.QuatRotate(1, mgl32.Vec3{0, 1, 0}),
		Matrix:   mgl32.Translate3D(4, 5, 6),
		Resource: uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8"),
		Points:   []point{{1, 2}, {3, 4}},
	}
}

func TestRoundTrip(t *testing.T) {
	in := sampleRecord()

	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.False(t, w.IsReading())
	require.NoError(t, in.Visit("Record", w))
	assert.EqualValues(t, buf.Len(), w.Offset())

	var out record
	r := NewReader(bytes.NewReader(buf.Bytes()))
	require.True(t, r.IsReading())
	require.NoError(t, out.Visit("Record", r))
	assert.Equal(t, in, out)
	assert.EqualValues(t, buf.Len(), r.Offset())
}

func TestLayoutIsLittleEndianWithoutTags(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	id := uint8(3)
	count := uint32(0x01020304)
	name := "ab"
	require.NoError(t, w.Uint8("Id", &id))
	require.NoError(t, w.Uint32("Count", &count))
	require.NoError(t, w.String("Name", &name))

	assert.Equal(t, []byte{3, 4, 3, 2, 1, 2, 0, 0, 0, 'a', 'b'}, buf.Bytes())
}

func TestTruncatedStream(t *testing.T) {
	in := sampleRecord()
	var buf bytes.Buffer
	require.NoError(t, in.Visit("Record", NewWriter(&buf)))

	var out record
	r := NewReader(bytes.NewReader(buf.Bytes()[:22]))
	err := out.Visit("Record", r)
	require.Error(t, err)

	var verr *Error
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "Record.Name", verr.Path)
	assert.Equal(t, io.ErrUnexpectedEOF, errors.Cause(err))
	assert.Same(t, err, r.Err())
}

func TestInvalidBool(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte{2}))
	var b bool
	err := r.Bool("Enabled", &b)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidBool))
	assert.False(t, b)
}

func TestInvalidUTF8(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte{2, 0, 0, 0, 0xff, 0xfe}))
	var s string
	assert.True(t, errors.Is(r.String("Name", &s), ErrInvalidUTF8))

	var buf bytes.Buffer
	bad := string([]byte{0xff})
	assert.True(t, errors.Is(NewWriter(&buf).String("Name", &bad), ErrInvalidUTF8))
}

func TestTooLarge(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte{0xff, 0xff, 0xff, 0xff}))
	var blob []byte
	assert.True(t, errors.Is(r.Bytes("Blob", &blob), ErrTooLarge))

	r = NewReader(bytes.NewReader([]byte{0xff, 0xff, 0xff, 0xff}))
	n := 0
	assert.True(t, errors.Is(r.Len("Length", &n), ErrTooLarge))
}

func TestSliceKeepsDestinationOnError(t *testing.T) {
	// length 3 but only one point follows
	data := []byte{3, 0, 0, 0, 0, 0, 0x80, 0x3f, 0, 0, 0, 0x40}
	points := []point{{9, 9}}
	r := NewReader(bytes.NewReader(data))
	err := Slice(r, "Points", &points)
	require.Error(t, err)

	var verr *Error
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "Points.Item1.X", verr.Path)
	assert.Equal(t, []point{{9, 9}}, points)
}

func TestStickyError(t *testing.T) {
	r := NewReader(bytes.NewReader(nil))
	var a, b uint8
	first := r.Uint8("A", &a)
	require.Error(t, first)
	assert.Same(t, first, r.Uint8("B", &b))
}

func TestInvalid(t *testing.T) {
	r := NewReader(bytes.NewReader(nil))
	r.Enter("Light")
	err := r.Invalid("Type", "Unknown light type %d", 9)
	r.Leave()

	var verr *Error
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "Light.Type", verr.Path)
	assert.Contains(t, err.Error(), "Unknown light type 9")
}
