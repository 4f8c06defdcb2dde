// Package visitor implements the field visitor protocol used to persist scene
// nodes. A Visitor is a read or write session over a byte stream: every field
// is visited by name with a pointer to its value, and the same code path both
// encodes the value (write mode) and populates it (read mode).
//
// The stream carries no field names or type tags. Fields are fixed width,
// little-endian and appear in the order they are visited; names only build the
// path reported by errors.
package visitor

import (
	"encoding/binary"
	"io"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

const (
	// MaxPayloadLen caps strings and byte blobs.
	MaxPayloadLen = 1 << 20
	// MaxCollectionLen caps element counts written by Len.
	MaxCollectionLen = 1 << 24
)

// Visitable is implemented by every value that knows how to visit its own fields.
type Visitable interface {
	Visit(name string, v *Visitor) error
}

type Visitor struct {
	reading bool
	r       io.Reader
	w       io.Writer
	offset  int64
	path    []string
	err     error
	scratch [16]byte
}

func NewReader(r io.Reader) *Visitor {
	return &Visitor{reading: true, r: r}
}

func NewWriter(w io.Writer) *Visitor {
	return &Visitor{w: w}
}

// IsReading reports whether fields are decoded into their destinations.
func (v *Visitor) IsReading() bool { return v.reading }

// Offset returns the number of bytes processed so far.
func (v *Visitor) Offset() int64 { return v.offset }

// Err returns the first error encountered by the session.
func (v *Visitor) Err() error { return v.err }

// Enter opens a named region. Regions only affect error paths.
func (v *Visitor) Enter(name string) {
	v.path = append(v.path, name)
}

// Leave closes the region opened by the matching Enter.
func (v *Visitor) Leave() {
	if len(v.path) > 0 {
		v.path = v.path[:len(v.path)-1]
	}
}

// Path returns the dotted path of the current region.
func (v *Visitor) Path() string {
	return strings.Join(v.path, ".")
}

func (v *Visitor) fail(name string, err error) error {
	if v.err != nil {
		return v.err
	}
	path := v.Path()
	if name != "" {
		if path != "" {
			path += "."
		}
		path += name
	}
	v.err = &Error{Path: path, Offset: v.offset, Err: err}
	return v.err
}

// raw moves len(p) bytes between the stream and p.
func (v *Visitor) raw(name string, p []byte) error {
	if v.err != nil {
		return v.err
	}
	var n int
	var err error
	if v.reading {
		n, err = io.ReadFull(v.r, p)
	} else {
		n, err = v.w.Write(p)
	}
	if err != nil {
		return v.fail(name, err)
	}
	v.offset += int64(n)
	return nil
}

// Raw visits a fixed size block of len(p) bytes, with no length prefix.
func (v *Visitor) Raw(name string, p []byte) error {
	return v.raw(name, p)
}

func (v *Visitor) Uint8(name string, p *uint8) error {
	b := v.scratch[:1]
	if !v.reading {
		b[0] = *p
	}
	if err := v.raw(name, b); err != nil {
		return err
	}
	if v.reading {
		*p = b[0]
	}
	return nil
}

func (v *Visitor) Uint16(name string, p *uint16) error {
	b := v.scratch[:2]
	if !v.reading {
		binary.LittleEndian.PutUint16(b, *p)
	}
	if err := v.raw(name, b); err != nil {
		return err
	}
	if v.reading {
		*p = binary.LittleEndian.Uint16(b)
	}
	return nil
}

func (v *Visitor) Uint32(name string, p *uint32) error {
	b := v.scratch[:4]
	if !v.reading {
		binary.LittleEndian.PutUint32(b, *p)
	}
	if err := v.raw(name, b); err != nil {
		return err
	}
	if v.reading {
		*p = binary.LittleEndian.Uint32(b)
	}
	return nil
}

func (v *Visitor) Int32(name string, p *int32) error {
	u := uint32(*p)
	if err := v.Uint32(name, &u); err != nil {
		return err
	}
	*p = int32(u)
	return nil
}

func (v *Visitor) Float32(name string, p *float32) error {
	u := math.Float32bits(*p)
	if err := v.Uint32(name, &u); err != nil {
		return err
	}
	*p = math.Float32frombits(u)
	return nil
}

// Bool is stored as a single byte that must be 0 or 1.
func (v *Visitor) Bool(name string, p *bool) error {
	var b uint8
	if *p {
		b = 1
	}
	if err := v.Uint8(name, &b); err != nil {
		return err
	}
	if b > 1 {
		return v.fail(name, ErrInvalidBool)
	}
	*p = b == 1
	return nil
}

// Len visits a collection length. On read the stored value must not exceed
// MaxCollectionLen.
func (v *Visitor) Len(name string, n *int) error {
	if !v.reading && (*n < 0 || *n > MaxCollectionLen) {
		return v.fail(name, ErrTooLarge)
	}
	u := uint32(*n)
	if err := v.Uint32(name, &u); err != nil {
		return err
	}
	if u > MaxCollectionLen {
		return v.fail(name, ErrTooLarge)
	}
	*n = int(u)
	return nil
}

// Bytes is stored as a u32 length followed by the raw bytes.
func (v *Visitor) Bytes(name string, p *[]byte) error {
	size := len(*p)
	if !v.reading && size > MaxPayloadLen {
		return v.fail(name, ErrTooLarge)
	}
	u := uint32(size)
	if err := v.Uint32(name, &u); err != nil {
		return err
	}
	if !v.reading {
		return v.raw(name, *p)
	}
	if u > MaxPayloadLen {
		return v.fail(name, ErrTooLarge)
	}
	data := make([]byte, u)
	if err := v.raw(name, data); err != nil {
		return err
	}
	*p = data
	return nil
}

// String is stored like Bytes and must hold valid UTF-8.
func (v *Visitor) String(name string, p *string) error {
	if !v.reading && !utf8.ValidString(*p) {
		return v.fail(name, ErrInvalidUTF8)
	}
	data := []byte(*p)
	if err := v.Bytes(name, &data); err != nil {
		return err
	}
	if v.reading {
		if !utf8.Valid(data) {
			return v.fail(name, ErrInvalidUTF8)
		}
		*p = string(data)
	}
	return nil
}

func (v *Visitor) floats(name string, fs []float32) error {
	v.Enter(name)
	defer v.Leave()
	for i := range fs {
		if err := v.Float32(strconv.Itoa(i), &fs[i]); err != nil {
			return err
		}
	}
	return nil
}

func (v *Visitor) Vec2(name string, p *mgl32.Vec2) error { return v.floats(name, p[:]) }

func (v *Visitor) Vec3(name string, p *mgl32.Vec3) error { return v.floats(name, p[:]) }

func (v *Visitor) Vec4(name string, p *mgl32.Vec4) error { return v.floats(name, p[:]) }

// Mat4 is stored column-major, as mgl32 keeps it in memory.
func (v *Visitor) Mat4(name string, p *mgl32.Mat4) error { return v.floats(name, p[:]) }

// Quat is stored as x, y, z, w.
func (v *Visitor) Quat(name string, p *mgl32.Quat) error {
	fs := [4]float32{p.V[0], p.V[1], p.V[2], p.W}
	if err := v.floats(name, fs[:]); err != nil {
		return err
	}
	p.V = mgl32.Vec3{fs[0], fs[1], fs[2]}
	p.W = fs[3]
	return nil
}

// UUID is stored as its 16 raw bytes.
func (v *Visitor) UUID(name string, p *uuid.UUID) error {
	b := v.scratch[:16]
	if !v.reading {
		copy(b, p[:])
	}
	if err := v.raw(name, b); err != nil {
		return err
	}
	if v.reading {
		copy(p[:], b)
	}
	return nil
}

// Slice visits a length followed by every element of s. On read s is replaced
// by a freshly allocated slice populated in place, or nil for zero elements.
func Slice[T any, PT interface {
	*T
	Visitable
}](v *Visitor, name string, s *[]T) error {
	v.Enter(name)
	defer v.Leave()

	n := len(*s)
	if err := v.Len("Length", &n); err != nil {
		return err
	}
	if !v.IsReading() {
		for i := range *s {
			if err := PT(&(*s)[i]).Visit(itemName(i), v); err != nil {
				return err
			}
		}
		return nil
	}

	if n == 0 {
		*s = nil
		return nil
	}
	// grow while reading so a corrupt length fails on EOF, not on allocation
	items := make([]T, 0, minInt(n, 256))
	for i := 0; i < n; i++ {
		var item T
		if err := PT(&item).Visit(itemName(i), v); err != nil {
			return err
		}
		items = append(items, item)
	}
	*s = items
	return nil
}

func itemName(i int) string {
	return "Item" + strconv.Itoa(i)
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
