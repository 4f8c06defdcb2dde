package graph

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mogaika/scenenode/config"
	"github.com/mogaika/scenenode/scene"
	"github.com/mogaika/scenenode/scene/base"
	"github.com/mogaika/scenenode/scene/light"
	"github.com/mogaika/scenenode/scene/mesh"
	"github.com/mogaika/scenenode/scene/particle"
	"github.com/mogaika/scenenode/scene/sprite"
	"github.com/mogaika/scenenode/visitor"
)

func sampleGraph(t *testing.T) *Graph {
	g := New()
	g.Title = "Sample"

	room := g.Add(named(scene.NewBase(), "Room"))
	wall := g.Add(named(scene.NewMesh(mesh.NewCube(mgl32.Vec3{4, 3, 0.2})), "Wall"))
	lamp := g.Add(named(scene.NewLight(light.NewPoint(5)), "Lamp"))
	cam := g.Add(named(scene.NewCamera(nil), "Camera"))

	s := sprite.New()
	s.Texture = uuid.MustParse("0b7e3b4e-5f2e-4d0e-9c1a-6d1f3e6a7b8c")
	glow := g.Add(named(scene.NewSprite(s), "Glow"))

	ps := particle.New()
	ps.Emitters = []particle.Emitter{particle.NewSphereEmitter(0.5)}
	smoke := g.Add(named(scene.NewParticleSystem(ps), "Smoke"))

	for _, h := range []base.Handle{wall, lamp, cam} {
		require.NoError(t, g.Link(h, room))
	}
	require.NoError(t, g.Link(glow, lamp))
	require.NoError(t, g.Link(smoke, wall))

	// leave a hole in the pool
	tmp := g.Add(scene.NewBase())
	_, err := g.Remove(tmp)
	require.NoError(t, err)

	tr := base.Identity()
	tr.Position = mgl32.Vec3{0, 2.5, 0}
	g.Get(lamp).SetLocalTransform(tr)
	g.UpdateHierarchy()
	return g
}

func TestSaveLoadRoundTrip(t *testing.T) {
	g := sampleGraph(t)

	var buf bytes.Buffer
	require.NoError(t, g.Save(&buf))

	loaded, err := Load(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, g, loaded)

	h, ok := loaded.Find("Glow")
	require.True(t, ok)
	assert.True(t, loaded.Get(h).IsSprite())
	pos := loaded.Get(h).AsBase().GlobalPosition()
	assertVec3InDelta(t, mgl32.Vec3{0, 2.5, 0}, pos, 1e-6)

	// free slot is reused after load as well
	n := loaded.Add(scene.NewBase())
	assert.EqualValues(t, 2, n.Generation)
}

func TestSaveHeaderLayout(t *testing.T) {
	g := New()
	g.Title = "Title"
	data, err := g.MarshalBinary()
	require.NoError(t, err)

	assert.Equal(t, []byte("SCNG"), data[0:4])
	assert.EqualValues(t, config.CurrentFormat, binary.LittleEndian.Uint32(data[4:8]))
	assert.Equal(t, append([]byte("Title"), make([]byte, TitleSize-5)...), data[8:8+TitleSize])
	assert.EqualValues(t, 0, binary.LittleEndian.Uint32(data[0x20:]))
	assert.EqualValues(t, 1, binary.LittleEndian.Uint32(data[0x24:]))
	assert.EqualValues(t, 1, binary.LittleEndian.Uint32(data[0x28:]))
	// alive flag, generation, then the root node kind id
	assert.Equal(t, []byte{1, 1, 0, 0, 0, byte(scene.KindBase)}, data[0x2c:0x32])

	h, title, err := ReadHeader(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, "Title", title)
	assert.Equal(t, g.Root(), h.Root)
}

func TestTitleTooLong(t *testing.T) {
	g := New()
	g.Title = "A title that does not fit into the header"
	assert.Error(t, g.Save(&bytes.Buffer{}))
}

func TestLoadRejectsBadHeader(t *testing.T) {
	data, err := New().MarshalBinary()
	require.NoError(t, err)

	bad := append([]byte(nil), data...)
	copy(bad, "GNCS")
	_, err = Load(bytes.NewReader(bad))
	var verr *visitor.Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Header.Magic", verr.Path)

	bad = append([]byte(nil), data...)
	binary.LittleEndian.PutUint32(bad[4:], 77)
	_, err = Load(bytes.NewReader(bad))
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Header.Version", verr.Path)
}

func TestLoadUnknownKindReportsNode(t *testing.T) {
	g := New()
	g.Add(scene.NewMesh(nil))
	data, err := g.MarshalBinary()
	require.NoError(t, err)

	// second slot: alive, generation, kind id
	kindOffset := bytes.LastIndex(data, []byte{1, 1, 0, 0, 0, byte(scene.KindMesh)}) + 5
	require.Greater(t, kindOffset, 0x2c)
	data[kindOffset] = 6

	_, err = Load(bytes.NewReader(data))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Failed to load node 1")

	var kerr *scene.UnknownKindError
	require.True(t, errors.As(err, &kerr))
	assert.EqualValues(t, 6, kerr.Id)
	assert.True(t, errors.Is(err, scene.ErrUnknownKind))
}

func TestLoadTruncated(t *testing.T) {
	data, err := sampleGraph(t).MarshalBinary()
	require.NoError(t, err)

	_, err = Load(bytes.NewReader(data[:len(data)-1]))
	var verr *visitor.Error
	require.ErrorAs(t, err, &verr)
}

func TestLoadRejectsBrokenLinks(t *testing.T) {
	for _, tc := range []struct {
		name   string
		breaks func(g *Graph, x, a, b base.Handle)
		err    string
	}{
		{
			name: "parent does not list child",
			breaks: func(g *Graph, x, a, b base.Handle) {
				g.Get(g.Root()).AsBase().RemoveChild(b)
				g.Get(b).AsBase().SetParent(a)
			},
			err: "is missing from children",
		},
		{
			name: "duplicated child",
			breaks: func(g *Graph, x, a, b base.Handle) {
				root := g.Get(g.Root()).AsBase()
				root.AddChild(x)
				root.AddChild(x)
			},
			err: "more than once",
		},
		{
			name: "detached cycle",
			breaks: func(g *Graph, x, a, b base.Handle) {
				root := g.Get(g.Root()).AsBase()
				root.RemoveChild(a)
				root.RemoveChild(b)
				g.Get(a).AsBase().SetParent(b)
				g.Get(a).AsBase().AddChild(b)
				g.Get(b).AsBase().SetParent(a)
				g.Get(b).AsBase().AddChild(a)
			},
			err: "not reachable from root",
		},
		{
			name: "duplicated child hides detached cycle",
			breaks: func(g *Graph, x, a, b base.Handle) {
				root := g.Get(g.Root()).AsBase()
				root.AddChild(x)
				root.AddChild(x)
				root.RemoveChild(a)
				root.RemoveChild(b)
				g.Get(a).AsBase().SetParent(b)
				g.Get(a).AsBase().AddChild(b)
				g.Get(b).AsBase().SetParent(a)
				g.Get(b).AsBase().AddChild(a)
			},
			err: "Invalid scene",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			g := New()
			x := g.Add(scene.NewBase())
			a := g.Add(scene.NewBase())
			b := g.Add(scene.NewBase())
			tc.breaks(g, x, a, b)

			data, err := g.MarshalBinary()
			require.NoError(t, err)
			_, err = Load(bytes.NewReader(data))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.err)
		})
	}
}

func TestUnmarshalBinary(t *testing.T) {
	g := sampleGraph(t)
	data, err := g.MarshalBinary()
	require.NoError(t, err)

	var out Graph
	require.NoError(t, out.UnmarshalBinary(data))
	assert.Equal(t, g.Len(), out.Len())
	assert.Equal(t, "Sample", out.Title)
}
