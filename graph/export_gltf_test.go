package graph

import (
	"bytes"
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mogaika/scenenode/scene"
	"github.com/mogaika/scenenode/scene/mesh"
	"github.com/mogaika/scenenode/utils/gltfutils"
)

func TestExportGLTF(t *testing.T) {
	g := sampleGraph(t)
	doc, err := g.ExportGLTF()
	require.NoError(t, err)

	// root is skipped
	require.Len(t, doc.Nodes, g.Len()-1)
	require.Len(t, doc.Scenes[0].Nodes, 1)
	room := doc.Nodes[doc.Scenes[0].Nodes[0]]
	assert.Equal(t, "Room", room.Name)
	assert.Len(t, room.Children, 3)

	byName := make(map[string]*gltf.Node)
	for _, n := range doc.Nodes {
		byName[n.Name] = n
	}

	wall := byName["Wall"]
	require.NotNil(t, wall.Mesh)
	prim := doc.Meshes[*wall.Mesh].Primitives[0]
	assert.Contains(t, prim.Attributes, "POSITION")
	assert.Contains(t, prim.Attributes, "NORMAL")
	assert.Contains(t, prim.Attributes, "TEXCOORD_0")
	require.NotNil(t, prim.Indices)
	assert.EqualValues(t, 36, doc.Accessors[*prim.Indices].Count)
	assert.EqualValues(t, 24, doc.Accessors[prim.Attributes["POSITION"]].Count)

	cam := byName["Camera"]
	require.NotNil(t, cam.Camera)
	assert.Equal(t, "Camera", doc.Cameras[*cam.Camera].Name)

	lamp := byName["Lamp"]
	assert.Equal(t, [3]float32{0, 2.5, 0}, lamp.Translation)
	extras := lamp.Extras.(map[string]interface{})
	assert.Equal(t, "Light", extras["kind"])
	assert.Contains(t, extras, "light")

	var buf bytes.Buffer
	require.NoError(t, gltfutils.ExportBinary(&buf, doc))
	assert.Equal(t, []byte("glTF"), buf.Bytes()[:4])
}

func TestExportSkipsEmptyMesh(t *testing.T) {
	g := New()
	g.Add(scene.NewMesh(mesh.New()))
	doc, err := g.ExportGLTF()
	require.NoError(t, err)
	require.Len(t, doc.Nodes, 1)
	assert.Nil(t, doc.Nodes[0].Mesh)
	assert.Empty(t, doc.Meshes)
}

func TestExportRejectsBrokenIndices(t *testing.T) {
	m := mesh.NewQuad(1, 1)
	m.Surfaces[0].Indices[0] = 100
	g := New()
	g.Add(scene.NewMesh(m))
	_, err := g.ExportGLTF()
	assert.Error(t, err)
}
