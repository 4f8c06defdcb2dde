package graph

import (
	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/mogaika/scenenode/scene"
	"github.com/mogaika/scenenode/scene/base"
	"github.com/mogaika/scenenode/scene/camera"
	"github.com/mogaika/scenenode/scene/mesh"
	"github.com/mogaika/scenenode/utils/gltfutils"
)

// ExportGLTF converts the node hierarchy into a glTF document. The root node
// itself is not exported, its children become scene roots.
func (g *Graph) ExportGLTF() (*gltf.Document, error) {
	doc := gltfutils.NewDocument()
	doc.Materials = append(doc.Materials, &gltf.Material{
		Name:        "default",
		DoubleSided: true,
	})

	exported := make(map[base.Handle]uint32)
	var err error
	g.Until(func(h base.Handle, n *scene.Node) bool {
		if h == g.root {
			return true
		}

		node := exportNode(n)
		switch n.Kind() {
		case scene.KindMesh:
			if node.Mesh, err = exportMesh(doc, n.AsMesh()); err != nil {
				err = errors.Wrapf(err, "Failed to export mesh of node %v", h)
				return false
			}
		case scene.KindCamera:
			node.Camera = gltf.Index(exportCamera(doc, n.AsCamera()))
		}

		var parent *uint32
		if p, ok := exported[n.Parent()]; ok {
			parent = gltf.Index(p)
		}
		exported[h] = gltfutils.AppendNode(doc, node, parent)
		return true
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func exportNode(n *scene.Node) *gltf.Node {
	local := n.LocalTransform()
	rotation := local.Rotation.Normalize()
	node := &gltf.Node{
		Name:        n.Name(),
		Translation: local.Position,
		Rotation:    rotation.V.Vec4(rotation.W),
		Scale:       local.Scale,
	}

	extras := map[string]interface{}{
		"kind": n.Kind().String(),
	}
	if tag := n.Tag(); tag != "" {
		extras["tag"] = tag
	}
	if !n.Visibility() {
		extras["visible"] = false
	}

	if l, ok := n.TryAsLight(); ok {
		extras["light"] = map[string]interface{}{
			"type":      l.Type.String(),
			"color":     l.Color,
			"intensity": l.Intensity,
			"radius":    l.Radius,
			"hotspot":   l.HotspotAngle,
			"falloff":   l.FalloffAngleDelta,
			"distance":  l.Distance,
		}
	}
	if s, ok := n.TryAsSprite(); ok {
		extras["sprite"] = map[string]interface{}{
			"texture":  s.Texture.String(),
			"color":    s.Color,
			"size":     s.Size,
			"rotation": s.Rotation,
		}
	}
	if ps, ok := n.TryAsParticleSystem(); ok {
		extras["particles"] = map[string]interface{}{
			"emitters":     len(ps.Emitters),
			"acceleration": ps.Acceleration,
			"texture":      ps.Texture.String(),
		}
	}

	node.Extras = extras
	return node
}

// exportMesh returns nil when the mesh has no drawable surface.
func exportMesh(doc *gltf.Document, m *mesh.Mesh) (*uint32, error) {
	gltfMesh := &gltf.Mesh{Name: m.Name}

	for iSurface := range m.Surfaces {
		surface := &m.Surfaces[iSurface]
		if len(surface.Vertices) == 0 || len(surface.Indices) == 0 {
			continue
		}

		positions := make([][3]float32, len(surface.Vertices))
		normals := make([][3]float32, len(surface.Vertices))
		uvs := make([][2]float32, len(surface.Vertices))
		for iVertex, vertex := range surface.Vertices {
			positions[iVertex] = vertex.Position
			normal := vertex.Normal
			if normal.Len() > 0.5 {
				normal = normal.Normalize()
			}
			normals[iVertex] = normal
			uvs[iVertex] = vertex.TexCoord
		}
		for _, index := range surface.Indices {
			if int(index) >= len(surface.Vertices) {
				return nil, errors.Errorf("Surface %d index %d out of %d vertices", iSurface, index, len(surface.Vertices))
			}
		}

		attributes := map[string]uint32{
			"POSITION":   modeler.WritePosition(doc, positions),
			"NORMAL":     modeler.WriteNormal(doc, normals),
			"TEXCOORD_0": modeler.WriteTextureCoord(doc, uvs),
		}
		gltfMesh.Primitives = append(gltfMesh.Primitives, &gltf.Primitive{
			Indices:    gltf.Index(modeler.WriteIndices(doc, surface.Indices)),
			Attributes: attributes,
			Material:   gltf.Index(0),
		})
	}

	if len(gltfMesh.Primitives) == 0 {
		return nil, nil
	}
	doc.Meshes = append(doc.Meshes, gltfMesh)
	return gltf.Index(uint32(len(doc.Meshes) - 1)), nil
}

func exportCamera(doc *gltf.Document, c *camera.Camera) uint32 {
	zfar := c.ZFar
	doc.Cameras = append(doc.Cameras, &gltf.Camera{
		Name: c.Name,
		Perspective: &gltf.Perspective{
			Yfov:  c.Fov,
			Znear: c.ZNear,
			Zfar:  &zfar,
		},
	})
	return uint32(len(doc.Cameras) - 1)
}
