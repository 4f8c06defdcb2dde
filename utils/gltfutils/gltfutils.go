package gltfutils

import (
	"io"

	"github.com/qmuntal/gltf"
)

const Generator = "scenenode"

func NewDocument() *gltf.Document {
	doc := gltf.NewDocument()
	doc.Asset.Generator = Generator
	return doc
}

// AppendNode adds node to doc, as a scene root when parent is nil.
func AppendNode(doc *gltf.Document, node *gltf.Node, parent *uint32) uint32 {
	index := uint32(len(doc.Nodes))
	doc.Nodes = append(doc.Nodes, node)
	if parent != nil {
		p := doc.Nodes[*parent]
		p.Children = append(p.Children, index)
	} else {
		doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, index)
	}
	return index
}

// ExportBinary writes doc as a single GLB blob.
func ExportBinary(w io.Writer, doc *gltf.Document) error {
	encoder := gltf.NewEncoder(w)
	encoder.AsBinary = true
	return encoder.Encode(doc)
}
