package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io/ioutil"
	"log"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mogaika/scenenode/config"
	"github.com/mogaika/scenenode/graph"
	"github.com/mogaika/scenenode/scene"
	"github.com/mogaika/scenenode/scene/base"
	"github.com/mogaika/scenenode/utils"
)

type dumpEntry struct {
	Handle base.Handle `yaml:"handle" json:"handle"`
	Parent base.Handle `yaml:"parent" json:"parent"`
	Node   *scene.Node `yaml:"node" json:"node"`
}

type dump struct {
	Title string      `yaml:"title" json:"title"`
	Nodes []dumpEntry `yaml:"nodes" json:"nodes"`
}

func main() {
	var inPath, format, encoding string
	flag.StringVar(&inPath, "i", "", "Scene file")
	flag.StringVar(&format, "format", "yaml", "Output format: yaml, json or spew")
	flag.StringVar(&encoding, "encoding", config.DefaultEncoding, "Encoding of scene title")
	flag.Parse()

	if inPath == "" {
		flag.PrintDefaults()
		return
	}
	if err := config.SetEncoding(encoding); err != nil {
		log.Fatal(err)
	}

	data, err := ioutil.ReadFile(inPath)
	if err != nil {
		log.Fatal(err)
	}

	h, title, err := graph.ReadHeader(bytes.NewReader(data))
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("[scenedump] %q: version %d, title %q (%s)",
		inPath, h.Version, title, utils.DumpToOneLineString(h.Title[:]))

	g, err := graph.Load(bytes.NewReader(data))
	if err != nil {
		log.Fatal(err)
	}

	d := dump{Title: g.Title}
	g.ForEach(func(h base.Handle, n *scene.Node) {
		d.Nodes = append(d.Nodes, dumpEntry{Handle: h, Parent: n.Parent(), Node: n})
	})

	switch format {
	case "yaml":
		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		if err := enc.Encode(&d); err != nil {
			log.Fatal(err)
		}
		enc.Close()
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(&d); err != nil {
			log.Fatal(err)
		}
	case "spew":
		for _, e := range d.Nodes {
			fmt.Printf("%v %v\n", e.Handle, e.Node)
			fmt.Println(utils.SDump(e.Node.Payload()))
		}
	default:
		log.Fatalf("Unknown format %q", format)
	}
}
