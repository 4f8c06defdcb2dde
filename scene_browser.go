package main

import (
	"flag"
	"log"
	"os"
	"strings"

	"github.com/mogaika/scenenode/config"
	"github.com/mogaika/scenenode/graph"
	"github.com/mogaika/scenenode/web"
)

func main() {
	var addr, scenePath, webPath, encoding string
	var generate int
	var seed int64
	flag.StringVar(&addr, "i", ":8000", "Address of server")
	flag.StringVar(&scenePath, "scene", "", "Path to scene file")
	flag.IntVar(&generate, "generate", 0, "Serve random scene with this amount of nodes instead of file")
	flag.Int64Var(&seed, "seed", 1, "Seed for -generate")
	flag.StringVar(&webPath, "web", "", "Path to folder with static web data")
	flag.StringVar(&encoding, "encoding", config.DefaultEncoding,
		"Encoding of scene titles, one of: "+strings.Join(config.ListEncodings(), ", "))
	flag.Parse()

	if err := config.SetEncoding(encoding); err != nil {
		log.Fatal(err)
	}

	var g *graph.Graph
	if scenePath != "" {
		f, err := os.Open(scenePath)
		if err != nil {
			log.Fatal(err)
		}
		g, err = graph.Load(f)
		f.Close()
		if err != nil {
			log.Fatalf("Failed to load %q: %v", scenePath, err)
		}
	} else if generate > 0 {
		g = graph.Generate(generate, seed)
		log.Printf("Generated scene %q with %d nodes", g.Title, g.Len())
	} else {
		flag.PrintDefaults()
		return
	}

	if err := web.StartServer(addr, g, webPath); err != nil {
		log.Fatal(err)
	}
}
