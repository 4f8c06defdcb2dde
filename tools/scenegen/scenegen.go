package main

import (
	"flag"
	"log"
	"os"

	"github.com/mogaika/scenenode/graph"
)

func main() {
	var outPath string
	var count int
	var seed int64
	flag.StringVar(&outPath, "o", "", "Output scene file")
	flag.IntVar(&count, "n", 32, "Nodes count, root excluded")
	flag.Int64Var(&seed, "seed", 1, "Random seed")
	flag.Parse()

	if outPath == "" {
		log.Fatal("Provide output file path. Use --help if you stuck.")
	}
	if count < 0 {
		log.Fatalf("Invalid nodes count %d", count)
	}

	g := graph.Generate(count, seed)

	f, err := os.Create(outPath)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	if err := g.Save(f); err != nil {
		log.Fatalf("[scenegen] Failed to save: %v", err)
	}
	log.Printf("[scenegen] Saved scene %q with %d nodes to %q", g.Title, g.Len(), outPath)
}
