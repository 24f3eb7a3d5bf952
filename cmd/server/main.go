package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"treescan/pkg/api"
	"treescan/pkg/query"
	"treescan/pkg/scan"
	"treescan/pkg/treeseq"
)

func main() {
	input := flag.String("input", "sim.trees.bin", "Path to binary table file")
	port := flag.Int("port", 8080, "HTTP port")
	configPath := flag.String("config", "", "Optional YAML config file")
	corsOrigin := flag.String("cors-origin", "", "CORS allowed origin (empty = same-origin)")
	flag.Parse()

	start := time.Now()

	log.Printf("Loading tables from %s...", *input)
	ts, err := treeseq.ReadBinary(*input)
	if err != nil {
		log.Fatalf("Failed to load tables: %v", err)
	}
	log.Printf("Loaded: %d nodes, %d edges, sequence length %.0f",
		ts.NumNodes(), ts.NumEdges(), ts.SequenceLength)

	log.Println("Scanning local trees...")
	stats := scan.Compute(ts)
	log.Printf("Scanned %d trees", stats.NumTrees())

	log.Println("Building edge interval index...")
	index := query.New(ts)

	loadTime := time.Since(start)
	log.Printf("Ready in %s", loadTime.Round(time.Millisecond))

	addr := fmt.Sprintf(":%d", *port)
	cfg := api.DefaultConfig(addr)
	if *configPath != "" {
		cfg, err = api.LoadConfig(*configPath, cfg)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}
	if *corsOrigin != "" {
		cfg.CORSOrigin = *corsOrigin
	}

	resp := api.StatsResponse{
		SequenceLength: ts.SequenceLength,
		NumTrees:       stats.NumTrees(),
		Summary:        scan.Summarize(ts),
	}

	handlers := api.NewHandlers(index, stats, resp)
	srv := api.NewServer(cfg, handlers)

	if err := api.ListenAndServe(srv); err != nil {
		log.Printf("Server stopped: %v", err)
		os.Exit(1)
	}
}
