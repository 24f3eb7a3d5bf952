package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"treescan/pkg/treeseq"
)

func main() {
	output := flag.String("output", "sim.trees.bin", "Output binary table file path")
	samples := flag.Int("samples", 20, "Number of sample (leaf) nodes")
	ancestors := flag.Int("ancestors", 19, "Number of ancestral nodes")
	length := flag.Float64("length", 1_000_000, "Sequence length")
	breakpoints := flag.Int("breakpoints", 100, "Number of recombination breakpoints")
	sites := flag.Int("sites", 200, "Number of sites")
	mutations := flag.Int("mutations", 500, "Number of mutations")
	seed := flag.Int64("seed", 42, "Random seed")
	flag.Parse()

	start := time.Now()

	log.Printf("Simulating: %d samples, %d ancestors, length %.0f, %d breakpoints...",
		*samples, *ancestors, *length, *breakpoints)
	ts, err := treeseq.Simulate(treeseq.SimulateOptions{
		Samples:        *samples,
		Ancestors:      *ancestors,
		SequenceLength: *length,
		Breakpoints:    *breakpoints,
		Sites:          *sites,
		Mutations:      *mutations,
		Seed:           *seed,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "simulate: %v\n", err)
		os.Exit(1)
	}
	log.Printf("Tables: %d nodes, %d edges, %d trees, %d sites, %d mutations",
		ts.NumNodes(), ts.NumEdges(), ts.NumTrees(), ts.NumSites(), ts.NumMutations())

	log.Printf("Writing binary to %s...", *output)
	if err := treeseq.WriteBinary(*output, ts); err != nil {
		log.Fatalf("Failed to write binary: %v", err)
	}

	info, _ := os.Stat(*output)
	log.Printf("Done in %s. Output: %s (%.1f KB)",
		time.Since(start).Round(time.Millisecond), *output, float64(info.Size())/1024)
}
