package main

import (
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"time"

	"treescan/pkg/scan"
	"treescan/pkg/treeseq"
)

func main() {
	input := flag.String("input", "", "Path to binary table file")
	output := flag.String("output", "", "Output path (default: stdout)")
	format := flag.String("format", "csv", "Output format: csv or json")
	windows := flag.Int("windows", 0, "Aggregate into N equal genomic windows instead of per-tree rows")
	summary := flag.Bool("summary", false, "Print the table summary to stderr")
	flag.Parse()

	if *input == "" {
		fmt.Fprintln(os.Stderr, "Usage: treestat --input <file.trees.bin> [--output out.csv] [--format csv|json] [--windows N] [--summary]")
		os.Exit(1)
	}

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
	log.Printf("Scanned %d trees in %s", stats.NumTrees(), time.Since(start).Round(time.Millisecond))

	if *summary {
		s := scan.Summarize(ts)
		fmt.Fprintf(os.Stderr, "samples=%d nodes=%d edges=%d trees=%d sites=%d mutations=%d\n",
			s.NumSamples, s.NumNodes, s.NumEdges, s.NumTrees, s.NumSites, s.NumMutations)
		fmt.Fprintf(os.Stderr, "nodes_with_zero_muts=%d sites_with_zero_muts=%d\n",
			s.NodesWithZeroMutations, s.SitesWithZeroMutations)
		fmt.Fprintf(os.Stderr, "max_muts_per_site=%d mean_muts_per_site=%.3f median_muts_per_site=%.1f max_muts_per_node=%d\n",
			s.MaxMutationsPerSite, s.MeanMutationsPerSite, s.MedianMutationsPerSite, s.MaxMutationsPerNode)
	}

	var w io.Writer = os.Stdout
	if *output != "" {
		f, err := os.Create(*output)
		if err != nil {
			log.Fatalf("Failed to create output: %v", err)
		}
		defer f.Close()
		w = f
	}

	if *windows > 0 {
		ws, err := scan.Windows(stats, ts.SequenceLength, *windows)
		if err != nil {
			log.Fatalf("Failed to aggregate windows: %v", err)
		}
		if err := writeWindows(w, *format, ws); err != nil {
			log.Fatalf("Failed to write output: %v", err)
		}
		return
	}

	if err := writeTrees(w, *format, stats, scan.SitesPerTree(ts, stats)); err != nil {
		log.Fatalf("Failed to write output: %v", err)
	}
}

func writeTrees(w io.Writer, format string, stats *scan.TreeStats, sites []int32) error {
	switch format {
	case "json":
		type row struct {
			Left              float64 `json:"left"`
			Right             float64 `json:"right"`
			TotalBranchLength float64 `json:"total_branch_length"`
			NumInternalNodes  int32   `json:"num_internal_nodes"`
			MaxArity          int32   `json:"max_arity"`
			NumSites          int32   `json:"num_sites"`
		}
		rows := make([]row, stats.NumTrees())
		for t := range rows {
			rows[t] = row{
				Left:              stats.Left[t],
				Right:             stats.Right[t],
				TotalBranchLength: stats.TotalBranchLength[t],
				NumInternalNodes:  stats.NumInternalNodes[t],
				MaxArity:          stats.MaxArity[t],
				NumSites:          sites[t],
			}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	case "csv":
		cw := csv.NewWriter(w)
		if err := cw.Write([]string{"left", "right", "total_branch_length", "num_internal_nodes", "max_arity", "num_sites"}); err != nil {
			return err
		}
		for t := 0; t < stats.NumTrees(); t++ {
			rec := []string{
				formatFloat(stats.Left[t]),
				formatFloat(stats.Right[t]),
				formatFloat(stats.TotalBranchLength[t]),
				strconv.Itoa(int(stats.NumInternalNodes[t])),
				strconv.Itoa(int(stats.MaxArity[t])),
				strconv.Itoa(int(sites[t])),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()
	default:
		return fmt.Errorf("unknown format %q (want csv or json)", format)
	}
}

func writeWindows(w io.Writer, format string, ws *scan.WindowStats) error {
	switch format {
	case "json":
		type row struct {
			Left              float64 `json:"left"`
			Right             float64 `json:"right"`
			MeanBranchLength  float64 `json:"mean_branch_length"`
			MeanInternalNodes float64 `json:"mean_internal_nodes"`
			MeanMaxArity      float64 `json:"mean_max_arity"`
		}
		rows := make([]row, len(ws.Left))
		for i := range rows {
			rows[i] = row{
				Left:              ws.Left[i],
				Right:             ws.Right[i],
				MeanBranchLength:  ws.MeanBranchLength[i],
				MeanInternalNodes: ws.MeanInternalNodes[i],
				MeanMaxArity:      ws.MeanMaxArity[i],
			}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	case "csv":
		cw := csv.NewWriter(w)
		if err := cw.Write([]string{"left", "right", "mean_branch_length", "mean_internal_nodes", "mean_max_arity"}); err != nil {
			return err
		}
		for i := range ws.Left {
			rec := []string{
				formatFloat(ws.Left[i]),
				formatFloat(ws.Right[i]),
				formatFloat(ws.MeanBranchLength[i]),
				formatFloat(ws.MeanInternalNodes[i]),
				formatFloat(ws.MeanMaxArity[i]),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()
	default:
		return fmt.Errorf("unknown format %q (want csv or json)", format)
	}
}

func formatFloat(x float64) string {
	return strconv.FormatFloat(x, 'g', -1, 64)
}
