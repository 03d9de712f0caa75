// normalize_scores.go rewrites a catalog file with every option score delta set to 1.
//
// Usage:
//
//	go run scripts/normalize_scores.go -catalog data/catalog.yaml
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/MikeSquared-Agency/Oshichecker/internal/catalog"
)

func main() {
	path := flag.String("catalog", "catalog.yaml", "path to catalog YAML file")
	dryRun := flag.Bool("dry-run", false, "print the result instead of writing it")
	flag.Parse()

	cat, err := catalog.Load(*path)
	if err != nil {
		log.Fatalf("load catalog: %v", err)
	}

	n := cat.NormalizeScores()
	out, err := cat.Marshal()
	if err != nil {
		log.Fatalf("encode catalog: %v", err)
	}

	if *dryRun {
		os.Stdout.Write(out)
		return
	}
	if err := os.WriteFile(*path, out, 0o644); err != nil {
		log.Fatalf("write catalog: %v", err)
	}
	fmt.Printf("normalized %d score deltas to 1\n", n)
}
