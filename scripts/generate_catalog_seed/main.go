package main

import (
	"compress/gzip"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"storefront/internal/catalog"
)

// Writes the built-in catalogue as a seed file for CATALOG_SEED_PATH or the
// S3 seed object. A .gz suffix produces a gzipped file.
func main() {
	out := flag.String("out", "data/products.json.gz", "output file")
	flag.Parse()

	if err := os.MkdirAll(filepath.Dir(*out), 0755); err != nil {
		log.Fatalf("Failed to create directory: %v", err)
	}

	file, err := os.Create(*out)
	if err != nil {
		log.Fatalf("Failed to create file %s: %v", *out, err)
	}
	defer file.Close()

	var w io.Writer = file

	if strings.HasSuffix(*out, ".gz") {
		gzWriter := gzip.NewWriter(file)
		defer gzWriter.Close()
		w = gzWriter
	}

	products := catalog.DefaultProducts()
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(products); err != nil {
		log.Fatalf("Failed to write products: %v", err)
	}

	fmt.Printf("Created %s with %d products\n", *out, len(products))
}
