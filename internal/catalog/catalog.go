// Package catalog loads the product seed that populates an empty catalogue.
package catalog

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"storefront/internal/model"
)

// Loader reads a catalogue seed from a source such as a file path or S3 key.
type Loader interface {
	Load(ctx context.Context, source string) ([]model.Product, error)
}

// decode parses a JSON array of products, gunzipping first when source
// ends in .gz.
func decode(r io.Reader, source string) ([]model.Product, error) {
	if strings.HasSuffix(source, ".gz") {
		gz, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader for %s: %w", source, err)
		}
		defer gz.Close()
		r = gz
	}

	var products []model.Product
	if err := json.NewDecoder(r).Decode(&products); err != nil {
		return nil, fmt.Errorf("failed to decode catalogue %s: %w", source, err)
	}

	return products, nil
}
