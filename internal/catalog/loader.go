package catalog

import (
	"bufio"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"spendly/internal/model"

	"github.com/rs/zerolog"
)

// fileLoader implements Loader for reading gzipped seed files from disk.
type fileLoader struct {
	logger zerolog.Logger
}

// NewFileLoader creates a new file-based catalog loader.
func NewFileLoader(logger zerolog.Logger) Loader {
	return &fileLoader{
		logger: logger.With().Str("component", "catalog-loader").Logger(),
	}
}

// Load reads a gzipped JSON-lines seed file and returns its products.
func (l *fileLoader) Load(ctx context.Context, filePath string) ([]model.Product, error) {
	l.logger.Info().Str("file", filePath).Msg("loading catalog seed file")

	file, err := os.Open(filePath)
	if err != nil {
		l.logger.Error().Err(err).Str("file", filePath).Msg("failed to open seed file")
		return nil, fmt.Errorf("failed to open seed file %s: %w", filePath, err)
	}
	defer file.Close()

	gzipReader, err := gzip.NewReader(file)
	if err != nil {
		l.logger.Error().Err(err).Str("file", filePath).Msg("failed to create gzip reader")
		return nil, fmt.Errorf("failed to create gzip reader for %s: %w", filePath, err)
	}
	defer gzipReader.Close()

	products, err := decodeProducts(ctx, gzipReader)
	if err != nil {
		l.logger.Error().Err(err).Str("file", filePath).Msg("error reading seed file")
		return nil, fmt.Errorf("error reading seed file %s: %w", filePath, err)
	}

	l.logger.Info().
		Str("file", filePath).
		Int("products", len(products)).
		Msg("catalog seed file loaded")

	return products, nil
}

// decodeProducts reads one JSON product per line. Blank lines are skipped;
// a malformed line fails the whole load so a bad seed never half-applies.
func decodeProducts(ctx context.Context, r io.Reader) ([]model.Product, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	var products []model.Product
	line := 0
	for scanner.Scan() {
		line++
		if line%1000 == 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
			}
		}

		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}

		var p model.Product
		if err := json.Unmarshal([]byte(text), &p); err != nil {
			return nil, fmt.Errorf("invalid product record at line %d: %w", line, err)
		}
		if p.ID == "" || p.Name == "" {
			return nil, fmt.Errorf("product record at line %d is missing id or name", line)
		}
		products = append(products, p)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return products, nil
}
