package main

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"spendly/internal/model"
)

// Writes a gzipped JSON-lines catalog seed for local development. Two of the
// products carry a flash deal ending 48 hours from generation time.
func main() {
	dataDir := "data/catalog"

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create directory: %v", err)
	}

	now := time.Now()
	dealEnd := now.Add(48 * time.Hour)
	pct := func(p int) *int { return &p }

	products := []model.Product{
		{ID: "prod-001", Name: "Wireless Headphones", Description: "Over-ear noise cancelling headphones", Price: 129.99, Image: "https://picsum.photos/seed/prod-001/400", Category: "Electronics", CreatedAt: now},
		{ID: "prod-002", Name: "Smart Watch", Description: "Fitness tracking smart watch", Price: 199.99, Image: "https://picsum.photos/seed/prod-002/400", Category: "Electronics", IsFlashDeal: true, DiscountPercentage: pct(25), FlashDealEnd: &dealEnd, CreatedAt: now},
		{ID: "prod-003", Name: "Yoga Mat", Description: "Non-slip exercise mat", Price: 34.50, Image: "https://picsum.photos/seed/prod-003/400", Category: "Sports", CreatedAt: now},
		{ID: "prod-004", Name: "Ceramic Mug Set", Description: "Set of four stoneware mugs", Price: 42.00, Image: "https://picsum.photos/seed/prod-004/400", Category: "Home", CreatedAt: now},
		{ID: "prod-005", Name: "Desk Lamp", Description: "Adjustable LED desk lamp", Price: 59.99, Image: "https://picsum.photos/seed/prod-005/400", Category: "Home", IsFlashDeal: true, DiscountPercentage: pct(15), FlashDealEnd: &dealEnd, CreatedAt: now},
		{ID: "prod-006", Name: "Running Shoes", Description: "Lightweight trail running shoes", Price: 89.95, Image: "https://picsum.photos/seed/prod-006/400", Category: "Sports", CreatedAt: now},
		{ID: "prod-007", Name: "Notebook Set", Description: "Three dotted A5 notebooks", Price: 18.75, Image: "https://picsum.photos/seed/prod-007/400", Category: "Stationery", CreatedAt: now},
		{ID: "prod-008", Name: "French Press", Description: "8-cup borosilicate french press", Price: 27.99, Image: "https://picsum.photos/seed/prod-008/400", Category: "Home", CreatedAt: now},
	}

	filePath := filepath.Join(dataDir, "products.jsonl.gz")
	if err := writeSeed(filePath, products); err != nil {
		log.Fatalf("Failed to create %s: %v", filePath, err)
	}

	fmt.Printf("Created %s with %d products\n", filePath, len(products))
}

func writeSeed(filePath string, products []model.Product) error {
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	gzipWriter := gzip.NewWriter(file)
	defer gzipWriter.Close()

	encoder := json.NewEncoder(gzipWriter)
	for _, p := range products {
		if err := encoder.Encode(p); err != nil {
			return fmt.Errorf("failed to write product: %w", err)
		}
	}

	return nil
}
