package boosts

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/schappie/backend/internal/domain"
)

// Load reads a learned-boosts table from a JSON file. The file maps
// lowercased queries to per-category selection weights in [0,1]. A missing
// path or file is not an error: ranking simply runs without the boost factor.
func Load(path string) domain.LearnedBoosts {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("[BOOSTS] read %s failed: %v", path, err)
		}
		return nil
	}

	table, err := parse(data)
	if err != nil {
		log.Printf("[BOOSTS] parse %s failed: %v", path, err)
		return nil
	}

	log.Printf("[BOOSTS] loaded %d query entries from %s", len(table), path)
	return table
}

// parse validates and normalizes the raw table: queries are lowercased,
// unknown categories dropped, weights clamped into [0,1]
func parse(data []byte) (domain.LearnedBoosts, error) {
	var raw map[string]map[string]float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid boosts file: %w", err)
	}

	table := make(domain.LearnedBoosts, len(raw))
	for query, byCategory := range raw {
		query = strings.ToLower(strings.TrimSpace(query))
		if query == "" {
			continue
		}
		entry := make(map[string]float64, len(byCategory))
		for category, weight := range byCategory {
			if !domain.IsUniversalCategory(category) {
				continue
			}
			if weight < 0 {
				weight = 0
			} else if weight > 1 {
				weight = 1
			}
			entry[category] = weight
		}
		if len(entry) > 0 {
			table[query] = entry
		}
	}
	return table, nil
}
