package services

import (
	"encoding/json"
	"log"
	"os"
)

// LoadShowcase reads the static home-page mapping. A missing or malformed
// file yields an empty mapping.
func LoadShowcase(path string) map[string]any {
	showcase := map[string]any{}
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Could not read showcase %s: %v", path, err)
		}
		return showcase
	}
	if err := json.Unmarshal(data, &showcase); err != nil || showcase == nil {
		log.Printf("Ignoring malformed showcase %s: %v", path, err)
		return map[string]any{}
	}
	return showcase
}
