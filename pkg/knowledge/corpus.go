package knowledge

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LoadDir reads every markdown document under dir and chunks it.
// Reading the corpus is plain I/O, kept apart from the ranking logic.
func LoadDir(dir string) ([]Chunk, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read corpus dir %s: %w", dir, err)
	}

	var chunks []Chunk
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(strings.ToLower(entry.Name()), ".md") {
			continue
		}
		raw, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("read corpus file %s: %w", entry.Name(), err)
		}
		chunks = append(chunks, ChunkDocument(entry.Name(), string(raw))...)
	}

	return chunks, nil
}
