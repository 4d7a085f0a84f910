package knowledge

import (
	"path/filepath"
	"regexp"
	"strings"
)

// Heading markers: "# Title" opens/renames the document title,
// "## Section" closes the previous section and opens a new one.
var (
	headingPattern    = regexp.MustCompile(`^#\s+(.*)\s*$`)
	subHeadingPattern = regexp.MustCompile(`^##\s+(.*)\s*$`)
)

// Chunk is a titled, sectioned span of a knowledge document and the unit
// of retrieval. Content before the first section heading is never chunked.
type Chunk struct {
	Filename string
	Title    string // first-level heading, defaults to filename sans extension
	Section  string // second-level heading
	Content  string
}

// ChunkDocument splits a raw document into retrieval chunks. A chunk is only
// emitted once its section is closed (by the next section heading or EOF)
// with non-empty accumulated body text.
func ChunkDocument(filename, raw string) []Chunk {
	title := strings.TrimSuffix(filename, filepath.Ext(filename))
	section := ""
	var buffer []string
	var chunks []Chunk

	flush := func() {
		content := strings.TrimSpace(strings.Join(buffer, "\n"))
		if section != "" && content != "" {
			chunks = append(chunks, Chunk{
				Filename: filename,
				Title:    title,
				Section:  section,
				Content:  content,
			})
		}
		buffer = nil
	}

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)

		if m := headingPattern.FindStringSubmatch(line); m != nil {
			// Title line renames the document but does not close a chunk
			title = strings.TrimSpace(m[1])
			continue
		}

		if m := subHeadingPattern.FindStringSubmatch(line); m != nil {
			flush()
			section = strings.TrimSpace(m[1])
			continue
		}

		buffer = append(buffer, line)
	}

	// Trailing content closes the final section under the same rule
	flush()

	return chunks
}
