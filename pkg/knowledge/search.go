package knowledge

import (
	"log"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

const (
	// Tokens shorter than this are dropped from queries and scoring
	minTokenLength = 3

	// Match bodies longer than this are truncated with an ellipsis marker
	maxSnippetLength = 700
)

var tokenPattern = regexp.MustCompile(`[a-zA-Z0-9]+`)

// Match is one ranked retrieval result
type Match struct {
	Source  string `json:"source"`
	Title   string `json:"title"`
	Section string `json:"section"`
	Content string `json:"content"`
}

// Result is the structured outcome of a knowledge search
type Result struct {
	Query   string  `json:"query"`
	TopK    int     `json:"top_k"`
	Matches []Match `json:"matches"`
}

// Tokenize normalizes a query into lowercase alphanumeric tokens of
// length >= 3. Punctuation and shorter tokens are discarded.
func Tokenize(query string) []string {
	var tokens []string
	for _, w := range tokenPattern.FindAllString(query, -1) {
		if len(w) >= minTokenLength {
			tokens = append(tokens, strings.ToLower(w))
		}
	}
	return tokens
}

// Score sums substring occurrences of each token in the chunk's section plus
// body, case-insensitively. Substring counting is intentional: a token may
// match inside a longer word.
func Score(tokens []string, chunk Chunk) int {
	text := strings.ToLower(chunk.Section + "\n" + chunk.Content)
	score := 0
	for _, token := range tokens {
		score += strings.Count(text, token)
	}
	return score
}

// Engine ranks knowledge chunks against free-text queries. The chunk list is
// built once at startup and is read-only afterwards, so concurrent searches
// from independent conversations are safe.
type Engine struct {
	chunks []Chunk
	logger *log.Logger
}

func NewEngine(chunks []Chunk, logger *log.Logger) *Engine {
	return &Engine{chunks: chunks, logger: logger}
}

// Len returns the number of indexed chunks
func (e *Engine) Len() int {
	return len(e.chunks)
}

// Search scores every chunk, drops zero scores, sorts descending with
// first-seen order winning ties, and returns the top k matches with bodies
// truncated to the snippet limit.
func (e *Engine) Search(query string, topK int) *Result {
	tokens := Tokenize(query)

	type scored struct {
		score int
		chunk Chunk
	}
	var ranked []scored
	for _, chunk := range e.chunks {
		if s := Score(tokens, chunk); s > 0 {
			ranked = append(ranked, scored{score: s, chunk: chunk})
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	if topK > 0 && len(ranked) > topK {
		ranked = ranked[:topK]
	}

	matches := make([]Match, 0, len(ranked))
	for _, r := range ranked {
		content := strings.TrimSpace(r.chunk.Content)
		if len(content) > maxSnippetLength {
			cut := maxSnippetLength
			// Never cut a multi-byte rune in half
			for cut > 0 && !utf8.RuneStart(content[cut]) {
				cut--
			}
			content = strings.TrimRight(content[:cut], " \t\n") + "..."
		}
		matches = append(matches, Match{
			Source:  r.chunk.Filename,
			Title:   r.chunk.Title,
			Section: r.chunk.Section,
			Content: content,
		})
	}

	e.logger.Printf("[KNOWLEDGE] query=%q tokens=%d matches=%d", query, len(tokens), len(matches))

	return &Result{Query: query, TopK: topK, Matches: matches}
}
