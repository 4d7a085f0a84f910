package knowledge

import (
	"testing"
)

func TestChunkDocument(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		raw      string
		want     []Chunk
	}{
		{
			name:     "titled document with two sections",
			filename: "returns.md",
			raw: "# Returns\n\n## Policy\nItems can be returned within 30 days.\n\n## Exceptions\nFinal sale items are excluded.\n",
			want: []Chunk{
				{Filename: "returns.md", Title: "Returns", Section: "Policy", Content: "Items can be returned within 30 days."},
				{Filename: "returns.md", Title: "Returns", Section: "Exceptions", Content: "Final sale items are excluded."},
			},
		},
		{
			name:     "preamble before first section is dropped",
			filename: "faq.md",
			raw:      "Some intro text.\n\n## Shipping\nWe ship worldwide.\n",
			want: []Chunk{
				{Filename: "faq.md", Title: "faq", Section: "Shipping", Content: "We ship worldwide."},
			},
		},
		{
			name:     "title defaults to filename without extension",
			filename: "warranty.md",
			raw:      "## Coverage\nTwo years from purchase.\n",
			want: []Chunk{
				{Filename: "warranty.md", Title: "warranty", Section: "Coverage", Content: "Two years from purchase."},
			},
		},
		{
			name:     "empty section bodies are not emitted",
			filename: "faq.md",
			raw:      "# FAQ\n## Empty\n\n## Hours\nMon-Fri 9-5.\n",
			want: []Chunk{
				{Filename: "faq.md", Title: "FAQ", Section: "Hours", Content: "Mon-Fri 9-5."},
			},
		},
		{
			name:     "no sections yields no chunks",
			filename: "notes.md",
			raw:      "# Notes\nJust a title and text.\n",
			want:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ChunkDocument(tt.filename, tt.raw)

			if len(got) != len(tt.want) {
				t.Fatalf("chunk count = %d, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("chunk[%d] = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestChunkDocumentMultilineBody(t *testing.T) {
	raw := "# Guide\n## Setup\nStep one.\nStep two.\n\nStep three.\n"
	got := ChunkDocument("guide.md", raw)

	if len(got) != 1 {
		t.Fatalf("chunk count = %d, want 1", len(got))
	}
	want := "Step one.\nStep two.\n\nStep three."
	if got[0].Content != want {
		t.Errorf("content = %q, want %q", got[0].Content, want)
	}
}
