// Package block holds the extracted document structure: the nested block
// tree returned by the extraction service, and the flattening pass that
// assigns every block a 0-based page index.
package block

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Kind classifies a block for control flow. The raw type tag is kept on
// the block; Kind is normalized once at decode time.
type Kind int

const (
	KindOther Kind = iota
	KindPage
	KindText
	KindTable
)

// ParseKind normalizes a raw type tag. Comparison is case-insensitive.
func ParseKind(tag string) Kind {
	switch strings.ToLower(tag) {
	case "page":
		return KindPage
	case "text":
		return KindText
	case "table":
		return KindTable
	default:
		return KindOther
	}
}

func (k Kind) String() string {
	switch k {
	case KindPage:
		return "Page"
	case KindText:
		return "Text"
	case KindTable:
		return "Table"
	default:
		return "Other"
	}
}

// Block is one node of the extracted document structure. Identity is
// assigned upstream and assumed unique across the document. PageIndex is
// zero until Flatten runs; after that every block carries a valid index.
type Block struct {
	ID         string
	Type       string // raw type tag as supplied by the extraction service
	HTML       string
	Polygon    [][2]float64
	PageNumber int // explicit 1-based page number, 0 when absent
	PageIndex  int
	Children   []*Block

	kind Kind
}

// New creates a block with its type tag normalized. Remaining fields are
// set directly by the caller; Decode is the usual entry point.
func New(id, typeTag string) *Block {
	return &Block{ID: id, Type: typeTag, kind: ParseKind(typeTag)}
}

// Kind returns the normalized classification of the block's type tag.
func (b *Block) Kind() Kind { return b.kind }

// HasPolygon reports whether the block has enough geometry to draw.
// Fewer than 4 points means no visual representation.
func (b *Block) HasPolygon() bool { return len(b.Polygon) >= 4 }

// rawBlock mirrors the extraction service's JSON shape.
type rawBlock struct {
	ID         string       `json:"id"`
	BlockType  string       `json:"block_type"`
	Type       string       `json:"type"`
	HTML       string       `json:"html"`
	Polygon    [][2]float64 `json:"polygon"`
	PageNumber *int         `json:"page_number"`
	Children   []rawBlock   `json:"children"`
}

// envelope is the top-level response shape: {"blocks":{"children":[...]}}.
type envelope struct {
	Blocks struct {
		Children []rawBlock `json:"children"`
	} `json:"blocks"`
}

// Decode parses an enveloped result and returns the ordered top-level
// blocks, normalized and ready for Flatten. Missing or empty children
// yield an empty forest, not an error.
func Decode(data []byte) ([]*Block, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode block structure: %w", err)
	}
	return normalize(env.Blocks.Children), nil
}

// DecodeStructure parses the bare document structure {"children":[...]},
// the shape the extraction service returns before any envelope is added.
func DecodeStructure(data []byte) ([]*Block, error) {
	var root struct {
		Children []rawBlock `json:"children"`
	}
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("decode block structure: %w", err)
	}
	return normalize(root.Children), nil
}

func normalize(raw []rawBlock) []*Block {
	if len(raw) == 0 {
		return nil
	}
	out := make([]*Block, 0, len(raw))
	for _, r := range raw {
		out = append(out, normalizeOne(r))
	}
	return out
}

func normalizeOne(r rawBlock) *Block {
	tag := r.BlockType
	if tag == "" {
		tag = r.Type
	}
	b := &Block{
		ID:      r.ID,
		Type:    tag,
		HTML:    SanitizeHTML(r.HTML),
		Polygon: r.Polygon,
		kind:    ParseKind(tag),
	}
	// Explicit page numbers are 1-based; anything below 1 is treated as absent.
	if r.PageNumber != nil && *r.PageNumber >= 1 {
		b.PageNumber = *r.PageNumber
	}
	if len(r.Children) > 0 {
		b.Children = make([]*Block, 0, len(r.Children))
		for _, c := range r.Children {
			b.Children = append(b.Children, normalizeOne(c))
		}
	}
	return b
}
