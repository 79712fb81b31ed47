package block

// Document is the flattened view of one extracted document, built once
// after a successful extraction and immutable afterwards. It indexes the
// flat collection for per-page and per-id lookup.
type Document struct {
	blocks []*Block
	byID   map[string]*Block
	byPage map[int][]*Block

	pageCount int
}

// NewDocument flattens the forest and builds lookup indexes. The per-page
// index holds only non-page blocks, which is what overlay rendering needs.
func NewDocument(roots []*Block) *Document {
	flat := Flatten(roots)
	d := &Document{
		blocks: flat,
		byID:   make(map[string]*Block, len(flat)),
		byPage: make(map[int][]*Block),
	}
	for _, b := range flat {
		d.byID[b.ID] = b
		if b.kind != KindPage {
			d.byPage[b.PageIndex] = append(d.byPage[b.PageIndex], b)
		}
		if b.PageIndex+1 > d.pageCount {
			d.pageCount = b.PageIndex + 1
		}
	}
	return d
}

// Blocks returns every block in traversal order.
func (d *Document) Blocks() []*Block { return d.blocks }

// Len returns the total number of blocks, all types included.
func (d *Document) Len() int { return len(d.blocks) }

// PageCount returns the number of pages the indices span.
func (d *Document) PageCount() int { return d.pageCount }

// ByID returns the block with the given id, or nil.
func (d *Document) ByID(id string) *Block { return d.byID[id] }

// OnPage returns the non-page blocks assigned to the given page index,
// in traversal order.
func (d *Document) OnPage(pageIndex int) []*Block { return d.byPage[pageIndex] }
