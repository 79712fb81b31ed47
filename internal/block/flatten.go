package block

// Flatten walks the block forest depth-first, assigns each block a
// 0-based page index, and returns every block in traversal order. The
// returned slice shares block pointers with the tree; nothing is copied.
//
// Page blocks with an explicit 1-based page number convert to 0-based and
// pull the running counter forward so later auto-numbered pages never
// collide. Page blocks without one take the counter value. Non-page
// blocks inherit the index of their nearest Page ancestor; top-level
// non-page blocks stay at 0. An explicit number below the counter keeps
// its lower index unchanged (out-of-order input is not renumbered).
//
// Flatten is idempotent: rerunning it on the same forest reassigns the
// identical indices.
func Flatten(roots []*Block) []*Block {
	flat := make([]*Block, 0, count(roots))
	next := 0
	for _, b := range roots {
		b.PageIndex = 0 // top-level default, overwritten below for Page blocks
		next = assign(b, &flat, next)
	}
	return flat
}

// assign visits one subtree pre-order, threading the running page counter
// across siblings, and returns the updated counter.
func assign(b *Block, flat *[]*Block, next int) int {
	if b.kind == KindPage {
		if b.PageNumber >= 1 {
			b.PageIndex = b.PageNumber - 1
			if b.PageIndex >= next {
				next = b.PageIndex + 1
			}
		} else {
			b.PageIndex = next
			next++
		}
	}
	*flat = append(*flat, b)
	for _, c := range b.Children {
		// Provisional inheritance; overwritten above if the child is a Page.
		c.PageIndex = b.PageIndex
		next = assign(c, flat, next)
	}
	return next
}

func count(roots []*Block) int {
	n := 0
	for _, b := range roots {
		n += 1 + count(b.Children)
	}
	return n
}
