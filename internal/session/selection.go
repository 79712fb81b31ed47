package session

import (
	"sync"

	"github.com/blockview/blockview/internal/block"
)

// Selection is the single-slot selected-block state shared by the
// overlay renderer and the detail panel. Selecting replaces any prior
// selection; there is no multi-select. Readers always observe a complete
// snapshot, never a partial update.
type Selection struct {
	mu sync.RWMutex
	b  *block.Block
}

// Select makes b the current selection, replacing any prior one.
func (s *Selection) Select(b *block.Block) {
	s.mu.Lock()
	s.b = b
	s.mu.Unlock()
}

// Clear returns to the no-block-selected state.
func (s *Selection) Clear() {
	s.mu.Lock()
	s.b = nil
	s.mu.Unlock()
}

// Current returns the selected block, or nil.
func (s *Selection) Current() *block.Block {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.b
}

// CurrentID returns the selected block's id, or "".
func (s *Selection) CurrentID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.b == nil {
		return ""
	}
	return s.b.ID
}
