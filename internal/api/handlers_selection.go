package api

import (
	"encoding/json"
	"net/http"

	"github.com/blockview/blockview/internal/block"
	"github.com/blockview/blockview/internal/overlay"
)

// blockDetail is the full view of one block, served to the detail panel.
type blockDetail struct {
	ID        string `json:"id"`
	BlockType string `json:"block_type"`
	PageIndex int    `json:"page_index"`
	HTML      string `json:"html"`
	Text      string `json:"text"`
}

func detailOf(b *block.Block) blockDetail {
	return blockDetail{
		ID:        b.ID,
		BlockType: b.Type,
		PageIndex: b.PageIndex,
		HTML:      b.HTML,
		Text:      overlay.StripTags(b.HTML),
	}
}

func (s *Server) handleGetSelection(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if sess == nil {
		return
	}

	w.Header().Set("Content-Type", "application/json")
	cur := sess.Selection.Current()
	if cur == nil {
		json.NewEncoder(w).Encode(map[string]any{"selected": nil})
		return
	}
	json.NewEncoder(w).Encode(map[string]any{"selected": detailOf(cur)})
}

func (s *Server) handlePutSelection(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if sess == nil {
		return
	}

	var req struct {
		BlockID string `json:"block_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.BlockID == "" {
		jsonError(w, "block_id is required", http.StatusBadRequest)
		return
	}

	b := sess.Doc.ByID(req.BlockID)
	if b == nil {
		jsonError(w, "block not found", http.StatusNotFound)
		return
	}

	// Replaces any prior selection; there is no multi-select.
	sess.Selection.Select(b)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"selected": detailOf(b)})
}

func (s *Server) handleClearSelection(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if sess == nil {
		return
	}
	sess.Selection.Clear()
	w.WriteHeader(http.StatusNoContent)
}
