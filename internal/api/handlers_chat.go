package api

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/blockview/blockview/internal/chat"
	"github.com/blockview/blockview/internal/overlay"
)

// blockParam resolves the blockID route param. Block ids contain slashes
// ("/page/0/Text/1"), so clients send them percent-encoded and chi hands
// back the raw value.
func blockParam(r *http.Request) string {
	id := chi.URLParam(r, "blockID")
	if unescaped, err := url.PathUnescape(id); err == nil {
		return unescaped
	}
	return id
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if sess == nil {
		return
	}

	blockID := blockParam(r)
	b := sess.Doc.ByID(blockID)
	if b == nil {
		jsonError(w, "block not found", http.StatusNotFound)
		return
	}

	var req struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Message) == "" {
		jsonError(w, "message is required", http.StatusBadRequest)
		return
	}

	system := chat.BuildSystemPrompt(sess.Title, b)
	messages := append(sess.History(blockID), chat.Message{Role: "user", Content: req.Message})

	reply, err := s.chat.Reply(r.Context(), system, messages)
	if err != nil {
		s.log.Error("chat failed", "session_id", sess.ID, "block_id", blockID, "error", err)
		jsonError(w, "chat failed: "+err.Error(), http.StatusBadGateway)
		return
	}

	sess.Append(blockID,
		chat.Message{Role: "user", Content: req.Message},
		chat.Message{Role: "assistant", Content: reply},
	)
	s.metrics.ChatTurnsTotal.Inc()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"block_id":   blockID,
		"reply":      reply,
		"reply_html": chat.RenderHTML(reply),
		"turns":      len(sess.History(blockID)) / 2,
	})
}

func (s *Server) handleSpeech(w http.ResponseWriter, r *http.Request) {
	if s.speech == nil {
		jsonError(w, "speech synthesis not configured", http.StatusServiceUnavailable)
		return
	}

	sess := s.session(w, r)
	if sess == nil {
		return
	}

	blockID := blockParam(r)
	b := sess.Doc.ByID(blockID)
	if b == nil {
		jsonError(w, "block not found", http.StatusNotFound)
		return
	}

	var req struct {
		Text string `json:"text"`
	}
	// Body is optional; default to reading the block itself aloud.
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}
	text := strings.TrimSpace(req.Text)
	if text == "" {
		text = overlay.StripTags(b.HTML)
	}
	if text == "" {
		jsonError(w, "nothing to read aloud", http.StatusBadRequest)
		return
	}

	audio, err := s.speech.Synthesize(r.Context(), text)
	if err != nil {
		s.log.Error("speech synthesis failed", "session_id", sess.ID, "block_id", blockID, "error", err)
		jsonError(w, "speech synthesis failed: "+err.Error(), http.StatusBadGateway)
		return
	}
	s.metrics.SpeechRequestsTotal.Inc()

	w.Header().Set("Content-Type", "audio/mpeg")
	w.Write(audio)
}

func (s *Server) handleLLMStats(w http.ResponseWriter, r *http.Request) {
	if s.chat == nil || s.chat.Stats == nil {
		jsonError(w, "llm stats unavailable", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"model": s.chat.Model(),
		"stats": s.chat.Stats.Snapshot(),
	})
}
