package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/pavelanni/studybuddy/internal/handler/views"
	"github.com/pavelanni/studybuddy/internal/llm/prompts"
	"github.com/pavelanni/studybuddy/internal/model"
)

func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())

	question := strings.TrimSpace(r.FormValue("question"))
	if question == "" {
		h.redirectToTab(w, r, views.TabChat)
		return
	}

	snap := sess.Snapshot()
	sess.AppendTurn(model.RoleUser, question)

	// The session lock is not held while the endpoint is working.
	reply := h.chat.Ask(r.Context(), question, prompts.FromStudentProfile(snap.Profile, nil), snap.Score)
	if !reply.OK() {
		slog.Warn("chat reply degraded", "session", sess.ID, "kind", reply.Kind.String())
	}
	sess.AppendTurn(model.RoleAssistant, reply.Text)

	h.redirectToTab(w, r, views.TabChat)
}

func (h *Handler) handleExportChat(w http.ResponseWriter, r *http.Request) {
	snap := sessionFromContext(r.Context()).Snapshot()
	turns := snap.Transcript
	if turns == nil {
		turns = []model.ChatTurn{}
	}
	export := model.TranscriptExport{
		SessionID:  snap.ID,
		ExportedAt: time.Now().UTC(),
		Score:      snap.Score,
		Turns:      turns,
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="studybuddy-%s.json"`, snap.ID))
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(export); err != nil {
		slog.Error("failed to encode transcript", "error", err)
	}
}
