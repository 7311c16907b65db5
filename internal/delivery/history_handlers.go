package delivery

import (
	"net/http"
	"strconv"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/Vovarama1992/transcribe_kh/internal/ports"
)

type HistoryHandler struct {
	historyService ports.HistoryService
	log            *logger.ZapLogger
}

func NewHistoryHandler(historyService ports.HistoryService, log *logger.ZapLogger) *HistoryHandler {
	return &HistoryHandler{
		historyService: historyService,
		log:            log,
	}
}

func (h *HistoryHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	tid, err := strconv.ParseInt(chi.URLParam(r, "telegram_id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid telegram_id", http.StatusBadRequest)
		return
	}

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		if limit, err = strconv.Atoi(v); err != nil || limit < 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
	}

	history, err := h.historyService.History(r.Context(), tid, limit)
	if err != nil {
		h.log.Log(logger.LogEntry{Level: "error", Message: "db error", Error: err})
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if history == nil {
		history = []ports.Translation{}
	}

	writeJSON(w, http.StatusOK, history)
}

func (h *HistoryHandler) DeleteHistory(w http.ResponseWriter, r *http.Request) {
	tid, err := strconv.ParseInt(chi.URLParam(r, "telegram_id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid telegram_id", http.StatusBadRequest)
		return
	}

	if err := h.historyService.Clear(r.Context(), tid); err != nil {
		h.log.Log(logger.LogEntry{Level: "error", Message: "failed to clear history", Error: err})
		http.Error(w, "failed to clear history: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *HistoryHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.historyService.Users(r.Context())
	if err != nil {
		h.log.Log(logger.LogEntry{Level: "error", Message: "failed to list users", Error: err})
		http.Error(w, "failed to list users: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if users == nil {
		users = []ports.UserStats{}
	}

	writeJSON(w, http.StatusOK, users)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
