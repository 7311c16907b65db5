package delivery

import (
	"net/http"
	"strings"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/goccy/go-json"

	"github.com/Vovarama1992/transcribe_kh/internal/translate"
)

const maxTranslateBody = 64 << 10

type TranslateHandler struct {
	translator translate.Translator
	log        *logger.ZapLogger
}

func NewTranslateHandler(t translate.Translator, log *logger.ZapLogger) *TranslateHandler {
	return &TranslateHandler{translator: t, log: log}
}

// Translate runs the text step of the pipeline without Telegram.
func (h *TranslateHandler) Translate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxTranslateBody)).Decode(&req); err != nil {
		http.Error(w, "invalid json: "+err.Error(), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		http.Error(w, "missing text", http.StatusBadRequest)
		return
	}

	out, err := h.translator.Translate(r.Context(), req.Text)
	if err != nil {
		h.log.Log(logger.LogEntry{Level: "error", Message: "translate failed", Error: err})
		http.Error(w, "translate failed: "+err.Error(), http.StatusBadGateway)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"translated": out})
}
