package delivery

import (
	"net/http"
	"time"

	"github.com/Vovarama1992/go-utils/httputil"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
)

func NewRouter(
	hHistory *HistoryHandler,
	hTranslate *TranslateHandler,
	adminToken string,
) chi.Router {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	r.With(httputil.RecoverMiddleware).Get("/ping", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("pong"))
	})

	// --- protected ---
	r.Group(func(pr chi.Router) {
		pr.Use(
			httputil.RecoverMiddleware,
			httprate.LimitByIP(60, time.Minute),
			AuthMiddleware(adminToken),
		)

		// --- history ---
		pr.Get("/history/{telegram_id}", hHistory.GetHistory)
		pr.Delete("/history/{telegram_id}", hHistory.DeleteHistory)
		pr.Get("/users", hHistory.ListUsers)

		// --- translation ---
		pr.Post("/translate", hTranslate.Translate)
	})

	return r
}
