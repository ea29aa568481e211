package home

import (
	"net/http"

	sessioncontext "quickstock/frontend/shared/context"
	"quickstock/infrastructure/sqlite"
)

// HomePageQueryHandler renders the dashboard with recent movements.
func HomePageQueryHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := sessioncontext.GetSessionFromContext(r.Context())
		if !ok {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		movements, err := RecentMovements(r.Context(), db, 20)
		if err != nil {
			http.Error(w, "failed to load recent movements", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := HomePage(session, PageData{Movements: movements}).Render(r.Context(), w); err != nil {
			http.Error(w, "failed to render home page", http.StatusInternalServerError)
			return
		}
	}
}
