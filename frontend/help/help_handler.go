package help

import (
	"net/http"

	sessioncontext "quickstock/frontend/shared/context"
	"quickstock/infrastructure/rbac"
)

func HelpPageQueryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := sessioncontext.GetSessionFromContext(r.Context())
		if !ok {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		data := PageData{
			IsAdmin: session.User.Role == rbac.RoleAdmin,
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := HelpPage(session, data).Render(r.Context(), w); err != nil {
			http.Error(w, "failed to render help page", http.StatusInternalServerError)
			return
		}
	}
}
