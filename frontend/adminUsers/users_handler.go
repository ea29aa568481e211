package adminusers

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	sessioncontext "quickstock/frontend/shared/context"
	"quickstock/infrastructure/sqlite"
)

// UsersPageQueryHandler renders the user admin page.
func UsersPageQueryHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := sessioncontext.GetSessionFromContext(r.Context())
		if !ok {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		users, err := ListUsers(r.Context(), db)
		if err != nil {
			http.Error(w, "failed to load users", http.StatusInternalServerError)
			return
		}

		data := PageData{
			Users:   users,
			Message: r.URL.Query().Get("status"),
			Error:   r.URL.Query().Get("error"),
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := UsersListPage(session, data).Render(r.Context(), w); err != nil {
			http.Error(w, "failed to render users page", http.StatusInternalServerError)
			return
		}
	}
}

// CreateUserCommandHandler creates an account from the admin form.
func CreateUserCommandHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "invalid form", http.StatusBadRequest)
			return
		}

		username := r.PostFormValue("username")
		password := r.PostFormValue("password")
		role := r.PostFormValue("role")

		err := CreateUser(r.Context(), db, username, password, role)
		switch {
		case err == nil:
			http.Redirect(w, r, "/app/admin/users?status="+url.QueryEscape("user created"), http.StatusSeeOther)
		case errors.Is(err, ErrUsernameRequired),
			errors.Is(err, ErrPasswordRequired),
			errors.Is(err, ErrInvalidRole),
			errors.Is(err, ErrUsernameExists),
			isPolicyError(err):
			http.Redirect(w, r, "/app/admin/users?error="+url.QueryEscape(err.Error()), http.StatusSeeOther)
		default:
			http.Error(w, "failed to create user", http.StatusInternalServerError)
		}
	}
}

func isPolicyError(err error) bool {
	return err != nil && strings.HasPrefix(err.Error(), "password must")
}
