package locations

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	sessioncontext "quickstock/frontend/shared/context"
	"quickstock/infrastructure/audit"
	"quickstock/infrastructure/sqlite"
)

// SearchQueryHandler serves GET /locations/api/search?q=.
func SearchQueryHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := Search(r.Context(), db, r.URL.Query().Get("q"))
		if err != nil {
			slog.Error("location search failed", slog.Any("err", err))
			http.Error(w, "location search failed", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, rows)
	}
}

// ContentsQueryHandler serves GET /locations/api/{id}/contents.
func ContentsQueryHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil || id <= 0 {
			http.Error(w, "invalid location id", http.StatusBadRequest)
			return
		}

		result, err := Contents(r.Context(), db, id)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				http.Error(w, "location not found", http.StatusNotFound)
				return
			}
			slog.Error("location contents failed", slog.Int64("location_id", id), slog.Any("err", err))
			http.Error(w, "location contents failed", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

// ListPageQueryHandler renders the locations list page.
func ListPageQueryHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := sessioncontext.GetSessionFromContext(r.Context())
		if !ok {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		rows, zones, err := ListForPage(r.Context(), db, r.URL.Query().Get("zone"))
		if err != nil {
			http.Error(w, "failed to load locations", http.StatusInternalServerError)
			return
		}

		data := PageData{
			Message:   r.URL.Query().Get("status"),
			Zones:     zones,
			Locations: rows,
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := ListPage(session, data).Render(r.Context(), w); err != nil {
			http.Error(w, "failed to render locations page", http.StatusInternalServerError)
			return
		}
	}
}

// CreateCommandHandler creates one location from the list page form.
func CreateCommandHandler(db *sqlite.DB, auditSvc *audit.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, _ := sessioncontext.GetSessionFromContext(r.Context())
		if err := r.ParseForm(); err != nil {
			http.Redirect(w, r, "/app/locations?status="+url.QueryEscape("Invalid form data"), http.StatusSeeOther)
			return
		}

		err := Create(r.Context(), db, auditSvc, session.UserID,
			r.FormValue("code"), r.FormValue("name"), r.FormValue("location_type"), r.FormValue("zone"))
		if err != nil {
			msg := "Failed to create location"
			if errors.Is(err, ErrInvalidInput) {
				msg = "Code and name are required"
			}
			http.Redirect(w, r, "/app/locations?status="+url.QueryEscape(msg), http.StatusSeeOther)
			return
		}
		http.Redirect(w, r, "/app/locations?status="+url.QueryEscape("Location created"), http.StatusSeeOther)
	}
}

// BulkCreateCommandHandler creates a rack grid from the list page form.
func BulkCreateCommandHandler(db *sqlite.DB, auditSvc *audit.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, _ := sessioncontext.GetSessionFromContext(r.Context())
		if err := r.ParseForm(); err != nil {
			http.Redirect(w, r, "/app/locations?status="+url.QueryEscape("Invalid form data"), http.StatusSeeOther)
			return
		}

		in := BulkCreateInput{
			Zone:         r.FormValue("zone"),
			LocationType: r.FormValue("location_type"),
			Rows:         formInt(r, "rows", 1),
			Bays:         formInt(r, "bays", 1),
			Shelves:      formInt(r, "shelves", 1),
		}
		created, skipped, err := BulkCreate(r.Context(), db, auditSvc, session.UserID, in)
		if err != nil {
			msg := "Failed to create locations"
			if errors.Is(err, ErrInvalidInput) {
				msg = "Zone is required"
			}
			http.Redirect(w, r, "/app/locations?status="+url.QueryEscape(msg), http.StatusSeeOther)
			return
		}
		status := "Created " + strconv.Itoa(created) + " locations. Skipped " + strconv.Itoa(skipped) + " existing."
		http.Redirect(w, r, "/app/locations?status="+url.QueryEscape(status), http.StatusSeeOther)
	}
}

func formInt(r *http.Request, key string, fallback int) int {
	v, err := strconv.Atoi(r.FormValue(key))
	if err != nil {
		return fallback
	}
	return v
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode json response failed", slog.Any("err", err))
	}
}
