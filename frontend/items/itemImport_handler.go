package items

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	sessioncontext "quickstock/frontend/shared/context"
	"quickstock/infrastructure/audit"
	"quickstock/infrastructure/sqlite"
)

// ImportPageQueryHandler renders the item list and CSV upload form.
func ImportPageQueryHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := sessioncontext.GetSessionFromContext(r.Context())
		if !ok {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		message := r.URL.Query().Get("status")
		if message == "" {
			message = "Upload CSV with header: sku,name,barcode,unit,carton_qty"
		}
		rows, err := ListItems(r.Context(), db)
		if err != nil {
			http.Error(w, "failed to load items", http.StatusInternalServerError)
			return
		}

		data := PageData{Message: message, Items: rows}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := ImportPage(session, data).Render(r.Context(), w); err != nil {
			http.Error(w, "failed to render items page", http.StatusInternalServerError)
			return
		}
	}
}

// ImportCommandHandler ingests the uploaded CSV.
func ImportCommandHandler(db *sqlite.DB, auditSvc *audit.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, _ := sessioncontext.GetSessionFromContext(r.Context())
		if err := r.ParseMultipartForm(10 << 20); err != nil {
			http.Redirect(w, r, "/app/items/import?status="+url.QueryEscape("Error: invalid upload"), http.StatusSeeOther)
			return
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			http.Redirect(w, r, "/app/items/import?status="+url.QueryEscape("Error: file is required"), http.StatusSeeOther)
			return
		}
		defer file.Close()

		summary, err := ImportCSV(r.Context(), db, auditSvc, session.UserID, header.Filename, file)
		if err != nil {
			http.Redirect(w, r, "/app/items/import?status="+url.QueryEscape("Error: "+err.Error()), http.StatusSeeOther)
			return
		}

		status := fmt.Sprintf("Imported: %d inserted, %d updated, %d errors", summary.Inserted, summary.Updated, summary.Errors)
		http.Redirect(w, r, "/app/items/import?status="+url.QueryEscape(status), http.StatusSeeOther)
	}
}

// DeactivateCommandHandler soft-deletes the selected items.
func DeactivateCommandHandler(db *sqlite.DB, auditSvc *audit.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, _ := sessioncontext.GetSessionFromContext(r.Context())
		if err := r.ParseForm(); err != nil {
			http.Redirect(w, r, "/app/items/import?status="+url.QueryEscape("Invalid form"), http.StatusSeeOther)
			return
		}
		ids := parseIDs(r.Form["item_id"])
		if len(ids) == 0 {
			http.Redirect(w, r, "/app/items/import?status="+url.QueryEscape("Select at least one item"), http.StatusSeeOther)
			return
		}

		deactivated, err := DeactivateItems(r.Context(), db, auditSvc, session.UserID, ids)
		if err != nil {
			http.Redirect(w, r, "/app/items/import?status="+url.QueryEscape("Failed to deactivate items"), http.StatusSeeOther)
			return
		}
		status := fmt.Sprintf("Deactivated %d items", deactivated)
		http.Redirect(w, r, "/app/items/import?status="+url.QueryEscape(status), http.StatusSeeOther)
	}
}

func parseIDs(values []string) []int64 {
	ids := make([]int64, 0, len(values))
	for _, raw := range values {
		id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil || id <= 0 {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}
