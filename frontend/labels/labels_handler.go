package labels

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	sessioncontext "quickstock/frontend/shared/context"
	"quickstock/infrastructure/sqlite"
)

// PageQueryHandler renders the label selection page.
func PageQueryHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := sessioncontext.GetSessionFromContext(r.Context())
		if !ok {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		items, err := ListItemLabels(r.Context(), db, nil)
		if err != nil {
			http.Error(w, "failed to load items", http.StatusInternalServerError)
			return
		}
		locationRows, err := ListLocationLabels(r.Context(), db, "", nil)
		if err != nil {
			http.Error(w, "failed to load locations", http.StatusInternalServerError)
			return
		}

		data := PageData{
			Message:   r.URL.Query().Get("status"),
			Items:     items,
			Locations: locationRows,
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := LabelsPage(session, data).Render(r.Context(), w); err != nil {
			http.Error(w, "failed to render labels page", http.StatusInternalServerError)
			return
		}
	}
}

// ItemLabelsPDFHandler renders the selected item labels as one PDF.
func ItemLabelsPDFHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Redirect(w, r, "/app/labels?status="+url.QueryEscape("Invalid form"), http.StatusSeeOther)
			return
		}
		ids := parseIDs(r.Form["item_id"])
		if len(ids) == 0 {
			http.Redirect(w, r, "/app/labels?status="+url.QueryEscape("Select at least one item"), http.StatusSeeOther)
			return
		}

		rows, err := ListItemLabels(r.Context(), db, ids)
		if err != nil || len(rows) == 0 {
			http.Redirect(w, r, "/app/labels?status="+url.QueryEscape("No matching items"), http.StatusSeeOther)
			return
		}

		pdfBytes, err := renderItemLabelsPDF(rows, time.Now())
		if err != nil {
			http.Error(w, "failed to render labels", http.StatusInternalServerError)
			return
		}
		servePDF(w, labelFileName("item", len(rows)), pdfBytes)
	}
}

// LocationLabelsPDFHandler renders the selected location labels as one PDF.
func LocationLabelsPDFHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Redirect(w, r, "/app/labels?status="+url.QueryEscape("Invalid form"), http.StatusSeeOther)
			return
		}
		ids := parseIDs(r.Form["location_id"])
		zone := strings.ToUpper(strings.TrimSpace(r.FormValue("zone")))
		if len(ids) == 0 && zone == "" {
			http.Redirect(w, r, "/app/labels?status="+url.QueryEscape("Select locations or a zone"), http.StatusSeeOther)
			return
		}

		rows, err := ListLocationLabels(r.Context(), db, zone, ids)
		if err != nil || len(rows) == 0 {
			http.Redirect(w, r, "/app/labels?status="+url.QueryEscape("No matching locations"), http.StatusSeeOther)
			return
		}

		pdfBytes, err := renderLocationLabelsPDF(rows, time.Now())
		if err != nil {
			http.Error(w, "failed to render labels", http.StatusInternalServerError)
			return
		}
		servePDF(w, labelFileName("location", len(rows)), pdfBytes)
	}
}

func servePDF(w http.ResponseWriter, fileName string, pdfBytes []byte) {
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	w.Header().Set("Content-Length", strconv.Itoa(len(pdfBytes)))
	_, _ = w.Write(pdfBytes)
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
