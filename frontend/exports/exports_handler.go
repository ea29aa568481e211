package exports

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	sessioncontext "quickstock/frontend/shared/context"
	"quickstock/infrastructure/sqlite"
)

// ExportsPageQueryHandler renders the exports page with recent runs.
func ExportsPageQueryHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := sessioncontext.GetSessionFromContext(r.Context())
		if !ok {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		runs, err := ListRecentRuns(r.Context(), db, 20)
		if err != nil {
			http.Error(w, "failed to load export runs", http.StatusInternalServerError)
			return
		}

		data := PageData{Message: r.URL.Query().Get("status"), Runs: runs}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := ExportsPage(session, data).Render(r.Context(), w); err != nil {
			http.Error(w, "failed to render exports page", http.StatusInternalServerError)
			return
		}
	}
}

// MovementsExportCSVHandler serves the full movement ledger as CSV.
func MovementsExportCSVHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		serveCSV(w, r, db, "movements", writeMovementsCSV)
	}
}

// StockExportCSVHandler serves current stock levels as CSV.
func StockExportCSVHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		serveCSV(w, r, db, "stock", writeStockCSV)
	}
}

func serveCSV(w http.ResponseWriter, r *http.Request, db *sqlite.DB, exportType string, write func(context.Context, *sqlite.DB, io.Writer) (int, error)) {
	session, ok := sessioncontext.GetSessionFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	// Buffer the CSV so a query failure can still return a clean error.
	var buf bytes.Buffer
	rowCount, err := write(r.Context(), db, &buf)
	if err != nil {
		slog.Error("csv export failed", slog.String("type", exportType), slog.Any("err", err))
		http.Error(w, "failed to export csv", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename="+exportType+".csv")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	_, _ = w.Write(buf.Bytes())

	if err := recordExportRun(r.Context(), db, session.UserID, exportType, rowCount); err != nil {
		slog.Error("record export run failed", slog.String("type", exportType), slog.Any("err", err))
	}
}
