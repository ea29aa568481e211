package scanapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	sessioncontext "quickstock/frontend/shared/context"
	"quickstock/infrastructure/audit"
	"quickstock/infrastructure/sqlite"
)

// ScanCommandHandler resolves a scanned barcode to an item or location.
func ScanCommandHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ScanRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, ErrorResult{Error: "invalid request body"})
			return
		}
		if req.Context == "" {
			req.Context = "lookup"
		}
		if req.Barcode == "" {
			writeJSON(w, http.StatusBadRequest, ErrorResult{Error: "No barcode provided"})
			return
		}

		result, err := ResolveScan(r.Context(), db, req.Barcode, req.Context)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				writeJSON(w, http.StatusNotFound, ErrorResult{Error: "Barcode not found", Barcode: req.Barcode})
				return
			}
			if errors.Is(err, ErrInvalidInput) {
				writeJSON(w, http.StatusBadRequest, ErrorResult{Error: "No barcode provided"})
				return
			}
			slog.Error("scan lookup failed", slog.String("barcode", req.Barcode), slog.Any("err", err))
			writeJSON(w, http.StatusInternalServerError, ErrorResult{Error: "scan lookup failed"})
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

// QuickReceiveCommandHandler adds stock at a location.
func QuickReceiveCommandHandler(db *sqlite.DB, auditSvc *audit.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := sessioncontext.GetSessionFromContext(r.Context())
		if !ok {
			writeJSON(w, http.StatusUnauthorized, ErrorResult{Error: "not signed in"})
			return
		}

		var req QuickReceiveRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, MutationResult{Error: "invalid request body"})
			return
		}

		result, err := QuickReceive(r.Context(), db, auditSvc, session.UserID, req)
		if err != nil {
			writeMutationError(w, err, "quick receive failed")
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

// QuickMoveCommandHandler transfers stock between locations.
func QuickMoveCommandHandler(db *sqlite.DB, auditSvc *audit.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := sessioncontext.GetSessionFromContext(r.Context())
		if !ok {
			writeJSON(w, http.StatusUnauthorized, ErrorResult{Error: "not signed in"})
			return
		}

		var req QuickMoveRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, MutationResult{Error: "invalid request body"})
			return
		}

		result, err := QuickMove(r.Context(), db, auditSvc, session.UserID, req)
		if err != nil {
			writeMutationError(w, err, "quick move failed")
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

func writeMutationError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		writeJSON(w, http.StatusBadRequest, MutationResult{Error: "Invalid data"})
	case errors.Is(err, ErrSameLocation):
		writeJSON(w, http.StatusBadRequest, MutationResult{Error: "From and To locations must be different"})
	case errors.Is(err, ErrNotFound):
		writeJSON(w, http.StatusNotFound, MutationResult{Error: "Item or location not found"})
	case errors.Is(err, ErrInsufficientStock):
		writeJSON(w, http.StatusBadRequest, MutationResult{Error: "Insufficient stock at source location"})
	default:
		slog.Error(fallback, slog.Any("err", err))
		writeJSON(w, http.StatusInternalServerError, MutationResult{Error: fallback})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode json response failed", slog.Any("err", err))
	}
}
