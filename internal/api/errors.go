package api

import (
	"errors"
	"log"
	"net/http"

	"fileport/internal/auth"
	"fileport/internal/database"
	"fileport/internal/listing"
	"fileport/internal/quota"
	"fileport/internal/storage"
)

var errForbidden = errors.New("forbidden")

// respondError turns a domain error into its HTTP status. Anything not
// recognised is a 500 whose detail only goes to the log.
func respondError(w http.ResponseWriter, op string, err error) {
	var maxBytesErr *http.MaxBytesError

	switch {
	case errors.Is(err, errForbidden):
		http.Error(w, "Forbidden", http.StatusForbidden)
	case errors.Is(err, storage.ErrNotFound),
		errors.Is(err, listing.ErrNotFound):
		http.Error(w, "Not found", http.StatusNotFound)
	case errors.Is(err, storage.ErrIsDirectory):
		http.Error(w, "Path is a directory", http.StatusConflict)
	case errors.Is(err, quota.ErrQuotaExceeded):
		http.Error(w, "insufficient storage", http.StatusBadRequest)
	case errors.Is(err, storage.ErrInvalidPath):
		http.Error(w, "Invalid path", http.StatusBadRequest)
	case errors.As(err, &maxBytesErr):
		http.Error(w, "Upload too large", http.StatusRequestEntityTooLarge)
	case errors.Is(err, auth.ErrAuthFailed),
		errors.Is(err, database.ErrUserNotFound):
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
	default:
		log.Printf("ERROR: %s: %v", op, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
