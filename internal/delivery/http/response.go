package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/egannguyen/storefront-backend/internal/apperror"
	"github.com/egannguyen/storefront-backend/internal/logger"
)

// envelope is the body of every response.
type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, envelope{Success: true, Data: data})
}

func writeMessage(w http.ResponseWriter, status int, message string, data any) {
	writeJSON(w, status, envelope{Success: true, Data: data, Message: message})
}

// writeError maps err to a status code. failure is the route's summary
// message; backendStatus is used for datastore failures, which are 400 on
// writes and 500 on reads.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error, failure string, backendStatus int) {
	log := logger.FromContext(r.Context(), h.log)

	var appErr *apperror.Error
	if !errors.As(err, &appErr) {
		log.Error(failure, zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, envelope{Error: "Internal server error", Message: failure})
		return
	}

	switch appErr.Kind {
	case apperror.KindValidation:
		writeJSON(w, http.StatusBadRequest, envelope{Error: appErr.Message, Message: failure})
	case apperror.KindNotFound:
		writeJSON(w, http.StatusNotFound, envelope{Error: "Not found", Message: appErr.Message})
	case apperror.KindBackend:
		log.Error(failure, zap.Error(err))
		msg := "Database error"
		if h.debug {
			msg = appErr.Message
		}
		writeJSON(w, backendStatus, envelope{Error: msg, Message: failure})
	default:
		log.Error(failure, zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, envelope{Error: "Internal server error", Message: failure})
	}
}

func writeBadRequest(w http.ResponseWriter, errMsg, message string) {
	writeJSON(w, http.StatusBadRequest, envelope{Error: errMsg, Message: message})
}

// pathID parses the {id} wildcard. It writes the 400 response itself and
// returns false when the value is not a number.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeBadRequest(w, "Invalid ID format", "ID must be a number")
		return 0, false
	}
	return id, true
}

// maxBodyBytes caps every JSON request body.
const maxBodyBytes = 1 << 20

// decodeJSON writes a 400 response and returns false on a malformed body,
// or 413 when the body exceeds maxBodyBytes.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, envelope{Error: "Request body too large", Message: "Request body could not be parsed"})
			return false
		}
		writeBadRequest(w, "Invalid JSON body", "Request body could not be parsed")
		return false
	}
	return true
}
