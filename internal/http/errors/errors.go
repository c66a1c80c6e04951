package errors

import (
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"gitea.jw6.us/james/traindesk/internal/cache"
	"gitea.jw6.us/james/traindesk/internal/domain"
	"gitea.jw6.us/james/traindesk/internal/remote"
)

func InternalError(w http.ResponseWriter, r *http.Request, err error, message string) {
	logf(r, "ERROR", "%s: %v", message, err)
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

func BadRequestError(w http.ResponseWriter, r *http.Request, err error, clientMessage string) {
	logf(r, "WARN", "bad request: %v", err)
	http.Error(w, clientMessage, http.StatusBadRequest)
}

func LogError(r *http.Request, message string, err error) {
	logf(r, "ERROR", "%s: %v", message, err)
}

func LogInfo(r *http.Request, message string) {
	logf(r, "INFO", "%s", message)
}

// FlashMessage maps a failed cache or record store operation to the short
// user-facing text carried in the redirect's error flash. Validation errors
// keep the field details so the form can be corrected; everything else stays
// generic and is logged with the request ID instead.
func FlashMessage(r *http.Request, action string, err error) string {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return verr.Error()
	}

	var rerr *cache.RefreshError
	if errors.As(err, &rerr) {
		logf(r, "WARN", "%s: %v", action, err)
		return "saved, but the list could not be refreshed; it may be stale"
	}

	var merr *remote.MalformedError
	if errors.As(err, &merr) {
		logf(r, "ERROR", "%s: %v", action, err)
		return "the record store returned an unreadable response"
	}

	if errors.Is(err, remote.ErrUnavailable) {
		logf(r, "WARN", "%s: %v", action, err)
		return "the record store is unavailable; please try again"
	}

	logf(r, "ERROR", "%s: %v", action, err)
	return action + " failed"
}

func logf(r *http.Request, level, format string, args ...any) {
	requestID := middleware.GetReqID(r.Context())
	if requestID != "" {
		log.Printf("["+level+"] RequestID=%s: "+format, append([]any{requestID}, args...)...)
		return
	}
	log.Printf("["+level+"] "+format, args...)
}
