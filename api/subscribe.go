package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/launchfold/waitlist-backend/db"
	"github.com/launchfold/waitlist-backend/models"
)

// subscribeRequest is the JSON payload for POST /api/subscribe.
// Timestamp is accepted for compatibility with older clients but
// ignored; subscribedAt is always set server-side.
type subscribeRequest struct {
	Email     string `json:"email"`
	Source    string `json:"source"`
	Timestamp string `json:"timestamp"`
}

// Subscribe is the handler for /api/subscribe.
//   POST /api/subscribe
//        {"email": <address>, "source": <origin tag, optional>}
//        Validates the address, checks the store for an existing active
//        subscriber with the same normalized email, and inserts a new
//        document if there is none.
func (api API) subscribe(r *http.Request) response {
	if r.Method != http.MethodPost {
		return response{StatusCode: http.StatusMethodNotAllowed,
			Message: msgMethodNotAllowed}
	}
	var req subscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("subscribe: could not decode request body: %v", err)
		return serverError()
	}
	if errs := models.ValidateEmail(req.Email); len(errs) > 0 {
		return badRequest(errs)
	}
	email := models.NormalizeEmail(req.Email)
	source := req.Source
	if source == "" {
		source = models.DefaultSource
	}
	subscriber := models.Subscriber{
		Email:        email,
		Source:       source,
		SubscribedAt: time.Now(),
		Status:       models.StatusActive,
		IPAddress:    clientIP(r),
		UserAgent:    userAgent(r),
	}
	// Read-then-insert dedupe. Two concurrent requests for the same
	// address can both pass this check; the collection carries no
	// unique index on email.
	_, err := api.Database.GetSubscriber(r.Context(), email)
	if err == nil {
		return response{StatusCode: http.StatusConflict,
			Message: msgAlreadySubscribed}
	}
	if !errors.Is(err, db.ErrNoSubscriber) {
		log.Printf("subscribe: store lookup for %s failed: %v", email, err)
		return serverError()
	}
	if _, err := api.Database.PutSubscriber(r.Context(), subscriber); err != nil {
		log.Printf("subscribe: insert for %s failed: %v", email, err)
		return serverError()
	}
	return response{StatusCode: http.StatusCreated,
		Message: msgSubscribed, Email: email}
}

// Provenance headers are recorded verbatim for audit purposes.
func clientIP(r *http.Request) string {
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		return ip
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	return "unknown"
}

func userAgent(r *http.Request) string {
	if ua := r.Header.Get("User-Agent"); ua != "" {
		return ua
	}
	return "unknown"
}
