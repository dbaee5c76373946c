package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	raven "github.com/getsentry/raven-go"

	"github.com/launchfold/waitlist-backend/db"
)

////////////////////////////////
//  *****   REST API   *****  //
////////////////////////////////

// API is the HTTP API that this service provides. All requests respond
// with a JSON body carrying a human-readable message plus, on success,
// the normalized email that was subscribed.
type API struct {
	Database db.Store
}

// Messages returned by the subscribe endpoint.
const (
	msgSubscribed        = "Successfully subscribed!"
	msgInvalidEmail      = "Invalid email format"
	msgAlreadySubscribed = "Email already subscribed"
	msgSubscribeFailed   = "Failed to subscribe. Please try again."
	msgMethodNotAllowed  = "Method not allowed"
)

type response struct {
	StatusCode int      `json:"-"`
	Message    string   `json:"message"`
	Email      string   `json:"email,omitempty"`
	Errors     []string `json:"errors,omitempty"`
}

type apiHandler func(r *http.Request) response

func badRequest(errs []string) response {
	return response{StatusCode: http.StatusBadRequest, Message: msgInvalidEmail, Errors: errs}
}

// serverError deliberately carries no detail about what went wrong;
// internals are logged and reported, never returned to the caller.
func serverError() response {
	return response{StatusCode: http.StatusInternalServerError, Message: msgSubscribeFailed}
}

func (api *API) wrapper(handler apiHandler) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		response := handler(r)
		if response.StatusCode == http.StatusInternalServerError {
			packet := raven.NewPacket(response.Message, raven.NewHttp(r))
			raven.Capture(packet, nil)
		}
		api.writeJSON(w, response)
	}
}

func pingHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
}

// RegisterHandlers binds API functions to the given http server,
// and returns the resulting handler.
func (api *API) RegisterHandlers(mux *http.ServeMux) http.Handler {
	mux.Handle("/api/subscribe",
		throttleHandler(time.Hour, 20, http.HandlerFunc(api.wrapper(api.subscribe))))
	mux.HandleFunc("/api/ping", pingHandler)
	return middleware(mux)
}

// Writes the response as a JSON object to http.ResponseWriter `w`. If
// an error occurs, writes `http.StatusInternalServerError` to `w`.
func (api *API) writeJSON(w http.ResponseWriter, apiResponse response) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(apiResponse.StatusCode)
	b, err := json.MarshalIndent(apiResponse, "", "  ")
	if err != nil {
		msg := fmt.Sprintf("Internal error: could not format JSON. (%s)\n", err)
		http.Error(w, msg, http.StatusInternalServerError)
		return
	}
	fmt.Fprintf(w, "%s\n", b)
}
