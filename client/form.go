// Package client drives the subscribe endpoint the way the signup form
// on the landing page does: client-side validation before any network
// call, one in-flight request at a time, and a small submission state
// machine whose messages mirror what the form shows the visitor.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/launchfold/waitlist-backend/models"
)

// State is the lifecycle of a single signup submission.
type State string

// A form starts idle, moves to submitting once a valid address is
// submitted, and lands on success or error. Success is terminal for
// the submission; error permits resubmission.
const (
	StateIdle       State = "idle"
	StateSubmitting State = "submitting"
	StateSuccess    State = "success"
	StateError      State = "error"
)

// Messages shown to the visitor.
const (
	MsgInvalidEmail = "Please enter a valid email address"
	MsgDuplicate    = "You're already on the waitlist!"
	MsgNetworkError = "Network error. Please try again."
)

// Form holds the state of one signup form instance.
type Form struct {
	Endpoint string
	Source   string
	HTTP     *http.Client

	mu      sync.Mutex
	state   State
	input   string
	message string
}

// NewForm returns an idle form posting to the given subscribe endpoint.
func NewForm(endpoint string) *Form {
	return &Form{
		Endpoint: endpoint,
		HTTP:     http.DefaultClient,
		state:    StateIdle,
	}
}

// SetInput records what the visitor typed. Ignored while a submission
// is in flight (the input control is disabled then).
func (f *Form) SetInput(email string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state == StateSubmitting {
		return
	}
	f.input = email
}

// State returns the current submission state.
func (f *Form) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Input returns the current contents of the email field.
func (f *Form) Input() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.input
}

// Message returns the text currently shown under the form.
func (f *Form) Message() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.message
}

type subscribePayload struct {
	Email  string `json:"email"`
	Source string `json:"source,omitempty"`
}

type subscribeResult struct {
	Message string `json:"message"`
	Email   string `json:"email"`
}

// Submit runs one submission attempt and returns the resulting state.
// While a request is in flight the form stays busy and further calls
// return immediately; a successful form does not submit again. If
// client-side validation fails, no request is issued and the state is
// left as it was, with a validation message.
func (f *Form) Submit(ctx context.Context) State {
	f.mu.Lock()
	if f.state == StateSubmitting || f.state == StateSuccess {
		state := f.state
		f.mu.Unlock()
		return state
	}
	if len(models.ValidateEmail(f.input)) > 0 {
		f.message = MsgInvalidEmail
		state := f.state
		f.mu.Unlock()
		return state
	}
	f.state = StateSubmitting
	f.message = ""
	email := f.input
	f.mu.Unlock()

	status, result, err := f.post(ctx, email)

	f.mu.Lock()
	defer f.mu.Unlock()
	switch {
	case err != nil:
		f.state = StateError
		f.message = MsgNetworkError
	case status == http.StatusConflict:
		f.state = StateError
		f.message = MsgDuplicate
	case status >= 200 && status < 300:
		f.state = StateSuccess
		f.message = result.Message
		f.input = "" // cleared on success; preserved on error
	default:
		f.state = StateError
		if result.Message != "" {
			f.message = result.Message
		} else {
			f.message = MsgNetworkError
		}
	}
	return f.state
}

func (f *Form) post(ctx context.Context, email string) (int, subscribeResult, error) {
	payload, err := json.Marshal(subscribePayload{Email: email, Source: f.Source})
	if err != nil {
		return 0, subscribeResult{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return 0, subscribeResult{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	httpClient := f.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return 0, subscribeResult{}, err
	}
	defer resp.Body.Close()
	var result subscribeResult
	// A body that doesn't decode leaves the message empty; the caller
	// falls back to a generic message.
	json.NewDecoder(resp.Body).Decode(&result)
	return resp.StatusCode, result, nil
}
