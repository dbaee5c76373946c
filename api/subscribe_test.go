package api

import (
	"context"
	"encoding/json"
	"errors"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/launchfold/waitlist-backend/models"
)

func TestSubscribeSuccess(t *testing.T) {
	defer teardown()

	headers := map[string]string{
		"X-Forwarded-For": "203.0.113.9",
		"User-Agent":      "waitlist-test/1.0",
	}
	resp, body := testJSONPost(t, "/api/subscribe",
		map[string]string{"email": "A@B.COM"}, headers)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("POST /api/subscribe = %d, want 201", resp.StatusCode)
	}
	if body["message"] != "Successfully subscribed!" {
		t.Errorf("message = %q", body["message"])
	}
	if body["email"] != "a@b.com" {
		t.Errorf("email = %q, want normalized a@b.com", body["email"])
	}

	subscriber, err := store.GetSubscriber(context.Background(), "a@b.com")
	if err != nil {
		t.Fatalf("subscriber was not stored: %v", err)
	}
	if subscriber.Status != models.StatusActive {
		t.Errorf("status = %q, want active", subscriber.Status)
	}
	if subscriber.Source != "website" {
		t.Errorf("source = %q, want website", subscriber.Source)
	}
	if subscriber.IPAddress != "203.0.113.9" {
		t.Errorf("ip = %q, want header value stored verbatim", subscriber.IPAddress)
	}
	if subscriber.UserAgent != "waitlist-test/1.0" {
		t.Errorf("user agent = %q", subscriber.UserAgent)
	}
	if subscriber.SubscribedAt.IsZero() {
		t.Error("subscribedAt should be set server-side")
	}
}

func TestSubscribeCustomSource(t *testing.T) {
	defer teardown()

	resp, _ := testJSONPost(t, "/api/subscribe",
		map[string]string{"email": "launch@example.com", "source": "product-hunt"}, nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("POST /api/subscribe = %d, want 201", resp.StatusCode)
	}
	subscriber, err := store.GetSubscriber(context.Background(), "launch@example.com")
	if err != nil {
		t.Fatal(err)
	}
	if subscriber.Source != "product-hunt" {
		t.Errorf("source = %q, want product-hunt", subscriber.Source)
	}
}

func TestSubscribeDefaultProvenance(t *testing.T) {
	defer teardown()

	// http.Client always sends a User-Agent, so call the handler
	// directly to exercise the missing-header defaults.
	req := httptest.NewRequest("POST", "/api/subscribe",
		strings.NewReader(`{"email":"bare@example.com"}`))
	req.Header.Del("User-Agent")
	response := api.subscribe(req)
	if response.StatusCode != http.StatusCreated {
		t.Fatalf("subscribe = %d, want 201", response.StatusCode)
	}
	subscriber, err := store.GetSubscriber(context.Background(), "bare@example.com")
	if err != nil {
		t.Fatal(err)
	}
	if subscriber.IPAddress != "unknown" {
		t.Errorf("ip = %q, want unknown", subscriber.IPAddress)
	}
	if subscriber.UserAgent != "unknown" {
		t.Errorf("user agent = %q, want unknown", subscriber.UserAgent)
	}
}

func TestSubscribeRealIPHeader(t *testing.T) {
	defer teardown()

	req := httptest.NewRequest("POST", "/api/subscribe",
		strings.NewReader(`{"email":"realip@example.com"}`))
	req.Header.Set("X-Real-IP", "198.51.100.7")
	response := api.subscribe(req)
	if response.StatusCode != http.StatusCreated {
		t.Fatalf("subscribe = %d, want 201", response.StatusCode)
	}
	subscriber, _ := store.GetSubscriber(context.Background(), "realip@example.com")
	if subscriber.IPAddress != "198.51.100.7" {
		t.Errorf("ip = %q, want X-Real-IP value", subscriber.IPAddress)
	}
}

func TestSubscribeInvalidEmail(t *testing.T) {
	defer teardown()

	invalid := []string{"", "invalid", "no-domain@", "@no-local.com", "a b@example.com"}
	for _, email := range invalid {
		resp, body := testJSONPost(t, "/api/subscribe",
			map[string]string{"email": email}, nil)
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("POST with email %q = %d, want 400", email, resp.StatusCode)
		}
		if body["message"] != "Invalid email format" {
			t.Errorf("message = %q", body["message"])
		}
		if _, ok := body["errors"]; !ok {
			t.Errorf("400 body for %q should list field errors", email)
		}
	}
	if store.Count() != 0 {
		t.Errorf("invalid submissions should not write; store holds %d documents", store.Count())
	}
}

func TestSubscribeDuplicate(t *testing.T) {
	defer teardown()

	resp, _ := testJSONPost(t, "/api/subscribe",
		map[string]string{"email": "dupe@example.com"}, nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("first POST = %d, want 201", resp.StatusCode)
	}

	// Same address, different case: still a duplicate after normalization.
	resp, body := testJSONPost(t, "/api/subscribe",
		map[string]string{"email": "DUPE@example.com"}, nil)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("second POST = %d, want 409", resp.StatusCode)
	}
	if body["message"] != "Email already subscribed" {
		t.Errorf("message = %q", body["message"])
	}
	if store.Count() != 1 {
		t.Errorf("duplicate should not write; store holds %d documents", store.Count())
	}
}

func TestSubscribeMalformedBody(t *testing.T) {
	defer teardown()

	resp, err := http.Post(server.URL+"/api/subscribe", "application/json",
		strings.NewReader("{not json"))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("malformed body = %d, want 500", resp.StatusCode)
	}
	raw, _ := ioutil.ReadAll(resp.Body)
	if !strings.Contains(string(raw), "Failed to subscribe. Please try again.") {
		t.Errorf("500 body should carry the generic message, got %s", raw)
	}
}

func TestSubscribeMethodNotAllowed(t *testing.T) {
	for _, method := range []string{"GET", "PUT", "DELETE"} {
		req, err := http.NewRequest(method, server.URL+"/api/subscribe?email=x@y.com", nil)
		if err != nil {
			t.Fatal(err)
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatal(err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusMethodNotAllowed {
			t.Errorf("%s /api/subscribe = %d, want 405", method, resp.StatusCode)
		}
		var body map[string]interface{}
		raw, _ := ioutil.ReadAll(resp.Body)
		if err := json.Unmarshal(raw, &body); err != nil {
			t.Fatalf("returned invalid JSON object: %v", string(raw))
		}
		if body["message"] != "Method not allowed" {
			t.Errorf("message = %q", body["message"])
		}
	}
}

// Store that fails every operation, to exercise the generic 500 path.
type failingStore struct{}

var errStoreDown = errors.New("connection refused: mongodb://localhost:27017")

func (failingStore) GetSubscriber(ctx context.Context, email string) (models.Subscriber, error) {
	return models.Subscriber{}, errStoreDown
}

func (failingStore) PutSubscriber(ctx context.Context, subscriber models.Subscriber) (string, error) {
	return "", errStoreDown
}

func (failingStore) GetActiveSubscribers(ctx context.Context) ([]models.Subscriber, error) {
	return nil, errStoreDown
}

func TestSubscribeStoreFailure(t *testing.T) {
	brokenAPI := &API{Database: failingStore{}}
	mux := http.NewServeMux()
	brokenServer := httptest.NewServer(brokenAPI.RegisterHandlers(mux))
	defer brokenServer.Close()

	resp, err := http.Post(brokenServer.URL+"/api/subscribe", "application/json",
		strings.NewReader(`{"email":"test@example.com"}`))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("store failure = %d, want 500", resp.StatusCode)
	}
	raw, _ := ioutil.ReadAll(resp.Body)
	if strings.Contains(string(raw), "connection refused") {
		t.Error("internal error detail leaked into the response body")
	}
	if !strings.Contains(string(raw), "Failed to subscribe. Please try again.") {
		t.Errorf("500 body should carry the generic message, got %s", raw)
	}
}
