package db

import (
	"context"
	"errors"
	"flag"
	"os"

	"github.com/launchfold/waitlist-backend/models"
)

// ErrNoSubscriber is returned by lookups that match no document.
var ErrNoSubscriber = errors.New("no active subscriber with that email")

// Store interface: these are the things the document store should be
// able to do for the signup path. Slightly more limited than CRUD for
// the schema.
type Store interface {
	// Retrieves the active subscriber with this normalized email.
	// Returns ErrNoSubscriber if there isn't one.
	GetSubscriber(ctx context.Context, email string) (models.Subscriber, error)
	// Inserts a new subscriber document and returns its id.
	PutSubscriber(ctx context.Context, subscriber models.Subscriber) (string, error)
	// Retrieves every active subscriber (broadcast targets).
	GetActiveSubscribers(ctx context.Context) ([]models.Subscriber, error)
}

// Config is a configuration struct for a Store.
type Config struct {
	Port                   string
	DbURI                  string
	DbName                 string
	DbSubscriberCollection string
}

// Default configuration values. Can be overwritten by env vars of the same name.
var configDefaults = map[string]string{
	"PORT":                     "8080",
	"MONGO_URI":                "mongodb://localhost:27017",
	"DB_NAME":                  "waitlist",
	"TEST_DB_NAME":             "waitlist_test",
	"DB_SUBSCRIBER_COLLECTION": "subscribers",
}

func getEnvOrDefault(varName string) string {
	envVar := os.Getenv(varName)
	if len(envVar) == 0 {
		envVar = configDefaults[varName]
	}
	return envVar
}

// LoadEnvironmentVariables loads relevant environment variables into a
// Config object.
func LoadEnvironmentVariables() (Config, error) {
	config := Config{
		Port:                   getEnvOrDefault("PORT"),
		DbURI:                  getEnvOrDefault("MONGO_URI"),
		DbName:                 getEnvOrDefault("DB_NAME"),
		DbSubscriberCollection: getEnvOrDefault("DB_SUBSCRIBER_COLLECTION"),
	}
	if flag.Lookup("test.v") != nil {
		// Avoid accidentally wiping the default db during tests.
		config.DbName = getEnvOrDefault("TEST_DB_NAME")
	}
	return config, nil
}
