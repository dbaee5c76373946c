package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	raven "github.com/getsentry/raven-go"
	"github.com/joho/godotenv"

	"github.com/launchfold/waitlist-backend/api"
	"github.com/launchfold/waitlist-backend/db"
)

func validPort(port string) (string, error) {
	if _, err := strconv.Atoi(port); err != nil {
		return "", fmt.Errorf("given portstring %s is invalid", port)
	}
	return fmt.Sprintf(":%s", port), nil
}

// ServePublicEndpoints serves all public HTTP endpoints.
func ServePublicEndpoints(a *api.API, cfg *db.Config) {
	mux := http.NewServeMux()
	mainHandler := a.RegisterHandlers(mux)

	portString, err := validPort(cfg.Port)
	if err != nil {
		log.Fatal(err)
	}
	server := http.Server{
		Addr:    portString,
		Handler: mainHandler,
	}
	log.Printf("Serving on %s", portString)
	log.Fatal(server.ListenAndServe())
}

func main() {
	godotenv.Load()
	raven.SetDSN(os.Getenv("SENTRY_DSN"))

	cfg, err := db.LoadEnvironmentVariables()
	if err != nil {
		log.Fatal(err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	store, err := db.InitMongoDatabase(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}

	a := api.API{Database: store}
	ServePublicEndpoints(&a, &cfg)
}
