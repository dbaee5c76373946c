// Command broadcast sends one email to every active subscriber on the
// waitlist. Subject is passed as a flag, the body is read from a file.
package main

import (
	"context"
	"flag"
	"io/ioutil"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/launchfold/waitlist-backend/db"
	"github.com/launchfold/waitlist-backend/email"
)

func main() {
	godotenv.Load()
	subject := flag.String("subject", "", "Subject line for the broadcast")
	bodyFile := flag.String("body", "", "Path to a file holding the plain-text body")
	flag.Parse()
	if *subject == "" || *bodyFile == "" {
		log.Fatal("both -subject and -body are required")
	}
	body, err := ioutil.ReadFile(*bodyFile)
	if err != nil {
		log.Fatal(err)
	}

	cfg, err := db.LoadEnvironmentVariables()
	if err != nil {
		log.Fatal(err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	store, err := db.InitMongoDatabase(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer store.Close(ctx)

	emailConfig, err := email.MakeConfigFromEnv()
	if err != nil {
		log.Fatal(err)
	}

	subscribers, err := store.GetActiveSubscribers(ctx)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("Broadcasting %q to %d active subscribers", *subject, len(subscribers))
	sent, err := emailConfig.Broadcast(*subject, string(body), subscribers)
	if err != nil {
		log.Printf("some sends failed: %v", err)
	}
	log.Printf("Sent %d of %d", sent, len(subscribers))
}
