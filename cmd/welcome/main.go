// Command welcome sends the waitlist welcome email to a single address.
package main

import (
	"flag"
	"log"

	"github.com/joho/godotenv"

	"github.com/launchfold/waitlist-backend/email"
)

func main() {
	godotenv.Load()
	to := flag.String("to", "", "Address to send the welcome email to")
	flag.Parse()
	if *to == "" {
		log.Fatal("-to is required")
	}

	emailConfig, err := email.MakeConfigFromEnv()
	if err != nil {
		log.Fatal(err)
	}
	if err := emailConfig.SendWelcome(*to); err != nil {
		log.Fatal(err)
	}
	log.Printf("Welcome email sent to %s", *to)
}
