package models

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"golang.org/x/net/idna"
)

// SubscriberStatus represents the lifecycle state of a subscriber.
type SubscriberStatus string

// Possible values for SubscriberStatus. Only active subscribers count
// for dedupe checks and broadcast sends.
const (
	StatusActive       SubscriberStatus = "active"
	StatusUnsubscribed SubscriberStatus = "unsubscribed"
)

// DefaultSource tags signups that don't declare an origin.
const DefaultSource = "website"

// Subscriber mirrors one document in the subscribers collection.
type Subscriber struct {
	Email        string           `bson:"email" json:"email"`                // Normalized (lower-cased) address, the natural key
	Source       string           `bson:"source" json:"source"`              // Free-text origin tag
	SubscribedAt time.Time        `bson:"subscribedAt" json:"subscribed_at"` // Set server-side at insert
	Status       SubscriberStatus `bson:"status" json:"status"`
	IPAddress    string           `bson:"ipAddress" json:"-"` // Stored verbatim for audit
	UserAgent    string           `bson:"userAgent" json:"-"` // Stored verbatim for audit
}

// NormalizeEmail lower-cases an address for use as the dedupe key.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Length bounds from RFC 5321.
const (
	maxEmailLength = 254
	maxLocalLength = 64
)

// Match the local part of an address: printable characters, no spaces,
// no additional '@'.
const matchLocal = "^[a-zA-Z0-9.!#$%&'*+/=?^_`{|}~-]+$"

// Match domain names according to RFC 1035
// * Neither suffix nor prefix; should not end or start with `.`
const matchDNS = `^([a-zA-Z0-9_]{1}[a-zA-Z0-9_-]{0,62}){1}(\.[a-zA-Z0-9_]{1}[a-zA-Z0-9_-]{0,62})*$`

var (
	localRegexp = regexp.MustCompile(matchLocal)
	dnsRegexp   = regexp.MustCompile(matchDNS)
)

// ValidateEmail checks an address against a standard local@domain
// grammar and returns the list of problems found. An empty list means
// the address is acceptable.
func ValidateEmail(email string) []string {
	email = strings.TrimSpace(email)
	if len(email) == 0 {
		return []string{"email is required"}
	}
	var errs []string
	if len(email) > maxEmailLength {
		errs = append(errs, fmt.Sprintf("email must be at most %d characters", maxEmailLength))
	}
	at := strings.LastIndex(email, "@")
	if at < 1 || at == len(email)-1 {
		errs = append(errs, "email must have the form local@domain")
		return errs
	}
	local, domain := email[:at], email[at+1:]
	if len(local) > maxLocalLength {
		errs = append(errs, fmt.Sprintf("the part before @ must be at most %d characters", maxLocalLength))
	}
	if !localRegexp.MatchString(local) {
		errs = append(errs, "the part before @ contains invalid characters")
	}
	if !validDomainName(domain) {
		errs = append(errs, "email domain is invalid")
	}
	return errs
}

// A valid mail domain contains at least one dot, matches the DNS
// grammar, and converts cleanly to ASCII.
func validDomainName(s string) bool {
	if len(s) < 1 || !strings.Contains(s, ".") {
		return false
	}
	ascii, err := idna.ToASCII(s)
	if err != nil {
		return false
	}
	return dnsRegexp.MatchString(ascii)
}
