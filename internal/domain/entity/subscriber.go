package entity

import (
	"net/mail"
	"strings"
	"time"
)

// Subscriber is a newsletter subscription. Email is unique.
type Subscriber struct {
	Email     string
	CreatedAt time.Time
}

const maxEmailLength = 254

// NormalizeEmail trims and lower-cases an address and checks that it is a bare
// mailbox ("a@b.com", not "Name <a@b.com>") with a dotted domain.
func NormalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", &ValidationError{Field: "email", Message: "is required"}
	}
	if len(email) > maxEmailLength {
		return "", &ValidationError{Field: "email", Message: "is too long"}
	}

	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", &ValidationError{Field: "email", Message: "is invalid"}
	}

	at := strings.LastIndexByte(email, '@')
	domain := email[at+1:]
	if !strings.Contains(domain, ".") || strings.HasPrefix(domain, ".") || strings.HasSuffix(domain, ".") {
		return "", &ValidationError{Field: "email", Message: "is invalid"}
	}
	return email, nil
}
