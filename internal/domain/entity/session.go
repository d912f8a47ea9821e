package entity

import "time"

// Session is the authenticated admin context passed explicitly to handlers.
type Session struct {
	Subject   string    `json:"subject"`
	IssuedAt  time.Time `json:"issuedAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Credential is the admin id/password pair submitted at login
type Credential struct {
	ID       string
	Password string
}

// PostalAddress is the best-effort result of a postal code lookup
type PostalAddress struct {
	PostalCode string `json:"postalCode"`
	Prefecture string `json:"prefecture"`
	City       string `json:"city"`
	Town       string `json:"town"`
}
