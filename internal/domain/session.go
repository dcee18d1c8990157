package domain

import "time"

// Claims is the identity carried by a signed session token.
type Claims struct {
	Username  string
	UserID    ID
	IssuedAt  time.Time
	ExpiresAt time.Time
}
