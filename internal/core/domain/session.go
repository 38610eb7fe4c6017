package domain

import "time"

// Session holds the OAuth credentials a user granted us.
type Session struct {
	ID           string    `json:"id"`
	AccessToken  string    `json:"-"`
	RefreshToken string    `json:"-"`
	TokenType    string    `json:"-"`
	Expiry       time.Time `json:"expiry"`
}
