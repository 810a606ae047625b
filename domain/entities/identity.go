package entities

import "time"

// Credential is a stored login for one account
type Credential struct {
	MemberID     string
	Email        string
	PasswordHash []byte
	CreatedAt    time.Time
}

// Identity is a resolved account: who it is and whether it is the administrator
type Identity struct {
	MemberID string `json:"member_id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	IsAdmin  bool   `json:"is_admin"`
}
