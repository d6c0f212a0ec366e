package domain

// User is the domain entity for a user account.
// Password is opaque to the store and kept exactly as given.
type User struct {
	ID       string
	Username string
	Password string
}
