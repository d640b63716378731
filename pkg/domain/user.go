package domain

// User is the authenticated account behind the bearer token.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}
