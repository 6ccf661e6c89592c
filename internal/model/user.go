package model

// User is the authenticated platform account, as far as this client
// needs to know it. A nil *User means no one is signed in.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
}

// SameIdentity reports whether two possibly-nil users refer to the same
// account. Two nils are the same (both signed out).
func SameIdentity(a, b *User) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.ID == b.ID
}
