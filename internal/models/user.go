package models

// User represents a registered account.
//
// The username is the partition key for everything the user owns: their
// transaction list and their chat transcript are both stored under it.
// Logging out clears the active session only; the stored data stays.
type User struct {
	// Username is the unique login identifier.
	Username string `json:"username"`

	// Name is the display name.
	Name string `json:"name"`

	// Avatar is an optional image reference (URL or data URI).
	Avatar string `json:"avatar,omitempty"`

	// PasswordHash is the bcrypt hash of the password.
	// Never serialized to clients.
	PasswordHash string `json:"-"`

	// CreatedAt is the Unix timestamp when the account was created.
	CreatedAt int64 `json:"-"`
}

// Profile is the public view of a user, safe to hand to clients and to
// store as the current-session pointer. It never carries credentials.
type Profile struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Avatar   string `json:"avatar,omitempty"`
}

// Profile returns the credential-free view of u.
func (u *User) Profile() Profile {
	return Profile{Username: u.Username, Name: u.Name, Avatar: u.Avatar}
}
