package domain

import "time"

// User is an author as handed to us by the identity edge. We never
// authenticate users ourselves; the ID and handle arrive already validated.
type User struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"display_name"`
	Email       string    `json:"email,omitempty"`
	Handle      string    `json:"handle,omitempty"` // public profile name, unique when set
	Bio         string    `json:"bio,omitempty"`
	AvatarURL   string    `json:"avatar_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// HasPublicHandle reports whether the user can publish owned lists under a
// profile path.
func (u *User) HasPublicHandle() bool {
	return u.Handle != ""
}
