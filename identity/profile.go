package identity

import "github.com/jrsteele09/go-auth-client/identitytoolkit"

// Profile is the locally cached view of the signed-in user. It is never persisted.
type Profile struct {
	UID         string `json:"uid,omitempty"`
	Email       string `json:"email,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
	PhotoURL    string `json:"photo_url,omitempty"`
}

func (p Profile) IsEmpty() bool {
	return p == Profile{}
}

// merge copies the non-empty attributes of u over p; absent attributes keep their cached value.
func (p Profile) merge(u identitytoolkit.User) Profile {
	if u.LocalID != "" {
		p.UID = u.LocalID
	}
	if u.Email != "" {
		p.Email = u.Email
	}
	if u.DisplayName != "" {
		p.DisplayName = u.DisplayName
	}
	if u.PhotoURL != "" {
		p.PhotoURL = u.PhotoURL
	}
	return p
}
