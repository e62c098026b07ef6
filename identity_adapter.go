package identity

// UserIdentity adapts a User into the Identity interface for token generation.
type UserIdentity struct {
	user *User
}

// NewIdentityFromUser returns an Identity adapter for the provided user.
func NewIdentityFromUser(user *User) Identity {
	if user == nil {
		return nil
	}
	return UserIdentity{user: user}
}

// ID returns the account's ID as a string.
func (u UserIdentity) ID() string {
	if u.user == nil {
		return ""
	}
	return u.user.ID.String()
}

// Email returns the account's email address.
func (u UserIdentity) Email() string {
	if u.user == nil {
		return ""
	}
	return u.user.Email
}

// FullName returns the account's display name.
func (u UserIdentity) FullName() string {
	if u.user == nil {
		return ""
	}
	return u.user.FullName
}

// Role returns the account's role as a string.
func (u UserIdentity) Role() string {
	if u.user == nil {
		return ""
	}
	return string(u.user.Role)
}

// PatientLink returns the linked patient record, if any.
func (u UserIdentity) PatientLink() (string, bool) {
	if u.user == nil {
		return "", false
	}
	return u.user.PatientLink()
}
