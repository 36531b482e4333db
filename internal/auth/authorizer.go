package auth

// Authorizer decides which signed-in users may change the roster
type Authorizer struct {
	adminEmail string
}

// NewAuthorizer creates an authorizer for the configured admin email.
// An empty admin email makes every signed-in user an admin.
func NewAuthorizer(adminEmail string) *Authorizer {
	return &Authorizer{adminEmail: normalizeEmail(adminEmail)}
}

// IsAdmin reports whether user may change roster records
func (a *Authorizer) IsAdmin(user *User) bool {
	if user == nil {
		return false
	}
	if a.adminEmail == "" {
		return true
	}
	return normalizeEmail(user.Email) == a.adminEmail
}
