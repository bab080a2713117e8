package access

// Actor is the authenticated user a request acts on behalf of.
type Actor struct {
	UserID int64
	Email  string
	Role   Role
}

// IsZero reports whether no user is attached.
func (a Actor) IsZero() bool {
	return a.UserID == 0
}
