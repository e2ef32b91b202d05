package model

// Principal is the decoded identity attached to an authenticated request.
type Principal struct {
	ID        int64
	RoleID    int
	FirstName string
	LastName  string
	Username  string
}
