package model

import "time"

// User represents an application user record as stored in the `users`
// table. RoleID 0 is an ordinary user; any value above 0 is an elevated
// (admin) tier. Higher values are not otherwise distinguished.
//
// Fields:
//  ID           – primary key identifier of the user.
//  FirstName    – given name.
//  LastName     – family name.
//  Username     – unique login name (an email address in practice).
//  PasswordHash – bcrypt hashed password.
//  RoleID       – role level assigned at signup.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
	ID           int64     // users.id
	FirstName    string    // users.first_name
	LastName     string    // users.last_name
	Username     string    // users.username
	PasswordHash string    // users.password_hash
	RoleID       int       // users.role_id
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}

// PublicUser is the user shape returned by the API; it never carries the
// password hash.
type PublicUser struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Username  string `json:"username"`
	RoleID    int    `json:"roleId"`
}

// Public returns the API view of u.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Username:  u.Username,
		RoleID:    u.RoleID,
	}
}

// Principal returns the identity carried in tokens issued for u.
func (u *User) Principal() Principal {
	return Principal{
		ID:        u.ID,
		RoleID:    u.RoleID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Username:  u.Username,
	}
}
