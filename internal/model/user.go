package model

// User represents an account as stored in the `users` table.  Cellars
// and wines are always scoped to exactly one user.
//
// Fields:
//  ID           – primary key identifier (UUID string).
//  Email        – unique, normalised email address.
//  PasswordHash – bcrypt hash of the password.
//  IsActive     – whether the account may sign in.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
	ID           string // users.id
	Email        string // users.email
	PasswordHash string // users.password_hash
	IsActive     bool   // users.is_active
	CreatedAt    string // users.created_at
	UpdatedAt    string // users.updated_at
}
