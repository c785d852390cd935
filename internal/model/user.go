package model

import "time"

// User represents an application user record as stored in the
// `users` table.  Each field corresponds to a column in the
// database.  The json tags are omitted here because these structs
// are primarily used internally by the repository layer; handlers
// define separate response types with appropriate JSON tags.
//
// Fields:
//  ID           – primary key identifier of the user.
//  RoleID       – foreign key into the roles table.
//  Name         – full name of the user.
//  Email        – unique email address.
//  PasswordHash – bcrypt hashed password.
//  Address      – postal address.
//  PhoneNumber  – contact phone number.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64    // users.id
	RoleID       uint8     // users.role_id (references roles.id)
	Name         string    // users.name
	Email        string    // users.email
	PasswordHash string    // users.password_hash
	Address      string    // users.address
	PhoneNumber  string    // users.phone_number
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}

// Role represents a row in the `roles` table.  It maps a small
// integer ID to a role name.  Users reference this table via the
// RoleID field.
//
// Fields:
//  ID   – numeric identifier of the role.
//  Name – role name (ADMIN or CUSTOMER).
type Role struct {
	ID   uint8  // roles.id
	Name string // roles.name
}

// Role names as stored in the roles table and carried in JWT claims.
const (
	RoleAdmin    = "ADMIN"
	RoleCustomer = "CUSTOMER"
)

// Seeded role IDs.  Registration always assigns RoleIDCustomer;
// admin accounts are provisioned out of band.
const (
	RoleIDAdmin    uint8 = 1
	RoleIDCustomer uint8 = 2
)
