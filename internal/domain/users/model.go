package users

import "time"

// User es la identidad registrada en el sistema.
// Username es único e inmutable. PasswordHash jamás se serializa hacia afuera.
type User struct {
	ID           string
	FirstName    string
	LastName     string
	Username     string
	PasswordHash string

	CreatedAt time.Time
	UpdatedAt time.Time
}
