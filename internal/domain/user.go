package domain

// User is an employee account on the interdepartmental portal. Usernames are
// case-sensitive, unique and immutable after registration; accounts are never
// updated or deleted through any exposed operation.
type User struct {
	Username     string
	FullName     string
	Department   string
	PasswordHash string
}
