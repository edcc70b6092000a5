package domain

import "time"

// Role определяет права пользователя.
type Role string

const (
	// RoleCustomer — обычный покупатель.
	RoleCustomer Role = "customer"
	// RoleAdmin — администратор back-office.
	RoleAdmin Role = "admin"
)

// User — учётная запись покупателя или администратора.
type User struct {
	ID    string
	Email string
	Name  string
	// PasswordHash — bcrypt-хэш пароля; сам пароль нигде не хранится.
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsAdmin сообщает, есть ли у пользователя права back-office.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
