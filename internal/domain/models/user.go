package models

const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// User представляет пользователя магазина.
// Регистрацией и паролями занимается внешний сервис авторизации, здесь только чтение.
type User struct {
	ID       int64
	Username string
	Email    string
	Role     string
}
