package models

// Roles carried in the JWT "role" claim. Guests are token-only and never
// get a database row; they may view live pages but not history or user
// management.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
	RoleGuest = "guest"
)

type User struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	Username string `json:"username" gorm:"unique;not null"`
	Email    string `json:"email" gorm:"unique;not null"`
	Password string `json:"-"` // Store hashed password
	Role     string `json:"role" gorm:"default:user"`
}
