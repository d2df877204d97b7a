package models

import "time"

// User is a marketplace account mirrored from the Telegram identity.
// @Description Full user model
type User struct {
	ID           int64     `json:"id" example:"279058397"`
	Username     string    `json:"username" example:"vdkfrost"`
	FirstName    string    `json:"first_name" example:"Vladislav"`
	LastName     string    `json:"last_name" example:"Kibenko"`
	LanguageCode string    `json:"language_code,omitempty" example:"ru"`
	IsPremium    bool      `json:"is_premium"`
	PhotoURL     string    `json:"photo_url,omitempty"`
	Role         string    `json:"role" example:"user" enums:"user,driver,admin"`
	Status       string    `json:"status" example:"active" enums:"active,banned"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UserResponse is the public view of a user.
// @Description Public user information
type UserResponse struct {
	ID        int64     `json:"id" example:"279058397"`
	Username  string    `json:"username" example:"vdkfrost"`
	FirstName string    `json:"first_name" example:"Vladislav"`
	LastName  string    `json:"last_name" example:"Kibenko"`
	IsPremium bool      `json:"is_premium"`
	PhotoURL  string    `json:"photo_url,omitempty"`
	Role      string    `json:"role" example:"user"`
	Status    string    `json:"status" example:"active"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		IsPremium: u.IsPremium,
		PhotoURL:  u.PhotoURL,
		Role:      u.Role,
		Status:    u.Status,
		CreatedAt: u.CreatedAt,
	}
}
