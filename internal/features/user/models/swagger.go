package models

// StatusUpdate represents a status update request
type StatusUpdate struct {
	Status string `json:"status" binding:"required" example:"active" enums:"active,banned"`
}

// RoleUpdate represents a role update request
type RoleUpdate struct {
	Role string `json:"role" binding:"required" example:"driver" enums:"user,driver,admin"`
}
