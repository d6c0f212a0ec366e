package dto

import dom "Taskboard/internal/domain"

// RegisterRequest is the JSON body for POST /users.
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=1,max=120"`
	Password string `json:"password" binding:"required,min=1"`
}

// UserResponse never carries the password.
type UserResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

func NewUserResponse(u dom.User) UserResponse {
	return UserResponse{ID: u.ID, Username: u.Username}
}
