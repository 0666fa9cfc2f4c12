package dto

import "github.com/wa-thone-kyaw/ano-backend/internal/model"

// CreatedUser carries the generated password when the admin did not set one.
type CreatedUser struct {
	User     *model.User
	Password string
}

type LoginUser struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	LastLogin string `json:"last_login"`
}

type LoginResult struct {
	Token string    `json:"token"`
	User  LoginUser `json:"user"`
}
