package dto

// UserInput is the admin create/update payload. Password is only read on
// create; a random one is generated when it is empty.
type UserInput struct {
	Name     string `json:"name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"omitempty,min=6"`
	Role     string `json:"role" validate:"max=64"`
	Status   string `json:"status" validate:"omitempty,oneof=Active Inactive"`
	Promote  bool   `json:"promote"`
}

type SignUpInput struct {
	Name     string `json:"name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// ChangePasswordInput is checked by the use case so both fields missing
// yield one message.
type ChangePasswordInput struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}
