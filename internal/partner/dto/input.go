package dto

import "time"

const (
	SourceLocal   = "local"
	SourceForeign = "foreign"
)

type CustomerInput struct {
	Name         string  `json:"name" validate:"required,max=255"`
	Email        *string `json:"email" validate:"omitempty,email,max=255"`
	Phone        *string `json:"phone" validate:"omitempty,max=64"`
	Address      *string `json:"address"`
	BusinessName *string `json:"business_name" validate:"omitempty,max=255"`
}

type SupplierInput struct {
	Name          string     `json:"name" validate:"required,max=255"`
	Address       *string    `json:"address"`
	ContactPerson *string    `json:"contact_person" validate:"omitempty,max=255"`
	Phone         *string    `json:"phone" validate:"omitempty,max=64"`
	Email         *string    `json:"email" validate:"omitempty,email,max=255"`
	Source        string     `json:"source" validate:"omitempty,oneof=local foreign"`
	JoinDate      *time.Time `json:"-"`
}
