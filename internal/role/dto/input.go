package dto

type NameInput struct {
	Name string `json:"name" validate:"required,max=64"`
}

type AssignInput struct {
	PermissionIDs []int64 `json:"permissionIds" validate:"required,min=1,dive,gt=0"`
}
