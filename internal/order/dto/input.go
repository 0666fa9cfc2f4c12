package dto

type PlaceOrderInput struct {
	CustomerID      int64   `json:"customer_id" validate:"required,gt=0"`
	ProductID       int64   `json:"product_id" validate:"required,gt=0"`
	WarehouseID     *int64  `json:"warehouse_id" validate:"omitempty,gt=0"`
	Quantity        int     `json:"quantity" validate:"gt=0"`
	DeliveryAddress *string `json:"delivery_address" validate:"omitempty,max=1000"`
	Note            *string `json:"note" validate:"omitempty,max=1000"`
}

type UpdateOrderInput struct {
	CustomerID      int64   `json:"customer_id" validate:"required,gt=0"`
	ProductID       int64   `json:"product_id" validate:"required,gt=0"`
	Quantity        int     `json:"quantity" validate:"gt=0"`
	DeliveryAddress *string `json:"delivery_address" validate:"omitempty,max=1000"`
	Note            *string `json:"note" validate:"omitempty,max=1000"`
}

type UpdateStatusInput struct {
	Status string `json:"status" validate:"required,oneof=Pending Complete"`
}
