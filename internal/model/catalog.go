package model

type Category struct {
	ID           int64  `db:"id" json:"id"`
	CategoryName string `db:"category_name" json:"category_name" validate:"required,max=255"`
}

type Color struct {
	ID        int64   `db:"id" json:"id"`
	ColorName string  `db:"color_name" json:"color_name" validate:"required,max=255"`
	ColorCode *string `db:"color_code" json:"color_code" validate:"omitempty,max=32"`
}

type Type struct {
	ID       int64  `db:"id" json:"id"`
	TypeName string `db:"type_name" json:"type_name" validate:"required,max=255"`
}

type Warehouse struct {
	ID                int64   `db:"id" json:"id"`
	WarehouseName     string  `db:"warehouse_name" json:"warehouse_name" validate:"required,max=255"`
	WarehouseLocation *string `db:"warehouse_location" json:"warehouse_location" validate:"omitempty,max=500"`
}

func (c *Category) SetID(id int64)  { c.ID = id }
func (c *Color) SetID(id int64)     { c.ID = id }
func (t *Type) SetID(id int64)      { t.ID = id }
func (w *Warehouse) SetID(id int64) { w.ID = id }
