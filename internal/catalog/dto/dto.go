package dto

// Table describes one catalog table and the rows that reference it.
type Table struct {
	Name    string
	Label   string
	Columns []string
	// Referrer is the table whose Reference column points at this one.
	Referrer  string
	Reference string
	InUseMsg  string
}

var (
	Categories = Table{
		Name:      "category",
		Label:     "Category",
		Columns:   []string{"category_name"},
		Referrer:  "product",
		Reference: "category_id",
		InUseMsg:  "Category cannot be deleted; it is in use by one or more products.",
	}
	Colors = Table{
		Name:      "color",
		Label:     "Color",
		Columns:   []string{"color_name", "color_code"},
		Referrer:  "product",
		Reference: "color_id",
		InUseMsg:  "Color cannot be deleted; it is in use by one or more products.",
	}
	Types = Table{
		Name:      "type",
		Label:     "Type",
		Columns:   []string{"type_name"},
		Referrer:  "product",
		Reference: "type_id",
		InUseMsg:  "Type cannot be deleted; it is in use by one or more products.",
	}
	Warehouses = Table{
		Name:      "warehouse",
		Label:     "Warehouse",
		Columns:   []string{"warehouse_name", "warehouse_location"},
		Referrer:  "inventory",
		Reference: "warehouse_id",
		InUseMsg:  "Warehouse cannot be deleted; it is in use by one or more inventory items.",
	}
)
