package dto

import "github.com/wa-thone-kyaw/ano-backend/internal/model"

type OrderFilters struct {
	CustomerID *int64
	ProductID  *int64
	Status     model.OrderStatus
	Page       int
	PageSize   int
}
