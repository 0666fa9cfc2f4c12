package order

import (
	"context"

	"github.com/wa-thone-kyaw/ano-backend/internal/model"
	"github.com/wa-thone-kyaw/ano-backend/internal/order/dto"
)

type UseCase interface {
	PlaceOrder(ctx context.Context, input *dto.PlaceOrderInput) (*model.Order, error)
	UpdateOrder(ctx context.Context, id int64, input *dto.UpdateOrderInput) (*model.Order, error)
	DeleteOrder(ctx context.Context, id int64) error
	UpdateOrderStatus(ctx context.Context, id int64, status model.OrderStatus) error
	GetOrder(ctx context.Context, id int64) (*model.OrderDetail, error)
	ListOrders(ctx context.Context, filters *dto.OrderFilters) ([]model.OrderDetail, int, error)
}
