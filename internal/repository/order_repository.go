package repository

import (
	"context"

	"github.com/dursunkatar/OrderManagementSystem/internal/domain/model"
)

type OrderRepository interface {
	// FindByID は明細込みで返す
	FindByID(ctx context.Context, orderID int64) (model.Order, error)
	ListByCustomerID(ctx context.Context, customerID int64, page int, limit int) ([]model.Order, int64, error)

	// Create は注文と明細をまとめて作成しIDを返す
	Create(ctx context.Context, order model.Order) (int64, error)

	// UpdateStatus はstatusと対応するタイムスタンプのみ更新する
	UpdateStatus(ctx context.Context, order model.Order) error
}
