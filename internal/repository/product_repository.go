package repository

import (
	"context"
	"errors"

	"github.com/dursunkatar/OrderManagementSystem/internal/domain/model"
)

var ErrNotFound = errors.New("not found")

type ProductRepository interface {
	FindByID(ctx context.Context, productID int64) (model.Product, error)

	// 注文キャンセル時の在庫戻しでまとめて引く
	FindByIDs(ctx context.Context, productIDs []int64) ([]model.Product, error)

	List(ctx context.Context, page int, limit int) ([]model.Product, int64, error)
}
