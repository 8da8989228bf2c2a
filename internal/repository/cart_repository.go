package repository

import (
	"context"

	"github.com/dursunkatar/OrderManagementSystem/internal/domain/model"
)

// カートは明細込みで読み書きする（暗黙のlazy loadはしない）。
type CartRepository interface {
	GetOrCreateByCustomerID(ctx context.Context, customerID int64) (model.Cart, error)
	FindByCustomerID(ctx context.Context, customerID int64) (model.Cart, error)

	// Save は明細を現在の内容で置き換える
	Save(ctx context.Context, cart model.Cart) error
}
