package repository

import (
	"context"

	"github.com/dursunkatar/OrderManagementSystem/internal/domain/model"
)

type CustomerRepository interface {
	FindByID(ctx context.Context, customerID int64) (model.Customer, error)
	FindByEmail(ctx context.Context, email string) (model.Customer, error)
	Create(ctx context.Context, customer model.Customer) (int64, error)
}
