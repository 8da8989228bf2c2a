package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/dursunkatar/OrderManagementSystem/internal/domain/model"
	repo "github.com/dursunkatar/OrderManagementSystem/internal/repository"
	"github.com/dursunkatar/OrderManagementSystem/internal/usecase"
)

func TestProductUsecase_List_NormalizesPaging(t *testing.T) {
	products := new(ProductRepoMock)
	products.On("List", mock.Anything, 1, 20).Return(
		[]model.Product{activeProduct(42, "Keyboard", 1000, 5)}, int64(1), nil)

	out, err := usecase.NewProductUsecase(products).List(context.Background(), 0, -1)

	assert.NoError(t, err)
	assert.Equal(t, 1, out.Page)
	assert.Equal(t, 20, out.Limit)
	assert.Len(t, out.Items, 1)
	assert.Equal(t, int64(1000), out.Items[0].Price)
}

func TestProductUsecase_Get_InactiveLooksMissing(t *testing.T) {
	products := new(ProductRepoMock)
	p := activeProduct(42, "Keyboard", 1000, 5)
	p.IsActive = false
	products.On("FindByID", mock.Anything, int64(42)).Return(p, nil)

	_, err := usecase.NewProductUsecase(products).Get(context.Background(), 42)
	assertErrContains(t, err, "product not found")
}

func TestProductUsecase_Get_NotFound(t *testing.T) {
	products := new(ProductRepoMock)
	products.On("FindByID", mock.Anything, int64(99)).Return(model.Product{}, repo.ErrNotFound)

	_, err := usecase.NewProductUsecase(products).Get(context.Background(), 99)
	assertErrContains(t, err, "product not found")
}
