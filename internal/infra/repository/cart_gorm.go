package repository

import (
	"context"
	"errors"

	"github.com/dursunkatar/OrderManagementSystem/internal/domain/model"
	repo "github.com/dursunkatar/OrderManagementSystem/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CartGormRepository struct {
	db *gorm.DB
}

// DI
func NewCartGormRepository(db *gorm.DB) *CartGormRepository {
	return &CartGormRepository{db: db}
}

// 顧客のカートを明細込みで取得し、無ければ作成
func (r *CartGormRepository) GetOrCreateByCustomerID(ctx context.Context, customerID int64) (model.Cart, error) {
	var cart model.Cart

	//トランザクションで探す→無ければ作る
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		findErr := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("customer_id = ?", customerID).
			First(&cart).Error

		if findErr == nil {
			return tx.Where("cart_id = ?", cart.ID).Order("id asc").Find(&cart.Items).Error
		}

		if !errors.Is(findErr, gorm.ErrRecordNotFound) {
			return findErr
		}

		// 無ければ作る
		newCart := model.Cart{CustomerID: customerID}
		if err := tx.Create(&newCart).Error; err != nil {
			// uniqueIndex競合なら取り直す
			retryErr := tx.Where("customer_id = ?", customerID).First(&cart).Error
			if retryErr == nil {
				return tx.Where("cart_id = ?", cart.ID).Order("id asc").Find(&cart.Items).Error
			}
			return err
		}

		cart = newCart
		return nil
	})

	if err != nil {
		return model.Cart{}, err
	}
	return cart, nil
}

// 顧客のカートを明細込みで取得
func (r *CartGormRepository) FindByCustomerID(ctx context.Context, customerID int64) (model.Cart, error) {
	var cart model.Cart

	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("cart_items.id asc") }).
		Where("customer_id = ?", customerID).
		First(&cart).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Cart{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Cart{}, err
	}
	return cart, nil
}

// Save は明細を現在の内容で置き換える
func (r *CartGormRepository) Save(ctx context.Context, cart model.Cart) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Cart{}).
			Where("id = ?", cart.ID).
			Update("updated_at", cart.UpdatedAt)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return repo.ErrNotFound
		}

		//既存明細を全削除して入れ直す
		if err := tx.Where("cart_id = ?", cart.ID).Delete(&model.CartItem{}).Error; err != nil {
			return err
		}

		if len(cart.Items) == 0 {
			return nil
		}

		items := make([]model.CartItem, 0, len(cart.Items))
		for _, it := range cart.Items {
			it.ID = 0
			it.CartID = cart.ID
			items = append(items, it)
		}

		return tx.Create(&items).Error
	})
}
