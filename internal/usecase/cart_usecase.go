package usecase

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/dursunkatar/OrderManagementSystem/internal/cache"
	"github.com/dursunkatar/OrderManagementSystem/internal/domain/model"
	repo "github.com/dursunkatar/OrderManagementSystem/internal/repository"
)

// CartUsecase は /cart の業務ロジック。
// 在庫チェックはここ（呼び出し側）で行い、Cart集約自体は他集約を知らない。
type CartUsecase struct {
	carts    repo.CartRepository
	products repo.ProductRepository
	cache    cache.Store
	log      *slog.Logger
}

func NewCartUsecase(
	carts repo.CartRepository,
	products repo.ProductRepository,
	cacheStore cache.Store,
	log *slog.Logger,
) *CartUsecase {
	return &CartUsecase{
		carts:    carts,
		products: products,
		cache:    cacheStore,
		log:      log,
	}
}

type CartItemResponse struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Quantity  int64  `json:"quantity"`
}

type CartResponse struct {
	CustomerID int64              `json:"customer_id"`
	Items      []CartItemResponse `json:"items"`
	Total      int64              `json:"total"`
}

type AddCartInput struct {
	ProductID int64
	Quantity  int64
}

// GetCart はカート取得（無ければ作って空を返す）。
func (u *CartUsecase) GetCart(ctx context.Context, customerID int64) (CartResponse, error) {
	if customerID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	key := cache.CartKey(customerID)

	var out CartResponse
	if u.cache.Get(ctx, key, &out) {
		return out, nil
	}

	cart, err := u.carts.GetOrCreateByCustomerID(ctx, customerID)
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	out = toCartResponse(cart)
	u.cache.Set(ctx, key, out, cache.TTLCart)
	return out, nil
}

// AddToCart はカートに追加（同一商品は数量加算）。
func (u *CartUsecase) AddToCart(ctx context.Context, customerID int64, in AddCartInput) (CartResponse, error) {
	if customerID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if in.ProductID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid product_id")
	}
	if in.Quantity < 1 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid quantity")
	}

	//商品チェック（公開のみ）
	p, err := u.products.FindByID(ctx, in.ProductID)
	if errors.Is(err, repo.ErrNotFound) {
		return CartResponse{}, NewHTTPError(http.StatusNotFound, "product not found")
	}
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !p.IsActive {
		return CartResponse{}, NewHTTPError(http.StatusNotFound, "product not found")
	}

	cart, err := u.carts.GetOrCreateByCustomerID(ctx, customerID)
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//加算後の数量が現在庫を超えないかだけ見る（予約はしない）
	var existingQty int64
	for _, it := range cart.Items {
		if it.ProductID == in.ProductID {
			existingQty = it.Quantity
			break
		}
	}
	if existingQty+in.Quantity > p.Stock {
		return CartResponse{}, NewHTTPError(http.StatusConflict, "stock exceeded")
	}

	cart.AddItem(p.ID, p.Name, p.Price, in.Quantity)

	if err := u.carts.Save(ctx, cart); err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	u.cache.Remove(ctx, cache.CartKey(customerID))
	return toCartResponse(cart), nil
}

// UpdateItemQuantity は qty<=0 なら明細削除、qty>0 なら上書き。
func (u *CartUsecase) UpdateItemQuantity(ctx context.Context, customerID int64, productID int64, qty int64) (CartResponse, error) {
	if customerID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if productID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid product_id")
	}

	cart, err := u.carts.FindByCustomerID(ctx, customerID)
	if errors.Is(err, repo.ErrNotFound) {
		return CartResponse{}, NewHTTPError(http.StatusNotFound, "cart not found")
	}
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if qty > 0 {
		p, err := u.products.FindByID(ctx, productID)
		if errors.Is(err, repo.ErrNotFound) {
			return CartResponse{}, NewHTTPError(http.StatusNotFound, "product not found")
		}
		if err != nil {
			return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if qty > p.Stock {
			return CartResponse{}, NewHTTPError(http.StatusConflict, "stock exceeded")
		}
	}

	if !cart.UpdateItemQuantity(productID, qty) {
		return CartResponse{}, NewHTTPError(http.StatusNotFound, "item not in cart")
	}

	if err := u.carts.Save(ctx, cart); err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	u.cache.Remove(ctx, cache.CartKey(customerID))
	return toCartResponse(cart), nil
}

// RemoveItem は明細削除（無ければ何もしないで現状を返す）。
func (u *CartUsecase) RemoveItem(ctx context.Context, customerID int64, productID int64) (CartResponse, error) {
	if customerID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	cart, err := u.carts.FindByCustomerID(ctx, customerID)
	if errors.Is(err, repo.ErrNotFound) {
		return CartResponse{}, NewHTTPError(http.StatusNotFound, "cart not found")
	}
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	cart.RemoveItem(productID)

	if err := u.carts.Save(ctx, cart); err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	u.cache.Remove(ctx, cache.CartKey(customerID))
	return toCartResponse(cart), nil
}

// ClearCart は明細を空にする（カート自体は残す）。
func (u *CartUsecase) ClearCart(ctx context.Context, customerID int64) error {
	if customerID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	cart, err := u.carts.FindByCustomerID(ctx, customerID)
	if errors.Is(err, repo.ErrNotFound) {
		//消すものが無いだけなので成功扱い
		return nil
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	cart.Clear()

	if err := u.carts.Save(ctx, cart); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	u.cache.Remove(ctx, cache.CartKey(customerID))
	return nil
}

func toCartResponse(cart model.Cart) CartResponse {
	items := make([]CartItemResponse, 0, len(cart.Items))
	for _, it := range cart.Items {
		items = append(items, CartItemResponse{
			ProductID: it.ProductID,
			Name:      it.ProductNameSnapshot,
			Price:     it.UnitPriceSnapshot,
			Quantity:  it.Quantity,
		})
	}

	return CartResponse{
		CustomerID: cart.CustomerID,
		Items:      items,
		Total:      cart.TotalPrice(),
	}
}
