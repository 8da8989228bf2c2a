package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dursunkatar/OrderManagementSystem/internal/cache"
	"github.com/dursunkatar/OrderManagementSystem/internal/domain/model"
	"github.com/dursunkatar/OrderManagementSystem/internal/events"
	repo "github.com/dursunkatar/OrderManagementSystem/internal/repository"
)

// OrderUsecase はカート→注文のワークフローと状態遷移を持つ。
// 書き込みのトランザクション境界はここで閉じる。
type OrderUsecase struct {
	tx        repo.TransactionManager
	customers repo.CustomerRepository
	cache     cache.Store
	publisher events.Publisher
	log       *slog.Logger
}

func NewOrderUsecase(
	tx repo.TransactionManager,
	customers repo.CustomerRepository,
	cacheStore cache.Store,
	publisher events.Publisher,
	log *slog.Logger,
) *OrderUsecase {
	return &OrderUsecase{
		tx:        tx,
		customers: customers,
		cache:     cacheStore,
		publisher: publisher,
		log:       log,
	}
}

type CheckoutInput struct {
	ShippingAddress string
	PaymentMethod   string // ここでは中身を解釈しない
	Note            string
}

type OrderItemOutput struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Quantity  int64  `json:"quantity"`
}

type OrderOutput struct {
	ID              int64             `json:"id"`
	CustomerID      int64             `json:"customer_id"`
	Status          string            `json:"status"`
	ShippingAddress string            `json:"shipping_address"`
	Note            string            `json:"note,omitempty"`
	TotalPrice      int64             `json:"total_price"`
	CreatedAt       time.Time         `json:"created_at"`
	CompletedAt     *time.Time        `json:"completed_at,omitempty"`
	CancelledAt     *time.Time        `json:"cancelled_at,omitempty"`
	Items           []OrderItemOutput `json:"items"`
}

type PagedOrders struct {
	Items      []OrderOutput `json:"items"`
	TotalCount int64         `json:"total_count"`
	Page       int           `json:"page"`
	PageSize   int           `json:"page_size"`
	TotalPages int           `json:"total_pages"`
}

// Checkout はカートから注文を作る。
// 前提チェック→予約→注文作成→カートクリアまでを1トランザクションで確定し、
// コミット後にキャッシュ破棄とイベント発行（どちらもベストエフォート）。
func (u *OrderUsecase) Checkout(ctx context.Context, customerID int64, in CheckoutInput) (OrderOutput, error) {
	if customerID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if strings.TrimSpace(in.ShippingAddress) == "" {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "shipping address is required")
	}

	//顧客の存在確認
	if _, err := u.customers.FindByID(ctx, customerID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return OrderOutput{}, NewHTTPError(http.StatusNotFound, "customer not found")
		}
		return OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		cart, err := r.Carts().FindByCustomerID(ctx, customerID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusBadRequest, "cart is empty")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if cart.IsEmpty() {
			return NewHTTPError(http.StatusBadRequest, "cart is empty")
		}

		//まず全明細の商品存在を確認してから予約に入る
		products := make(map[int64]model.Product, len(cart.Items))
		for _, ci := range cart.Items {
			p, err := r.Products().FindByID(ctx, ci.ProductID)
			if errors.Is(err, repo.ErrNotFound) || (err == nil && !p.IsActive) {
				return NewHTTPError(http.StatusNotFound, fmt.Sprintf("product not found: %d", ci.ProductID))
			}
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			products[ci.ProductID] = p
		}

		//予約。途中で足りなければ、成功済みの予約を戻してから返す。
		type reservation struct {
			productID int64
			qty       int64
		}
		var reserved []reservation

		releaseReserved := func() {
			for _, rv := range reserved {
				if err := r.Inventory().Release(ctx, rv.productID, rv.qty); err != nil {
					u.log.Error("compensating release failed", "product_id", rv.productID, "qty", rv.qty, "error", err)
				}
			}
		}

		now := time.Now()
		orderItems := make([]model.OrderItem, 0, len(cart.Items))

		for _, ci := range cart.Items {
			p := products[ci.ProductID]

			ok, err := r.Inventory().Reserve(ctx, p.ID, ci.Quantity)
			if err != nil {
				releaseReserved()
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			if !ok {
				releaseReserved()
				return NewHTTPError(http.StatusConflict, fmt.Sprintf("insufficient stock: %s", p.Name))
			}
			reserved = append(reserved, reservation{productID: p.ID, qty: ci.Quantity})

			//スナップショットは確定時点の商品名・価格
			orderItems = append(orderItems, model.OrderItem{
				ProductID:           p.ID,
				ProductNameSnapshot: p.Name,
				UnitPriceSnapshot:   p.Price,
				Quantity:            ci.Quantity,
				CreatedAt:           now,
			})
		}

		order := model.NewOrder(customerID, in.ShippingAddress, in.Note, orderItems, now)

		orderID, err := r.Orders().Create(ctx, order)
		if err != nil {
			releaseReserved()
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		order.ID = orderID

		//カートをクリアして同じトランザクションで保存
		cart.Clear()
		if err := r.Carts().Save(ctx, cart); err != nil {
			releaseReserved()
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out = toOrderOutput(order)
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}

	//コミット後のみ。失敗してもリクエストは成功のまま。
	u.cache.Remove(ctx, cache.CartKey(customerID))
	u.cache.RemoveByPrefix(ctx, cache.CustomerOrdersPrefix(customerID))

	u.publishEvent(ctx, events.OrderCreatedEvent{
		EventID:     uuid.NewString(),
		OrderID:     out.ID,
		CustomerID:  out.CustomerID,
		TotalAmount: out.TotalPrice,
		CreatedAt:   out.CreatedAt,
	})

	u.log.Info("order created", "order_id", out.ID, "customer_id", customerID, "total", out.TotalPrice)
	return out, nil
}

// CompleteOrder はPENDING→COMPLETED。在庫は触らない。
func (u *OrderUsecase) CompleteOrder(ctx context.Context, orderID int64) (OrderOutput, error) {
	return u.transition(ctx, orderID, func(o *model.Order, now time.Time) error {
		return o.Complete(now)
	}, nil)
}

// CancelOrder はPENDING→CANCELLED。在庫戻しとstatus更新は同一トランザクション。
func (u *OrderUsecase) CancelOrder(ctx context.Context, orderID int64) (OrderOutput, error) {
	return u.transition(ctx, orderID, func(o *model.Order, now time.Time) error {
		return o.Cancel(now)
	}, func(r repo.TxRepos, o model.Order) error {
		for _, it := range o.Items {
			if err := r.Inventory().Release(ctx, it.ProductID, it.Quantity); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
		}
		return nil
	})
}

// transition は複数遷移で共通の 取得→遷移→保存→キャッシュ破棄→イベント の並びをまとめる
func (u *OrderUsecase) transition(
	ctx context.Context,
	orderID int64,
	apply func(o *model.Order, now time.Time) error,
	sideEffect func(r repo.TxRepos, o model.Order) error,
) (OrderOutput, error) {
	if orderID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var out OrderOutput
	var oldStatus, newStatus string
	var changedAt time.Time

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "order not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		oldStatus = string(o.Status)

		now := time.Now()
		if err := apply(&o, now); err != nil {
			var ite *model.InvalidTransitionError
			if errors.As(err, &ite) {
				return NewHTTPError(http.StatusConflict, ite.Error())
			}
			return err
		}

		if sideEffect != nil {
			if err := sideEffect(r, o); err != nil {
				return err
			}
		}

		if err := r.Orders().UpdateStatus(ctx, o); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		newStatus = string(o.Status)
		changedAt = now
		out = toOrderOutput(o)
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}

	//書き込み後は単品キーを必ず消す（一覧はTTLに任せる）
	u.cache.Remove(ctx, cache.OrderKey(orderID))

	u.publishEvent(ctx, events.OrderStatusChangedEvent{
		EventID:   uuid.NewString(),
		OrderID:   orderID,
		OldStatus: oldStatus,
		NewStatus: newStatus,
		ChangedAt: changedAt,
	})

	u.log.Info("order status changed", "order_id", orderID, "old", oldStatus, "new", newStatus)
	return out, nil
}

// GetOrder はキャッシュ優先、missならDBから読んで埋める。
func (u *OrderUsecase) GetOrder(ctx context.Context, orderID int64) (OrderOutput, error) {
	if orderID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	key := cache.OrderKey(orderID)

	var out OrderOutput
	if u.cache.Get(ctx, key, &out) {
		return out, nil
	}

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "order not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out = toOrderOutput(o)
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}

	u.cache.Set(ctx, key, out, cache.TTLOrder)
	return out, nil
}

// ListCustomerOrders は顧客の注文ページ。一覧キャッシュは短いTTLで多少の遅れを許す。
func (u *OrderUsecase) ListCustomerOrders(ctx context.Context, customerID int64, page int, pageSize int) (PagedOrders, error) {
	if customerID <= 0 {
		return PagedOrders{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}

	key := cache.CustomerOrdersKey(customerID, page, pageSize)

	var out PagedOrders
	if u.cache.Get(ctx, key, &out) {
		return out, nil
	}

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, total, err := r.Orders().ListByCustomerID(ctx, customerID, page, pageSize)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		items := make([]OrderOutput, 0, len(orders))
		for _, o := range orders {
			items = append(items, toOrderOutput(o))
		}

		totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
		out = PagedOrders{
			Items:      items,
			TotalCount: total,
			Page:       page,
			PageSize:   pageSize,
			TotalPages: totalPages,
		}
		return nil
	})

	if err != nil {
		return PagedOrders{}, err
	}

	u.cache.Set(ctx, key, out, cache.TTLOrderList)
	return out, nil
}

func (u *OrderUsecase) publishEvent(ctx context.Context, ev events.Event) {
	if err := u.publisher.Publish(ctx, ev); err != nil {
		//注文は確定済みなので発行失敗は警告どまり
		u.log.Warn("event publish failed", "event", ev.Name(), "error", err)
	}
}

func toOrderOutput(o model.Order) OrderOutput {
	outItems := make([]OrderItemOutput, 0, len(o.Items))
	for _, it := range o.Items {
		outItems = append(outItems, OrderItemOutput{
			ProductID: it.ProductID,
			Name:      it.ProductNameSnapshot,
			Price:     it.UnitPriceSnapshot,
			Quantity:  it.Quantity,
		})
	}

	return OrderOutput{
		ID:              o.ID,
		CustomerID:      o.CustomerID,
		Status:          string(o.Status),
		ShippingAddress: o.ShippingAddress,
		Note:            o.Note,
		TotalPrice:      o.TotalPrice,
		CreatedAt:       o.CreatedAt,
		CompletedAt:     o.CompletedAt,
		CancelledAt:     o.CancelledAt,
		Items:           outItems,
	}
}
