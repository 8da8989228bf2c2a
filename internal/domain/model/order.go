package model

import (
	"fmt"
	"time"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusCompleted OrderStatus = "COMPLETED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// InvalidTransitionError は終端状態からの遷移を表す。呼び出し側の誤り。
type InvalidTransitionError struct {
	Current OrderStatus
	Target  OrderStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot transition to %s: order is %s", e.Target, e.Current)
}

// StatusとCompletedAt/CancelledAt以外は作成後に変更しない。
type Order struct {
	ID              int64       `gorm:"primaryKey;autoIncrement" json:"id"`
	CustomerID      int64       `gorm:"not null;index" json:"customer_id"`
	ShippingAddress string      `gorm:"type:varchar(500);not null" json:"shipping_address"`
	Note            string      `gorm:"type:varchar(500)" json:"note"`
	Status          OrderStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	TotalPrice      int64       `gorm:"not null" json:"total_price"`
	Items           []OrderItem `gorm:"foreignKey:OrderID" json:"items"`
	CreatedAt       time.Time   `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time   `gorm:"not null;autoUpdateTime" json:"updated_at"`
	CompletedAt     *time.Time  `json:"completed_at,omitempty"`
	CancelledAt     *time.Time  `json:"cancelled_at,omitempty"`
}

// NewOrder はPENDINGの注文を組み立てる。合計は明細から導出。
func NewOrder(customerID int64, shippingAddress string, note string, items []OrderItem, now time.Time) Order {
	var total int64
	for _, it := range items {
		total += it.UnitPriceSnapshot * it.Quantity
	}

	return Order{
		CustomerID:      customerID,
		ShippingAddress: shippingAddress,
		Note:            note,
		Status:          OrderStatusPending,
		TotalPrice:      total,
		Items:           items,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// Complete はPENDINGからのみ。在庫は予約時に確定済みなので触らない。
func (o *Order) Complete(now time.Time) error {
	if o.Status != OrderStatusPending {
		return &InvalidTransitionError{Current: o.Status, Target: OrderStatusCompleted}
	}
	o.Status = OrderStatusCompleted
	o.CompletedAt = &now
	o.UpdatedAt = now
	return nil
}

// Cancel はPENDINGからのみ。在庫戻しは呼び出し側（同一トランザクション）。
func (o *Order) Cancel(now time.Time) error {
	if o.Status != OrderStatusPending {
		return &InvalidTransitionError{Current: o.Status, Target: OrderStatusCancelled}
	}
	o.Status = OrderStatusCancelled
	o.CancelledAt = &now
	o.UpdatedAt = now
	return nil
}
