package model

import "time"

// カートの明細
// 追加時点の商品名と価格を必ず保存。
type CartItem struct {
	ID                  int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	CartID              int64     `gorm:"not null;index" json:"cart_id"`
	ProductID           int64     `gorm:"not null;index" json:"product_id"`
	ProductNameSnapshot string    `gorm:"type:varchar(255);not null" json:"product_name_snapshot"`
	UnitPriceSnapshot   int64     `gorm:"not null;column:unit_price_snapshot" json:"unit_price_snapshot"`
	Quantity            int64     `gorm:"not null" json:"quantity"`
	CreatedAt           time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
