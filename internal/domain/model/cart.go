package model

import "time"

// 1顧客につきカートは1つ。明細ごと読み込んで値として扱う。
type Cart struct {
	ID         int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	CustomerID int64      `gorm:"not null;uniqueIndex" json:"customer_id"`
	Items      []CartItem `gorm:"foreignKey:CartID" json:"items"`
	CreatedAt  time.Time  `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// AddItem は同一商品なら数量加算、無ければ明細追加。
func (c *Cart) AddItem(productID int64, productName string, unitPrice int64, qty int64) {
	now := time.Now()

	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items[i].Quantity += qty
			c.Items[i].UpdatedAt = now
			c.UpdatedAt = now
			return
		}
	}

	c.Items = append(c.Items, CartItem{
		CartID:              c.ID,
		ProductID:           productID,
		ProductNameSnapshot: productName,
		UnitPriceSnapshot:   unitPrice,
		Quantity:            qty,
		CreatedAt:           now,
		UpdatedAt:           now,
	})
	c.UpdatedAt = now
}

// UpdateItemQuantity は qty<=0 なら明細削除、qty>0 なら上書き。
// 明細が無ければ false。
func (c *Cart) UpdateItemQuantity(productID int64, qty int64) bool {
	for i := range c.Items {
		if c.Items[i].ProductID != productID {
			continue
		}

		now := time.Now()
		if qty <= 0 {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
		} else {
			c.Items[i].Quantity = qty
			c.Items[i].UpdatedAt = now
		}
		c.UpdatedAt = now
		return true
	}
	return false
}

// RemoveItem は明細削除（無ければ何もしない）。
func (c *Cart) RemoveItem(productID int64) {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			c.UpdatedAt = time.Now()
			return
		}
	}
}

// Clear は明細を空にする（カート自体は残す）。
func (c *Cart) Clear() {
	c.Items = c.Items[:0]
	c.UpdatedAt = time.Now()
}

func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// TotalPrice は明細からの導出値。保存しない。
func (c *Cart) TotalPrice() int64 {
	var total int64
	for _, it := range c.Items {
		total += it.UnitPriceSnapshot * it.Quantity
	}
	return total
}
