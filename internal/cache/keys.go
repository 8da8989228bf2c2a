package cache

import (
	"fmt"
	"time"
)

// キーは引数から導出する純粋関数。共有フォーマット定数は持たない。

func OrderKey(orderID int64) string {
	return fmt.Sprintf("order:%d", orderID)
}

func CustomerOrdersKey(customerID int64, page int, size int) string {
	return fmt.Sprintf("customer:%d:orders:page:%d:size:%d", customerID, page, size)
}

// 注文一覧キャッシュをページごとまとめて消すためのprefix
func CustomerOrdersPrefix(customerID int64) string {
	return fmt.Sprintf("customer:%d:orders:", customerID)
}

func CartKey(customerID int64) string {
	return fmt.Sprintf("cart:%d", customerID)
}

var (
	TTLOrder     = time.Hour
	TTLOrderList = 15 * time.Minute
	TTLCart      = 30 * time.Minute
)
