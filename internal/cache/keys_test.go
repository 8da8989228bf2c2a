package cache_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dursunkatar/OrderManagementSystem/internal/cache"
)

func TestKeys(t *testing.T) {
	assert.Equal(t, "order:55", cache.OrderKey(55))
	assert.Equal(t, "cart:7", cache.CartKey(7))
	assert.Equal(t, "customer:7:orders:page:2:size:10", cache.CustomerOrdersKey(7, 2, 10))
}

// 一覧キーはプレフィックス一括破棄で消える構造になっていること
func TestCustomerOrdersPrefix_CoversListKeys(t *testing.T) {
	prefix := cache.CustomerOrdersPrefix(7)

	assert.True(t, strings.HasPrefix(cache.CustomerOrdersKey(7, 1, 10), prefix))
	assert.True(t, strings.HasPrefix(cache.CustomerOrdersKey(7, 3, 50), prefix))

	//他の顧客のキーには掛からない
	assert.False(t, strings.HasPrefix(cache.CustomerOrdersKey(8, 1, 10), prefix))
	assert.False(t, strings.HasPrefix(cache.CartKey(7), prefix))
	assert.False(t, strings.HasPrefix(cache.OrderKey(7), prefix))
}
