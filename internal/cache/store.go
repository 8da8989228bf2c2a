package cache

import (
	"context"
	"time"
)

// Store はベストエフォートのキャッシュ。
// 失敗は実装側でログして握りつぶす。呼び出し側にエラーは返さない。
type Store interface {
	// Get はヒット時にdestへデコードしてtrue
	Get(ctx context.Context, key string, dest any) bool
	Set(ctx context.Context, key string, value any, ttl time.Duration)
	Remove(ctx context.Context, keys ...string)
	RemoveByPrefix(ctx context.Context, prefix string)
}
