package events

import "context"

// Publisher はDBコミット後にだけ呼ぶ。失敗しても注文は巻き戻さない。
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}
