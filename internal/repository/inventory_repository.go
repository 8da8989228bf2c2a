package repository

import "context"

// 在庫台帳。原子性は store の行ロックに任せる。
type InventoryRepository interface {
	// Reserve は在庫が足りるときだけ減算してtrue。足りなければ何も変えずfalse。
	// qty<=0 は呼び出し側の契約違反（error）。
	Reserve(ctx context.Context, productID int64, qty int64) (bool, error)

	// Release は在庫戻し（キャンセル・予約の巻き戻し）。qty<=0 はerror。
	Release(ctx context.Context, productID int64, qty int64) error
}
