// Package authz はリソース所有権の検証を提供する。
//
// 認可失敗と「存在しない」は意図的に同一のNOT_FOUNDに畳み込まれる。
// 他ユーザーのリソースが存在するという事実自体を非所有者に観測させない
// ためであり、リソース列挙攻撃への耐性を優先して403の診断精度を捨てている。
// この畳み込みをFORBIDDENに「改善」してはならない。
package authz

import "github.com/hitoshi/minuteman/internal/model"

// Owned は所有者を持つリソースのインターフェース。
// 実装はnilレシーバに対して空文字列を返すこと。これにより
// 型付きnilポインタを渡しても「存在しない」として扱われる。
type Owned interface {
	OwnerID() string
}

// RequireOwner はリソースの存在と所有権を同時に検証する。
//   - リソースが存在しない場合         → NOT_FOUND
//   - 他ユーザーのリソースである場合   → NOT_FOUND（FORBIDDENではない）
//   - 要求者自身のリソースである場合   → nil
//
// FORBIDDENは所有権と無関係な権限チェック（ロール等）にのみ使用する。
func RequireOwner(userID string, resource Owned) error {
	if resource == nil {
		return model.NewNotFoundError()
	}

	ownerID := resource.OwnerID()
	if ownerID == "" || ownerID != userID {
		return model.NewNotFoundError()
	}

	return nil
}
