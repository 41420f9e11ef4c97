// Package model はドメインモデルを定義する。
package model

import "time"

// User はサービス利用ユーザーを表す。
// 初回のフェデレーテッドログイン時に作成される。IDは不変。
type User struct {
	ID        string
	Email     string
	Name      string
	AvatarURL string // IdPのプロフィール画像URL（省略可）
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Identity は外部IdPとの紐付け情報を表す。
// 将来的に複数のIdP（Google, GitHub等）に対応可能な構造。
type Identity struct {
	ID             string
	UserID         string
	Provider       string
	ProviderUserID string
	CreatedAt      time.Time
}

// Session はユーザーのログインセッションを表す。
// TokenHashには提示トークンのSHA-256ハッシュのみを保持し、
// 生のトークンは発行時に一度だけ呼び出し元へ返され、永続化されない。
// セッションは now < ExpiresAt かつ未失効（= レコードが存在する）の間のみ有効。
type Session struct {
	ID        string
	UserID    string
	TokenHash string
	ExpiresAt time.Time
	CreatedAt time.Time
}
