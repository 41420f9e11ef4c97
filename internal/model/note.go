package model

import "time"

// Note は議事録を表す。
// Bodyはサニタイズ済みHTMLとして保存される。
type Note struct {
	ID        string
	UserID    string
	Title     string
	Body      string
	SourceURL string // URLインポート由来の場合のみ設定される
	CreatedAt time.Time
	UpdatedAt time.Time
}

// OwnerID は所有者のユーザーIDを返す。
// nilレシーバに対しては空文字列を返し、authzパッケージが
// 「存在しない」として扱えるようにする。
func (n *Note) OwnerID() string {
	if n == nil {
		return ""
	}
	return n.UserID
}
