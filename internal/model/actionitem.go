package model

import "time"

// ItemStatus はアクションアイテムのかんばん上の状態を表す。
type ItemStatus string

const (
	// StatusTodo は未着手を表す。
	StatusTodo ItemStatus = "todo"
	// StatusInProgress は作業中を表す。
	StatusInProgress ItemStatus = "in_progress"
	// StatusDone は完了を表す。
	StatusDone ItemStatus = "done"
)

// ValidItemStatus は文字列が定義済みステータスかどうかを判定する。
func ValidItemStatus(s string) bool {
	switch ItemStatus(s) {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	default:
		return false
	}
}

// statusOrder はかんばん列の順序。遷移可否の判定に使用する。
var statusOrder = map[ItemStatus]int{
	StatusTodo:       0,
	StatusInProgress: 1,
	StatusDone:       2,
}

// CanTransition は現在のステータスからの遷移が許可されるかを判定する。
// 隣接する列への移動（前後1段階）と同一ステータスへの移動のみ許可する。
// todo→doneのような飛び越しは競合として扱われる。
func CanTransition(from, to ItemStatus) bool {
	fo, ok := statusOrder[from]
	if !ok {
		return false
	}
	to2, ok := statusOrder[to]
	if !ok {
		return false
	}
	diff := fo - to2
	return diff >= -1 && diff <= 1
}

// ActionItem は議事録から抽出・登録されたアクションアイテムを表す。
// UserIDは親Noteの所有者と常に一致する（非正規化）。
type ActionItem struct {
	ID        string
	NoteID    string
	UserID    string
	Title     string
	Assignee  string     // 担当者名（省略可）
	DueDate   *time.Time // 期日（省略可）
	Status    ItemStatus
	Position  int // 同一列内の表示順
	CreatedAt time.Time
	UpdatedAt time.Time
}

// OwnerID は所有者のユーザーIDを返す。nilレシーバに対しては空文字列を返す。
func (a *ActionItem) OwnerID() string {
	if a == nil {
		return ""
	}
	return a.UserID
}
