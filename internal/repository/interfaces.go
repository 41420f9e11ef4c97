// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/hitoshi/minuteman/internal/model"
)

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.User, error)

	// CreateWithIdentity はユーザーとidentityを同一トランザクションで作成する。
	CreateWithIdentity(ctx context.Context, user *model.User, identity *model.Identity) error

	// DeleteByID は指定IDのユーザーを削除する。
	// 関連するidentities、sessions、notes、action_itemsはCASCADE削除される。
	DeleteByID(ctx context.Context, id string) error
}

// IdentityRepository は外部IdP紐付け情報の永続化インターフェース。
type IdentityRepository interface {
	// FindByProviderAndProviderUserID はproviderとprovider_user_idでidentityを検索する。
	// 見つからない場合はnilを返す。
	FindByProviderAndProviderUserID(ctx context.Context, provider, providerUserID string) (*model.Identity, error)
}

// SessionRepository はセッションデータの永続化インターフェース。
// 生トークンは一切受け取らず、ハッシュのみを扱う。
type SessionRepository interface {
	// Create はセッションを作成する。
	Create(ctx context.Context, session *model.Session) error
	// FindByTokenHash はトークンハッシュで有効なセッションを検索する。
	// 期限切れの場合は未検出と同様にnilを返し、両者を区別しない。
	FindByTokenHash(ctx context.Context, tokenHash string) (*model.Session, error)
	// DeleteByID は指定IDのセッションを削除する。対象が存在しなくてもエラーにしない（冪等）。
	DeleteByID(ctx context.Context, id string) error
	// DeleteByUserID は指定ユーザーの全セッションを削除する。
	DeleteByUserID(ctx context.Context, userID string) error
	// DeleteExpired は期限切れセッションを削除し、削除件数を返す。
	DeleteExpired(ctx context.Context) (int64, error)
}

// NoteRepository は議事録データの永続化インターフェース。
type NoteRepository interface {
	// FindByID は指定IDの議事録を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Note, error)
	// ListByUserID はユーザーの議事録一覧を作成日時降順で返す。
	ListByUserID(ctx context.Context, userID string) ([]*model.Note, error)
	// Create は議事録を作成する。
	Create(ctx context.Context, note *model.Note) error
	// Update は議事録のタイトルと本文を更新する。
	Update(ctx context.Context, note *model.Note) error
	// DeleteByID は指定IDの議事録を削除する。関連するaction_itemsはCASCADE削除される。
	DeleteByID(ctx context.Context, id string) error
}

// ActionItemRepository はアクションアイテムの永続化インターフェース。
type ActionItemRepository interface {
	// FindByID は指定IDのアクションアイテムを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.ActionItem, error)
	// ListByNoteID は議事録のアクションアイテム一覧をposition昇順で返す。
	ListByNoteID(ctx context.Context, noteID string) ([]*model.ActionItem, error)
	// ListByUserID はユーザーのアクションアイテム一覧を返す。
	// statusが空でない場合は該当ステータスのみに絞り込む。
	ListByUserID(ctx context.Context, userID string, status model.ItemStatus) ([]*model.ActionItem, error)
	// Create はアクションアイテムを作成する。
	Create(ctx context.Context, item *model.ActionItem) error
	// CreateBatch は複数のアクションアイテムを同一トランザクションで作成する。
	CreateBatch(ctx context.Context, items []*model.ActionItem) error
	// Update はアクションアイテムを更新する。
	Update(ctx context.Context, item *model.ActionItem) error
	// DeleteByID は指定IDのアクションアイテムを削除する。
	DeleteByID(ctx context.Context, id string) error
}
