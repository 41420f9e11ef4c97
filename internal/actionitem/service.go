// Package actionitem はアクションアイテムに関するビジネスロジックを提供する。
package actionitem

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hitoshi/minuteman/internal/authz"
	"github.com/hitoshi/minuteman/internal/model"
	"github.com/hitoshi/minuteman/internal/repository"
)

// Service はアクションアイテムのCRUDとかんばん状態遷移を提供する。
// IDを指定するすべての操作は所有権ガードを通過する。
type Service struct {
	items repository.ActionItemRepository
	notes repository.NoteRepository
}

// NewService はServiceを生成する。
func NewService(items repository.ActionItemRepository, notes repository.NoteRepository) *Service {
	return &Service{
		items: items,
		notes: notes,
	}
}

// CreateInput はアクションアイテム作成の入力。
type CreateInput struct {
	Title    string
	Assignee string
	DueDate  *time.Time
}

// Create は議事録にアクションアイテムを追加する。
// 親議事録の所有権を検証し、アイテムには所有者を非正規化して保存する。
func (s *Service) Create(ctx context.Context, userID, noteID string, input CreateInput) (*model.ActionItem, error) {
	note, err := s.notes.FindByID(ctx, noteID)
	if err != nil {
		return nil, fmt.Errorf("failed to find note: %w", err)
	}
	if err := authz.RequireOwner(userID, note); err != nil {
		return nil, err
	}

	now := time.Now()
	item := &model.ActionItem{
		ID:        uuid.New().String(),
		NoteID:    noteID,
		UserID:    userID,
		Title:     input.Title,
		Assignee:  input.Assignee,
		DueDate:   input.DueDate,
		Status:    model.StatusTodo,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.items.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to create action item: %w", err)
	}

	return item, nil
}

// Get はアクションアイテムを取得する。
func (s *Service) Get(ctx context.Context, userID, itemID string) (*model.ActionItem, error) {
	item, err := s.items.FindByID(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to find action item: %w", err)
	}
	if err := authz.RequireOwner(userID, item); err != nil {
		return nil, err
	}
	return item, nil
}

// ListByNote は議事録のアクションアイテム一覧を返す。
// 親議事録の所有権を検証する。
func (s *Service) ListByNote(ctx context.Context, userID, noteID string) ([]*model.ActionItem, error) {
	note, err := s.notes.FindByID(ctx, noteID)
	if err != nil {
		return nil, fmt.Errorf("failed to find note: %w", err)
	}
	if err := authz.RequireOwner(userID, note); err != nil {
		return nil, err
	}

	items, err := s.items.ListByNoteID(ctx, noteID)
	if err != nil {
		return nil, fmt.Errorf("failed to list action items: %w", err)
	}
	return items, nil
}

// ListByUser はユーザーのアクションアイテム一覧を返す。
// statusが空でない場合は該当ステータスのみに絞り込む。
// 未定義のステータスはBAD_REQUESTとなる。
func (s *Service) ListByUser(ctx context.Context, userID, status string) ([]*model.ActionItem, error) {
	if status != "" && !model.ValidItemStatus(status) {
		return nil, model.NewBadRequestError(map[string]string{
			"status": "must be one of: todo, in_progress, done",
		})
	}

	items, err := s.items.ListByUserID(ctx, userID, model.ItemStatus(status))
	if err != nil {
		return nil, fmt.Errorf("failed to list action items: %w", err)
	}
	return items, nil
}

// UpdateInput はアクションアイテム更新の入力。nilのフィールドは変更しない。
type UpdateInput struct {
	Title    *string
	Assignee *string
	DueDate  *time.Time
	Position *int
}

// Update はアクションアイテムのタイトル・担当者・期日・表示順を更新する。
// ステータスの変更はUpdateStatusでのみ行う。
func (s *Service) Update(ctx context.Context, userID, itemID string, input UpdateInput) (*model.ActionItem, error) {
	item, err := s.Get(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		item.Title = *input.Title
	}
	if input.Assignee != nil {
		item.Assignee = *input.Assignee
	}
	if input.DueDate != nil {
		item.DueDate = input.DueDate
	}
	if input.Position != nil {
		item.Position = *input.Position
	}
	item.UpdatedAt = time.Now()

	if err := s.items.Update(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to update action item: %w", err)
	}

	return item, nil
}

// UpdateStatus はアクションアイテムをかんばん上で移動する。
// 許可されない遷移（todo→doneのような飛び越し）はCONFLICTとなる。
// 同一ステータスへの移動は何もしない。
func (s *Service) UpdateStatus(ctx context.Context, userID, itemID, status string) (*model.ActionItem, error) {
	if !model.ValidItemStatus(status) {
		return nil, model.NewBadRequestError(map[string]string{
			"status": "must be one of: todo, in_progress, done",
		})
	}

	item, err := s.Get(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}

	to := model.ItemStatus(status)
	if item.Status == to {
		return item, nil
	}

	if !model.CanTransition(item.Status, to) {
		return nil, model.NewConflictError(
			fmt.Sprintf("cannot move item from %s to %s", item.Status, to),
		)
	}

	item.Status = to
	item.UpdatedAt = time.Now()

	if err := s.items.Update(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to update action item status: %w", err)
	}

	return item, nil
}

// Delete はアクションアイテムを削除する。
func (s *Service) Delete(ctx context.Context, userID, itemID string) error {
	if _, err := s.Get(ctx, userID, itemID); err != nil {
		return err
	}

	if err := s.items.DeleteByID(ctx, itemID); err != nil {
		return fmt.Errorf("failed to delete action item: %w", err)
	}

	return nil
}
