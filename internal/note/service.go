// Package note は議事録に関するビジネスロジックを提供する。
package note

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hitoshi/minuteman/internal/authz"
	"github.com/hitoshi/minuteman/internal/model"
	"github.com/hitoshi/minuteman/internal/repository"
	"github.com/hitoshi/minuteman/internal/security"
)

// Service は議事録のCRUDを提供する。
// IDを指定するすべての操作は所有権ガードを通過する。
// 存在しない議事録と他ユーザーの議事録は、どちらも同一のNOT_FOUNDになる。
type Service struct {
	notes     repository.NoteRepository
	sanitizer security.ContentSanitizerService
	importer  *Importer
}

// NewService はServiceを生成する。
// importerはnilでもよく、その場合ImportFromURLは利用できない。
func NewService(notes repository.NoteRepository, sanitizer security.ContentSanitizerService, importer *Importer) *Service {
	return &Service{
		notes:     notes,
		sanitizer: sanitizer,
		importer:  importer,
	}
}

// Create は議事録を作成する。本文はサニタイズして保存される。
func (s *Service) Create(ctx context.Context, userID, title, body string) (*model.Note, error) {
	now := time.Now()
	note := &model.Note{
		ID:        uuid.New().String(),
		UserID:    userID,
		Title:     title,
		Body:      s.sanitizer.Sanitize(body),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.notes.Create(ctx, note); err != nil {
		return nil, fmt.Errorf("failed to create note: %w", err)
	}

	return note, nil
}

// Get は議事録を取得する。
func (s *Service) Get(ctx context.Context, userID, noteID string) (*model.Note, error) {
	note, err := s.notes.FindByID(ctx, noteID)
	if err != nil {
		return nil, fmt.Errorf("failed to find note: %w", err)
	}
	if err := authz.RequireOwner(userID, note); err != nil {
		return nil, err
	}
	return note, nil
}

// List はユーザーの議事録一覧を作成日時降順で返す。
func (s *Service) List(ctx context.Context, userID string) ([]*model.Note, error) {
	notes, err := s.notes.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	return notes, nil
}

// Update は議事録のタイトルと本文を更新する。
// nilのフィールドは変更しない部分更新を行う。
func (s *Service) Update(ctx context.Context, userID, noteID string, title, body *string) (*model.Note, error) {
	note, err := s.Get(ctx, userID, noteID)
	if err != nil {
		return nil, err
	}

	if title != nil {
		note.Title = *title
	}
	if body != nil {
		note.Body = s.sanitizer.Sanitize(*body)
	}
	note.UpdatedAt = time.Now()

	if err := s.notes.Update(ctx, note); err != nil {
		return nil, fmt.Errorf("failed to update note: %w", err)
	}

	return note, nil
}

// Delete は議事録を削除する。関連するアクションアイテムもCASCADE削除される。
func (s *Service) Delete(ctx context.Context, userID, noteID string) error {
	if _, err := s.Get(ctx, userID, noteID); err != nil {
		return err
	}

	if err := s.notes.DeleteByID(ctx, noteID); err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}

	return nil
}

// ImportFromURL は外部ページを取得して議事録として保存する。
// 取得はSSRFガード付きクライアントで行い、本文はサニタイズされる。
func (s *Service) ImportFromURL(ctx context.Context, userID, rawURL string) (*model.Note, error) {
	imported, err := s.importer.Fetch(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	note := &model.Note{
		ID:        uuid.New().String(),
		UserID:    userID,
		Title:     imported.Title,
		Body:      s.sanitizer.Sanitize(imported.Body),
		SourceURL: rawURL,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.notes.Create(ctx, note); err != nil {
		return nil, fmt.Errorf("failed to create imported note: %w", err)
	}

	return note, nil
}
