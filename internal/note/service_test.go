package note

import (
	"context"
	"strings"
	"testing"

	"github.com/hitoshi/minuteman/internal/model"
	"github.com/hitoshi/minuteman/internal/repository"
	"github.com/hitoshi/minuteman/internal/security"
)

// --- モック定義 ---

type mockNoteRepo struct {
	findByIDFn     func(ctx context.Context, id string) (*model.Note, error)
	listByUserIDFn func(ctx context.Context, userID string) ([]*model.Note, error)
	createFn       func(ctx context.Context, note *model.Note) error
	updateFn       func(ctx context.Context, note *model.Note) error
	deleteByIDFn   func(ctx context.Context, id string) error
}

func (m *mockNoteRepo) FindByID(ctx context.Context, id string) (*model.Note, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockNoteRepo) ListByUserID(ctx context.Context, userID string) ([]*model.Note, error) {
	if m.listByUserIDFn != nil {
		return m.listByUserIDFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockNoteRepo) Create(ctx context.Context, note *model.Note) error {
	if m.createFn != nil {
		return m.createFn(ctx, note)
	}
	return nil
}

func (m *mockNoteRepo) Update(ctx context.Context, note *model.Note) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, note)
	}
	return nil
}

func (m *mockNoteRepo) DeleteByID(ctx context.Context, id string) error {
	if m.deleteByIDFn != nil {
		return m.deleteByIDFn(ctx, id)
	}
	return nil
}

var _ repository.NoteRepository = (*mockNoteRepo)(nil)

// --- テスト ---

func TestCreate_SanitizesBody(t *testing.T) {
	var saved *model.Note
	repo := &mockNoteRepo{
		createFn: func(_ context.Context, n *model.Note) error {
			saved = n
			return nil
		},
	}
	svc := NewService(repo, security.NewContentSanitizer(), nil)

	note, err := svc.Create(context.Background(), "user-1", "定例会議",
		`<p>議事録</p><script>alert("x")</script>`)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if strings.Contains(saved.Body, "<script>") {
		t.Errorf("script tag should be stripped, got %q", saved.Body)
	}
	if !strings.Contains(saved.Body, "<p>議事録</p>") {
		t.Errorf("allowed tags should survive, got %q", saved.Body)
	}
	if note.UserID != "user-1" {
		t.Errorf("UserID = %q", note.UserID)
	}
	if note.ID == "" {
		t.Error("ID should be assigned")
	}
}

func TestGet_OwnNote(t *testing.T) {
	repo := &mockNoteRepo{
		findByIDFn: func(_ context.Context, id string) (*model.Note, error) {
			return &model.Note{ID: id, UserID: "user-1", Title: "定例会議"}, nil
		},
	}
	svc := NewService(repo, security.NewContentSanitizer(), nil)

	note, err := svc.Get(context.Background(), "user-1", "note-1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if note.Title != "定例会議" {
		t.Errorf("Title = %q", note.Title)
	}
}

// 他ユーザーの議事録と存在しない議事録が同一のNOT_FOUNDに
// なることを確認する。
func TestGet_ForeignAndMissingAreIdenticalNotFound(t *testing.T) {
	repo := &mockNoteRepo{
		findByIDFn: func(_ context.Context, id string) (*model.Note, error) {
			if id == "foreign-note" {
				return &model.Note{ID: id, UserID: "user-2"}, nil
			}
			return nil, nil
		},
	}
	svc := NewService(repo, security.NewContentSanitizer(), nil)

	_, foreignErr := svc.Get(context.Background(), "user-1", "foreign-note")
	_, missingErr := svc.Get(context.Background(), "user-1", "no-such-note")

	fe, ok := model.AsAPIError(foreignErr)
	if !ok || fe.Code != model.CodeNotFound {
		t.Fatalf("foreign note should be NOT_FOUND, got %v", foreignErr)
	}
	me, ok := model.AsAPIError(missingErr)
	if !ok || me.Code != model.CodeNotFound {
		t.Fatalf("missing note should be NOT_FOUND, got %v", missingErr)
	}
	if fe.Message != me.Message || fe.StatusCode != me.StatusCode {
		t.Error("foreign and missing must be indistinguishable")
	}
}

func TestUpdate_PartialUpdate(t *testing.T) {
	repo := &mockNoteRepo{
		findByIDFn: func(_ context.Context, id string) (*model.Note, error) {
			return &model.Note{ID: id, UserID: "user-1", Title: "旧タイトル", Body: "<p>旧本文</p>"}, nil
		},
	}
	svc := NewService(repo, security.NewContentSanitizer(), nil)

	newTitle := "新タイトル"
	note, err := svc.Update(context.Background(), "user-1", "note-1", &newTitle, nil)
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	if note.Title != "新タイトル" {
		t.Errorf("Title = %q", note.Title)
	}
	if note.Body != "<p>旧本文</p>" {
		t.Errorf("nil body should not change, got %q", note.Body)
	}
}

func TestUpdate_ForeignNoteIsNotFound(t *testing.T) {
	repo := &mockNoteRepo{
		findByIDFn: func(_ context.Context, id string) (*model.Note, error) {
			return &model.Note{ID: id, UserID: "user-2"}, nil
		},
		updateFn: func(_ context.Context, _ *model.Note) error {
			t.Error("foreign note must not be updated")
			return nil
		},
	}
	svc := NewService(repo, security.NewContentSanitizer(), nil)

	title := "x"
	_, err := svc.Update(context.Background(), "user-1", "note-1", &title, nil)
	apiErr, ok := model.AsAPIError(err)
	if !ok || apiErr.Code != model.CodeNotFound {
		t.Errorf("expected NOT_FOUND, got %v", err)
	}
}

func TestDelete_ForeignNoteIsNotFound(t *testing.T) {
	repo := &mockNoteRepo{
		findByIDFn: func(_ context.Context, id string) (*model.Note, error) {
			return &model.Note{ID: id, UserID: "user-2"}, nil
		},
		deleteByIDFn: func(_ context.Context, _ string) error {
			t.Error("foreign note must not be deleted")
			return nil
		},
	}
	svc := NewService(repo, security.NewContentSanitizer(), nil)

	err := svc.Delete(context.Background(), "user-1", "note-1")
	apiErr, ok := model.AsAPIError(err)
	if !ok || apiErr.Code != model.CodeNotFound {
		t.Errorf("expected NOT_FOUND, got %v", err)
	}
}

func TestList_ReturnsUserNotes(t *testing.T) {
	repo := &mockNoteRepo{
		listByUserIDFn: func(_ context.Context, userID string) ([]*model.Note, error) {
			return []*model.Note{
				{ID: "note-2", UserID: userID},
				{ID: "note-1", UserID: userID},
			}, nil
		},
	}
	svc := NewService(repo, security.NewContentSanitizer(), nil)

	notes, err := svc.List(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(notes) != 2 {
		t.Errorf("len = %d, want 2", len(notes))
	}
}
