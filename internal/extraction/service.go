package extraction

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hitoshi/minuteman/internal/authz"
	"github.com/hitoshi/minuteman/internal/model"
	"github.com/hitoshi/minuteman/internal/repository"
	"github.com/hitoshi/minuteman/internal/security"
)

// Extractor は抽出APIの呼び出しインターフェース。
// Clientの抽象化であり、テストではモックに差し替える。
type Extractor interface {
	Extract(ctx context.Context, text string) ([]ExtractedItem, error)
}

// Recorder は抽出の結果とレイテンシを記録するインターフェース。
// metrics.Collectorの部分集合として定義する。
type Recorder interface {
	RecordExtraction(success bool, duration time.Duration)
}

// Service は議事録からのアクションアイテム抽出を提供する。
type Service struct {
	extractor Extractor
	notes     repository.NoteRepository
	items     repository.ActionItemRepository
	sanitizer security.ContentSanitizerService
	logger    *slog.Logger
	recorder  Recorder
}

// NewService はServiceを生成する。recorderはnilでもよい。
func NewService(
	extractor Extractor,
	notes repository.NoteRepository,
	items repository.ActionItemRepository,
	sanitizer security.ContentSanitizerService,
	logger *slog.Logger,
	recorder Recorder,
) *Service {
	return &Service{
		extractor: extractor,
		notes:     notes,
		items:     items,
		sanitizer: sanitizer,
		logger:    logger,
		recorder:  recorder,
	}
}

// ExtractFromNote は議事録の本文からアクションアイテムを抽出して保存する。
// 親議事録の所有権を検証する。
// 抽出APIのあらゆる失敗は単一のEXTRACTION_FAILEDに分類され、
// 失敗の生の原因はログにのみ記録される。
func (s *Service) ExtractFromNote(ctx context.Context, userID, noteID string) ([]*model.ActionItem, error) {
	note, err := s.notes.FindByID(ctx, noteID)
	if err != nil {
		return nil, fmt.Errorf("failed to find note: %w", err)
	}
	if err := authz.RequireOwner(userID, note); err != nil {
		return nil, err
	}

	// 抽出APIへはタグを除去したプレーンテキストを送る
	text := s.sanitizer.StripTags(note.Body)

	start := time.Now()
	extracted, err := s.extractor.Extract(ctx, text)
	if err != nil {
		s.logger.Error("action item extraction failed",
			slog.String("note_id", noteID),
			slog.String("error", err.Error()),
		)
		if s.recorder != nil {
			s.recorder.RecordExtraction(false, time.Since(start))
		}
		return nil, model.NewExtractionFailedError()
	}

	if s.recorder != nil {
		s.recorder.RecordExtraction(true, time.Since(start))
	}

	s.logger.Info("action items extracted",
		slog.String("note_id", noteID),
		slog.Int("count", len(extracted)),
		slog.Float64("duration_ms", float64(time.Since(start).Milliseconds())),
	)

	items := s.toActionItems(userID, noteID, extracted)
	if err := s.items.CreateBatch(ctx, items); err != nil {
		return nil, fmt.Errorf("failed to save extracted items: %w", err)
	}

	return items, nil
}

// toActionItems は抽出結果をActionItemに変換する。
// タイトルが空の候補と不正な期日は読み飛ばす。
func (s *Service) toActionItems(userID, noteID string, extracted []ExtractedItem) []*model.ActionItem {
	now := time.Now()
	items := make([]*model.ActionItem, 0, len(extracted))

	for i, e := range extracted {
		if e.Title == "" {
			continue
		}

		var due *time.Time
		if e.DueDate != "" {
			if parsed, err := time.Parse("2006-01-02", e.DueDate); err == nil {
				due = &parsed
			} else {
				s.logger.Warn("ignoring unparseable due date",
					slog.String("note_id", noteID),
					slog.String("due_date", e.DueDate),
				)
			}
		}

		items = append(items, &model.ActionItem{
			ID:        uuid.New().String(),
			NoteID:    noteID,
			UserID:    userID,
			Title:     e.Title,
			Assignee:  e.Assignee,
			DueDate:   due,
			Status:    model.StatusTodo,
			Position:  i,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}

	return items
}
