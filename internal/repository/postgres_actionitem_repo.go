package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/minuteman/internal/model"
)

// PostgresActionItemRepo はPostgreSQLを使用したアクションアイテムリポジトリ。
type PostgresActionItemRepo struct {
	db *sql.DB
}

// NewPostgresActionItemRepo はPostgresActionItemRepoを生成する。
func NewPostgresActionItemRepo(db *sql.DB) *PostgresActionItemRepo {
	return &PostgresActionItemRepo{db: db}
}

const actionItemColumns = `id, note_id, user_id, title, assignee, due_date, status, position, created_at, updated_at`

// scanActionItem は1行をActionItemにスキャンする。
func scanActionItem(row interface{ Scan(dest ...any) error }) (*model.ActionItem, error) {
	item := &model.ActionItem{}
	err := row.Scan(
		&item.ID, &item.NoteID, &item.UserID, &item.Title, &item.Assignee,
		&item.DueDate, &item.Status, &item.Position, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return item, nil
}

// FindByID は指定IDのアクションアイテムを取得する。見つからない場合はnilを返す。
func (r *PostgresActionItemRepo) FindByID(ctx context.Context, id string) (*model.ActionItem, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+actionItemColumns+` FROM action_items WHERE id = $1`,
		id,
	)
	item, err := scanActionItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find action item: %w", err)
	}
	return item, nil
}

// ListByNoteID は議事録のアクションアイテム一覧をposition昇順で返す。
func (r *PostgresActionItemRepo) ListByNoteID(ctx context.Context, noteID string) ([]*model.ActionItem, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+actionItemColumns+` FROM action_items
		 WHERE note_id = $1
		 ORDER BY position ASC, created_at ASC`,
		noteID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list action items: %w", err)
	}
	defer rows.Close()

	return collectActionItems(rows)
}

// ListByUserID はユーザーのアクションアイテム一覧を返す。
// statusが空でない場合は該当ステータスのみに絞り込む。
func (r *PostgresActionItemRepo) ListByUserID(ctx context.Context, userID string, status model.ItemStatus) ([]*model.ActionItem, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if status == "" {
		rows, err = r.db.QueryContext(ctx,
			`SELECT `+actionItemColumns+` FROM action_items
			 WHERE user_id = $1
			 ORDER BY status ASC, position ASC, created_at ASC`,
			userID,
		)
	} else {
		rows, err = r.db.QueryContext(ctx,
			`SELECT `+actionItemColumns+` FROM action_items
			 WHERE user_id = $1 AND status = $2
			 ORDER BY position ASC, created_at ASC`,
			userID, status,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list action items: %w", err)
	}
	defer rows.Close()

	return collectActionItems(rows)
}

// Create はアクションアイテムを作成する。
func (r *PostgresActionItemRepo) Create(ctx context.Context, item *model.ActionItem) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO action_items (`+actionItemColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		item.ID, item.NoteID, item.UserID, item.Title, item.Assignee,
		item.DueDate, item.Status, item.Position, item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create action item: %w", err)
	}
	return nil
}

// CreateBatch は複数のアクションアイテムを同一トランザクションで作成する。
// 抽出結果の保存で使用し、途中で失敗した場合は全件ロールバックされる。
func (r *PostgresActionItemRepo) CreateBatch(ctx context.Context, items []*model.ActionItem) error {
	if len(items) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, item := range items {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO action_items (`+actionItemColumns+`)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			item.ID, item.NoteID, item.UserID, item.Title, item.Assignee,
			item.DueDate, item.Status, item.Position, item.CreatedAt, item.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert action item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Update はアクションアイテムを更新する。
func (r *PostgresActionItemRepo) Update(ctx context.Context, item *model.ActionItem) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE action_items
		 SET title = $2, assignee = $3, due_date = $4, status = $5, position = $6, updated_at = $7
		 WHERE id = $1`,
		item.ID, item.Title, item.Assignee, item.DueDate, item.Status, item.Position, item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update action item: %w", err)
	}
	return nil
}

// DeleteByID は指定IDのアクションアイテムを削除する。
func (r *PostgresActionItemRepo) DeleteByID(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM action_items WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete action item: %w", err)
	}
	return nil
}

// collectActionItems は行セットをActionItemのスライスに変換する。
func collectActionItems(rows *sql.Rows) ([]*model.ActionItem, error) {
	var items []*model.ActionItem
	for rows.Next() {
		item, err := scanActionItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan action item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate action items: %w", err)
	}
	return items, nil
}

// compile-time interface check
var _ ActionItemRepository = (*PostgresActionItemRepo)(nil)
