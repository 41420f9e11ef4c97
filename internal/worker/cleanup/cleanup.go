// Package cleanup は期限切れセッションの自動削除ジョブを提供する。
// resolveは読み取り時に期限を検査するため、このジョブが止まっていても
// 期限切れセッションが受理されることはない。ジョブの役割は
// ストレージ上の不要レコードの回収のみ。
package cleanup

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// SessionSweeper は期限切れセッション削除のインターフェース。
// repository.SessionRepositoryの部分集合として定義する。
type SessionSweeper interface {
	DeleteExpired(ctx context.Context) (int64, error)
}

// SweepJob は期限切れセッションの削除ジョブ。
// 定期実行のバッチジョブとして設計されており、冪等な削除処理を保証する。
type SweepJob struct {
	sessions SessionSweeper
	logger   *slog.Logger
}

// NewSweepJob は新しいSweepJobを生成する。
func NewSweepJob(sessions SessionSweeper, logger *slog.Logger) *SweepJob {
	return &SweepJob{
		sessions: sessions,
		logger:   logger,
	}
}

// Run は期限切れセッションを削除する。
// 冪等: 削除対象がない場合でもエラーにならない。
func (j *SweepJob) Run(ctx context.Context) error {
	start := time.Now()

	deleted, err := j.sessions.DeleteExpired(ctx)
	if err != nil {
		j.logger.Error("セッションスイープジョブの実行に失敗しました",
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("セッションスイープの実行に失敗: %w", err)
	}

	j.logger.Info("セッションスイープジョブが完了しました",
		slog.Int64("deleted_count", deleted),
		slog.Float64("duration_ms", float64(time.Since(start).Milliseconds())),
	)

	return nil
}
