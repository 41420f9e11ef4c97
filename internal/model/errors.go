// Package model はドメインモデルを定義する。
package model

import "errors"

// 定義済みエラーコード。コードとHTTPステータスの対応は固定であり、
// ここに列挙されていないコードをハンドラーが独自に発明してはならない。
const (
	CodeNotFound         = "NOT_FOUND"
	CodeUnauthorized     = "UNAUTHORIZED"
	CodeBadRequest       = "BAD_REQUEST"
	CodeForbidden        = "FORBIDDEN"
	CodeConflict         = "CONFLICT"
	CodeExtractionFailed = "EXTRACTION_FAILED"
	CodeRateLimited      = "RATE_LIMITED"

	// CodeInternal は未分類の内部エラーを表す。
	// コンストラクタは提供せず、レスポンスマッパーのみが生成する。
	CodeInternal = "INTERNAL"
)

// APIError は分類済みエラーを表す。
// コード・HTTPステータス・メッセージ・詳細を持ち、
// レスポンスマッパーがワイヤフォーマットへ変換する。
// Detailsはバリデーション失敗（BAD_REQUEST）の場合のみ設定される。
type APIError struct {
	Code       string            // 機械可読エラーコード
	StatusCode int               // HTTPステータスコード（コードにより一意に決まる）
	Message    string            // 人間可読メッセージ
	Details    map[string]string // フィールドごとのバリデーションエラー（省略可）
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return "[" + e.Code + "] " + e.Message
}

// NewNotFoundError はリソース未検出エラーを生成する。
// 存在しないリソースへのアクセスと、他ユーザーのリソースへのアクセスの
// 両方に対して使用する。後者を403にしてはならない（存在の有無を漏らさないため）。
func NewNotFoundError() *APIError {
	return &APIError{
		Code:       CodeNotFound,
		StatusCode: 404,
		Message:    "Resource not found",
	}
}

// NewUnauthorizedError は認証失敗エラーを生成する。
// トークンの欠落・無効・期限切れ・失効のすべてに対して同一の値を返す。
func NewUnauthorizedError() *APIError {
	return &APIError{
		Code:       CodeUnauthorized,
		StatusCode: 401,
		Message:    "Unauthorized",
	}
}

// NewBadRequestError は入力検証エラーを生成する。
// detailsにはフィールド名をキーとした違反内容を設定する。
// クライアント側での修正を助けるため、detailsはそのままレスポンスに含まれる。
func NewBadRequestError(details map[string]string) *APIError {
	return &APIError{
		Code:       CodeBadRequest,
		StatusCode: 400,
		Message:    "Bad request",
		Details:    details,
	}
}

// NewForbiddenError は認可失敗エラーを生成する。
// リソース所有権とは無関係な権限チェック（ロール等）でのみ使用する。
// 所有権の不一致にはNewNotFoundErrorを使用すること。
func NewForbiddenError() *APIError {
	return &APIError{
		Code:       CodeForbidden,
		StatusCode: 403,
		Message:    "Forbidden",
	}
}

// NewConflictError は競合エラーを生成する。
// messageが空の場合はデフォルトメッセージを使用する。
func NewConflictError(message string) *APIError {
	if message == "" {
		message = "Resource conflict"
	}
	return &APIError{
		Code:       CodeConflict,
		StatusCode: 409,
		Message:    message,
	}
}

// NewExtractionFailedError はアクションアイテム抽出の失敗エラーを生成する。
// 抽出APIの生のエラー内容はログにのみ記録し、この値には含めない。
func NewExtractionFailedError() *APIError {
	return &APIError{
		Code:       CodeExtractionFailed,
		StatusCode: 500,
		Message:    "Failed to extract action items",
	}
}

// NewRateLimitedError はレート制限超過エラーを生成する。
func NewRateLimitedError() *APIError {
	return &APIError{
		Code:       CodeRateLimited,
		StatusCode: 429,
		Message:    "Rate limit exceeded",
	}
}

// AsAPIError はエラーチェーンから分類済みエラーを取り出す。
// 未分類のエラーの場合はnilとfalseを返し、呼び出し側は
// 汎用の500レスポンスへフォールバックする。
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
