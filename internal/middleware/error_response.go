package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/hitoshi/minuteman/internal/model"
)

// ErrorBody はエラーエンベロープの中身。
type ErrorBody struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// ErrorEnvelope はAPIエラーレスポンスの統一フォーマット。
// すべてのエンドポイントが { "error": { code, message, details? } } を返す。
type ErrorEnvelope struct {
	Error ErrorBody `json:"error"`
}

// WriteAPIError は分類済みエラーをエンベロープとして書き込む。
// HTTPステータスはエラーコードにより一意に決まる。
func WriteAPIError(w http.ResponseWriter, apiErr *model.APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(apiErr.StatusCode)
	json.NewEncoder(w).Encode(ErrorEnvelope{
		Error: ErrorBody{
			Code:    apiErr.Code,
			Message: apiErr.Message,
			Details: apiErr.Details,
		},
	})
}

// WriteError は任意のエラーをエラーエンベロープに変換して書き込む。
// 分類済みエラーはそのコードのまま変換され、途中で別のコードへ
// 変換されることはない。未分類のエラーは詳細をログにのみ記録し、
// 固定メッセージの500エンベロープを返す。
func WriteError(w http.ResponseWriter, err error) {
	if apiErr, ok := model.AsAPIError(err); ok {
		WriteAPIError(w, apiErr)
		return
	}

	slog.Error("unclassified error", slog.String("error", err.Error()))
	WriteInternalServerError(w)
}

// WriteInternalServerError は内部サーバーエラーの統一レスポンスを書き込む。
// 内部の詳細はクライアントへ返さない。
func WriteInternalServerError(w http.ResponseWriter) {
	WriteAPIError(w, &model.APIError{
		Code:       model.CodeInternal,
		StatusCode: http.StatusInternalServerError,
		Message:    "Internal server error",
	})
}
