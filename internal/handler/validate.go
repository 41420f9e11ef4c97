package handler

import (
	"encoding/json"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/hitoshi/minuteman/internal/model"
)

// validate はハンドラー共通のバリデーターインスタンス。
// エラー詳細のフィールド名にはjsonタグ名を使用する。
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// decodeAndValidate はリクエストボディをデコードしてバリデーションを行う。
// JSONの構文エラーとバリデーション違反はいずれもBAD_REQUESTになる。
// バリデーション違反はフィールドごとの理由をDetailsに含める。
func decodeAndValidate(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return model.NewBadRequestError(map[string]string{
			"body": "must be valid JSON",
		})
	}

	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		details := make(map[string]string)
		if ok := asValidationErrors(err, &verrs); ok {
			for _, fe := range verrs {
				details[fe.Field()] = validationMessage(fe)
			}
		} else {
			details["body"] = "validation failed"
		}
		return model.NewBadRequestError(details)
	}

	return nil
}

func asValidationErrors(err error, target *validator.ValidationErrors) bool {
	if verrs, ok := err.(validator.ValidationErrors); ok {
		*target = verrs
		return true
	}
	return false
}

// validationMessage はバリデーションタグを利用者向けのメッセージに変換する。
func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "url":
		return "must be a valid URL"
	case "datetime":
		return "must be a date in YYYY-MM-DD format"
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	default:
		return "is invalid"
	}
}
