// Package handler はHTTPハンドラーを提供する。
package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/hitoshi/minuteman/internal/model"
)

// writeJSON はJSONレスポンスを書き込む。
func writeJSON(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(v)
}

// noteResponse は議事録のAPIレスポンス。
type noteResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	SourceURL string    `json:"source_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// actionItemResponse はアクションアイテムのAPIレスポンス。
type actionItemResponse struct {
	ID        string    `json:"id"`
	NoteID    string    `json:"note_id"`
	Title     string    `json:"title"`
	Assignee  string    `json:"assignee,omitempty"`
	DueDate   *string   `json:"due_date,omitempty"` // YYYY-MM-DD
	Status    string    `json:"status"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// userResponse はユーザー情報のAPIレスポンス。
type userResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// toNoteResponse はmodel.NoteからAPIレスポンスに変換する。
func toNoteResponse(note *model.Note) noteResponse {
	return noteResponse{
		ID:        note.ID,
		Title:     note.Title,
		Body:      note.Body,
		SourceURL: note.SourceURL,
		CreatedAt: note.CreatedAt,
		UpdatedAt: note.UpdatedAt,
	}
}

// toNoteListResponse はmodel.Noteのスライスを変換する。空でも空配列を返す。
func toNoteListResponse(notes []*model.Note) []noteResponse {
	out := make([]noteResponse, 0, len(notes))
	for _, n := range notes {
		out = append(out, toNoteResponse(n))
	}
	return out
}

// toActionItemResponse はmodel.ActionItemからAPIレスポンスに変換する。
func toActionItemResponse(item *model.ActionItem) actionItemResponse {
	resp := actionItemResponse{
		ID:        item.ID,
		NoteID:    item.NoteID,
		Title:     item.Title,
		Assignee:  item.Assignee,
		Status:    string(item.Status),
		Position:  item.Position,
		CreatedAt: item.CreatedAt,
		UpdatedAt: item.UpdatedAt,
	}
	if item.DueDate != nil {
		due := item.DueDate.Format("2006-01-02")
		resp.DueDate = &due
	}
	return resp
}

// toActionItemListResponse はmodel.ActionItemのスライスを変換する。空でも空配列を返す。
func toActionItemListResponse(items []*model.ActionItem) []actionItemResponse {
	out := make([]actionItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, toActionItemResponse(it))
	}
	return out
}

// toUserResponse はmodel.UserからAPIレスポンスに変換する。
func toUserResponse(user *model.User) userResponse {
	return userResponse{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		AvatarURL: user.AvatarURL,
	}
}
