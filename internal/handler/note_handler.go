package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/minuteman/internal/middleware"
	"github.com/hitoshi/minuteman/internal/model"
)

// NoteServiceInterface は議事録ハンドラーが必要とするサービスインターフェース。
type NoteServiceInterface interface {
	Create(ctx context.Context, userID, title, body string) (*model.Note, error)
	Get(ctx context.Context, userID, noteID string) (*model.Note, error)
	List(ctx context.Context, userID string) ([]*model.Note, error)
	Update(ctx context.Context, userID, noteID string, title, body *string) (*model.Note, error)
	Delete(ctx context.Context, userID, noteID string) error
	ImportFromURL(ctx context.Context, userID, rawURL string) (*model.Note, error)
}

// ExtractionServiceInterface はアクションアイテム抽出のサービスインターフェース。
type ExtractionServiceInterface interface {
	ExtractFromNote(ctx context.Context, userID, noteID string) ([]*model.ActionItem, error)
}

// NoteHandler は議事録管理のHTTPハンドラー。
type NoteHandler struct {
	service    NoteServiceInterface
	extraction ExtractionServiceInterface
}

// NewNoteHandler はNoteHandlerを生成する。
func NewNoteHandler(service NoteServiceInterface, extraction ExtractionServiceInterface) *NoteHandler {
	return &NoteHandler{
		service:    service,
		extraction: extraction,
	}
}

// createNoteRequest は議事録作成リクエストのボディ。
type createNoteRequest struct {
	Title string `json:"title" validate:"required,max=200"`
	Body  string `json:"body" validate:"max=100000"`
}

// updateNoteRequest は議事録更新リクエストのボディ。nilのフィールドは変更しない。
type updateNoteRequest struct {
	Title *string `json:"title" validate:"omitempty,max=200"`
	Body  *string `json:"body" validate:"omitempty,max=100000"`
}

// importNoteRequest はURL取り込みリクエストのボディ。
type importNoteRequest struct {
	URL string `json:"url" validate:"required,url"`
}

// CreateNote は議事録を作成する。
// POST /api/notes
func (h *NoteHandler) CreateNote(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		middleware.WriteAPIError(w, model.NewUnauthorizedError())
		return
	}

	var req createNoteRequest
	if err := decodeAndValidate(r, &req); err != nil {
		middleware.WriteError(w, err)
		return
	}

	note, err := h.service.Create(r.Context(), userID, req.Title, req.Body)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toNoteResponse(note))
}

// ListNotes はユーザーの議事録一覧を返す。
// GET /api/notes
func (h *NoteHandler) ListNotes(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		middleware.WriteAPIError(w, model.NewUnauthorizedError())
		return
	}

	notes, err := h.service.List(r.Context(), userID)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toNoteListResponse(notes))
}

// GetNote は議事録の詳細を返す。
// GET /api/notes/{id}
func (h *NoteHandler) GetNote(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		middleware.WriteAPIError(w, model.NewUnauthorizedError())
		return
	}

	note, err := h.service.Get(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toNoteResponse(note))
}

// UpdateNote は議事録を部分更新する。
// PATCH /api/notes/{id}
func (h *NoteHandler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		middleware.WriteAPIError(w, model.NewUnauthorizedError())
		return
	}

	var req updateNoteRequest
	if err := decodeAndValidate(r, &req); err != nil {
		middleware.WriteError(w, err)
		return
	}

	note, err := h.service.Update(r.Context(), userID, chi.URLParam(r, "id"), req.Title, req.Body)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toNoteResponse(note))
}

// DeleteNote は議事録を削除する。
// DELETE /api/notes/{id}
func (h *NoteHandler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		middleware.WriteAPIError(w, model.NewUnauthorizedError())
		return
	}

	if err := h.service.Delete(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		middleware.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ImportNote は外部URLから議事録を取り込む。
// POST /api/notes/import
func (h *NoteHandler) ImportNote(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		middleware.WriteAPIError(w, model.NewUnauthorizedError())
		return
	}

	var req importNoteRequest
	if err := decodeAndValidate(r, &req); err != nil {
		middleware.WriteError(w, err)
		return
	}

	note, err := h.service.ImportFromURL(r.Context(), userID, req.URL)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toNoteResponse(note))
}

// ExtractItems は議事録からアクションアイテムを抽出する。
// POST /api/notes/{id}/extract
func (h *NoteHandler) ExtractItems(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		middleware.WriteAPIError(w, model.NewUnauthorizedError())
		return
	}

	items, err := h.extraction.ExtractFromNote(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toActionItemListResponse(items))
}
