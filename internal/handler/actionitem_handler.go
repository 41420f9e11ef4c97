package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/minuteman/internal/actionitem"
	"github.com/hitoshi/minuteman/internal/middleware"
	"github.com/hitoshi/minuteman/internal/model"
)

// ActionItemServiceInterface はアクションアイテムハンドラーが必要とするサービスインターフェース。
type ActionItemServiceInterface interface {
	Create(ctx context.Context, userID, noteID string, input actionitem.CreateInput) (*model.ActionItem, error)
	Get(ctx context.Context, userID, itemID string) (*model.ActionItem, error)
	ListByNote(ctx context.Context, userID, noteID string) ([]*model.ActionItem, error)
	ListByUser(ctx context.Context, userID, status string) ([]*model.ActionItem, error)
	Update(ctx context.Context, userID, itemID string, input actionitem.UpdateInput) (*model.ActionItem, error)
	UpdateStatus(ctx context.Context, userID, itemID, status string) (*model.ActionItem, error)
	Delete(ctx context.Context, userID, itemID string) error
}

// ActionItemHandler はアクションアイテム管理のHTTPハンドラー。
type ActionItemHandler struct {
	service ActionItemServiceInterface
}

// NewActionItemHandler はActionItemHandlerを生成する。
func NewActionItemHandler(service ActionItemServiceInterface) *ActionItemHandler {
	return &ActionItemHandler{
		service: service,
	}
}

// createItemRequest はアクションアイテム作成リクエストのボディ。
type createItemRequest struct {
	Title    string `json:"title" validate:"required,max=200"`
	Assignee string `json:"assignee" validate:"max=100"`
	DueDate  string `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
}

// updateItemRequest はアクションアイテム更新リクエストのボディ。nilのフィールドは変更しない。
type updateItemRequest struct {
	Title    *string `json:"title" validate:"omitempty,max=200"`
	Assignee *string `json:"assignee" validate:"omitempty,max=100"`
	DueDate  *string `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
	Position *int    `json:"position" validate:"omitempty,min=0"`
}

// updateStatusRequest はかんばん移動リクエストのボディ。
type updateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// CreateItem は議事録にアクションアイテムを追加する。
// POST /api/notes/{id}/items
func (h *ActionItemHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		middleware.WriteAPIError(w, model.NewUnauthorizedError())
		return
	}

	var req createItemRequest
	if err := decodeAndValidate(r, &req); err != nil {
		middleware.WriteError(w, err)
		return
	}

	input := actionitem.CreateInput{
		Title:    req.Title,
		Assignee: req.Assignee,
	}
	if req.DueDate != "" {
		// datetimeタグで検証済み
		due, _ := time.Parse("2006-01-02", req.DueDate)
		input.DueDate = &due
	}

	item, err := h.service.Create(r.Context(), userID, chi.URLParam(r, "id"), input)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toActionItemResponse(item))
}

// ListItemsByNote は議事録のアクションアイテム一覧を返す。
// GET /api/notes/{id}/items
func (h *ActionItemHandler) ListItemsByNote(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		middleware.WriteAPIError(w, model.NewUnauthorizedError())
		return
	}

	items, err := h.service.ListByNote(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toActionItemListResponse(items))
}

// ListItems はユーザーのアクションアイテム一覧を返す。
// GET /api/items?status=todo
func (h *ActionItemHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		middleware.WriteAPIError(w, model.NewUnauthorizedError())
		return
	}

	items, err := h.service.ListByUser(r.Context(), userID, r.URL.Query().Get("status"))
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toActionItemListResponse(items))
}

// GetItem はアクションアイテムの詳細を返す。
// GET /api/items/{id}
func (h *ActionItemHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		middleware.WriteAPIError(w, model.NewUnauthorizedError())
		return
	}

	item, err := h.service.Get(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toActionItemResponse(item))
}

// UpdateItem はアクションアイテムを部分更新する。
// PATCH /api/items/{id}
func (h *ActionItemHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		middleware.WriteAPIError(w, model.NewUnauthorizedError())
		return
	}

	var req updateItemRequest
	if err := decodeAndValidate(r, &req); err != nil {
		middleware.WriteError(w, err)
		return
	}

	input := actionitem.UpdateInput{
		Title:    req.Title,
		Assignee: req.Assignee,
		Position: req.Position,
	}
	if req.DueDate != nil {
		due, _ := time.Parse("2006-01-02", *req.DueDate)
		input.DueDate = &due
	}

	item, err := h.service.Update(r.Context(), userID, chi.URLParam(r, "id"), input)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toActionItemResponse(item))
}

// UpdateItemStatus はアクションアイテムをかんばん上で移動する。
// PUT /api/items/{id}/status
func (h *ActionItemHandler) UpdateItemStatus(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		middleware.WriteAPIError(w, model.NewUnauthorizedError())
		return
	}

	var req updateStatusRequest
	if err := decodeAndValidate(r, &req); err != nil {
		middleware.WriteError(w, err)
		return
	}

	item, err := h.service.UpdateStatus(r.Context(), userID, chi.URLParam(r, "id"), req.Status)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toActionItemResponse(item))
}

// DeleteItem はアクションアイテムを削除する。
// DELETE /api/items/{id}
func (h *ActionItemHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
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
