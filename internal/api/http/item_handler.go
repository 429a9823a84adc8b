package http

import (
	"net/http"
	"strconv"

	"campusrent-backend/internal/domain"
	"campusrent-backend/internal/service"
)

type ItemHandler struct {
	itemSvc service.ItemService
}

func NewItemHandler(itemSvc service.ItemService) *ItemHandler {
	return &ItemHandler{itemSvc: itemSvc}
}

type itemRequest struct {
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	Category        string   `json:"category"`
	DailyPriceCents int64    `json:"daily_price_cents"`
	DepositCents    int64    `json:"deposit_cents"`
	Photos          []string `json:"photos"`
	Status          string   `json:"status"`
}

type listItemsResponse struct {
	Items []domain.Item `json:"items"`
	Total int32         `json:"total"`
}

func (h *ItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	item := domain.Item{
		OwnerID:         userID(r),
		Title:           req.Title,
		Description:     req.Description,
		Category:        req.Category,
		DailyPriceCents: req.DailyPriceCents,
		DepositCents:    req.DepositCents,
		Photos:          req.Photos,
		Status:          domain.ItemStatus(req.Status),
	}
	if err := h.itemSvc.AddItem(r.Context(), &item); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (h *ItemHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	item, err := h.itemSvc.GetItem(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *ItemHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req itemRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	item := domain.Item{
		ID:              id,
		Title:           req.Title,
		Description:     req.Description,
		Category:        req.Category,
		DailyPriceCents: req.DailyPriceCents,
		DepositCents:    req.DepositCents,
		Photos:          req.Photos,
		Status:          domain.ItemStatus(req.Status),
	}
	if err := h.itemSvc.UpdateItem(r.Context(), userID(r), &item); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *ItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.itemSvc.DeleteItem(r.Context(), userID(r), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (h *ItemHandler) List(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	page := queryInt32(r, "page", 1)
	pageSize := queryInt32(r, "page_size", 20)

	items, total, err := h.itemSvc.ListItems(r.Context(), category, page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listItemsResponse{Items: items, Total: total})
}

func (h *ItemHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	items, err := h.itemSvc.ListMyItems(r.Context(), userID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func queryInt32(r *http.Request, name string, fallback int32) int32 {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || v < 1 {
		return fallback
	}
	return int32(v)
}
