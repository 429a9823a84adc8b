package http

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"campusrent-backend/internal/domain"
	"campusrent-backend/internal/service"

	"github.com/gorilla/mux"
)

// RentalHandler exposes the rental lifecycle over HTTP. All mutation goes
// through the rental service; the handler only translates transport.
type RentalHandler struct {
	rentalSvc service.RentalService
}

func NewRentalHandler(rentalSvc service.RentalService) *RentalHandler {
	return &RentalHandler{rentalSvc: rentalSvc}
}

func (h *RentalHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input service.CreateRentalInput
	if err := decodeBody(r, &input); err != nil {
		writeError(w, err)
		return
	}

	rental, err := h.rentalSvc.CreateRentalRequest(r.Context(), userID(r), &input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rental)
}

func (h *RentalHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	rental, err := h.rentalSvc.GetRental(r.Context(), userID(r), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rental)
}

func (h *RentalHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	rentals, err := h.rentalSvc.ListPendingForOwner(r.Context(), userID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rentals)
}

func (h *RentalHandler) ListRequests(w http.ResponseWriter, r *http.Request) {
	rentals, err := h.rentalSvc.ListAllForOwner(r.Context(), userID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rentals)
}

func (h *RentalHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	var statuses []domain.RentalStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			statuses = append(statuses, domain.RentalStatus(strings.TrimSpace(s)))
		}
	}

	rentals, err := h.rentalSvc.ListMyRentals(r.Context(), userID(r), statuses)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rentals)
}

func (h *RentalHandler) Modify(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var input service.ModifyRentalInput
	if err := decodeBody(r, &input); err != nil {
		writeError(w, err)
		return
	}

	rental, err := h.rentalSvc.ModifyRental(r.Context(), userID(r), id, &input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rental)
}

func (h *RentalHandler) Accept(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.rentalSvc.AcceptRental)
}

func (h *RentalHandler) Reject(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.rentalSvc.RejectRental)
}

func (h *RentalHandler) ConfirmPickup(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.rentalSvc.ConfirmPickup)
}

func (h *RentalHandler) ConfirmReturn(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.rentalSvc.ConfirmReturn)
}

func (h *RentalHandler) MarkReviewed(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.rentalSvc.MarkReviewed(r.Context(), userID(r), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (h *RentalHandler) transition(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, actorID, rentalID int32) (*domain.Rental, error)) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	rental, err := op(r.Context(), userID(r), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rental)
}

func pathID(r *http.Request) (int32, error) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q: %w", raw, domain.ErrInvalidInput)
	}
	return int32(id), nil
}
