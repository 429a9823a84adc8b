package http

import (
	"net/http"

	"campusrent-backend/internal/security"
	"campusrent-backend/internal/service"
	"campusrent-backend/internal/storage"

	"github.com/gorilla/mux"
)

// Handlers bundles everything the router needs.
type Handlers struct {
	TokenManager security.TokenManager
	AuthSvc      service.AuthService
	UserSvc      service.UserService
	ItemSvc      service.ItemService
	RentalSvc    service.RentalService
	NoteSvc      service.NotificationService
	Storage      storage.StorageInterface
}

// NewRouter builds the full API surface under /api/v1. Auth and media routes
// are public; everything else sits behind the bearer-token middleware.
func NewRouter(h Handlers) *mux.Router {
	authHandler := NewAuthHandler(h.AuthSvc)
	userHandler := NewUserHandler(h.UserSvc)
	itemHandler := NewItemHandler(h.ItemSvc)
	rentalHandler := NewRentalHandler(h.RentalSvc)
	noteHandler := NewNotificationHandler(h.NoteSvc)
	mediaHandler := NewMediaHandler(h.Storage)
	authMw := NewAuthMiddleware(h.TokenManager)

	router := mux.NewRouter()
	api := router.PathPrefix("/api/v1").Subrouter()

	// Public routes.
	api.HandleFunc("/auth/signup", authHandler.Signup).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", authHandler.Login).Methods(http.MethodPost)
	api.HandleFunc("/auth/refresh", authHandler.Refresh).Methods(http.MethodPost)
	api.HandleFunc("/media/upload/{token}", mediaHandler.Upload).Methods(http.MethodPut)
	api.HandleFunc("/media/download/{key}", mediaHandler.Download).Methods(http.MethodGet)

	// Authenticated routes.
	authed := api.NewRoute().Subrouter()
	authed.Use(authMw.Handler)

	authed.HandleFunc("/users/me", userHandler.GetMe).Methods(http.MethodGet)
	authed.HandleFunc("/users/me", userHandler.UpdateMe).Methods(http.MethodPut)

	authed.HandleFunc("/items", itemHandler.Create).Methods(http.MethodPost)
	authed.HandleFunc("/items", itemHandler.List).Methods(http.MethodGet)
	authed.HandleFunc("/items/mine", itemHandler.ListMine).Methods(http.MethodGet)
	authed.HandleFunc("/items/{id}", itemHandler.Get).Methods(http.MethodGet)
	authed.HandleFunc("/items/{id}", itemHandler.Update).Methods(http.MethodPut)
	authed.HandleFunc("/items/{id}", itemHandler.Delete).Methods(http.MethodDelete)

	authed.HandleFunc("/rentals", rentalHandler.Create).Methods(http.MethodPost)
	authed.HandleFunc("/rentals/pending", rentalHandler.ListPending).Methods(http.MethodGet)
	authed.HandleFunc("/rentals/requests", rentalHandler.ListRequests).Methods(http.MethodGet)
	authed.HandleFunc("/rentals/mine", rentalHandler.ListMine).Methods(http.MethodGet)
	authed.HandleFunc("/rentals/{id}", rentalHandler.Get).Methods(http.MethodGet)
	authed.HandleFunc("/rentals/{id}/modify", rentalHandler.Modify).Methods(http.MethodPost)
	authed.HandleFunc("/rentals/{id}/accept", rentalHandler.Accept).Methods(http.MethodPost)
	authed.HandleFunc("/rentals/{id}/reject", rentalHandler.Reject).Methods(http.MethodPost)
	authed.HandleFunc("/rentals/{id}/pickup", rentalHandler.ConfirmPickup).Methods(http.MethodPost)
	authed.HandleFunc("/rentals/{id}/return", rentalHandler.ConfirmReturn).Methods(http.MethodPost)
	authed.HandleFunc("/rentals/{id}/reviewed", rentalHandler.MarkReviewed).Methods(http.MethodPost)

	authed.HandleFunc("/notifications", noteHandler.List).Methods(http.MethodGet)
	authed.HandleFunc("/notifications/{id}/read", noteHandler.MarkRead).Methods(http.MethodPost)

	return router
}
