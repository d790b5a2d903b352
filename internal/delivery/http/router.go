package http

import (
	"log/slog"
	"net/http"

	"recordpager/internal/delivery/http/controllers"
	"recordpager/internal/delivery/http/middleware"
	"recordpager/internal/domain"

	httpSwagger "github.com/swaggo/http-swagger"
)

// NewRouter registers every application route. Collection routes require a bearer token.
func NewRouter(
	authController *controllers.AuthController,
	collectionController *controllers.CollectionController,
	verifier domain.TokenVerifier,
	logger *slog.Logger,
) *http.ServeMux {
	mux := http.NewServeMux()
	auth := middleware.RequireAuth(verifier, logger)

	// Auth
	mux.HandleFunc("POST /auth/signup", authController.SignUp)
	mux.HandleFunc("POST /auth/login", authController.Login)
	mux.HandleFunc("GET /users/me", auth(authController.Me))

	// Collections
	mux.HandleFunc("POST /collections", auth(collectionController.CreateCollection))
	mux.HandleFunc("GET /collections", auth(collectionController.ListCollections))
	mux.HandleFunc("GET /collections/{collectionID}", auth(collectionController.GetCollection))

	// Records
	mux.HandleFunc("POST /collections/{collectionID}/records", auth(collectionController.AddRecords))
	mux.HandleFunc("GET /collections/{collectionID}/records", auth(collectionController.BrowseRecords))
	mux.HandleFunc("POST /collections/{collectionID}/share", auth(collectionController.SharePage))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
