package routes

import (
	"net/http"

	"github.com/EatWhereLa/eat-where-la-backend-server/internal/api/handlers"
	"github.com/EatWhereLa/eat-where-la-backend-server/internal/api/middleware"
	"github.com/EatWhereLa/eat-where-la-backend-server/internal/infrastructure/observability"
)

const teapotMessage = "Oops looks like you landed at the wrong endpoint, teapot"

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	placesHandler      *handlers.PlacesHandler
	restaurantHandler  *handlers.RestaurantHandler
	bookmarkHandler    *handlers.BookmarkHandler
	reviewHandler      *handlers.ReviewHandler
	reservationHandler *handlers.ReservationHandler
	voteHandler        *handlers.VoteHandler

	allowedOrigins []string
	metrics        *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(
	placesHandler *handlers.PlacesHandler,
	restaurantHandler *handlers.RestaurantHandler,
	bookmarkHandler *handlers.BookmarkHandler,
	reviewHandler *handlers.ReviewHandler,
	reservationHandler *handlers.ReservationHandler,
	voteHandler *handlers.VoteHandler,
	allowedOrigins []string,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux: http.NewServeMux(),

		placesHandler:      placesHandler,
		restaurantHandler:  restaurantHandler,
		bookmarkHandler:    bookmarkHandler,
		reviewHandler:      reviewHandler,
		reservationHandler: reservationHandler,
		voteHandler:        voteHandler,

		allowedOrigins: allowedOrigins,
		metrics:        metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	// Health check endpoint
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	// Places API proxy
	r.mux.HandleFunc("GET /api/places", r.placesHandler.SearchNearby)
	r.mux.HandleFunc("GET /api/places/photo", r.placesHandler.GetPhoto)
	r.mux.HandleFunc("GET /api/places/details", r.placesHandler.GetDetails)

	// Cached restaurants
	r.mux.HandleFunc("GET /api/restaurants", r.restaurantHandler.GetRestaurant)
	r.mux.HandleFunc("GET /api/restaurants/search", r.restaurantHandler.SearchRestaurants)

	// Bookmarks
	r.mux.HandleFunc("POST /api/bookmarks", r.bookmarkHandler.BookmarkPlace)
	r.mux.HandleFunc("DELETE /api/bookmarks", r.bookmarkHandler.RemoveBookmark)
	r.mux.HandleFunc("GET /api/bookmarks/restaurants", r.bookmarkHandler.ListBookmarkedRestaurants)

	// Reviews
	r.mux.HandleFunc("POST /api/reviews", r.reviewHandler.AddReview)
	r.mux.HandleFunc("PUT /api/reviews", r.reviewHandler.UpdateReview)
	r.mux.HandleFunc("DELETE /api/reviews", r.reviewHandler.RemoveReview)
	r.mux.HandleFunc("GET /api/reviews/user", r.reviewHandler.ListUserReviews)
	r.mux.HandleFunc("GET /api/reviews/restaurant", r.reviewHandler.ListRestaurantReviews)

	// Reservations
	r.mux.HandleFunc("POST /api/reservations", r.reservationHandler.AddReservation)
	r.mux.HandleFunc("DELETE /api/reservations", r.reservationHandler.RemoveReservation)
	r.mux.HandleFunc("GET /api/reservations", r.reservationHandler.ListValidReservations)
	r.mux.HandleFunc("GET /api/reservations/list", r.reservationHandler.ListReservations)

	// Voting sessions
	r.mux.HandleFunc("POST /api/votes", r.voteHandler.StoreVoteHistory)
	r.mux.HandleFunc("GET /api/votes", r.voteHandler.ListUserVoteHistory)

	r.mux.HandleFunc("/", func(w http.ResponseWriter, req *http.Request) {
		http.Error(w, teapotMessage, http.StatusTeapot)
	})

	// Apply middleware in reverse order (last middleware wraps first)
	var handler http.Handler = r.mux
	handler = middleware.ObservabilityMiddleware(r.metrics, r.mux)(handler)

	// Logging sits outside observability so spans carry the request id
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.Compression(handler)

	// CORS wraps everything so preflights never reach the mux
	handler = middleware.CORSMiddleware(r.allowedOrigins)(handler)

	return handler
}
