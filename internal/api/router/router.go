package router

import (
	"encoding/json"
	"net/http"

	"portwatch/internal/api/handler"
	"portwatch/internal/api/middleware"
	"portwatch/internal/cache"
	"portwatch/internal/core/repository"
)

// NewRouter builds the read-only dashboard API. The pipeline owns all writes;
// every route here is GET.
func NewRouter(
	positions repository.PositionRepository,
	ships repository.ShipRepository,
	calls repository.PortCallRepository,
	latest *cache.Cache,
	jwtSecret string,
) http.Handler {
	positionHandler := handler.NewPositionHandler(positions, latest)
	shipHandler := handler.NewShipHandler(ships)
	portCallHandler := handler.NewPortCallHandler(calls)
	authMiddleware := middleware.NewAuthMiddleware(jwtSecret)

	mux := http.NewServeMux()

	withMiddleware := func(h http.Handler) http.Handler {
		return middleware.CORSMiddleware(
			middleware.LoggingMiddleware(
				authMiddleware.Authenticate(h),
			),
		)
	}

	getOnly := func(h http.HandlerFunc) http.Handler {
		return withMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
				return
			}
			h(w, r)
		}))
	}

	// Health check stays outside auth so schedulers can probe it.
	mux.Handle("/health", middleware.CORSMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})))

	mux.Handle("/api/positions/latest", getOnly(positionHandler.GetLatest))
	mux.Handle("/api/positions/list", getOnly(positionHandler.List))
	mux.Handle("/api/ships/get", getOnly(shipHandler.Get))
	mux.Handle("/api/portcalls/list", getOnly(portCallHandler.List))
	mux.Handle("/api/portcalls/open", getOnly(portCallHandler.ListOpen))

	return mux
}
