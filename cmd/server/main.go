// @title           Archiwum Zwojów API
// @version         1.0
// @host            localhost
// @schemes         http https
// @BasePath        /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"log"
	"net/http"

	"archiwum-zwojow/internal/api"
	"archiwum-zwojow/internal/config"
	"archiwum-zwojow/internal/database"
	"archiwum-zwojow/internal/websocket"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	_ "archiwum-zwojow/docs"

	httpSwagger "github.com/swaggo/http-swagger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Nie można wczytać konfiguracji: %v", err)
	}

	dbpool, err := pgxpool.New(context.Background(), cfg.DB.Source)
	if err != nil {
		log.Fatalf("Nie można połączyć się z bazą danych: %v", err)
	}
	defer dbpool.Close()

	if err := dbpool.Ping(context.Background()); err != nil {
		log.Fatalf("Nie można pingować bazy danych: %v", err)
	}
	log.Println("Pomyślnie połączono z bazą danych")

	wsHub := websocket.NewHub()
	go wsHub.Run()

	store := database.NewStore(dbpool, wsHub)
	server := api.NewServer(cfg, store, wsHub)

	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.AppHost},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))
	r.Use(api.MetricsMiddleware)

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("https://localhost/swagger/doc.json"),
	))

	r.Get("/ws", server.ServeWsHandler)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Archiwum zwojów działa! Dokumentacja dostępna pod /swagger/index.html"))
	})

	r.Get("/health", server.HealthCheckHandler)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/register", server.RegisterHandler)
		r.Post("/auth/login", server.LoginHandler)
		r.Post("/auth/logout", server.LogoutHandler)
		r.Post("/auth/refresh", server.RefreshTokenHandler)

		// Lista, wyszukiwarka i pobieranie są publiczne; hasło pilnuje pobrań.
		r.Get("/scrolls", server.ListScrollsHandler)
		r.Get("/scrolls/search", server.SearchScrollsHandler)
		r.Get("/scrolls/{scrollId}/download", server.DownloadScrollHandler)

		r.Group(func(r chi.Router) {
			r.Use(server.AuthMiddleware)

			r.Post("/scrolls", server.CreateScrollHandler)
			r.Get("/scrolls/{scrollId}", server.GetScrollHandler)
			r.Patch("/scrolls/{scrollId}", server.UpdateScrollHandler)
			r.Delete("/scrolls/{scrollId}", server.DeleteScrollHandler)

			r.Get("/me", server.MeHandler)
			r.Put("/me/profile", server.UpdateProfileHandler)
			r.Get("/users/{userId}", server.GetProfileHandler)

			r.Get("/favorites", server.ListFavoritesHandler)
			r.Post("/scrolls/{scrollId}/favorite", server.AddFavoriteHandler)
			r.Delete("/scrolls/{scrollId}/favorite", server.RemoveFavoriteHandler)

			r.Get("/sessions", server.ListSessionsHandler)
			r.Delete("/sessions", server.DeleteAllSessionsHandler)
			r.Delete("/sessions/{sessionId}", server.DeleteSessionHandler)

			r.Get("/events", server.ListEventsHandler)

			r.Group(func(r chi.Router) {
				r.Use(server.RequireAdmin)

				r.Get("/admin/users", server.AdminListUsersHandler)
				r.Post("/admin/users", server.AdminAddUserHandler)
				r.Get("/admin/users/search", server.AdminSearchUsersHandler)
				r.Delete("/admin/users/{userId}", server.AdminDeleteUserHandler)
				r.Post("/admin/users/{userId}/promote", server.AdminPromoteUserHandler)
				r.Post("/admin/users/{userId}/demote", server.AdminDemoteUserHandler)
				r.Get("/admin/statistics", server.AdminStatisticsHandler)
				r.Post("/admin/scrolls/{scrollId}/downloads/increase", server.AdminIncreaseDownloadsHandler)
				r.Post("/admin/scrolls/{scrollId}/downloads/decrease", server.AdminDecreaseDownloadsHandler)
			})
		})
	})

	log.Printf("Uruchamianie serwera na %s", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, r); err != nil {
		log.Fatalf("Nie można uruchomić serwera: %v", err)
	}
}
