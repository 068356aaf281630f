package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Routes builds the whole HTTP surface. AccessFilter runs after the session
// is resolved and before any handler, static files included.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(MetricsMiddleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.config.Server.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(s.SessionMiddleware)
	r.Use(s.AccessFilter)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/dir", http.StatusFound)
	})
	r.Get("/health", s.HealthCheckHandler)
	r.With(s.AdminBasicAuth).Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	r.Route("/auth", func(r chi.Router) {
		r.Get("/login", s.LoginHandler)
		r.Get("/callback", s.CallbackHandler)
		r.Post("/logout", s.LogoutHandler)
		r.With(s.RequireUser).Get("/user", s.CurrentUserHandler)
	})

	r.Get("/dir", s.DirHandler)
	r.Post("/upload", s.UploadHandler)
	r.Get("/download/*", s.DownloadHandler)

	r.Route("/user", func(r chi.Router) {
		r.Use(s.RequireUser)
		r.Get("/info", s.UserInfoHandler)
		r.Get("/storage", s.StorageInfoHandler)
		r.Get("/files", s.UserFilesHandler)
		r.Get("/exits", s.FileExistsHandler)
		r.Get("/download/*", s.UserDownloadHandler)
		r.Delete("/delete/*", s.UserDeleteHandler)
		r.Post("/upload", s.UserUploadHandler)
	})

	r.With(s.RequireUser).Get("/ws", s.ServeWsHandler)

	r.Get("/*", s.StaticHandler())

	return r
}
