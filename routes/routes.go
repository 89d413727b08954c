package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mbolis/quick-brief/app"
	"github.com/mbolis/quick-brief/log"
	"github.com/mbolis/quick-brief/routes/middlewares"
)

func Wire(app app.App) http.Handler {
	root := chi.NewRouter()
	root.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.RequestLogger(&middleware.DefaultLogFormatter{Logger: log.Logger, NoColor: true}),
		middleware.Recoverer,
	)

	root.Get("/health", Health(app))
	root.Mount("/api", apiRouter(app))

	root.
		With(middlewares.CookieAuth(app.BearerServer, app.RefreshTTL), middlewares.Admin(app.TokenSecret)).
		Mount("/admin", servePrivateFiles(app.PrivateDir, "/admin"))
	root.Mount("/", servePublicFiles(app.PublicDir))

	return root
}

func apiRouter(app app.App) http.Handler {
	api := chi.NewRouter()

	api.Get("/forms/{slug}", GetForm(app))

	api.Post("/submissions", CreateDraft(app))
	api.Get("/submissions/{id}", GetSubmission(app))
	api.Patch("/submissions/{id}", PatchSubmission(app))
	api.Post("/submissions/{id}/submit", SubmitSubmission(app))

	api.Route("/admin", func(r chi.Router) {
		r.Use(middlewares.Admin(app.TokenSecret))

		r.Get("/submissions", ListSubmissions(app))
		r.Get("/submissions/{id}", GetSubmissionDetails(app))
		r.Post("/submissions/{id}/review", ToggleReview(app))
		r.Delete("/submissions/{id}", DeleteSubmission(app))
	})

	api.Route("/auth", func(r chi.Router) {
		r.Post("/login", Login(app))
		r.Post("/refresh", Refresh(app))
	})

	return api
}

func servePublicFiles(dir string) http.Handler {
	return http.FileServer(http.Dir(dir))
}

func servePrivateFiles(dir, path string) http.Handler {
	return http.StripPrefix(path, http.FileServer(http.Dir(dir)))
}
