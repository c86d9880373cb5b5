package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/healthpredict/healthpredict-backend/internal/health"
	"github.com/healthpredict/healthpredict-backend/internal/http/handler"
	"github.com/healthpredict/healthpredict-backend/internal/http/middleware"
	"github.com/healthpredict/healthpredict-backend/internal/http/response"
	"github.com/healthpredict/healthpredict-backend/internal/service"
)

type Dependencies struct {
	AuthHandler       *handler.AuthHandler
	ProfileHandler    *handler.ProfileHandler
	PredictionHandler *handler.PredictionHandler
	AuthService       service.AuthServiceInterface
	CORSOrigins       []string
	Readiness         *health.ProbeRunner
	EnableOTelHTTP    bool
}

func NewRouter(dep Dependencies) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.StructuredRequestLogger)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.CORS(dep.CORSOrigins))
	r.Use(middleware.BodyLimit(1 << 20))

	r.Get("/health/live", func(w http.ResponseWriter, r *http.Request) {
		response.JSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		if dep.Readiness == nil {
			response.JSON(w, r, http.StatusOK, map[string]any{"status": "ready", "checks": []any{}})
			return
		}
		ready, results := dep.Readiness.Ready(r.Context())
		if ready {
			response.JSON(w, r, http.StatusOK, map[string]any{"status": "ready", "checks": results})
			return
		}
		response.Error(w, r, http.StatusServiceUnavailable, "DEPENDENCY_UNREADY", "dependencies are not ready", map[string]any{"checks": results})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", dep.AuthHandler.SignUp)
			r.Post("/login", dep.AuthHandler.Login)
			r.Post("/verify", dep.AuthHandler.VerifyPasscode)
			r.Get("/session", dep.AuthHandler.Session)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(dep.AuthService))
			r.Get("/me", dep.ProfileHandler.Me)
			r.Route("/predictions", func(r chi.Router) {
				r.Post("/heart", dep.PredictionHandler.PredictHeart)
				r.Post("/cancer", dep.PredictionHandler.PredictCancer)
				r.Get("/history", dep.PredictionHandler.History)
			})
		})
	})

	var h http.Handler = r
	if dep.EnableOTelHTTP {
		h = otelhttp.NewHandler(r, "http.server")
	}
	return h
}
