package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	analyticscache "rollcall/internal/analytics/cache"
	analyticshandler "rollcall/internal/analytics/handler"
	analyticsservice "rollcall/internal/analytics/service"
	attendancehandler "rollcall/internal/attendance/handler"
	attendancemetrics "rollcall/internal/attendance/metrics"
	attendanceservice "rollcall/internal/attendance/service"
	courseshandler "rollcall/internal/courses/handler"
	coursesservice "rollcall/internal/courses/service"
	"rollcall/internal/identity/resolver"
	jwttoken "rollcall/internal/jwt_token"
	"rollcall/internal/platform/metrics"
	"rollcall/internal/platform/middleware"
	registrationhandler "rollcall/internal/registration/handler"
	"rollcall/pkg/platform/httputil"
	"rollcall/pkg/platform/middleware/admin"
	"rollcall/pkg/platform/middleware/auth"
	"rollcall/pkg/platform/middleware/metadata"
	"rollcall/pkg/platform/middleware/request"
	"rollcall/pkg/platform/middleware/requesttime"
	"rollcall/pkg/requestcontext"
)

const requestTimeout = 30 * time.Second

// newRouter wires services to handlers and mounts every route.
func newRouter(a *app) http.Handler {
	log := a.logger

	identities := resolver.New(a.index,
		resolver.WithThreshold(a.cfg.Match.Threshold),
		resolver.WithMetrics(a.identityMetrics),
	)
	attendance := attendanceservice.New(identities, a.ledger,
		attendanceservice.WithMetrics(attendancemetrics.New(a.metrics)),
		attendanceservice.WithLogger(log),
	)

	analyticsOpts := []analyticsservice.Option{analyticsservice.WithLogger(log)}
	if a.redis != nil && a.cfg.Analytics.CacheTTL > 0 {
		analyticsOpts = append(analyticsOpts,
			analyticsservice.WithCache(analyticscache.NewRedis(a.redis.Client, a.cfg.Analytics.CacheTTL,
				analyticscache.WithLogger(log))))
	}
	analytics := analyticsservice.New(a.ledger, analyticsOpts...)
	courses := coursesservice.New(a.ledger, coursesservice.WithLogger(log))

	attendanceHandler := attendancehandler.New(attendance, log)
	registrationHandler := registrationhandler.New(a.registration, log)
	analyticsHandler := analyticshandler.New(analytics, log)
	coursesHandler := courseshandler.New(courses, log)

	validator := jwttoken.NewJWTServiceAdapter(jwttoken.NewJWTService(a.cfg.JWT.SigningKey, a.cfg.JWT.Issuer))

	r := chi.NewRouter()
	r.Use(middleware.Recovery(log))
	r.Use(request.RequestID)
	r.Use(metadata.ClientMetadata)
	r.Use(middleware.Logger(log))
	r.Use(middleware.LatencyMiddleware(metrics.NewHTTP(a.metrics)))
	r.Use(requesttime.Middleware)

	r.Get("/healthz", a.handleHealth)
	r.Handle("/metrics", a.metrics.Handler())

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(requestTimeout))
		r.Use(middleware.ContentTypeJSON)
		r.Use(auth.RequireAuth(validator, log))

		attendanceHandler.Register(r)
		registrationHandler.Register(r)
		analyticsHandler.Register(r)
		coursesHandler.Register(r)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireRole(log, requestcontext.RoleHOD, requestcontext.RoleAdmin))
			analyticsHandler.RegisterHOD(r)
		})
	})

	// Reconcile can outlast the request timeout on large rosters.
	r.Group(func(r chi.Router) {
		r.Use(admin.RequireAdminToken(a.cfg.Admin.Token, log))
		registrationHandler.RegisterAdmin(r)
	})

	return r
}

// healthResponse reports dependency status.
type healthResponse struct {
	Status       string `json:"status"`
	IndexEntries int    `json:"index_entries"`
	Error        string `json:"error,omitempty"`
}

func (a *app) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	resp := healthResponse{Status: "ok", IndexEntries: a.index.Len()}

	err := a.ledger.Ping(ctx)
	if err == nil && a.redis != nil {
		err = a.redis.Health(ctx)
	}
	if err != nil {
		a.logger.WarnContext(ctx, "health check failed",
			"request_id", request.GetRequestID(ctx),
			"error", err,
		)
		resp.Status = "unavailable"
		resp.Error = err.Error()
		httputil.WriteJSON(w, http.StatusServiceUnavailable, resp)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}
