package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/avalonfair/gatehouse/internal/gate/service"
	"github.com/avalonfair/gatehouse/internal/gate/store"
	"github.com/avalonfair/gatehouse/pkg/httpx"
	"github.com/avalonfair/gatehouse/pkg/slogx"

	_ "github.com/avalonfair/gatehouse/api/gate" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	adminToken   string
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store           store.Store
	SignupService   *service.SignupService
	InviteService   *service.InviteService
	SettingsService *service.SettingsService
}

func NewRouter(
	adminToken, buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		adminToken:   adminToken,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerSignup()
	r.registerInvites()
	r.registerSettings()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Gatehouse Signup Gating API
//	@version		0.1.0
//	@description	Gates account creation behind time-limited invite codes and single-use
//	@description	email verification codes, with per-email and per-origin rate limiting.
//
//	@contact.name				Avalon Fair Platform Team
//	@contact.url				https://github.com/avalonfair/gatehouse
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	AdminAuth
//	@in							header
//	@name						Authorization
//	@description				Static admin token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerSignup() {
	h := &SignupHandler{SignupService: r.SignupService}

	// Code issuance and verification are the abuse-sensitive paths; the
	// application-level windows still apply underneath these edge limits.
	r.Mux.Handle("POST /v1/signup/request-code",
		httpx.Chain(http.HandlerFunc(h.HandleRequestCode),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /v1/signup/verify-code",
		httpx.Chain(http.HandlerFunc(h.HandleVerifyCode),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /v1/signup/resend-code",
		httpx.Chain(http.HandlerFunc(h.HandleResendCode),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerInvites() {
	h := &InvitesHandler{InviteService: r.InviteService}

	admin := func(handler http.HandlerFunc) http.Handler {
		return httpx.Chain(handler,
			httpx.AdminAuth(r.adminToken),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		)
	}

	r.Mux.Handle("POST /v1/admin/invites", admin(h.HandleCreate))
	r.Mux.Handle("GET /v1/admin/invites", admin(h.HandleList))
	r.Mux.Handle("GET /v1/admin/invites/{id}", admin(h.HandleGet))
	r.Mux.Handle("PATCH /v1/admin/invites/{id}", admin(h.HandleUpdate))
	r.Mux.Handle("DELETE /v1/admin/invites/{id}", admin(h.HandleDelete))
	r.Mux.Handle("POST /v1/admin/invites/validate", admin(h.HandleValidate))
	r.Mux.Handle("GET /v1/admin/invites/{id}/link", admin(h.HandleLink))
}

func (r *Router) registerSettings() {
	h := &SettingsHandler{SettingsService: r.SettingsService}

	admin := func(handler http.HandlerFunc) http.Handler {
		return httpx.Chain(handler,
			httpx.AdminAuth(r.adminToken),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		)
	}

	r.Mux.Handle("GET /v1/admin/settings/invite-mode", admin(h.HandleGetInviteMode))
	r.Mux.Handle("PUT /v1/admin/settings/invite-mode", admin(h.HandleSetInviteMode))
	r.Mux.Handle("GET /v1/admin/settings/invite-requirements", admin(h.HandleGetRequirements))
	r.Mux.Handle("PUT /v1/admin/settings/invite-requirements", admin(h.HandleSetRequirements))

	// Public read of the safe subset so clients can render the right form.
	r.Mux.Handle("GET /v1/settings",
		httpx.Chain(http.HandlerFunc(h.HandlePublicSettings),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
