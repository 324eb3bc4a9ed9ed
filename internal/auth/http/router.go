package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/epargne/authd/internal/auth/service"
	"github.com/epargne/authd/internal/auth/store"
	"github.com/epargne/authd/pkg/httpx"
	"github.com/epargne/authd/pkg/jwtx"
	"github.com/epargne/authd/pkg/slogx"

	_ "github.com/epargne/authd/api/auth" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     *jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store       store.Store
	AuthService *service.AuthService
	UserService *service.UserService
}

func NewRouter(
	verifier *jwtx.Verifier,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerUsers()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Epargne Authentication Service API
//	@version		0.1.0
//	@description	Phone and password authentication with SMS one-time codes.
//	@description	Tokens are signed with EdDSA and carry the phone number as subject.
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT access token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	login := &LoginHandler{AuthService: r.AuthService, Logger: r.logger}
	register := &RegisterHandler{AuthService: r.AuthService, Logger: r.logger}
	sendOTP := &SendOTPHandler{AuthService: r.AuthService, Logger: r.logger}
	verifyOTP := &VerifyOTPHandler{AuthService: r.AuthService, Logger: r.logger}
	verifyPhone := &VerifyPhoneHandler{AuthService: r.AuthService, Logger: r.logger}
	forgot := &ForgotPasswordHandler{AuthService: r.AuthService, Logger: r.logger}
	reset := &ResetPasswordHandler{AuthService: r.AuthService, Logger: r.logger}

	// POST /login - strict rate limit by client IP; the per-account
	// lockout in the service layer covers distributed guessing.
	r.Mux.Handle("POST /v1/auth/login",
		httpx.Chain(login,
			httpx.RateLimitByIP(httpx.StrictLimit),
		))

	r.Mux.Handle("POST /v1/auth/register",
		httpx.Chain(register,
			httpx.RateLimitByIP(httpx.StrictLimit),
		))

	r.Mux.Handle("POST /v1/auth/verify-otp",
		httpx.Chain(verifyOTP,
			httpx.RateLimitByIP(httpx.StrictLimit),
		))

	r.Mux.Handle("POST /v1/auth/send-otp",
		httpx.Chain(sendOTP,
			httpx.RateLimitByIP(httpx.ModerateLimit),
		))

	r.Mux.Handle("POST /v1/auth/verify-phone",
		httpx.Chain(verifyPhone,
			httpx.RateLimitByIP(httpx.ModerateLimit),
		))

	r.Mux.Handle("POST /v1/auth/forgot-password",
		httpx.Chain(forgot,
			httpx.RateLimitByIP(httpx.ModerateLimit),
		))

	r.Mux.Handle("POST /v1/auth/reset-password",
		httpx.Chain(reset,
			httpx.RateLimitByIP(httpx.ModerateLimit),
		))
}

func (r *Router) registerUsers() {
	details := &UserDetailsHandler{UserService: r.UserService}
	currentID := &CurrentIDHandler{UserService: r.UserService}
	updatePassword := &UpdatePasswordHandler{UserService: r.UserService, Logger: r.logger}
	updateDetails := &UpdateDetailsHandler{UserService: r.UserService, Logger: r.logger}

	authn := httpx.AuthnMiddleware(r.verifier)

	r.Mux.Handle("GET /v1/user/details",
		httpx.Chain(details,
			authn,
			httpx.RateLimitByPhone(httpx.LenientLimit),
		))

	r.Mux.Handle("GET /v1/user/current-id",
		httpx.Chain(currentID,
			authn,
			httpx.RateLimitByPhone(httpx.LenientLimit),
		))

	r.Mux.Handle("PUT /v1/user/update-password",
		httpx.Chain(updatePassword,
			authn,
			httpx.RateLimitByPhone(httpx.StrictLimit),
		))

	r.Mux.Handle("PUT /v1/user/update/{id}",
		httpx.Chain(updateDetails,
			authn,
			httpx.RateLimitByPhone(httpx.ModerateLimit),
		))
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store, r.verifier))
}
