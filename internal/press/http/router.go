package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/pressroomhq/pressroom/internal/press/assets"
	"github.com/pressroomhq/pressroom/internal/press/service"
	"github.com/pressroomhq/pressroom/internal/press/store"
	"github.com/pressroomhq/pressroom/pkg/httpx"
	"github.com/pressroomhq/pressroom/pkg/slogx"

	_ "github.com/pressroomhq/pressroom/api/press" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store  store.Store
	assets *assets.Store

	AuthService    *service.AuthService
	UserService    *service.UserService
	ArticleService *service.ArticleService
}

func NewRouter(
	buildVersion string,
	st store.Store,
	files *assets.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		assets:       files,
		logger:       logger,
	}

	// Default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerArticles()
	r.registerAdmin()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Pressroom API
//	@version		0.1.0
//	@description	Multi-user publishing service: public article feed, author dashboard and
//	@description	admin account management. Authentication uses opaque server-side session
//	@description	tokens; only a fingerprint of each token is stored.
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Opaque session token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	// POST /v1/auth/login - strict limit keyed on caller IP plus the
	// attempted username, so one address cannot hammer many accounts and
	// one account cannot be hammered from many addresses unnoticed.
	r.Mux.Handle("POST /v1/auth/login",
		httpx.Chain(&LoginHandler{AuthService: r.AuthService},
			httpx.RateLimitByIPAndJSONField(httpx.StrictLimit, "username"),
		),
	)

	r.Mux.Handle("POST /v1/auth/logout",
		httpx.Chain(&LogoutHandler{AuthService: r.AuthService},
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)

	me := &MeHandler{UserService: r.UserService}

	r.Mux.Handle("GET /v1/me",
		httpx.Chain(http.HandlerFunc(me.HandleGet),
			RequireSession(r.AuthService),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)

	// Password changes are strict: they verify the current password, so
	// they are a brute-force target too.
	r.Mux.Handle("PUT /v1/me/password",
		httpx.Chain(http.HandlerFunc(me.HandlePassword),
			RequireSession(r.AuthService),
			httpx.RateLimitByUser(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerArticles() {
	public := &PublicArticlesHandler{ArticleService: r.ArticleService}
	manage := &ArticlesHandler{ArticleService: r.ArticleService}
	dashboard := &DashboardHandler{ArticleService: r.ArticleService}

	r.Mux.Handle("GET /v1/articles",
		httpx.Chain(http.HandlerFunc(public.HandleList),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)

	// Single-article reads resolve the session when one is presented so
	// authors and admins can open their drafts.
	r.Mux.Handle("GET /v1/articles/{id}",
		httpx.Chain(http.HandlerFunc(public.HandleGet),
			OptionalSession(r.AuthService),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)

	r.Mux.Handle("GET /v1/dashboard/articles",
		httpx.Chain(dashboard,
			RequireSession(r.AuthService),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)

	r.Mux.Handle("POST /v1/articles",
		httpx.Chain(http.HandlerFunc(manage.HandleCreate),
			RequireSession(r.AuthService),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)

	r.Mux.Handle("PUT /v1/articles/{id}",
		httpx.Chain(http.HandlerFunc(manage.HandleUpdate),
			RequireSession(r.AuthService),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)

	r.Mux.Handle("DELETE /v1/articles/{id}",
		httpx.Chain(http.HandlerFunc(manage.HandleDelete),
			RequireSession(r.AuthService),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)

	r.Mux.Handle("GET /uploads/{name}",
		httpx.Chain(&UploadsHandler{Assets: r.assets},
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
}

func (r *Router) registerAdmin() {
	users := &AdminUsersHandler{UserService: r.UserService}
	stats := &AdminStatsHandler{Store: r.store}

	adminChain := func(h http.Handler) http.Handler {
		return httpx.Chain(h,
			RequireSession(r.AuthService),
			RequireAdmin(),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		)
	}

	r.Mux.Handle("GET /v1/admin/users", adminChain(http.HandlerFunc(users.HandleList)))
	r.Mux.Handle("POST /v1/admin/users", adminChain(http.HandlerFunc(users.HandleCreate)))
	r.Mux.Handle("PUT /v1/admin/users/{id}", adminChain(http.HandlerFunc(users.HandleUpdate)))
	r.Mux.Handle("DELETE /v1/admin/users/{id}", adminChain(http.HandlerFunc(users.HandleDelete)))
	r.Mux.Handle("GET /v1/admin/stats", adminChain(stats))
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store, r.assets))
}
