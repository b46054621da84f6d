package routes

import (
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/Rakhulsr/go-storeadmin/app/configs"
	"github.com/Rakhulsr/go-storeadmin/app/handlers"
	"github.com/Rakhulsr/go-storeadmin/app/handlers/admin"
	"github.com/Rakhulsr/go-storeadmin/app/middlewares"
	"github.com/Rakhulsr/go-storeadmin/app/repositories"
	"github.com/Rakhulsr/go-storeadmin/app/services"
	"github.com/Rakhulsr/go-storeadmin/app/utils/renderer"
	"github.com/Rakhulsr/go-storeadmin/app/utils/sessions"
	"github.com/gorilla/csrf"
	gorillahandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

const idPattern = "{id:[0-9]+}"

// handle registers a path with and without its trailing slash; a redirect
// would turn POST and PATCH calls into GETs.
func handle(r *mux.Router, path string, h http.HandlerFunc, methods ...string) {
	path = strings.TrimSuffix(path, "/")
	r.HandleFunc(path, h).Methods(methods...)
	r.HandleFunc(path+"/", h).Methods(methods...)
}

func NewRouter(db *gorm.DB, store services.ImageStore, env configs.ENV, keys *configs.SessionKeys) http.Handler {
	rnd := renderer.New(renderer.Options{
		Directory:      env.TemplatesDir,
		CurrencySymbol: env.CurrencySymbol,
		IsDevelopment:  !env.IsProduction(),
	})

	productRepo := repositories.NewProductRepository(db)
	userRepo := repositories.NewUserRepository(db)
	orderRepo := repositories.NewOrderRepository(db)

	authSvc := services.NewAuthService(db, userRepo, repositories.NewRefreshTokenRepository(db), services.AuthConfig{
		Secret:     []byte(env.JWTSecret),
		AccessTTL:  env.AccessTokenTTL,
		RefreshTTL: env.RefreshTokenTTL,
	})
	catalogSvc := services.NewCatalogService(db, productRepo, repositories.NewCategoryRepository(db),
		repositories.NewProductImageRepository(db), store)
	orderSvc := services.NewOrderService(db, orderRepo, repositories.NewOrderItemRepository(db),
		repositories.NewShippingAddressRepository(db), productRepo, userRepo)
	customerSvc := services.NewCustomerService(userRepo, orderRepo)
	reviewSvc := services.NewReviewService(repositories.NewReviewRepository(db), productRepo, userRepo)
	cartSvc := services.NewCartService(db, repositories.NewCartRepository(db), repositories.NewCartItemRepository(db),
		productRepo, userRepo, orderSvc)
	dashboardSvc := services.NewDashboardService(repositories.NewDashboardRepository(db), orderRepo, productRepo)

	authHandler := handlers.NewAuthHandler(rnd, authSvc)
	categoryHandler := handlers.NewCategoryHandler(rnd, catalogSvc, env.PageSize)
	productHandler := handlers.NewProductHandler(rnd, catalogSvc, env.PageSize)
	orderHandler := handlers.NewOrderHandler(rnd, orderSvc, env.PageSize)
	customerHandler := handlers.NewCustomerHandler(rnd, customerSvc, env.PageSize)
	reviewHandler := handlers.NewReviewHandler(rnd, reviewSvc, env.PageSize)
	cartHandler := handlers.NewCartHandler(rnd, cartSvc, env.PageSize)
	dashboardHandler := handlers.NewDashboardHandler(rnd, dashboardSvc)

	limiter := middlewares.NewIPRateLimiter(env.AuthRateLimit)

	router := mux.NewRouter()
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = rnd.JSON(w, http.StatusNotFound, handlers.ErrorResponse{Error: "Not found."})
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = rnd.JSON(w, http.StatusMethodNotAllowed, handlers.ErrorResponse{Error: "Method not allowed."})
	})

	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		_ = rnd.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	// auth
	authRouter := router.PathPrefix("/auth").Subrouter()
	throttled := authRouter.NewRoute().Subrouter()
	throttled.Use(limiter.Middleware(rnd))
	handle(throttled, "/login", authHandler.Login, http.MethodPost)
	handle(throttled, "/refresh", authHandler.Refresh, http.MethodPost)
	handle(authRouter, "/logout", authHandler.Logout, http.MethodPost)

	me := authRouter.NewRoute().Subrouter()
	me.Use(middlewares.BearerAuth(rnd, authSvc))
	handle(me, "/me", authHandler.Me, http.MethodGet)
	handle(me, "/logout_all", authHandler.LogoutAll, http.MethodPost)

	// api
	api := router.PathPrefix("/api").Subrouter()
	api.Use(middlewares.BearerAuth(rnd, authSvc))

	handle(api, "/categories", categoryHandler.List, http.MethodGet)
	handle(api, "/categories", categoryHandler.Create, http.MethodPost)
	handle(api, "/categories/"+idPattern, categoryHandler.Get, http.MethodGet)
	handle(api, "/categories/"+idPattern, categoryHandler.Update, http.MethodPut, http.MethodPatch)
	handle(api, "/categories/"+idPattern, categoryHandler.Delete, http.MethodDelete)

	handle(api, "/products", productHandler.List, http.MethodGet)
	handle(api, "/products", productHandler.Create, http.MethodPost)
	handle(api, "/products/statistics", productHandler.Statistics, http.MethodGet)
	handle(api, "/products/export", productHandler.Export, http.MethodGet)
	handle(api, "/products/bulk_update", productHandler.BulkUpdate, http.MethodPost)
	handle(api, "/products/"+idPattern, productHandler.Get, http.MethodGet)
	handle(api, "/products/"+idPattern, productHandler.Replace, http.MethodPut)
	handle(api, "/products/"+idPattern, productHandler.Patch, http.MethodPatch)
	handle(api, "/products/"+idPattern, productHandler.Delete, http.MethodDelete)
	handle(api, "/products/"+idPattern+"/upload_images", productHandler.UploadImages, http.MethodPost)
	handle(api, "/products/"+idPattern+"/images/{image_id:[0-9]+}/main", productHandler.SetMainImage, http.MethodPut, http.MethodPost)
	handle(api, "/products/"+idPattern+"/images/{image_id:[0-9]+}", productHandler.DeleteImage, http.MethodDelete)

	handle(api, "/orders", orderHandler.List, http.MethodGet)
	handle(api, "/orders", orderHandler.Create, http.MethodPost)
	handle(api, "/orders/statistics", orderHandler.Statistics, http.MethodGet)
	handle(api, "/orders/"+idPattern, orderHandler.Get, http.MethodGet)
	handle(api, "/orders/"+idPattern, orderHandler.Update, http.MethodPut, http.MethodPatch)
	handle(api, "/orders/"+idPattern, orderHandler.Delete, http.MethodDelete)
	handle(api, "/orders/"+idPattern+"/update_status", orderHandler.UpdateStatus, http.MethodPatch, http.MethodPost)

	handle(api, "/customers", customerHandler.List, http.MethodGet)
	handle(api, "/customers/"+idPattern, customerHandler.Get, http.MethodGet)
	handle(api, "/customers/"+idPattern+"/orders", customerHandler.Orders, http.MethodGet)
	handle(api, "/customers/"+idPattern+"/toggle_active", customerHandler.ToggleActive, http.MethodPatch, http.MethodPost)

	handle(api, "/reviews", reviewHandler.List, http.MethodGet)
	handle(api, "/reviews", reviewHandler.Create, http.MethodPost)
	handle(api, "/reviews/"+idPattern, reviewHandler.Get, http.MethodGet)
	handle(api, "/reviews/"+idPattern, reviewHandler.Update, http.MethodPut, http.MethodPatch)
	handle(api, "/reviews/"+idPattern, reviewHandler.Delete, http.MethodDelete)

	handle(api, "/carts", cartHandler.List, http.MethodGet)
	handle(api, "/carts/items", cartHandler.AddItem, http.MethodPost)
	handle(api, "/carts/"+idPattern, cartHandler.Get, http.MethodGet)
	handle(api, "/carts/"+idPattern+"/items/{item_id:[0-9]+}", cartHandler.RemoveItem, http.MethodDelete)
	handle(api, "/carts/"+idPattern+"/checkout", cartHandler.Checkout, http.MethodPost)

	handle(api, "/dashboard/overview", dashboardHandler.Overview, http.MethodGet)
	handle(api, "/dashboard/recent_orders", dashboardHandler.RecentOrders, http.MethodGet)
	handle(api, "/dashboard/top_products", dashboardHandler.TopProducts, http.MethodGet)

	// admin ui
	sessionStore := sessions.NewCookieSessionStore(env.IsProduction(), keys.AuthKey, keys.EncKey)
	adminHandler := admin.NewAdminHandler(rnd, sessionStore, authSvc, catalogSvc, orderSvc, customerSvc, dashboardSvc, env.PageSize)

	router.Handle("/admin", http.RedirectHandler("/admin/", http.StatusMovedPermanently))
	adminRouter := router.PathPrefix("/admin").Subrouter()
	adminRouter.Use(csrf.Protect(
		keys.AuthKey[:32],
		csrf.Secure(env.IsProduction()),
		csrf.Path("/admin"),
		csrf.ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log.Printf("NewRouter: CSRF check failed on %s %s: %v", r.Method, r.URL.Path, csrf.FailureReason(r))
			http.Error(w, "Forbidden - CSRF token invalid", http.StatusForbidden)
		})),
	))

	adminRouter.HandleFunc("/login", adminHandler.LoginPage).Methods(http.MethodGet)
	adminRouter.Handle("/login", limiter.Middleware(rnd)(http.HandlerFunc(adminHandler.LoginPost))).Methods(http.MethodPost)
	adminRouter.HandleFunc("/logout", adminHandler.LogoutPost).Methods(http.MethodPost)

	panel := adminRouter.NewRoute().Subrouter()
	panel.Use(middlewares.AdminAuthMiddleware(sessionStore, authSvc))
	panel.HandleFunc("/", adminHandler.GetDashboard).Methods(http.MethodGet)
	panel.HandleFunc("/products", adminHandler.GetProductsPage).Methods(http.MethodGet)
	panel.HandleFunc("/products/bulk", adminHandler.BulkUpdateProductsPost).Methods(http.MethodPost)
	panel.HandleFunc("/products/export", adminHandler.ExportProducts).Methods(http.MethodGet)
	panel.HandleFunc("/categories", adminHandler.GetCategoriesPage).Methods(http.MethodGet)
	panel.HandleFunc("/categories", adminHandler.AddCategoryPost).Methods(http.MethodPost)
	panel.HandleFunc("/categories/"+idPattern, adminHandler.DeleteCategoryPost).Methods(http.MethodDelete)
	panel.HandleFunc("/orders", adminHandler.GetOrdersPage).Methods(http.MethodGet)
	panel.HandleFunc("/orders/"+idPattern+"/status", adminHandler.UpdateOrderStatusPost).Methods(http.MethodPost)
	panel.HandleFunc("/orders/"+idPattern+"/paid", adminHandler.UpdateOrderPaidPost).Methods(http.MethodPost)
	panel.HandleFunc("/customers", adminHandler.GetCustomersPage).Methods(http.MethodGet)
	panel.HandleFunc("/customers/"+idPattern+"/toggle", adminHandler.ToggleCustomerPost).Methods(http.MethodPost)

	var h http.Handler = router
	h = middlewares.MethodOverrideMiddleware(h)
	h = gorillahandlers.CORS(
		gorillahandlers.AllowedOrigins(env.CORSOrigins),
		gorillahandlers.AllowedMethods([]string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}),
		gorillahandlers.AllowedHeaders([]string{"Authorization", "Content-Type", "X-Requested-With"}),
	)(h)
	h = middlewares.Recoverer(rnd)(h)
	h = gorillahandlers.CombinedLoggingHandler(os.Stdout, h)
	// X-Forwarded-For is only honoured behind a proxy that overwrites it;
	// otherwise clients could pick their own rate limit key.
	if env.BehindProxy {
		h = gorillahandlers.ProxyHeaders(h)
	}
	return h
}
