package admin

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/Rakhulsr/go-storeadmin/app/handlers"
	"github.com/Rakhulsr/go-storeadmin/app/helpers"
	"github.com/Rakhulsr/go-storeadmin/app/models"
	"github.com/Rakhulsr/go-storeadmin/app/models/other"
	"github.com/Rakhulsr/go-storeadmin/app/repositories"
	"github.com/Rakhulsr/go-storeadmin/app/services"
	"github.com/Rakhulsr/go-storeadmin/app/utils/sessions"
	"github.com/gorilla/csrf"
	"github.com/unrolled/render"
)

type AdminHandler struct {
	render    *render.Render
	sessions  sessions.SessionStore
	auth      *services.AuthService
	catalog   *services.CatalogService
	orders    *services.OrderService
	customers *services.CustomerService
	dashboard *services.DashboardService
	pageSize  int
}

func NewAdminHandler(
	render *render.Render,
	sessions sessions.SessionStore,
	auth *services.AuthService,
	catalog *services.CatalogService,
	orders *services.OrderService,
	customers *services.CustomerService,
	dashboard *services.DashboardService,
	pageSize int,
) *AdminHandler {
	return &AdminHandler{
		render:    render,
		sessions:  sessions,
		auth:      auth,
		catalog:   catalog,
		orders:    orders,
		customers: customers,
		dashboard: dashboard,
		pageSize:  pageSize,
	}
}

type AdminPageData struct {
	other.BasePageData
	Overview     repositories.DashboardOverview
	RecentOrders []models.Order
	TopProducts  []models.Product
}

type LoginPageData struct {
	other.BasePageData
	Email string
}

type loginForm struct {
	Email    string `schema:"email"`
	Password string `schema:"password"`
}

func (h *AdminHandler) populateBaseDataForAdmin(w http.ResponseWriter, r *http.Request, base *other.BasePageData, title string) {
	base.Title = title
	base.CSRFField = csrf.TemplateField(r)
	base.Flashes = h.sessions.Flashes(w, r)
	base.Query = r.URL.Query()
	base.CurrentPath = r.URL.Path
	if user, ok := r.Context().Value(helpers.ContextKeyUser).(*models.User); ok {
		base.User = user
		base.IsLoggedIn = true
	}
}

func (h *AdminHandler) redirectWithFlash(w http.ResponseWriter, r *http.Request, path, message string) {
	if message != "" {
		if err := h.sessions.AddFlash(w, r, message); err != nil {
			log.Printf("AdminHandler.redirectWithFlash: failed to store flash: %v", err)
		}
	}
	http.Redirect(w, r, path, http.StatusSeeOther)
}

// flashFor turns a service error into a message safe to show to staff.
func flashFor(err error) string {
	var verr *services.ValidationError
	if errors.As(err, &verr) {
		parts := make([]string, 0, len(verr.Fields))
		for _, msg := range verr.Fields {
			parts = append(parts, msg)
		}
		return strings.Join(parts, " ")
	}
	if handlers.StatusFor(err) == http.StatusInternalServerError {
		return "Something went wrong. Please try again."
	}
	return err.Error()
}

func (h *AdminHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	data := &AdminPageData{}
	h.populateBaseDataForAdmin(w, r, &data.BasePageData, "Dashboard")

	ctx := r.Context()
	overview, err := h.dashboard.Overview(ctx)
	if err != nil {
		log.Printf("AdminHandler.GetDashboard: failed to load overview: %v", err)
		data.Error = "Failed to load statistics."
	}
	data.Overview = overview

	if data.RecentOrders, err = h.dashboard.RecentOrders(ctx); err != nil {
		log.Printf("AdminHandler.GetDashboard: failed to load recent orders: %v", err)
	}
	if data.TopProducts, err = h.dashboard.TopProducts(ctx); err != nil {
		log.Printf("AdminHandler.GetDashboard: failed to load top products: %v", err)
	}

	_ = h.render.HTML(w, http.StatusOK, "admin/dashboard", data)
}

func (h *AdminHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	if h.sessions.GetUserID(r) != 0 {
		http.Redirect(w, r, "/admin/", http.StatusFound)
		return
	}
	data := &LoginPageData{}
	h.populateBaseDataForAdmin(w, r, &data.BasePageData, "Sign in")
	_ = h.render.HTML(w, http.StatusOK, "admin/login", data)
}

func (h *AdminHandler) LoginPost(w http.ResponseWriter, r *http.Request) {
	var form loginForm
	if err := r.ParseForm(); err == nil {
		err = handlers.DecodeForm(&form, r.PostForm)
		if err != nil {
			log.Printf("AdminHandler.LoginPost: failed to decode form: %v", err)
		}
	}

	user, err := h.auth.CheckCredentials(r.Context(), services.LoginInput{
		Email:    strings.TrimSpace(form.Email),
		Password: form.Password,
	})
	if err != nil {
		data := &LoginPageData{Email: form.Email}
		h.populateBaseDataForAdmin(w, r, &data.BasePageData, "Sign in")

		status := http.StatusBadRequest
		switch {
		case errors.Is(err, services.ErrAccessDenied):
			data.Error = "Access denied. Admin privileges required."
		case errors.Is(err, services.ErrAccountDisabled):
			data.Error = "User account is disabled."
		case handlers.StatusFor(err) == http.StatusInternalServerError:
			log.Printf("AdminHandler.LoginPost: login failed: %v", err)
			data.Error = "Something went wrong. Please try again."
			status = http.StatusInternalServerError
		default:
			data.Error = "Invalid credentials"
		}
		_ = h.render.HTML(w, status, "admin/login", data)
		return
	}

	if err := h.sessions.SetUserID(w, r, user.ID); err != nil {
		log.Printf("AdminHandler.LoginPost: failed to save session for user %d: %v", user.ID, err)
		http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
		return
	}
	log.Printf("AdminHandler.LoginPost: ✅ %s signed in to the admin panel", user.Email)
	h.redirectWithFlash(w, r, "/admin/", "Welcome back, "+user.DisplayName()+".")
}

func (h *AdminHandler) LogoutPost(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.ClearSession(w, r); err != nil {
		log.Printf("AdminHandler.LogoutPost: failed to clear session: %v", err)
	}
	http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
}
