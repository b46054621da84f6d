package handlers

import (
	"net/http"

	"github.com/Rakhulsr/go-storeadmin/app/services"
	"github.com/unrolled/render"
)

type DashboardHandler struct {
	render    *render.Render
	dashboard *services.DashboardService
}

func NewDashboardHandler(r *render.Render, dashboard *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{render: r, dashboard: dashboard}
}

func (h *DashboardHandler) Overview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.dashboard.Overview(r.Context())
	if err != nil {
		WriteError(h.render, w, err)
		return
	}
	_ = h.render.JSON(w, http.StatusOK, overview)
}

func (h *DashboardHandler) RecentOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.dashboard.RecentOrders(r.Context())
	if err != nil {
		WriteError(h.render, w, err)
		return
	}
	_ = h.render.JSON(w, http.StatusOK, orders)
}

func (h *DashboardHandler) TopProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.dashboard.TopProducts(r.Context())
	if err != nil {
		WriteError(h.render, w, err)
		return
	}
	_ = h.render.JSON(w, http.StatusOK, products)
}
