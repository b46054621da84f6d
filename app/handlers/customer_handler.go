package handlers

import (
	"net/http"

	"github.com/Rakhulsr/go-storeadmin/app/models"
	"github.com/Rakhulsr/go-storeadmin/app/services"
	"github.com/unrolled/render"
)

type CustomerHandler struct {
	render    *render.Render
	customers *services.CustomerService
	pageSize  int
}

func NewCustomerHandler(r *render.Render, customers *services.CustomerService, pageSize int) *CustomerHandler {
	return &CustomerHandler{render: r, customers: customers, pageSize: pageSize}
}

type ToggleActiveResponse struct {
	Message  string `json:"message"`
	IsActive bool   `json:"is_active"`
}

func (h *CustomerHandler) List(w http.ResponseWriter, r *http.Request) {
	params, page := listRequest(r, h.pageSize)
	customers, total, err := h.customers.ListCustomers(r.Context(), params)
	if err != nil {
		WriteError(h.render, w, err)
		return
	}
	writePage(h.render, w, r, page, total, customers)
}

func (h *CustomerHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		WriteError(h.render, w, err)
		return
	}
	customer, err := h.customers.GetCustomer(r.Context(), id)
	if err != nil {
		WriteError(h.render, w, err)
		return
	}
	_ = h.render.JSON(w, http.StatusOK, customer)
}

func (h *CustomerHandler) Orders(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		WriteError(h.render, w, err)
		return
	}
	orders, err := h.customers.CustomerOrders(r.Context(), id)
	if err != nil {
		WriteError(h.render, w, err)
		return
	}
	if orders == nil {
		orders = []models.Order{}
	}
	_ = h.render.JSON(w, http.StatusOK, orders)
}

func (h *CustomerHandler) ToggleActive(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		WriteError(h.render, w, err)
		return
	}
	customer, err := h.customers.ToggleActive(r.Context(), id)
	if err != nil {
		WriteError(h.render, w, err)
		return
	}

	message := "Customer deactivated"
	if customer.IsActive {
		message = "Customer activated"
	}
	_ = h.render.JSON(w, http.StatusOK, ToggleActiveResponse{Message: message, IsActive: customer.IsActive})
}
