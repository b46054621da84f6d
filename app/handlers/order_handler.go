package handlers

import (
	"net/http"

	"github.com/Rakhulsr/go-storeadmin/app/repositories"
	"github.com/Rakhulsr/go-storeadmin/app/services"
	"github.com/unrolled/render"
)

type OrderHandler struct {
	render   *render.Render
	orders   *services.OrderService
	pageSize int
}

func NewOrderHandler(r *render.Render, orders *services.OrderService, pageSize int) *OrderHandler {
	return &OrderHandler{render: r, orders: orders, pageSize: pageSize}
}

type statusRequest struct {
	Status string `json:"status"`
}

func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	params, page := listRequest(r, h.pageSize)
	q := r.URL.Query()

	orders, total, err := h.orders.ListOrders(r.Context(), repositories.OrderFilter{
		ListParams: params,
		Complete:   queryBool(q, "complete"),
		Status:     q.Get("status"),
		UserID:     queryUint(q, "customer"),
	})
	if err != nil {
		WriteError(h.render, w, err)
		return
	}
	writePage(h.render, w, r, page, total, orders)
}

func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		WriteError(h.render, w, err)
		return
	}
	order, err := h.orders.GetOrder(r.Context(), id)
	if err != nil {
		WriteError(h.render, w, err)
		return
	}
	_ = h.render.JSON(w, http.StatusOK, order)
}

func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in services.OrderInput
	if err := decodeJSON(r, &in); err != nil {
		WriteError(h.render, w, err)
		return
	}
	order, err := h.orders.CreateOrder(r.Context(), in)
	if err != nil {
		WriteError(h.render, w, err)
		return
	}
	_ = h.render.JSON(w, http.StatusCreated, order)
}

// Update serves PUT and PATCH. Only order metadata is writable; lines keep the
// prices they were created with.
func (h *OrderHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		WriteError(h.render, w, err)
		return
	}
	var patch services.OrderPatch
	if err := decodeJSON(r, &patch); err != nil {
		WriteError(h.render, w, err)
		return
	}
	order, err := h.orders.UpdateOrder(r.Context(), id, patch)
	if err != nil {
		WriteError(h.render, w, err)
		return
	}
	_ = h.render.JSON(w, http.StatusOK, order)
}

func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		WriteError(h.render, w, err)
		return
	}
	var in statusRequest
	if err := decodeJSON(r, &in); err != nil {
		WriteError(h.render, w, err)
		return
	}
	order, err := h.orders.UpdateStatus(r.Context(), id, in.Status)
	if err != nil {
		WriteError(h.render, w, err)
		return
	}
	_ = h.render.JSON(w, http.StatusOK, order)
}

func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		WriteError(h.render, w, err)
		return
	}
	if err := h.orders.DeleteOrder(r.Context(), id); err != nil {
		WriteError(h.render, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *OrderHandler) Statistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.orders.Statistics(r.Context())
	if err != nil {
		WriteError(h.render, w, err)
		return
	}
	_ = h.render.JSON(w, http.StatusOK, stats)
}
