package admin

import (
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/Rakhulsr/go-storeadmin/app/handlers"
	"github.com/Rakhulsr/go-storeadmin/app/helpers"
	"github.com/Rakhulsr/go-storeadmin/app/models"
	"github.com/Rakhulsr/go-storeadmin/app/models/other"
	"github.com/Rakhulsr/go-storeadmin/app/repositories"
	"github.com/gorilla/mux"
)

type AdminOrderPageData struct {
	other.BasePageData
	Page   helpers.Page[models.Order]
	Search string
	Status string
}

type orderStatusForm struct {
	Status string `schema:"status"`
}

type orderPaidForm struct {
	IsPaid bool `schema:"is_paid"`
}

func (h *AdminHandler) GetOrdersPage(w http.ResponseWriter, r *http.Request) {
	data := &AdminOrderPageData{}
	h.populateBaseDataForAdmin(w, r, &data.BasePageData, "Orders")

	q := r.URL.Query()
	data.Search = strings.TrimSpace(q.Get("search"))
	data.Status = q.Get("status")
	if !models.IsValidOrderStatus(data.Status) {
		data.Status = ""
	}
	page := helpers.ParsePageRequest(q, h.pageSize)

	orders, total, err := h.orders.ListOrders(r.Context(), repositories.OrderFilter{
		ListParams: repositories.ListParams{
			Search:   data.Search,
			Ordering: "-date_ordered",
			Limit:    page.Size,
			Offset:   page.Offset(),
		},
		Status: data.Status,
	})
	if err != nil {
		log.Printf("AdminHandler.GetOrdersPage: failed to list orders: %v", err)
		data.Error = "Failed to load orders."
	}
	data.Page = helpers.NewPage(r.URL, page, total, orders)

	_ = h.render.HTML(w, http.StatusOK, "admin/orders", data)
}

func routeID(r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	return uint(id), err == nil && id > 0
}

func (h *AdminHandler) UpdateOrderStatusPost(w http.ResponseWriter, r *http.Request) {
	id, ok := routeID(r)
	if !ok {
		h.redirectWithFlash(w, r, "/admin/orders", "Order not found.")
		return
	}

	var form orderStatusForm
	if err := r.ParseForm(); err == nil {
		err = handlers.DecodeForm(&form, r.PostForm)
		if err != nil {
			log.Printf("AdminHandler.UpdateOrderStatusPost: failed to decode form: %v", err)
		}
	}

	order, err := h.orders.UpdateStatus(r.Context(), id, form.Status)
	if err != nil {
		h.redirectWithFlash(w, r, "/admin/orders", flashFor(err))
		return
	}
	h.redirectWithFlash(w, r, "/admin/orders", "Order "+order.OrderCode+" is now "+order.StatusLabel()+".")
}

func (h *AdminHandler) UpdateOrderPaidPost(w http.ResponseWriter, r *http.Request) {
	id, ok := routeID(r)
	if !ok {
		h.redirectWithFlash(w, r, "/admin/orders", "Order not found.")
		return
	}

	var form orderPaidForm
	if err := r.ParseForm(); err == nil {
		err = handlers.DecodeForm(&form, r.PostForm)
		if err != nil {
			log.Printf("AdminHandler.UpdateOrderPaidPost: failed to decode form: %v", err)
		}
	}

	order, err := h.orders.SetPaid(r.Context(), id, form.IsPaid)
	if err != nil {
		h.redirectWithFlash(w, r, "/admin/orders", flashFor(err))
		return
	}
	message := "Order " + order.OrderCode + " marked as unpaid."
	if order.IsPaid {
		message = "Order " + order.OrderCode + " marked as paid."
	}
	h.redirectWithFlash(w, r, "/admin/orders", message)
}
