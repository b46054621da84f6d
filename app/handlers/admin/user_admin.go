package admin

import (
	"log"
	"net/http"
	"strings"

	"github.com/Rakhulsr/go-storeadmin/app/helpers"
	"github.com/Rakhulsr/go-storeadmin/app/models"
	"github.com/Rakhulsr/go-storeadmin/app/models/other"
	"github.com/Rakhulsr/go-storeadmin/app/repositories"
)

type AdminCustomerPageData struct {
	other.BasePageData
	Page   helpers.Page[models.User]
	Search string
}

func (h *AdminHandler) GetCustomersPage(w http.ResponseWriter, r *http.Request) {
	data := &AdminCustomerPageData{}
	h.populateBaseDataForAdmin(w, r, &data.BasePageData, "Customers")

	q := r.URL.Query()
	data.Search = strings.TrimSpace(q.Get("search"))
	page := helpers.ParsePageRequest(q, h.pageSize)

	customers, total, err := h.customers.ListCustomers(r.Context(), repositories.ListParams{
		Search:   data.Search,
		Ordering: "-date_joined",
		Limit:    page.Size,
		Offset:   page.Offset(),
	})
	if err != nil {
		log.Printf("AdminHandler.GetCustomersPage: failed to list customers: %v", err)
		data.Error = "Failed to load customers."
	}
	data.Page = helpers.NewPage(r.URL, page, total, customers)

	_ = h.render.HTML(w, http.StatusOK, "admin/customers", data)
}

func (h *AdminHandler) ToggleCustomerPost(w http.ResponseWriter, r *http.Request) {
	id, ok := routeID(r)
	if !ok {
		h.redirectWithFlash(w, r, "/admin/customers", "Customer not found.")
		return
	}

	customer, err := h.customers.ToggleActive(r.Context(), id)
	if err != nil {
		h.redirectWithFlash(w, r, "/admin/customers", flashFor(err))
		return
	}
	if customer.IsActive {
		h.redirectWithFlash(w, r, "/admin/customers", customer.Email+" activated.")
		return
	}
	h.redirectWithFlash(w, r, "/admin/customers", customer.Email+" deactivated.")
}
