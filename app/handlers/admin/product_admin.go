package admin

import (
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/Rakhulsr/go-storeadmin/app/handlers"
	"github.com/Rakhulsr/go-storeadmin/app/helpers"
	"github.com/Rakhulsr/go-storeadmin/app/models"
	"github.com/Rakhulsr/go-storeadmin/app/models/other"
	"github.com/Rakhulsr/go-storeadmin/app/repositories"
	"github.com/Rakhulsr/go-storeadmin/app/services"
)

type AdminProductPageData struct {
	other.BasePageData
	Page       helpers.Page[models.Product]
	Search     string
	Categories []models.Category
}

// bulkFlagForm is posted by the product table: the checked rows plus the flag
// to switch and its new value.
type bulkFlagForm struct {
	IDs   []uint `schema:"ids"`
	Flag  string `schema:"flag"`
	Value bool   `schema:"value"`
}

func (f bulkFlagForm) input() (services.BulkUpdateInput, error) {
	in := services.BulkUpdateInput{IDs: f.IDs}
	value := f.Value
	switch f.Flag {
	case "is_featured":
		in.IsFeatured = &value
	case "is_new_arrival":
		in.IsNewArrival = &value
	case "is_best_seller":
		in.IsBestSeller = &value
	default:
		return in, services.NewValidationError(map[string]string{"flag": "Choose a flag to update."})
	}
	return in, nil
}

func (h *AdminHandler) GetProductsPage(w http.ResponseWriter, r *http.Request) {
	data := &AdminProductPageData{}
	h.populateBaseDataForAdmin(w, r, &data.BasePageData, "Products")

	q := r.URL.Query()
	data.Search = strings.TrimSpace(q.Get("search"))
	page := helpers.ParsePageRequest(q, h.pageSize)

	products, total, err := h.catalog.ListProducts(r.Context(), repositories.ProductFilter{
		ListParams: repositories.ListParams{
			Search: data.Search,
			Limit:  page.Size,
			Offset: page.Offset(),
		},
	})
	if err != nil {
		log.Printf("AdminHandler.GetProductsPage: failed to list products: %v", err)
		data.Error = "Failed to load products."
	}
	data.Page = helpers.NewPage(r.URL, page, total, products)

	if data.Categories, err = h.catalog.AllCategories(r.Context()); err != nil {
		log.Printf("AdminHandler.GetProductsPage: failed to load categories: %v", err)
	}

	_ = h.render.HTML(w, http.StatusOK, "admin/products", data)
}

func (h *AdminHandler) BulkUpdateProductsPost(w http.ResponseWriter, r *http.Request) {
	back := "/admin/products"
	if ref := r.Referer(); strings.Contains(ref, "/admin/products") {
		back = ref
	}

	if err := r.ParseForm(); err != nil {
		h.redirectWithFlash(w, r, back, "Could not read the submitted form.")
		return
	}
	var form bulkFlagForm
	if err := handlers.DecodeForm(&form, r.PostForm); err != nil {
		log.Printf("AdminHandler.BulkUpdateProductsPost: failed to decode form: %v", err)
		h.redirectWithFlash(w, r, back, "Could not read the submitted form.")
		return
	}
	if len(form.IDs) == 0 {
		h.redirectWithFlash(w, r, back, "Select at least one product.")
		return
	}

	in, err := form.input()
	if err != nil {
		h.redirectWithFlash(w, r, back, flashFor(err))
		return
	}
	count, err := h.catalog.BulkUpdateFlags(r.Context(), in)
	if err != nil {
		h.redirectWithFlash(w, r, back, flashFor(err))
		return
	}
	h.redirectWithFlash(w, r, back, fmt.Sprintf("Updated %d products", count))
}

func (h *AdminHandler) ExportProducts(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="products.xlsx"`)
	if err := h.catalog.ExportProducts(r.Context(), w); err != nil {
		log.Printf("AdminHandler.ExportProducts: export failed: %v", err)
		w.Header().Del("Content-Disposition")
		h.redirectWithFlash(w, r, "/admin/products", "Export failed.")
	}
}
