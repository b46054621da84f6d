package admin

import (
	"log"
	"net/http"

	"github.com/Rakhulsr/go-storeadmin/app/handlers"
	"github.com/Rakhulsr/go-storeadmin/app/models"
	"github.com/Rakhulsr/go-storeadmin/app/models/other"
	"github.com/Rakhulsr/go-storeadmin/app/services"
)

type AdminCategoryPageData struct {
	other.BasePageData
	Categories []models.Category
}

type categoryForm struct {
	Name string `schema:"name"`
}

func (h *AdminHandler) GetCategoriesPage(w http.ResponseWriter, r *http.Request) {
	data := &AdminCategoryPageData{}
	h.populateBaseDataForAdmin(w, r, &data.BasePageData, "Categories")

	categories, err := h.catalog.AllCategories(r.Context())
	if err != nil {
		log.Printf("AdminHandler.GetCategoriesPage: failed to load categories: %v", err)
		data.Error = "Failed to load categories."
	}
	data.Categories = categories

	_ = h.render.HTML(w, http.StatusOK, "admin/categories", data)
}

func (h *AdminHandler) AddCategoryPost(w http.ResponseWriter, r *http.Request) {
	var form categoryForm
	if err := r.ParseForm(); err == nil {
		err = handlers.DecodeForm(&form, r.PostForm)
		if err != nil {
			log.Printf("AdminHandler.AddCategoryPost: failed to decode form: %v", err)
		}
	}

	category, err := h.catalog.CreateCategory(r.Context(), services.CategoryInput{Name: form.Name})
	if err != nil {
		h.redirectWithFlash(w, r, "/admin/categories", flashFor(err))
		return
	}
	h.redirectWithFlash(w, r, "/admin/categories", "Category "+category.Name+" created.")
}

func (h *AdminHandler) DeleteCategoryPost(w http.ResponseWriter, r *http.Request) {
	id, ok := routeID(r)
	if !ok {
		h.redirectWithFlash(w, r, "/admin/categories", "Category not found.")
		return
	}
	if err := h.catalog.DeleteCategory(r.Context(), id); err != nil {
		h.redirectWithFlash(w, r, "/admin/categories", flashFor(err))
		return
	}
	h.redirectWithFlash(w, r, "/admin/categories", "Category deleted.")
}
