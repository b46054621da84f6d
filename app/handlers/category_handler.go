package handlers

import (
	"net/http"

	"github.com/Rakhulsr/go-storeadmin/app/services"
	"github.com/unrolled/render"
)

type CategoryHandler struct {
	render   *render.Render
	catalog  *services.CatalogService
	pageSize int
}

func NewCategoryHandler(r *render.Render, catalog *services.CatalogService, pageSize int) *CategoryHandler {
	return &CategoryHandler{render: r, catalog: catalog, pageSize: pageSize}
}

func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	params, page := listRequest(r, h.pageSize)
	categories, total, err := h.catalog.ListCategories(r.Context(), params)
	if err != nil {
		WriteError(h.render, w, err)
		return
	}
	writePage(h.render, w, r, page, total, categories)
}

func (h *CategoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		WriteError(h.render, w, err)
		return
	}
	category, err := h.catalog.GetCategory(r.Context(), id)
	if err != nil {
		WriteError(h.render, w, err)
		return
	}
	_ = h.render.JSON(w, http.StatusOK, category)
}

func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in services.CategoryInput
	if err := decodeJSON(r, &in); err != nil {
		WriteError(h.render, w, err)
		return
	}
	category, err := h.catalog.CreateCategory(r.Context(), in)
	if err != nil {
		WriteError(h.render, w, err)
		return
	}
	_ = h.render.JSON(w, http.StatusCreated, category)
}

// Update serves both PUT and PATCH; a category has a single writable field.
func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		WriteError(h.render, w, err)
		return
	}
	var in services.CategoryInput
	if err := decodeJSON(r, &in); err != nil {
		WriteError(h.render, w, err)
		return
	}
	category, err := h.catalog.UpdateCategory(r.Context(), id, in)
	if err != nil {
		WriteError(h.render, w, err)
		return
	}
	_ = h.render.JSON(w, http.StatusOK, category)
}

func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		WriteError(h.render, w, err)
		return
	}
	if err := h.catalog.DeleteCategory(r.Context(), id); err != nil {
		WriteError(h.render, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
