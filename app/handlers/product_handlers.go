package handlers

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/Rakhulsr/go-storeadmin/app/repositories"
	"github.com/Rakhulsr/go-storeadmin/app/services"
	"github.com/unrolled/render"
)

type ProductHandler struct {
	render   *render.Render
	catalog  *services.CatalogService
	pageSize int
}

func NewProductHandler(r *render.Render, catalog *services.CatalogService, pageSize int) *ProductHandler {
	return &ProductHandler{render: r, catalog: catalog, pageSize: pageSize}
}

type BulkUpdateResponse struct {
	Message string `json:"message"`
	Count   int64  `json:"count"`
}

type UploadedImage struct {
	ID     uint   `json:"id"`
	URL    string `json:"url"`
	IsMain bool   `json:"is_main"`
}

type UploadImagesResponse struct {
	Success bool            `json:"success"`
	Images  []UploadedImage `json:"images"`
}

func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	params, page := listRequest(r, h.pageSize)
	q := r.URL.Query()

	products, total, err := h.catalog.ListProducts(r.Context(), repositories.ProductFilter{
		ListParams:   params,
		CategoryID:   queryUint(q, "category"),
		IsFeatured:   queryBool(q, "is_featured"),
		IsNewArrival: queryBool(q, "is_new_arrival"),
		IsBestSeller: queryBool(q, "is_best_seller"),
		Status:       q.Get("status"),
	})
	if err != nil {
		WriteError(h.render, w, err)
		return
	}
	writePage(h.render, w, r, page, total, products)
}

func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		WriteError(h.render, w, err)
		return
	}
	product, err := h.catalog.GetProduct(r.Context(), id)
	if err != nil {
		WriteError(h.render, w, err)
		return
	}
	_ = h.render.JSON(w, http.StatusOK, product)
}

// Create accepts JSON, or multipart form fields together with images. With
// multipart the first image becomes the main one unless is_main=false.
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var (
		in          services.ProductInput
		uploads     []services.ImageUpload
		firstIsMain bool
	)

	if isMultipart(r) {
		if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
			WriteError(h.render, w, badRequest("form", fmt.Sprintf("Malformed multipart body: %v", err)))
			return
		}
		var form productForm
		if err := DecodeForm(&form, r.MultipartForm.Value); err != nil {
			WriteError(h.render, w, err)
			return
		}
		var err error
		if in, err = form.input(); err != nil {
			WriteError(h.render, w, err)
			return
		}
		if uploads, err = readUploads(r.MultipartForm); err != nil {
			WriteError(h.render, w, err)
			return
		}
		firstIsMain = r.FormValue("is_main") == "" || form.IsMain
	} else if err := decodeJSON(r, &in); err != nil {
		WriteError(h.render, w, err)
		return
	}

	product, err := h.catalog.CreateProduct(r.Context(), in, uploads, firstIsMain)
	if err != nil {
		WriteError(h.render, w, err)
		return
	}
	_ = h.render.JSON(w, http.StatusCreated, product)
}

// Replace handles PUT: every writable field takes the submitted value.
func (h *ProductHandler) Replace(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		WriteError(h.render, w, err)
		return
	}
	var in services.ProductInput
	if err := decodeJSON(r, &in); err != nil {
		WriteError(h.render, w, err)
		return
	}
	product, err := h.catalog.UpdateProduct(r.Context(), id, in.AsPatch())
	if err != nil {
		WriteError(h.render, w, err)
		return
	}
	_ = h.render.JSON(w, http.StatusOK, product)
}

func (h *ProductHandler) Patch(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		WriteError(h.render, w, err)
		return
	}
	var patch services.ProductPatch
	if err := decodeJSON(r, &patch); err != nil {
		WriteError(h.render, w, err)
		return
	}
	product, err := h.catalog.UpdateProduct(r.Context(), id, patch)
	if err != nil {
		WriteError(h.render, w, err)
		return
	}
	_ = h.render.JSON(w, http.StatusOK, product)
}

func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		WriteError(h.render, w, err)
		return
	}
	if err := h.catalog.DeleteProduct(r.Context(), id); err != nil {
		WriteError(h.render, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ProductHandler) BulkUpdate(w http.ResponseWriter, r *http.Request) {
	var in services.BulkUpdateInput
	if err := decodeJSON(r, &in); err != nil {
		WriteError(h.render, w, err)
		return
	}
	count, err := h.catalog.BulkUpdateFlags(r.Context(), in)
	if err != nil {
		WriteError(h.render, w, err)
		return
	}
	_ = h.render.JSON(w, http.StatusOK, BulkUpdateResponse{
		Message: fmt.Sprintf("Updated %d products", count),
		Count:   count,
	})
}

func (h *ProductHandler) UploadImages(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		WriteError(h.render, w, err)
		return
	}
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		WriteError(h.render, w, badRequest("images", "No images provided."))
		return
	}
	uploads, err := readUploads(r.MultipartForm)
	if err != nil {
		WriteError(h.render, w, err)
		return
	}

	images, err := h.catalog.UploadImages(r.Context(), id, uploads, formBool(r, "is_main"))
	if err != nil {
		WriteError(h.render, w, err)
		return
	}

	resp := UploadImagesResponse{Success: true, Images: make([]UploadedImage, 0, len(images))}
	for _, img := range images {
		resp.Images = append(resp.Images, UploadedImage{ID: img.ID, URL: img.URL, IsMain: img.IsMain})
	}
	_ = h.render.JSON(w, http.StatusCreated, resp)
}

func (h *ProductHandler) SetMainImage(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		WriteError(h.render, w, err)
		return
	}
	imageID, err := pathID(r, "image_id")
	if err != nil {
		WriteError(h.render, w, err)
		return
	}
	image, err := h.catalog.SetMainImage(r.Context(), id, imageID)
	if err != nil {
		WriteError(h.render, w, err)
		return
	}
	_ = h.render.JSON(w, http.StatusOK, image)
}

func (h *ProductHandler) DeleteImage(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		WriteError(h.render, w, err)
		return
	}
	imageID, err := pathID(r, "image_id")
	if err != nil {
		WriteError(h.render, w, err)
		return
	}
	if err := h.catalog.DeleteImage(r.Context(), id, imageID); err != nil {
		WriteError(h.render, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ProductHandler) Statistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.catalog.Statistics(r.Context())
	if err != nil {
		WriteError(h.render, w, err)
		return
	}
	_ = h.render.JSON(w, http.StatusOK, stats)
}

func (h *ProductHandler) Export(w http.ResponseWriter, r *http.Request) {
	filename := fmt.Sprintf("products-%s.xlsx", time.Now().Format("20060102-150405"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if err := h.catalog.ExportProducts(r.Context(), w); err != nil {
		log.Printf("ProductHandler.Export: %v", err)
		w.Header().Del("Content-Disposition")
		WriteError(h.render, w, err)
	}
}
