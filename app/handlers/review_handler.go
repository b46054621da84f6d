package handlers

import (
	"net/http"
	"strconv"

	"github.com/Rakhulsr/go-storeadmin/app/repositories"
	"github.com/Rakhulsr/go-storeadmin/app/services"
	"github.com/unrolled/render"
)

type ReviewHandler struct {
	render   *render.Render
	reviews  *services.ReviewService
	pageSize int
}

func NewReviewHandler(r *render.Render, reviews *services.ReviewService, pageSize int) *ReviewHandler {
	return &ReviewHandler{render: r, reviews: reviews, pageSize: pageSize}
}

func (h *ReviewHandler) List(w http.ResponseWriter, r *http.Request) {
	params, page := listRequest(r, h.pageSize)
	q := r.URL.Query()

	filter := repositories.ReviewFilter{ListParams: params, ProductID: queryUint(q, "product")}
	if rating, err := strconv.Atoi(q.Get("rating")); err == nil {
		filter.Rating = &rating
	}

	reviews, total, err := h.reviews.ListReviews(r.Context(), filter)
	if err != nil {
		WriteError(h.render, w, err)
		return
	}
	writePage(h.render, w, r, page, total, reviews)
}

func (h *ReviewHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		WriteError(h.render, w, err)
		return
	}
	review, err := h.reviews.GetReview(r.Context(), id)
	if err != nil {
		WriteError(h.render, w, err)
		return
	}
	_ = h.render.JSON(w, http.StatusOK, review)
}

func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in services.ReviewInput
	if err := decodeJSON(r, &in); err != nil {
		WriteError(h.render, w, err)
		return
	}
	review, err := h.reviews.CreateReview(r.Context(), in)
	if err != nil {
		WriteError(h.render, w, err)
		return
	}
	_ = h.render.JSON(w, http.StatusCreated, review)
}

// Update serves PUT and PATCH. The product and author of a review are fixed.
func (h *ReviewHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		WriteError(h.render, w, err)
		return
	}
	var patch services.ReviewPatch
	if err := decodeJSON(r, &patch); err != nil {
		WriteError(h.render, w, err)
		return
	}
	review, err := h.reviews.UpdateReview(r.Context(), id, patch)
	if err != nil {
		WriteError(h.render, w, err)
		return
	}
	_ = h.render.JSON(w, http.StatusOK, review)
}

func (h *ReviewHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		WriteError(h.render, w, err)
		return
	}
	if err := h.reviews.DeleteReview(r.Context(), id); err != nil {
		WriteError(h.render, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
