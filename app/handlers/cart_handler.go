package handlers

import (
	"net/http"

	"github.com/Rakhulsr/go-storeadmin/app/services"
	"github.com/unrolled/render"
)

type CartHandler struct {
	render   *render.Render
	carts    *services.CartService
	pageSize int
}

func NewCartHandler(r *render.Render, carts *services.CartService, pageSize int) *CartHandler {
	return &CartHandler{render: r, carts: carts, pageSize: pageSize}
}

func (h *CartHandler) List(w http.ResponseWriter, r *http.Request) {
	params, page := listRequest(r, h.pageSize)
	carts, total, err := h.carts.ListCarts(r.Context(), params)
	if err != nil {
		WriteError(h.render, w, err)
		return
	}
	writePage(h.render, w, r, page, total, carts)
}

func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		WriteError(h.render, w, err)
		return
	}
	cart, err := h.carts.GetCart(r.Context(), id)
	if err != nil {
		WriteError(h.render, w, err)
		return
	}
	_ = h.render.JSON(w, http.StatusOK, cart)
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var in services.AddCartItemInput
	if err := decodeJSON(r, &in); err != nil {
		WriteError(h.render, w, err)
		return
	}
	cart, err := h.carts.AddItem(r.Context(), in)
	if err != nil {
		WriteError(h.render, w, err)
		return
	}
	_ = h.render.JSON(w, http.StatusOK, cart)
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		WriteError(h.render, w, err)
		return
	}
	itemID, err := pathID(r, "item_id")
	if err != nil {
		WriteError(h.render, w, err)
		return
	}
	cart, err := h.carts.RemoveItem(r.Context(), id, itemID)
	if err != nil {
		WriteError(h.render, w, err)
		return
	}
	_ = h.render.JSON(w, http.StatusOK, cart)
}

func (h *CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		WriteError(h.render, w, err)
		return
	}
	var in services.CheckoutInput
	if err := decodeJSON(r, &in); err != nil {
		WriteError(h.render, w, err)
		return
	}
	order, err := h.carts.Checkout(r.Context(), id, in)
	if err != nil {
		WriteError(h.render, w, err)
		return
	}
	_ = h.render.JSON(w, http.StatusCreated, order)
}
