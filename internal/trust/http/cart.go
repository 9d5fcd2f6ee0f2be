package http

import (
	"net/http"

	"github.com/jcarintoc/simple-applications-sub002/internal/trust/domain"
	"github.com/jcarintoc/simple-applications-sub002/internal/trust/service"
	"github.com/jcarintoc/simple-applications-sub002/pkg/httpx"
	"github.com/jcarintoc/simple-applications-sub002/pkg/trustsdk"
)

// CartHandler serves the reference cart owned by a guest or a subject.
type CartHandler struct {
	Carts *service.CartService
}

// HandleList godoc
//
//	@Summary		List the caller's cart
//	@Tags			Cart
//	@Produce		json
//	@Success		200	{object}	trustsdk.CartResponse
//	@Failure		500	{object}	trustsdk.APIError
//	@Router			/v1/cart [get].
func (h *CartHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	owner, ok := IdentityFromContext(r.Context()).Owner()
	if !ok {
		httpx.WriteJSON(w, http.StatusOK, trustsdk.CartResponse{Items: []trustsdk.CartItem{}})
		return
	}

	items, err := h.Carts.List(r.Context(), owner)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	resp := trustsdk.CartResponse{
		Owner: string(owner.Kind),
		Items: make([]trustsdk.CartItem, 0, len(items)),
	}
	for _, it := range items {
		resp.Items = append(resp.Items, toCartItem(it))
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

// HandleAdd godoc
//
//	@Summary		Add to the cart
//	@Description	Adds quantity of a product. A caller without a session gets a guest cookie.
//	@Description	Signed-in callers must send X-CSRF-Token.
//	@Tags			Cart
//	@Accept			json
//	@Produce		json
//	@Param			X-CSRF-Token	header		string						false	"CSRF token (required when authenticated)"
//	@Param			body			body		trustsdk.AddCartItemRequest	true	"product and quantity"
//	@Success		200				{object}	trustsdk.CartItem
//	@Failure		400				{object}	trustsdk.APIError
//	@Failure		403				{object}	trustsdk.APIError	"forbidden"
//	@Failure		500				{object}	trustsdk.APIError
//	@Router			/v1/cart/items [post].
func (h *CartHandler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	owner, ok := IdentityFromContext(r.Context()).Owner()
	if !ok {
		trustsdk.ErrUnauthenticated.WriteError(w)
		return
	}

	var req trustsdk.AddCartItemRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		trustsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	item, err := h.Carts.Add(r.Context(), owner, req.ProductID, req.Quantity)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toCartItem(item))
}

// HandleRemove godoc
//
//	@Summary		Remove a cart line
//	@Description	Signed-in callers must send X-CSRF-Token.
//	@Tags			Cart
//	@Param			productID		path	string	true	"product id"
//	@Param			X-CSRF-Token	header	string	false	"CSRF token (required when authenticated)"
//	@Success		204
//	@Failure		403	{object}	trustsdk.APIError	"forbidden"
//	@Failure		404	{object}	trustsdk.APIError	"not_found"
//	@Router			/v1/cart/items/{productID} [delete].
func (h *CartHandler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	owner, ok := IdentityFromContext(r.Context()).Owner()
	if !ok {
		trustsdk.ErrNotFound.WriteError(w)
		return
	}

	if err := h.Carts.Remove(r.Context(), owner, r.PathValue("productID")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func toCartItem(it domain.CartItem) trustsdk.CartItem {
	return trustsdk.CartItem{
		ProductID: it.ProductID,
		Quantity:  it.Quantity,
		UpdatedAt: it.UpdatedAt,
	}
}
