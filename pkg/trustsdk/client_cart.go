package trustsdk

import (
	"context"
	"net/http"
	"net/url"
)

// Cart lists the caller's cart, guest or account.
func (c *Client) Cart(ctx context.Context) (*CartResponse, error) {
	resp, err := c.send(ctx, http.MethodGet, "/v1/cart", nil)
	if err != nil {
		return nil, err
	}

	var cart CartResponse
	if err := decodeJSON(resp, &cart, http.StatusOK); err != nil {
		return nil, err
	}
	return &cart, nil
}

// AddCartItem adds quantity to a product line. A caller without a session
// is given a guest identity by the server.
func (c *Client) AddCartItem(ctx context.Context, productID string, quantity int) (*CartItem, error) {
	resp, err := c.send(ctx, http.MethodPost, "/v1/cart/items", AddCartItemRequest{
		ProductID: productID,
		Quantity:  quantity,
	})
	if err != nil {
		return nil, err
	}

	var item CartItem
	if err := decodeJSON(resp, &item, http.StatusOK); err != nil {
		return nil, err
	}
	return &item, nil
}

func (c *Client) RemoveCartItem(ctx context.Context, productID string) error {
	resp, err := c.send(ctx, http.MethodDelete, "/v1/cart/items/"+url.PathEscape(productID), nil)
	if err != nil {
		return err
	}
	return checkStatusNoContent(resp)
}
