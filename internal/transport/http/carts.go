package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/Evva88/FinalBack-Velli/internal/app"
	"github.com/Evva88/FinalBack-Velli/internal/domain"
)

// CartManager is the minimal interface the cart handlers need.
type CartManager interface {
	CreateCart(ctx context.Context) (domain.Cart, error)
	GetCart(ctx context.Context, cartID string) (domain.Cart, error)
	AddProduct(ctx context.Context, cartID, productID string, quantity int) (domain.Cart, error)
	UpdateQuantity(ctx context.Context, cartID, productID string, quantity int) (domain.Cart, error)
	ReplaceItems(ctx context.Context, cartID string, items []domain.LineItem) (domain.Cart, error)
	RemoveProduct(ctx context.Context, cartID, productID string) (domain.Cart, error)
	ClearCart(ctx context.Context, cartID string) error
}

// CheckoutRunner is the minimal interface needed to run a checkout.
type CheckoutRunner interface {
	Checkout(ctx context.Context, in app.CheckoutInput) (app.CheckoutResult, error)
}

// HandleCreateCart serves POST /carts.
func HandleCreateCart(svc CartManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		cart, err := svc.CreateCart(r.Context())
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, cartResponseFrom(cart))
	}
}

// HandleCartRoutes serves everything under /carts/{cid}: the cart itself,
// its per-product subroutes, and the purchase endpoint.
func HandleCartRoutes(carts CartManager, checkout CheckoutRunner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
		if len(parts) < 2 || parts[0] != "carts" || parts[1] == "" {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}
		cartID := parts[1]

		switch {
		case len(parts) == 2:
			handleCart(w, r, carts, cartID)
		case len(parts) == 3 && parts[2] == "purchase":
			handlePurchase(w, r, checkout, cartID)
		case len(parts) == 4 && parts[2] == "products" && parts[3] != "":
			handleCartProduct(w, r, carts, cartID, parts[3])
		default:
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
		}
	}
}

func handleCart(w http.ResponseWriter, r *http.Request, svc CartManager, cartID string) {
	switch r.Method {
	case http.MethodGet:
		cart, err := svc.GetCart(r.Context(), cartID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, cartResponseFrom(cart))

	case http.MethodPut:
		var req replaceItemsRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		items := make([]domain.LineItem, 0, len(req.Products))
		for _, p := range req.Products {
			items = append(items, domain.LineItem{ProductID: p.ProductID, Quantity: p.Quantity})
		}

		cart, err := svc.ReplaceItems(r.Context(), cartID, items)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, cartResponseFrom(cart))

	case http.MethodDelete:
		if err := svc.ClearCart(r.Context(), cartID); err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})

	default:
		writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
	}
}

func handleCartProduct(w http.ResponseWriter, r *http.Request, svc CartManager, cartID, productID string) {
	switch r.Method {
	case http.MethodPost:
		quantity := 1
		var req quantityRequest
		if err := decodeOptional(r.Body, &req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}
		if req.Quantity != nil {
			quantity = *req.Quantity
		}

		cart, err := svc.AddProduct(r.Context(), cartID, productID, quantity)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, cartResponseFrom(cart))

	case http.MethodPut:
		var req quantityRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil || req.Quantity == nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		cart, err := svc.UpdateQuantity(r.Context(), cartID, productID, *req.Quantity)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, cartResponseFrom(cart))

	case http.MethodDelete:
		cart, err := svc.RemoveProduct(r.Context(), cartID, productID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, cartResponseFrom(cart))

	default:
		writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
	}
}

func handlePurchase(w http.ResponseWriter, r *http.Request, svc CheckoutRunner, cartID string) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
		return
	}

	var req purchaseRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
		return
	}

	res, err := svc.Checkout(r.Context(), app.CheckoutInput{
		CartID:    cartID,
		Purchaser: req.Purchaser,
	})
	if err != nil {
		if errors.Is(err, domain.ErrNoItemsFulfilled) {
			writeJSON(w, http.StatusBadRequest, noItemsFulfilledResponse{
				Error:          domain.ErrNoItemsFulfilled.Error(),
				Code:           codeNoItemsFulfilled,
				FailedProducts: failedItemsFrom(res.Failed),
			})
			return
		}
		writeServiceError(w, err)
		return
	}

	resp := purchaseResponse{
		Status: "success",
		Ticket: ticketResponseFrom(res.Ticket),
	}
	if len(res.Failed) > 0 {
		resp.FailedProducts = failedItemsFrom(res.Failed)
	}
	writeJSON(w, http.StatusOK, resp)
}

// decodeOptional tolerates an empty body but rejects malformed JSON.
func decodeOptional(body io.Reader, dst any) error {
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil && err != io.EOF {
		return err
	}
	return nil
}

type replaceItemsRequest struct {
	Products []lineItemPayload `json:"products"`
}

type quantityRequest struct {
	Quantity *int `json:"quantity"`
}

type purchaseRequest struct {
	Purchaser string `json:"purchaser"`
}

type lineItemPayload struct {
	ProductID string `json:"product"`
	Quantity  int    `json:"quantity"`
}

type failedItemPayload struct {
	ProductID string `json:"product"`
	Quantity  int    `json:"quantity"`
	Reason    string `json:"reason"`
}

type cartResponse struct {
	ID       string            `json:"id"`
	Products []lineItemPayload `json:"products"`
}

type purchaseResponse struct {
	Status         string              `json:"status"`
	Ticket         ticketResponse      `json:"ticket"`
	FailedProducts []failedItemPayload `json:"failed_products,omitempty"`
}

type noItemsFulfilledResponse struct {
	Error          string              `json:"error"`
	Code           string              `json:"code"`
	FailedProducts []failedItemPayload `json:"failed_products"`
}

func cartResponseFrom(cart domain.Cart) cartResponse {
	products := make([]lineItemPayload, 0, len(cart.Items))
	for _, item := range cart.Items {
		products = append(products, lineItemPayload{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	return cartResponse{ID: cart.ID, Products: products}
}

func failedItemsFrom(failed []domain.FailedItem) []failedItemPayload {
	out := make([]failedItemPayload, 0, len(failed))
	for _, f := range failed {
		out = append(out, failedItemPayload{
			ProductID: f.ProductID,
			Quantity:  f.Quantity,
			Reason:    string(f.Reason),
		})
	}
	return out
}
