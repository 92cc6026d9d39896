package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/Evva88/FinalBack-Velli/internal/app"
	"github.com/Evva88/FinalBack-Velli/internal/domain"
	"github.com/shopspring/decimal"
)

// Requester identity comes from these headers; authentication itself lives
// in front of this service.
const (
	userIDHeader   = "X-User-Id"
	userRoleHeader = "X-User-Role"
)

// ProductManager is the minimal interface the product handlers need.
type ProductManager interface {
	CreateProduct(ctx context.Context, in app.CreateProductInput) (domain.Product, error)
	GetProduct(ctx context.Context, productID string) (domain.Product, error)
	ListProducts(ctx context.Context) ([]domain.Product, error)
	UpdateProduct(ctx context.Context, productID string, in app.UpdateProductInput) (domain.Product, error)
	DeleteProduct(ctx context.Context, in app.DeleteProductInput) error
}

// HandleProducts serves POST /products and GET /products.
func HandleProducts(svc ProductManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			createProduct(w, r, svc)
		case http.MethodGet:
			listProducts(w, r, svc)
		default:
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
		}
	}
}

// HandleProductByID serves GET/PUT/DELETE /products/{pid}.
func HandleProductByID(svc ProductManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, ok := parseProductPath(r.URL.Path)
		if !ok {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}

		switch r.Method {
		case http.MethodGet:
			product, err := svc.GetProduct(r.Context(), productID)
			if err != nil {
				writeServiceError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, productResponseFrom(product))
		case http.MethodPut:
			updateProduct(w, r, svc, productID)
		case http.MethodDelete:
			err := svc.DeleteProduct(r.Context(), app.DeleteProductInput{
				ProductID:     productID,
				RequesterID:   r.Header.Get(userIDHeader),
				RequesterRole: r.Header.Get(userRoleHeader),
			})
			if err != nil {
				writeServiceError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		default:
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
		}
	}
}

func createProduct(w http.ResponseWriter, r *http.Request, svc ProductManager) {
	var req createProductRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
		return
	}

	product, err := svc.CreateProduct(r.Context(), app.CreateProductInput{
		Title:       req.Title,
		Description: req.Description,
		Code:        req.Code,
		Price:       req.Price,
		Status:      req.Status,
		Stock:       req.Stock,
		Category:    req.Category,
		Thumbnail:   req.Thumbnail,
		Owner:       r.Header.Get(userIDHeader),
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, productResponseFrom(product))
}

func listProducts(w http.ResponseWriter, r *http.Request, svc ProductManager) {
	products, err := svc.ListProducts(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	out := make([]productResponse, 0, len(products))
	for _, p := range products {
		out = append(out, productResponseFrom(p))
	}
	writeJSON(w, http.StatusOK, out)
}

func updateProduct(w http.ResponseWriter, r *http.Request, svc ProductManager, productID string) {
	var req updateProductRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
		return
	}

	product, err := svc.UpdateProduct(r.Context(), productID, app.UpdateProductInput{
		Title:       req.Title,
		Description: req.Description,
		Code:        req.Code,
		Price:       req.Price,
		Status:      req.Status,
		Stock:       req.Stock,
		Category:    req.Category,
		Thumbnail:   req.Thumbnail,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, productResponseFrom(product))
}

func parseProductPath(path string) (string, bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) != 2 || parts[0] != "products" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

type createProductRequest struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Code        string          `json:"code"`
	Price       decimal.Decimal `json:"price"`
	Status      *bool           `json:"status"`
	Stock       int             `json:"stock"`
	Category    string          `json:"category"`
	Thumbnail   string          `json:"thumbnail"`
}

type updateProductRequest struct {
	Title       *string          `json:"title"`
	Description *string          `json:"description"`
	Code        *string          `json:"code"`
	Price       *decimal.Decimal `json:"price"`
	Status      *bool            `json:"status"`
	Stock       *int             `json:"stock"`
	Category    *string          `json:"category"`
	Thumbnail   *string          `json:"thumbnail"`
}

type productResponse struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Code        string          `json:"code"`
	Price       decimal.Decimal `json:"price"`
	Status      bool            `json:"status"`
	Stock       int             `json:"stock"`
	Category    string          `json:"category"`
	Thumbnail   string          `json:"thumbnail"`
	Owner       string          `json:"owner,omitempty"`
}

func productResponseFrom(p domain.Product) productResponse {
	return productResponse{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Code:        p.Code,
		Price:       p.Price,
		Status:      p.Status,
		Stock:       p.Stock,
		Category:    p.Category,
		Thumbnail:   p.Thumbnail,
		Owner:       p.Owner,
	}
}
