// Package redis implements the inventory store on Redis hashes. The stock
// check and decrement run as one Lua script, so they are atomic per product
// without any client-side locking.
package redis

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/Evva88/FinalBack-Velli/internal/domain"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

const (
	productKeyPrefix = "product:"
	productIndexKey  = "products"
	productCodesKey  = "product_codes"
)

// decrementScript returns the remaining stock, -1 when stock is short and
// -2 when the product does not exist.
var decrementScript = redis.NewScript(`
local stock = redis.call('HGET', KEYS[1], 'stock')
if not stock then
  return -2
end
if tonumber(stock) < tonumber(ARGV[1]) then
  return -1
end
return redis.call('HINCRBY', KEYS[1], 'stock', -tonumber(ARGV[1]))
`)

type InventoryStore struct {
	client *redis.Client
}

func NewInventoryStore(client *redis.Client) *InventoryStore {
	return &InventoryStore{client: client}
}

func productKey(productID string) string {
	return productKeyPrefix + productID
}

func (s *InventoryStore) CreateProduct(ctx context.Context, product domain.Product) error {
	ok, err := s.client.HSetNX(ctx, productCodesKey, product.Code, product.ID).Result()
	if err != nil {
		return fmt.Errorf("reserve product code: %w", err)
	}
	if !ok {
		return domain.ErrCodeAlreadyExists
	}

	if err := s.client.HSet(ctx, productKey(product.ID), productFields(product)).Err(); err != nil {
		return fmt.Errorf("create product: %w", err)
	}
	if err := s.client.SAdd(ctx, productIndexKey, product.ID).Err(); err != nil {
		return fmt.Errorf("index product: %w", err)
	}
	return nil
}

func (s *InventoryStore) GetProduct(ctx context.Context, productID string) (domain.Product, error) {
	fields, err := s.client.HGetAll(ctx, productKey(productID)).Result()
	if err != nil {
		return domain.Product{}, fmt.Errorf("get product: %w", err)
	}
	if len(fields) == 0 {
		return domain.Product{}, domain.ErrProductNotFound
	}
	return productFromFields(productID, fields)
}

func (s *InventoryStore) ListProducts(ctx context.Context) ([]domain.Product, error) {
	ids, err := s.client.SMembers(ctx, productIndexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	out := make([]domain.Product, 0, len(ids))
	for _, id := range ids {
		product, err := s.GetProduct(ctx, id)
		if err != nil {
			if errors.Is(err, domain.ErrProductNotFound) {
				continue
			}
			return nil, err
		}
		out = append(out, product)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (s *InventoryStore) UpdateProduct(ctx context.Context, product domain.Product) error {
	existing, err := s.GetProduct(ctx, product.ID)
	if err != nil {
		return err
	}

	if product.Code != existing.Code {
		ok, err := s.client.HSetNX(ctx, productCodesKey, product.Code, product.ID).Result()
		if err != nil {
			return fmt.Errorf("reserve product code: %w", err)
		}
		if !ok {
			return domain.ErrCodeAlreadyExists
		}
		if err := s.client.HDel(ctx, productCodesKey, existing.Code).Err(); err != nil {
			return fmt.Errorf("release product code: %w", err)
		}
	}

	if err := s.client.HSet(ctx, productKey(product.ID), productFields(product)).Err(); err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

func (s *InventoryStore) DeleteProduct(ctx context.Context, productID string) error {
	existing, err := s.GetProduct(ctx, productID)
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, productKey(productID))
	pipe.SRem(ctx, productIndexKey, productID)
	pipe.HDel(ctx, productCodesKey, existing.Code)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}

func (s *InventoryStore) DecrementStock(ctx context.Context, productID string, quantity int) error {
	if quantity <= 0 {
		return domain.ErrInvalidQuantity
	}

	res, err := decrementScript.Run(ctx, s.client, []string{productKey(productID)}, quantity).Int64()
	if err != nil {
		return fmt.Errorf("decrement stock: %w", err)
	}
	switch res {
	case -2:
		return domain.ErrProductNotFound
	case -1:
		return domain.ErrInsufficientStock
	default:
		return nil
	}
}

func productFields(p domain.Product) map[string]any {
	status := "0"
	if p.Status {
		status = "1"
	}
	return map[string]any{
		"title":       p.Title,
		"description": p.Description,
		"code":        p.Code,
		"price":       p.Price.String(),
		"status":      status,
		"stock":       p.Stock,
		"category":    p.Category,
		"thumbnail":   p.Thumbnail,
		"owner":       p.Owner,
	}
}

func productFromFields(productID string, fields map[string]string) (domain.Product, error) {
	price, err := decimal.NewFromString(fields["price"])
	if err != nil {
		return domain.Product{}, fmt.Errorf("parse product price: %w", err)
	}
	stock, err := strconv.Atoi(fields["stock"])
	if err != nil {
		return domain.Product{}, fmt.Errorf("parse product stock: %w", err)
	}

	return domain.Product{
		ID:          productID,
		Title:       fields["title"],
		Description: fields["description"],
		Code:        fields["code"],
		Price:       price,
		Status:      fields["status"] == "1",
		Stock:       stock,
		Category:    fields["category"],
		Thumbnail:   fields["thumbnail"],
		Owner:       fields["owner"],
	}, nil
}
