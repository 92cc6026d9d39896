// Command loadgen drives concurrent checkouts against a running API server
// and verifies stock conservation: initial stock minus everything fulfilled
// must equal the final stock, and no product may oversell.
package main

import (
	"flag"
	"fmt"
	"log"
	"sync"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
)

type productOut struct {
	ID    string `json:"id"`
	Stock int    `json:"stock"`
}

type cartOut struct {
	ID string `json:"id"`
}

type purchaseOut struct {
	Status string `json:"status"`
	Ticket struct {
		Code   string          `json:"code"`
		Amount decimal.Decimal `json:"amount"`
	} `json:"ticket"`
	FailedProducts []struct {
		ProductID string `json:"product"`
		Quantity  int    `json:"quantity"`
		Reason    string `json:"reason"`
	} `json:"failed_products"`
}

func main() {
	baseURL := flag.String("base-url", "http://localhost:8080", "API base URL")
	carts := flag.Int("carts", 50, "number of carts checking out concurrently")
	stock := flag.Int("stock", 20, "initial stock of the contended product")
	quantity := flag.Int("quantity", 1, "quantity each cart requests")
	flag.Parse()

	client := resty.New().SetBaseURL(*baseURL)

	var product productOut
	resp, err := client.R().
		SetBody(map[string]any{
			"title":    "loadgen product",
			"code":     fmt.Sprintf("loadgen-%d", *stock),
			"price":    "9.99",
			"stock":    *stock,
			"category": "loadgen",
		}).
		SetResult(&product).
		Post("/products")
	if err != nil {
		log.Fatalf("create product: %v", err)
	}
	if resp.IsError() {
		log.Fatalf("create product: %s", resp.String())
	}

	cartIDs := make([]string, *carts)
	for i := range cartIDs {
		var cart cartOut
		resp, err := client.R().SetResult(&cart).Post("/carts")
		if err != nil || resp.IsError() {
			log.Fatalf("create cart %d: %v %s", i, err, resp.String())
		}
		cartIDs[i] = cart.ID

		resp, err = client.R().
			SetBody(map[string]any{"quantity": *quantity}).
			Post(fmt.Sprintf("/carts/%s/products/%s", cart.ID, product.ID))
		if err != nil || resp.IsError() {
			log.Fatalf("add product to cart %d: %v %s", i, err, resp.String())
		}
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		fulfilled int
		failed    int
	)

	for _, cartID := range cartIDs {
		wg.Add(1)
		go func(cartID string) {
			defer wg.Done()

			var out purchaseOut
			resp, err := client.R().
				SetBody(map[string]any{"purchaser": "loadgen@example.com"}).
				SetResult(&out).
				Post(fmt.Sprintf("/carts/%s/purchase", cartID))
			if err != nil {
				log.Printf("checkout %s: %v", cartID, err)
				return
			}

			mu.Lock()
			defer mu.Unlock()
			if resp.IsSuccess() && out.Status == "success" {
				fulfilled++
			} else {
				failed++
			}
		}(cartID)
	}
	wg.Wait()

	var final productOut
	resp, err = client.R().SetResult(&final).Get("/products/" + product.ID)
	if err != nil || resp.IsError() {
		log.Fatalf("read final stock: %v %s", err, resp.String())
	}

	expected := *stock - fulfilled*(*quantity)
	log.Printf("checkouts: fulfilled=%d failed=%d final_stock=%d expected_stock=%d",
		fulfilled, failed, final.Stock, expected)

	if final.Stock < 0 {
		log.Fatalf("FAIL: stock went negative (%d)", final.Stock)
	}
	if final.Stock != expected {
		log.Fatalf("FAIL: conservation violated: expected %d, got %d", expected, final.Stock)
	}
	log.Printf("OK: conservation holds")
}
