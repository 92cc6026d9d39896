package domain

import "errors"

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrCartNotFound      = errors.New("cart not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrNoItemsFulfilled  = errors.New("no items fulfilled")
	ErrPurchaserRequired = errors.New("purchaser required")
	ErrInvalidQuantity   = errors.New("invalid quantity")
	ErrInvalidID         = errors.New("invalid id")
	ErrTitleRequired     = errors.New("title required")
	ErrCodeRequired      = errors.New("code required")
	ErrCategoryRequired  = errors.New("category required")
	ErrInvalidPrice      = errors.New("invalid price")
	ErrInvalidStock      = errors.New("invalid stock")
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrCodeAlreadyExists = errors.New("product code already exists")
	ErrNotProductOwner   = errors.New("not the product owner")
	ErrProductNotInCart  = errors.New("product not in cart")
)
