package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request types ---

type orderItemRequest struct {
	Name     string  `json:"name"     validate:"required"`
	Quantity int     `json:"quantity" validate:"required,min=1"`
	Price    float64 `json:"price"    validate:"gte=0"`
}

type createOrderRequest struct {
	Address string             `json:"address" validate:"required"`
	Items   []orderItemRequest `json:"items"   validate:"required,min=1,dive"`
	Total   float64            `json:"total"   validate:"gte=0"`
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending accepted rejected on-the-way delivered cancelled"`
}

// --- Response types ---
// These are intentionally separate from ports/domain types so the JSON
// contract is not coupled to internal service changes.

type orderItemResponse struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

type orderResponse struct {
	ID        string              `json:"id"`
	UserID    string              `json:"user_id"`
	Items     []orderItemResponse `json:"items"`
	Address   string              `json:"address"`
	Total     float64             `json:"total"`
	Status    string              `json:"status"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

// orderOwnerResponse mirrors the owner fields joined onto each row of the
// admin listing.
type orderOwnerResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type adminOrderResponse struct {
	orderResponse
	User orderOwnerResponse `json:"user"`
}
