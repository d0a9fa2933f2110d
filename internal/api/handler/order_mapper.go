package handler

import (
	"github.com/quickbites/ordering-api/internal/core/domain"
	"github.com/quickbites/ordering-api/internal/core/ports"
)

// --- Request → Service input ---

func toCreateInput(req createOrderRequest, ownerID, idempotencyKey string) ports.CreateOrderInput {
	items := make([]ports.OrderItemInput, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, ports.OrderItemInput{
			Name:      it.Name,
			Quantity:  it.Quantity,
			UnitPrice: it.Price,
		})
	}
	return ports.CreateOrderInput{
		OwnerID:        ownerID,
		Address:        req.Address,
		Items:          items,
		Total:          req.Total,
		IdempotencyKey: idempotencyKey,
	}
}

// --- Domain → HTTP response ---

func toOrderResponse(o *domain.Order) orderResponse {
	items := make([]orderItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, orderItemResponse{
			Name:     it.Name,
			Quantity: it.Quantity,
			Price:    it.UnitPrice,
		})
	}
	return orderResponse{
		ID:        o.ID,
		UserID:    o.OwnerID,
		Items:     items,
		Address:   o.Address,
		Total:     o.Total,
		Status:    string(o.Status),
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
}

func toAdminOrderResponse(row ports.OrderWithOwner) adminOrderResponse {
	return adminOrderResponse{
		orderResponse: toOrderResponse(&row.Order),
		User: orderOwnerResponse{
			ID:    row.OwnerID,
			Name:  row.OwnerName,
			Email: row.OwnerEmail,
		},
	}
}
