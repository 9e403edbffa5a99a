package models

import "time"

type OrderStatus string

const (
	OrderPending        OrderStatus = "pending"
	OrderConfirmed      OrderStatus = "confirmed"
	OrderProcessing     OrderStatus = "processing"
	OrderShipped        OrderStatus = "shipped"
	OrderOutForDelivery OrderStatus = "out_for_delivery"
	OrderDelivered      OrderStatus = "delivered"
	OrderCancelled      OrderStatus = "cancelled"
)

type Order struct {
	ID                string      `json:"_id"`
	OrderStatus       OrderStatus `json:"orderStatus"`
	TrackingNumber    string      `json:"trackingNumber"`
	EstimatedDelivery *time.Time  `json:"estimatedDelivery"`
	Total             float64     `json:"total"`
	Items             []CartItem  `json:"items,omitempty"`
	CreatedAt         time.Time   `json:"createdAt"`
}

type Pagination struct {
	Page  int `json:"page"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}
