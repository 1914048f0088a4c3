package domain

import "time"

type Order struct {
	ID            string      `json:"id"`
	OrderNumber   string      `json:"orderNumber"`
	UserID        string      `json:"userId"`
	Status        string      `json:"status"`
	SubtotalCents int64       `json:"subtotalCents"`
	DeliveryCents int64       `json:"deliveryCents"`
	TotalCents    int64       `json:"totalCents"`
	DeliveryDate  *time.Time  `json:"deliveryDate,omitempty"`
	Items         []OrderItem `json:"items"`
	CreatedAt     time.Time   `json:"createdAt"`
}

type OrderItem struct {
	ID             string `json:"id"`
	OrderID        string `json:"orderId"`
	MealID         string `json:"mealId"`
	MealName       string `json:"mealName"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int64  `json:"unitPriceCents"`
	TotalCents     int64  `json:"totalCents"`
}
