package domain

// DeliveryZone maps a single postcode to delivery terms.
type DeliveryZone struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Postcode      string   `json:"postcode"`
	Suburb        string   `json:"suburb"`
	DeliveryDays  []string `json:"deliveryDays"`
	DeliveryCents int64    `json:"deliveryCents"`
	CutoffHour    int      `json:"cutoffHour"`
	IsActive      bool     `json:"isActive"`
}
