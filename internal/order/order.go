// Package order turns a cart snapshot into a persisted order. The cart is
// the source of truth up to checkout; after a successful checkout the order
// record is authoritative and its status is mutated only through the store.
package order

import (
	"strings"
	"time"

	"github.com/errandboy/server/internal/cart"
	"github.com/google/uuid"
)

type Status string

const (
	StatusPending        Status = "pending"
	StatusProcessing     Status = "processing"
	StatusConfirmed      Status = "confirmed"
	StatusPreparing      Status = "preparing"
	StatusShipped        Status = "shipped"
	StatusOutForDelivery Status = "out_for_delivery"
	StatusDelivered      Status = "delivered"
	StatusCancelled      Status = "cancelled"
)

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentFailed  PaymentStatus = "failed"
)

// Customer is the checkout contact and delivery information.
type Customer struct {
	CustomerID string `json:"customer_id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
}

// Order is one placed order. Items mirror the cart snapshot one line per
// physical unit, so Subtotal equals the sum of item unit prices.
type Order struct {
	ID                string        `gorm:"primaryKey" json:"id"`
	CustomerID        string        `gorm:"index" json:"customer_id"`
	CustomerName      string        `json:"customer_name"`
	CustomerEmail     string        `json:"customer_email"`
	CustomerPhone     string        `json:"customer_phone"`
	ShippingAddress   string        `json:"shipping_address"`
	Items             []Item        `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	Subtotal          float64       `json:"subtotal"`
	Tax               float64       `json:"tax"`
	Total             float64       `json:"total"`
	Status            Status        `gorm:"type:varchar(20);default:'pending'" json:"status"`
	PaymentStatus     PaymentStatus `gorm:"type:varchar(20);default:'pending'" json:"payment_status"`
	PaymentReference  string        `json:"payment_reference,omitempty"`
	TrackingNumber    string        `json:"tracking_number,omitempty"`
	EstimatedDelivery time.Time     `json:"estimated_delivery"`
	CreatedAt         time.Time     `json:"created_at"`
	UpdatedAt         time.Time     `json:"updated_at"`
}

// Item is one ordered physical unit, quantity always one by construction.
type Item struct {
	ID             uint                 `gorm:"primaryKey" json:"-"`
	OrderID        string               `gorm:"index" json:"-"`
	LineID         string               `json:"line_id"`
	ProductID      string               `json:"product_id"`
	Name           string               `json:"name"`
	UnitPrice      float64              `json:"unit_price"`
	Category       string               `json:"category"`
	IsCustomFood   bool                 `json:"is_custom_food,omitempty"`
	Customizations []cart.Customization `gorm:"serializer:json" json:"customizations,omitempty"`
}

const deliveryWindow = 7 * 24 * time.Hour

// NewOrderID generates a short human-readable order id.
func NewOrderID() string {
	return "ORD-" + strings.ToUpper(uuid.NewString()[:8])
}

// Assemble builds an order from a cart snapshot and customer info. Line
// items carry over one-to-one; totals come from the cart's single pricing
// formula.
func Assemble(snapshot []cart.LineItem, customer Customer) *Order {
	items := make([]Item, 0, len(snapshot))
	subtotal := 0.0
	for _, line := range snapshot {
		items = append(items, Item{
			LineID:         line.LineID,
			ProductID:      line.ProductID,
			Name:           line.Name,
			UnitPrice:      line.UnitPrice,
			Category:       line.Category,
			IsCustomFood:   line.IsCustomFood,
			Customizations: line.Customizations,
		})
		subtotal += line.UnitPrice
	}
	totals := cart.ComputeTotals(subtotal)

	now := time.Now()
	return &Order{
		ID:                NewOrderID(),
		CustomerID:        customer.CustomerID,
		CustomerName:      customer.Name,
		CustomerEmail:     customer.Email,
		CustomerPhone:     customer.Phone,
		ShippingAddress:   customer.Address,
		Items:             items,
		Subtotal:          totals.Subtotal,
		Tax:               totals.Tax,
		Total:             totals.Total,
		Status:            StatusProcessing,
		PaymentStatus:     PaymentPending,
		EstimatedDelivery: now.Add(deliveryWindow),
		CreatedAt:         now,
	}
}
