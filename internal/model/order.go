package model

import "time"

// OrderStatus is the delivery status of an order
type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusProcessing OrderStatus = "processing"
	StatusShipped    OrderStatus = "shipped"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
)

// OrderStatuses lists every accepted status value
var OrderStatuses = []OrderStatus{StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled}

// IsValid reports whether s is one of the five known statuses
func (s OrderStatus) IsValid() bool {
	for _, known := range OrderStatuses {
		if s == known {
			return true
		}
	}
	return false
}

const (
	PaymentCOD    = "cod"
	PaymentOnline = "online"
)

// OrderItem is a line of an order: product reference, quantity and unit price at order time
type OrderItem struct {
	ProductID string  `json:"product" bson:"product"`
	Quantity  int     `json:"quantity" bson:"quantity"`
	Price     float64 `json:"price" bson:"price"`
}

// ShippingAddress is a snapshot taken when the order is placed. Later account
// edits never change it.
type ShippingAddress struct {
	Name    string `json:"name" bson:"name" binding:"required"`
	Email   string `json:"email" bson:"email" binding:"required"`
	Phone   string `json:"phone" bson:"phone" binding:"required"`
	Address string `json:"address" bson:"address" binding:"required"`
	City    string `json:"city" bson:"city" binding:"required"`
	State   string `json:"state" bson:"state" binding:"required"`
	Pincode string `json:"pincode" bson:"pincode" binding:"required"`
}

// Order is the persisted order document
type Order struct {
	ID              string          `json:"_id" bson:"_id"`
	UserID          string          `json:"user" bson:"user"`
	Items           []OrderItem     `json:"items" bson:"items"`
	TotalAmount     float64         `json:"totalAmount" bson:"totalAmount"`
	ShippingAddress ShippingAddress `json:"shippingAddress" bson:"shippingAddress"`
	PaymentMethod   string          `json:"paymentMethod" bson:"paymentMethod"`
	Status          OrderStatus     `json:"status" bson:"status"`
	CreatedAt       time.Time       `json:"createdAt" bson:"createdAt"`
}

// OrderItemRequest is one cart line as submitted by the client
type OrderItemRequest struct {
	Product  string   `json:"product" binding:"required"`
	Quantity int      `json:"quantity" binding:"required,gte=1"`
	Price    *float64 `json:"price" binding:"required,gte=0"`
}

// CreateOrderRequest is the body of POST /api/orders
type CreateOrderRequest struct {
	Items           []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
	ShippingAddress ShippingAddress    `json:"shippingAddress" binding:"required"`
	PaymentMethod   string             `json:"paymentMethod" binding:"required,oneof=cod online"`
	TotalAmount     *float64           `json:"totalAmount" binding:"required,gte=0"`
}

// UpdateOrderStatusRequest is the body of PUT /api/admin/orders/:id
type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}

// OrderOwner is the account reference of an order, with name and email
// filled in only when the owner was resolved
type OrderOwner struct {
	ID    string `json:"_id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// OrderItemDetails is an order line with its catalog item joined in. Product is
// nil when the item was not resolved or no longer exists.
type OrderItemDetails struct {
	ProductID string   `json:"productId"`
	Product   *Product `json:"product"`
	Quantity  int      `json:"quantity"`
	Price     float64  `json:"price"`
}

// OrderDetails is the API projection of an order
type OrderDetails struct {
	ID              string             `json:"_id"`
	User            OrderOwner         `json:"user"`
	Items           []OrderItemDetails `json:"items"`
	TotalAmount     float64            `json:"totalAmount"`
	ShippingAddress ShippingAddress    `json:"shippingAddress"`
	PaymentMethod   string             `json:"paymentMethod"`
	Status          OrderStatus        `json:"status"`
	CreatedAt       time.Time          `json:"createdAt"`
}

// Stats is the admin dashboard summary
type Stats struct {
	TotalOrders   int64   `json:"totalOrders"`
	TotalUsers    int64   `json:"totalUsers"`
	TotalProducts int64   `json:"totalProducts"`
	TotalRevenue  float64 `json:"totalRevenue"`
}
