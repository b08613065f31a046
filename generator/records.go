package generator

import (
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is a document of the users collection.
type User struct {
	Name       string    `bson:"name" json:"name"`
	Email      string    `bson:"email" json:"email"`
	Age        int       `bson:"age" json:"age"`
	Department string    `bson:"department" json:"department"`
	Skills     []string  `bson:"skills,omitempty" json:"skills,omitempty"`
	Salary     int       `bson:"salary" json:"salary"`
	CreatedAt  time.Time `bson:"created_at" json:"created_at"`
	Active     bool      `bson:"active" json:"active"`
	BulkInsert bool      `bson:"bulk_insert,omitempty" json:"bulk_insert,omitempty"`
}

// ShippingAddress is embedded in orders produced by RandomOrders.
type ShippingAddress struct {
	Street  string `bson:"street" json:"street"`
	City    string `bson:"city" json:"city"`
	State   string `bson:"state" json:"state"`
	ZipCode string `bson:"zip_code" json:"zip_code"`
}

// Order is a document of the orders collection. Status and ShippingAddress
// are only set for randomized orders.
type Order struct {
	OrderID         string           `json:"order_id"`
	CustomerID      string           `json:"customer_id"`
	ProductName     string           `json:"product_name"`
	Quantity        int              `json:"quantity"`
	UnitPrice       decimal.Decimal  `json:"unit_price"`
	TotalPrice      decimal.Decimal  `json:"total_price"`
	Status          string           `json:"status,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
	ShippingAddress *ShippingAddress `json:"shipping_address,omitempty"`
	BulkInsert      bool             `json:"bulk_insert,omitempty"`
}

type orderDocument struct {
	OrderID         string               `bson:"order_id"`
	CustomerID      string               `bson:"customer_id"`
	ProductName     string               `bson:"product_name"`
	Quantity        int                  `bson:"quantity"`
	UnitPrice       primitive.Decimal128 `bson:"unit_price"`
	TotalPrice      primitive.Decimal128 `bson:"total_price"`
	Status          string               `bson:"status,omitempty"`
	CreatedAt       time.Time            `bson:"created_at"`
	ShippingAddress *ShippingAddress     `bson:"shipping_address,omitempty"`
	BulkInsert      bool                 `bson:"bulk_insert,omitempty"`
}

// MarshalBSON stores prices as Decimal128 so the persisted total is still
// the exact product of unit price and quantity.
func (o Order) MarshalBSON() ([]byte, error) {
	unit, err := primitive.ParseDecimal128(o.UnitPrice.StringFixed(2))
	if err != nil {
		return nil, err
	}
	total, err := primitive.ParseDecimal128(o.TotalPrice.StringFixed(2))
	if err != nil {
		return nil, err
	}

	return bson.Marshal(orderDocument{
		OrderID:         o.OrderID,
		CustomerID:      o.CustomerID,
		ProductName:     o.ProductName,
		Quantity:        o.Quantity,
		UnitPrice:       unit,
		TotalPrice:      total,
		Status:          o.Status,
		CreatedAt:       o.CreatedAt,
		ShippingAddress: o.ShippingAddress,
		BulkInsert:      o.BulkInsert,
	})
}
