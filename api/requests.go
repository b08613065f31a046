package api

import (
	"github.com/alexanderthegreat96/mongo-cdc-seeder/generator"
	"github.com/shopspring/decimal"
)

type CreateUserRequest struct {
	Name       string   `json:"name" binding:"required"`
	Email      string   `json:"email" binding:"required,email"`
	Age        int      `json:"age" binding:"required,gte=18,lte=100"`
	Department string   `json:"department"`
	Skills     []string `json:"skills"`
	Salary     int      `json:"salary" binding:"omitempty,gt=0"`
}

type CreateOrderRequest struct {
	UserID          string                     `json:"user_id" binding:"required"`
	ProductName     string                     `json:"product_name" binding:"required"`
	Quantity        int                        `json:"quantity" binding:"required,gte=1"`
	UnitPrice       decimal.Decimal            `json:"unit_price"`
	Status          string                     `json:"status" binding:"omitempty,oneof=pending processing shipped completed"`
	ShippingAddress *generator.ShippingAddress `json:"shipping_address"`
}
