package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/alexanderthegreat96/mongo-cdc-seeder/driver"
	"github.com/alexanderthegreat96/mongo-cdc-seeder/generator"
	"github.com/alexanderthegreat96/mongo-cdc-seeder/responses"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func (srv *Server) createUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		srv.abort(c, http.StatusBadRequest, err.Error())
		return
	}

	ctx := c.Request.Context()
	table := srv.seeder.Tables().Users

	exists, err := srv.store.Exists(ctx, table, map[string]interface{}{"email": req.Email})
	if err != nil {
		srv.fail(c, err)
		return
	}
	if exists {
		srv.abort(c, http.StatusBadRequest, "User with email "+req.Email+" already exists")
		return
	}

	user := generator.User{
		Name:       req.Name,
		Email:      req.Email,
		Age:        req.Age,
		Department: req.Department,
		Skills:     req.Skills,
		Salary:     req.Salary,
		CreatedAt:  srv.timestamp(),
		Active:     true,
	}
	id, err := srv.store.InsertOne(ctx, table, user)
	if err != nil {
		srv.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, responses.CreatedResponse{
		Status:    true,
		Message:   "User created successfully",
		Table:     table,
		ID:        id,
		Document:  user,
		RequestID: c.GetString(requestIDKey),
	})
}

func (srv *Server) createOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		srv.abort(c, http.StatusBadRequest, err.Error())
		return
	}
	if !req.UnitPrice.IsPositive() {
		srv.abort(c, http.StatusBadRequest, "unit_price must be positive")
		return
	}
	if !req.UnitPrice.Equal(req.UnitPrice.Round(2)) {
		srv.abort(c, http.StatusBadRequest, "unit_price must have at most 2 fractional digits")
		return
	}

	ctx := c.Request.Context()
	tables := srv.seeder.Tables()

	if _, err := srv.store.FindByID(ctx, tables.Users, req.UserID); err != nil {
		if errors.Is(err, driver.ErrNotFound) {
			srv.abort(c, http.StatusBadRequest, "User with ID "+req.UserID+" not found")
			return
		}
		srv.fail(c, err)
		return
	}

	status := req.Status
	if status == "" {
		status = "pending"
	}
	createdAt := srv.timestamp()
	order := generator.Order{
		OrderID:         newOrderID(createdAt.Format("20060102")),
		CustomerID:      req.UserID,
		ProductName:     req.ProductName,
		Quantity:        req.Quantity,
		UnitPrice:       req.UnitPrice,
		TotalPrice:      req.UnitPrice.Mul(decimal.NewFromInt(int64(req.Quantity))),
		Status:          status,
		CreatedAt:       createdAt,
		ShippingAddress: req.ShippingAddress,
	}
	id, err := srv.store.InsertOne(ctx, tables.Orders, order)
	if err != nil {
		srv.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, responses.CreatedResponse{
		Status:    true,
		Message:   "Order created successfully",
		Table:     tables.Orders,
		ID:        id,
		Document:  order,
		RequestID: c.GetString(requestIDKey),
	})
}

func (srv *Server) listUsers(c *gin.Context) {
	srv.list(c, srv.seeder.Tables().Users)
}

func (srv *Server) listOrders(c *gin.Context) {
	srv.list(c, srv.seeder.Tables().Orders)
}

func (srv *Server) list(c *gin.Context, table string) {
	page, ok := srv.intQuery(c, "page", 1)
	if !ok {
		return
	}
	perPage, ok := srv.intQuery(c, "per_page", 10)
	if !ok {
		return
	}

	results, err := srv.store.Find(c.Request.Context(), table, nil, page, perPage)
	if err != nil {
		srv.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, responses.ListResponse{
		Status:   true,
		Database: srv.database,
		Table:    results.Table,
		Count:    results.Count,
		Pagination: responses.PaginationResponse{
			TotalPages:  results.Pagination.TotalPages,
			CurrentPage: results.Pagination.CurrentPage,
			NextPage:    results.Pagination.NextPage,
			PrevPage:    results.Pagination.PrevPage,
			LastPage:    results.Pagination.LastPage,
			PerPage:     results.Pagination.PerPage,
		},
		Results:   results.Results,
		RequestID: c.GetString(requestIDKey),
	})
}

func (srv *Server) timestamp() time.Time {
	return srv.now().UTC().Truncate(time.Millisecond)
}

// newOrderID builds ORD-<date>-<8 hex chars>; the random suffix keeps ids
// from separate requests apart.
func newOrderID(date string) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("ORD-%s-%s", date, suffix)
}
