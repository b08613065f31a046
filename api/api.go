package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/alexanderthegreat96/mongo-cdc-seeder/config"
	"github.com/alexanderthegreat96/mongo-cdc-seeder/driver"
	"github.com/alexanderthegreat96/mongo-cdc-seeder/generator"
	"github.com/alexanderthegreat96/mongo-cdc-seeder/responses"
	"github.com/alexanderthegreat96/mongo-cdc-seeder/seeder"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"

	// used when the configuration does not set seed.maxCount
	defaultMaxCount = 10000
)

// Store is everything the HTTP surface reads and writes.
// driver.MongoDBHandler implements it.
type Store interface {
	seeder.Store
	Find(ctx context.Context, table string, filter map[string]interface{}, page, perPage int) (*driver.Results, error)
	FindByID(ctx context.Context, table, id string) (map[string]interface{}, error)
	Exists(ctx context.Context, table string, filter map[string]interface{}) (bool, error)
}

// Server exposes the seeder and single-document writes over HTTP.
type Server struct {
	seeder   *seeder.Seeder
	store    Store
	database string
	now      func() time.Time
}

func NewServer(s *seeder.Seeder, store Store, database string) *Server {
	return &Server{seeder: s, store: store, database: database, now: time.Now}
}

// requestID tags every request with an id, reusing the caller's when sent.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// Router builds the gin engine with every route registered.
func (srv *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery(), requestID())

	data := router.Group("/api/data")
	data.POST("/users", srv.createUser)
	data.GET("/users", srv.listUsers)
	data.POST("/orders", srv.createOrder)
	data.GET("/orders", srv.listOrders)
	data.POST("/users/sample", srv.createSampleUsers)
	data.POST("/orders/sample", srv.createSampleOrders)
	data.POST("/bulk", srv.createBulk)
	data.GET("/stats", srv.stats)

	return router
}

// Run listens on addr until the server fails.
func (srv *Server) Run(addr string) error {
	return srv.Router().Run(addr)
}

func (srv *Server) createSampleUsers(c *gin.Context) {
	seed := srv.seeder.Seed()
	count, ok := srv.countQuery(c, "count", seed.SampleUsers)
	if !ok {
		return
	}
	seed.SampleUsers = count
	seed.Delay = 0
	srv.run(c, seed, seeder.ModeUsers)
}

func (srv *Server) createSampleOrders(c *gin.Context) {
	seed := srv.seeder.Seed()
	count, ok := srv.countQuery(c, "count", seed.SampleOrders)
	if !ok {
		return
	}
	seed.SampleOrders = count
	seed.Delay = 0
	srv.run(c, seed, seeder.ModeOrders)
}

func (srv *Server) createBulk(c *gin.Context) {
	seed := srv.seeder.Seed()
	users, ok := srv.countQuery(c, "users", seed.BulkUsers)
	if !ok {
		return
	}
	orders, ok := srv.countQuery(c, "orders", seed.BulkOrders)
	if !ok {
		return
	}
	seed.BulkUsers = users
	seed.BulkOrders = orders
	srv.run(c, seed, seeder.ModeBulk)
}

func (srv *Server) run(c *gin.Context, seed config.Seed, mode seeder.Mode) {
	s := srv.seeder.WithSeed(seed)
	report, err := s.Run(c.Request.Context(), mode)
	if err != nil {
		srv.fail(c, err)
		return
	}

	tables := s.Tables()
	resp := responses.InsertResponse{
		Status:    true,
		Mode:      mode.String(),
		Message:   fmt.Sprintf("Inserted %d users and %d orders", len(report.UserIDs), len(report.OrderIDs)),
		RequestID: c.GetString(requestIDKey),
	}
	if report.UserIDs != nil {
		resp.Users = &responses.InsertedDocumentsResponse{Table: tables.Users, Count: len(report.UserIDs), IDs: report.UserIDs}
	}
	if report.OrderIDs != nil {
		resp.Orders = &responses.InsertedDocumentsResponse{Table: tables.Orders, Count: len(report.OrderIDs), IDs: report.OrderIDs}
	}
	c.JSON(http.StatusCreated, resp)
}

func (srv *Server) stats(c *gin.Context) {
	recent, ok := srv.intQuery(c, "recent", srv.seeder.Seed().Recent)
	if !ok {
		return
	}
	if recent < 0 {
		srv.fail(c, fmt.Errorf("%w: recent must not be negative", generator.ErrInvalidArgument))
		return
	}

	stats, err := srv.seeder.Stats(c.Request.Context(), recent)
	if err != nil {
		srv.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, responses.StatsResponse{
		Status:       true,
		Database:     srv.database,
		Counts:       stats.Counts(),
		RecentUsers:  stats.UserSummaries(),
		RecentOrders: stats.OrderSummaries(),
		RequestID:    c.GetString(requestIDKey),
	})
}

// intQuery reads an integer query parameter, answering 400 when it is not a
// number.
func (srv *Server) intQuery(c *gin.Context, key string, fallback int) (int, bool) {
	raw := c.Query(key)
	if raw == "" {
		return fallback, true
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		srv.abort(c, http.StatusBadRequest, fmt.Sprintf("query parameter %s must be an integer, got %q", key, raw))
		return 0, false
	}
	return value, true
}

func (srv *Server) maxCount() int {
	if limit := srv.seeder.Seed().MaxCount; limit > 0 {
		return limit
	}
	return defaultMaxCount
}

// countQuery reads a record count, answering 400 when it is negative or
// above the configured maximum.
func (srv *Server) countQuery(c *gin.Context, key string, fallback int) (int, bool) {
	value, ok := srv.intQuery(c, key, fallback)
	if !ok {
		return 0, false
	}
	if value < 0 {
		srv.fail(c, fmt.Errorf("%w: %s must not be negative, got %d", generator.ErrInvalidArgument, key, value))
		return 0, false
	}
	if limit := srv.maxCount(); value > limit {
		srv.fail(c, fmt.Errorf("%w: %s must not exceed %d, got %d", generator.ErrInvalidArgument, key, limit, value))
		return 0, false
	}
	return value, true
}

func (srv *Server) fail(c *gin.Context, err error) {
	var mongoErr *driver.MongoError
	switch {
	case errors.Is(err, generator.ErrInvalidArgument):
		srv.abort(c, http.StatusBadRequest, err.Error())
	case errors.As(err, &mongoErr) && mongoErr.Code >= http.StatusBadRequest:
		srv.abort(c, mongoErr.Code, err.Error())
	default:
		srv.abort(c, http.StatusInternalServerError, err.Error())
	}
}

func (srv *Server) abort(c *gin.Context, code int, msg string) {
	c.AbortWithStatusJSON(code, responses.GenericErrorResponse{
		Code:      code,
		Status:    false,
		Error:     msg,
		RequestID: c.GetString(requestIDKey),
	})
}
