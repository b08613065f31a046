package generator

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"
)

// ErrInvalidArgument is returned when a requested count is negative or a
// kind/mode pair is not supported.
var ErrInvalidArgument = errors.New("invalid argument")

const (
	orderPrefix     = "ORD"
	bulkOrderPrefix = "BULK"
	orderIDDate     = "20060102"

	bulkMinPrice = 10.99
	bulkMaxPrice = 999.99
)

// Kind selects the collection a record belongs to.
type Kind int

const (
	KindUser Kind = iota
	KindOrder
)

func (k Kind) String() string {
	switch k {
	case KindUser:
		return "user"
	case KindOrder:
		return "order"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Mode selects how records are produced.
type Mode int

const (
	ModeFixed Mode = iota
	ModeRandom
	ModeBulk
)

func (m Mode) String() string {
	switch m {
	case ModeFixed:
		return "fixed"
	case ModeRandom:
		return "random"
	case ModeBulk:
		return "bulk"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// Generator builds sample user and order records. It never performs I/O
// and keeps no state between calls apart from its random source, so a
// single Generator must not be shared between goroutines.
type Generator struct {
	rand *rand.Rand
	now  func() time.Time
}

type Option func(*Generator)

// WithRand replaces the random source.
func WithRand(r *rand.Rand) Option {
	return func(g *Generator) {
		g.rand = r
	}
}

// WithSeed makes the generated content reproducible.
func WithSeed(seed int64) Option {
	return WithRand(rand.New(rand.NewSource(seed)))
}

// WithClock replaces time.Now as the source of created_at values.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		g.now = now
	}
}

func New(opts ...Option) *Generator {
	g := &Generator{
		rand: rand.New(rand.NewSource(time.Now().UnixNano())),
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// batchClock hands out created_at values for one batch. Values never go
// backwards even if the wall clock does.
type batchClock struct {
	now  func() time.Time
	last time.Time
}

func (c *batchClock) next() time.Time {
	t := c.now().UTC().Truncate(time.Millisecond)
	if t.Before(c.last) {
		t = c.last
	}
	c.last = t
	return t
}

func (g *Generator) clock() *batchClock {
	return &batchClock{now: g.now}
}

func checkCount(count int) error {
	if count < 0 {
		return fmt.Errorf("%w: count must not be negative, got %d", ErrInvalidArgument, count)
	}
	return nil
}

// between returns a random int in [min, max].
func (g *Generator) between(min, max int) int {
	return min + g.rand.Intn(max-min+1)
}

// FixedUsers returns the first count users of the sample catalog, in
// catalog order. count is clamped to [0, CatalogSize()].
func (g *Generator) FixedUsers(count int) []User {
	if count < 0 {
		count = 0
	}
	if count > len(sampleUsers) {
		count = len(sampleUsers)
	}

	clock := g.clock()
	users := make([]User, 0, count)
	for _, sample := range sampleUsers[:count] {
		user := sample
		user.Skills = append([]string(nil), sample.Skills...)
		user.CreatedAt = clock.next()
		users = append(users, user)
	}
	return users
}

// RandomOrders returns count orders drawn from the product catalog, with a
// status and a shipping address. Order ids are ORD-<date>-<seq> where seq
// runs from 0001 to count.
func (g *Generator) RandomOrders(count int) ([]Order, error) {
	if err := checkCount(count); err != nil {
		return nil, err
	}

	clock := g.clock()
	orders := make([]Order, 0, count)
	for seq := 1; seq <= count; seq++ {
		createdAt := clock.next()
		item := products[g.rand.Intn(len(products))]
		quantity := g.between(1, 3)
		loc := locations[g.rand.Intn(len(locations))]

		orders = append(orders, Order{
			OrderID:     fmt.Sprintf("%s-%s-%04d", orderPrefix, createdAt.Format(orderIDDate), seq),
			CustomerID:  fmt.Sprintf("CUST-%d", g.between(1000, 9999)),
			ProductName: item.name,
			Quantity:    quantity,
			UnitPrice:   item.price,
			TotalPrice:  item.price.Mul(decimal.NewFromInt(int64(quantity))),
			Status:      Statuses[g.rand.Intn(len(Statuses))],
			CreatedAt:   createdAt,
			ShippingAddress: &ShippingAddress{
				Street:  fmt.Sprintf("%d Main St", g.between(100, 9999)),
				City:    loc.city,
				State:   loc.state,
				ZipCode: fmt.Sprintf("%d", g.between(10000, 99999)),
			},
		})
	}
	return orders, nil
}

// BulkUsers returns count numbered users with a reduced field set.
func (g *Generator) BulkUsers(count int) ([]User, error) {
	if err := checkCount(count); err != nil {
		return nil, err
	}

	clock := g.clock()
	users := make([]User, 0, count)
	for i := 1; i <= count; i++ {
		users = append(users, User{
			Name:       fmt.Sprintf("Bulk User %d", i),
			Email:      fmt.Sprintf("bulk.user.%d@example.com", i),
			Age:        g.between(22, 65),
			Department: bulkDepartments[g.rand.Intn(len(bulkDepartments))],
			Salary:     g.between(50000, 150000),
			CreatedAt:  clock.next(),
			Active:     true,
			BulkInsert: true,
		})
	}
	return users, nil
}

// BulkOrders returns count orders without status or shipping address.
// Unit prices are uniform in [10.99, 999.99] and rounded to cents before
// the total is computed.
func (g *Generator) BulkOrders(count int) ([]Order, error) {
	if err := checkCount(count); err != nil {
		return nil, err
	}

	clock := g.clock()
	orders := make([]Order, 0, count)
	for seq := 1; seq <= count; seq++ {
		createdAt := clock.next()
		quantity := g.between(1, 5)
		price := decimal.NewFromFloat(bulkMinPrice + g.rand.Float64()*(bulkMaxPrice-bulkMinPrice)).Round(2)

		orders = append(orders, Order{
			OrderID:     fmt.Sprintf("%s-%s-%05d", bulkOrderPrefix, createdAt.Format(orderIDDate), seq),
			CustomerID:  fmt.Sprintf("BULK-CUST-%d", g.between(1000, 9999)),
			ProductName: fmt.Sprintf("Bulk Product %d", seq),
			Quantity:    quantity,
			UnitPrice:   price,
			TotalPrice:  price.Mul(decimal.NewFromInt(int64(quantity))),
			CreatedAt:   createdAt,
			BulkInsert:  true,
		})
	}
	return orders, nil
}

// Generate dispatches on kind and mode and returns the records as
// documents ready for an insert-many call.
func (g *Generator) Generate(kind Kind, mode Mode, count int) ([]interface{}, error) {
	if err := checkCount(count); err != nil {
		return nil, err
	}

	switch {
	case kind == KindUser && mode == ModeFixed:
		return Documents(g.FixedUsers(count)), nil
	case kind == KindUser && mode == ModeBulk:
		users, err := g.BulkUsers(count)
		return Documents(users), err
	case kind == KindOrder && mode == ModeRandom:
		orders, err := g.RandomOrders(count)
		return Documents(orders), err
	case kind == KindOrder && mode == ModeBulk:
		orders, err := g.BulkOrders(count)
		return Documents(orders), err
	}
	return nil, fmt.Errorf("%w: no %s mode for %s records", ErrInvalidArgument, mode, kind)
}

// Documents converts typed records to the []interface{} shape the mongo
// driver's InsertMany expects.
func Documents[T any](records []T) []interface{} {
	if records == nil {
		return nil
	}
	docs := make([]interface{}, len(records))
	for i, r := range records {
		docs[i] = r
	}
	return docs
}
