package seeder

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/alexanderthegreat96/mongo-cdc-seeder/config"
	"github.com/alexanderthegreat96/mongo-cdc-seeder/generator"
)

// Store persists documents. driver.MongoDBHandler implements it.
type Store interface {
	InsertOne(ctx context.Context, table string, doc interface{}) (string, error)
	InsertMany(ctx context.Context, table string, docs []interface{}) ([]string, error)
	Count(ctx context.Context, table string) (int64, error)
	Recent(ctx context.Context, table string, limit int) ([]map[string]interface{}, error)
}

// Tables names the two collections written to.
type Tables struct {
	Users  string
	Orders string
}

type Seeder struct {
	store  Store
	gen    *generator.Generator
	genMu  *sync.Mutex
	seed   config.Seed
	tables Tables
	logger *log.Logger
}

// Batch is the set of documents a mode would write.
type Batch struct {
	Users  []interface{}
	Orders []interface{}
}

// Report lists the ids assigned to the documents written by Run.
type Report struct {
	Mode     Mode
	UserIDs  []string
	OrderIDs []string
}

func New(store Store, gen *generator.Generator, cfg *config.Config) *Seeder {
	return &Seeder{
		store: store,
		gen:   gen,
		genMu: &sync.Mutex{},
		seed:  cfg.Seed,
		tables: Tables{
			Users:  cfg.Mongo.UsersTable,
			Orders: cfg.Mongo.OrdersTable,
		},
		logger: log.New(os.Stdout, "[SEEDER]: ", log.Ldate|log.Ltime),
	}
}

// SetLogger replaces the seeder logger.
func (s *Seeder) SetLogger(logger *log.Logger) *Seeder {
	s.logger = logger
	return s
}

func (s *Seeder) Tables() Tables {
	return s.tables
}

func (s *Seeder) Seed() config.Seed {
	return s.seed
}

// WithSeed returns a copy of s using different counts and delay. The copy
// shares the store and generator of s.
func (s *Seeder) WithSeed(seed config.Seed) *Seeder {
	clone := *s
	clone.seed = seed
	return &clone
}

// Plan generates the documents mode would write without storing them.
func (s *Seeder) Plan(mode Mode) (Batch, error) {
	var (
		batch Batch
		err   error
	)

	s.genMu.Lock()
	defer s.genMu.Unlock()

	switch mode {
	case ModeUsers:
		batch.Users, err = s.gen.Generate(generator.KindUser, generator.ModeFixed, s.seed.SampleUsers)
	case ModeOrders:
		batch.Orders, err = s.gen.Generate(generator.KindOrder, generator.ModeRandom, s.seed.SampleOrders)
	case ModeBoth:
		if batch.Users, err = s.gen.Generate(generator.KindUser, generator.ModeFixed, s.seed.SampleUsers); err != nil {
			return Batch{}, err
		}
		batch.Orders, err = s.gen.Generate(generator.KindOrder, generator.ModeRandom, s.seed.SampleOrders)
	case ModeBulk:
		if batch.Users, err = s.gen.Generate(generator.KindUser, generator.ModeBulk, s.seed.BulkUsers); err != nil {
			return Batch{}, err
		}
		batch.Orders, err = s.gen.Generate(generator.KindOrder, generator.ModeBulk, s.seed.BulkOrders)
	case ModeStats:
	default:
		return Batch{}, fmt.Errorf("unknown mode %s", mode)
	}
	if err != nil {
		return Batch{}, err
	}
	return batch, nil
}

// Run generates and writes the documents of mode. Sample users and orders
// are inserted one at a time with the configured delay in between so each
// write shows up as its own change event; bulk data goes out in one
// insert-many per collection.
func (s *Seeder) Run(ctx context.Context, mode Mode) (*Report, error) {
	batch, err := s.Plan(mode)
	if err != nil {
		return nil, err
	}

	report := &Report{Mode: mode}
	if mode == ModeBulk {
		s.logger.Printf("Inserting bulk data: %d users, %d orders...", len(batch.Users), len(batch.Orders))
		if report.UserIDs, err = s.insertBulk(ctx, s.tables.Users, batch.Users); err != nil {
			return report, err
		}
		if report.OrderIDs, err = s.insertBulk(ctx, s.tables.Orders, batch.Orders); err != nil {
			return report, err
		}
		s.logger.Println("Successfully completed bulk insert")
		return report, nil
	}

	if len(batch.Users) > 0 {
		s.logger.Printf("Inserting %d sample users...", len(batch.Users))
		if report.UserIDs, err = s.insertPaced(ctx, s.tables.Users, batch.Users); err != nil {
			return report, err
		}
		s.logger.Printf("Successfully inserted %d users", len(report.UserIDs))
	}
	if len(batch.Orders) > 0 {
		if len(report.UserIDs) > 0 {
			if err := wait(ctx, s.seed.Delay); err != nil {
				return report, err
			}
		}
		s.logger.Printf("Inserting %d sample orders...", len(batch.Orders))
		if report.OrderIDs, err = s.insertPaced(ctx, s.tables.Orders, batch.Orders); err != nil {
			return report, err
		}
		s.logger.Printf("Successfully inserted %d orders", len(report.OrderIDs))
	}
	return report, nil
}

func (s *Seeder) insertPaced(ctx context.Context, table string, docs []interface{}) ([]string, error) {
	ids := make([]string, 0, len(docs))
	for i, doc := range docs {
		if i > 0 {
			if err := wait(ctx, s.seed.Delay); err != nil {
				return ids, err
			}
		}

		id, err := s.store.InsertOne(ctx, table, doc)
		if err != nil {
			return ids, fmt.Errorf("inserting %s: %w", label(doc), err)
		}
		ids = append(ids, id)
		s.logger.Printf("Inserted %s (ID: %s)", label(doc), id)
	}
	return ids, nil
}

func (s *Seeder) insertBulk(ctx context.Context, table string, docs []interface{}) ([]string, error) {
	if len(docs) == 0 {
		return []string{}, nil
	}
	ids, err := s.store.InsertMany(ctx, table, docs)
	if err != nil {
		return nil, fmt.Errorf("bulk inserting into %s: %w", table, err)
	}
	s.logger.Printf("Bulk inserted %d documents into %s", len(ids), table)
	return ids, nil
}

func label(doc interface{}) string {
	switch d := doc.(type) {
	case generator.User:
		return "user: " + d.Name
	case generator.Order:
		return "order: " + d.OrderID + " - " + d.ProductName
	}
	return fmt.Sprintf("%T", doc)
}

// wait blocks for d or until ctx is done.
func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
