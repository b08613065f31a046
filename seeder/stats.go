package seeder

import (
	"context"
	"fmt"
	"io"

	"github.com/alexanderthegreat96/mongo-cdc-seeder/helpers"
)

// Stats is a snapshot of both collections.
type Stats struct {
	Users        int64
	Orders       int64
	RecentUsers  []map[string]interface{}
	RecentOrders []map[string]interface{}
}

// Stats counts both collections and fetches the recent newest documents of
// each.
func (s *Seeder) Stats(ctx context.Context, recent int) (*Stats, error) {
	var (
		stats Stats
		err   error
	)

	if stats.Users, err = s.store.Count(ctx, s.tables.Users); err != nil {
		return nil, fmt.Errorf("counting %s: %w", s.tables.Users, err)
	}
	if stats.Orders, err = s.store.Count(ctx, s.tables.Orders); err != nil {
		return nil, fmt.Errorf("counting %s: %w", s.tables.Orders, err)
	}
	if recent <= 0 {
		return &stats, nil
	}
	if stats.RecentUsers, err = s.store.Recent(ctx, s.tables.Users, recent); err != nil {
		return nil, fmt.Errorf("reading recent %s: %w", s.tables.Users, err)
	}
	if stats.RecentOrders, err = s.store.Recent(ctx, s.tables.Orders, recent); err != nil {
		return nil, fmt.Errorf("reading recent %s: %w", s.tables.Orders, err)
	}
	return &stats, nil
}

// Counts renders the collection counts in a stable order.
func (st *Stats) Counts() *helpers.OrderedMap {
	return helpers.NewOrderedMap().
		AddPair("users", st.Users).
		AddPair("orders", st.Orders)
}

// UserSummaries reduces recent users to their name and email.
func (st *Stats) UserSummaries() []*helpers.OrderedMap {
	out := make([]*helpers.OrderedMap, 0, len(st.RecentUsers))
	for _, doc := range st.RecentUsers {
		out = append(out, helpers.Pick(doc, "_id", "name", "email", "created_at"))
	}
	return out
}

// OrderSummaries reduces recent orders to id, product and total.
func (st *Stats) OrderSummaries() []*helpers.OrderedMap {
	out := make([]*helpers.OrderedMap, 0, len(st.RecentOrders))
	for _, doc := range st.RecentOrders {
		out = append(out, helpers.Pick(doc, "_id", "order_id", "product_name", "total_price", "created_at"))
	}
	return out
}

// PrintStats writes a human readable summary of st.
func PrintStats(w io.Writer, st *Stats) {
	fmt.Fprintln(w, "Collection Statistics:")
	fmt.Fprintf(w, "   Users collection: %d documents\n", st.Users)
	fmt.Fprintf(w, "   Orders collection: %d documents\n", st.Orders)

	fmt.Fprintf(w, "\nRecent Users (last %d):\n", len(st.RecentUsers))
	for _, user := range st.RecentUsers {
		fmt.Fprintf(w, "   - %s (%s)\n", field(user, "name", "Unknown"), field(user, "email", "No email"))
	}

	fmt.Fprintf(w, "\nRecent Orders (last %d):\n", len(st.RecentOrders))
	for _, order := range st.RecentOrders {
		fmt.Fprintf(w, "   - %s - %s ($%s)\n", field(order, "order_id", "Unknown"), field(order, "product_name", "Unknown"), field(order, "total_price", "0"))
	}
}

func field(doc map[string]interface{}, key, fallback string) string {
	value, ok := doc[key]
	if !ok || value == nil {
		return fallback
	}
	return helpers.ToString(value)
}
