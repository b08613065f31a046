// Package generator builds sample documents for the users and orders
// collections.
//
// Three modes are supported:
//   - fixed: the first N users of a hard-coded catalog
//   - random: orders drawn from a product catalog with status and address
//   - bulk: numbered users and orders with a reduced field set
//
// The package performs no I/O. Persisting and pacing the records is left to
// the caller.
package generator
