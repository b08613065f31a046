// Package driver is the MongoDB persistence client used by the seeder and
// the HTTP surface. Connections are opened lazily and shared by all
// collections of the configured database.
package driver
