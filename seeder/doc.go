// Package seeder writes generated users and orders through a Store so that
// change-data-capture tooling watching the database sees a steady stream of
// insert events. It replaces the numbered menu of the old script with an
// explicit Mode.
package seeder
