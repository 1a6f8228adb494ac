// Package storage defines the persistence contracts for the web service.
//
// Implementations live in subpackages (sqlite). Callers depend on the Store
// interface so tests can substitute fakes without a database.
package storage
