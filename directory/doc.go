// Package directory defines the value types and service contracts for the
// dashboard's managed entities: users, roles, permissions, teams, boards,
// platforms, and shops.
//
// # Architecture boundaries
//
// Only the vocabulary lives here. The REST implementations are provided by
// the root package and travel through its authenticated gateway; anything
// else that speaks for these entities should accept these interfaces.
//
// # What this package must NOT do
//
//   - Implement any service interface.
//   - Import goSession or any of its subpackages.
//   - Perform I/O.
package directory
