// Package models contains GORM persistence models that map to database tables.
// Domain entities stay free of ORM tags; every model converts to and from its
// domain counterpart with ToDomain / FromDomain.
//
// Structure:
//   - base.go: columns shared by tenant-scoped aggregates
//   - partner.go: clients and suppliers
//   - trade.go: orders, quotations, purchase orders, invoices, shipments
//   - finance.go: chart of accounts and journal transactions
package models
