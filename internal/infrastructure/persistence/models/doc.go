// Package models contains GORM persistence models that map to database tables.
// They are kept apart from the domain entities so the domain stays free of ORM
// tags; each model converts with ToDomain and FromDomain.
//
// Structure:
//   - base.go: shared identity, version and company columns
//   - company.go: read model of tenant companies
//   - document.go: documents, their items and client snapshots
//   - series.go: numbering series counters
//   - relationship.go: relationship edges between documents
package models
