// Package core implements the vendor identity and credential subsystem: the
// vendor type catalog with its immutable canonical slugs, per-organization
// vendor instance provisioning, and schema-on-read credential persistence
// with a dual-write migration path off the legacy fixed columns.
//
// Storage, plan limits, and vendor protocol handlers are collaborators
// behind interfaces; the canonical identifier for every lookup comes from
// the identity package and nowhere else.
package core
