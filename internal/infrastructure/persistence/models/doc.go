// Package models contains GORM persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer free
// from ORM concerns; ToDomain / FromDomain convert between the two.
//
// Every account-owned table is keyed by (account_id, id). Reference columns
// such as sim_type_id or customer_id carry no foreign keys, so deleting a
// parent leaves its children in place.
package models
