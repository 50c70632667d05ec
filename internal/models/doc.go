// Package models defines domain values and persistent entities for flixport.
//
// The package contains two categories of types:
//
// 1. Values: read from the account service or the user and never mutated afterwards
//   - [Credentials] : account login, transient
//   - [Profile] : a named sub-account; identity is the GUID
//   - [Rating] : one title's user score plus metadata, in the service's key order
//   - [ExportOptions] / [ImportSource] : where serialized ratings go to or come from
//
// 2. Persistent Entities: database-backed models with full lifecycle management
//   - [Run] : one export or import invocation with status and counts
//
// Persistent entities implement the [Model] interface providing ID generation, timestamps, validation, and soft delete support.
// The Repository[T] interface defines standard CRUD operations for database access.
package models
