// Package blob is the entry point to blob storage. Callers depend on Store
// and obtain one through Open or the driver constructors; the backends live
// under internal/infra/blob.
package blob

import (
	"antigenseq/internal/blob/core"
)

type (
	// Driver identifies a blob backend.
	Driver = core.Driver
	// PutOptions configures a write.
	PutOptions = core.PutOptions
	// Info describes a stored blob.
	Info = core.Info
	// Store is the blob storage contract.
	Store = core.Store
)

const (
	DriverFilesystem = core.DriverFilesystem
	DriverS3         = core.DriverS3
	DriverMemory     = core.DriverMemory
)

var (
	// ErrNotFound is returned for missing keys.
	ErrNotFound = core.ErrNotFound
	// ErrExists is returned by Put when the key is taken.
	ErrExists = core.ErrExists
)
