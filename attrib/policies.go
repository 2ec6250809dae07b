// Copyright (c) 2026, Meshkit Contributors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package attrib

// CreatePolicy controls whether reserved attribute names (starting with
// "$") may be created through the public API.
type CreatePolicy int32

const (
	// CreateErrorIfReserved rejects reserved names. Default.
	CreateErrorIfReserved CreatePolicy = iota

	// CreateForce allows creating reserved names.
	CreateForce
)

// DeletePolicy controls whether reserved attributes may be deleted
// through the public API. Force-deleting a connectivity attribute
// leaves the owning mesh in an inconsistent state.
type DeletePolicy int32

const (
	// DeleteErrorIfReserved rejects deleting reserved names. Default.
	DeleteErrorIfReserved DeletePolicy = iota

	// DeleteForce allows deleting reserved names.
	DeleteForce
)

// GrowthPolicy controls what happens when an attribute wrapping an
// external buffer needs to grow.
type GrowthPolicy int32

const (
	// GrowthErrorIfExternal fails any resize of an external buffer. Default.
	GrowthErrorIfExternal GrowthPolicy = iota

	// GrowthAllowWithinCapacity allows resizing within the capacity of
	// the wrapped buffer, and fails beyond it.
	GrowthAllowWithinCapacity

	// GrowthWarnAndCopy logs a warning, then copies the data into an
	// internal buffer and grows that.
	GrowthWarnAndCopy

	// GrowthSilentCopy copies the data into an internal buffer and
	// grows that.
	GrowthSilentCopy
)

// WritePolicy controls what happens on write access to a read-only
// attribute (one wrapping a const external buffer).
type WritePolicy int32

const (
	// WriteErrorIfReadOnly fails write access to read-only data. Default.
	WriteErrorIfReadOnly WritePolicy = iota

	// WriteWarnAndCopy logs a warning, then copies the data into an
	// internal writable buffer.
	WriteWarnAndCopy

	// WriteSilentCopy copies the data into an internal writable buffer.
	WriteSilentCopy
)

// ExportPolicy controls how external buffers are handled when an
// attribute is exported (detached) from a [Manager].
type ExportPolicy int32

const (
	// ExportCopyIfExternal exports a copy of external buffers, so the
	// exported attribute owns its data. Default.
	ExportCopyIfExternal ExportPolicy = iota

	// ExportCopyIfUnmanaged exports a copy only for unmanaged external
	// buffers (wrapped without a lifetime owner).
	ExportCopyIfUnmanaged

	// ExportKeepExternalPtr exports the external buffer as is.
	ExportKeepExternalPtr

	// ExportErrorIfExternal fails exporting an external buffer.
	ExportErrorIfExternal
)

// CopyPolicy controls how external buffers are handled when an
// attribute is copied, including copy-on-write unsharing.
type CopyPolicy int32

const (
	// CopyCopyIfExternal copies external buffers into internal storage. Default.
	CopyCopyIfExternal CopyPolicy = iota

	// CopyKeepExternalPtr copies share the external buffer.
	CopyKeepExternalPtr

	// CopyErrorIfExternal fails copying an external buffer.
	CopyErrorIfExternal
)
