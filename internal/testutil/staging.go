package testutil

import (
	"aperturama/internal/aperture"
	"aperturama/internal/staging"
)

// DefaultStagingMaxSize is the max size for test staging areas (10MB).
const DefaultStagingMaxSize = 10 * 1024 * 1024

// NewTestStagingArea creates an in-memory staging area for testing.
func NewTestStagingArea(clock aperture.Clock) aperture.StagingArea {
	return staging.NewMemoryStagingArea(DefaultStagingMaxSize, clock, NewStubIDGenerator())
}

// NewTestStagingAreaWithSize creates an in-memory staging area with a custom max size.
func NewTestStagingAreaWithSize(clock aperture.Clock, maxSize int64) aperture.StagingArea {
	return staging.NewMemoryStagingArea(maxSize, clock, NewStubIDGenerator())
}
