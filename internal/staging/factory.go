package staging

import (
	"fmt"

	"aperturama/internal/aperture"
	"aperturama/internal/config"
)

// NewStagingAreaFromConfig creates a StagingArea implementation based on the config type.
func NewStagingAreaFromConfig(cfg config.StagingConfig, clock aperture.Clock, idgen aperture.IDGenerator) (aperture.StagingArea, error) {
	maxSize := cfg.MaxSize
	if maxSize <= 0 {
		maxSize = config.DefaultStagingMaxSize
	}

	switch cfg.Type {
	case "memory":
		return NewMemoryStagingArea(maxSize, clock, idgen), nil
	case "filesystem":
		if cfg.StagingDir == "" {
			return nil, fmt.Errorf("filesystem staging area requires staging_dir to be set")
		}
		return NewFileSystemStagingArea(cfg.StagingDir, maxSize, clock, idgen)
	default:
		return nil, fmt.Errorf("unknown staging area type: %s", cfg.Type)
	}
}
