package cf

import (
	"fmt"
	"time"

	"github.com/rvazquezglez/clouddriver/internal/constants"
)

// CacheType selects the response cache backend.
type CacheType string

const (
	// CacheTypeMemory keeps entries in an in-process map.
	CacheTypeMemory CacheType = "memory"

	// CacheTypeNATS keeps entries in a NATS JetStream key-value bucket.
	CacheTypeNATS CacheType = "nats"

	// CacheTypeNone disables caching.
	CacheTypeNone CacheType = "none"
)

// CacheConfig configures the optional response cache.
type CacheConfig struct {
	// Type selects the backend; defaults to CacheTypeMemory.
	Type CacheType `json:"type" yaml:"type"`

	// TTL is the default lifetime for cached entries.
	TTL time.Duration `json:"ttl" yaml:"ttl"`

	// MaxSize bounds the memory backend; ignored by others.
	MaxSize int `json:"max_size" yaml:"max_size"`

	// NATS configures the NATS backend; required for CacheTypeNATS.
	NATS *NATSKVConfig `json:"nats,omitempty" yaml:"nats,omitempty"`
}

// NewCacheFromConfig builds the cache backend described by config. A nil
// config yields a NoOpCache.
func NewCacheFromConfig(config *CacheConfig) (Cache, error) {
	if config == nil {
		return NewNoOpCache(), nil
	}

	switch config.Type {
	case CacheTypeMemory, "":
		maxSize := config.MaxSize
		if maxSize <= 0 {
			maxSize = constants.DefaultCacheSize
		}

		return NewMemoryCache(maxSize), nil
	case CacheTypeNATS:
		if config.NATS == nil {
			return nil, ErrNATSConfigRequired
		}

		natsConfig := *config.NATS
		if natsConfig.TTL <= 0 {
			natsConfig.TTL = config.TTL
		}

		return NewNATSKVCache(&natsConfig)
	case CacheTypeNone:
		return NewNoOpCache(), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedCacheType, config.Type)
	}
}
