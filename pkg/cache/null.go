package cache

import (
	"context"
	"time"
)

// NullCache backs --no-cache and a nil cache passed to the pipeline. Get
// always misses and Set drops the artifact.
type NullCache struct{}

func NewNullCache() Cache { return NullCache{} }

func (NullCache) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NullCache) Delete(context.Context, string) error                     { return nil }
func (NullCache) String() string                                           { return "none" }
func (NullCache) Close() error                                             { return nil }
