package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/vertere-lang/vertere/compiler/codegen"
)

// cachedResult is the on-disk/on-wire shape of a codegen.Result; the
// generator's internal buffer and feature map are irrelevant once the
// code string and source map are captured.
type cachedResult struct {
	Code      string                  `json:"code"`
	SourceMap []codegen.SourceMapping `json:"source_map,omitempty"`
}

// CompileCache memoizes codegen.Generate by a hash of (source, target).
type CompileCache struct {
	backend Cache
	ttl     time.Duration
}

// NewCompileCache wraps a Cache backend for compile-result memoization.
func NewCompileCache(backend Cache, ttl time.Duration) *CompileCache {
	return &CompileCache{backend: backend, ttl: ttl}
}

// Lookup returns a previously cached result for source compiled to target,
// or false if absent or expired.
func (c *CompileCache) Lookup(ctx context.Context, source string, target codegen.TargetName) (codegen.Result, bool) {
	raw, err := c.backend.Get(ctx, Key(source, target))
	if err != nil {
		return codegen.Result{}, false
	}
	var cr cachedResult
	if err := json.Unmarshal(raw, &cr); err != nil {
		return codegen.Result{}, false
	}
	return codegen.Result{Code: cr.Code, SourceMap: cr.SourceMap}, true
}

// Store saves a generated result for later Lookup calls.
func (c *CompileCache) Store(ctx context.Context, source string, target codegen.TargetName, result codegen.Result) error {
	raw, err := json.Marshal(cachedResult{Code: result.Code, SourceMap: result.SourceMap})
	if err != nil {
		return err
	}
	return c.backend.Set(ctx, Key(source, target), raw, c.ttl)
}
