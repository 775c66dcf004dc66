package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vertere-lang/vertere/compiler/codegen"
)

func TestCompileCacheLookupMiss(t *testing.T) {
	backend, mr := setupTestRedis(t)
	defer mr.Close()
	cc := NewCompileCache(backend, time.Minute)

	_, ok := cc.Lookup(context.Background(), "functio f() {}", codegen.Fidelis)
	require.False(t, ok)
}

func TestCompileCacheStoreThenLookup(t *testing.T) {
	backend, mr := setupTestRedis(t)
	defer mr.Close()
	cc := NewCompileCache(backend, time.Minute)
	ctx := context.Background()

	source := "functio f() {}"
	result := codegen.Result{Code: "export function f(): void {}\n"}
	require.NoError(t, cc.Store(ctx, source, codegen.Fidelis, result))

	got, ok := cc.Lookup(ctx, source, codegen.Fidelis)
	require.True(t, ok)
	require.Equal(t, result.Code, got.Code)

	_, ok = cc.Lookup(ctx, source, codegen.Simplex)
	require.False(t, ok, "cache key must be target-specific")
}
