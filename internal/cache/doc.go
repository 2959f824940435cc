// Package cache provides a generic memoization cache for resolved
// shader variants.
//
// # Cache[K, V]
//
// A thread-safe create-once map. The create callback runs under the
// cache lock, so concurrent requests for the same key produce exactly
// one value; failed creations are not stored and retry on the next
// request.
//
//	compiled := cache.New[int, *CompiledShader]()
//	shader, err := compiled.GetOrCreate(index, func() (*CompiledShader, error) {
//		return compile(index)
//	})
//
// There is no eviction: entries live until Clear. The keyspace is the
// shader variant table, which is small and fixed for the life of the
// process.
//
// # Thread Safety
//
// Cache is safe for concurrent use and must not be copied after
// creation (it contains a mutex).
package cache
