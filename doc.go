// Package mapcache implements a named, process-local cache with lazy loading,
// first-class cached nulls and an optional store-by-value mode.
//
// Components:
//   - Store[T]: concurrent key -> T map (store.Local by default, store/bigcache for
//     large by-value caches). Provides atomic get-or-compute.
//   - Wrapper[V]: distinguishes "cached as null" from "not cached".
//   - Codec[V]: optional serialization delegate. When set, the store holds only
//     framed bytes and every read decodes a fresh value.
//   - Get(ctx, key, loader): runs loader once per miss among concurrent callers;
//     a failed load stores nothing and surfaces as *RetrievalError.
//
// Nulls are Go nil values (nil pointer, map, slice, chan, func, interface) or
// explicit PutNull calls. With Options.DisallowNull they fail with *ConfigError.
//
// Usage:
//
//	users, _ := mapcache.New(mapcache.Options[*User]{
//	    Name:  "users",
//	    Codec: codec.JSON[*User]{}, // omit to store references
//	})
//	u, err := users.Get(ctx, "u:1", func(ctx context.Context) (*User, error) {
//	    return db.LoadUser(ctx, 1) // a nil result is cached as null
//	})
package mapcache
