// Package storetest is a conformance suite for store.Store implementations.
//
//	func TestMyStore(t *testing.T) {
//	    storetest.Run(t, func(t *testing.T) store.Store[[]byte] { return mystore.New() })
//	}
package storetest

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/unkn0wn-root/mapcache/store"
)

// Factory returns a fresh, empty store for one subtest.
type Factory func(t *testing.T) store.Store[[]byte]

// Run exercises the full Store contract against stores built by newStore.
func Run(t *testing.T, newStore Factory) {
	t.Helper()

	t.Run("lookup miss", func(t *testing.T) {
		s := newStore(t)
		_, ok := s.Lookup("missing")
		require.False(t, ok)
	})

	t.Run("put overwrites", func(t *testing.T) {
		s := newStore(t)
		s.Put("k", []byte("v1"))
		s.Put("k", []byte("v2"))

		v, ok := s.Lookup("k")
		require.True(t, ok)
		require.Equal(t, []byte("v2"), v)
		require.Equal(t, 1, s.Len())
	})

	t.Run("put if absent keeps existing", func(t *testing.T) {
		s := newStore(t)

		prev, loaded := s.PutIfAbsent("k", []byte("first"))
		require.False(t, loaded)
		require.Nil(t, prev)

		prev, loaded = s.PutIfAbsent("k", []byte("second"))
		require.True(t, loaded)
		require.Equal(t, []byte("first"), prev)

		v, _ := s.Lookup("k")
		require.Equal(t, []byte("first"), v)
	})

	t.Run("remove", func(t *testing.T) {
		s := newStore(t)
		s.Put("k", []byte("v"))
		s.Remove("k")
		s.Remove("k") // no-op on missing

		_, ok := s.Lookup("k")
		require.False(t, ok)
		require.Zero(t, s.Len())
	})

	t.Run("clear is idempotent", func(t *testing.T) {
		s := newStore(t)
		s.Clear()
		for i := 0; i < 50; i++ {
			s.Put(fmt.Sprintf("k%d", i), []byte{byte(i)})
		}
		s.Clear()
		s.Clear()

		require.Zero(t, s.Len())
		for i := 0; i < 50; i++ {
			_, ok := s.Lookup(fmt.Sprintf("k%d", i))
			require.False(t, ok)
		}
	})

	t.Run("range visits all", func(t *testing.T) {
		s := newStore(t)
		want := []string{"a", "b", "c", "d"}
		for _, k := range want {
			s.Put(k, []byte(k))
		}

		var got []string
		s.Range(func(k string, v []byte) bool {
			require.Equal(t, k, string(v))
			got = append(got, k)
			return true
		})
		sort.Strings(got)
		require.Equal(t, want, got)
	})

	t.Run("range stops early", func(t *testing.T) {
		s := newStore(t)
		for _, k := range []string{"a", "b", "c"} {
			s.Put(k, []byte(k))
		}
		n := 0
		s.Range(func(string, []byte) bool {
			n++
			return false
		})
		require.Equal(t, 1, n)
	})

	t.Run("get or compute hit skips produce", func(t *testing.T) {
		s := newStore(t)
		s.Put("k", []byte("cached"))

		v, err := s.GetOrCompute("k", func() ([]byte, error) {
			t.Fatal("produce called on hit")
			return nil, nil
		})
		require.NoError(t, err)
		require.Equal(t, []byte("cached"), v)
	})

	t.Run("get or compute miss stores result", func(t *testing.T) {
		s := newStore(t)

		v, err := s.GetOrCompute("k", func() ([]byte, error) { return []byte("computed"), nil })
		require.NoError(t, err)
		require.Equal(t, []byte("computed"), v)

		got, ok := s.Lookup("k")
		require.True(t, ok)
		require.Equal(t, []byte("computed"), got)
	})

	t.Run("get or compute failure stores nothing", func(t *testing.T) {
		s := newStore(t)
		boom := errors.New("boom")

		_, err := s.GetOrCompute("k", func() ([]byte, error) { return nil, boom })
		require.ErrorIs(t, err, boom)

		_, ok := s.Lookup("k")
		require.False(t, ok)

		// next caller retries
		v, err := s.GetOrCompute("k", func() ([]byte, error) { return []byte("ok"), nil })
		require.NoError(t, err)
		require.Equal(t, []byte("ok"), v)
	})

	t.Run("get or compute keeps concurrent put", func(t *testing.T) {
		s := newStore(t)

		v, err := s.GetOrCompute("k", func() ([]byte, error) {
			s.Put("k", []byte("put"))
			return []byte("computed"), nil
		})
		require.NoError(t, err)
		require.Equal(t, []byte("computed"), v)

		got, _ := s.Lookup("k")
		require.Equal(t, []byte("put"), got)
	})

	t.Run("get or compute runs once under contention", func(t *testing.T) {
		s := newStore(t)
		const n = 64

		var calls atomic.Int32
		start := make(chan struct{})
		results := make([][]byte, n)
		errs := make([]error, n)

		var wg sync.WaitGroup
		wg.Add(n)
		for i := 0; i < n; i++ {
			go func(i int) {
				defer wg.Done()
				<-start
				results[i], errs[i] = s.GetOrCompute("hot", func() ([]byte, error) {
					calls.Add(1)
					time.Sleep(20 * time.Millisecond)
					return []byte("once"), nil
				})
			}(i)
		}
		close(start)
		wg.Wait()

		require.Equal(t, int32(1), calls.Load())
		for i := 0; i < n; i++ {
			require.NoError(t, errs[i])
			require.Equal(t, []byte("once"), results[i])
		}
	})

	t.Run("get or compute shares failure with waiters", func(t *testing.T) {
		s := newStore(t)
		const n = 16
		boom := errors.New("boom")

		var calls atomic.Int32
		release := make(chan struct{})
		entered := make(chan struct{})
		errs := make([]error, n)

		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[0] = s.GetOrCompute("k", func() ([]byte, error) {
				calls.Add(1)
				close(entered)
				<-release
				return nil, boom
			})
		}()
		<-entered

		wg.Add(n - 1)
		for i := 1; i < n; i++ {
			go func(i int) {
				defer wg.Done()
				_, errs[i] = s.GetOrCompute("k", func() ([]byte, error) {
					calls.Add(1)
					return []byte("late"), nil
				})
			}(i)
		}
		// give waiters time to join the in-flight call
		time.Sleep(50 * time.Millisecond)
		close(release)
		wg.Wait()

		require.ErrorIs(t, errs[0], boom)
		failed := 0
		for _, err := range errs {
			if errors.Is(err, boom) {
				failed++
			}
		}
		// goroutines that joined before release share the failure; the first one
		// arriving after it starts a fresh round, the rest hit its result.
		want := int32(1)
		if failed < n {
			want = 2
		}
		require.Equal(t, want, calls.Load())
	})

	t.Run("concurrent mixed access", func(t *testing.T) {
		s := newStore(t)
		var wg sync.WaitGroup
		for w := 0; w < 8; w++ {
			wg.Add(1)
			go func(w int) {
				defer wg.Done()
				for i := 0; i < 200; i++ {
					k := fmt.Sprintf("k%d", i%20)
					switch i % 5 {
					case 0:
						s.Put(k, []byte{byte(w)})
					case 1:
						s.PutIfAbsent(k, []byte{byte(w)})
					case 2:
						s.Remove(k)
					case 3:
						_, _ = s.GetOrCompute(k, func() ([]byte, error) { return []byte{byte(w)}, nil })
					default:
						s.Lookup(k)
					}
				}
			}(w)
		}
		wg.Wait()
		require.LessOrEqual(t, s.Len(), 20)
	})
}
