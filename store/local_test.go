package store_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/unkn0wn-root/mapcache/store"
	"github.com/unkn0wn-root/mapcache/store/storetest"
)

func TestLocalContract(t *testing.T) {
	storetest.Run(t, func(*testing.T) store.Store[[]byte] {
		return store.NewLocal[[]byte](0, 0)
	})
}

func TestLocalSingleShardContract(t *testing.T) {
	storetest.Run(t, func(*testing.T) store.Store[[]byte] {
		return store.NewLocal[[]byte](1, 1)
	})
}

func TestLocalGenericValues(t *testing.T) {
	type point struct{ X, Y int }

	s := store.NewLocal[*point](3, 10)
	p := &point{X: 1, Y: 2}
	s.Put("p", p)

	got, ok := s.Lookup("p")
	require.True(t, ok)
	require.Same(t, p, got, "local store holds references")
}

func TestLocalComputeNilInterface(t *testing.T) {
	s := store.NewLocal[any](0, 0)

	var v any
	require.NotPanics(t, func() {
		var err error
		v, err = s.GetOrCompute("k", func() (any, error) { return nil, nil })
		require.NoError(t, err)
	})
	require.Nil(t, v)

	got, ok := s.Lookup("k")
	require.True(t, ok, "nil result is a stored value")
	require.Nil(t, got)

	again, err := s.GetOrCompute("k", func() (any, error) {
		t.Fatal("produce called on hit")
		return nil, nil
	})
	require.NoError(t, err)
	require.Nil(t, again)
}

func TestLocalRangeAllowsReentry(t *testing.T) {
	s := store.NewLocal[int](4, 0)
	for i, k := range []string{"a", "b", "c"} {
		s.Put(k, i)
	}

	s.Range(func(k string, _ int) bool {
		s.Remove(k)
		return true
	})
	require.Zero(t, s.Len())
}
