package profile_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/callsight/callprof/pkg/profile"
)

func TestStoreGetOrCreate(t *testing.T) {
	store := profile.NewStore()
	id := profile.Identity{Source: "main", Symbol: "update", Line: 42}

	rec := store.GetOrCreate(id, "display")
	require.NotNil(t, rec)
	require.Equal(t, id, rec.ID)
	require.Equal(t, "display", rec.Display)
	require.Zero(t, rec.CallCount)
	require.Zero(t, rec.CumulativeTime)

	again := store.GetOrCreate(id, "other display")
	require.Same(t, rec, again, "GetOrCreate must return the registered record")
	require.Equal(t, "display", again.Display, "display form is fixed at creation")

	require.Equal(t, 1, store.Len())
}

func TestStoreReset(t *testing.T) {
	store := profile.NewStore()
	store.GetOrCreate(profile.Identity{Source: "a"}, "a")
	store.GetOrCreate(profile.Identity{Source: "b"}, "b")
	require.Equal(t, 2, store.Len())

	store.Reset()
	require.Equal(t, 0, store.Len())
	require.Empty(t, store.All())
}

func TestStoreAllSnapshot(t *testing.T) {
	store := profile.NewStore()
	store.GetOrCreate(profile.Identity{Source: "a"}, "a")
	store.GetOrCreate(profile.Identity{Source: "b"}, "b")

	recs := store.All()
	require.Len(t, recs, 2)

	// The snapshot slice is detached from the store.
	store.GetOrCreate(profile.Identity{Source: "c"}, "c")
	require.Len(t, recs, 2)
}
