package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/scrounge/pkg/domain"
)

func sampleEntries(hall string) []domain.MenuEntry {
	return []domain.MenuEntry{
		{Hall: hall, Meal: "Breakfast", Station: "Grill", Item: "Scrambled Eggs"},
		{Hall: hall, Meal: "Breakfast", Station: "Grill", Item: "Bacon"},
		{Hall: hall, Meal: "Lunch", Station: "Pizza", Item: "Cheese Pizza"},
		{Hall: hall, Meal: "Lunch", Station: "Soup", Item: "Chicken Noodle Soup"},
	}
}

func TestStore_ReplaceAndReadHall(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	t.Run("read empty hall", func(t *testing.T) {
		menu, err := s.ReadHall(ctx, "bursley")
		require.NoError(t, err)
		assert.True(t, menu.Empty())
	})

	t.Run("replace and read back in order", func(t *testing.T) {
		require.NoError(t, s.ReplaceHall(ctx, "bursley", sampleEntries("bursley")))

		menu, err := s.ReadHall(ctx, "bursley")
		require.NoError(t, err)
		require.Len(t, menu.Meals, 2)
		assert.Equal(t, "Breakfast", menu.Meals[0].Name)
		assert.Equal(t, []string{"Scrambled Eggs", "Bacon"}, menu.Meals[0].Stations[0].Items)
		assert.Equal(t, "Lunch", menu.Meals[1].Name)
		require.Len(t, menu.Meals[1].Stations, 2)
		assert.Equal(t, "Pizza", menu.Meals[1].Stations[0].Name)
		assert.Equal(t, "Soup", menu.Meals[1].Stations[1].Name)
	})

	t.Run("replace is idempotent", func(t *testing.T) {
		require.NoError(t, s.ReplaceHall(ctx, "bursley", sampleEntries("bursley")))
		first, err := s.ReadHall(ctx, "bursley")
		require.NoError(t, err)

		require.NoError(t, s.ReplaceHall(ctx, "bursley", sampleEntries("bursley")))
		second, err := s.ReadHall(ctx, "bursley")
		require.NoError(t, err)

		assert.Equal(t, first, second)
		assert.Len(t, second.Entries(), 4, "no accumulation across replaces")
	})

	t.Run("replace with new generation drops old rows", func(t *testing.T) {
		require.NoError(t, s.ReplaceHall(ctx, "bursley", []domain.MenuEntry{
			{Meal: "Dinner", Station: "Grill", Item: "Hamburger"},
		}))

		menu, err := s.ReadHall(ctx, "bursley")
		require.NoError(t, err)
		require.Len(t, menu.Meals, 1)
		assert.Equal(t, "Dinner", menu.Meals[0].Name)
		assert.Equal(t, "bursley", menu.Entries()[0].Hall, "hall forced onto stored rows")
	})

	t.Run("replace with empty entries clears the hall", func(t *testing.T) {
		require.NoError(t, s.ReplaceHall(ctx, "bursley", nil))
		menu, err := s.ReadHall(ctx, "bursley")
		require.NoError(t, err)
		assert.True(t, menu.Empty())
	})

	t.Run("other halls untouched", func(t *testing.T) {
		require.NoError(t, s.ReplaceHall(ctx, "east-quad", sampleEntries("east-quad")))
		require.NoError(t, s.ReplaceHall(ctx, "bursley", nil))

		menu, err := s.ReadHall(ctx, "east-quad")
		require.NoError(t, err)
		assert.Len(t, menu.Entries(), 4)
	})
}

func TestStore_ReadAllHalls(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, s.ReplaceHall(ctx, "bursley", sampleEntries("bursley")))
	require.NoError(t, s.ReplaceHall(ctx, "markley", sampleEntries("markley")))

	menus, err := s.ReadAllHalls(ctx, []string{"bursley", "markley", "east-quad"})
	require.NoError(t, err)
	require.Len(t, menus, 3)
	assert.Len(t, menus["bursley"].Entries(), 4)
	assert.Len(t, menus["markley"].Entries(), 4)
	assert.True(t, menus["east-quad"].Empty())
}

func TestStore_LastRefresh(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	t.Run("never refreshed", func(t *testing.T) {
		ts, err := s.GetLastRefresh(ctx)
		require.NoError(t, err)
		assert.True(t, ts.IsZero())
	})

	t.Run("set and get", func(t *testing.T) {
		now := time.Date(2026, 8, 29, 10, 30, 0, 0, time.UTC)
		require.NoError(t, s.SetLastRefresh(ctx, now))

		ts, err := s.GetLastRefresh(ctx)
		require.NoError(t, err)
		assert.True(t, ts.Equal(now), "got %v, want %v", ts, now)
	})

	t.Run("overwrite", func(t *testing.T) {
		later := time.Date(2026, 8, 30, 3, 0, 0, 0, time.UTC)
		require.NoError(t, s.SetLastRefresh(ctx, later))

		ts, err := s.GetLastRefresh(ctx)
		require.NoError(t, err)
		assert.True(t, ts.Equal(later))
	})
}

func TestStore_ReplaceHallConcurrentReaders(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, s.ReplaceHall(ctx, "bursley", sampleEntries("bursley")))

	// readers must always observe a complete generation, never a partial one
	var wg sync.WaitGroup
	stop := make(chan struct{})

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
			}
			menu, err := s.ReadHall(ctx, "bursley")
			if !assert.NoError(t, err) {
				return
			}
			assert.Len(t, menu.Entries(), 4, "reader saw a partial generation")
		}
	}()

	for i := 0; i < 20; i++ {
		require.NoError(t, s.ReplaceHall(ctx, "bursley", sampleEntries("bursley")))
	}
	close(stop)
	wg.Wait()
}
