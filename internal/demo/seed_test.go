package demo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/clipcatalog/internal/catalog"
	"github.com/mrlokans/clipcatalog/internal/entities"
	"github.com/mrlokans/clipcatalog/internal/store"
)

func TestSeed_DefaultDataset(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore(store.WithCatalogConstraints())
	cat := catalog.New(st)

	sum, err := Seed(ctx, cat, DefaultDataset())
	require.NoError(t, err)

	assert.Equal(t, Summary{Shows: 3, Producers: 3, Clips: 4, Links: 4, Selections: 4}, sum)

	show := &entities.Show{ID: 1}
	require.NoError(t, cat.Sync(ctx, show))
	assert.Equal(t, "Nice Show", show.Name)

	producers, err := cat.Producers(ctx, show)
	require.NoError(t, err)
	require.Len(t, producers, 1)
	require.NoError(t, cat.Sync(ctx, producers[0]))
	assert.Equal(t, "Alex", producers[0].Name)

	clips, err := cat.Clips(ctx, show)
	require.NoError(t, err)
	require.Len(t, clips, 1)
	require.NoError(t, cat.Sync(ctx, clips[0]))
	assert.Equal(t, "First Clip", clips[0].Name)

	news := &entities.Show{Name: "Morning News"}
	require.NoError(t, cat.Sync(ctx, news))
	total, err := cat.TotalClipDuration(ctx, news)
	require.NoError(t, err)
	assert.Equal(t, 2*time.Minute+45*time.Second+3*time.Minute, total)
}

func TestSeed_SkipsExistingShows(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore(store.WithCatalogConstraints())
	cat := catalog.New(st)

	_, err := Seed(ctx, cat, DefaultDataset())
	require.NoError(t, err)

	sum, err := Seed(ctx, cat, DefaultDataset())
	require.NoError(t, err)
	assert.Equal(t, Summary{Skipped: 3}, sum)
	assert.Equal(t, 4, st.Len(store.TableProducerShow))
}
