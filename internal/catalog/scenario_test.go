package catalog_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/clipcatalog/internal/catalog"
	"github.com/mrlokans/clipcatalog/internal/database"
	"github.com/mrlokans/clipcatalog/internal/entities"
	"github.com/mrlokans/clipcatalog/internal/store"
)

func TestShowGraphOnSQLite(t *testing.T) {
	ctx := context.Background()

	db, err := database.NewDatabase(filepath.Join(t.TempDir(), "movie.db"))
	require.NoError(t, err)
	defer db.Close()

	cat := db.NewCatalog()
	defer cat.Close(ctx)

	producer := &entities.Producer{Name: "Alex"}
	require.NoError(t, cat.Save(ctx, producer))
	require.NoError(t, cat.Commit(ctx))

	clip := &entities.Clip{Name: "First Clip"}
	require.NoError(t, cat.Save(ctx, clip))
	require.NoError(t, cat.Commit(ctx))

	show := &entities.Show{Name: "Nice Show"}
	require.NoError(t, cat.Save(ctx, show))
	require.NoError(t, cat.Commit(ctx))

	link := &entities.ProducerShow{ProducerID: 1, ShowID: 1}
	require.NoError(t, cat.Save(ctx, link))
	require.NoError(t, cat.Commit(ctx))

	selected := &entities.SelectedClip{ClipID: 1, ProducerShowID: 1}
	require.NoError(t, cat.Save(ctx, selected))
	require.NoError(t, cat.Commit(ctx))

	loaded := &entities.Show{ID: 1}
	require.NoError(t, cat.Sync(ctx, loaded))
	assert.Equal(t, "Show_1<Nice Show>", loaded.String())

	producers, err := cat.Producers(ctx, loaded)
	require.NoError(t, err)
	require.Len(t, producers, 1)
	require.NoError(t, cat.Sync(ctx, producers[0]))
	assert.Equal(t, "Alex", producers[0].Name)

	clips, err := cat.Clips(ctx, loaded)
	require.NoError(t, err)
	require.Len(t, clips, 1)
	require.NoError(t, cat.Sync(ctx, clips[0]))
	assert.Equal(t, "First Clip", clips[0].Name)

	total, err := cat.TotalClipDuration(ctx, loaded)
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestDuplicateNameOnSQLite(t *testing.T) {
	ctx := context.Background()

	db, err := database.NewDatabase(filepath.Join(t.TempDir(), "dup.db"))
	require.NoError(t, err)
	defer db.Close()

	cat := db.NewCatalog()
	defer cat.Close(ctx)

	require.NoError(t, cat.Save(ctx, &entities.Clip{Name: "Same"}))
	err = cat.Save(ctx, &entities.Clip{Name: "Same"})
	assert.ErrorIs(t, err, store.ErrDuplicate)
}

func TestExternalRoundTripAfterSave(t *testing.T) {
	ctx := context.Background()

	db, err := database.NewDatabase(filepath.Join(t.TempDir(), "ext.db"))
	require.NoError(t, err)
	defer db.Close()

	cat := db.NewCatalog()
	defer cat.Close(ctx)

	producer := &entities.Producer{Name: "Alex", Phone: "555", Email: "alex@example.com"}
	require.NoError(t, cat.Save(ctx, producer))

	doc, err := catalog.ToExternal(producer, "xml")
	require.NoError(t, err)

	parsed := &entities.Producer{}
	require.NoError(t, catalog.FromExternal(doc, "xml", parsed))
	assert.Equal(t, producer, parsed)

	require.NoError(t, cat.Sync(ctx, parsed))
	assert.Equal(t, producer, parsed)
}
