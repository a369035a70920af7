package catalog

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/clipcatalog/internal/entities"
	"github.com/mrlokans/clipcatalog/internal/external"
	"github.com/mrlokans/clipcatalog/internal/store"
)

func newTestCatalog(t *testing.T) (*Catalog, *store.MemoryStore) {
	t.Helper()
	st := store.NewMemoryStore(store.WithCatalogConstraints())
	return New(st), st
}

func at(minute, second int) *time.Time {
	t := time.Date(2024, 6, 1, 12, minute, second, 0, time.UTC)
	return &t
}

func TestFields(t *testing.T) {
	assert.Equal(t, []string{"id", "name", "description", "start_time", "stop_time"}, Fields(&entities.Clip{}))
	assert.Equal(t, []string{"id", "name"}, Fields(&entities.Show{}))
	assert.Equal(t, []string{"id", "name", "phone", "email"}, Fields(&entities.Producer{}))
	assert.Equal(t, []string{"id", "clip_id", "ps_id"}, Fields(&entities.SelectedClip{}))
}

func TestCatalog_SaveInsertsAndAssignsID(t *testing.T) {
	cat, _ := newTestCatalog(t)
	ctx := context.Background()

	first := &entities.Clip{Name: "First", Description: "d", StartTime: at(0, 0), StopTime: at(1, 0)}
	require.NoError(t, cat.Save(ctx, first))
	second := &entities.Clip{Name: "Second"}
	require.NoError(t, cat.Save(ctx, second))

	assert.NotZero(t, first.ID)
	assert.NotEqual(t, first.ID, second.ID)

	loaded := &entities.Clip{ID: first.ID}
	require.NoError(t, cat.Sync(ctx, loaded))
	assert.Equal(t, first.Name, loaded.Name)
	assert.Equal(t, first.Description, loaded.Description)
	assert.True(t, first.StartTime.Equal(*loaded.StartTime))
	assert.True(t, first.StopTime.Equal(*loaded.StopTime))
}

func TestCatalog_SaveOverwritesWholeRecord(t *testing.T) {
	cat, _ := newTestCatalog(t)
	ctx := context.Background()

	producer := &entities.Producer{Name: "Alex", Phone: "555-0100", Email: "alex@example.com"}
	require.NoError(t, cat.Save(ctx, producer))

	replacement := &entities.Producer{ID: producer.ID, Name: "Alex"}
	require.NoError(t, cat.Save(ctx, replacement))

	loaded := &entities.Producer{ID: producer.ID}
	require.NoError(t, cat.Sync(ctx, loaded))
	assert.Equal(t, "Alex", loaded.Name)
	assert.Empty(t, loaded.Phone, "save replaces the record instead of merging")
	assert.Empty(t, loaded.Email)
}

func TestCatalog_SaveWithUnknownIDFails(t *testing.T) {
	cat, _ := newTestCatalog(t)
	err := cat.Save(context.Background(), &entities.Show{ID: 42, Name: "Nowhere"})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestCatalog_SaveValidatesLengths(t *testing.T) {
	cat, st := newTestCatalog(t)
	ctx := context.Background()

	clip := &entities.Clip{
		Name:        strings.Repeat("n", 33),
		Description: strings.Repeat("d", 257),
	}
	err := cat.Save(ctx, clip)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr), "expected ValidationError, got %v", err)
	assert.Equal(t, "tbl_clip", verr.Table)
	assert.ElementsMatch(t, []FieldError{
		{Field: "name", Rule: "max", Param: "32"},
		{Field: "description", Rule: "max", Param: "256"},
	}, verr.Fields)
	assert.Zero(t, clip.ID)
	assert.Zero(t, st.Len(store.TableClip))
}

func TestCatalog_SaveAcceptsLimits(t *testing.T) {
	cat, _ := newTestCatalog(t)
	producer := &entities.Producer{
		Name:  strings.Repeat("n", 32),
		Phone: strings.Repeat("1", 32),
		Email: strings.Repeat("e", 32),
	}
	assert.NoError(t, cat.Save(context.Background(), producer))
}

func TestCatalog_SaveRejectsTextDocumentsCannotCarry(t *testing.T) {
	cat, st := newTestCatalog(t)
	ctx := context.Background()

	producer := &entities.Producer{Name: "A\xffB", Phone: "x\x01y", Email: "ok"}
	err := cat.Save(ctx, producer)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.ElementsMatch(t, []FieldError{
		{Field: "name", Rule: "xmltext"},
		{Field: "phone", Rule: "xmltext"},
	}, verr.Fields)
	assert.Zero(t, st.Len(store.TableProducer))
}

func TestCatalog_SavedTextSurvivesExternalRoundTrip(t *testing.T) {
	cat, _ := newTestCatalog(t)
	ctx := context.Background()

	producer := &entities.Producer{Name: "Zoë 🎬", Phone: "a\tb", Email: "line\nbreak"}
	require.NoError(t, cat.Save(ctx, producer))

	for _, format := range []external.Format{external.FormatXML, external.FormatJSON} {
		t.Run(string(format), func(t *testing.T) {
			data, err := ToExternal(producer, format)
			require.NoError(t, err)

			parsed := &entities.Producer{}
			require.NoError(t, FromExternal(data, format, parsed))
			assert.Equal(t, producer, parsed)
		})
	}
}

func TestIsXMLText(t *testing.T) {
	assert.True(t, isXMLText(""))
	assert.True(t, isXMLText("tab\tnewline\n\u00e9\U0001F3AC"))
	assert.False(t, isXMLText("bad\xff"))
	assert.False(t, isXMLText("bell\a"))
	assert.False(t, isXMLText("nul\x00"))
	assert.False(t, isXMLText("\uFFFE"))
}

func TestCatalog_SaveRequiresName(t *testing.T) {
	cat, _ := newTestCatalog(t)
	err := cat.Save(context.Background(), &entities.Show{})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []FieldError{{Field: "name", Rule: "required"}}, verr.Fields)
}

func TestCatalog_SaveDuplicateName(t *testing.T) {
	cat, _ := newTestCatalog(t)
	ctx := context.Background()

	require.NoError(t, cat.Save(ctx, &entities.Show{Name: "Twin"}))
	err := cat.Save(ctx, &entities.Show{Name: "Twin"})
	assert.ErrorIs(t, err, store.ErrDuplicate)
}

func TestCatalog_SyncWithoutIdentifier(t *testing.T) {
	cat, _ := newTestCatalog(t)
	err := cat.Sync(context.Background(), &entities.Clip{})
	assert.ErrorIs(t, err, ErrNoIdentifier)

	err = cat.Sync(context.Background(), &entities.ProducerShow{})
	assert.ErrorIs(t, err, ErrNoIdentifier)
}

func TestCatalog_SyncByName(t *testing.T) {
	cat, _ := newTestCatalog(t)
	ctx := context.Background()

	saved := &entities.Producer{Name: "Alex", Email: "alex@example.com"}
	require.NoError(t, cat.Save(ctx, saved))

	byName := &entities.Producer{Name: "Alex"}
	require.NoError(t, cat.Sync(ctx, byName))
	assert.Equal(t, saved.ID, byName.ID)
	assert.Equal(t, "alex@example.com", byName.Email)
}

func TestCatalog_SyncMissingRowIsNoop(t *testing.T) {
	cat, _ := newTestCatalog(t)
	ctx := context.Background()

	clip := &entities.Clip{ID: 77, Name: "Local only", Description: "unsaved"}
	require.NoError(t, cat.Sync(ctx, clip))
	assert.Equal(t, uint(77), clip.ID)
	assert.Equal(t, "Local only", clip.Name)
	assert.Equal(t, "unsaved", clip.Description)

	byName := &entities.Show{Name: "Unknown"}
	require.NoError(t, cat.Sync(ctx, byName))
	assert.Zero(t, byName.ID)
}

func TestCatalog_FetchReportsMissingRow(t *testing.T) {
	cat, _ := newTestCatalog(t)
	err := cat.Fetch(context.Background(), &entities.Show{ID: 5})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestCatalog_SyncOverwritesLocalChanges(t *testing.T) {
	cat, _ := newTestCatalog(t)
	ctx := context.Background()

	clip := &entities.Clip{Name: "Stored", StartTime: at(0, 0)}
	require.NoError(t, cat.Save(ctx, clip))

	clip.Name = "Edited"
	clip.StartTime = nil
	clip.StopTime = at(5, 0)
	require.NoError(t, cat.Sync(ctx, clip))

	assert.Equal(t, "Stored", clip.Name)
	require.NotNil(t, clip.StartTime)
	assert.Nil(t, clip.StopTime)
}

func TestCatalog_CommitAndRollback(t *testing.T) {
	cat, st := newTestCatalog(t)
	ctx := context.Background()

	require.NoError(t, cat.Save(ctx, &entities.Show{Name: "Committed"}))
	require.NoError(t, cat.Commit(ctx))
	require.NoError(t, cat.Save(ctx, &entities.Show{Name: "Pending"}))

	cat.Close(ctx)
	assert.Equal(t, 1, st.Len(store.TableShow))
}
