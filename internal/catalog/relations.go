package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mrlokans/clipcatalog/internal/entities"
	"github.com/mrlokans/clipcatalog/internal/store"
)

// Producers returns the producers linked to show. Only the id of each
// producer is populated. Order is not defined.
func (c *Catalog) Producers(ctx context.Context, show *entities.Show) ([]*entities.Producer, error) {
	if show.ID == 0 {
		return nil, fmt.Errorf("producers of show: %w", ErrNoIdentifier)
	}

	ids, err := c.store.Pluck(ctx, store.TableProducerShow, "producer_id", store.Record{"show_id": show.ID})
	if err != nil {
		return nil, fmt.Errorf("producers of show %d: %w", show.ID, err)
	}

	producers := make([]*entities.Producer, 0, len(ids))
	for _, id := range ids {
		producers = append(producers, &entities.Producer{ID: id})
	}
	return producers, nil
}

// Clips returns the clips selected for any producer pairing of show. Only
// the id of each clip is populated. Selections that point at a missing
// clip are skipped.
func (c *Catalog) Clips(ctx context.Context, show *entities.Show) ([]*entities.Clip, error) {
	if show.ID == 0 {
		return nil, fmt.Errorf("clips of show: %w", ErrNoIdentifier)
	}

	ids, err := c.showClipIDs(ctx, show.ID)
	if err != nil {
		return nil, fmt.Errorf("clips of show %d: %w", show.ID, err)
	}

	clips := make([]*entities.Clip, 0, len(ids))
	for _, id := range ids {
		clips = append(clips, &entities.Clip{ID: id})
	}
	return clips, nil
}

// TotalClipDuration syncs every clip of show and sums their durations.
// The first failing sync aborts the sum.
func (c *Catalog) TotalClipDuration(ctx context.Context, show *entities.Show) (time.Duration, error) {
	clips, err := c.Clips(ctx, show)
	if err != nil {
		return 0, err
	}

	var total time.Duration
	for _, clip := range clips {
		if err := c.Sync(ctx, clip); err != nil {
			return 0, fmt.Errorf("sync clip %d: %w", clip.ID, err)
		}
		total += clip.Duration()
	}
	return total, nil
}

// LinkProducer records that producer works on show and returns the saved link.
func (c *Catalog) LinkProducer(ctx context.Context, producer *entities.Producer, show *entities.Show) (*entities.ProducerShow, error) {
	if producer.ID == 0 || show.ID == 0 {
		return nil, fmt.Errorf("link producer to show: both must be saved first: %w", ErrNoIdentifier)
	}

	link := &entities.ProducerShow{ProducerID: producer.ID, ShowID: show.ID}
	if err := c.Save(ctx, link); err != nil {
		return nil, err
	}
	return link, nil
}

// SelectClip attaches clip to a producer/show pairing and returns the saved selection.
func (c *Catalog) SelectClip(ctx context.Context, clip *entities.Clip, link *entities.ProducerShow) (*entities.SelectedClip, error) {
	if clip.ID == 0 || link.ID == 0 {
		return nil, fmt.Errorf("select clip: clip and pairing must be saved first: %w", ErrNoIdentifier)
	}

	selected := &entities.SelectedClip{ClipID: clip.ID, ProducerShowID: link.ID}
	if err := c.Save(ctx, selected); err != nil {
		return nil, err
	}
	return selected, nil
}

func (c *Catalog) showClipIDs(ctx context.Context, showID uint) ([]uint, error) {
	if joiner, ok := c.store.(store.ShowClipJoiner); ok {
		return joiner.ShowClipIDs(ctx, showID)
	}

	pairings, err := c.store.Pluck(ctx, store.TableProducerShow, store.IDColumn, store.Record{"show_id": showID})
	if err != nil {
		return nil, err
	}

	ids := []uint{}
	for _, pairing := range pairings {
		clipIDs, err := c.store.Pluck(ctx, store.TableSelectedClip, "clip_id", store.Record{"ps_id": pairing})
		if err != nil {
			return nil, err
		}
		for _, clipID := range clipIDs {
			_, err := c.store.Get(ctx, store.TableClip, clipID)
			if errors.Is(err, store.ErrNotFound) {
				continue
			}
			if err != nil {
				return nil, err
			}
			ids = append(ids, clipID)
		}
	}
	return ids, nil
}
