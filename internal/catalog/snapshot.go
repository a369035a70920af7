package catalog

import (
	"context"
	"encoding/xml"
	"fmt"
	"time"

	"github.com/mrlokans/clipcatalog/internal/entities"
	"github.com/mrlokans/clipcatalog/internal/external"
)

// ShowSnapshot is a show with its producers and clips fully loaded.
type ShowSnapshot struct {
	Show          *entities.Show
	Producers     []*entities.Producer
	Clips         []*entities.Clip
	TotalDuration time.Duration
}

// Snapshot loads show and every producer and clip linked to it. Unlike
// Sync, a missing show row is reported as store.ErrNotFound.
func (c *Catalog) Snapshot(ctx context.Context, show *entities.Show) (*ShowSnapshot, error) {
	if err := c.Fetch(ctx, show); err != nil {
		return nil, fmt.Errorf("load show: %w", err)
	}

	producers, err := c.Producers(ctx, show)
	if err != nil {
		return nil, err
	}
	for _, producer := range producers {
		if err := c.Sync(ctx, producer); err != nil {
			return nil, fmt.Errorf("sync producer %d: %w", producer.ID, err)
		}
	}

	clips, err := c.Clips(ctx, show)
	if err != nil {
		return nil, err
	}
	var total time.Duration
	for _, clip := range clips {
		if err := c.Sync(ctx, clip); err != nil {
			return nil, fmt.Errorf("sync clip %d: %w", clip.ID, err)
		}
		total += clip.Duration()
	}

	return &ShowSnapshot{
		Show:          show,
		Producers:     producers,
		Clips:         clips,
		TotalDuration: total,
	}, nil
}

type snapshotDocument struct {
	XMLName       xml.Name            `xml:"show_snapshot" json:"-"`
	Show          external.Document   `xml:"tbl_show" json:"show"`
	Producers     []external.Document `xml:"producers>tbl_producer" json:"producers"`
	Clips         []external.Document `xml:"clips>tbl_clip" json:"clips"`
	TotalDuration string              `xml:"total_duration" json:"total_duration"`
	TotalSeconds  float64             `xml:"total_seconds" json:"total_seconds"`
}

// Encode renders the snapshot as one document.
func (s *ShowSnapshot) Encode(format external.Format) ([]byte, error) {
	doc := snapshotDocument{
		Show:          DocumentOf(s.Show),
		Producers:     make([]external.Document, 0, len(s.Producers)),
		Clips:         make([]external.Document, 0, len(s.Clips)),
		TotalDuration: s.TotalDuration.String(),
		TotalSeconds:  s.TotalDuration.Seconds(),
	}
	for _, producer := range s.Producers {
		doc.Producers = append(doc.Producers, DocumentOf(producer))
	}
	for _, clip := range s.Clips {
		doc.Clips = append(doc.Clips, DocumentOf(clip))
	}
	return external.Marshal(format, doc)
}
