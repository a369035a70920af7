// Package demo provides the demo catalog and the read-only demo mode.
package demo

import (
	"context"
	"fmt"
	"time"

	"github.com/mrlokans/clipcatalog/internal/catalog"
	"github.com/mrlokans/clipcatalog/internal/entities"
)

// Dataset is a set of shows with their producers and selected clips.
type Dataset struct {
	Base  time.Time
	Shows []ShowSeed
}

type ShowSeed struct {
	Name      string
	Producers []ProducerSeed
}

type ProducerSeed struct {
	Name  string
	Phone string
	Email string
	Clips []ClipSeed
}

// ClipSeed places a clip at Offset from the dataset base time.
type ClipSeed struct {
	Name        string
	Description string
	Offset      time.Duration
	Length      time.Duration
}

// Summary counts what Seed created.
type Summary struct {
	Shows      int
	Producers  int
	Clips      int
	Links      int
	Selections int
	Skipped    int
}

// DefaultDataset returns the demo catalog. Its first show is the
// Alex / First Clip / Nice Show example.
func DefaultDataset() Dataset {
	return Dataset{
		Base: time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC),
		Shows: []ShowSeed{
			{
				Name: "Nice Show",
				Producers: []ProducerSeed{
					{
						Name: "Alex", Phone: "555-0100", Email: "alex@example.com",
						Clips: []ClipSeed{
							{Name: "First Clip", Description: "Opening titles", Length: 90 * time.Second},
						},
					},
				},
			},
			{
				Name: "Morning News",
				Producers: []ProducerSeed{
					{
						Name: "Sam", Phone: "555-0101", Email: "sam@example.com",
						Clips: []ClipSeed{
							{Name: "Weather", Description: "Regional forecast", Offset: time.Hour, Length: 2 * time.Minute},
							{Name: "Traffic", Offset: time.Hour + 5*time.Minute, Length: 45 * time.Second},
						},
					},
					{
						Name: "Alex", Phone: "555-0100", Email: "alex@example.com",
						Clips: []ClipSeed{
							{Name: "Headlines", Description: "Top stories", Offset: 2 * time.Hour, Length: 3 * time.Minute},
						},
					},
				},
			},
			{
				Name: "Late Review",
				Producers: []ProducerSeed{
					{Name: "Robin", Email: "robin@example.com"},
				},
			},
		},
	}
}

// Seed saves ds through cat and commits. Shows that already exist are
// skipped; producers and clips are reused by name.
func Seed(ctx context.Context, cat *catalog.Catalog, ds Dataset) (Summary, error) {
	var sum Summary

	for _, ss := range ds.Shows {
		show := &entities.Show{Name: ss.Name}
		created, err := ensure(ctx, cat, show)
		if err != nil {
			return sum, fmt.Errorf("show %q: %w", ss.Name, err)
		}
		if !created {
			sum.Skipped++
			continue
		}
		sum.Shows++

		for _, ps := range ss.Producers {
			producer := &entities.Producer{Name: ps.Name, Phone: ps.Phone, Email: ps.Email}
			created, err := ensure(ctx, cat, producer)
			if err != nil {
				return sum, fmt.Errorf("producer %q: %w", ps.Name, err)
			}
			if created {
				sum.Producers++
			}

			link, err := cat.LinkProducer(ctx, producer, show)
			if err != nil {
				return sum, fmt.Errorf("link %q to %q: %w", ps.Name, ss.Name, err)
			}
			sum.Links++

			for _, cs := range ps.Clips {
				start := ds.Base.Add(cs.Offset)
				stop := start.Add(cs.Length)
				clip := &entities.Clip{Name: cs.Name, Description: cs.Description, StartTime: &start, StopTime: &stop}
				created, err := ensure(ctx, cat, clip)
				if err != nil {
					return sum, fmt.Errorf("clip %q: %w", cs.Name, err)
				}
				if created {
					sum.Clips++
				}

				if _, err := cat.SelectClip(ctx, clip, link); err != nil {
					return sum, fmt.Errorf("select %q: %w", cs.Name, err)
				}
				sum.Selections++
			}
		}
	}

	if err := cat.Commit(ctx); err != nil {
		return sum, err
	}
	return sum, nil
}

// ensure loads e by name, saving it when no row matches.
func ensure(ctx context.Context, cat *catalog.Catalog, e catalog.Entity) (bool, error) {
	if err := cat.Sync(ctx, e); err != nil {
		return false, err
	}
	if e.Identifier() != 0 {
		return false, nil
	}
	return true, cat.Save(ctx, e)
}
