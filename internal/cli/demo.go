package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/mrlokans/clipcatalog/internal/catalog"
	"github.com/mrlokans/clipcatalog/internal/config"
	"github.com/mrlokans/clipcatalog/internal/database"
	"github.com/mrlokans/clipcatalog/internal/demo"
	"github.com/mrlokans/clipcatalog/internal/entities"
	"github.com/mrlokans/clipcatalog/internal/store"
)

// DemoCommand loads the demo catalog and prints every show with its
// producers, clips and total duration.
type DemoCommand struct {
	DatabasePath string
	Verbose      bool

	Out io.Writer
}

func NewDemoCommand() *DemoCommand {
	return &DemoCommand{Out: os.Stdout}
}

func (cmd *DemoCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("demo", flag.ExitOnError)

	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the catalog database file")
	fs.BoolVar(&cmd.Verbose, "verbose", false, "Print clip details")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s demo [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Load the demo catalog into a database and print it.\n")
		fmt.Fprintf(os.Stderr, "Shows that already exist are left untouched.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	return fs.Parse(args)
}

func (cmd *DemoCommand) Run() error {
	ctx := context.Background()

	db, err := database.NewDatabase(cmd.DatabasePath)
	if err != nil {
		return err
	}
	defer db.Close()

	cat := db.NewCatalog()
	defer cat.Close(ctx)

	sum, err := demo.Seed(ctx, cat, demo.DefaultDataset())
	if err != nil {
		return fmt.Errorf("seed demo catalog: %w", err)
	}

	fmt.Fprintln(cmd.Out, "Demo Catalog")
	fmt.Fprintln(cmd.Out, "============")
	fmt.Fprintf(cmd.Out, "Database: %s\n", cmd.DatabasePath)
	fmt.Fprintf(cmd.Out, "Created %d shows, %d producers, %d clips (%d shows already present)\n\n",
		sum.Shows, sum.Producers, sum.Clips, sum.Skipped)

	return cmd.report(ctx, cat)
}

func (cmd *DemoCommand) report(ctx context.Context, cat *catalog.Catalog) error {
	ids, err := cat.Store().Pluck(ctx, store.TableShow, store.IDColumn, nil)
	if err != nil {
		return fmt.Errorf("list shows: %w", err)
	}

	for _, id := range ids {
		snap, err := cat.Snapshot(ctx, &entities.Show{ID: id})
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.Out, "%s\n", snap.Show)
		for _, producer := range snap.Producers {
			fmt.Fprintf(cmd.Out, "  producer: %s\n", producer.Name)
		}
		for _, clip := range snap.Clips {
			if cmd.Verbose {
				fmt.Fprintf(cmd.Out, "  clip: %s\n", clip)
			} else {
				fmt.Fprintf(cmd.Out, "  clip: %s (%s)\n", clip.Name, clip.Duration())
			}
		}
		fmt.Fprintf(cmd.Out, "  total: %s\n", snap.TotalDuration)
	}
	return nil
}
