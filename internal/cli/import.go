package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mrlokans/clipcatalog/internal/catalog"
	"github.com/mrlokans/clipcatalog/internal/config"
	"github.com/mrlokans/clipcatalog/internal/database"
	"github.com/mrlokans/clipcatalog/internal/external"
)

// ImportCommand saves an entity read from an XML or JSON document.
type ImportCommand struct {
	DatabasePath string
	Type         string
	FilePath     string
	Format       string
	DryRun       bool

	Out io.Writer
}

func NewImportCommand() *ImportCommand {
	return &ImportCommand{Out: os.Stdout}
}

func (cmd *ImportCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("import", flag.ExitOnError)

	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the catalog database file")
	fs.StringVar(&cmd.Type, "type", "", "Entity type: clip, producer, show, producer-show or selected-clip (required)")
	fs.StringVar(&cmd.FilePath, "file", "", "Path to the document (required)")
	fs.StringVar(&cmd.Format, "format", "", "Document format: xml or json (default: from file extension)")
	fs.BoolVar(&cmd.DryRun, "dry-run", false, "Parse and validate without saving")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s import -type <type> -file <path> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Save a catalog entity from its external representation.\n")
		fmt.Fprintf(os.Stderr, "A document with an id overwrites that row; without one a new row is created.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.Type == "" {
		return fmt.Errorf("required flag -type not provided")
	}
	if cmd.FilePath == "" {
		return fmt.Errorf("required flag -file not provided")
	}
	return nil
}

func (cmd *ImportCommand) Run() error {
	ctx := context.Background()

	format, err := cmd.format()
	if err != nil {
		return err
	}
	e, err := newEntity(cmd.Type)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(cmd.FilePath)
	if err != nil {
		return fmt.Errorf("read %s: %w", cmd.FilePath, err)
	}
	if err := catalog.FromExternal(data, format, e); err != nil {
		return fmt.Errorf("parse %s: %w", cmd.FilePath, err)
	}

	db, err := database.NewDatabase(cmd.DatabasePath)
	if err != nil {
		return err
	}
	defer db.Close()

	err = cmd.save(ctx, db, e)
	if cmd.DryRun {
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.Out, "Dry run: %s is valid, nothing saved\n", e)
		return nil
	}

	db.NewAuditService().LogImport(ctx, e, err)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.Out, "Saved %s\n", e)
	return nil
}

// save stores e in its own catalog, committing unless this is a dry run.
// The catalog is closed on return so the audit log can take the connection.
func (cmd *ImportCommand) save(ctx context.Context, db *database.Database, e catalog.Entity) error {
	cat := db.NewCatalog()
	defer cat.Close(ctx)

	if err := cat.Save(ctx, e); err != nil {
		return err
	}
	if cmd.DryRun {
		return nil
	}
	return cat.Commit(ctx)
}

func (cmd *ImportCommand) format() (external.Format, error) {
	if cmd.Format != "" {
		return external.ParseFormat(cmd.Format)
	}
	ext := strings.TrimPrefix(filepath.Ext(cmd.FilePath), ".")
	if ext == "" {
		return "", fmt.Errorf("cannot infer format of %s, pass -format", cmd.FilePath)
	}
	return external.ParseFormat(ext)
}
