package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/matzehuels/simplexsight/pkg/complex"
	"github.com/matzehuels/simplexsight/pkg/complex/file"
	"github.com/matzehuels/simplexsight/pkg/complex/mongo"
	"github.com/matzehuels/simplexsight/pkg/complex/sqlite"
)

// importOpts holds the command-line flags for the import command.
type importOpts struct {
	db    string // sqlite database path
	mongo string // mongodb URI (database and collection; fragment optional)
	name  string // display name, defaults to the file name
}

// importCommand creates the import command.
func (c *CLI) importCommand() *cobra.Command {
	var opts importOpts

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Store a complex file in SQLite or MongoDB",
		Example: `  simplexsight import torus.json --db complexes.db
  simplexsight import torus.json --mongo "mongodb://localhost:27017/sight?collection=simplices"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if (opts.db == "") == (opts.mongo == "") {
				return fmt.Errorf("exactly one of --db or --mongo is required")
			}
			return c.runImport(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.db, "db", "", "SQLite database path")
	cmd.Flags().StringVar(&opts.mongo, "mongo", "", "MongoDB URI; a #<id> fragment replaces that complex")
	cmd.Flags().StringVar(&opts.name, "name", "", "complex name (default: file name)")

	return cmd
}

func (c *CLI) runImport(ctx context.Context, path string, opts importOpts) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	cx, err := file.ReadFile(path)
	if err != nil {
		return err
	}
	name := opts.name
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	var source string
	var count int
	if opts.db != "" {
		source, count, err = importSQLite(ctx, opts.db, name, cx)
	} else {
		source, count, err = importMongo(ctx, opts.mongo, cx)
	}
	if err != nil {
		return err
	}

	prog.done("imported", "simplices", count, "name", name)
	printSuccess("Stored %s", StyleHighlight.Render(name))
	printKeyValue("Source", source)
	printNextStep("Render it with", fmt.Sprintf("simplexsight render %q", source))
	return nil
}

func importSQLite(ctx context.Context, db, name string, cx *complex.Complex) (string, int, error) {
	store, err := sqlite.Open(db)
	if err != nil {
		return "", 0, err
	}
	defer store.Close()

	id, err := store.Import(ctx, name, cx)
	if err != nil {
		return "", 0, err
	}
	all, err := complex.All(ctx, cx)
	if err != nil {
		return "", 0, err
	}
	return fmt.Sprintf("sqlite://%s#%s", db, id), len(all), nil
}

func importMongo(ctx context.Context, uri string, cx *complex.Complex) (string, int, error) {
	if !strings.Contains(uri, "#") {
		uri += "#" + uuid.NewString()
	}
	src, err := mongo.Connect(ctx, uri)
	if err != nil {
		return "", 0, err
	}
	defer src.Close()

	n, err := src.Replace(ctx, cx)
	if err != nil {
		return "", 0, err
	}
	return uri, n, nil
}
