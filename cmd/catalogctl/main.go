// Command catalogctl inspects and exports the marketplace catalog without
// starting the HTTP server.
//
// Usage:
//
//	catalogctl validate --catalog ./catalog.yaml
//	catalogctl list --category electrical --sort price-low
//	catalogctl categories
//	catalogctl export-sql --driver sqlite --dsn ./catalog.db
package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"engmarket/internal/catalog"
	"engmarket/internal/repositories"
)

type rootOptions struct {
	catalogPath string
	dbDriver    string
	dbURL       string
	verbose     bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "catalogctl",
		Short:         "Inspect the engineering services catalog",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.catalogPath, "catalog", "", "YAML catalog file (default: embedded seed)")
	root.PersistentFlags().StringVar(&opts.dbDriver, "db-driver", "", "read the catalog from SQL with this driver (mysql, pgx, sqlite)")
	root.PersistentFlags().StringVar(&opts.dbURL, "db-url", "", "SQL data source name")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable verbose logging")

	root.AddCommand(newValidateCmd(opts))
	root.AddCommand(newListCmd(opts))
	root.AddCommand(newCategoriesCmd(opts))
	root.AddCommand(newExportSQLCmd(opts))
	return root
}

func (o *rootOptions) logger() *zap.Logger {
	if !o.verbose {
		return zap.NewNop()
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

func driverName(driver string) (string, error) {
	switch driver {
	case "mysql", "mariadb":
		return "mysql", nil
	case "pgx", "postgres", "postgresql":
		return "pgx", nil
	case "sqlite", "sqlite3":
		return "sqlite", nil
	}
	return "", fmt.Errorf("unsupported database driver %q", driver)
}

func openDB(driver, dsn string) (*sql.DB, string, error) {
	name, err := driverName(driver)
	if err != nil {
		return nil, "", err
	}
	db, err := sql.Open(name, dsn)
	if err != nil {
		return nil, "", err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, "", fmt.Errorf("ping %s: %w", name, err)
	}
	return db, name, nil
}

// load reads the catalog from the SQL store, the YAML file or the
// embedded seed, in that order of preference.
func (o *rootOptions) load(ctx context.Context) (*catalog.Catalog, error) {
	log := o.logger()
	defer log.Sync()

	switch {
	case o.dbDriver != "":
		db, name, err := openDB(o.dbDriver, o.dbURL)
		if err != nil {
			return nil, err
		}
		defer db.Close()
		log.Debug("loading catalog from sql", zap.String("driver", name))
		return (&repositories.CatalogRepository{DB: db, Driver: name}).Load(ctx)
	case o.catalogPath != "":
		log.Debug("loading catalog file", zap.String("path", o.catalogPath))
		return catalog.FileSource{Path: o.catalogPath}.Load(ctx)
	default:
		log.Debug("loading embedded catalog")
		return catalog.EmbeddedSource{}.Load(ctx)
	}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
