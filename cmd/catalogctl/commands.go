package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"engmarket/internal/models"
	"engmarket/internal/repositories"
	"engmarket/internal/services"
)

func newValidateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Report dangling category, subcategory and provider references",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cat, err := opts.load(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			issues := cat.Validate()
			for _, issue := range issues {
				fmt.Fprintf(out, "%-20s %s\n", issue.Kind, issue.Error())
			}
			if len(issues) > 0 {
				return fmt.Errorf("%w: %d issue(s)", models.ErrCatalogIntegrity, len(issues))
			}
			fmt.Fprintf(out, "ok: %d services, %d providers, %d categories\n",
				len(cat.Services()), len(cat.Providers()), len(cat.Categories()))
			return nil
		},
	}
}

func newListCmd(opts *rootOptions) *cobra.Command {
	q := models.DefaultListingQuery()
	var (
		sortKey string
		asJSON  bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Run the marketplace listing with the given filters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cat, err := opts.load(cmd.Context())
			if err != nil {
				return err
			}
			q.Sort = models.SortKey(sortKey)
			listing := &services.ListingService{Catalog: cat}
			res, err := listing.List(cmd.Context(), "", q)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tTITLE\tCATEGORY\tPRICE\tRATING\tPROVIDER")
			for _, s := range res.Services {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%.0f\t%.1f\t%s\n", s.ID, s.Title, s.Category, s.Price, s.Rating, s.Provider.Name)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(out, "%d of %d services\n", len(res.Services), res.Total)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&q.Query, "query", "q", "", "free text search")
	f.StringVar(&q.Category, "category", q.Category, "category id or all")
	f.StringVar(&q.Subcategory, "subcategory", "", "subcategory id")
	f.Float64Var(&q.MinPrice, "min-price", q.MinPrice, "minimum price")
	f.Float64Var(&q.MaxPrice, "max-price", q.MaxPrice, "maximum price")
	f.StringVar(&q.Location, "location", q.Location, "provider location or all")
	f.StringVar(&q.Experience, "experience", q.Experience, "entry, mid, senior, expert or all")
	f.StringVar(&q.Delivery, "delivery", q.Delivery, "delivery bucket or all")
	f.BoolVar(&q.AvailableOnly, "available", false, "only available services")
	f.StringVar(&sortKey, "sort", string(q.Sort), "rating, price-low, price-high, newest or popular")
	f.IntVar(&q.Page, "page", 1, "page number")
	f.IntVar(&q.Limit, "limit", 0, "page size, 0 for all")
	f.BoolVar(&asJSON, "json", false, "print the listing result as JSON")
	return cmd
}

func newCategoriesCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List categories with service counts and starting prices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cat, err := opts.load(cmd.Context())
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tSERVICES\tFROM\tSUBCATEGORIES")
			for _, c := range cat.Categories() {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%.0f\t%d\n", c.ID, c.Name, c.ServiceCount, c.MinPrice, len(c.Subcategories))
			}
			return tw.Flush()
		},
	}
}

func newExportSQLCmd(opts *rootOptions) *cobra.Command {
	var driver, dsn string
	cmd := &cobra.Command{
		Use:   "export-sql",
		Short: "Write the catalog into a SQL database, replacing its snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cat, err := opts.load(cmd.Context())
			if err != nil {
				return err
			}
			db, name, err := openDB(driver, dsn)
			if err != nil {
				return err
			}
			defer db.Close()

			repo := &repositories.CatalogRepository{DB: db, Driver: name}
			if err := repo.Migrate(cmd.Context()); err != nil {
				return err
			}
			if err := repo.Save(cmd.Context(), cat); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported %d services to %s\n", len(cat.Services()), name)
			return nil
		},
	}
	cmd.Flags().StringVar(&driver, "driver", "sqlite", "target driver (mysql, pgx, sqlite)")
	cmd.Flags().StringVar(&dsn, "dsn", "", "target data source name")
	_ = cmd.MarkFlagRequired("dsn")
	return cmd
}
