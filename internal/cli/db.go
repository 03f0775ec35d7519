package cli

import (
	"context"

	"loctool/internal/config"
	"loctool/internal/parser"
	"loctool/internal/resource"
	"loctool/internal/store"
	"loctool/internal/xliff"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func dbCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Move resources between XLIFF files and PostgreSQL",
	}
	cmd.AddCommand(dbImportCmd())
	cmd.AddCommand(dbExportCmd())
	return cmd
}

func dbImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Store the resources of an XLIFF file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := setupContext()
			defer cancel()
			return withStore(ctx, loadConfig(), func(cfg *config.Config, s *store.Store) error {
				return runDBImport(ctx, cfg, s, args[0])
			})
		},
	}
}

func dbExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <output>",
		Short: "Write stored resources to an XLIFF file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			project, _ := cmd.Flags().GetString("project")
			locale, _ := cmd.Flags().GetString("locale")
			ctx, cancel := setupContext()
			defer cancel()
			return withStore(ctx, loadConfig(), func(cfg *config.Config, s *store.Store) error {
				return runDBExport(ctx, cfg, s, args[0], resource.Criteria{Project: project, Locale: locale})
			})
		},
	}
	cmd.Flags().String("project", "", "Only export this project")
	cmd.Flags().String("locale", "", "Only export this target locale")
	return cmd
}

func withStore(ctx context.Context, cfg *config.Config, fn func(*config.Config, *store.Store) error) error {
	pgPool, err := connectDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer pgPool.Close()

	s := store.New(pgPool)
	if err := s.EnsureSchema(ctx); err != nil {
		return err
	}
	return fn(cfg, s)
}

// runDBImport handles the `db import` command.
func runDBImport(ctx context.Context, cfg *config.Config, s *store.Store, input string) error {
	in, err := xliffParser(cfg).Parse(input)
	if err != nil {
		return err
	}
	rs := in.Xliff.GetResources(resource.Criteria{})
	if err := s.AddAll(ctx, rs); err != nil {
		return err
	}
	log.Info().Str("file", input).Int("resources", len(rs)).Msg("Imported XLIFF file")
	return nil
}

// runDBExport handles the `db export` command.
func runDBExport(ctx context.Context, cfg *config.Config, s *store.Store, output string, c resource.Criteria) error {
	rs, err := s.GetBy(ctx, c)
	if err != nil {
		return err
	}
	x := xliff.New(cfg.XliffOptions())
	x.AddResources(rs)

	if err := xliffParser(cfg).Write(&parser.ParseResult{FilePath: output, FileType: "xliff", Xliff: x}, output); err != nil {
		return err
	}
	log.Info().
		Str("file", output).
		Str("project", c.Project).
		Str("locale", c.Locale).
		Int("resources", len(rs)).
		Msg("Exported resources")
	return nil
}
