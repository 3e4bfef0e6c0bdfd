package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/noah-isme/horarios-api/internal/repository"
	"github.com/noah-isme/horarios-api/internal/service"
	"github.com/noah-isme/horarios-api/pkg/storage"
)

func exportCmd() *cobra.Command {
	var (
		outDir string
		format string
		grids  bool
		retain time.Duration
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write preference exports to a directory",
		Long: `Export renders the flat preference table and, with --grids, one grid
per professor who has submitted. Files older than --retain are pruned first.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd.Context())
			if err != nil {
				return err
			}
			defer e.closer()

			store, err := storage.NewLocalStorage(outDir)
			if err != nil {
				return err
			}
			if retain > 0 {
				pruned, err := store.CleanupOlderThan(retain)
				if err != nil {
					return err
				}
				if len(pruned) > 0 {
					e.log.Info("pruned old exports", zap.Strings("files", pruned))
				}
			}

			settings := service.ScheduleSettings{
				Days:        e.cfg.Schedule.Days,
				PriorityMax: e.cfg.Schedule.PriorityMax,
			}
			professors := repository.NewProfessorRepository(e.db)
			priorities := repository.NewPriorityRepository(e.db)
			assignments := service.NewAssignmentService(professors, repository.NewScheduleRepository(e.db), repository.NewCatalogRepository(e.db), nil, nil, settings, e.log)
			exports := service.NewExportService(priorities, assignments, nil, settings, e.log)

			ctx := cmd.Context()
			meta := service.RequestMeta{UserAgent: "horarios-admin"}
			file, err := exports.AllPreferences(ctx, format, "", meta)
			if err != nil {
				return err
			}
			path, err := store.Save(file.Filename, file.Body)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)

			if !grids {
				return nil
			}
			list, err := professors.ListWithProgress(ctx)
			if err != nil {
				return fmt.Errorf("list professors: %w", err)
			}
			for _, p := range list {
				if p.PriorityCount == 0 {
					continue
				}
				grid, err := exports.ProfessorGrid(ctx, p.ID, format, "", meta)
				if err != nil {
					return err
				}
				path, err := store.Save(grid.Filename, grid.Body)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), path)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&outDir, "out", "./exports", "Output directory")
	cmd.Flags().StringVar(&format, "format", "csv", "csv or pdf")
	cmd.Flags().BoolVar(&grids, "grids", false, "Also write one grid per professor")
	cmd.Flags().DurationVar(&retain, "retain", 0, "Delete exports older than this first")
	return cmd
}
