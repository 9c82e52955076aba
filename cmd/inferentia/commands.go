package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/inferentia-labs/meeting-knowledge/internal/adapter/repository"
	"github.com/inferentia-labs/meeting-knowledge/internal/infrastructure/cache"
	"github.com/inferentia-labs/meeting-knowledge/internal/infrastructure/storage"
	"github.com/inferentia-labs/meeting-knowledge/internal/usecase/knowledge"
	"github.com/inferentia-labs/meeting-knowledge/internal/usecase/pipeline"
	pkgai "github.com/inferentia-labs/meeting-knowledge/pkg/ai"
	"github.com/inferentia-labs/meeting-knowledge/pkg/config"
)

// buildStore wires the flat-file knowledge store the CLI operates on.
// The CLI always uses the file backend regardless of STORE_BACKEND so it
// can run without a database.
func buildStore(cfg *config.Config, logger *zap.Logger) *knowledge.Store {
	repo := repository.NewFileKnowledgeRepository(cfg.Store.DataDir)
	memCache := cache.NewMemoryStore(cfg.Redis.CacheTTL)
	return knowledge.NewStore(repo, memCache, logger)
}

func loadConfig() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

func newProcessCmd() *cobra.Command {
	var team, audioPath string

	cmd := &cobra.Command{
		Use:   "process",
		Short: "Process a meeting recording into the team's knowledge base",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			defer logger.Sync()

			if !cfg.KnownTeam(team) {
				return fmt.Errorf("unknown team %q", team)
			}

			if err := cfg.Models.ValidateTranscriber(); err != nil {
				return err
			}

			audio, err := os.Open(audioPath)
			if err != nil {
				return fmt.Errorf("opening audio file: %w", err)
			}
			defer audio.Close()

			hfClient := pkgai.NewHFClient(&cfg.Models)
			models := pipeline.NewModelSet(hfClient, &cfg.Models)

			var transcriber pkgai.Transcriber
			switch cfg.Models.Transcriber {
			case "assemblyai":
				transcriber = pkgai.NewAssemblyAITranscriber(&cfg.Models)
			case "whisper":
				transcriber = pkgai.NewWhisperTranscriber(hfClient, cfg.Models.WhisperModel)
			default:
				return fmt.Errorf("unknown transcriber %q", cfg.Models.Transcriber)
			}

			store := buildStore(cfg, logger)
			transcripts := storage.NewLocalStore(cfg.Storage.LocalDir)
			svc := pipeline.NewService(transcriber, models.Extractors(), store, transcripts, cfg.Models.EnrichWorkers, logger)

			result, err := svc.ProcessMeeting(cmd.Context(), team, audio, filepath.Base(audioPath))
			if err != nil {
				return err
			}

			fmt.Printf("Stored meeting %s for team %s (%d action items, %d decisions)\n",
				result.Record.ID, team, len(result.Record.ActionItems), len(result.Record.Decisions))
			fmt.Printf("\nSummary:\n%s\n", result.Record.Summary)
			if result.Previous != nil {
				fmt.Printf("\nPrevious meeting (%s):\n%s\n", result.Previous.Date, result.Previous.Summary)
			}
			if result.Degraded {
				fmt.Println("\nNote: some extraction stages degraded; review the stored record.")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&team, "team", "", "team the meeting belongs to")
	cmd.Flags().StringVar(&audioPath, "audio", "", "path to the meeting recording")
	cmd.MarkFlagRequired("team")
	cmd.MarkFlagRequired("audio")
	return cmd
}

func newExportCmd() *cobra.Command {
	var team, outPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a team's knowledge base as CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			defer logger.Sync()

			store := buildStore(cfg, logger)
			kb, err := store.Get(cmd.Context(), team)
			if err != nil {
				return err
			}

			out := os.Stdout
			if outPath != "" {
				f, err := os.Create(outPath)
				if err != nil {
					return fmt.Errorf("creating output file: %w", err)
				}
				defer f.Close()
				out = f
			}
			return knowledge.WriteCSV(out, kb)
		},
	}

	cmd.Flags().StringVar(&team, "team", "", "team to export")
	cmd.Flags().StringVar(&outPath, "out", "", "write CSV to this file instead of stdout")
	cmd.MarkFlagRequired("team")
	return cmd
}

func newKBCmd() *cobra.Command {
	var team string

	cmd := &cobra.Command{
		Use:   "kb",
		Short: "Print a team's knowledge base",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			defer logger.Sync()

			store := buildStore(cfg, logger)
			kb, err := store.Get(cmd.Context(), team)
			if err != nil {
				return err
			}

			if len(kb) == 0 {
				fmt.Printf("No meetings recorded for team %s\n", team)
				return nil
			}

			for _, rec := range kb {
				fmt.Printf("=== %s (%s)\n", rec.Date, rec.ID)
				fmt.Printf("Summary: %s\n", rec.Summary)
				for _, item := range rec.ActionItems {
					fmt.Printf("  [ ] %s", item.Task)
					if len(item.Owners) > 0 {
						fmt.Printf(" (owners: %v)", item.Owners)
					}
					if len(item.DueDates) > 0 {
						fmt.Printf(" (due: %v)", item.DueDates)
					}
					fmt.Printf(" [%s]\n", item.Status)
				}
				for _, dec := range rec.Decisions {
					fmt.Printf("  [*] %s\n", dec.Decision)
				}
				fmt.Println()
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&team, "team", "", "team to print")
	cmd.MarkFlagRequired("team")
	return cmd
}
