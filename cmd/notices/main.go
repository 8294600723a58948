package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ktanaka/notices-tracker/internal/common"
	"github.com/ktanaka/notices-tracker/internal/entity"
	"github.com/ktanaka/notices-tracker/internal/export"
	"github.com/ktanaka/notices-tracker/internal/keywords"
	"github.com/ktanaka/notices-tracker/internal/parser"
	"github.com/ktanaka/notices-tracker/internal/pipeline"
	"github.com/ktanaka/notices-tracker/internal/repository"
	"github.com/ktanaka/notices-tracker/internal/synthesizer"
	"github.com/ktanaka/notices-tracker/internal/vision"
)

var (
	dbPath       string
	keywordsPath string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "notices",
		Short: "Turn OCR text from school notices into schedulable activities",
	}

	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "notices.db", "database path")
	rootCmd.PersistentFlags().StringVar(&keywordsPath, "keywords", "", "YAML keyword catalog overriding the built-in vocabularies")

	rootCmd.AddCommand(parseCmd())
	rootCmd.AddCommand(batchCmd())
	rootCmd.AddCommand(recognizeCmd())
	rootCmd.AddCommand(exportCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadCatalog() (keywords.Catalog, error) {
	if keywordsPath == "" {
		return keywords.Default(), nil
	}
	return keywords.LoadFile(keywordsPath)
}

func parseCmd() *cobra.Command {
	var confidence float64

	cmd := &cobra.Command{
		Use:   "parse [file]",
		Short: "Parse one OCR text dump and print the extracted activities",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := loadCatalog()
			if err != nil {
				return err
			}
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
			p := parser.New(logger, catalog)
			content, err := p.Parse(string(raw), confidence)
			if err != nil {
				return err
			}

			activities, err := synthesizer.New(logger, catalog).Synthesize(content)
			if err != nil {
				return err
			}

			out := struct {
				Content    entity.ParsedContent       `json:"parsed_content"`
				Activities []entity.ExtractedActivity `json:"activities"`
			}{Content: content, Activities: activities}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}
	cmd.Flags().Float64Var(&confidence, "confidence", 0.8, "OCR confidence prior for the dump")
	return cmd
}

func batchCmd() *cobra.Command {
	var confidence float64

	cmd := &cobra.Command{
		Use:   "batch [dir]",
		Short: "Process every .txt dump under a directory and persist the results",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := loadCatalog()
			if err != nil {
				return err
			}
			cfg := common.LoadConfig()
			thresholds, err := entity.NewConfidenceThresholds(
				cfg.Pipeline.MinAcceptable, cfg.Pipeline.ReviewRequired, cfg.Pipeline.AutoApprove)
			if err != nil {
				return err
			}

			db, err := repository.Open(dbPath)
			if err != nil {
				return err
			}
			defer db.Close()

			logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
			proc := pipeline.NewProcessor(
				logger,
				parser.New(logger, catalog),
				synthesizer.New(logger, catalog),
				repository.NewOcrResultRepository(db, logger),
				repository.NewActivityRepository(db, logger),
				thresholds,
			)

			var docs []pipeline.Document
			err = filepath.WalkDir(args[0], func(path string, d os.DirEntry, walkErr error) error {
				if walkErr != nil {
					return walkErr
				}
				if d.IsDir() || filepath.Ext(path) != ".txt" {
					return nil
				}
				raw, readErr := os.ReadFile(path)
				if readErr != nil {
					return readErr
				}
				docs = append(docs, pipeline.Document{
					ImageID:    filepath.Base(path),
					RawText:    string(raw),
					Confidence: confidence,
				})
				return nil
			})
			if err != nil {
				return err
			}

			outcomes := proc.ProcessBatch(cmd.Context(), docs)
			failed := 0
			for i, o := range outcomes {
				if o.Err != nil {
					failed++
					fmt.Fprintf(os.Stderr, "%s: %v\n", docs[i].ImageID, o.Err)
				}
			}
			fmt.Printf("processed %d documents, %d failed\n", len(outcomes), failed)
			return nil
		},
	}
	cmd.Flags().Float64Var(&confidence, "confidence", 0.8, "OCR confidence prior for each dump")
	return cmd
}

func recognizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recognize [image...]",
		Short: "Recognize notice photos via the vision service and persist the results",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := loadCatalog()
			if err != nil {
				return err
			}
			cfg := common.LoadConfig()
			if cfg.Vision.BaseURL == "" {
				return fmt.Errorf("VISION_API_URL env var is required")
			}
			thresholds, err := entity.NewConfidenceThresholds(
				cfg.Pipeline.MinAcceptable, cfg.Pipeline.ReviewRequired, cfg.Pipeline.AutoApprove)
			if err != nil {
				return err
			}

			db, err := repository.Open(dbPath)
			if err != nil {
				return err
			}
			defer db.Close()

			logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
			client := vision.NewClient(vision.Config{
				BaseURL: cfg.Vision.BaseURL,
				APIKey:  cfg.Vision.APIKey,
				Timeout: cfg.Vision.Timeout,
			}, logger)
			proc := pipeline.NewProcessor(
				logger,
				parser.New(logger, catalog),
				synthesizer.New(logger, catalog),
				repository.NewOcrResultRepository(db, logger),
				repository.NewActivityRepository(db, logger),
				thresholds,
			)

			failed := 0
			for _, imagePath := range args {
				result, err := proc.ProcessImage(cmd.Context(), client, imagePath)
				if err != nil {
					failed++
					fmt.Fprintf(os.Stderr, "%s: %v\n", imagePath, err)
					continue
				}
				fmt.Printf("%s: %s (%d activities)\n", imagePath, result.ProcessingStatus, len(result.ExtractedActivities))
			}
			fmt.Printf("recognized %d images, %d failed\n", len(args), failed)
			return nil
		},
	}
	return cmd
}

func exportCmd() *cobra.Command {
	var outPath, fromDate, toDate string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export persisted activities to an XLSX workbook",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := repository.Open(dbPath)
			if err != nil {
				return err
			}
			defer db.Close()

			logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
			svc := export.NewService(repository.NewActivityRepository(db, logger), logger)
			data, err := svc.ExportActivitiesXLSX(cmd.Context(), fromDate, toDate)
			if err != nil {
				return err
			}
			if err := os.WriteFile(outPath, data, 0o644); err != nil {
				return err
			}
			fmt.Printf("wrote %s (%d bytes)\n", outPath, len(data))
			return nil
		},
	}
	cmd.Flags().StringVar(&outPath, "out", "activities.xlsx", "output file")
	cmd.Flags().StringVar(&fromDate, "from", "", "start date filter (YYYY-MM-DD)")
	cmd.Flags().StringVar(&toDate, "to", "", "end date filter (YYYY-MM-DD)")
	return cmd
}
