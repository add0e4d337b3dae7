package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-timetable-api/internal/app"
	"github.com/noah-isme/sma-timetable-api/internal/dto"
	"github.com/noah-isme/sma-timetable-api/pkg/config"
	"github.com/noah-isme/sma-timetable-api/pkg/logger"
)

var timetableID string

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate and store a timetable's occurrences once",
	RunE:  generate,
}

func init() {
	generateCmd.Flags().StringVar(&timetableID, "timetable", "", "timetable id")
	_ = generateCmd.MarkFlagRequired("timetable")
	rootCmd.AddCommand(generateCmd)
}

func generate(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logr, err := logger.New(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logr.Sync() //nolint:errcheck

	// One-shot runs never enqueue.
	cfg.Scheduler.AsyncWorkers = 0
	svc, err := app.New(ctx, cfg, logr)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logr.Error("service close", zap.Error(err))
		}
	}()

	resp, err := svc.Generator.Generate(ctx, dto.GenerateScheduleRequest{TimetableID: timetableID})
	if err != nil {
		return err
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}
