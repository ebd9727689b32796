package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/xxxsen/common/logutil"
	"github.com/xxxsen/common/webapi"
	"go.uber.org/zap"

	"github.com/xxxsen/mchain/internal/config"
	"github.com/xxxsen/mchain/internal/handler"
	"github.com/xxxsen/mchain/internal/job"
	"github.com/xxxsen/mchain/internal/middleware"
	appErr "github.com/xxxsen/mchain/internal/pkg/errors"
	"github.com/xxxsen/mchain/internal/schedule"
)

const maxCLIGenerateLength = 2000

func newRunCmd(load configLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "run the http server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			a, err := newApp(cfg)
			if err != nil {
				return err
			}
			defer a.Close()
			return runServer(cfg, a)
		},
	}
}

func runServer(cfg *config.Config, a *app) error {
	addr := cfg.Server.Addr()
	logutil.GetLogger(context.Background()).Info("starting server",
		zap.String("addr", addr),
		zap.String("db_driver", cfg.Database.Driver),
		zap.Int("ingest_concurrency", cfg.Ingest.Concurrency),
	)

	deps := handler.RouterDeps{
		Chain: handler.NewChainHandler(a.learner, a.synthesizer, a.stats),
	}
	engine, err := webapi.NewEngine(
		"/api/v1",
		addr,
		webapi.WithRegister(func(group *gin.RouterGroup) {
			handler.RegisterRoutes(group, deps)
		}),
		webapi.WithExtraMiddlewares(
			middleware.RequestID(),
			middleware.ClientIP(),
			middleware.AccessLog(),
			middleware.CORS(cfg.CORS.AllowOrigins),
			gzip.Gzip(gzip.DefaultCompression),
			middleware.RateLimit(time.Duration(cfg.RateLimit.WindowMs)*time.Millisecond),
		),
	)
	if err != nil {
		return fmt.Errorf("init web engine: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Stats.ReportCron != "" {
		scheduler := schedule.NewCronScheduler()
		if err := scheduler.AddJob(job.NewChainStatsReportJob(a.stats), cfg.Stats.ReportCron); err != nil {
			return fmt.Errorf("schedule stats report: %w", err)
		}
		scheduler.Start(ctx)
		defer scheduler.Stop()
	}

	go func() {
		if err := engine.Run(); err != nil && err != http.ErrServerClosed {
			logutil.GetLogger(context.Background()).Error("server error", zap.Error(err))
			stop()
		}
	}()
	logutil.GetLogger(context.Background()).Info("http server listening", zap.String("addr", addr))

	<-ctx.Done()
	logutil.GetLogger(context.Background()).Info("server stopping...")
	return nil
}

func newMigrateCmd(load configLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "apply database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			conn, err := openDB(cfg)
			if err != nil {
				return err
			}
			return conn.Close()
		},
	}
}

func newIngestCmd(load configLoader) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "learn every non-empty line of a file (or stdin)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			a, err := newApp(cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			var in io.Reader = cmd.InOrStdin()
			if file != "" && file != "-" {
				f, err := os.Open(file)
				if err != nil {
					return fmt.Errorf("open input: %w", err)
				}
				defer f.Close()
				in = f
			}
			count, err := ingestLines(cmd.Context(), a, in)
			logutil.GetLogger(cmd.Context()).Info("ingest finished", zap.Int("lines", count))
			return err
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "input file, one text per line; stdin when empty or -")
	return cmd
}

func ingestLines(ctx context.Context, a *app, in io.Reader) (int, error) {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	count := 0
	for scanner.Scan() {
		if err := a.learner.Ingest(ctx, scanner.Text()); err != nil {
			return count, fmt.Errorf("line %d: %w", count+1, err)
		}
		count++
	}
	return count, scanner.Err()
}

func newGenerateCmd(load configLoader) *cobra.Command {
	var (
		seed   string
		length int
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "generate one text from the learned chain",
		RunE: func(cmd *cobra.Command, args []string) error {
			var seedPtr *string
			if cmd.Flags().Changed("seed") {
				seedPtr = &seed
			}
			var lengthPtr *int
			if cmd.Flags().Changed("length") {
				if length < 1 || length > maxCLIGenerateLength {
					return fmt.Errorf("%w: --length must be within 1..%d", appErr.ErrInvalid, maxCLIGenerateLength)
				}
				lengthPtr = &length
			}
			cfg, err := load()
			if err != nil {
				return err
			}
			a, err := newApp(cfg)
			if err != nil {
				return err
			}
			defer a.Close()
			text, err := a.synthesizer.Generate(cmd.Context(), seedPtr, lengthPtr)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), text)
			return err
		},
	}
	cmd.Flags().StringVar(&seed, "seed", "", "text to continue")
	cmd.Flags().IntVar(&length, "length", 0, "target length in characters; estimated from history when unset")
	return cmd
}

func newStatsCmd(load configLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "print chain statistics as json",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			a, err := newApp(cfg)
			if err != nil {
				return err
			}
			defer a.Close()
			stats, err := a.stats.Stats(cmd.Context())
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(stats)
		},
	}
}
