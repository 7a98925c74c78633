package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/aws/aws-sdk-go-v2/service/sqs"

	"legal-file-auditor/internal/bootstrap"
	"legal-file-auditor/internal/queue"
	"legal-file-auditor/internal/scheduler"
	"legal-file-auditor/internal/shared/config"
	"legal-file-auditor/internal/shared/storage/db"
	"legal-file-auditor/internal/shared/telemetry"
	"legal-file-auditor/internal/workerproc"
)

func main() {
	cfg := config.Load()
	telemetry.Init(cfg.LogLevel, cfg.Env == "dev")
	defer telemetry.Sync()

	if cfg.SQSQueueURL == "" && cfg.ScanSchedule == "" {
		telemetry.Error("worker.nothing_to_do", map[string]any{"hint": "set SQS_QUEUE_URL or SCAN_SCHEDULE"})
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.BuildWithOptions(cfg, db.DefaultWorkerOptions())
	if err != nil {
		telemetry.Error("worker.bootstrap_failed", map[string]any{"err": err})
		os.Exit(1)
	}
	defer app.Close()

	if cfg.ScanSchedule != "" {
		sched, err := scheduler.New(cfg.ScanSchedule, app.Scans, 0)
		if err != nil {
			telemetry.Error("worker.schedule_invalid", map[string]any{"err": err})
			os.Exit(1)
		}
		sched.Start()
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
			defer cancel()
			sched.Stop(stopCtx)
		}()
	}

	if cfg.SQSQueueURL == "" {
		<-ctx.Done()
		return
	}

	awsCfg, err := queue.LoadAWSConfig(ctx, cfg.AWSRegion)
	if err != nil {
		telemetry.Error("worker.aws_config_failed", map[string]any{"err": err})
		os.Exit(1)
	}
	consumer := &workerproc.Consumer{
		Client:            sqs.NewFromConfig(awsCfg),
		QueueURL:          cfg.SQSQueueURL,
		Processor:         app.Scans,
		Concurrency:       cfg.WorkerConcurrency,
		VisibilitySeconds: cfg.SQSVisibilitySeconds,
		ShutdownTimeout:   cfg.ShutdownTimeout,
	}
	consumer.Run(ctx)
}
