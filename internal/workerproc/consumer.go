package workerproc

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqstypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"

	"legal-file-auditor/internal/firms"
	"legal-file-auditor/internal/scans"
	"legal-file-auditor/internal/shared/metrics"
	"legal-file-auditor/internal/shared/telemetry"
)

const (
	DefaultConcurrency       = 4
	DefaultVisibilitySeconds = 1200
	DefaultShutdownTimeout   = 30 * time.Second

	maxMessages     = 10
	waitTimeSeconds = 20

	receiveCountAttr = sqstypes.QueueAttributeName("ApproximateReceiveCount")
)

// SQSAPI is the subset of the SQS client the consumer uses.
type SQSAPI interface {
	ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error)
	DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error)
}

// Processor runs one queued scan. *scans.Service implements it.
type Processor interface {
	RunQueued(ctx context.Context, scanID, firmID string) error
}

// Consumer polls a queue and runs each scan it receives.
type Consumer struct {
	Client            SQSAPI
	QueueURL          string
	Processor         Processor
	Concurrency       int
	VisibilitySeconds int
	ShutdownTimeout   time.Duration
}

// Run polls until ctx is cancelled, then waits up to ShutdownTimeout for
// in-flight scans.
func (c *Consumer) Run(ctx context.Context) {
	concurrency := c.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	visibility := c.VisibilitySeconds
	if visibility <= 0 {
		visibility = DefaultVisibilitySeconds
	}
	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup

	telemetry.Info("worker.started", map[string]any{
		"queue":       c.QueueURL,
		"concurrency": concurrency,
		"visibility":  visibility,
	})

pollLoop:
	for {
		if ctx.Err() != nil {
			break
		}
		resp, err := c.Client.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
			QueueUrl:            aws.String(c.QueueURL),
			MaxNumberOfMessages: maxMessages,
			WaitTimeSeconds:     waitTimeSeconds,
			VisibilityTimeout:   int32(visibility),
			AttributeNames:      []sqstypes.QueueAttributeName{receiveCountAttr},
		})
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
				break
			}
			telemetry.Error("worker.receive_failed", map[string]any{"err": err})
			continue
		}

		for _, msg := range resp.Messages {
			select {
			case <-ctx.Done():
				break pollLoop
			case sem <- struct{}{}:
			}
			metrics.IncScanJobsReceived()
			wg.Add(1)
			go func(m sqstypes.Message) {
				defer wg.Done()
				defer func() { <-sem }()
				c.Handle(ctx, m)
			}(msg)
		}
	}

	timeout := c.ShutdownTimeout
	if timeout <= 0 {
		timeout = DefaultShutdownTimeout
	}
	telemetry.Info("worker.draining", map[string]any{"timeout": timeout.String()})
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(timeout):
		telemetry.Warn("worker.shutdown_timeout", nil)
	}
}

// Handle processes one message. Unparseable messages and scans that can never
// succeed are deleted; other failures stay on the queue for redelivery.
func (c *Consumer) Handle(ctx context.Context, msg sqstypes.Message) {
	body := aws.ToString(msg.Body)
	decoded, meta, err := ParseMessage(body)
	if err != nil {
		fields := baseFields(msg, decoded.ScanID, decoded.RequestID)
		fields["body_len"] = meta.BodyLen
		if meta.BodySHA != "" {
			fields["body_sha256"] = meta.BodySHA
		}
		fields["error"] = err.Error()
		event := "worker.scan.decode_failed"
		switch err.(type) {
		case ErrEmptyBody:
			event = "worker.scan.empty_body"
		case ErrMissingID:
			event = "worker.scan.missing_id"
		}
		telemetry.Error(event, fields)
		if c.delete(ctx, msg, decoded.ScanID, decoded.RequestID) {
			metrics.IncScanJobsDeletedUnrecoverable()
		}
		return
	}

	telemetry.Info("worker.scan.received", baseFields(msg, decoded.ScanID, decoded.RequestID))

	if err := c.Processor.RunQueued(ctx, decoded.ScanID, decoded.FirmID); err != nil {
		perr := ErrProcess{ScanID: decoded.ScanID, FirmID: decoded.FirmID, RequestID: decoded.RequestID, Err: err}
		fields := baseFields(msg, decoded.ScanID, decoded.RequestID)
		fields["firm_id"] = decoded.FirmID
		fields["error"] = perr.Error()
		if unrecoverable(err) {
			telemetry.Error("worker.scan.unrecoverable", fields)
			if c.delete(ctx, msg, decoded.ScanID, decoded.RequestID) {
				metrics.IncScanJobsDeletedUnrecoverable()
			}
			return
		}
		telemetry.Error("worker.scan.failed", fields)
		metrics.IncScanJobsFailed()
		return
	}

	if c.delete(ctx, msg, decoded.ScanID, decoded.RequestID) {
		telemetry.Info("worker.scan.completed", baseFields(msg, decoded.ScanID, decoded.RequestID))
		metrics.IncScanJobsCompleted()
	}
}

func unrecoverable(err error) bool {
	return errors.Is(err, scans.ErrNotFound) ||
		errors.Is(err, scans.ErrInvalidInput) ||
		errors.Is(err, firms.ErrNotFound) ||
		errors.Is(err, firms.ErrInactive)
}

func (c *Consumer) delete(ctx context.Context, msg sqstypes.Message, scanID, requestID string) bool {
	receipt := aws.ToString(msg.ReceiptHandle)
	if receipt == "" {
		fields := baseFields(msg, scanID, requestID)
		fields["error"] = "missing receipt handle"
		telemetry.Error("worker.scan.delete_failed", fields)
		return false
	}
	if _, err := c.Client.DeleteMessage(context.WithoutCancel(ctx), &sqs.DeleteMessageInput{
		QueueUrl:      aws.String(c.QueueURL),
		ReceiptHandle: aws.String(receipt),
	}); err != nil {
		fields := baseFields(msg, scanID, requestID)
		fields["error"] = err.Error()
		telemetry.Error("worker.scan.delete_failed", fields)
		return false
	}
	return true
}

func baseFields(msg sqstypes.Message, scanID, requestID string) map[string]any {
	fields := map[string]any{
		"scan_id":        scanID,
		"sqs_message_id": aws.ToString(msg.MessageId),
		"receive_count":  receiveCount(msg),
	}
	if strings.TrimSpace(requestID) != "" {
		fields["request_id"] = requestID
	}
	return fields
}

func receiveCount(msg sqstypes.Message) int {
	raw := msg.Attributes[string(receiveCountAttr)]
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return n
}

var _ Processor = (*scans.Service)(nil)
