package scans

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"legal-file-auditor/internal/audit"
	"legal-file-auditor/internal/cases"
	"legal-file-auditor/internal/classifier"
	"legal-file-auditor/internal/cmsadapter"
	"legal-file-auditor/internal/firms"
	"legal-file-auditor/internal/queue"
	"legal-file-auditor/internal/shared/metrics"
	"legal-file-auditor/internal/shared/storage/object"
	"legal-file-auditor/internal/shared/telemetry"
	"legal-file-auditor/internal/shared/util"
)

const (
	DefaultConcurrency = 3
	DefaultCaseTimeout = 2 * time.Minute

	statsWindow      = 10
	recentScansShown = 5
	noCasesMessage   = "No cases found for this firm"
	caseFailedError  = "Failed to audit case"
	defaultPageLimit = 50
	maxPageLimit     = 200
)

// FirmStore is the credential store a scan reads from.
type FirmStore interface {
	Get(ctx context.Context, id string) (firms.Firm, error)
	List(ctx context.Context, activeOnly bool) ([]firms.Firm, error)
	Credentials(ctx context.Context, id string) (cmsadapter.Config, error)
	MarkScanned(ctx context.Context, id string, at time.Time) error
}

// Service runs audits against firms' case-management systems and records
// the outcome.
type Service struct {
	Firms    FirmStore
	Repo     Repo
	Adapters cmsadapter.Creator
	Engine   *audit.Engine
	// Classifier labels documents the CMS left unclassified. Nil disables it.
	Classifier *classifier.PatternClassifier
	// Store keeps full firm scan results. Nil disables snapshots.
	Store object.ObjectStore
	// Queue receives async firm scans. Nil disables EnqueueFirmScan.
	Queue       queue.Client
	Concurrency int
	CaseTimeout time.Duration
	Now         func() time.Time
}

// AuditCase fetches one case with its documents and audits it without
// recording a scan.
func (s *Service) AuditCase(ctx context.Context, firmID, caseID string) (audit.Report, error) {
	caseID = strings.TrimSpace(caseID)
	if caseID == "" {
		return audit.Report{}, fmt.Errorf("%w: caseId is required", ErrInvalidInput)
	}
	cfg, err := s.Firms.Credentials(ctx, firmID)
	if err != nil {
		return audit.Report{}, err
	}
	adapter := s.Adapters.Create(cfg)

	c, err := adapter.GetCase(ctx, caseID)
	if err != nil {
		return audit.Report{}, fmt.Errorf("fetch case %s: %w", caseID, err)
	}
	if c == nil {
		return audit.Report{}, ErrCaseNotFound
	}
	return s.auditOne(ctx, adapter, *c)
}

// ScanCase audits one case and records a single_case scan.
func (s *Service) ScanCase(ctx context.Context, firmID, caseID string) (CaseScanResult, error) {
	f, err := s.Firms.Get(ctx, firmID)
	if err != nil {
		return CaseScanResult{}, err
	}
	if !f.Active {
		return CaseScanResult{}, firms.ErrInactive
	}
	if strings.TrimSpace(caseID) == "" {
		return CaseScanResult{}, fmt.Errorf("%w: caseId is required", ErrInvalidInput)
	}

	log := s.newLog(firmID, ScanTypeSingleCase, StatusInProgress)
	log.CaseID = caseID
	if err := s.Repo.Create(ctx, log); err != nil {
		return CaseScanResult{}, fmt.Errorf("create audit log: %w", err)
	}

	report, err := s.AuditCase(ctx, firmID, caseID)
	if err != nil {
		s.fail(ctx, log, err)
		return CaseScanResult{}, err
	}

	log.CasesScanned = 1
	log.DocumentsAnalyzed = len(report.Case.Documents)
	log.CriticalMissing = report.Score.CriticalMissing
	log.RequiredMissing = report.Score.RequiredMissing
	log.AverageScore = report.Score.Overall
	s.complete(ctx, log)
	return CaseScanResult{ScanID: log.ID, Audit: report}, nil
}

// ScanFirm audits every case the firm's CMS returns and records a full_firm scan.
func (s *Service) ScanFirm(ctx context.Context, firmID string) (FirmScanResult, error) {
	f, err := s.Firms.Get(ctx, firmID)
	if err != nil {
		return FirmScanResult{}, err
	}
	if !f.Active {
		return FirmScanResult{}, firms.ErrInactive
	}
	log := s.newLog(firmID, ScanTypeFullFirm, StatusInProgress)
	if err := s.Repo.Create(ctx, log); err != nil {
		return FirmScanResult{}, fmt.Errorf("create audit log: %w", err)
	}
	return s.runFirmScan(ctx, log)
}

// EnqueueFirmScan records a queued full_firm scan and hands it to the worker.
func (s *Service) EnqueueFirmScan(ctx context.Context, firmID, requestID string) (AuditLog, error) {
	if s.Queue == nil {
		return AuditLog{}, ErrQueueDisabled
	}
	f, err := s.Firms.Get(ctx, firmID)
	if err != nil {
		return AuditLog{}, err
	}
	if !f.Active {
		return AuditLog{}, firms.ErrInactive
	}

	log := s.newLog(firmID, ScanTypeFullFirm, StatusQueued)
	if err := s.Repo.Create(ctx, log); err != nil {
		return AuditLog{}, fmt.Errorf("create audit log: %w", err)
	}
	msg := queue.Message{
		ScanID:     log.ID,
		FirmID:     firmID,
		RequestID:  requestID,
		EnqueuedAt: log.StartedAt.Format(time.RFC3339),
		Version:    queue.MessageVersion,
	}
	if err := s.Queue.Send(ctx, msg); err != nil {
		s.fail(ctx, log, err)
		return AuditLog{}, fmt.Errorf("enqueue scan: %w", err)
	}
	telemetry.Info("scan.enqueued", map[string]any{"scan_id": log.ID, "firm_id": firmID, "request_id": requestID})
	return log, nil
}

// RunQueued executes a scan created by EnqueueFirmScan. Scans already in a
// terminal state are skipped so redelivered messages are harmless.
func (s *Service) RunQueued(ctx context.Context, scanID, firmID string) error {
	log, err := s.Repo.Get(ctx, scanID)
	if err != nil {
		return err
	}
	if log.FirmID != firmID {
		return fmt.Errorf("%w: scan %s does not belong to firm %s", ErrInvalidInput, scanID, firmID)
	}
	if log.Status.Terminal() {
		telemetry.Info("scan.skip_terminal", map[string]any{"scan_id": scanID, "status": string(log.Status)})
		return nil
	}
	log.Status = StatusInProgress
	if err := s.Repo.Update(ctx, log); err != nil {
		return fmt.Errorf("mark in progress: %w", err)
	}
	_, err = s.runFirmScan(ctx, log)
	return err
}

// ScanAllActive runs a full scan for every active firm, one firm at a time.
// A failing firm does not stop the others; the first error is returned.
func (s *Service) ScanAllActive(ctx context.Context) error {
	list, err := s.Firms.List(ctx, true)
	if err != nil {
		return fmt.Errorf("list active firms: %w", err)
	}
	var first error
	for _, f := range list {
		if err := ctx.Err(); err != nil {
			return err
		}
		res, err := s.ScanFirm(ctx, f.ID)
		if err != nil {
			telemetry.Error("scan.scheduled_failed", map[string]any{"firm_id": f.ID, "err": err})
			if first == nil {
				first = err
			}
			continue
		}
		telemetry.Info("scan.scheduled_completed", map[string]any{
			"firm_id":       f.ID,
			"scan_id":       res.ScanID,
			"cases":         res.Summary.TotalCases,
			"average_score": res.Summary.AverageScore,
		})
	}
	return first
}

// GetLog returns one scan record.
func (s *Service) GetLog(ctx context.Context, scanID string) (AuditLog, error) {
	return s.Repo.Get(ctx, scanID)
}

// OpenReport streams the stored JSON result of a completed firm scan.
func (s *Service) OpenReport(ctx context.Context, scanID string) (io.ReadCloser, error) {
	log, err := s.Repo.Get(ctx, scanID)
	if err != nil {
		return nil, err
	}
	if s.Store == nil || log.ReportKey == "" {
		return nil, ErrReportUnavailable
	}
	rc, err := s.Store.Open(ctx, log.ReportKey)
	if errors.Is(err, object.ErrNotFound) {
		return nil, ErrReportUnavailable
	}
	return rc, err
}

// Stats summarizes the firm's recent completed scans.
func (s *Service) Stats(ctx context.Context, firmID string) (FirmStats, error) {
	f, err := s.Firms.Get(ctx, firmID)
	if err != nil {
		return FirmStats{}, err
	}
	logs, err := s.Repo.ListByFirm(ctx, firmID, StatusCompleted, statsWindow)
	if err != nil {
		return FirmStats{}, fmt.Errorf("list audit logs: %w", err)
	}

	stats := FirmStats{
		FirmID:        f.ID,
		FirmName:      f.Name,
		Active:        f.Active,
		LastScannedAt: f.LastScannedAt,
		RecentScans:   []ScanDigest{},
	}
	if len(logs) == 0 {
		return stats, nil
	}

	latest := digest(logs[0])
	stats.LatestScan = &latest
	var scoreSum int
	for i, l := range logs {
		stats.Aggregate.TotalScans++
		stats.Aggregate.TotalCasesScanned += l.CasesScanned
		stats.Aggregate.TotalDocumentsAnalyzed += l.DocumentsAnalyzed
		stats.Aggregate.TotalCriticalIssues += l.CriticalMissing
		stats.Aggregate.TotalRequiredMissing += l.RequiredMissing
		scoreSum += l.AverageScore
		if i < recentScansShown {
			stats.RecentScans = append(stats.RecentScans, digest(l))
		}
	}
	stats.Aggregate.AverageScore = float64(scoreSum) / float64(stats.Aggregate.TotalScans)
	return stats, nil
}

// FirmCases audits every case and pages through those that still have gaps:
// any critical or required document missing, a score under 100, or a
// failed audit.
func (s *Service) FirmCases(ctx context.Context, firmID string, page, limit int) (CasesPage, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	cfg, err := s.Firms.Credentials(ctx, firmID)
	if err != nil {
		return CasesPage{}, err
	}
	adapter := s.Adapters.Create(cfg)
	all, err := s.fetchCases(ctx, adapter)
	if err != nil {
		return CasesPage{}, err
	}
	summaries, _ := s.auditAll(ctx, adapter, all)

	var issues []audit.CaseSummary
	var scoreSum int
	for _, sum := range summaries {
		if sum.Error != "" || sum.CriticalMissing+sum.RequiredMissing > 0 || sum.Score < 100 {
			issues = append(issues, sum)
			scoreSum += sum.Score
		}
	}

	out := CasesPage{
		Cases:        []audit.CaseSummary{},
		Page:         page,
		Limit:        limit,
		Total:        len(issues),
		TotalPages:   int(math.Ceil(float64(len(issues)) / float64(limit))),
		TotalCases:   len(all),
		AverageScore: 100,
	}
	if len(issues) > 0 {
		out.AverageScore = int(math.Round(float64(scoreSum) / float64(len(issues))))
	}
	start := (page - 1) * limit
	if start < len(issues) {
		end := min(start+limit, len(issues))
		out.Cases = issues[start:end]
		out.HasMore = end < len(issues)
	}
	return out, nil
}

// TestConnection validates cfg and checks the provider is reachable.
func (s *Service) TestConnection(ctx context.Context, cfg cmsadapter.Config) cmsadapter.ConnectionResult {
	return cmsadapter.Test(ctx, s.Adapters, cfg)
}

func (s *Service) runFirmScan(ctx context.Context, log AuditLog) (FirmScanResult, error) {
	cfg, err := s.Firms.Credentials(ctx, log.FirmID)
	if err != nil {
		s.fail(ctx, log, err)
		return FirmScanResult{}, err
	}
	adapter := s.Adapters.Create(cfg)

	if conn := adapter.TestConnection(ctx); !conn.Success {
		err := fmt.Errorf("%w: %s", ErrConnection, conn.Message)
		s.fail(ctx, log, err)
		return FirmScanResult{}, err
	}

	list, err := s.fetchCases(ctx, adapter)
	if err != nil {
		s.fail(ctx, log, err)
		return FirmScanResult{}, err
	}

	result := FirmScanResult{
		ScanID: log.ID,
		FirmID: log.FirmID,
		Cases:  []audit.CaseSummary{},
	}
	if len(list) == 0 {
		log.ErrorMessage = noCasesMessage
		s.complete(ctx, log)
		result.Message = "No cases found"
		result.GeneratedAt = s.now()
		return result, nil
	}

	summaries, docs := s.auditAll(ctx, adapter, list)
	if err := ctx.Err(); err != nil {
		s.fail(ctx, log, err)
		return FirmScanResult{}, err
	}
	result.Cases = summaries
	result.Summary = summarize(summaries, docs)
	result.GeneratedAt = s.now()

	log.CasesScanned = len(list)
	log.DocumentsAnalyzed = result.Summary.TotalDocuments
	log.CriticalMissing = result.Summary.CriticalIssues
	log.RequiredMissing = result.Summary.RequiredMissing
	log.AverageScore = result.Summary.AverageScore
	log.ReportKey = s.saveSnapshot(ctx, result)
	s.complete(ctx, log)
	return result, nil
}

// auditAll audits cases with bounded concurrency. Results keep input order;
// a case that fails is reported with Error set instead of aborting the rest.
func (s *Service) auditAll(ctx context.Context, adapter cmsadapter.Adapter, list []cases.Case) ([]audit.CaseSummary, []int) {
	summaries := make([]audit.CaseSummary, len(list))
	docs := make([]int, len(list))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency())
	for i, c := range list {
		i, c := i, c
		g.Go(func() error {
			caseCtx, cancel := context.WithTimeout(gctx, s.caseTimeout())
			defer cancel()

			report, err := s.auditOne(caseCtx, adapter, c)
			if err != nil {
				telemetry.Warn("scan.case_failed", map[string]any{
					"provider": string(adapter.Provider()),
					"case_id":  c.ID,
					"err":      err,
				})
				summaries[i] = audit.CaseSummary{
					CaseID:          c.ID,
					CaseNumber:      c.CaseNumber,
					ClientName:      c.ClientName,
					Phase:           string(c.CurrentPhase),
					Recommendations: []string{},
					Error:           caseFailedError,
				}
				return nil
			}
			summaries[i] = audit.Summary(report)
			docs[i] = len(report.Case.Documents)
			return nil
		})
	}
	_ = g.Wait()
	return summaries, docs
}

func (s *Service) auditOne(ctx context.Context, adapter cmsadapter.Adapter, c cases.Case) (audit.Report, error) {
	docs, err := s.fetchDocuments(ctx, adapter, c.ID)
	if err != nil {
		return audit.Report{}, err
	}
	if len(docs) > 0 || len(c.Documents) == 0 {
		c.Documents = docs
	}
	if s.Classifier != nil {
		c.Documents = s.Classifier.LabelUnclassified(c.Documents)
	}
	report := s.engine().GenerateReport(c)
	metrics.IncAudit(string(report.Case.CurrentPhase))
	return report, nil
}

func (s *Service) fetchCases(ctx context.Context, adapter cmsadapter.Adapter) ([]cases.Case, error) {
	if lister, ok := adapter.(cmsadapter.CaseLister); ok {
		list, err := lister.ListCases(ctx)
		if err != nil {
			return nil, fmt.Errorf("list cases: %w", err)
		}
		return list, nil
	}
	return adapter.GetCases(ctx), nil
}

func (s *Service) fetchDocuments(ctx context.Context, adapter cmsadapter.Adapter, caseID string) ([]cases.CaseDocument, error) {
	if lister, ok := adapter.(cmsadapter.DocumentLister); ok {
		docs, err := lister.ListDocuments(ctx, caseID)
		if err != nil {
			return nil, fmt.Errorf("list documents for case %s: %w", caseID, err)
		}
		return docs, nil
	}
	return adapter.GetDocuments(ctx, caseID), nil
}

// summarize totals successful audits. Failed cases count toward FailedCases
// only and are left out of the average.
func summarize(summaries []audit.CaseSummary, docs []int) Summary {
	out := Summary{TotalCases: len(summaries)}
	var scoreSum, scored int
	for i, sum := range summaries {
		if sum.Error != "" {
			out.FailedCases++
			continue
		}
		out.TotalDocuments += docs[i]
		out.CriticalIssues += sum.CriticalMissing
		out.RequiredMissing += sum.RequiredMissing
		scoreSum += sum.Score
		scored++
	}
	if scored > 0 {
		out.AverageScore = int(math.Round(float64(scoreSum) / float64(scored)))
	}
	return out
}

func (s *Service) saveSnapshot(ctx context.Context, result FirmScanResult) string {
	if s.Store == nil {
		return ""
	}
	firmSeg, err := util.SanitizeKeySegment(result.FirmID)
	if err != nil {
		return ""
	}
	key := path.Join("scans", firmSeg, result.ScanID+".json")
	payload, err := json.Marshal(result)
	if err != nil {
		telemetry.Warn("scan.snapshot_encode_failed", map[string]any{"scan_id": result.ScanID, "err": err})
		return ""
	}
	if _, err := s.Store.Put(ctx, key, "application/json", bytes.NewReader(payload)); err != nil {
		telemetry.Warn("scan.snapshot_failed", map[string]any{"scan_id": result.ScanID, "key": key, "err": err})
		return ""
	}
	return key
}

func (s *Service) newLog(firmID string, t ScanType, status Status) AuditLog {
	return AuditLog{
		ID:        uuid.NewString(),
		FirmID:    firmID,
		ScanType:  t,
		Status:    status,
		StartedAt: s.now(),
	}
}

func (s *Service) complete(ctx context.Context, log AuditLog) {
	at := s.now()
	log.Status = StatusCompleted
	log.CompletedAt = &at
	s.finish(ctx, log)
	if err := s.Firms.MarkScanned(context.WithoutCancel(ctx), log.FirmID, at); err != nil {
		telemetry.Warn("scan.mark_scanned_failed", map[string]any{"firm_id": log.FirmID, "err": err})
	}
}

func (s *Service) fail(ctx context.Context, log AuditLog, cause error) {
	at := s.now()
	log.Status = StatusFailed
	log.CompletedAt = &at
	log.ErrorMessage = cause.Error()
	s.finish(ctx, log)
}

// finish persists the terminal state even when ctx has been cancelled.
func (s *Service) finish(ctx context.Context, log AuditLog) {
	if err := s.Repo.Update(context.WithoutCancel(ctx), log); err != nil {
		telemetry.Error("scan.update_failed", map[string]any{"scan_id": log.ID, "err": err})
	}
	seconds := 0.0
	if log.CompletedAt != nil {
		seconds = log.CompletedAt.Sub(log.StartedAt).Seconds()
	}
	metrics.ObserveScan(string(log.ScanType), string(log.Status), seconds)
	fields := map[string]any{
		"scan_id":       log.ID,
		"firm_id":       log.FirmID,
		"scan_type":     string(log.ScanType),
		"status":        string(log.Status),
		"cases_scanned": log.CasesScanned,
		"average_score": log.AverageScore,
	}
	if log.Status == StatusFailed {
		fields["error"] = log.ErrorMessage
		telemetry.Warn("scan.failed", fields)
		return
	}
	telemetry.Info("scan.completed", fields)
}

func (s *Service) engine() *audit.Engine {
	if s.Engine == nil {
		return audit.NewEngine(audit.DefaultPolicy())
	}
	return s.Engine
}

func (s *Service) concurrency() int {
	if s.Concurrency <= 0 {
		return DefaultConcurrency
	}
	return s.Concurrency
}

func (s *Service) caseTimeout() time.Duration {
	if s.CaseTimeout <= 0 {
		return DefaultCaseTimeout
	}
	return s.CaseTimeout
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}
