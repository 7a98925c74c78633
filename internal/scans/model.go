package scans

import (
	"time"

	"legal-file-auditor/internal/audit"
)

// ScanType distinguishes whole-firm scans from single-case scans.
type ScanType string

const (
	ScanTypeFullFirm   ScanType = "full_firm"
	ScanTypeSingleCase ScanType = "single_case"
)

// Status is the lifecycle state of a scan.
type Status string

const (
	StatusQueued     Status = "queued"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Terminal reports whether the scan can no longer change.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// AuditLog is the persisted record of one scan.
type AuditLog struct {
	ID                string     `json:"id"`
	FirmID            string     `json:"firmId"`
	ScanType          ScanType   `json:"scanType"`
	Status            Status     `json:"status"`
	CaseID            string     `json:"caseId,omitempty"`
	CasesScanned      int        `json:"casesScanned"`
	DocumentsAnalyzed int        `json:"documentsAnalyzed"`
	CriticalMissing   int        `json:"criticalMissing"`
	RequiredMissing   int        `json:"requiredMissing"`
	AverageScore      int        `json:"averageScore"`
	ErrorMessage      string     `json:"errorMessage,omitempty"`
	ReportKey         string     `json:"reportKey,omitempty"`
	StartedAt         time.Time  `json:"startedAt"`
	CompletedAt       *time.Time `json:"completedAt,omitempty"`
}

// Summary aggregates a firm scan.
type Summary struct {
	TotalCases      int `json:"totalCases"`
	TotalDocuments  int `json:"totalDocuments"`
	AverageScore    int `json:"averageScore"`
	CriticalIssues  int `json:"criticalIssues"`
	RequiredMissing int `json:"requiredMissing"`
	FailedCases     int `json:"failedCases"`
}

// FirmScanResult is the outcome of a whole-firm scan. Cases keep the order
// the CMS returned them in.
type FirmScanResult struct {
	ScanID      string              `json:"scanId"`
	FirmID      string              `json:"firmId"`
	Message     string              `json:"message,omitempty"`
	Summary     Summary             `json:"summary"`
	Cases       []audit.CaseSummary `json:"cases"`
	GeneratedAt time.Time           `json:"generatedAt"`
}

// CaseScanResult is the outcome of a single-case scan.
type CaseScanResult struct {
	ScanID string       `json:"scanId"`
	Audit  audit.Report `json:"audit"`
}

// ScanDigest is the short form of a scan used in stats.
type ScanDigest struct {
	ID                string     `json:"id"`
	ScanType          ScanType   `json:"scanType"`
	Status            Status     `json:"status"`
	CasesScanned      int        `json:"casesScanned"`
	DocumentsAnalyzed int        `json:"documentsAnalyzed"`
	CriticalMissing   int        `json:"criticalMissing"`
	RequiredMissing   int        `json:"requiredMissing"`
	AverageScore      int        `json:"averageScore"`
	StartedAt         time.Time  `json:"startedAt"`
	CompletedAt       *time.Time `json:"completedAt,omitempty"`
}

// Aggregate sums the most recent completed scans.
type Aggregate struct {
	TotalScans             int     `json:"totalScans"`
	TotalCasesScanned      int     `json:"totalCasesScanned"`
	TotalDocumentsAnalyzed int     `json:"totalDocumentsAnalyzed"`
	TotalCriticalIssues    int     `json:"totalCriticalIssues"`
	TotalRequiredMissing   int     `json:"totalRequiredMissing"`
	AverageScore           float64 `json:"averageScore"`
}

// FirmStats summarizes a firm's scan history.
type FirmStats struct {
	FirmID        string       `json:"firmId"`
	FirmName      string       `json:"firmName"`
	Active        bool         `json:"active"`
	LastScannedAt *time.Time   `json:"lastScannedAt,omitempty"`
	LatestScan    *ScanDigest  `json:"latestScan"`
	Aggregate     Aggregate    `json:"aggregateStats"`
	RecentScans   []ScanDigest `json:"recentScans"`
}

// CasesPage is one page of cases that still have gaps.
type CasesPage struct {
	Cases      []audit.CaseSummary `json:"cases"`
	Page       int                 `json:"page"`
	Limit      int                 `json:"limit"`
	Total      int                 `json:"total"`
	TotalPages int                 `json:"totalPages"`
	HasMore    bool                `json:"hasMore"`
	TotalCases int                 `json:"totalCases"`
	// AverageScore covers the cases with gaps; 100 when there are none.
	AverageScore int `json:"averageScore"`
}

func digest(l AuditLog) ScanDigest {
	return ScanDigest{
		ID:                l.ID,
		ScanType:          l.ScanType,
		Status:            l.Status,
		CasesScanned:      l.CasesScanned,
		DocumentsAnalyzed: l.DocumentsAnalyzed,
		CriticalMissing:   l.CriticalMissing,
		RequiredMissing:   l.RequiredMissing,
		AverageScore:      l.AverageScore,
		StartedAt:         l.StartedAt,
		CompletedAt:       l.CompletedAt,
	}
}
