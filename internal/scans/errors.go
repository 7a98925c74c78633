package scans

import "errors"

var (
	ErrNotFound          = errors.New("scan not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrQueueDisabled     = errors.New("scan queue not configured")
	ErrCaseNotFound      = errors.New("case not found in CMS")
	ErrConnection        = errors.New("cms connection failed")
	ErrReportUnavailable = errors.New("scan report unavailable")
)
