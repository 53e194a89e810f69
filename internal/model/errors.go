package model

import "errors"

var (
	// ErrInputNotFound reports a missing log directory, report, or metadata
	// source. It aborts before aggregation starts.
	ErrInputNotFound = errors.New("input not found")

	// ErrReportFinalized reports an Ingest or Finalize call on an aggregator
	// whose report has already been finalized.
	ErrReportFinalized = errors.New("report already finalized")
)
