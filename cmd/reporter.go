package main

import (
	"errors"

	"github.com/charmbracelet/log"
)

// errorReporter writes one diagnostic line per failure to the logger's stream (stderr).
//
// It never exits the process; main owns the exit code.
type errorReporter struct {
	logger   *log.Logger
	reported error
}

func newErrorReporter(logger *log.Logger) *errorReporter {
	return &errorReporter{logger: logger}
}

// Report implements tasks.Reporter.
func (e *errorReporter) Report(err error) {
	if err == nil {
		return
	}
	e.reported = err
	e.logger.Error(err.Error())
}

// ReportOnce reports err unless it (or an error wrapping it) was already reported by a pipeline.
func (e *errorReporter) ReportOnce(err error) {
	if e.reported != nil && errors.Is(err, e.reported) {
		return
	}
	e.Report(err)
}
