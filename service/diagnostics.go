package service

import (
	"context"
	"fmt"
	"time"
)

const (
	maxCollections   = 10
	maxErrorLength   = 50
	diagnoseDeadline = 5 * time.Second
)

// Report is the body of the diagnostics endpoint.
type Report struct {
	Backend          string   `json:"backend"`
	Database         string   `json:"database"`
	DatabaseURL      *string  `json:"database_url"`
	DatabaseName     *string  `json:"database_name"`
	ConnectionStatus string   `json:"connection_status"`
	Collections      []string `json:"collections"`
}

// Diagnose reports store reachability. It never fails: every error, and any
// panic raised by the backend, is rendered into the Database field.
func (s *Service) Diagnose(ctx context.Context) (report Report) {
	report = Report{
		Backend:          "✅ Running",
		Database:         "❌ Not Available",
		ConnectionStatus: "Not Connected",
		Collections:      []string{},
	}
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("diagnostics panicked", "panic", r)
			report.Database = "❌ Error: " + truncate(fmt.Sprint(r), maxErrorLength)
		}
	}()

	if s.store == nil {
		report.Database = "⚠️ Available but not initialized"
		return report
	}

	report.Database = "✅ Available"
	urlStatus := "❌ Not Set"
	if s.DatabaseURLSet {
		urlStatus = "✅ Set"
	}
	report.DatabaseURL = &urlStatus
	name := s.store.Name()
	if name == "" {
		name = "✅ Connected"
	}
	report.DatabaseName = &name

	ctx, cancel := context.WithTimeout(ctx, diagnoseDeadline)
	defer cancel()

	if err := s.store.Ping(ctx); err != nil {
		report.Database = "⚠️ Connected but Error: " + truncate(err.Error(), maxErrorLength)
		return report
	}
	report.ConnectionStatus = "Connected"

	names, err := s.store.ListCollections(ctx)
	if err != nil {
		report.Database = "⚠️ Connected but Error: " + truncate(err.Error(), maxErrorLength)
		return report
	}
	if len(names) > maxCollections {
		names = names[:maxCollections]
	}
	if names != nil {
		report.Collections = names
	}
	report.Database = "✅ Connected & Working"
	return report
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
