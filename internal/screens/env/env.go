// Package env carries the services every screen shares.
package env

import (
	"context"
	"time"

	"github.com/abhisek/sportsmind/internal/battery"
	"github.com/abhisek/sportsmind/internal/catalog"
	"github.com/abhisek/sportsmind/internal/insight"
	"github.com/abhisek/sportsmind/internal/questionnaire"
	"github.com/abhisek/sportsmind/internal/store"
	"github.com/abhisek/sportsmind/internal/submission"
	"github.com/abhisek/sportsmind/pkg/logger"
	"github.com/abhisek/sportsmind/pkg/metrics"
)

// Env is handed from screen to screen. Only Catalog is required; every
// other field degrades to a no-op when unset.
type Env struct {
	Catalog   catalog.Service
	Submitter *submission.Submitter
	Drafts    store.DraftStore
	Insight   *insight.Service
	Metrics   *metrics.Manager
	Logger    logger.Logger
	Index     battery.Index

	// Respondent is the configured user UUID. Empty means ask.
	Respondent string
	// Role preselects the respondent role. Empty means ask.
	Role battery.Role

	AutoAdvance time.Duration
	// RequestTimeout bounds each remote call made from the UI.
	RequestTimeout time.Duration
}

// WithDefaults fills unset optional fields.
func (e Env) WithDefaults() Env {
	if e.Logger == nil {
		e.Logger = logger.Nop()
	}
	if e.Metrics == nil {
		e.Metrics = metrics.Global()
	}
	if len(e.Index.Categories) == 0 {
		e.Index = battery.DefaultIndex()
	}
	if e.AutoAdvance <= 0 {
		e.AutoAdvance = questionnaire.DefaultAutoAdvanceDelay
	}
	if e.RequestTimeout <= 0 {
		e.RequestTimeout = 30 * time.Second
	}
	if e.Submitter == nil && e.Catalog != nil {
		e.Submitter = submission.NewSubmitter(e.Catalog,
			submission.WithDrafts(e.Drafts),
			submission.WithLogger(e.Logger))
	}
	return e
}

// Context returns a context bounded by RequestTimeout.
func (e Env) Context() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), e.RequestTimeout)
}
