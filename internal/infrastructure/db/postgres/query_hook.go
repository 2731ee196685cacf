package postgres

import (
	"context"
	"regexp"
	"time"

	"github.com/go-pg/pg/v10"
	"github.com/rs/zerolog"
)

// sensitiveTables matches statements whose text may carry credentials.
var sensitiveTables = regexp.MustCompile(`(?i)\baccounts\b`)

// QueryHook implements pg.QueryHook and logs executed SQL at debug level.
// Statements on accounts are logged without their text.
type QueryHook struct {
	logger zerolog.Logger
}

func NewQueryHook(logger zerolog.Logger) *QueryHook {
	return &QueryHook{logger: logger}
}

func (h *QueryHook) BeforeQuery(ctx context.Context, _ *pg.QueryEvent) (context.Context, error) {
	return ctx, nil
}

func (h *QueryHook) AfterQuery(_ context.Context, event *pg.QueryEvent) error {
	ev := h.logger.Debug()
	if event.Err != nil {
		ev = h.logger.Warn().Err(event.Err)
	}
	ev = ev.Dur("duration", time.Since(event.StartTime))

	if raw, err := event.UnformattedQuery(); err == nil && sensitiveTables.Match(raw) {
		ev.Str("table", "accounts").Msg("sql query executed (redacted)")
		return nil
	}

	query, err := event.FormattedQuery()
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to format query")
		return nil
	}
	ev.Str("query", string(query)).Msg("sql query executed")
	return nil
}
