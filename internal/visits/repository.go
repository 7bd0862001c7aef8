package visits

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/JaimeStill/vouch/internal/metrics"
	"github.com/JaimeStill/vouch/pkg/middleware"
	"github.com/JaimeStill/vouch/pkg/repository"
)

const dateLayout = "2006-01-02"

type repo struct {
	db      *sql.DB
	logger  *slog.Logger
	metrics *metrics.Moderation
	now     func() time.Time
}

// New creates the visit ledger. A nil now uses time.Now.
func New(db *sql.DB, logger *slog.Logger, m *metrics.Moderation, now func() time.Time) System {
	if now == nil {
		now = time.Now
	}
	return &repo{
		db:      db,
		logger:  logger.With("system", "visits"),
		metrics: m,
		now:     now,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger)
}

func (r *repo) Record(ctx context.Context, kind Kind, rawID, ip string) error {
	l, err := kind.ledger()
	if err != nil {
		return err
	}

	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil || id <= 0 {
		r.logger.Debug("visit dropped", "kind", kind, "id", rawID)
		return nil
	}

	q := fmt.Sprintf("INSERT INTO %s(%s, ip, visited_on) VALUES ($1, $2, $3)", l.table, l.column)
	if _, err := repository.Exec(ctx, r.db, q, id, ip, r.now().Format(dateLayout)); err != nil {
		return repository.Errors{ForeignKey: ErrNotFound}.Map(err)
	}

	r.metrics.RecordVisit(string(kind))
	return nil
}

func (r *repo) Stats(ctx context.Context, kind Kind, id int64, windowDays int) (Stats, error) {
	l, err := kind.ledger()
	if err != nil {
		return nil, err
	}
	if err := ValidateWindow(windowDays); err != nil {
		return nil, err
	}

	keys := days(r.now(), windowDays)
	stats := make(Stats, len(keys))
	for _, k := range keys {
		stats[k] = 0
	}

	q := fmt.Sprintf(`
		SELECT visited_on, COUNT(*)
		FROM %s
		WHERE %s = $1 AND visited_on BETWEEN $2 AND $3
		GROUP BY visited_on`, l.table, l.column)

	type dayCount struct {
		day   time.Time
		count int
	}

	rows, err := repository.QueryMany(
		ctx, r.db, q,
		[]any{id, keys[len(keys)-1], keys[0]},
		func(s repository.Scanner) (dayCount, error) {
			var dc dayCount
			err := s.Scan(&dc.day, &dc.count)
			return dc, err
		},
	)
	if err != nil {
		return nil, fmt.Errorf("count %s visits: %w", kind, err)
	}

	for _, row := range rows {
		key := row.day.Format(dateLayout)
		if _, ok := stats[key]; ok {
			stats[key] = row.count
		}
	}

	return stats, nil
}

func (r *repo) Recorder(kind Kind) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, req)

			if req.Method != http.MethodGet || sw.status < 200 || sw.status > 299 {
				return
			}

			ctx := context.WithoutCancel(req.Context())
			if err := r.Record(ctx, kind, req.PathValue("id"), middleware.ClientIP(req)); err != nil {
				r.logger.Warn("visit not recorded", "kind", kind, "id", req.PathValue("id"), "error", err)
			}
		})
	}
}

// days returns the ISO dates of the window ending at now, newest first.
func days(now time.Time, windowDays int) []string {
	keys := make([]string, windowDays)
	for i := range windowDays {
		keys[i] = now.AddDate(0, 0, -i).Format(dateLayout)
	}
	return keys
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (w *statusWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
