package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-pg/pg/v10"
	"github.com/rs/zerolog"
)

const defaultTimeout = 10 * time.Second

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

// Config captures the settings required to open the go-pg connection pool.
type Config struct {
	URL     string
	Timeout time.Duration
	// LogQueries attaches a QueryHook that logs every statement at debug level.
	LogQueries bool
}

// Connect opens a go-pg pool, verifies connectivity with a ping and returns
// the handle. A default timeout is applied when none is provided.
func Connect(ctx context.Context, cfg Config, logger zerolog.Logger) (*pg.DB, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	opt, err := pg.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("postgres parse url: %w", err)
	}
	opt.DialTimeout = timeout

	db := pg.Connect(opt)
	if cfg.LogQueries {
		db.AddQueryHook(NewQueryHook(logger))
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := db.Ping(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	return db, nil
}

// searchPattern builds an ILIKE pattern matching s as a literal substring.
func searchPattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}

func pgCode(err error) string {
	var pgErr pg.Error
	if errors.As(err, &pgErr) {
		return pgErr.Field('C')
	}
	return ""
}

func isUniqueViolation(err error) bool { return pgCode(err) == codeUniqueViolation }

func isForeignKeyViolation(err error) bool { return pgCode(err) == codeForeignKeyViolation }
