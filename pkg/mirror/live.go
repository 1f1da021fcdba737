package mirror

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/sudeviagro/backoffice/pkg/logger"
	"github.com/sudeviagro/backoffice/pkg/metrics"
)

type rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
}

type conn interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (rows, error)
	PingContext(ctx context.Context) error
	Close() error
}

// sqlConn narrows *sql.DB to conn.
type sqlConn struct{ *sql.DB }

func (c sqlConn) QueryContext(ctx context.Context, query string, args ...any) (rows, error) {
	return c.DB.QueryContext(ctx, query, args...)
}

// LiveStore writes to a real MySQL server. The pool is opened on first use
// and the table is created once per store.
type LiveStore struct {
	cfg  Config
	dial func() (conn, error)

	mu      sync.Mutex
	db      conn
	ensured bool
}

// NewLiveStore validates cfg; no connection is made until the first call.
func NewLiveStore(cfg Config) (*LiveStore, error) {
	if cfg.Host == "" || cfg.Database == "" {
		return nil, fmt.Errorf("mirror: MYSQL_HOST and MYSQL_DATABASE are required in live mode")
	}
	if cfg.Table == "" {
		cfg.Table = "products"
	}
	if !tableNameRE.MatchString(cfg.Table) {
		return nil, fmt.Errorf("mirror: invalid table name %q", cfg.Table)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	s := &LiveStore{cfg: cfg}
	s.dial = func() (conn, error) {
		db, err := sql.Open("mysql", DSN(cfg))
		if err != nil {
			return nil, err
		}
		db.SetMaxOpenConns(4)
		db.SetMaxIdleConns(2)
		db.SetConnMaxLifetime(5 * time.Minute)
		return sqlConn{db}, nil
	}
	return s, nil
}

// DSN renders cfg as a go-sql-driver/mysql data source name.
func DSN(cfg Config) string {
	mc := mysql.NewConfig()
	mc.User = cfg.User
	mc.Passwd = cfg.Password
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(cfg.Host, cfg.Port)
	mc.DBName = cfg.Database
	mc.ParseTime = true
	mc.Loc = time.UTC
	mc.Timeout = cfg.Timeout
	mc.Params = map[string]string{"charset": "utf8mb4"}
	return mc.FormatDSN()
}

func (s *LiveStore) Mode() string { return ModeLive }

func (s *LiveStore) open(ctx context.Context) (conn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		db, err := s.dial()
		if err != nil {
			return nil, fmt.Errorf("mirror: open: %w", err)
		}
		s.db = db
	}
	if !s.ensured {
		if _, err := s.db.ExecContext(ctx, s.createTableSQL()); err != nil {
			return nil, fmt.Errorf("mirror: ensure table: %w", err)
		}
		s.ensured = true
	}
	return s.db, nil
}

func (s *LiveStore) createTableSQL() string {
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		id VARCHAR(36) NOT NULL PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		description TEXT NULL,
		category VARCHAR(64) NOT NULL,
		price DECIMAL(10,2) NULL,
		image_url TEXT NULL,
		features JSON NULL,
		is_active TINYINT(1) NOT NULL DEFAULT 1,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		INDEX idx_%s_created (created_at)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`, s.cfg.Table, s.cfg.Table)
}

func (s *LiveStore) EnsureTable(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()
	_, err := s.open(ctx)
	return err
}

func (s *LiveStore) Upsert(ctx context.Context, p Product) error {
	if err := p.validate(); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	db, err := s.open(ctx)
	if err != nil {
		metrics.MirrorWrites.WithLabelValues("upsert", "error").Inc()
		return err
	}

	var features any
	if len(p.Features) > 0 {
		b, err := json.Marshal(p.Features)
		if err != nil {
			return fmt.Errorf("mirror: encode features: %w", err)
		}
		features = string(b)
	}

	q := fmt.Sprintf(`INSERT INTO %s (id, name, description, category, price, image_url, features, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, NOW(), NOW())
		ON DUPLICATE KEY UPDATE
			name = VALUES(name),
			description = VALUES(description),
			category = VALUES(category),
			price = VALUES(price),
			image_url = VALUES(image_url),
			features = VALUES(features),
			is_active = VALUES(is_active),
			updated_at = NOW()`, s.cfg.Table)

	_, err = db.ExecContext(ctx, q,
		p.ID, p.Name, nullString(p.Description), p.Category, p.Price,
		nullString(p.ImageURL), features, p.IsActive,
	)
	if err != nil {
		metrics.MirrorWrites.WithLabelValues("upsert", "error").Inc()
		return fmt.Errorf("mirror: upsert %s: %w", p.ID, err)
	}
	metrics.MirrorWrites.WithLabelValues("upsert", "ok").Inc()
	logger.WithCtx(ctx).Debug("mirror upsert", "product_id", p.ID, "table", s.cfg.Table)
	return nil
}

func (s *LiveStore) List(ctx context.Context) ([]Product, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	db, err := s.open(ctx)
	if err != nil {
		return nil, err
	}

	q := fmt.Sprintf(`SELECT id, name, description, category, price, image_url, features, is_active, created_at, updated_at
		FROM %s ORDER BY created_at DESC`, s.cfg.Table)
	rs, err := db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("mirror: list: %w", err)
	}
	defer rs.Close()

	out := make([]Product, 0)
	for rs.Next() {
		var (
			p                    Product
			desc, image, feature sql.NullString
			price                sql.NullFloat64
		)
		if err := rs.Scan(&p.ID, &p.Name, &desc, &p.Category, &price, &image, &feature, &p.IsActive, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("mirror: scan: %w", err)
		}
		p.Description = desc.String
		p.ImageURL = image.String
		if price.Valid {
			v := price.Float64
			p.Price = &v
		}
		if feature.Valid && feature.String != "" {
			if err := json.Unmarshal([]byte(feature.String), &p.Features); err != nil {
				logger.WithCtx(ctx).Warn("mirror: bad features column", "product_id", p.ID, "error", err)
			}
		}
		out = append(out, p)
	}
	if err := rs.Err(); err != nil {
		return nil, fmt.Errorf("mirror: list: %w", err)
	}
	return out, nil
}

func (s *LiveStore) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	db, err := s.open(ctx)
	if err != nil {
		metrics.MirrorWrites.WithLabelValues("delete", "error").Inc()
		return err
	}
	res, err := db.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = ?", s.cfg.Table), id)
	if err != nil {
		metrics.MirrorWrites.WithLabelValues("delete", "error").Inc()
		return fmt.Errorf("mirror: delete %s: %w", id, err)
	}
	metrics.MirrorWrites.WithLabelValues("delete", "ok").Inc()
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *LiveStore) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	s.mu.Lock()
	if s.db == nil {
		db, err := s.dial()
		if err != nil {
			s.mu.Unlock()
			return fmt.Errorf("mirror: open: %w", err)
		}
		s.db = db
	}
	db := s.db
	s.mu.Unlock()
	return db.PingContext(ctx)
}

func (s *LiveStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	s.ensured = false
	return err
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
