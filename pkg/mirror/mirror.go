// Package mirror copies catalog products into a secondary MySQL table.
//
// The mirror is best effort: writes are not reconciled against the primary
// catalog, so a failed upsert simply leaves the mirror stale until the next
// save or a full resync.
package mirror

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/sudeviagro/backoffice/config"
)

const (
	ModeLive     = "live"
	ModeSimulate = "simulate"
	ModeOff      = "off"
)

var (
	// ErrDisabled is returned by every operation when MIRROR_MODE=off.
	ErrDisabled = errors.New("mirror: disabled")
	// ErrInvalidProduct is returned when a product lacks an id or a name.
	ErrInvalidProduct = errors.New("mirror: product id and name are required")
	ErrNotFound       = errors.New("mirror: product not found")
)

// Product is the mirrored shape of a catalog product.
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category"`
	Price       *float64  `json:"price,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
	Features    []string  `json:"features,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
	UpdatedAt   time.Time `json:"updated_at,omitempty"`
}

func (p Product) validate() error {
	if strings.TrimSpace(p.ID) == "" || strings.TrimSpace(p.Name) == "" {
		return ErrInvalidProduct
	}
	return nil
}

// Store is a mirror backend.
type Store interface {
	// EnsureTable creates the mirror table when it does not exist.
	EnsureTable(ctx context.Context) error
	// Upsert inserts p or overwrites the row with the same id.
	Upsert(ctx context.Context, p Product) error
	// List returns mirrored products, newest first.
	List(ctx context.Context) ([]Product, error)
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
	Close() error
	Mode() string
}

// Config holds the connection settings for the mirror database.
type Config struct {
	Mode     string
	Host     string
	Port     string
	User     string
	Password string
	Database string
	Table    string
	Timeout  time.Duration
}

// ConfigFromEnv reads MIRROR_MODE and the MYSQL_* settings.
func ConfigFromEnv() Config {
	return Config{
		Mode:     config.MirrorMode(),
		Host:     config.MySQLHost(),
		Port:     config.MySQLPort(),
		User:     config.MySQLUser(),
		Password: config.MySQLPassword(),
		Database: config.MySQLDatabase(),
		Table:    config.MirrorTable(),
		Timeout:  config.MirrorTimeout(),
	}
}

var tableNameRE = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]{0,63}$`)

// New returns the store selected by cfg.Mode.
func New(cfg Config) (Store, error) {
	switch cfg.Mode {
	case ModeOff:
		return disabled{}, nil
	case ModeSimulate, "":
		return NewSimulatedStore(), nil
	case ModeLive:
		return NewLiveStore(cfg)
	default:
		return nil, fmt.Errorf("mirror: unknown mode %q", cfg.Mode)
	}
}

type disabled struct{}

func (disabled) EnsureTable(context.Context) error       { return ErrDisabled }
func (disabled) Upsert(context.Context, Product) error   { return ErrDisabled }
func (disabled) List(context.Context) ([]Product, error) { return nil, ErrDisabled }
func (disabled) Delete(context.Context, string) error    { return ErrDisabled }
func (disabled) Ping(context.Context) error              { return ErrDisabled }
func (disabled) Close() error                            { return nil }
func (disabled) Mode() string                            { return ModeOff }
