package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/KaramelBytes/aqicast-cli/internal/predict"
)

const schema = `
CREATE TABLE IF NOT EXISTS predictions (
	id            TEXT PRIMARY KEY,
	request_id    TEXT NOT NULL DEFAULT '',
	created_at    TIMESTAMP NOT NULL,
	city          TEXT NOT NULL DEFAULT '',
	features      TEXT NOT NULL,
	prediction    REAL,
	category      TEXT NOT NULL DEFAULT '',
	model_used    TEXT NOT NULL DEFAULT '',
	error_kind    TEXT NOT NULL DEFAULT '',
	error_message TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_predictions_created_at ON predictions(created_at);
`

// Entry is one recorded prediction attempt.
type Entry struct {
	ID           string          `db:"id" json:"id"`
	RequestID    string          `db:"request_id" json:"request_id"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
	City         string          `db:"city" json:"city,omitempty"`
	Features     string          `db:"features" json:"features"`
	Prediction   sql.NullFloat64 `db:"prediction" json:"-"`
	Category     string          `db:"category" json:"category,omitempty"`
	ModelUsed    string          `db:"model_used" json:"model_used,omitempty"`
	ErrorKind    string          `db:"error_kind" json:"error_kind,omitempty"`
	ErrorMessage string          `db:"error_message" json:"error_message,omitempty"`
}

// Failed reports whether the attempt ended in a failure.
func (e Entry) Failed() bool { return e.ErrorKind != "" }

// MarshalJSON renders Prediction as a number or null.
func (e Entry) MarshalJSON() ([]byte, error) {
	type alias Entry
	var p *float64
	if e.Prediction.Valid {
		v := e.Prediction.Float64
		p = &v
	}
	return json.Marshal(struct {
		alias
		Prediction *float64 `json:"prediction"`
	}{alias(e), p})
}

// FromOutcome builds an entry for a finished run.
func FromOutcome(city string, features map[string]float64, out predict.Outcome) (Entry, error) {
	b, err := json.Marshal(features)
	if err != nil {
		return Entry{}, fmt.Errorf("marshal features: %w", err)
	}
	e := Entry{RequestID: out.RequestID, City: city, Features: string(b)}
	if out.Failure != nil {
		e.ErrorKind = out.Failure.Kind.String()
		e.ErrorMessage = out.Failure.Message
		return e, nil
	}
	if out.Result != nil {
		if out.Result.Prediction != nil {
			e.Prediction = sql.NullFloat64{Float64: *out.Result.Prediction, Valid: true}
		}
		e.Category = out.Result.AQICategory
		e.ModelUsed = out.Result.ModelUsed
	}
	return e, nil
}

// Store persists prediction history in SQLite.
type Store struct {
	db *sqlx.DB
}

// Open opens (creating if needed) the history database at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir history dir: %w", err)
		}
	}
	db, err := sqlx.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate history: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error { return s.db.Close() }

// Record inserts e, assigning an ID and timestamp when missing.
func (s *Store) Record(ctx context.Context, e Entry) (Entry, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	if e.Features == "" {
		e.Features = "{}"
	}
	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO predictions (id, request_id, created_at, city, features, prediction, category, model_used, error_kind, error_message)
		VALUES (:id, :request_id, :created_at, :city, :features, :prediction, :category, :model_used, :error_kind, :error_message)`, e)
	if err != nil {
		return Entry{}, fmt.Errorf("insert prediction: %w", err)
	}
	return e, nil
}

// Recent returns up to limit entries, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	out := []Entry{}
	err := s.db.SelectContext(ctx, &out, `
		SELECT id, request_id, created_at, city, features, prediction, category, model_used, error_kind, error_message
		FROM predictions
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	return out, nil
}
