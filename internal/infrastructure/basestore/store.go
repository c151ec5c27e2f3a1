package basestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/medifarma/backend/internal/domain"
)

const metaLastModified = "last_modified"

// Store persists the admin-editable BASE dataset in sqlite. It implements
// domain.BaseRepository. Records are addressed exclusively by their UUID;
// display fields never participate in identity.
type Store struct {
	db *sql.DB

	mu           sync.RWMutex
	lastModified time.Time
	onChange     []func()
}

// NewStore migrates the schema and loads the persisted last-modified stamp.
func NewStore(db *sql.DB) (*Store, error) {
	if err := Migrate(db); err != nil {
		return nil, err
	}
	s := &Store{db: db}

	var raw string
	err := db.QueryRow(`SELECT value FROM meta WHERE key = ?`, metaLastModified).Scan(&raw)
	switch {
	case err == nil:
		if ts, perr := time.Parse(time.RFC3339Nano, raw); perr == nil {
			s.lastModified = ts
		}
	case errors.Is(err, sql.ErrNoRows):
		// fresh database; stamp stays zero until the first mutation
	default:
		return nil, fmt.Errorf("read last-modified: %w", err)
	}
	return s, nil
}

// OnChange registers a hook fired after every successful mutation. The
// result cache hangs its invalidation off this.
func (s *Store) OnChange(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = append(s.onChange, fn)
}

// LastModified returns the dataset's modification stamp.
func (s *Store) LastModified() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastModified
}

func (s *Store) touch(ctx context.Context) error {
	now := time.Now()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO meta (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		metaLastModified, now.Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("touch last-modified: %w", err)
	}

	s.mu.Lock()
	s.lastModified = now
	hooks := make([]func(), len(s.onChange))
	copy(hooks, s.onChange)
	s.mu.Unlock()

	for _, fn := range hooks {
		fn()
	}
	return nil
}

const recordColumns = `id, code, product, ingredient, registry_id, lab, lab_abbrev,
	price_lab, presentation, price, source, link, grp`

func scanRecord(scan func(dest ...any) error) (domain.CanonicalRecord, error) {
	var r domain.CanonicalRecord
	err := scan(&r.ID, &r.Code, &r.Product, &r.Ingredient, &r.RegistryID,
		&r.Lab, &r.LabAbbrev, &r.PriceLab, &r.Presentation, &r.Price,
		&r.Source, &r.Link, &r.Group)
	if err != nil {
		return domain.CanonicalRecord{}, err
	}
	r.Origin = domain.OriginBase
	if r.Source == "" {
		r.Source = domain.BaseSourceName
	}
	return r, nil
}

// All returns every BASE record in insertion order.
func (s *Store) All(ctx context.Context) ([]domain.CanonicalRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+recordColumns+` FROM base_records ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrBaseUnavailable, err)
	}
	defer rows.Close()

	var out []domain.CanonicalRecord
	for rows.Next() {
		r, err := scanRecord(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("%w: scan: %v", domain.ErrBaseUnavailable, err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrBaseUnavailable, err)
	}
	return out, nil
}

// Get looks one record up by ID.
func (s *Store) Get(ctx context.Context, id string) (domain.CanonicalRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+recordColumns+` FROM base_records WHERE id = ?`, id)
	r, err := scanRecord(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.CanonicalRecord{}, domain.ErrRecordNotFound
	}
	if err != nil {
		return domain.CanonicalRecord{}, fmt.Errorf("%w: %v", domain.ErrBaseUnavailable, err)
	}
	return r, nil
}

// sanitize applies the dataset's storage conventions: text fields are kept
// upper-case, and code and registry number mirror each other when one is
// blank.
func sanitize(r domain.CanonicalRecord) domain.CanonicalRecord {
	upper := func(s string) string { return strings.ToUpper(strings.TrimSpace(s)) }
	r.Code = upper(r.Code)
	r.Product = upper(r.Product)
	r.Ingredient = upper(r.Ingredient)
	r.RegistryID = upper(r.RegistryID)
	r.Lab = upper(r.Lab)
	r.LabAbbrev = upper(r.LabAbbrev)
	r.PriceLab = upper(r.PriceLab)
	r.Presentation = upper(r.Presentation)
	r.Source = upper(r.Source)
	r.Group = upper(r.Group)
	r.Price = strings.TrimSpace(r.Price)
	r.Link = strings.TrimSpace(r.Link)

	if r.Code == "" && r.RegistryID != "" {
		r.Code = r.RegistryID
	}
	r.RegistryID = r.Code
	r.Origin = domain.OriginBase
	return r
}

func (s *Store) insert(ctx context.Context, exec interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
}, r domain.CanonicalRecord) (domain.CanonicalRecord, error) {
	r = sanitize(r)
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	_, err := exec.ExecContext(ctx,
		`INSERT INTO base_records (`+recordColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Code, r.Product, r.Ingredient, r.RegistryID, r.Lab,
		r.LabAbbrev, r.PriceLab, r.Presentation, r.Price, r.Source,
		r.Link, r.Group)
	if err != nil {
		return domain.CanonicalRecord{}, fmt.Errorf("insert record: %w", err)
	}
	return r, nil
}

// Add inserts a new record, assigning its UUID.
func (s *Store) Add(ctx context.Context, rec domain.CanonicalRecord) (domain.CanonicalRecord, error) {
	rec.ID = ""
	r, err := s.insert(ctx, s.db, rec)
	if err != nil {
		return domain.CanonicalRecord{}, err
	}
	if err := s.touch(ctx); err != nil {
		return domain.CanonicalRecord{}, err
	}
	return r, nil
}

// Update overwrites the record with the given ID.
func (s *Store) Update(ctx context.Context, id string, rec domain.CanonicalRecord) (domain.CanonicalRecord, error) {
	rec = sanitize(rec)
	res, err := s.db.ExecContext(ctx,
		`UPDATE base_records SET code = ?, product = ?, ingredient = ?,
		 registry_id = ?, lab = ?, lab_abbrev = ?, price_lab = ?,
		 presentation = ?, price = ?, source = ?, link = ?, grp = ?,
		 updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		rec.Code, rec.Product, rec.Ingredient, rec.RegistryID, rec.Lab,
		rec.LabAbbrev, rec.PriceLab, rec.Presentation, rec.Price,
		rec.Source, rec.Link, rec.Group, id)
	if err != nil {
		return domain.CanonicalRecord{}, fmt.Errorf("update record: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.CanonicalRecord{}, domain.ErrRecordNotFound
	}
	rec.ID = id
	if err := s.touch(ctx); err != nil {
		return domain.CanonicalRecord{}, err
	}
	return rec, nil
}

// Delete removes the record with the given ID.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM base_records WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrRecordNotFound
	}
	return s.touch(ctx)
}

// ReplaceAll swaps the whole dataset for the given records in one
// transaction. This backs the collaborator's spreadsheet re-upload.
func (s *Store) ReplaceAll(ctx context.Context, recs []domain.CanonicalRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM base_records`); err != nil {
		return fmt.Errorf("clear records: %w", err)
	}
	for _, rec := range recs {
		rec.ID = ""
		if _, err := s.insert(ctx, tx, rec); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace: %w", err)
	}
	return s.touch(ctx)
}
