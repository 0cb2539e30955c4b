package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/okian/fitcheck/internal/domain/model"
	"github.com/okian/fitcheck/internal/domain/streak"
)

const itemColumns = `id, slot, name, brand, primary_hex, palette, image_urls, wear_count, last_worn, tags, created_at`

// PostgresStore is a Store backed by PostgreSQL through lib/pq.
type PostgresStore struct {
	db  *sql.DB
	cfg storeConfig
}

// OpenPostgres connects, applies migrations and returns a PostgresStore.
func OpenPostgres(ctx context.Context, databaseURL string, opts ...Option) (*PostgresStore, error) {
	if databaseURL == "" {
		return nil, errors.New("database url is required for the postgres store")
	}
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := RunMigrations(databaseURL); err != nil {
		_ = db.Close()
		return nil, err
	}
	return NewPostgresStore(db, opts...), nil
}

// NewPostgresStore wraps an open database whose schema is already migrated.
func NewPostgresStore(db *sql.DB, opts ...Option) *PostgresStore {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &PostgresStore{db: db, cfg: cfg}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (model.ClothingItem, error) {
	var (
		it       model.ClothingItem
		slot     string
		lastWorn sql.NullTime
		palette  pq.StringArray
		images   pq.StringArray
		tags     pq.StringArray
	)
	err := row.Scan(&it.ID, &slot, &it.Name, &it.Brand, &it.PrimaryHex,
		&palette, &images, &it.WearCount, &lastWorn, &tags, &it.CreatedAt)
	if err != nil {
		return model.ClothingItem{}, err
	}
	it.Slot = model.Slot(slot)
	it.Palette = []string(palette)
	it.ImageURLs = []string(images)
	it.Tags = []string(tags)
	if lastWorn.Valid {
		t := lastWorn.Time.UTC()
		it.LastWorn = &t
	}
	it.CreatedAt = it.CreatedAt.UTC()
	return it, nil
}

func (s *PostgresStore) ListItems(ctx context.Context, f model.ItemFilter) ([]model.ClothingItem, error) {
	defer observe("list_items", time.Now())

	var (
		where = []string{"user_id = $1"}
		args  = []any{s.cfg.userID}
	)
	if f.Slot != "" {
		args = append(args, string(f.Slot))
		where = append(where, fmt.Sprintf("slot = $%d", len(args)))
	}
	if f.Tag != "" {
		args = append(args, strings.ToLower(f.Tag))
		where = append(where, fmt.Sprintf("EXISTS (SELECT 1 FROM unnest(tags) t WHERE lower(t) = $%d)", len(args)))
	}
	order := "seq ASC"
	switch f.Sort {
	case model.SortCreated:
		order = "created_at DESC, seq ASC"
	case model.SortLastWorn:
		order = "last_worn DESC NULLS LAST, seq ASC"
	}

	query := `SELECT ` + itemColumns + ` FROM clothing_items WHERE ` + strings.Join(where, " AND ") + ` ORDER BY ` + order
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	var out []model.ClothingItem
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate items: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) GetItem(ctx context.Context, id string) (model.ClothingItem, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM clothing_items WHERE user_id = $1 AND id = $2`,
		s.cfg.userID, id)
	it, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.ClothingItem{}, fmt.Errorf("%w: %s", ErrItemNotFound, id)
	}
	if err != nil {
		return model.ClothingItem{}, fmt.Errorf("get item: %w", err)
	}
	return it, nil
}

func (s *PostgresStore) AddItem(ctx context.Context, item model.ClothingItem) (model.ClothingItem, error) {
	defer observe("add_item", time.Now())
	if item.ID == "" {
		item.ID = s.cfg.newID()
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now().UTC()
	}
	if err := item.Validate(); err != nil {
		return model.ClothingItem{}, err
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO clothing_items (id, user_id, slot, name, brand, primary_hex, palette, image_urls, wear_count, last_worn, tags, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		item.ID, s.cfg.userID, string(item.Slot), item.Name, item.Brand, item.PrimaryHex,
		pq.Array(nonNil(item.Palette)), pq.Array(nonNil(item.ImageURLs)), item.WearCount, item.LastWorn,
		pq.Array(nonNil(item.Tags)), item.CreatedAt,
	)
	if err != nil {
		return model.ClothingItem{}, fmt.Errorf("insert item: %w", err)
	}
	return item, nil
}

func (s *PostgresStore) UpdateItem(ctx context.Context, id string, patch model.ItemPatch) (model.ClothingItem, error) {
	defer observe("update_item", time.Now())
	current, err := s.GetItem(ctx, id)
	if err != nil {
		return model.ClothingItem{}, err
	}
	updated := patch.Apply(current)
	if err := updated.Validate(); err != nil {
		return model.ClothingItem{}, err
	}
	_, err = s.db.ExecContext(ctx,
		`UPDATE clothing_items
		    SET name = $3, brand = $4, primary_hex = $5, palette = $6, image_urls = $7, tags = $8
		  WHERE user_id = $1 AND id = $2`,
		s.cfg.userID, id, updated.Name, updated.Brand, updated.PrimaryHex,
		pq.Array(nonNil(updated.Palette)), pq.Array(nonNil(updated.ImageURLs)), pq.Array(nonNil(updated.Tags)),
	)
	if err != nil {
		return model.ClothingItem{}, fmt.Errorf("update item: %w", err)
	}
	return updated, nil
}

func (s *PostgresStore) RemoveItem(ctx context.Context, id string) error {
	defer observe("remove_item", time.Now())
	res, err := s.db.ExecContext(ctx, `DELETE FROM clothing_items WHERE user_id = $1 AND id = $2`, s.cfg.userID, id)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrItemNotFound, id)
	}
	return nil
}

func (s *PostgresStore) CountItems(ctx context.Context, slot model.Slot) (int, error) {
	var n int
	var err error
	if slot == "" {
		err = s.db.QueryRowContext(ctx, `SELECT count(*) FROM clothing_items WHERE user_id = $1`, s.cfg.userID).Scan(&n)
	} else {
		err = s.db.QueryRowContext(ctx, `SELECT count(*) FROM clothing_items WHERE user_id = $1 AND slot = $2`,
			s.cfg.userID, string(slot)).Scan(&n)
	}
	if err != nil {
		return 0, fmt.Errorf("count items: %w", err)
	}
	return n, nil
}

func (s *PostgresStore) ApplyWear(ctx context.Context, ev model.WearEvent) (model.HistoryEntry, error) {
	defer observe("apply_wear", time.Now())
	if err := ev.Validate(); err != nil {
		return model.HistoryEntry{}, err
	}
	at := ev.OccurredAt
	if at.IsZero() {
		at = time.Now()
	}
	at = at.UTC()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.HistoryEntry{}, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	res, err := tx.ExecContext(ctx,
		`UPDATE clothing_items SET wear_count = wear_count + 1, last_worn = GREATEST(COALESCE(last_worn, $2), $2)
		  WHERE user_id = $1 AND ((id = $3 AND slot = 'top') OR (id = $4 AND slot = 'bottom'))`,
		s.cfg.userID, at, ev.TopID, ev.BottomID)
	if err != nil {
		return model.HistoryEntry{}, fmt.Errorf("increment wear counts: %w", err)
	}
	if n, _ := res.RowsAffected(); n != 2 {
		return model.HistoryEntry{}, fmt.Errorf("%w: %s/%s", ErrItemNotFound, ev.TopID, ev.BottomID)
	}

	entry := model.HistoryEntry{
		ID:           s.cfg.newID(),
		TopID:        ev.TopID,
		BottomID:     ev.BottomID,
		HarmonyScore: ev.HarmonyScore,
		DripScore:    ev.DripScore,
		Worn:         true,
		WornAt:       at,
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO outfit_history (id, user_id, top_id, bottom_id, harmony_score, drip_score, worn, worn_at)
		 VALUES ($1, $2, $3, $4, $5, $6, TRUE, $7)`,
		entry.ID, s.cfg.userID, entry.TopID, entry.BottomID, entry.HarmonyScore, entry.DripScore, entry.WornAt)
	if err != nil {
		return model.HistoryEntry{}, fmt.Errorf("insert history: %w", err)
	}

	current, err := loadStreak(ctx, tx, s.cfg.userID, true)
	if err != nil {
		return model.HistoryEntry{}, err
	}
	day := streak.Day(at, s.cfg.loc)
	next := streak.Advance(current, day)
	if streak.Backdated(current, day) {
		days, err := s.wearDays(ctx, tx)
		if err != nil {
			return model.HistoryEntry{}, err
		}
		next = streak.Rebuild(days)
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO wear_streaks (user_id, count, last_date) VALUES ($1, $2, $3::date)
		 ON CONFLICT (user_id) DO UPDATE SET count = EXCLUDED.count, last_date = EXCLUDED.last_date`,
		s.cfg.userID, next.Count, next.LastDate)
	if err != nil {
		return model.HistoryEntry{}, fmt.Errorf("save streak: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return model.HistoryEntry{}, fmt.Errorf("commit wear: %w", err)
	}
	return entry, nil
}

// wearDays lists the civil day of every worn entry, including ones written
// earlier in tx.
func (s *PostgresStore) wearDays(ctx context.Context, tx *sql.Tx) ([]string, error) {
	rows, err := tx.QueryContext(ctx, `SELECT worn_at FROM outfit_history WHERE user_id = $1 AND worn`, s.cfg.userID)
	if err != nil {
		return nil, fmt.Errorf("load wear days: %w", err)
	}
	defer rows.Close()
	var days []string
	for rows.Next() {
		var at time.Time
		if err := rows.Scan(&at); err != nil {
			return nil, fmt.Errorf("scan wear day: %w", err)
		}
		days = append(days, streak.Day(at, s.cfg.loc))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load wear days: %w", err)
	}
	return days, nil
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func loadStreak(ctx context.Context, q queryer, userID string, forUpdate bool) (streak.Streak, error) {
	query := `SELECT count, last_date FROM wear_streaks WHERE user_id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	var (
		st   streak.Streak
		last sql.NullTime
	)
	err := q.QueryRowContext(ctx, query, userID).Scan(&st.Count, &last)
	if errors.Is(err, sql.ErrNoRows) {
		return streak.Streak{}, nil
	}
	if err != nil {
		return streak.Streak{}, fmt.Errorf("load streak: %w", err)
	}
	if last.Valid {
		st.LastDate = last.Time.Format(streak.DateLayout)
	}
	return st, nil
}

func (s *PostgresStore) MarkItemWorn(ctx context.Context, id string, at time.Time) (model.ClothingItem, error) {
	row := s.db.QueryRowContext(ctx,
		`UPDATE clothing_items SET wear_count = wear_count + 1, last_worn = GREATEST(COALESCE(last_worn, $3), $3)
		  WHERE user_id = $1 AND id = $2
		  RETURNING `+itemColumns,
		s.cfg.userID, id, at.UTC())
	it, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.ClothingItem{}, fmt.Errorf("%w: %s", ErrItemNotFound, id)
	}
	if err != nil {
		return model.ClothingItem{}, fmt.Errorf("mark item worn: %w", err)
	}
	return it, nil
}

const historyColumns = `id, top_id, bottom_id, harmony_score, drip_score, rating, worn, worn_at`

func scanEntry(row rowScanner) (model.HistoryEntry, error) {
	var (
		e      model.HistoryEntry
		rating sql.NullInt64
	)
	if err := row.Scan(&e.ID, &e.TopID, &e.BottomID, &e.HarmonyScore, &e.DripScore, &rating, &e.Worn, &e.WornAt); err != nil {
		return model.HistoryEntry{}, err
	}
	if rating.Valid {
		r := int(rating.Int64)
		e.Rating = &r
	}
	e.WornAt = e.WornAt.UTC()
	return e, nil
}

func (s *PostgresStore) RateEntry(ctx context.Context, entryID string, rating int) (model.HistoryEntry, error) {
	if err := model.ValidateRating(rating); err != nil {
		return model.HistoryEntry{}, err
	}
	row := s.db.QueryRowContext(ctx,
		`UPDATE outfit_history SET rating = $3 WHERE user_id = $1 AND id = $2 RETURNING `+historyColumns,
		s.cfg.userID, entryID, rating)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.HistoryEntry{}, fmt.Errorf("%w: %s", ErrEntryNotFound, entryID)
	}
	if err != nil {
		return model.HistoryEntry{}, fmt.Errorf("rate entry: %w", err)
	}
	return e, nil
}

func (s *PostgresStore) History(ctx context.Context, limit int) ([]model.HistoryEntry, error) {
	if limit < 1 {
		return nil, ErrInvalidLimit
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+historyColumns+` FROM outfit_history WHERE user_id = $1 ORDER BY seq DESC LIMIT $2`,
		s.cfg.userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()

	out := make([]model.HistoryEntry, 0, limit)
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) Streak(ctx context.Context) (streak.Streak, error) {
	return loadStreak(ctx, s.db, s.cfg.userID, false)
}

// Close closes the database handle.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func nonNil(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}
