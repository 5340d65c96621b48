package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/pgdriver"
	_ "github.com/xraph/grove/drivers/pgdriver/pgmigrate"
	"github.com/xraph/grove/migrate"

	marketplace "github.com/AnushkaKohli/nftmarketplace"
	"github.com/AnushkaKohli/nftmarketplace/account"
	"github.com/AnushkaKohli/nftmarketplace/event"
	"github.com/AnushkaKohli/nftmarketplace/item"
	"github.com/AnushkaKohli/nftmarketplace/payment"
	mstore "github.com/AnushkaKohli/nftmarketplace/store"
	"github.com/AnushkaKohli/nftmarketplace/types"
)

// compile-time interface check
var _ mstore.Store = (*Store)(nil)

// Store implements store.Store using PostgreSQL via Grove ORM.
type Store struct {
	db *grove.DB
	pg *pgdriver.PgDB
}

// New creates a new PostgreSQL store backed by Grove ORM.
func New(db *grove.DB) *Store {
	return &Store{
		db: db,
		pg: pgdriver.Unwrap(db),
	}
}

// DB returns the underlying grove database for direct access.
func (s *Store) DB() *grove.DB { return s.db }

// Migrate creates the required tables and indexes using the grove orchestrator.
func (s *Store) Migrate(ctx context.Context) error {
	executor, err := migrate.NewExecutorFor(s.pg)
	if err != nil {
		return fmt.Errorf("marketplace/postgres: create migration executor: %w", err)
	}
	orch := migrate.NewOrchestrator(executor, Migrations)
	if _, err := orch.Migrate(ctx); err != nil {
		return fmt.Errorf("marketplace/postgres: migration failed: %w", err)
	}
	return nil
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// ==================== Item Store ====================

func (s *Store) GetItem(ctx context.Context, itemID int64) (*item.Item, error) {
	m := new(itemModel)
	err := s.pg.NewSelect(m).
		Where("id = $1", itemID).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, marketplace.ErrItemNotFound
		}
		return nil, err
	}
	return fromItemModel(m), nil
}

func (s *Store) ListItems(ctx context.Context, opts item.ListOpts) ([]*item.Item, error) {
	var models []itemModel
	q := s.pg.NewSelect(&models)

	argIdx := 0
	if opts.Sold != nil {
		argIdx++
		q = q.Where(fmt.Sprintf("sold = $%d", argIdx), *opts.Sold)
	}
	if opts.Holder != "" {
		argIdx++
		q = q.Where(fmt.Sprintf("holder = $%d", argIdx), string(opts.Holder))
	}
	if opts.Seller != "" {
		argIdx++
		q = q.Where(fmt.Sprintf("seller = $%d", argIdx), string(opts.Seller))
	}
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		q = q.Offset(opts.Offset)
	}
	q = q.OrderExpr("id ASC")

	if err := q.Scan(ctx); err != nil {
		return nil, err
	}

	result := make([]*item.Item, len(models))
	for i := range models {
		result[i] = fromItemModel(&models[i])
	}
	return result, nil
}

func (s *Store) CountItems(ctx context.Context) (item.Counts, error) {
	var c item.Counts
	if err := s.pg.NewRaw(`SELECT COUNT(*) FROM market_items`).Scan(ctx, &c.Items); err != nil {
		return item.Counts{}, err
	}
	if err := s.pg.NewRaw(`SELECT COUNT(*) FROM market_items WHERE sold = TRUE`).Scan(ctx, &c.Sold); err != nil {
		return item.Counts{}, err
	}
	c.Listed = c.Items - c.Sold
	return c, nil
}

func (s *Store) LastItemID(ctx context.Context) (int64, error) {
	var last int64
	if err := s.pg.NewRaw(`SELECT COALESCE(MAX(id), 0) FROM market_items`).Scan(ctx, &last); err != nil {
		return 0, err
	}
	return last, nil
}

// ==================== Event Store ====================

func (s *Store) ListEvents(ctx context.Context, opts event.ListOpts) ([]*event.Event, error) {
	var models []eventModel
	q := s.pg.NewSelect(&models)

	argIdx := 0
	if opts.ItemID != 0 {
		argIdx++
		q = q.Where(fmt.Sprintf("item_id = $%d", argIdx), opts.ItemID)
	}
	if opts.Actor != "" {
		argIdx++
		q = q.Where(fmt.Sprintf("actor = $%d", argIdx), string(opts.Actor))
	}
	if opts.Operation != "" {
		argIdx++
		q = q.Where(fmt.Sprintf("operation = $%d", argIdx), string(opts.Operation))
	}
	if !opts.Since.IsZero() {
		argIdx++
		q = q.Where(fmt.Sprintf("timestamp >= $%d", argIdx), opts.Since)
	}
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		q = q.Offset(opts.Offset)
	}
	q = q.OrderExpr("timestamp ASC, id ASC")

	if err := q.Scan(ctx); err != nil {
		return nil, err
	}

	result := make([]*event.Event, len(models))
	for i := range models {
		evt, err := fromEventModel(&models[i])
		if err != nil {
			return nil, err
		}
		result[i] = evt
	}
	return result, nil
}

// ==================== Payment Store ====================

func (s *Store) ListTransfers(ctx context.Context, opts payment.ListOpts) ([]*payment.Transfer, error) {
	var models []transferModel
	q := s.pg.NewSelect(&models)

	argIdx := 0
	if opts.Account != "" {
		argIdx++
		q = q.Where(fmt.Sprintf("(from_account = $%d OR to_account = $%d)", argIdx, argIdx), string(opts.Account))
	}
	if opts.ItemID != 0 {
		argIdx++
		q = q.Where(fmt.Sprintf("item_id = $%d", argIdx), opts.ItemID)
	}
	if opts.Kind != "" {
		argIdx++
		q = q.Where(fmt.Sprintf("kind = $%d", argIdx), string(opts.Kind))
	}
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		q = q.Offset(opts.Offset)
	}
	q = q.OrderExpr("created_at ASC, id ASC")

	if err := q.Scan(ctx); err != nil {
		return nil, err
	}

	result := make([]*payment.Transfer, len(models))
	for i := range models {
		t, err := fromTransferModel(&models[i])
		if err != nil {
			return nil, err
		}
		result[i] = t
	}
	return result, nil
}

func (s *Store) Balance(ctx context.Context, acct account.Address, currency string) (types.Money, error) {
	var net int64
	err := s.pg.NewRaw(`
		SELECT COALESCE(SUM(CASE WHEN to_account = $1 THEN amount ELSE 0 END), 0)
		     - COALESCE(SUM(CASE WHEN from_account = $1 THEN amount ELSE 0 END), 0)
		FROM market_transfers
		WHERE currency = $2 AND (from_account = $1 OR to_account = $1)
	`, string(acct), currency).Scan(ctx, &net)
	if err != nil {
		return types.Money{}, err
	}
	return types.New(net, currency), nil
}

// ==================== Settings Store ====================

// SaveListingFee stores fee and, when e is set, appends e to the event log in
// the same transaction.
func (s *Store) SaveListingFee(ctx context.Context, fee types.Money, e *event.Event) error {
	tx, err := s.pg.BeginTxQuery(ctx, nil)
	if err != nil {
		return fmt.Errorf("marketplace/postgres: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	m, err := toFeeSetting(fee, now())
	if err != nil {
		return err
	}
	if _, err := tx.NewInsert(m).
		OnConflict("(key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at").
		Exec(ctx); err != nil {
		return fmt.Errorf("marketplace/postgres: save listing fee: %w", err)
	}
	if e != nil {
		if _, err := tx.NewInsert(toEventModel(e)).Exec(ctx); err != nil {
			return fmt.Errorf("marketplace/postgres: insert fee event: %w", err)
		}
	}

	return tx.Commit()
}

func (s *Store) LoadListingFee(ctx context.Context) (types.Money, bool, error) {
	m := new(settingModel)
	err := s.pg.NewSelect(m).
		Where("key = $1", settingListingFee).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return types.Money{}, false, nil
		}
		return types.Money{}, false, err
	}
	fee, err := fromFeeSetting(m)
	if err != nil {
		return types.Money{}, false, err
	}
	return fee, true, nil
}

// ==================== Batch writes ====================

// Apply writes the item row and its journal rows in one transaction.
func (s *Store) Apply(ctx context.Context, b *mstore.Batch) error {
	if b == nil || b.Item == nil {
		return marketplace.ErrInvalidInput
	}

	tx, err := s.pg.BeginTxQuery(ctx, nil)
	if err != nil {
		return fmt.Errorf("marketplace/postgres: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := writeItem(ctx, tx, b); err != nil {
		return err
	}
	if err := writeJournal(ctx, tx, b); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("marketplace/postgres: commit item %d: %w", b.Item.ID, err)
	}
	return nil
}

func writeItem(ctx context.Context, tx *pgdriver.PgTx, b *mstore.Batch) error {
	m := toItemModel(b.Item)
	if b.Created {
		if _, err := tx.NewInsert(m).Exec(ctx); err != nil {
			return fmt.Errorf("insert item: %w", err)
		}
		return nil
	}

	res, err := tx.NewUpdate(m).WherePK().Exec(ctx)
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return marketplace.ErrItemNotFound
	}
	return nil
}

func writeJournal(ctx context.Context, tx *pgdriver.PgTx, b *mstore.Batch) error {
	if b.Event != nil {
		if _, err := tx.NewInsert(toEventModel(b.Event)).Exec(ctx); err != nil {
			return fmt.Errorf("insert event: %w", err)
		}
	}
	if len(b.Transfers) == 0 {
		return nil
	}
	models := make([]transferModel, len(b.Transfers))
	for i, t := range b.Transfers {
		models[i] = *toTransferModel(t)
	}
	if _, err := tx.NewInsert(&models).Exec(ctx); err != nil {
		return fmt.Errorf("insert transfers: %w", err)
	}
	return nil
}

// ==================== Helpers ====================

// now returns the current UTC time.
func now() time.Time {
	return time.Now().UTC()
}

// isNoRows checks for the standard sql.ErrNoRows sentinel.
func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
