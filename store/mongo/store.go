package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/mongodriver"
	_ "github.com/xraph/grove/drivers/mongodriver/mongomigrate"

	marketplace "github.com/AnushkaKohli/nftmarketplace"
	"github.com/AnushkaKohli/nftmarketplace/account"
	"github.com/AnushkaKohli/nftmarketplace/event"
	"github.com/AnushkaKohli/nftmarketplace/item"
	"github.com/AnushkaKohli/nftmarketplace/payment"
	mstore "github.com/AnushkaKohli/nftmarketplace/store"
	"github.com/AnushkaKohli/nftmarketplace/types"
)

// Collection name constants.
const (
	colItems     = "market_items"
	colEvents    = "market_events"
	colTransfers = "market_transfers"
	colSettings  = "market_settings"
)

// compile-time interface check
var _ mstore.Store = (*Store)(nil)

// Store implements store.Store using MongoDB via Grove ORM.
type Store struct {
	db  *grove.DB
	mdb *mongodriver.MongoDB
}

// New creates a new MongoDB store backed by Grove ORM.
func New(db *grove.DB) *Store {
	return &Store{
		db:  db,
		mdb: mongodriver.Unwrap(db),
	}
}

// DB returns the underlying grove database for direct access.
func (s *Store) DB() *grove.DB { return s.db }

// Migrate creates indexes for all marketplace collections.
func (s *Store) Migrate(ctx context.Context) error {
	for col, models := range migrationIndexes() {
		if len(models) == 0 {
			continue
		}
		_, err := s.mdb.Collection(col).Indexes().CreateMany(ctx, models)
		if err != nil {
			return fmt.Errorf("marketplace/mongo: migrate %s indexes: %w", col, err)
		}
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
	var m itemModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": itemID}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, marketplace.ErrItemNotFound
		}
		return nil, fmt.Errorf("marketplace/mongo: get item: %w", err)
	}
	return fromItemModel(&m), nil
}

func (s *Store) ListItems(ctx context.Context, opts item.ListOpts) ([]*item.Item, error) {
	var models []itemModel

	filter := bson.M{}
	if opts.Sold != nil {
		filter["sold"] = *opts.Sold
	}
	if opts.Holder != "" {
		filter["holder"] = string(opts.Holder)
	}
	if opts.Seller != "" {
		filter["seller"] = string(opts.Seller)
	}

	q := s.mdb.NewFind(&models).
		Filter(filter).
		Sort(bson.D{{Key: "_id", Value: 1}})

	if opts.Limit > 0 {
		q = q.Limit(int64(opts.Limit))
	}
	if opts.Offset > 0 {
		q = q.Skip(int64(opts.Offset))
	}

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("marketplace/mongo: list items: %w", err)
	}

	result := make([]*item.Item, len(models))
	for i := range models {
		result[i] = fromItemModel(&models[i])
	}
	return result, nil
}

func (s *Store) CountItems(ctx context.Context) (item.Counts, error) {
	col := s.mdb.Collection(colItems)

	total, err := col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return item.Counts{}, fmt.Errorf("marketplace/mongo: count items: %w", err)
	}
	sold, err := col.CountDocuments(ctx, bson.M{"sold": true})
	if err != nil {
		return item.Counts{}, fmt.Errorf("marketplace/mongo: count sold items: %w", err)
	}
	return item.Counts{Items: total, Sold: sold, Listed: total - sold}, nil
}

func (s *Store) LastItemID(ctx context.Context) (int64, error) {
	var models []itemModel
	err := s.mdb.NewFind(&models).
		Filter(bson.M{}).
		Sort(bson.D{{Key: "_id", Value: -1}}).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return 0, fmt.Errorf("marketplace/mongo: last item id: %w", err)
	}
	if len(models) == 0 {
		return 0, nil
	}
	return models[0].ID, nil
}

// ==================== Event Store ====================

func (s *Store) ListEvents(ctx context.Context, opts event.ListOpts) ([]*event.Event, error) {
	var models []eventModel

	filter := bson.M{}
	if opts.ItemID != 0 {
		filter["item_id"] = opts.ItemID
	}
	if opts.Actor != "" {
		filter["actor"] = string(opts.Actor)
	}
	if opts.Operation != "" {
		filter["operation"] = string(opts.Operation)
	}
	if !opts.Since.IsZero() {
		filter["timestamp"] = bson.M{"$gte": opts.Since}
	}

	q := s.mdb.NewFind(&models).
		Filter(filter).
		Sort(bson.D{{Key: "timestamp", Value: 1}, {Key: "_id", Value: 1}})

	if opts.Limit > 0 {
		q = q.Limit(int64(opts.Limit))
	}
	if opts.Offset > 0 {
		q = q.Skip(int64(opts.Offset))
	}

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("marketplace/mongo: list events: %w", err)
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

	filter := bson.M{}
	if opts.Account != "" {
		filter["$or"] = bson.A{
			bson.M{"from": string(opts.Account)},
			bson.M{"to": string(opts.Account)},
		}
	}
	if opts.ItemID != 0 {
		filter["item_id"] = opts.ItemID
	}
	if opts.Kind != "" {
		filter["kind"] = string(opts.Kind)
	}

	q := s.mdb.NewFind(&models).
		Filter(filter).
		Sort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})

	if opts.Limit > 0 {
		q = q.Limit(int64(opts.Limit))
	}
	if opts.Offset > 0 {
		q = q.Skip(int64(opts.Offset))
	}

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("marketplace/mongo: list transfers: %w", err)
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
	addr := string(acct)
	pipeline := bson.A{
		bson.M{
			"$match": bson.M{
				"currency": currency,
				"$or":      bson.A{bson.M{"from": addr}, bson.M{"to": addr}},
			},
		},
		bson.M{
			"$group": bson.M{
				"_id": nil,
				"credit": bson.M{"$sum": bson.M{
					"$cond": bson.A{bson.M{"$eq": bson.A{"$to", addr}}, "$amount", 0},
				}},
				"debit": bson.M{"$sum": bson.M{
					"$cond": bson.A{bson.M{"$eq": bson.A{"$from", addr}}, "$amount", 0},
				}},
			},
		},
	}

	cursor, err := s.mdb.Collection(colTransfers).Aggregate(ctx, pipeline)
	if err != nil {
		return types.Money{}, fmt.Errorf("marketplace/mongo: balance: %w", err)
	}
	defer cursor.Close(ctx)

	var results []struct {
		Credit int64 `bson:"credit"`
		Debit  int64 `bson:"debit"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return types.Money{}, fmt.Errorf("marketplace/mongo: balance decode: %w", err)
	}

	if len(results) == 0 {
		return types.Zero(currency), nil
	}
	return types.New(results[0].Credit-results[0].Debit, currency), nil
}

// ==================== Settings Store ====================

// SaveListingFee stores fee and, when e is set, appends e to the event log in
// the same transaction.
func (s *Store) SaveListingFee(ctx context.Context, fee types.Money, e *event.Event) error {
	tx, err := s.begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	m := &settingModel{Key: settingListingFee, Fee: toMoneyModel(fee), UpdatedAt: now()}
	if _, err := tx.NewUpdate(m).
		Filter(bson.M{"_id": m.Key}).
		SetUpdate(bson.M{"$set": bson.M{
			"fee":        m.Fee,
			"updated_at": m.UpdatedAt,
		}}).
		Upsert().
		Exec(ctx); err != nil {
		return fmt.Errorf("marketplace/mongo: save listing fee: %w", err)
	}
	if e != nil {
		if _, err := tx.NewInsert(toEventModel(e)).Exec(ctx); err != nil {
			return fmt.Errorf("marketplace/mongo: insert fee event: %w", err)
		}
	}

	return tx.Commit()
}

func (s *Store) LoadListingFee(ctx context.Context) (types.Money, bool, error) {
	var m settingModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": settingListingFee}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return types.Money{}, false, nil
		}
		return types.Money{}, false, fmt.Errorf("marketplace/mongo: load listing fee: %w", err)
	}
	return m.Fee.money(), true, nil
}

// ==================== Batch writes ====================

// Apply writes the item document and its journal documents in one session
// transaction. MongoDB only supports transactions on replica sets and
// sharded clusters.
func (s *Store) Apply(ctx context.Context, b *mstore.Batch) error {
	if b == nil || b.Item == nil {
		return marketplace.ErrInvalidInput
	}

	tx, err := s.begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if err := writeItem(ctx, tx, b); err != nil {
		return err
	}
	if err := writeJournal(ctx, tx, b); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("marketplace/mongo: commit item %d: %w", b.Item.ID, err)
	}
	return nil
}

func (s *Store) begin(ctx context.Context) (*mongodriver.MongoTx, error) {
	raw, err := s.mdb.GroveTx(ctx, 0, false)
	if err != nil {
		return nil, fmt.Errorf("marketplace/mongo: begin: %w", err)
	}
	tx, ok := raw.(*mongodriver.MongoTx)
	if !ok {
		return nil, fmt.Errorf("marketplace/mongo: begin: unexpected transaction type %T", raw)
	}
	return tx, nil
}

func writeItem(ctx context.Context, tx *mongodriver.MongoTx, b *mstore.Batch) error {
	m := toItemModel(b.Item)
	if b.Created {
		if _, err := tx.NewInsert(m).Exec(ctx); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return marketplace.ErrAlreadyExists
			}
			return fmt.Errorf("marketplace/mongo: insert item: %w", err)
		}
		return nil
	}

	res, err := tx.NewUpdate(m).
		Filter(bson.M{"_id": m.ID}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("marketplace/mongo: update item: %w", err)
	}
	if res.MatchedCount() == 0 {
		return marketplace.ErrItemNotFound
	}
	return nil
}

func writeJournal(ctx context.Context, tx *mongodriver.MongoTx, b *mstore.Batch) error {
	if b.Event != nil {
		if _, err := tx.NewInsert(toEventModel(b.Event)).Exec(ctx); err != nil {
			return fmt.Errorf("marketplace/mongo: insert event: %w", err)
		}
	}
	for _, t := range b.Transfers {
		if _, err := tx.NewInsert(toTransferModel(t)).Exec(ctx); err != nil {
			return fmt.Errorf("marketplace/mongo: insert transfer: %w", err)
		}
	}
	return nil
}

// ==================== Helpers ====================

// now returns the current UTC time.
func now() time.Time {
	return time.Now().UTC()
}

// isNoDocuments checks if an error wraps mongo.ErrNoDocuments.
func isNoDocuments(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}

// migrationIndexes returns the index definitions for all marketplace collections.
func migrationIndexes() map[string][]mongo.IndexModel {
	return map[string][]mongo.IndexModel{
		colItems: {
			{Keys: bson.D{{Key: "sold", Value: 1}, {Key: "_id", Value: 1}}},
			{Keys: bson.D{{Key: "holder", Value: 1}}},
			{Keys: bson.D{{Key: "seller", Value: 1}, {Key: "sold", Value: 1}}},
		},
		colEvents: {
			{Keys: bson.D{{Key: "item_id", Value: 1}, {Key: "timestamp", Value: 1}}},
			{Keys: bson.D{{Key: "actor", Value: 1}, {Key: "timestamp", Value: 1}}},
			{Keys: bson.D{{Key: "operation", Value: 1}}},
		},
		colTransfers: {
			{Keys: bson.D{{Key: "event_id", Value: 1}}},
			{Keys: bson.D{{Key: "from", Value: 1}, {Key: "currency", Value: 1}}},
			{Keys: bson.D{{Key: "to", Value: 1}, {Key: "currency", Value: 1}}},
			{
				Keys:    bson.D{{Key: "item_id", Value: 1}, {Key: "kind", Value: 1}, {Key: "event_id", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		},
		colSettings: {},
	}
}
