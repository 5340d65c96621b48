package sqlite

import (
	"encoding/json"
	"time"

	"github.com/xraph/grove"

	"github.com/AnushkaKohli/nftmarketplace/account"
	"github.com/AnushkaKohli/nftmarketplace/event"
	"github.com/AnushkaKohli/nftmarketplace/id"
	"github.com/AnushkaKohli/nftmarketplace/item"
	"github.com/AnushkaKohli/nftmarketplace/payment"
	"github.com/AnushkaKohli/nftmarketplace/types"
)

// ==================== Item models ====================

type itemModel struct {
	grove.BaseModel `grove:"table:market_items"`

	ID            int64     `grove:"id,pk"`
	AssetURI      string    `grove:"asset_uri"`
	PriceAmount   int64     `grove:"price_amount"`
	PriceCurrency string    `grove:"price_currency"`
	Seller        string    `grove:"seller"`
	Holder        string    `grove:"holder"`
	Sold          bool      `grove:"sold"`
	CreatedAt     time.Time `grove:"created_at"`
	UpdatedAt     time.Time `grove:"updated_at"`
}

func toItemModel(it *item.Item) *itemModel {
	return &itemModel{
		ID:            it.ID,
		AssetURI:      it.AssetURI,
		PriceAmount:   it.Price.Amount,
		PriceCurrency: it.Price.Currency,
		Seller:        string(it.Seller),
		Holder:        string(it.Holder),
		Sold:          it.Sold,
		CreatedAt:     it.CreatedAt,
		UpdatedAt:     it.UpdatedAt,
	}
}

func fromItemModel(m *itemModel) *item.Item {
	return &item.Item{
		Entity: types.Entity{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		ID:       m.ID,
		AssetURI: m.AssetURI,
		Price:    types.Money{Amount: m.PriceAmount, Currency: m.PriceCurrency},
		Seller:   account.Address(m.Seller),
		Holder:   account.Address(m.Holder),
		Sold:     m.Sold,
	}
}

// ==================== Event models ====================

type eventModel struct {
	grove.BaseModel `grove:"table:market_events"`

	ID        string    `grove:"id,pk"`
	Operation string    `grove:"operation"`
	ItemID    int64     `grove:"item_id"`
	Actor     string    `grove:"actor"`
	Amount    int64     `grove:"amount"`
	Currency  string    `grove:"currency"`
	Timestamp time.Time `grove:"timestamp"`
}

func toEventModel(e *event.Event) *eventModel {
	return &eventModel{
		ID:        e.ID.String(),
		Operation: string(e.Operation),
		ItemID:    e.ItemID,
		Actor:     string(e.Actor),
		Amount:    e.Amount.Amount,
		Currency:  e.Amount.Currency,
		Timestamp: e.Timestamp,
	}
}

func fromEventModel(m *eventModel) (*event.Event, error) {
	evtID, err := id.ParseEventID(m.ID)
	if err != nil {
		return nil, err
	}
	return &event.Event{
		ID:        evtID,
		Operation: event.Operation(m.Operation),
		ItemID:    m.ItemID,
		Actor:     account.Address(m.Actor),
		Amount:    types.Money{Amount: m.Amount, Currency: m.Currency},
		Timestamp: m.Timestamp,
	}, nil
}

// ==================== Transfer models ====================

type transferModel struct {
	grove.BaseModel `grove:"table:market_transfers"`

	ID          string    `grove:"id,pk"`
	EventID     string    `grove:"event_id"`
	ItemID      int64     `grove:"item_id"`
	Kind        string    `grove:"kind"`
	FromAccount string    `grove:"from_account"`
	ToAccount   string    `grove:"to_account"`
	Amount      int64     `grove:"amount"`
	Currency    string    `grove:"currency"`
	CreatedAt   time.Time `grove:"created_at"`
}

func toTransferModel(t *payment.Transfer) *transferModel {
	return &transferModel{
		ID:          t.ID.String(),
		EventID:     t.EventID.String(),
		ItemID:      t.ItemID,
		Kind:        string(t.Kind),
		FromAccount: string(t.From),
		ToAccount:   string(t.To),
		Amount:      t.Amount.Amount,
		Currency:    t.Amount.Currency,
		CreatedAt:   t.CreatedAt,
	}
}

func fromTransferModel(m *transferModel) (*payment.Transfer, error) {
	transferID, err := id.ParseTransferID(m.ID)
	if err != nil {
		return nil, err
	}
	var evtID id.EventID
	if m.EventID != "" {
		if evtID, err = id.ParseEventID(m.EventID); err != nil {
			return nil, err
		}
	}
	return &payment.Transfer{
		ID:        transferID,
		EventID:   evtID,
		ItemID:    m.ItemID,
		Kind:      payment.Kind(m.Kind),
		From:      account.Address(m.FromAccount),
		To:        account.Address(m.ToAccount),
		Amount:    types.Money{Amount: m.Amount, Currency: m.Currency},
		CreatedAt: m.CreatedAt,
	}, nil
}

// ==================== Setting models ====================

const settingListingFee = "listing_fee"

type settingModel struct {
	grove.BaseModel `grove:"table:market_settings"`

	Key       string    `grove:"key,pk"`
	Value     string    `grove:"value"`
	UpdatedAt time.Time `grove:"updated_at"`
}

func toFeeSetting(fee types.Money, at time.Time) (*settingModel, error) {
	raw, err := json.Marshal(fee)
	if err != nil {
		return nil, err
	}
	return &settingModel{Key: settingListingFee, Value: string(raw), UpdatedAt: at}, nil
}

func fromFeeSetting(m *settingModel) (types.Money, error) {
	var fee types.Money
	if err := json.Unmarshal([]byte(m.Value), &fee); err != nil {
		return types.Money{}, err
	}
	return fee, nil
}
