package mongo

import (
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

	ID        int64      `grove:"id,pk"      bson:"_id"`
	AssetURI  string     `grove:"asset_uri"  bson:"asset_uri"`
	Price     moneyModel `grove:"price"      bson:"price"`
	Seller    string     `grove:"seller"     bson:"seller"`
	Holder    string     `grove:"holder"     bson:"holder"`
	Sold      bool       `grove:"sold"       bson:"sold"`
	CreatedAt time.Time  `grove:"created_at" bson:"created_at"`
	UpdatedAt time.Time  `grove:"updated_at" bson:"updated_at"`
}

// moneyModel is embedded as a sub-document wherever an amount is stored.
type moneyModel struct {
	Amount   int64  `bson:"amount"`
	Currency string `bson:"currency"`
}

func toMoneyModel(m types.Money) moneyModel {
	return moneyModel{Amount: m.Amount, Currency: m.Currency}
}

func (m moneyModel) money() types.Money {
	return types.Money{Amount: m.Amount, Currency: m.Currency}
}

func toItemModel(it *item.Item) *itemModel {
	return &itemModel{
		ID:        it.ID,
		AssetURI:  it.AssetURI,
		Price:     toMoneyModel(it.Price),
		Seller:    string(it.Seller),
		Holder:    string(it.Holder),
		Sold:      it.Sold,
		CreatedAt: it.CreatedAt,
		UpdatedAt: it.UpdatedAt,
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
		Price:    m.Price.money(),
		Seller:   account.Address(m.Seller),
		Holder:   account.Address(m.Holder),
		Sold:     m.Sold,
	}
}

// ==================== Event models ====================

type eventModel struct {
	grove.BaseModel `grove:"table:market_events"`

	ID        string     `grove:"id,pk"     bson:"_id"`
	Operation string     `grove:"operation" bson:"operation"`
	ItemID    int64      `grove:"item_id"   bson:"item_id"`
	Actor     string     `grove:"actor"     bson:"actor"`
	Amount    moneyModel `grove:"amount"    bson:"amount"`
	Timestamp time.Time  `grove:"timestamp" bson:"timestamp"`
}

func toEventModel(e *event.Event) *eventModel {
	return &eventModel{
		ID:        e.ID.String(),
		Operation: string(e.Operation),
		ItemID:    e.ItemID,
		Actor:     string(e.Actor),
		Amount:    toMoneyModel(e.Amount),
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
		Amount:    m.Amount.money(),
		Timestamp: m.Timestamp,
	}, nil
}

// ==================== Transfer models ====================

type transferModel struct {
	grove.BaseModel `grove:"table:market_transfers"`

	ID        string    `grove:"id,pk"      bson:"_id"`
	EventID   string    `grove:"event_id"   bson:"event_id"`
	ItemID    int64     `grove:"item_id"    bson:"item_id"`
	Kind      string    `grove:"kind"       bson:"kind"`
	From      string    `grove:"from"       bson:"from"`
	To        string    `grove:"to"         bson:"to"`
	Amount    int64     `grove:"amount"     bson:"amount"`
	Currency  string    `grove:"currency"   bson:"currency"`
	CreatedAt time.Time `grove:"created_at" bson:"created_at"`
}

func toTransferModel(t *payment.Transfer) *transferModel {
	return &transferModel{
		ID:        t.ID.String(),
		EventID:   t.EventID.String(),
		ItemID:    t.ItemID,
		Kind:      string(t.Kind),
		From:      string(t.From),
		To:        string(t.To),
		Amount:    t.Amount.Amount,
		Currency:  t.Amount.Currency,
		CreatedAt: t.CreatedAt,
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
		From:      account.Address(m.From),
		To:        account.Address(m.To),
		Amount:    types.Money{Amount: m.Amount, Currency: m.Currency},
		CreatedAt: m.CreatedAt,
	}, nil
}

// ==================== Setting models ====================

const settingListingFee = "listing_fee"

type settingModel struct {
	grove.BaseModel `grove:"table:market_settings"`

	Key       string     `grove:"key,pk"     bson:"_id"`
	Fee       moneyModel `grove:"fee"        bson:"fee"`
	UpdatedAt time.Time  `grove:"updated_at" bson:"updated_at"`
}
