package fee_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/AnushkaKohli/nftmarketplace/account"
	"github.com/AnushkaKohli/nftmarketplace/fee"
	"github.com/AnushkaKohli/nftmarketplace/types"
)

const admin account.Address = "0xadmin"

func newPolicy(t *testing.T) *fee.Policy {
	t.Helper()
	p, err := fee.NewPolicy(admin, types.ETH(1))
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func TestNewPolicy(t *testing.T) {
	tests := []struct {
		name    string
		admin   account.Address
		initial types.Money
		wantErr error
	}{
		{"valid", admin, types.ETH(25), nil},
		{"empty admin", "", types.ETH(25), account.ErrInvalid},
		{"reserved admin", account.Treasury, types.ETH(25), account.ErrInvalid},
		{"zero fee", admin, types.ETH(0), fee.ErrInvalidFee},
		{"negative fee", admin, types.ETH(-1), fee.ErrInvalidFee},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := fee.NewPolicy(tt.admin, tt.initial)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("NewPolicy() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	p := newPolicy(t)

	tests := []struct {
		name    string
		paid    types.Money
		wantErr error
	}{
		{"exact", types.ETH(1), nil},
		{"underpaid", types.ETH(0), fee.ErrFeeMismatch},
		{"overpaid", types.ETH(2), fee.ErrFeeMismatch},
		{"wrong currency", types.USD(1), fee.ErrFeeMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := p.Validate(tt.paid); !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate(%v) = %v, want %v", tt.paid, err, tt.wantErr)
			}
		})
	}
}

func TestUpdate(t *testing.T) {
	t.Run("non-admin rejected", func(t *testing.T) {
		p := newPolicy(t)
		if err := p.Update(types.ETH(5), "0xmallory"); !errors.Is(err, fee.ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
		if !p.Fee().Equal(types.ETH(1)) {
			t.Errorf("fee changed to %v", p.Fee())
		}
	})

	t.Run("admin update visible to validate", func(t *testing.T) {
		p := newPolicy(t)
		if err := p.Validate(types.ETH(5)); !errors.Is(err, fee.ErrFeeMismatch) {
			t.Fatalf("expected mismatch before update, got %v", err)
		}
		if err := p.Update(types.ETH(5), admin); err != nil {
			t.Fatal(err)
		}
		if err := p.Validate(types.ETH(5)); err != nil {
			t.Errorf("Validate after update: %v", err)
		}
	})

	t.Run("invalid fee rejected", func(t *testing.T) {
		p := newPolicy(t)
		for _, bad := range []types.Money{types.ETH(0), types.ETH(-3), types.USD(5)} {
			if err := p.Update(bad, admin); !errors.Is(err, fee.ErrInvalidFee) {
				t.Errorf("Update(%v) = %v, want ErrInvalidFee", bad, err)
			}
		}
	})
}

func TestRestore(t *testing.T) {
	p := newPolicy(t)
	if err := p.Restore(types.ETH(9)); err != nil {
		t.Fatal(err)
	}
	if !p.Fee().Equal(types.ETH(9)) {
		t.Errorf("fee = %v", p.Fee())
	}
	if err := p.Restore(types.USD(9)); !errors.Is(err, fee.ErrInvalidFee) {
		t.Errorf("Restore with foreign currency = %v", err)
	}
}

func TestConcurrentAccess(t *testing.T) {
	p := newPolicy(t)

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = p.Update(types.ETH(int64(i+1)), admin)
		}()
		go func() {
			defer wg.Done()
			_ = p.Fee()
		}()
	}
	wg.Wait()

	if !p.Fee().IsPositive() {
		t.Errorf("fee not positive after concurrent updates: %v", p.Fee())
	}
}
