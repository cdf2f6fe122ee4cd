package uniswap

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"github.com/alirja123/defi-arbitrage-bot/business/pricing/domain"
	"github.com/alirja123/defi-arbitrage-bot/internal/apperror"
)

func validExchange(name string) domain.Exchange {
	return domain.Exchange{
		Name:    name,
		Router:  common.HexToAddress("0x7a250d5630B4cF539739dF2C5dAcb4c659F2488D"),
		Factory: common.HexToAddress("0x5C69bEe701ef814a2B6a3EDD4B1652CB9cc5aA6f"),
	}
}

func TestContractRegistry_Register(t *testing.T) {
	tests := []struct {
		name     string
		exchange domain.Exchange
		wantErr  bool
	}{
		{name: "valid", exchange: validExchange("uniswap-v2"), wantErr: false},
		{
			name:     "empty_name",
			exchange: domain.Exchange{Router: common.HexToAddress("0x1"), Factory: common.HexToAddress("0x2")},
			wantErr:  true,
		},
		{
			name:     "zero_factory",
			exchange: domain.Exchange{Name: "broken", Router: common.HexToAddress("0x1")},
			wantErr:  true,
		},
		{
			name:     "zero_router",
			exchange: domain.Exchange{Name: "broken", Factory: common.HexToAddress("0x2")},
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewContractRegistry()
			err := r.Register(tt.exchange)

			if tt.wantErr {
				if !apperror.IsCode(err, apperror.CodeExchangeInitFailed) {
					t.Errorf("expected CodeExchangeInitFailed, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Register failed: %v", err)
			}

			if _, ok := r.Router(tt.exchange.Name); !ok {
				t.Error("router not registered")
			}
			if factory, ok := r.Factory(tt.exchange.Name); !ok || factory != tt.exchange.Factory {
				t.Errorf("Factory = %v, %v", factory, ok)
			}
		})
	}
}

func TestContractRegistry_RejectsDuplicates(t *testing.T) {
	r := NewContractRegistry()
	if err := r.Register(validExchange("uniswap-v2")); err != nil {
		t.Fatalf("first Register failed: %v", err)
	}

	err := r.Register(validExchange("uniswap-v2"))
	if !apperror.IsCode(err, apperror.CodeExchangeInitFailed) {
		t.Errorf("expected CodeExchangeInitFailed for duplicate, got %v", err)
	}

	if got := len(r.Names()); got != 1 {
		t.Errorf("Names() length = %d, want 1", got)
	}
}

func TestContractRegistry_UnknownExchange(t *testing.T) {
	r := NewContractRegistry()
	if _, ok := r.Router("quickswap"); ok {
		t.Error("Router must miss for unregistered exchange")
	}
	if _, ok := r.Factory("quickswap"); ok {
		t.Error("Factory must miss for unregistered exchange")
	}
}
