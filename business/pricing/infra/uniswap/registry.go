package uniswap

import (
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"github.com/alirja123/defi-arbitrage-bot/business/pricing/domain"
	"github.com/alirja123/defi-arbitrage-bot/internal/apperror"
)

// ContractRegistry holds the resolved router and factory addresses per
// exchange. Populated once at engine construction; a broken exchange is
// skipped by the caller without affecting the others.
type ContractRegistry struct {
	mu        sync.RWMutex
	routers   map[string]common.Address
	factories map[string]common.Address
}

// NewContractRegistry creates an empty registry.
func NewContractRegistry() *ContractRegistry {
	return &ContractRegistry{
		routers:   make(map[string]common.Address),
		factories: make(map[string]common.Address),
	}
}

// Register validates and stores an exchange's contract addresses.
func (r *ContractRegistry) Register(ex domain.Exchange) error {
	if ex.Name == "" {
		return apperror.New(apperror.CodeExchangeInitFailed,
			apperror.WithContext("exchange name is empty"))
	}
	if ex.Factory == ZeroAddress {
		return apperror.New(apperror.CodeExchangeInitFailed,
			apperror.WithContext("zero factory address for "+ex.Name))
	}
	if ex.Router == ZeroAddress {
		return apperror.New(apperror.CodeExchangeInitFailed,
			apperror.WithContext("zero router address for "+ex.Name))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[ex.Name]; exists {
		return apperror.New(apperror.CodeExchangeInitFailed,
			apperror.WithContext("duplicate exchange "+ex.Name))
	}

	r.routers[ex.Name] = ex.Router
	r.factories[ex.Name] = ex.Factory
	return nil
}

// Router returns the registered router address for an exchange.
func (r *ContractRegistry) Router(exchange string) (common.Address, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	addr, ok := r.routers[exchange]
	return addr, ok
}

// Factory returns the registered factory address for an exchange.
func (r *ContractRegistry) Factory(exchange string) (common.Address, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	addr, ok := r.factories[exchange]
	return addr, ok
}

// Names returns the registered exchange names.
func (r *ContractRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	return names
}
