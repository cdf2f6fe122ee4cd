package asset

import (
	"fmt"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

// Registry is a thread-safe registry of known tokens, keyed by contract
// address and by upper-cased symbol.
type Registry struct {
	byAddress map[common.Address]*Token
	bySymbol  map[string]*Token
	mu        sync.RWMutex
}

// NewRegistry creates a new empty token registry.
func NewRegistry() *Registry {
	return &Registry{
		byAddress: make(map[common.Address]*Token),
		bySymbol:  make(map[string]*Token),
	}
}

// Register adds a token to the registry. Panics on duplicate address or
// symbol since the token set is fixed at startup.
func (r *Registry) Register(t *Token) {
	if t == nil {
		panic("asset: cannot register nil token")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byAddress[t.Address()]; exists {
		panic(fmt.Sprintf("asset: address %s already registered", t.Address().Hex()))
	}
	symbol := strings.ToUpper(t.Symbol())
	if _, exists := r.bySymbol[symbol]; exists {
		panic(fmt.Sprintf("asset: symbol %s already registered", symbol))
	}

	r.byAddress[t.Address()] = t
	r.bySymbol[symbol] = t
}

// GetByAddress retrieves a token by its contract address.
func (r *Registry) GetByAddress(address common.Address) (*Token, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.byAddress[address]
	return t, ok
}

// GetBySymbol retrieves a token by symbol, case-insensitively.
func (r *Registry) GetBySymbol(symbol string) (*Token, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.bySymbol[strings.ToUpper(symbol)]
	return t, ok
}

// Resolve maps a configured token identifier to a contract address. The
// identifier may be a registered symbol or a hex address; hex addresses
// pass through whether registered or not.
func (r *Registry) Resolve(identifier string) (common.Address, bool) {
	if common.IsHexAddress(identifier) {
		return common.HexToAddress(identifier), true
	}
	if t, ok := r.GetBySymbol(identifier); ok {
		return t.Address(), true
	}
	return common.Address{}, false
}

// Count returns the number of registered tokens.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byAddress)
}
