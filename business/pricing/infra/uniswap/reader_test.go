package uniswap

import (
	"bytes"
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/alirja123/defi-arbitrage-bot/internal/apperror"
	"github.com/alirja123/defi-arbitrage-bot/internal/logger"
)

// mockLogger implements logger.LoggerInterface for testing.
type mockLogger struct{}

func (m *mockLogger) Debug(ctx context.Context, msg string, args ...any)              {}
func (m *mockLogger) Info(ctx context.Context, msg string, args ...any)               {}
func (m *mockLogger) Warn(ctx context.Context, msg string, args ...any)               {}
func (m *mockLogger) Error(ctx context.Context, msg string, args ...any)              {}
func (m *mockLogger) Debugc(ctx context.Context, caller int, msg string, args ...any) {}
func (m *mockLogger) Infoc(ctx context.Context, caller int, msg string, args ...any)  {}
func (m *mockLogger) Warnc(ctx context.Context, caller int, msg string, args ...any)  {}
func (m *mockLogger) Errorc(ctx context.Context, caller int, msg string, args ...any) {}

var _ logger.LoggerInterface = (*mockLogger)(nil)

// fakeCaller dispatches eth_call responses on the method selector.
type fakeCaller struct {
	responses map[string][]byte // selector hex -> return data
	errs      map[string]error
	calls     int
}

func (f *fakeCaller) CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	f.calls++
	selector := common.Bytes2Hex(msg.Data[:4])
	if err, ok := f.errs[selector]; ok {
		return nil, err
	}
	resp, ok := f.responses[selector]
	if !ok {
		return nil, errors.New("unexpected call")
	}
	return resp, nil
}

func (f *fakeCaller) SubscribeFilterLogs(ctx context.Context, q ethereum.FilterQuery, ch chan<- types.Log) (ethereum.Subscription, error) {
	return nil, errors.New("not implemented")
}

func selectorHex(method string) string {
	return common.Bytes2Hex(pairABI.Methods[method].ID)
}

func reservesResponse(reserve0, reserve1 *big.Int, timestamp uint32) []byte {
	out := make([]byte, 0, 96)
	out = append(out, common.LeftPadBytes(reserve0.Bytes(), 32)...)
	out = append(out, common.LeftPadBytes(reserve1.Bytes(), 32)...)
	out = append(out, common.LeftPadBytes(new(big.Int).SetUint64(uint64(timestamp)).Bytes(), 32)...)
	return out
}

func addressResponse(addr common.Address) []byte {
	return common.LeftPadBytes(addr.Bytes(), 32)
}

func TestReader_ReadState(t *testing.T) {
	token0 := common.HexToAddress("0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2")
	caller := &fakeCaller{responses: map[string][]byte{
		selectorHex("getReserves"): reservesResponse(big.NewInt(100), big.NewInt(300), 1700000000),
		selectorHex("token0"):      addressResponse(token0),
	}}

	r, err := NewReader(caller, &mockLogger{})
	if err != nil {
		t.Fatalf("failed to create reader: %v", err)
	}

	state, err := r.ReadState(context.Background(), common.HexToAddress("0x10"))
	if err != nil {
		t.Fatalf("ReadState failed: %v", err)
	}

	if state.Reserve0.Cmp(big.NewInt(100)) != 0 {
		t.Errorf("Reserve0 = %v, want 100", state.Reserve0)
	}
	if state.Reserve1.Cmp(big.NewInt(300)) != 0 {
		t.Errorf("Reserve1 = %v, want 300", state.Reserve1)
	}
	if state.Token0 != token0 {
		t.Errorf("Token0 = %v, want %v", state.Token0, token0)
	}
}

func TestReader_LargeReserves(t *testing.T) {
	// uint112 reserves can exceed uint64.
	reserve0, _ := new(big.Int).SetString("5192296858534827628530496329220095", 10)
	reserve1 := big.NewInt(1)
	token0 := common.HexToAddress("0x1")

	caller := &fakeCaller{responses: map[string][]byte{
		selectorHex("getReserves"): reservesResponse(reserve0, reserve1, 0),
		selectorHex("token0"):      addressResponse(token0),
	}}

	r, err := NewReader(caller, &mockLogger{})
	if err != nil {
		t.Fatalf("failed to create reader: %v", err)
	}

	state, err := r.ReadState(context.Background(), common.HexToAddress("0x10"))
	if err != nil {
		t.Fatalf("ReadState failed: %v", err)
	}
	if state.Reserve0.Cmp(reserve0) != 0 {
		t.Errorf("Reserve0 = %v, want %v", state.Reserve0, reserve0)
	}
}

func TestReader_Failures(t *testing.T) {
	tests := []struct {
		name      string
		responses map[string][]byte
		errs      map[string]error
	}{
		{
			name: "call_error",
			errs: map[string]error{selectorHex("getReserves"): errors.New("connection reset")},
		},
		{
			name: "truncated_reserves",
			responses: map[string][]byte{
				selectorHex("getReserves"): bytes.Repeat([]byte{0}, 64),
			},
		},
		{
			name: "truncated_token0",
			responses: map[string][]byte{
				selectorHex("getReserves"): reservesResponse(big.NewInt(1), big.NewInt(2), 0),
				selectorHex("token0"):      []byte{0x01, 0x02},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			caller := &fakeCaller{responses: tt.responses, errs: tt.errs}
			r, err := NewReader(caller, &mockLogger{})
			if err != nil {
				t.Fatalf("failed to create reader: %v", err)
			}

			_, err = r.ReadState(context.Background(), common.HexToAddress("0x10"))
			if !apperror.IsCode(err, apperror.CodeContractCallFailed) {
				t.Errorf("expected CodeContractCallFailed, got %v", err)
			}
		})
	}
}
