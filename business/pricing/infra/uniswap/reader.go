package uniswap

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"github.com/alirja123/defi-arbitrage-bot/business/pricing/app"
	"github.com/alirja123/defi-arbitrage-bot/internal/apperror"
	"github.com/alirja123/defi-arbitrage-bot/internal/circuitbreaker"
	"github.com/alirja123/defi-arbitrage-bot/internal/logger"
)

const meterName = "uniswap"

// Ensure Reader implements the application port.
var _ app.PoolStateReader = (*Reader)(nil)

// readerMetrics holds OTEL metric instruments.
type readerMetrics struct {
	callsTotal metric.Int64Counter
	callErrors metric.Int64Counter
}

// Reader reads pool reserve state via eth_call.
type Reader struct {
	client  ContractCaller
	cb      *circuitbreaker.CircuitBreaker[[]byte]
	log     logger.LoggerInterface
	metrics *readerMetrics
}

// NewReader creates a Reader over the given chain client.
func NewReader(client ContractCaller, log logger.LoggerInterface) (*Reader, error) {
	r := &Reader{
		client: client,
		cb:     circuitbreaker.New[[]byte](circuitbreaker.DefaultConfig("pool-state-read")),
		log:    log,
	}

	if err := r.initMetrics(); err != nil {
		return nil, fmt.Errorf("failed to init metrics: %w", err)
	}

	return r, nil
}

func (r *Reader) initMetrics() error {
	meter := otel.Meter(meterName)
	var err error

	r.metrics = &readerMetrics{}

	r.metrics.callsTotal, err = meter.Int64Counter(
		"uniswap_contract_calls_total",
		metric.WithDescription("Total pool contract calls"),
	)
	if err != nil {
		return err
	}

	r.metrics.callErrors, err = meter.Int64Counter(
		"uniswap_contract_call_errors_total",
		metric.WithDescription("Total failed pool contract calls"),
	)
	if err != nil {
		return err
	}

	return nil
}

// ReadState reads the pool's reserves and its token0 address so the caller
// can map reserve slots back to the declared pair.
func (r *Reader) ReadState(ctx context.Context, pool common.Address) (app.PoolState, error) {
	reserve0, reserve1, err := r.readReserves(ctx, pool)
	if err != nil {
		return app.PoolState{}, err
	}

	token0, err := r.readToken0(ctx, pool)
	if err != nil {
		return app.PoolState{}, err
	}

	return app.PoolState{
		Reserve0: reserve0,
		Reserve1: reserve1,
		Token0:   token0,
	}, nil
}

func (r *Reader) readReserves(ctx context.Context, pool common.Address) (*big.Int, *big.Int, error) {
	result, err := r.call(ctx, pool, "getReserves")
	if err != nil {
		return nil, nil, err
	}

	// getReserves returns (uint112 reserve0, uint112 reserve1, uint32
	// blockTimestampLast), packed into three 32-byte slots. The timestamp
	// slot is ignored.
	if len(result) != 96 {
		return nil, nil, apperror.New(apperror.CodeContractCallFailed,
			apperror.WithContext(fmt.Sprintf("invalid getReserves response length for pool %s: %d bytes", pool.Hex(), len(result))))
	}

	reserve0 := new(big.Int).SetBytes(result[0:32])
	reserve1 := new(big.Int).SetBytes(result[32:64])

	return reserve0, reserve1, nil
}

func (r *Reader) readToken0(ctx context.Context, pool common.Address) (common.Address, error) {
	result, err := r.call(ctx, pool, "token0")
	if err != nil {
		return common.Address{}, err
	}

	if len(result) != 32 {
		return common.Address{}, apperror.New(apperror.CodeContractCallFailed,
			apperror.WithContext(fmt.Sprintf("invalid token0 response length for pool %s: %d bytes", pool.Hex(), len(result))))
	}

	return common.BytesToAddress(result[12:32]), nil
}

func (r *Reader) call(ctx context.Context, pool common.Address, method string) ([]byte, error) {
	callData, err := pairABI.Pack(method)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeContractCallFailed, "encode "+method)
	}

	r.metrics.callsTotal.Add(ctx, 1)

	result, err := r.cb.Execute(func() ([]byte, error) {
		return r.client.CallContract(ctx, ethereum.CallMsg{
			To:   &pool,
			Data: callData,
		}, nil)
	})
	if err != nil {
		r.metrics.callErrors.Add(ctx, 1)
		return nil, apperror.New(apperror.CodeContractCallFailed,
			apperror.WithCause(err),
			apperror.WithContext(fmt.Sprintf("%s call failed for pool %s", method, pool.Hex())))
	}

	return result, nil
}
