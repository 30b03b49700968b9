package blockchain

import (
	"context"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	"golang.org/x/time/rate"

	"holdex/internal/errors"
	"holdex/internal/logger"
	"holdex/internal/types"
)

const (
	// logQueryRate bounds eth_getLogs calls per second against the backend
	logQueryRate  = 5
	logQueryBurst = 1
)

// EVMClient implements Client for EVM compatible chains
type EVMClient struct {
	client    *ethclient.Client
	rpcClient *rpc.Client
	chain     types.Chain
	limiter   *rate.Limiter
	log       logger.Logger
}

// NewEVMClient creates a new EVM chain client and verifies connectivity.
func NewEVMClient(chain types.Chain, log logger.Logger) (*EVMClient, error) {
	if chain.RPCURL == "" {
		return nil, errors.NewInvalidConfigError("rpc_url")
	}

	rpcClient, err := rpc.Dial(chain.RPCURL)
	if err != nil {
		return nil, errors.NewRPCError(err)
	}

	client := ethclient.NewClient(rpcClient)

	evm := &EVMClient{
		client:    client,
		rpcClient: rpcClient,
		chain:     chain,
		limiter:   rate.NewLimiter(rate.Limit(logQueryRate), logQueryBurst),
		log:       log,
	}

	// Try to get the chain ID to verify the connection
	if _, err := evm.client.ChainID(context.Background()); err != nil {
		evm.Close()
		return nil, errors.NewRPCError(err)
	}

	return evm, nil
}

// GetLatestBlock implements Client.GetLatestBlock
func (c *EVMClient) GetLatestBlock(ctx context.Context) (uint64, error) {
	blockNumber, err := c.client.BlockNumber(ctx)
	if err != nil {
		return 0, errors.NewRPCError(err)
	}
	return blockNumber, nil
}

// GetLogs implements Client.GetLogs
func (c *EVMClient) GetLogs(ctx context.Context, filter LogFilter) ([]types.Log, error) {
	if filter.ToBlock < filter.FromBlock {
		return nil, errors.NewInvalidBlockRangeError(filter.FromBlock, filter.ToBlock)
	}

	query := ethereum.FilterQuery{
		FromBlock: new(big.Int).SetUint64(filter.FromBlock),
		ToBlock:   new(big.Int).SetUint64(filter.ToBlock),
	}

	if filter.Address != "" {
		if !common.IsHexAddress(filter.Address) {
			return nil, errors.NewInvalidAddressError(filter.Address)
		}
		query.Addresses = []common.Address{common.HexToAddress(filter.Address)}
	}

	if len(filter.Topics) > 0 {
		topics := make([][]common.Hash, len(filter.Topics))
		for i, topic := range filter.Topics {
			topics[i] = []common.Hash{common.HexToHash(topic)}
		}
		query.Topics = topics
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, errors.NewRPCError(err)
	}

	ethLogs, err := c.client.FilterLogs(ctx, query)
	if err != nil {
		return nil, c.classifyLogQueryError(filter, err)
	}

	result := make([]types.Log, len(ethLogs))
	for i, ethLog := range ethLogs {
		topics := make([]string, len(ethLog.Topics))
		for j, topic := range ethLog.Topics {
			topics[j] = topic.Hex()
		}

		result[i] = types.Log{
			ChainID:         c.chain.ID,
			BlockNumber:     ethLog.BlockNumber,
			BlockHash:       ethLog.BlockHash.Hex(),
			Address:         ethLog.Address.Hex(),
			Topics:          topics,
			Data:            ethLog.Data,
			TransactionHash: ethLog.TxHash.Hex(),
			LogIndex:        ethLog.Index,
			Deleted:         ethLog.Removed,
		}
	}

	return result, nil
}

// classifyLogQueryError maps backend refusals of a log query onto the
// error kinds the retry wrapper distinguishes.
func (c *EVMClient) classifyLogQueryError(filter LogFilter, err error) error {
	msg := strings.ToLower(err.Error())

	switch {
	case strings.Contains(msg, "rate limit") || strings.Contains(msg, "too many requests") || strings.Contains(msg, "429"):
		return errors.NewRateLimitExceededError(err)
	case strings.Contains(msg, "query returned more than") ||
		strings.Contains(msg, "block range") ||
		strings.Contains(msg, "response size") ||
		strings.Contains(msg, "query timeout"):
		return errors.NewLogRangeTooLargeError(filter.FromBlock, filter.ToBlock, err)
	default:
		return errors.NewRPCError(err)
	}
}

// ToChecksum implements Client.ToChecksum
func (c *EVMClient) ToChecksum(address string) (string, error) {
	if !common.IsHexAddress(address) {
		return "", errors.NewInvalidAddressError(address)
	}
	return common.HexToAddress(address).Hex(), nil
}

// Chain implements Client.Chain
func (c *EVMClient) Chain() types.Chain {
	return c.chain
}

// Close implements Client.Close
func (c *EVMClient) Close() {
	c.rpcClient.Close()
}
