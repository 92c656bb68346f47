package payment

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
)

// ChainClient is the RPC surface the payment engine needs. Tests substitute
// a double; production code wraps an ethclient connection.
type ChainClient interface {
	ChainID(ctx context.Context) (*big.Int, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	BalanceAt(ctx context.Context, account common.Address) (*big.Int, error)
	TokenBalance(ctx context.Context, token, account common.Address) (*big.Int, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
	Close()
}

// ethChainClient implements ChainClient over a JSON-RPC endpoint.
type ethChainClient struct {
	client *ethclient.Client
}

// Dial connects to an Ethereum JSON-RPC endpoint.
func Dial(rpcURL string) (ChainClient, error) {
	client, err := ethclient.Dial(rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RPC: %v", err)
	}
	return &ethChainClient{client: client}, nil
}

func (c *ethChainClient) ChainID(ctx context.Context) (*big.Int, error) {
	return c.client.ChainID(ctx)
}

func (c *ethChainClient) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	return c.client.SuggestGasPrice(ctx)
}

func (c *ethChainClient) BalanceAt(ctx context.Context, account common.Address) (*big.Int, error) {
	return c.client.BalanceAt(ctx, account, nil)
}

func (c *ethChainClient) TokenBalance(ctx context.Context, token, account common.Address) (*big.Int, error) {
	msg := ethereum.CallMsg{
		To:   &token,
		Data: BalanceOfCallData(account),
	}

	result, err := c.client.CallContract(ctx, msg, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to query token balance: %v", err)
	}

	return new(big.Int).SetBytes(result), nil
}

func (c *ethChainClient) PendingNonceAt(ctx context.Context, account common.Address) (uint64, error) {
	return c.client.PendingNonceAt(ctx, account)
}

func (c *ethChainClient) EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error) {
	return c.client.EstimateGas(ctx, msg)
}

func (c *ethChainClient) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	return c.client.SendTransaction(ctx, tx)
}

func (c *ethChainClient) TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	return c.client.TransactionReceipt(ctx, txHash)
}

func (c *ethChainClient) Close() {
	c.client.Close()
}

// BalanceOfCallData ABI-encodes an ERC-20 balanceOf(address) call.
func BalanceOfCallData(account common.Address) []byte {
	// balanceOf(address) -> 0x70a08231
	selector := crypto.Keccak256([]byte("balanceOf(address)"))[:4]
	return append(selector, common.LeftPadBytes(account.Bytes(), 32)...)
}

// TransferCallData ABI-encodes an ERC-20 transfer(address,uint256) call.
func TransferCallData(to common.Address, amount *big.Int) []byte {
	// transfer(address,uint256) -> 0xa9059cbb
	selector := crypto.Keccak256([]byte("transfer(address,uint256)"))[:4]
	data := append(selector, common.LeftPadBytes(to.Bytes(), 32)...)
	return append(data, common.LeftPadBytes(amount.Bytes(), 32)...)
}
