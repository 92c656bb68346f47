// Package payment implements the transfer pipeline: resolve network, unlock
// the wallet, convert the amount, check balances, submit the transaction and
// await its receipt. Every invocation is a fresh, single-shot run; no step is
// retried automatically.
package payment

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/x402-tools/paywallet/internal/config"
	"github.com/x402-tools/paywallet/internal/utils"
	"github.com/x402-tools/paywallet/internal/wallet"
)

// nativeTransferGas is the fixed gas cost of a plain value transfer.
const nativeTransferGas = 21000

// defaultTokenDecimals applies when no token decimal count is configured
// (USDC convention).
const defaultTokenDecimals = 6

// Request describes one transfer. Zero-valued optional fields fall back to
// the stored configuration.
type Request struct {
	To     string
	Amount string
	// Token is an ERC-20 contract address; empty selects the configured
	// default token, or a native transfer when none is configured.
	Token        string
	RPCURL       string
	ChainID      *uint64
	GasPriceGwei *float64
	WalletPath   string
	Password     string
	PasswordFile string
	// NoWait skips receipt polling after submission.
	NoWait bool
}

// TransferRecord is the history entry written after a submission.
type TransferRecord struct {
	TxHash    string
	From      string
	To        string
	Token     string
	AmountRaw string
	GasPrice  string
	ChainID   uint64
	Status    string
}

// TransferRecorder persists submitted transfers. Recording is best-effort;
// the engine never fails a payment over it.
type TransferRecorder interface {
	RecordTransfer(rec *TransferRecord) error
	UpdateTransferStatus(txHash, status string, blockNumber uint64) error
}

// Engine runs the payment pipeline against a resolved configuration.
type Engine struct {
	cfg      *config.Config
	logger   *utils.LogsManager
	recorder TransferRecorder

	// dial and pollInterval are swappable for tests
	dial         func(rpcURL string) (ChainClient, error)
	pollInterval time.Duration
}

// NewEngine builds an engine over the given configuration.
func NewEngine(cfg *config.Config, logger *utils.LogsManager) *Engine {
	return &Engine{
		cfg:          cfg,
		logger:       logger,
		dial:         Dial,
		pollInterval: 2 * time.Second,
	}
}

// SetRecorder attaches a transfer history sink.
func (e *Engine) SetRecorder(r TransferRecorder) {
	e.recorder = r
}

// Pay executes the transfer pipeline and returns the transaction hash. Steps
// run strictly in order and fail fast; cheap input validation happens before
// wallet decryption and any network I/O.
func (e *Engine) Pay(ctx context.Context, req Request) (string, error) {
	// Resolve the network configuration (CLI > stored config)
	net, prompt := e.cfg.ResolveNetwork(config.NetworkOverrides{
		RPCURL:  req.RPCURL,
		ChainID: req.ChainID,
	})
	if prompt != nil {
		return "", &Error{
			Kind:   KindMissingConfig,
			Msg:    "network configuration is incomplete. Run: paywallet config use-network <network-name>",
			Detail: prompt,
		}
	}

	// Resolve the wallet path and require the keystore to exist
	walletPath := req.WalletPath
	if walletPath == "" {
		walletPath = e.cfg.WalletPath()
	}
	if !wallet.Exists(walletPath) {
		return "", Errorf(KindWalletNotFound, "%s", walletPath)
	}

	password, err := e.resolvePassword(walletPath, req)
	if err != nil {
		return "", err
	}

	// Validate the recipient before doing anything expensive
	if !common.IsHexAddress(req.To) {
		return "", Errorf(KindInvalidArgument, "invalid recipient address: %s", req.To)
	}
	to := common.HexToAddress(req.To)

	decimals := uint8(defaultTokenDecimals)
	if e.cfg.Payment.DefaultTokenDecimals != nil {
		decimals = *e.cfg.Payment.DefaultTokenDecimals
	}

	amount, err := HumanToRaw(req.Amount, decimals)
	if err != nil {
		return "", Errorf(KindInvalidArgument, "invalid amount '%s': %v", req.Amount, err)
	}
	e.logger.Info(fmt.Sprintf("Amount: %s (raw: %s with %d decimals)", req.Amount, amount, decimals), "pay")

	token, err := e.resolveToken(req.Token)
	if err != nil {
		return "", err
	}

	// Decrypt the wallet; a wrong password surfaces immediately, there is
	// nothing to retry against an encrypted blob.
	e.logger.Info("Decrypting wallet...", "pay")
	key, err := wallet.Decrypt(walletPath, password)
	if err != nil {
		if errors.Is(err, wallet.ErrWalletNotFound) {
			return "", WrapErr(KindWalletNotFound, walletPath, err)
		}
		return "", WrapErr(KindOther, "failed to decrypt wallet", err)
	}
	defer wallet.ZeroKey(key.PrivateKey)
	from := key.Address

	e.logger.Info(fmt.Sprintf("From: %s", from.Hex()), "pay")
	e.logger.Info(fmt.Sprintf("To: %s", to.Hex()), "pay")

	e.logger.Info(fmt.Sprintf("Connecting to %s...", net.RPCURL), "pay")
	client, err := e.dial(net.RPCURL)
	if err != nil {
		return "", WrapErr(KindNetwork, "failed to connect to RPC", err)
	}
	defer client.Close()

	// Guard against signing for one network and broadcasting to another
	liveChainID, err := client.ChainID(ctx)
	if err != nil {
		return "", WrapErr(KindNetwork, "failed to get chain ID", err)
	}
	if liveChainID.Cmp(new(big.Int).SetUint64(net.ChainID)) != 0 {
		return "", Errorf(KindInvalidConfig, "chain ID mismatch: expected %d, got %s", net.ChainID, liveChainID)
	}

	gasPrice, err := e.resolveGasPrice(ctx, client, req.GasPriceGwei)
	if err != nil {
		return "", err
	}

	signed, err := e.buildTransfer(ctx, client, liveChainID, key, to, token, amount, gasPrice)
	if err != nil {
		return "", err
	}

	if err := client.SendTransaction(ctx, signed); err != nil {
		return "", WrapErr(KindTransactionFailed, "failed to send transaction", err)
	}
	txHash := signed.Hash()
	e.logger.Info(fmt.Sprintf("Transaction sent: %s", txHash.Hex()), "pay")

	e.record(&TransferRecord{
		TxHash:    txHash.Hex(),
		From:      from.Hex(),
		To:        to.Hex(),
		Token:     tokenString(token),
		AmountRaw: amount.String(),
		GasPrice:  gasPrice.String(),
		ChainID:   net.ChainID,
		Status:    "submitted",
	})

	if !req.NoWait {
		e.logger.Info("Waiting for confirmation...", "pay")
		receipt, err := e.waitForReceipt(ctx, client, txHash)
		if err != nil {
			return "", WrapErr(KindTransactionFailed, "transaction failed", err)
		}
		if receipt.Status != types.ReceiptStatusSuccessful {
			// Mined but reverted: the transaction consumed gas
			e.updateStatus(txHash.Hex(), "reverted", receipt.BlockNumber.Uint64())
			return "", Errorf(KindTransactionFailed, "transaction reverted")
		}
		e.logger.Info(fmt.Sprintf("Confirmed in block %s", receipt.BlockNumber), "pay")
		e.updateStatus(txHash.Hex(), "confirmed", receipt.BlockNumber.Uint64())
	}

	return txHash.Hex(), nil
}

// resolvePassword resolves the wallet password: explicit string, password
// file argument, configured password file, then the OS keyring.
func (e *Engine) resolvePassword(walletPath string, req Request) (string, error) {
	if req.Password != "" {
		return req.Password, nil
	}

	if req.PasswordFile != "" {
		password, err := wallet.LoadPassword(utils.ExpandTilde(req.PasswordFile))
		if err != nil {
			return "", WrapErr(KindOther, "failed to read password file", err)
		}
		return password, nil
	}

	configured := e.cfg.PasswordPath()
	if configured != "" && wallet.Exists(configured) {
		password, err := wallet.LoadPassword(configured)
		if err != nil {
			return "", WrapErr(KindOther, "failed to read password file", err)
		}
		return password, nil
	}

	if address, err := wallet.Address(walletPath); err == nil {
		if password, err := wallet.KeyringPassword(address); err == nil {
			e.logger.Info("Using password from OS keyring", "pay")
			return password, nil
		}
	}

	return "", Errorf(KindInvalidArgument,
		"no password provided. Use --password, --password-file, or configure wallet.password_file")
}

// resolveToken picks the transfer token: explicit CLI address, configured
// default, or none for a native transfer. A malformed configured default is
// ignored, matching the lenient read of stored settings.
func (e *Engine) resolveToken(cliToken string) (*common.Address, error) {
	if cliToken != "" {
		if !common.IsHexAddress(cliToken) {
			return nil, Errorf(KindInvalidArgument, "invalid token address: %s", cliToken)
		}
		addr := common.HexToAddress(cliToken)
		return &addr, nil
	}

	if e.cfg.Payment.DefaultToken != nil && common.IsHexAddress(*e.cfg.Payment.DefaultToken) {
		addr := common.HexToAddress(*e.cfg.Payment.DefaultToken)
		return &addr, nil
	}

	return nil, nil
}

func (e *Engine) resolveGasPrice(ctx context.Context, client ChainClient, gwei *float64) (*big.Int, error) {
	if gwei != nil {
		// A negative price would flow straight into the balance math and
		// the signed transaction
		if *gwei < 0 {
			return nil, Errorf(KindInvalidArgument, "invalid gas price: %g Gwei", *gwei)
		}
		wei := GweiToWei(*gwei)
		e.logger.Info(fmt.Sprintf("Using gas price: %g Gwei", *gwei), "pay")
		return wei, nil
	}

	price, err := client.SuggestGasPrice(ctx)
	if err != nil {
		return nil, WrapErr(KindNetwork, "failed to get gas price", err)
	}
	e.logger.Info(fmt.Sprintf("Network gas price: %s Gwei", new(big.Int).Div(price, big.NewInt(1e9))), "pay")
	return price, nil
}

// buildTransfer checks balance sufficiency, then builds and signs the
// transaction. The check-then-send is not atomic with network state; a
// concurrent spend can still invalidate it, which is accepted for
// single-signer usage.
func (e *Engine) buildTransfer(
	ctx context.Context,
	client ChainClient,
	chainID *big.Int,
	key *keystore.Key,
	to common.Address,
	token *common.Address,
	amount *big.Int,
	gasPrice *big.Int,
) (*types.Transaction, error) {
	from := key.Address

	var txData *types.LegacyTx

	if token != nil {
		e.logger.Info(fmt.Sprintf("Sending %s tokens to %s...", amount, to.Hex()), "pay")

		balance, err := client.TokenBalance(ctx, *token, from)
		if err != nil {
			return nil, WrapErr(KindNetwork, "failed to get token balance", err)
		}
		if balance.Cmp(amount) < 0 {
			return nil, Errorf(KindInsufficientBalance, "token balance %s is less than amount %s", balance, amount)
		}

		data := TransferCallData(to, amount)
		gasLimit, err := client.EstimateGas(ctx, ethereum.CallMsg{
			From: from,
			To:   token,
			Data: data,
		})
		if err != nil {
			return nil, WrapErr(KindNetwork, "failed to estimate gas", err)
		}

		txData = &types.LegacyTx{
			To:       token,
			Value:    big.NewInt(0),
			Gas:      gasLimit,
			GasPrice: gasPrice,
			Data:     data,
		}
	} else {
		e.logger.Info(fmt.Sprintf("Sending %s wei to %s...", amount, to.Hex()), "pay")

		balance, err := client.BalanceAt(ctx, from)
		if err != nil {
			return nil, WrapErr(KindNetwork, "failed to get balance", err)
		}

		gasCost := new(big.Int).Mul(big.NewInt(nativeTransferGas), gasPrice)
		totalCost := new(big.Int).Add(amount, gasCost)
		if balance.Cmp(totalCost) < 0 {
			return nil, Errorf(KindInsufficientBalance, "balance %s is less than amount + gas (%s)", balance, totalCost)
		}

		txData = &types.LegacyTx{
			To:       &to,
			Value:    amount,
			Gas:      nativeTransferGas,
			GasPrice: gasPrice,
		}
	}

	nonce, err := client.PendingNonceAt(ctx, from)
	if err != nil {
		return nil, WrapErr(KindNetwork, "failed to get nonce", err)
	}
	txData.Nonce = nonce

	signed, err := types.SignTx(types.NewTx(txData), types.LatestSignerForChainID(chainID), key.PrivateKey)
	if err != nil {
		return nil, WrapErr(KindOther, "failed to sign transaction", err)
	}

	return signed, nil
}

// waitForReceipt polls for the transaction receipt. There is no engine-side
// deadline; cancellation comes from ctx or the RPC transport.
func (e *Engine) waitForReceipt(ctx context.Context, client ChainClient, txHash common.Hash) (*types.Receipt, error) {
	ticker := time.NewTicker(e.pollInterval)
	defer ticker.Stop()

	for {
		receipt, err := client.TransactionReceipt(ctx, txHash)
		if err == nil {
			return receipt, nil
		}
		if !errors.Is(err, ethereum.NotFound) {
			return nil, err
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

func (e *Engine) record(rec *TransferRecord) {
	if e.recorder == nil {
		return
	}
	if err := e.recorder.RecordTransfer(rec); err != nil {
		e.logger.Warn(fmt.Sprintf("Failed to record transfer: %v", err), "pay")
	}
}

func (e *Engine) updateStatus(txHash, status string, blockNumber uint64) {
	if e.recorder == nil {
		return
	}
	if err := e.recorder.UpdateTransferStatus(txHash, status, blockNumber); err != nil {
		e.logger.Warn(fmt.Sprintf("Failed to update transfer status: %v", err), "pay")
	}
}

func tokenString(token *common.Address) string {
	if token == nil {
		return ""
	}
	return token.Hex()
}
