// Package executor assembles, signs, and submits trade transactions through
// the proxy program.
package executor

import (
	"context"
	"encoding/binary"
	"fmt"
	"log"

	"github.com/gagliardetto/solana-go"
	computebudget "github.com/gagliardetto/solana-go/programs/compute-budget"
	"github.com/gagliardetto/solana-go/rpc"

	"solana-snipe-engine/internal/observability"
)

// Priority fee settings applied to every submitted transaction.
const (
	computeUnitPrice uint64 = 200_000 // micro-lamports per compute unit
	computeUnitLimit uint32 = 200_000
)

// SubmitClient is the RPC surface the executor needs. *rpc.Client satisfies
// it.
type SubmitClient interface {
	SendTransactionWithOpts(ctx context.Context, tx *solana.Transaction, opts rpc.TransactionOpts) (solana.Signature, error)
	GetLatestBlockhash(ctx context.Context, commitment rpc.CommitmentType) (*rpc.GetLatestBlockhashResult, error)
}

// Wallet signs transactions on behalf of the trading key.
type Wallet interface {
	PublicKey() solana.PublicKey
	Sign(tx *solana.Transaction) error
}

// Client builds and submits buy and sell transactions. It implements the
// engine's Trader contract.
type Client struct {
	rpc     SubmitClient
	wallet  Wallet
	metrics *observability.Metrics
	log     *log.Logger
}

// NewClient returns a transaction executor backed by the given RPC client
// and wallet.
func NewClient(rpcClient SubmitClient, wallet Wallet, metrics *observability.Metrics, logger *log.Logger) *Client {
	if logger == nil {
		logger = log.New(log.Writer(), "[executor] ", log.LstdFlags)
	}
	return &Client{rpc: rpcClient, wallet: wallet, metrics: metrics, log: logger}
}

// Buy submits an entry for tokenAmount base units spending at most
// maxCostLamports. The transaction carries a create-ATA instruction ahead of
// the buy so a first purchase of a fresh mint cannot fail on a missing token
// account. A nil anchor causes a direct blockhash fetch.
func (c *Client) Buy(ctx context.Context, mint solana.PublicKey, tokenAmount, maxCostLamports uint64, anchor *solana.Hash) (solana.Signature, error) {
	owner := c.wallet.PublicKey()
	accts, err := deriveTradeAccounts(owner, mint)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("derive trade accounts: %w", err)
	}

	ataData := make([]byte, 0, 9)
	ataData = append(ataData, ataSelector[:]...)
	ataData = append(ataData, 0)

	instructions := []solana.Instruction{
		solana.NewInstruction(ProxyProgramID, ataAccountMetas(owner, mint, accts), ataData),
		solana.NewInstruction(ProxyProgramID, buyAccountMetas(owner, mint, accts), tradeData(buySelector, tokenAmount, maxCostLamports)),
	}

	return c.submit(ctx, instructions, anchor)
}

// Sell submits an exit for tokenAmount base units accepting no less than
// minReceiveLamports.
func (c *Client) Sell(ctx context.Context, mint solana.PublicKey, tokenAmount, minReceiveLamports uint64, anchor *solana.Hash) (solana.Signature, error) {
	owner := c.wallet.PublicKey()
	accts, err := deriveTradeAccounts(owner, mint)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("derive trade accounts: %w", err)
	}

	instructions := []solana.Instruction{
		solana.NewInstruction(ProxyProgramID, sellAccountMetas(owner, mint, accts), tradeData(sellSelector, tokenAmount, minReceiveLamports)),
	}

	return c.submit(ctx, instructions, anchor)
}

// submit prefixes the priority fee instructions, anchors, signs, and sends.
func (c *Client) submit(ctx context.Context, instructions []solana.Instruction, anchor *solana.Hash) (solana.Signature, error) {
	cuPrice, err := computebudget.NewSetComputeUnitPriceInstruction(computeUnitPrice).ValidateAndBuild()
	if err != nil {
		return solana.Signature{}, fmt.Errorf("build compute unit price: %w", err)
	}
	cuLimit, err := computebudget.NewSetComputeUnitLimitInstruction(computeUnitLimit).ValidateAndBuild()
	if err != nil {
		return solana.Signature{}, fmt.Errorf("build compute unit limit: %w", err)
	}
	instructions = append([]solana.Instruction{cuPrice, cuLimit}, instructions...)

	var blockhash solana.Hash
	if anchor != nil {
		blockhash = *anchor
	} else {
		out, err := c.rpc.GetLatestBlockhash(ctx, rpc.CommitmentConfirmed)
		if err != nil {
			return solana.Signature{}, fmt.Errorf("get latest blockhash: %w", err)
		}
		c.metrics.BlockhashRefreshes.Inc()
		blockhash = out.Value.Blockhash
	}

	tx, err := solana.NewTransaction(instructions, blockhash, solana.TransactionPayer(c.wallet.PublicKey()))
	if err != nil {
		return solana.Signature{}, fmt.Errorf("build transaction: %w", err)
	}
	if err := c.wallet.Sign(tx); err != nil {
		return solana.Signature{}, fmt.Errorf("sign transaction: %w", err)
	}

	// Preflight is skipped and retries disabled: the entry either lands in
	// the next few slots or is worthless.
	maxRetries := uint(0)
	sig, err := c.rpc.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{
		SkipPreflight:       true,
		MaxRetries:          &maxRetries,
		PreflightCommitment: rpc.CommitmentProcessed,
	})
	if err != nil {
		return solana.Signature{}, fmt.Errorf("send transaction: %w", err)
	}
	return sig, nil
}

// tradeData encodes a proxy trade payload: selector, token amount, lamport
// bound, all little-endian.
func tradeData(selector [8]byte, tokenAmount, lamports uint64) []byte {
	data := make([]byte, 0, 24)
	data = append(data, selector[:]...)
	data = binary.LittleEndian.AppendUint64(data, tokenAmount)
	data = binary.LittleEndian.AppendUint64(data, lamports)
	return data
}
