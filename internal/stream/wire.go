package stream

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/mr-tron/base58"

	"solana-snipe-engine/internal/domain"
)

// JSON-RPC message types for the entries subscription.

type wireRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      uint64        `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params,omitempty"`
}

type wireNotification struct {
	JSONRPC string     `json:"jsonrpc"`
	Method  string     `json:"method"`
	Params  *wireParams `json:"params"`
}

type wireParams struct {
	Subscription int64      `json:"subscription"`
	Result       wireResult `json:"result"`
}

type wireResult struct {
	Slot    uint64      `json:"slot"`
	Entries []wireEntry `json:"entries"`
}

type wireEntry struct {
	Transactions []wireTransaction `json:"transactions"`
}

type wireTransaction struct {
	Signatures []string    `json:"signatures"`
	Message    wireMessage `json:"message"`
}

type wireMessage struct {
	AccountKeys  []string          `json:"accountKeys"`
	Instructions []wireInstruction `json:"instructions"`
}

type wireInstruction struct {
	ProgramIDIndex uint8   `json:"programIdIndex"`
	Accounts       []uint8 `json:"accounts"`
	Data           string  `json:"data"` // base64
}

// parseNotification converts an entries notification into a batch. Malformed
// transactions fail the whole message; a stream that ships garbage is better
// reconnected than silently filtered.
func parseNotification(raw []byte) (domain.EntryBatch, bool, error) {
	var notif wireNotification
	if err := json.Unmarshal(raw, &notif); err != nil {
		return domain.EntryBatch{}, false, fmt.Errorf("unmarshal notification: %w", err)
	}
	if notif.Method != "entriesNotification" || notif.Params == nil {
		return domain.EntryBatch{}, false, nil
	}

	batch := domain.EntryBatch{Slot: notif.Params.Result.Slot}
	for _, entry := range notif.Params.Result.Entries {
		for _, tx := range entry.Transactions {
			converted, err := convertTransaction(tx)
			if err != nil {
				return domain.EntryBatch{}, false, err
			}
			batch.Transactions = append(batch.Transactions, converted)
		}
	}
	return batch, true, nil
}

func convertTransaction(tx wireTransaction) (domain.Transaction, error) {
	for _, key := range tx.Message.AccountKeys {
		raw, err := base58.Decode(key)
		if err != nil {
			return domain.Transaction{}, fmt.Errorf("account key %q: %w", key, err)
		}
		if len(raw) != 32 {
			return domain.Transaction{}, fmt.Errorf("account key %q: decoded to %d bytes", key, len(raw))
		}
	}

	out := domain.Transaction{
		Signatures:  tx.Signatures,
		AccountKeys: tx.Message.AccountKeys,
	}
	for _, ix := range tx.Message.Instructions {
		data, err := base64.StdEncoding.DecodeString(ix.Data)
		if err != nil {
			return domain.Transaction{}, fmt.Errorf("instruction data: %w", err)
		}
		out.Instructions = append(out.Instructions, domain.Instruction{
			ProgramIDIndex: ix.ProgramIDIndex,
			Accounts:       ix.Accounts,
			Data:           data,
		})
	}
	return out, nil
}
