package domain

// Instruction is one compiled instruction inside a transaction message.
// Account references are indices into the transaction's account key list.
type Instruction struct {
	ProgramIDIndex uint8
	Accounts       []uint8
	Data           []byte
}

// Transaction is the scan-side view of a ledger transaction: signatures,
// the ordered account key list (base58) and the compiled instructions.
type Transaction struct {
	Signatures   []string
	AccountKeys  []string
	Instructions []Instruction
}

// ProgramID resolves the program account of an instruction.
// Returns "" if the index is out of range.
func (t *Transaction) ProgramID(ix Instruction) string {
	if int(ix.ProgramIDIndex) >= len(t.AccountKeys) {
		return ""
	}
	return t.AccountKeys[ix.ProgramIDIndex]
}

// HasAccount reports whether the transaction references the given account key.
func (t *Transaction) HasAccount(key string) bool {
	for _, k := range t.AccountKeys {
		if k == key {
			return true
		}
	}
	return false
}

// EntryBatch is the set of transactions observed in one slot.
type EntryBatch struct {
	Slot         uint64
	Transactions []Transaction
}
