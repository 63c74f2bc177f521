package executor

import "github.com/gagliardetto/solana-go"

// Pump protocol program and account addresses.
var (
	// PumpProgramID is the bonding curve program.
	PumpProgramID = solana.MustPublicKeyFromBase58("6EF8rrecthR5Dkzon8Nwu78hRvfCKubJ14M5uBEwF6P")
	// ProxyProgramID fronts the pump program; all trade instructions are
	// addressed to it.
	ProxyProgramID = solana.MustPublicKeyFromBase58("AmXoSVCLjsfKrwCUqvkMFXYcDzZ4FeoMYs7SAhGyfMGy")
	// GlobalAccount is the pump program's global configuration account.
	GlobalAccount = solana.MustPublicKeyFromBase58("4wTV1YmiEkRvAtNtsSGPtUrqRYQMe5SKy2uB4Jjaxnjf")
	// FeeRecipient collects protocol fees.
	FeeRecipient = solana.MustPublicKeyFromBase58("62qc2CNXwrYqQScmEdiZFFAnJR262PxWEuNQtxfafNgV")
	// EventAuthority is the pump program's event CPI authority.
	EventAuthority = solana.MustPublicKeyFromBase58("Ce6TQqeHC9p8KetsN6JsjHK7UTZk7nasjjnr7XxXp9F1")
)

// Proxy instruction selectors.
var (
	buySelector  = [8]byte{82, 225, 119, 231, 78, 29, 45, 70}
	sellSelector = [8]byte{83, 225, 119, 231, 78, 29, 45, 70}
	ataSelector  = [8]byte{22, 51, 53, 97, 247, 184, 54, 78}
)

var bondingCurveSeed = []byte("bonding-curve")

// bondingCurveAddress derives the curve PDA for a mint.
func bondingCurveAddress(mint solana.PublicKey) (solana.PublicKey, error) {
	addr, _, err := solana.FindProgramAddress([][]byte{bondingCurveSeed, mint[:]}, PumpProgramID)
	return addr, err
}

// tradeAccounts holds every derived address a buy or sell touches.
type tradeAccounts struct {
	bondingCurve           solana.PublicKey
	associatedBondingCurve solana.PublicKey
	associatedUser         solana.PublicKey
}

func deriveTradeAccounts(owner, mint solana.PublicKey) (tradeAccounts, error) {
	curve, err := bondingCurveAddress(mint)
	if err != nil {
		return tradeAccounts{}, err
	}
	curveATA, _, err := solana.FindAssociatedTokenAddress(curve, mint)
	if err != nil {
		return tradeAccounts{}, err
	}
	userATA, _, err := solana.FindAssociatedTokenAddress(owner, mint)
	if err != nil {
		return tradeAccounts{}, err
	}
	return tradeAccounts{
		bondingCurve:           curve,
		associatedBondingCurve: curveATA,
		associatedUser:         userATA,
	}, nil
}

// buyAccountMetas is the buy instruction account table. Order matters; the
// proxy program forwards it to the pump program verbatim.
func buyAccountMetas(owner, mint solana.PublicKey, accts tradeAccounts) solana.AccountMetaSlice {
	return solana.AccountMetaSlice{
		solana.NewAccountMeta(GlobalAccount, false, false),
		solana.NewAccountMeta(FeeRecipient, true, false),
		solana.NewAccountMeta(mint, false, false),
		solana.NewAccountMeta(accts.bondingCurve, true, false),
		solana.NewAccountMeta(accts.associatedBondingCurve, true, false),
		solana.NewAccountMeta(accts.associatedUser, true, false),
		solana.NewAccountMeta(owner, true, true),
		solana.NewAccountMeta(solana.SystemProgramID, false, false),
		solana.NewAccountMeta(solana.TokenProgramID, false, false),
		solana.NewAccountMeta(solana.SysVarRentPubkey, false, false),
		solana.NewAccountMeta(EventAuthority, false, false),
		solana.NewAccountMeta(PumpProgramID, false, false),
	}
}

// sellAccountMetas is the sell instruction account table. It differs from
// the buy table in one slot: the associated token program replaces the rent
// sysvar, and it sits before the token program.
func sellAccountMetas(owner, mint solana.PublicKey, accts tradeAccounts) solana.AccountMetaSlice {
	return solana.AccountMetaSlice{
		solana.NewAccountMeta(GlobalAccount, false, false),
		solana.NewAccountMeta(FeeRecipient, true, false),
		solana.NewAccountMeta(mint, false, false),
		solana.NewAccountMeta(accts.bondingCurve, true, false),
		solana.NewAccountMeta(accts.associatedBondingCurve, true, false),
		solana.NewAccountMeta(accts.associatedUser, true, false),
		solana.NewAccountMeta(owner, true, true),
		solana.NewAccountMeta(solana.SystemProgramID, false, false),
		solana.NewAccountMeta(solana.SPLAssociatedTokenAccountProgramID, false, false),
		solana.NewAccountMeta(solana.TokenProgramID, false, false),
		solana.NewAccountMeta(EventAuthority, false, false),
		solana.NewAccountMeta(PumpProgramID, false, false),
	}
}

// ataAccountMetas is the account table for the proxy's create-associated-
// token-account instruction.
func ataAccountMetas(owner, mint solana.PublicKey, accts tradeAccounts) solana.AccountMetaSlice {
	return solana.AccountMetaSlice{
		solana.NewAccountMeta(owner, true, true),
		solana.NewAccountMeta(accts.associatedUser, true, false),
		solana.NewAccountMeta(mint, false, false),
		solana.NewAccountMeta(solana.SystemProgramID, false, false),
		solana.NewAccountMeta(solana.TokenProgramID, false, false),
		solana.NewAccountMeta(solana.SPLAssociatedTokenAccountProgramID, false, false),
	}
}
