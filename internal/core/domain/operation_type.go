package domain

// Operation type codes known to the engine.
const (
	OpFxBuy          = "FX_BUY"
	OpFxSell         = "FX_SELL"
	OpPayment        = "PAYMENT"
	OpReceipt        = "RECEIPT"
	OpTransfer       = "TRANSFER"
	OpAdjustment     = "ADJUSTMENT"
	OpReversal       = "REVERSAL"
	OpChequeBuy      = "CHEQUE_BUY"
	OpChequeAccredit = "CHEQUE_ACCREDIT"
	OpChequeReject   = "CHEQUE_REJECT"
	OpChequeExpire   = "CHEQUE_EXPIRE"
	OpChequeCancel   = "CHEQUE_CANCEL"
)

// OperationType is reference data describing what an operation of that type may do.
type OperationType struct {
	Code        string `json:"code" yaml:"code"`
	Description string `json:"description" yaml:"description"`
	// RequiresRate marks cross-currency types: they need an exchange rate and may mix currencies.
	RequiresRate bool `json:"requiresRate" yaml:"requires_rate"`
	// Extension is the only extension kind the type accepts; ExtensionNone accepts none.
	Extension         ExtensionKind `json:"extension" yaml:"extension"`
	ForbidsCash       bool          `json:"forbidsCash" yaml:"forbids_cash"`
	ForbidsCommission bool          `json:"forbidsCommission" yaml:"forbids_commission"`
	Reversible        bool          `json:"reversible" yaml:"reversible"`
}

// DefaultOperationTypes returns the operation types every ledger is seeded with.
func DefaultOperationTypes() []OperationType {
	return []OperationType{
		{Code: OpFxBuy, Description: "Compra de divisas", RequiresRate: true, Extension: ExtensionFx, Reversible: true},
		{Code: OpFxSell, Description: "Venta de divisas", RequiresRate: true, Extension: ExtensionFx, Reversible: true},
		{Code: OpPayment, Description: "Pago", Extension: ExtensionPayment, Reversible: true},
		{Code: OpReceipt, Description: "Cobro", Extension: ExtensionReceipt, Reversible: true},
		{Code: OpTransfer, Description: "Transferencia", Reversible: true},
		{Code: OpAdjustment, Description: "Ajuste", Reversible: true},
		{Code: OpReversal, Description: "Reversión"},
		{Code: OpChequeBuy, Description: "Compra de cheque"},
		{Code: OpChequeAccredit, Description: "Acreditación de cheque"},
		{Code: OpChequeReject, Description: "Rechazo de cheque"},
		{Code: OpChequeExpire, Description: "Vencimiento de cheque"},
		{Code: OpChequeCancel, Description: "Anulación de cheque", ForbidsCash: true, ForbidsCommission: true},
	}
}
