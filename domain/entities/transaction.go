package entities

import "time"

// Ledger reasons used by the engine
const (
	ReasonTicketPurchase  = "ticket purchase"
	ReasonLotteryWin      = "lottery win"
	ReasonAdminAdjustment = "Admin adjustment"
	ReasonAdminReset      = "Admin reset"
	ReasonAdminBonus      = "Admin bonus"
	ReasonFirstPlacePrize = "First place prize"
)

// Transaction is one immutable entry in a member's ledger.
// Amount is the requested delta; Applied is what actually reached the balance
// after the zero floor. They differ only when the floor clamped the change.
type Transaction struct {
	Amount    int64     `json:"amount"`
	Applied   int64     `json:"applied"`
	Reason    string    `json:"reason"`
	Timestamp time.Time `json:"timestamp"`
}

// IsPositive returns true if the requested amount is positive
func (t Transaction) IsPositive() bool {
	return t.Amount > 0
}

// WasClamped returns true if the zero floor or the amount ceiling reduced the effect of the request
func (t Transaction) WasClamped() bool {
	return t.Amount != t.Applied
}

// ReplayBalance folds the applied deltas onto an opening balance
func ReplayBalance(opening int64, txs []Transaction) int64 {
	balance := opening
	for _, tx := range txs {
		balance += tx.Applied
	}
	return balance
}
