package domain

type TransactionType string

const (
	TxDeposit  TransactionType = "DEPOSIT"
	TxWithdraw TransactionType = "WITHDRAW"
	// TxValuation is a legacy marker that carries no amount.
	TxValuation TransactionType = "VALUATION"
)

// ValidTransactionTypes is the canonical set of accepted transaction type strings.
var ValidTransactionTypes = map[string]bool{
	"DEPOSIT": true, "WITHDRAW": true, "VALUATION": true,
}

func (t TransactionType) Valid() bool {
	return ValidTransactionTypes[string(t)]
}

// EventKind distinguishes rows in the merged transaction/valuation list.
type EventKind string

const (
	EventTransaction EventKind = "transaction"
	EventValuation   EventKind = "valuation"
)
