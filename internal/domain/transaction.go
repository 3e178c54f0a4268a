package domain

// Action kinds recognized by the default scoring weights.
// Any other action string is carried through as an opaque kind.
const (
	ActionDeposit          = "deposit"
	ActionBorrow           = "borrow"
	ActionRepay            = "repay"
	ActionRedeemUnderlying = "redeemunderlying"
	ActionLiquidationCall  = "liquidationcall"
)

// Transaction represents one lending-protocol event attributed to a wallet.
// Corresponds to the transactions table and to one record of the raw JSON export.
type Transaction struct {
	UserWallet  string     // grouping key, opaque, case-sensitive
	Network     string     // e.g. "polygon"
	Protocol    string     // e.g. "aave_v2"
	TxHash      string     // opaque
	LogID       string     // log index within the tx, may be empty
	Timestamp   int64      // Unix timestamp in seconds
	BlockNumber int64      // 0 if unknown
	Action      string     // action kind
	ActionData  ActionData // nested action detail
}

// ActionData holds the nested action detail of a transaction.
type ActionData struct {
	Type          string // e.g. "Deposit"
	Amount        string // raw decimal text in token base units, may exceed 64 bits
	AssetSymbol   string // e.g. "USDC"
	AssetPriceUSD string // raw decimal text
	PoolID        string
	UserID        string
}
