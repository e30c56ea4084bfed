package logging

// Standardized field names for structured logging.
const (
	FieldOwner         = "owner"
	FieldTransactionID = "transaction_id"
	FieldCategory      = "category"
	FieldKind          = "kind"
	FieldAmount        = "amount"
	FieldMonth         = "month"
	FieldYear          = "year"
	FieldTier          = "tier"
	FieldOperation     = "operation"
	FieldModel         = "model"
	FieldCount         = "count"
)
