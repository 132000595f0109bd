package core

// Rejection reasons carried on OrderRejected events. Validation collects
// every failed check, not just the first.
const (
	ReasonUnknownSecurity    = "UNKNOWN_SECURITY"
	ReasonUnknownBroker      = "UNKNOWN_BROKER"
	ReasonUnknownShareholder = "UNKNOWN_SHAREHOLDER"
	ReasonDuplicateRequestID = "DUPLICATE_REQUEST_ID"
	ReasonOrderNotFound      = "ORDER_NOT_FOUND"

	ReasonInvalidOrderID         = "INVALID_ORDER_ID"
	ReasonInvalidQuantity        = "INVALID_QUANTITY"
	ReasonInvalidPrice           = "INVALID_PRICE"
	ReasonQuantityNotLotMultiple = "QUANTITY_NOT_MULTIPLE_OF_LOT_SIZE"
	ReasonPriceNotTickMultiple   = "PRICE_NOT_MULTIPLE_OF_TICK_SIZE"

	ReasonInvalidMinExecQty      = "INVALID_MINIMUM_EXECUTION_QUANTITY"
	ReasonCannotChangeMinExecQty = "CANNOT_CHANGE_MINIMUM_EXECUTION_QUANTITY"
	ReasonInvalidPeakSize        = "INVALID_PEAK_SIZE"
	ReasonInvalidStopPrice       = "INVALID_STOP_PRICE"
	ReasonStopOrderIsIceberg     = "STOP_ORDER_CANNOT_BE_ICEBERG"
	ReasonStopOrderHasMinExecQty = "STOP_ORDER_CANNOT_HAVE_MINIMUM_EXECUTION_QUANTITY"

	ReasonNotEnoughCredit         = "NOT_ENOUGH_CREDIT"
	ReasonNotEnoughPositions      = "NOT_ENOUGH_POSITIONS"
	ReasonNotEnoughTradedQuantity = "NOT_ENOUGH_TRADED_QUANTITY"
	ReasonStopOrderInAuction      = "STOP_ORDERS_CANNOT_ENTER_AUCTIONS"
	ReasonMinExecQtyInAuction     = "ORDERS_IN_AUCTION_CANNOT_HAVE_MINIMUM_EXECUTION_QUANTITY"
)
