package matching

import "errors"

var (
	ErrOrderNotFound           = errors.New("order not found")
	ErrInvalidQuantity         = errors.New("invalid quantity")
	ErrInvalidPrice            = errors.New("invalid price")
	ErrCannotChangeMinExecQty  = errors.New("minimum execution quantity cannot be changed")
	ErrPeakSizeOnNonIceberg    = errors.New("peak size specified for a non-iceberg order")
	ErrInvalidPeakSize         = errors.New("invalid peak size")
	ErrStopPriceOnNonStopOrder = errors.New("stop price specified for a non-stop order")
)
