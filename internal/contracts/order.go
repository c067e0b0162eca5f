package contracts

import "time"

// Order is a share order created from a target-percent request
// ⭐ SSOT: Rebalancer → TradingEngine 주문 정보 전달
type Order struct {
	ID           string    `json:"id"`
	Symbol       string    `json:"symbol"`
	Side         OrderSide `json:"side"` // BUY or SELL
	Qty          int64     `json:"qty"`
	Price        float64   `json:"price"` // reference price at submission
	TargetWeight float64   `json:"target_weight"`
	OrderType    OrderType `json:"order_type"`
	Status       Status    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// OrderSide represents buy or sell
type OrderSide string

const (
	OrderSideBuy  OrderSide = "BUY"
	OrderSideSell OrderSide = "SELL"
)

// OrderType is always MARKET: the simulated engine fills at the quote
type OrderType string

const OrderTypeMarket OrderType = "MARKET"

// Status represents order status
type Status string

const (
	StatusSubmitted Status = "SUBMITTED"
	StatusFilled    Status = "FILLED"
)

// IsOpen checks if the order is still waiting for a fill
func (o *Order) IsOpen() bool {
	return o.Status == StatusSubmitted
}

// IsFilled checks if the order is filled
func (o *Order) IsFilled() bool {
	return o.Status == StatusFilled
}

// SignedQty returns qty with sells negative
func (o *Order) SignedQty() int64 {
	if o.Side == OrderSideSell {
		return -o.Qty
	}
	return o.Qty
}
