package models

type AddOrderRequest struct {
	OrderID int64  `json:"order_id"`
	Symbol  string `json:"symbol"`
	Side    string `json:"side"`
	Amount  int64  `json:"amount"`
	Price   int64  `json:"price"` // price per share in cents
}

type OrderResponse struct {
	OrderID int64  `json:"order_id"`
	Symbol  string `json:"symbol"`
	Side    string `json:"side"`
	Amount  int64  `json:"amount"`
	Price   int64  `json:"price"`
}

type PriceResponse struct {
	Price int64 `json:"price"` // total price in cents
}

type TradeRequest struct {
	Symbol string `json:"symbol"`
	Side   string `json:"side"`
	Amount int64  `json:"amount"`
}

type OrderFillInfo struct {
	OrderID      int64 `json:"order_id"`
	FilledAmount int64 `json:"filled_amount"`
	FillPrice    int64 `json:"fill_price"`
}

type TradeResponse struct {
	TradeID    string          `json:"trade_id"`
	Symbol     string          `json:"symbol"`
	Side       string          `json:"side"`
	Amount     int64           `json:"amount"`
	TotalPrice int64           `json:"total_price"`
	ExecutedAt string          `json:"executed_at"` // RFC 3339 / ISO-8601
	OrderFills []OrderFillInfo `json:"order_fills"`
}

type BookOrderInfo struct {
	OrderID int64 `json:"order_id"`
	Price   int64 `json:"price"`
	Amount  int64 `json:"amount"`
}

type OrderBookResponse struct {
	Symbol     string          `json:"symbol"`
	BuyOrders  []BookOrderInfo `json:"buy_orders"`  // ascending by price
	SellOrders []BookOrderInfo `json:"sell_orders"` // descending by price
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type HealthResponse struct {
	Status        string `json:"status"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	OrdersResting int64  `json:"orders_resting"`
}

type MetricsResponse struct {
	OrdersReceived         int64   `json:"orders_received"`
	OrdersCancelled        int64   `json:"orders_cancelled"`
	OrdersResting          int64   `json:"orders_resting"`
	TradesExecuted         int64   `json:"trades_executed"`
	PriceQuotes            int64   `json:"price_quotes"`
	LatencyP50Ms           float64 `json:"latency_p50_ms"`
	LatencyP99Ms           float64 `json:"latency_p99_ms"`
	ThroughputOrdersPerSec float64 `json:"throughput_orders_per_sec"`
}
