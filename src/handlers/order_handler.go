package handlers

import (
	"errors"
	"regexp"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"order-management/src/config"
	"order-management/src/engine"
	"order-management/src/models"
)

var symbolPattern = regexp.MustCompile(`^[A-Z]{1,10}$`)

type OrderHandler struct {
	Service         *engine.OrderManagement
	Cfg             *config.Config
	StartTime       time.Time
	OrdersReceived  atomic.Int64
	OrdersCancelled atomic.Int64
	TradesExecuted  atomic.Int64
	PriceQuotes     atomic.Int64

	latencies    []time.Duration
	latenciesMu  sync.RWMutex
	maxLatencies int
}

func NewOrderHandler(service *engine.OrderManagement, cfg *config.Config) *OrderHandler {
	maxLatencies := cfg.MetricsMaxLatencies
	if maxLatencies <= 0 {
		maxLatencies = 10000
	}

	return &OrderHandler{
		Service:      service,
		Cfg:          cfg,
		StartTime:    time.Now(),
		latencies:    make([]time.Duration, 0, maxLatencies),
		maxLatencies: maxLatencies,
	}
}

// AddOrder handles POST /orders. A duplicate order id anywhere in the
// system is a 409; everything else invalid is a 400.
func (h *OrderHandler) AddOrder(c *fiber.Ctx) error {
	var req models.AddOrderRequest

	if err := c.BodyParser(&req); err != nil {
		log.Warn().
			Err(err).
			Str("ip", c.IP()).
			Str("path", c.Path()).
			Msg("Invalid request: malformed JSON")
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Error: "Invalid request: malformed JSON",
		})
	}

	side, err := h.validateAddOrderRequest(&req)
	if err != nil {
		log.Warn().
			Err(err).
			Int64("order_id", req.OrderID).
			Str("symbol", req.Symbol).
			Str("ip", c.IP()).
			Msg("Invalid order request")
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Error: err.Error(),
		})
	}

	startTime := time.Now()
	addErr := h.Service.AddOrder(req.OrderID, req.Symbol, side, req.Amount, req.Price)
	h.recordLatency(time.Since(startTime))

	if addErr != nil {
		var dup *engine.DuplicateOrderError
		if errors.As(addErr, &dup) {
			log.Warn().
				Int64("order_id", req.OrderID).
				Str("symbol", req.Symbol).
				Str("ip", c.IP()).
				Msg("Duplicate order rejected")
			return c.Status(fiber.StatusConflict).JSON(models.ErrorResponse{
				Error: addErr.Error(),
			})
		}
		log.Error().
			Err(addErr).
			Int64("order_id", req.OrderID).
			Msg("Error adding order")
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{
			Error: "Internal server error",
		})
	}

	h.OrdersReceived.Add(1)

	log.Info().
		Int64("order_id", req.OrderID).
		Str("symbol", req.Symbol).
		Str("side", req.Side).
		Int64("amount", req.Amount).
		Int64("price", req.Price).
		Msg("Order added")

	return c.Status(fiber.StatusCreated).JSON(models.OrderResponse{
		OrderID: req.OrderID,
		Symbol:  req.Symbol,
		Side:    req.Side,
		Amount:  req.Amount,
		Price:   req.Price,
	})
}

// RemoveOrder handles DELETE /orders/:id. Removal is idempotent: a
// missing id still yields 204.
func (h *OrderHandler) RemoveOrder(c *fiber.Ctx) error {
	orderID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Error: "Invalid order id: must be an integer",
		})
	}

	h.Service.RemoveOrder(orderID)
	h.OrdersCancelled.Add(1)

	log.Info().
		Int64("order_id", orderID).
		Str("ip", c.IP()).
		Msg("Order removed")

	return c.SendStatus(fiber.StatusNoContent)
}

// GetOrder handles GET /orders/:id.
func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	orderID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Error: "Invalid order id: must be an integer",
		})
	}

	order, found := h.Service.GetOrder(orderID)
	if !found {
		return c.Status(fiber.StatusNotFound).JSON(models.ErrorResponse{
			Error: "Order not found",
		})
	}

	return c.Status(fiber.StatusOK).JSON(models.OrderResponse{
		OrderID: order.OrderID,
		Symbol:  order.Symbol,
		Side:    string(order.Side),
		Amount:  order.Amount,
		Price:   order.Price,
	})
}

// CalculatePrice handles GET /price. An unknown symbol or a drained
// side quotes 0; that is a valid answer, not an error.
func (h *OrderHandler) CalculatePrice(c *fiber.Ctx) error {
	symbol := c.Query("symbol")
	if !symbolPattern.MatchString(symbol) {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Error: "Invalid symbol: must be 1-10 uppercase letters",
		})
	}

	side, err := engine.ParseSide(c.Query("side"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Error: err.Error(),
		})
	}

	amount, err := strconv.ParseInt(c.Query("amount"), 10, 64)
	if err != nil || amount < 0 || amount > h.Cfg.MaxOrderAmount {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Error: "Invalid amount: must be an integer within bounds",
		})
	}

	price := h.Service.CalculatePrice(symbol, side, amount)
	h.PriceQuotes.Add(1)

	return c.Status(fiber.StatusOK).JSON(models.PriceResponse{Price: price})
}

// PlaceTrade handles POST /trades. Insufficient liquidity degrades to a
// partial fill; callers detect under-fill from the returned amount.
func (h *OrderHandler) PlaceTrade(c *fiber.Ctx) error {
	var req models.TradeRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Error: "Invalid request: malformed JSON",
		})
	}

	if !symbolPattern.MatchString(req.Symbol) {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Error: "Invalid symbol: must be 1-10 uppercase letters",
		})
	}

	side, err := engine.ParseSide(req.Side)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Error: err.Error(),
		})
	}

	if req.Amount < 0 || req.Amount > h.Cfg.MaxOrderAmount {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Error: "Invalid amount: must be an integer within bounds",
		})
	}

	startTime := time.Now()
	trade := h.Service.PlaceTrade(req.Symbol, side, req.Amount)
	h.recordLatency(time.Since(startTime))

	h.TradesExecuted.Add(1)

	log.Info().
		Str("trade_id", trade.TradeID).
		Str("symbol", trade.Symbol).
		Str("side", string(trade.Side)).
		Int64("requested", req.Amount).
		Int64("filled", trade.Amount).
		Int64("total_price", trade.TotalPrice).
		Int("fills", len(trade.OrderFills)).
		Msg("Trade executed")

	fills := make([]models.OrderFillInfo, 0, len(trade.OrderFills))
	for _, fill := range trade.OrderFills {
		fills = append(fills, models.OrderFillInfo{
			OrderID:      fill.OrderID,
			FilledAmount: fill.FilledAmount,
			FillPrice:    fill.FillPrice,
		})
	}

	return c.Status(fiber.StatusCreated).JSON(models.TradeResponse{
		TradeID:    trade.TradeID,
		Symbol:     trade.Symbol,
		Side:       string(trade.Side),
		Amount:     trade.Amount,
		TotalPrice: trade.TotalPrice,
		ExecutedAt: trade.ExecutedAt.Format(time.RFC3339Nano),
		OrderFills: fills,
	})
}

// GetOrderBook handles GET /orderbook/:symbol, a diagnostic view of
// both sides in price priority.
func (h *OrderHandler) GetOrderBook(c *fiber.Ctx) error {
	symbol := c.Params("symbol")
	if !symbolPattern.MatchString(symbol) {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Error: "Invalid symbol: must be 1-10 uppercase letters",
		})
	}

	buys, sells := h.Service.ListOrders(symbol)

	buyOrders := make([]models.BookOrderInfo, 0, len(buys))
	for _, o := range buys {
		buyOrders = append(buyOrders, models.BookOrderInfo{
			OrderID: o.OrderID,
			Price:   o.Price,
			Amount:  o.Amount,
		})
	}

	sellOrders := make([]models.BookOrderInfo, 0, len(sells))
	for _, o := range sells {
		sellOrders = append(sellOrders, models.BookOrderInfo{
			OrderID: o.OrderID,
			Price:   o.Price,
			Amount:  o.Amount,
		})
	}

	return c.Status(fiber.StatusOK).JSON(models.OrderBookResponse{
		Symbol:     symbol,
		BuyOrders:  buyOrders,
		SellOrders: sellOrders,
	})
}

func (h *OrderHandler) HealthCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(models.HealthResponse{
		Status:        "healthy",
		UptimeSeconds: int64(time.Since(h.StartTime).Seconds()),
		OrdersResting: h.Service.RestingOrders(),
	})
}

func (h *OrderHandler) Metrics(c *fiber.Ctx) error {
	p50, p99 := h.calculateLatencyPercentiles()

	return c.Status(fiber.StatusOK).JSON(models.MetricsResponse{
		OrdersReceived:         h.OrdersReceived.Load(),
		OrdersCancelled:        h.OrdersCancelled.Load(),
		OrdersResting:          h.Service.RestingOrders(),
		TradesExecuted:         h.TradesExecuted.Load(),
		PriceQuotes:            h.PriceQuotes.Load(),
		LatencyP50Ms:           p50,
		LatencyP99Ms:           p99,
		ThroughputOrdersPerSec: h.calculateThroughput(),
	})
}

func (h *OrderHandler) recordLatency(latency time.Duration) {
	h.latenciesMu.Lock()
	defer h.latenciesMu.Unlock()

	h.latencies = append(h.latencies, latency)

	// edge case: maintain rolling window by removing oldest measurements
	if len(h.latencies) > h.maxLatencies {
		removeCount := len(h.latencies) - h.maxLatencies
		h.latencies = h.latencies[removeCount:]
	}
}

func (h *OrderHandler) calculateLatencyPercentiles() (p50, p99 float64) {
	h.latenciesMu.RLock()
	defer h.latenciesMu.RUnlock()

	if len(h.latencies) == 0 {
		return 0, 0
	}

	latenciesCopy := make([]time.Duration, len(h.latencies))
	copy(latenciesCopy, h.latencies)

	sort.Slice(latenciesCopy, func(i, j int) bool {
		return latenciesCopy[i] < latenciesCopy[j]
	})

	p50Index := int(float64(len(latenciesCopy)) * 0.50)
	p99Index := int(float64(len(latenciesCopy)) * 0.99)

	// edge case: ensure indices are within bounds
	if p50Index >= len(latenciesCopy) {
		p50Index = len(latenciesCopy) - 1
	}
	if p99Index >= len(latenciesCopy) {
		p99Index = len(latenciesCopy) - 1
	}

	p50 = float64(latenciesCopy[p50Index].Nanoseconds()) / 1e6
	p99 = float64(latenciesCopy[p99Index].Nanoseconds()) / 1e6

	return p50, p99
}

func (h *OrderHandler) calculateThroughput() float64 {
	uptime := time.Since(h.StartTime).Seconds()
	if uptime <= 0 {
		return 0
	}
	return float64(h.OrdersReceived.Load()) / uptime
}

func (h *OrderHandler) validateAddOrderRequest(req *models.AddOrderRequest) (engine.Side, error) {
	if req.OrderID <= 0 {
		return "", &ValidationError{Message: "Invalid order: order_id must be positive"}
	}

	if !symbolPattern.MatchString(req.Symbol) {
		return "", &ValidationError{Message: "Invalid order: symbol must be 1-10 uppercase letters"}
	}

	side, err := engine.ParseSide(req.Side)
	if err != nil {
		return "", err
	}

	if req.Amount <= 0 || req.Amount > h.Cfg.MaxOrderAmount {
		return "", &ValidationError{Message: "Invalid order: amount must be positive and within bounds"}
	}

	if req.Price <= 0 || req.Price > h.Cfg.MaxOrderPrice {
		return "", &ValidationError{Message: "Invalid order: price must be positive and within bounds"}
	}

	return side, nil
}

type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
