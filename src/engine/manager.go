package engine

import (
	"sync"
)

// bookEntry pairs a book with the mutex that serializes every operation
// against it. Holding mu across a whole operation is what makes a trade
// atomic from snapshot to final mutation.
type bookEntry struct {
	mu   sync.Mutex
	book *OrderBook
}

// OrderManagement routes operations to per-symbol order books, enforces
// system-wide order id uniqueness and keeps a cross-symbol id index for
// O(1) lookup.
//
// Order state has a single source of truth: the owning book. The facade
// only maps ids to symbols, so a trade's reconciliation is limited to
// dropping consumed ids; amounts are never double-tracked.
//
// Locking: the registry mutex guards the two maps only. A symbol's
// entry mutex is held for the duration of each operation on that book.
// The registry mutex may be acquired while holding an entry mutex,
// never the other way around.
type OrderManagement struct {
	mu      sync.RWMutex
	books   map[string]*bookEntry
	symbols map[int64]string // orderID -> owning symbol
}

func NewOrderManagement() *OrderManagement {
	return &OrderManagement{
		books:   make(map[string]*bookEntry),
		symbols: make(map[int64]string),
	}
}

func (om *OrderManagement) getOrCreateEntry(symbol string) *bookEntry {
	om.mu.RLock()
	if entry, exists := om.books[symbol]; exists {
		om.mu.RUnlock()
		return entry
	}
	om.mu.RUnlock()

	om.mu.Lock()
	defer om.mu.Unlock()

	// edge case: double-check after acquiring write lock
	if entry, exists := om.books[symbol]; exists {
		return entry
	}

	entry := &bookEntry{book: NewOrderBook(symbol)}
	om.books[symbol] = entry
	return entry
}

func (om *OrderManagement) lookupEntry(symbol string) *bookEntry {
	om.mu.RLock()
	defer om.mu.RUnlock()
	return om.books[symbol]
}

// AddOrder inserts a new resting order. A duplicate id anywhere in the
// system is rejected with *DuplicateOrderError before any state is
// touched; otherwise the symbol's book is created on demand and both
// the book and the id index gain the order atomically.
func (om *OrderManagement) AddOrder(orderID int64, symbol string, side Side, amount, price int64) error {
	// edge case: reject a known duplicate before allocating a book for
	// an unseen symbol; the check under the entry lock below stays the
	// authoritative one.
	om.mu.RLock()
	_, exists := om.symbols[orderID]
	om.mu.RUnlock()
	if exists {
		return &DuplicateOrderError{OrderID: orderID}
	}

	entry := om.getOrCreateEntry(symbol)

	entry.mu.Lock()
	defer entry.mu.Unlock()

	om.mu.Lock()
	if _, exists := om.symbols[orderID]; exists {
		om.mu.Unlock()
		return &DuplicateOrderError{OrderID: orderID}
	}
	om.symbols[orderID] = symbol
	om.mu.Unlock()

	entry.book.Add(&Order{
		OrderID: orderID,
		Symbol:  symbol,
		Side:    side,
		Amount:  amount,
		Price:   price,
	})
	return nil
}

// RemoveOrder cancels a resting order. Removing an unknown id is a
// defined no-op, not an error, so client retries stay idempotent.
//
// The symbol read and the entry lock are not one critical section: the
// order can be consumed by a trade, its id freed and re-added under a
// different symbol before the entry lock lands. The index entry is
// therefore dropped only when this call actually removed the order
// from the book it locked; a miss means the id we were asked to cancel
// no longer names that order, and the index must stay untouched.
func (om *OrderManagement) RemoveOrder(orderID int64) {
	om.mu.RLock()
	symbol, exists := om.symbols[orderID]
	if !exists {
		om.mu.RUnlock()
		return
	}
	entry := om.books[symbol]
	om.mu.RUnlock()

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if entry.book.Remove(orderID) == nil {
		return
	}

	om.mu.Lock()
	delete(om.symbols, orderID)
	om.mu.Unlock()
}

// CalculatePrice quotes the total cost of trading amount units against
// the given side, best price first. Pure with respect to book state.
// An unseen symbol quotes 0 without allocating a book.
func (om *OrderManagement) CalculatePrice(symbol string, side Side, amount int64) int64 {
	entry := om.lookupEntry(symbol)
	if entry == nil {
		return 0
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	return CalculatePrice(entry.book.OrdersFor(side), amount)
}

// PlaceTrade executes a trade against the symbol's book. The symbol
// lock is held from snapshot to final mutation, then the ids of fully
// consumed orders are dropped from the cross-symbol index. Partially
// consumed orders need no index work: their amount lives in the book.
func (om *OrderManagement) PlaceTrade(symbol string, side Side, amount int64) *Trade {
	entry := om.getOrCreateEntry(symbol)

	entry.mu.Lock()
	defer entry.mu.Unlock()

	trade := ExecuteTrade(entry.book, side, amount)

	om.mu.Lock()
	for _, fill := range trade.OrderFills {
		if entry.book.Get(fill.OrderID) == nil {
			delete(om.symbols, fill.OrderID)
		}
	}
	om.mu.Unlock()

	return trade
}

// ListOrders returns both sides of a symbol's book in price priority,
// as value snapshots safe to serialize after the lock is released. An
// unseen symbol yields two empty slices.
func (om *OrderManagement) ListOrders(symbol string) (buys, sells []Order) {
	entry := om.lookupEntry(symbol)
	if entry == nil {
		return []Order{}, []Order{}
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	return entry.book.Snapshot(SideBuy), entry.book.Snapshot(SideSell)
}

// GetOrder looks up a resting order by id across all symbols.
func (om *OrderManagement) GetOrder(orderID int64) (Order, bool) {
	om.mu.RLock()
	symbol, exists := om.symbols[orderID]
	if !exists {
		om.mu.RUnlock()
		return Order{}, false
	}
	entry := om.books[symbol]
	om.mu.RUnlock()

	entry.mu.Lock()
	defer entry.mu.Unlock()

	order := entry.book.Get(orderID)
	if order == nil {
		return Order{}, false
	}
	return *order, true
}

// RestingOrders counts resting orders across every book.
func (om *OrderManagement) RestingOrders() int64 {
	om.mu.RLock()
	entries := make([]*bookEntry, 0, len(om.books))
	for _, entry := range om.books {
		entries = append(entries, entry)
	}
	om.mu.RUnlock()

	var total int64
	for _, entry := range entries {
		entry.mu.Lock()
		total += int64(entry.book.Len())
		entry.mu.Unlock()
	}
	return total
}
