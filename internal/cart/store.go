// Package cart implements the device-scoped shopping cart: an ordered list of
// lines keyed by product identity, persisted to the local store on every
// mutation, with quantities clamped to the latest resolved stock. Consumers
// learn about changes only through the subscriber callback and re-reads;
// there is no shared mutable reference to the line list.
package cart

import (
	"sync"

	"go.uber.org/zap"

	"github.com/david-git-2/Wholesale-UK/internal/domain"
	"github.com/david-git-2/Wholesale-UK/internal/pricing"
	"github.com/david-git-2/Wholesale-UK/internal/repository"
	"github.com/david-git-2/Wholesale-UK/pkg/errors"
)

// StockResolver is the slice of the stock index the cart needs
type StockResolver interface {
	StockForKey(key string) int
	BestStockForItem(line domain.CartLine) int
}

// Store is the cart for one storefront
type Store struct {
	repo   repository.Store
	key    string
	stock  StockResolver
	engine *pricing.Engine
	logger *zap.Logger

	mu    sync.Mutex
	lines []domain.CartLine
	subs  []func()
}

// NewStore creates a cart store and loads any persisted lines. Corrupt or
// non-array persisted state resets to an empty cart.
func NewStore(repo repository.Store, key string, stock StockResolver, engine *pricing.Engine, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{
		repo:   repo,
		key:    key,
		stock:  stock,
		engine: engine,
		logger: logger,
	}
	s.load()
	return s
}

// Subscribe registers a change callback. It fires after every persisted
// mutation, carries no payload, and runs on the mutating goroutine.
func (s *Store) Subscribe(fn func()) {
	s.mu.Lock()
	s.subs = append(s.subs, fn)
	s.mu.Unlock()
}

func (s *Store) load() {
	var lines []domain.CartLine
	if !s.repo.Get(s.key, &lines) {
		lines = nil
	}
	for i := range lines {
		domain.SanitizeCartLine(&lines[i])
	}
	s.mu.Lock()
	s.lines = lines
	s.mu.Unlock()
}

// save persists under the mutation lock; notify fires afterwards, outside it
func (s *Store) save(notify bool) error {
	if err := s.repo.Put(s.key, s.lines); err != nil {
		s.logger.Error("Failed to persist cart", zap.Error(err))
		return err
	}
	if !notify {
		return nil
	}
	subs := make([]func(), len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()
	for _, fn := range subs {
		fn()
	}
	s.mu.Lock()
	return nil
}

func (s *Store) find(id string) *domain.CartLine {
	for i := range s.lines {
		if s.lines[i].ID == id {
			return &s.lines[i]
		}
	}
	return nil
}

// Add puts one step of the product in the cart (a single unit, or one inner
// case for case-sold products), merging into an existing line for the same
// identity. Stock is re-resolved first; a product with no stock is rejected,
// and an existing line already at the ceiling is rejected with the limit
// message.
func (s *Store) Add(p domain.Product) error {
	id := p.Key()
	if id == "" {
		return &errors.ErrValidation{Message: "product needs an id, sku or name"}
	}

	stockQty := s.stock.StockForKey(p.ID)
	if stockQty == 0 {
		stockQty = s.stock.StockForKey(p.SKU)
	}
	if stockQty == 0 {
		stockQty = s.stock.StockForKey(p.Name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing := s.find(id); existing != nil {
		existing.StockQuantity = stockQty
		if existing.StockQuantity <= 0 {
			return &errors.ErrOutOfStock{Name: existing.Name}
		}
		if existing.Qty >= existing.StockQuantity {
			return &errors.ErrStockLimit{Max: existing.StockQuantity}
		}
		existing.Qty += existing.Step()
		existing.ClampQtyToStock()
		return s.save(true)
	}

	line := domain.CartLine{
		ID:                   id,
		SKU:                  p.SKU,
		Name:                 p.Name,
		Brand:                p.Brand,
		ImageURL:             p.ImageURL,
		Price:                p.Price,
		BoxPrice:             p.BoxPrice,
		PolyPrice:            p.PolyPrice,
		Commission:           p.Commission,
		CommissionPercentage: p.CommissionPercentage,
		InnerCase:            p.InnerCase,
		Packaging:            domain.PackagingBox,
		StockQuantity:        stockQty,
	}
	if line.StockQuantity <= 0 {
		return &errors.ErrOutOfStock{Name: line.Name}
	}
	line.Qty = line.Step()
	line.ClampQtyToStock()
	s.lines = append(s.lines, line)
	return s.save(true)
}

// Remove deletes the line with the given identity
func (s *Store) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removeLocked(id)
}

func (s *Store) removeLocked(id string) error {
	kept := s.lines[:0]
	for _, l := range s.lines {
		if l.ID != id {
			kept = append(kept, l)
		}
	}
	s.lines = kept
	return s.save(true)
}

// ChangeQuantity applies a +/- delta, in line steps, to a line's quantity.
// Stock is refreshed first; increments past the ceiling are rejected, and a
// quantity falling to zero removes the line.
func (s *Store) ChangeQuantity(id string, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	line := s.find(id)
	if line == nil {
		return &errors.ErrNotFound{Resource: "cart line", ID: id}
	}

	line.StockQuantity = s.stock.BestStockForItem(*line)
	if line.StockQuantity <= 0 {
		return &errors.ErrOutOfStock{Name: line.Name}
	}
	if delta > 0 && line.Qty >= line.StockQuantity {
		return &errors.ErrStockLimit{Max: line.StockQuantity}
	}

	line.Qty += delta * line.Step()
	if line.Qty <= 0 {
		return s.removeLocked(id)
	}
	line.ClampQtyToStock()
	return s.save(true)
}

// SetPackaging switches a line between box and poly packaging
func (s *Store) SetPackaging(id string, packaging string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	line := s.find(id)
	if line == nil {
		return &errors.ErrNotFound{Resource: "cart line", ID: id}
	}
	line.Packaging = domain.ParsePackaging(packaging)
	return s.save(true)
}

// Clear empties the cart
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = s.lines[:0]
	return s.save(true)
}

// RefreshStock re-resolves stock for every line and re-clamps quantities,
// persisting silently (no notification). Runs at startup and right before
// checkout validation.
func (s *Store) RefreshStock() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.lines {
		s.lines[i].StockQuantity = s.stock.BestStockForItem(s.lines[i])
		s.lines[i].ClampQtyToStock()
	}
	return s.save(false)
}

// Lines returns a copy of the lines in insertion order
func (s *Store) Lines() []domain.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.CartLine, len(s.lines))
	copy(out, s.lines)
	return out
}

// IsInCart reports whether a line exists for the identity
func (s *Store) IsInCart(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.find(id) != nil
}

// Count is the total quantity across all lines (the cart badge number)
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, l := range s.lines {
		n += l.Qty
	}
	return n
}

// TotalPrice sums price * qty over all lines
func (s *Store) TotalPrice() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0.0
	for _, l := range s.lines {
		total += l.Price * float64(l.Qty)
	}
	return total
}

// TotalFinalCommission sums the final-margin line totals over all lines
func (s *Store) TotalFinalCommission() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0.0
	for _, l := range s.lines {
		total += s.engine.Line(l).FinalLineTotal
	}
	return total
}

// HasStockViolations reports whether any line has no stock or a quantity
// above the ceiling
func (s *Store) HasStockViolations() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range s.lines {
		if l.StockQuantity <= 0 || l.Qty > l.StockQuantity {
			return true
		}
	}
	return false
}
