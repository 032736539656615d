// Package checkout runs a till's cart-to-sale workflow.
package checkout

import (
	"context"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/Arafat-Sarder/sarder-super-shop-pos/internal/cart"
	"github.com/Arafat-Sarder/sarder-super-shop-pos/internal/pricing"
	"github.com/Arafat-Sarder/sarder-super-shop-pos/pkg/db/models"
	"github.com/Arafat-Sarder/sarder-super-shop-pos/pkg/enums"
	pkgerrors "github.com/Arafat-Sarder/sarder-super-shop-pos/pkg/errors"
	"github.com/Arafat-Sarder/sarder-super-shop-pos/pkg/logger"
	"github.com/Arafat-Sarder/sarder-super-shop-pos/pkg/metrics"
)

// Catalog is the product lookup the till reads from.
type Catalog interface {
	GetProduct(ctx context.Context, id int64) (*models.Product, error)
	FindByBarcode(ctx context.Context, barcode string) (*models.Product, error)
}

type customerLookup interface {
	GetCustomer(ctx context.Context, id int64) (*models.Customer, error)
}

type employeeLookup interface {
	GetEmployee(ctx context.Context, id int64) (*models.Employee, error)
}

// AddInput identifies a product by id or barcode. Quantity is raw operator
// input: grams or millilitres for weight units, a count otherwise.
type AddInput struct {
	ProductID int64
	Barcode   string
	Quantity  decimal.Decimal
}

// UpdateInput corrects a line. A nil UnitPrice keeps the captured price.
type UpdateInput struct {
	Quantity  decimal.Decimal
	UnitPrice *decimal.Decimal
}

// Snapshot is a read-only view of a session.
type Snapshot struct {
	TillID     string
	State      enums.CheckoutState
	Lines      []cart.Line
	Total      decimal.Decimal
	CustomerID *int64
	EmployeeID *int64
}

// Result is a committed sale with its settlement.
type Result struct {
	Sale       *models.Sale
	Settlement pricing.Settlement
}

// Session is one till's checkout. All methods are safe for concurrent use;
// while a commit is in flight every mutation is rejected.
type Session struct {
	tillID    string
	catalog   Catalog
	customers customerLookup
	employees employeeLookup
	committer *Committer
	metrics   *metrics.CheckoutMetrics
	logg      *logger.Logger

	mu         sync.Mutex
	state      enums.CheckoutState
	cart       *cart.Cart
	customerID *int64
	employeeID *int64
}

// Deps are the collaborators shared by every session.
type Deps struct {
	Catalog   Catalog
	Customers customerLookup
	Employees employeeLookup
	Committer *Committer
	Metrics   *metrics.CheckoutMetrics
	Logger    *logger.Logger
}

func newSession(tillID string, deps Deps) *Session {
	return &Session{
		tillID:    tillID,
		catalog:   deps.Catalog,
		customers: deps.Customers,
		employees: deps.Employees,
		committer: deps.Committer,
		metrics:   deps.Metrics,
		logg:      deps.Logger,
		state:     enums.CheckoutStateEmpty,
		cart:      cart.New(),
	}
}

func (s *Session) TillID() string {
	return s.tillID
}

// Add looks the product up, normalizes the quantity for its unit and merges
// it into the cart.
func (s *Session) Add(ctx context.Context, input AddInput) (cart.Line, error) {
	product, err := s.lookup(ctx, input)
	if err != nil {
		return cart.Line{}, err
	}
	qty, err := cart.NormalizeQuantity(product.Unit, input.Quantity)
	if err != nil {
		return cart.Line{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureMutable(); err != nil {
		return cart.Line{}, err
	}
	line, err := s.cart.AddOrMerge(*product, qty)
	if err != nil {
		return cart.Line{}, err
	}
	s.state = enums.CheckoutStateBuilding
	s.metrics.IncLineAdded(product.Unit.Kind())
	return line, nil
}

// Update corrects a line's quantity and price using the same unit policy as
// Add. A quantity of zero or less removes the line; ok is false then.
func (s *Session) Update(ctx context.Context, productID int64, input UpdateInput) (line cart.Line, ok bool, err error) {
	s.mu.Lock()
	current, found := s.cart.Line(productID)
	s.mu.Unlock()
	if !found {
		return cart.Line{}, false, pkgerrors.New(pkgerrors.CodeProductNotFound, "product is not in the cart").
			WithDetails(map[string]any{"product_id": productID})
	}

	qty := decimal.Zero
	if input.Quantity.IsPositive() {
		qty, err = cart.NormalizeQuantity(current.Unit, input.Quantity)
		if err != nil {
			return cart.Line{}, false, err
		}
		product, err := s.catalog.GetProduct(ctx, productID)
		if err != nil {
			return cart.Line{}, false, err
		}
		if err := pricing.ValidateLine(*product, qty); err != nil {
			return cart.Line{}, false, err
		}
	}
	price := current.UnitPrice
	if input.UnitPrice != nil {
		price = *input.UnitPrice
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureMutable(); err != nil {
		return cart.Line{}, false, err
	}
	line, ok, err = s.cart.UpdateLine(productID, qty, price)
	if err != nil {
		return cart.Line{}, false, err
	}
	s.settleState()
	return line, ok, nil
}

// Remove drops a line from the cart.
func (s *Session) Remove(productID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureMutable(); err != nil {
		return err
	}
	if !s.cart.RemoveLine(productID) {
		return pkgerrors.New(pkgerrors.CodeProductNotFound, "product is not in the cart").
			WithDetails(map[string]any{"product_id": productID})
	}
	s.settleState()
	return nil
}

// SelectParties records the customer and the employee ringing up the sale.
// Both must exist in the store.
func (s *Session) SelectParties(ctx context.Context, customerID, employeeID int64) error {
	if _, err := s.customers.GetCustomer(ctx, customerID); err != nil {
		return err
	}
	if _, err := s.employees.GetEmployee(ctx, employeeID); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureMutable(); err != nil {
		return err
	}
	s.customerID = &customerID
	s.employeeID = &employeeID
	return nil
}

// Preview settles the tender against the current total without committing.
func (s *Session) Preview(method enums.PaymentMethod, received decimal.Decimal) (pricing.Settlement, error) {
	s.mu.Lock()
	lines := s.cart.Lines()
	s.mu.Unlock()
	if len(lines) == 0 {
		return pricing.Settlement{}, emptyCart()
	}
	return pricing.SettlePayment(method, pricing.CartTotal(lines), received)
}

// Confirm settles payment and commits the cart. On success the cart and the
// customer selection are cleared; on failure the cart is kept for a retry.
func (s *Session) Confirm(ctx context.Context, method enums.PaymentMethod, received decimal.Decimal) (*Result, error) {
	s.mu.Lock()
	if err := s.ensureMutable(); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	if s.cart.IsEmpty() {
		s.mu.Unlock()
		return nil, emptyCart()
	}
	if s.customerID == nil || s.employeeID == nil {
		s.mu.Unlock()
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer and employee must be selected").
			WithDetails(map[string]string{"parties": "required"})
	}
	lines := s.cart.Lines()
	settlement, err := pricing.SettlePayment(method, pricing.CartTotal(lines), received)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	order := Order{
		CustomerID: *s.customerID,
		EmployeeID: *s.employeeID,
		Settlement: settlement,
		Lines:      lines,
	}
	s.state = enums.CheckoutStateCommitting
	s.mu.Unlock()

	sale, err := s.committer.Commit(s.logg.WithTillID(ctx, s.tillID), order)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.state = enums.CheckoutStateBuilding
		return nil, err
	}
	s.cart.Clear()
	s.customerID = nil
	s.state = enums.CheckoutStateEmpty
	return &Result{Sale: sale, Settlement: settlement}, nil
}

// Cancel discards the cart and the party selection.
func (s *Session) Cancel() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureMutable(); err != nil {
		return err
	}
	s.cart.Clear()
	s.customerID = nil
	s.employeeID = nil
	s.state = enums.CheckoutStateEmpty
	return nil
}

// Snapshot returns the current lines, total, state and selections.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		TillID:     s.tillID,
		State:      s.state,
		Lines:      s.cart.Lines(),
		Total:      s.cart.Total(),
		CustomerID: copyID(s.customerID),
		EmployeeID: copyID(s.employeeID),
	}
}

func (s *Session) lookup(ctx context.Context, input AddInput) (*models.Product, error) {
	if code := strings.TrimSpace(input.Barcode); code != "" {
		return s.catalog.FindByBarcode(ctx, code)
	}
	if input.ProductID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product_id or barcode is required")
	}
	return s.catalog.GetProduct(ctx, input.ProductID)
}

// ensureMutable must be called with mu held.
func (s *Session) ensureMutable() error {
	if s.state == enums.CheckoutStateCommitting {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "a sale is being committed on this till").
			WithDetails(map[string]any{"till_id": s.tillID, "state": s.state.String()})
	}
	return nil
}

// settleState must be called with mu held.
func (s *Session) settleState() {
	if s.cart.IsEmpty() {
		s.state = enums.CheckoutStateEmpty
		return
	}
	s.state = enums.CheckoutStateBuilding
}

func copyID(id *int64) *int64 {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}
