package billing

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cpg/backend/internal/application/notification"
	"github.com/cpg/backend/internal/domain/billing"
	"github.com/cpg/backend/internal/domain/catalog"
	"github.com/cpg/backend/internal/domain/identity"
	"github.com/cpg/backend/internal/domain/shared"
)

type seqIDs struct{ n atomic.Int64 }

func (s *seqIDs) NextID() int64 { return s.n.Add(1) }

func (s *seqIDs) NewUID(prefix string) string {
	return fmt.Sprintf("%s_%d", prefix, s.n.Add(1))
}

type memOrders struct {
	mu     sync.Mutex
	byID   map[int64]billing.Order
	failOn error
}

func newMemOrders() *memOrders { return &memOrders{byID: map[int64]billing.Order{}} }

func (m *memOrders) FindAll(ctx context.Context) ([]billing.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]billing.Order, 0, len(m.byID))
	for _, o := range m.byID {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memOrders) FindByID(ctx context.Context, id int64) (*billing.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.byID[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &o, nil
}

func (m *memOrders) FindByCustomer(ctx context.Context, customerID int64) ([]billing.Order, error) {
	all, _ := m.FindAll(ctx)
	var out []billing.Order
	for _, o := range all {
		if o.CustomerID == customerID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *memOrders) FindCustomerOrder(ctx context.Context, customerID, orderID int64) (*billing.Order, error) {
	o, err := m.FindByID(ctx, orderID)
	if err != nil || o.CustomerID != customerID {
		return nil, shared.ErrNotFound
	}
	return o, nil
}

func (m *memOrders) FindDueForRenewal(ctx context.Context, now time.Time) ([]billing.Order, error) {
	all, _ := m.FindAll(ctx)
	var out []billing.Order
	for _, o := range all {
		if o.DueForRenewal(now) {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *memOrders) Create(ctx context.Context, o *billing.Order) error {
	if m.failOn != nil {
		return m.failOn
	}
	return m.Update(ctx, o)
}

func (m *memOrders) Update(ctx context.Context, o *billing.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *o
	cp.Lines = append([]billing.OrderLine(nil), o.Lines...)
	cp.InvoiceIDs = append([]int64(nil), o.InvoiceIDs...)
	cp.ClearDomainEvents()
	m.byID[o.ID] = cp
	return nil
}

func (m *memOrders) get(id int64) billing.Order {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.byID[id]
}

type memInvoices struct {
	mu   sync.Mutex
	byID map[int64]billing.Invoice
}

func newMemInvoices() *memInvoices { return &memInvoices{byID: map[int64]billing.Invoice{}} }

func (m *memInvoices) FindAll(ctx context.Context) ([]billing.Invoice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]billing.Invoice, 0, len(m.byID))
	for _, inv := range m.byID {
		out = append(out, inv)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memInvoices) FindByID(ctx context.Context, id int64) (*billing.Invoice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	inv, ok := m.byID[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &inv, nil
}

func (m *memInvoices) FindByUID(ctx context.Context, uid string) (*billing.Invoice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, inv := range m.byID {
		if inv.UID == uid {
			return &inv, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (m *memInvoices) FindByOrderAndPeriod(ctx context.Context, orderID int64, periodStart time.Time) (*billing.Invoice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, inv := range m.byID {
		if inv.OrderID == orderID && inv.PeriodStart.Equal(periodStart) {
			return &inv, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (m *memInvoices) Create(ctx context.Context, inv *billing.Invoice) error {
	if _, err := m.FindByOrderAndPeriod(ctx, inv.OrderID, inv.PeriodStart); err == nil {
		return shared.ErrAlreadyExists
	}
	return m.Update(ctx, inv)
}

func (m *memInvoices) Update(ctx context.Context, inv *billing.Invoice) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *inv
	cp.ClearDomainEvents()
	m.byID[inv.ID] = cp
	return nil
}

type memTransactions struct {
	mu  sync.Mutex
	all []billing.Transaction
}

func (m *memTransactions) FindAll(ctx context.Context) ([]billing.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]billing.Transaction(nil), m.all...), nil
}

func (m *memTransactions) Create(ctx context.Context, tx *billing.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.all = append(m.all, *tx)
	return nil
}

type memProducts map[int64]catalog.Product

func (m memProducts) FindAll(ctx context.Context) ([]catalog.Product, error) {
	return m.FindByIDs(ctx, nil)
}

func (m memProducts) FindByIDs(ctx context.Context, ids []int64) ([]catalog.Product, error) {
	var out []catalog.Product
	for _, id := range ids {
		if p, ok := m[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m memProducts) Save(ctx context.Context, p *catalog.Product) error {
	m[p.ID] = *p
	return nil
}

type memOptions map[int64]catalog.ConfigurableOption

func (m memOptions) FindByIDs(ctx context.Context, ids []int64) ([]catalog.ConfigurableOption, error) {
	var out []catalog.ConfigurableOption
	for _, id := range ids {
		if o, ok := m[id]; ok {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m memOptions) Save(ctx context.Context, o *catalog.ConfigurableOption) error {
	m[o.ID] = *o
	return nil
}

type memCustomers map[int64]identity.Customer

func (m memCustomers) FindAll(ctx context.Context) ([]identity.Customer, error) { return nil, nil }

func (m memCustomers) FindByID(ctx context.Context, id int64) (*identity.Customer, error) {
	c, ok := m[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &c, nil
}

func (m memCustomers) FindByEmail(ctx context.Context, email string) (*identity.Customer, error) {
	for _, c := range m {
		if c.Email() == email {
			return &c, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (m memCustomers) Save(ctx context.Context, c *identity.Customer) error   { m[c.ID] = *c; return nil }
func (m memCustomers) Update(ctx context.Context, c *identity.Customer) error { m[c.ID] = *c; return nil }

type recordingSender struct {
	mu   sync.Mutex
	sent []notification.Message
}

func (s *recordingSender) Send(ctx context.Context, msg notification.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, msg)
	return nil
}

func (s *recordingSender) subjects() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.sent))
	for _, m := range s.sent {
		out = append(out, m.Subject)
	}
	sort.Strings(out)
	return out
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

func (p *recordingPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.EventType())
	}
	return out
}

// failingInvoicer fails for orders of the given billing type
type failingInvoicer struct {
	next   Invoicer
	failOn catalog.PaymentType
}

func (f failingInvoicer) CreateFromOrder(ctx context.Context, order *billing.Order) (*billing.Invoice, error) {
	if order.BillingType == f.failOn {
		return nil, errors.New("invoice store unavailable")
	}
	return f.next.CreateFromOrder(ctx, order)
}
