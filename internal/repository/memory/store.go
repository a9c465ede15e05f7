// Package memory is an in-process repository.Store used for local runs and
// tests. Transactions are serialized and roll back by restoring a snapshot.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/egannguyen/storefront-backend/internal/entity"
	"github.com/egannguyen/storefront-backend/internal/repository"
)

type data struct {
	customers map[int64]entity.Customer
	products  map[int64]entity.Product
	variants  map[int64]entity.ProductVariant
	orders    map[int64]entity.Order
	items     map[int64]entity.OrderItem
	payments  map[int64]entity.Payment
	history   map[int64]entity.StatusHistory
	faqs      map[int64]entity.FAQ
	slides    map[int64]entity.HeroSlide
	trends    map[int64]entity.Trend
	seq       int64
}

func newData() *data {
	return &data{
		customers: map[int64]entity.Customer{},
		products:  map[int64]entity.Product{},
		variants:  map[int64]entity.ProductVariant{},
		orders:    map[int64]entity.Order{},
		items:     map[int64]entity.OrderItem{},
		payments:  map[int64]entity.Payment{},
		history:   map[int64]entity.StatusHistory{},
		faqs:      map[int64]entity.FAQ{},
		slides:    map[int64]entity.HeroSlide{},
		trends:    map[int64]entity.Trend{},
	}
}

func cloneMap[V any](m map[int64]V) map[int64]V {
	out := make(map[int64]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (d *data) clone() *data {
	return &data{
		customers: cloneMap(d.customers),
		products:  cloneMap(d.products),
		variants:  cloneMap(d.variants),
		orders:    cloneMap(d.orders),
		items:     cloneMap(d.items),
		payments:  cloneMap(d.payments),
		history:   cloneMap(d.history),
		faqs:      cloneMap(d.faqs),
		slides:    cloneMap(d.slides),
		trends:    cloneMap(d.trends),
		seq:       d.seq,
	}
}

func (d *data) nextID() int64 {
	d.seq++
	return d.seq
}

// Store keeps every table in maps guarded by a mutex.
//
// Writes made outside WithinTx wait for any open transaction to finish, so a
// rollback never discards them. Reads do not wait and may see uncommitted rows.
type Store struct {
	mu   sync.Mutex
	txMu sync.Mutex
	data *data
	now  func() time.Time
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{data: newData(), now: time.Now}
}

func (s *Store) Customers() repository.CustomerRepository   { return customerRepository{base{s: s}} }
func (s *Store) Orders() repository.OrderRepository         { return orderRepository{base{s: s}} }
func (s *Store) Payments() repository.PaymentRepository     { return paymentRepository{base{s: s}} }
func (s *Store) Products() repository.ProductRepository     { return productRepository{base{s: s}} }
func (s *Store) FAQs() repository.FAQRepository             { return faqRepository{base{s: s}} }
func (s *Store) HeroSlides() repository.HeroSlideRepository { return heroSlideRepository{base{s: s}} }
func (s *Store) Trends() repository.TrendRepository         { return trendRepository{base{s: s}} }

func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, tx repository.Store) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	snapshot := s.data.clone()
	s.mu.Unlock()

	if err := fn(ctx, &txStore{Store: s}); err != nil {
		s.mu.Lock()
		s.data = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

// AddProduct inserts a product regardless of existing rows and returns its ID.
func (s *Store) AddProduct(p entity.Product) int64 {
	base{s: s}.write(func(d *data) error {
		p.ID = d.nextID()
		p.InStock = p.StockQuantity > 0
		p.UpdatedAt = s.now()
		d.products[p.ID] = p
		return nil
	})
	return p.ID
}

// AddVariant inserts a variant for an existing product and returns its ID.
func (s *Store) AddVariant(productID int64, name string, stock int) int64 {
	v := entity.ProductVariant{ProductID: productID, Name: name, StockQuantity: stock}
	base{s: s}.write(func(d *data) error {
		v.ID = d.nextID()
		d.variants[v.ID] = v
		return nil
	})
	return v.ID
}

// Variant returns a variant by ID.
func (s *Store) Variant(id int64) (entity.ProductVariant, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data.variants[id]
	return v, ok
}

// txStore is handed to WithinTx callbacks; nested calls run inline. Its
// repositories already hold txMu.
type txStore struct {
	*Store
}

func (t *txStore) Customers() repository.CustomerRepository   { return customerRepository{t.base()} }
func (t *txStore) Orders() repository.OrderRepository         { return orderRepository{t.base()} }
func (t *txStore) Payments() repository.PaymentRepository     { return paymentRepository{t.base()} }
func (t *txStore) Products() repository.ProductRepository     { return productRepository{t.base()} }
func (t *txStore) FAQs() repository.FAQRepository             { return faqRepository{t.base()} }
func (t *txStore) HeroSlides() repository.HeroSlideRepository { return heroSlideRepository{t.base()} }
func (t *txStore) Trends() repository.TrendRepository         { return trendRepository{t.base()} }

func (t *txStore) base() base { return base{s: t.Store, tx: true} }

func (t *txStore) WithinTx(ctx context.Context, fn func(ctx context.Context, tx repository.Store) error) error {
	return fn(ctx, t)
}

// base is embedded by every repository. tx marks repositories handed out
// inside WithinTx.
type base struct {
	s  *Store
	tx bool
}

func (b base) read(fn func(d *data)) {
	b.s.mu.Lock()
	defer b.s.mu.Unlock()
	fn(b.s.data)
}

func (b base) write(fn func(d *data) error) error {
	if !b.tx {
		b.s.txMu.Lock()
		defer b.s.txMu.Unlock()
	}
	b.s.mu.Lock()
	defer b.s.mu.Unlock()
	return fn(b.s.data)
}

func sortedValues[V any](m map[int64]V, less func(a, b V) bool) []V {
	out := make([]V, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

type customerRepository struct{ base }

func (r customerRepository) FindByContact(_ context.Context, email, phone string) (*entity.Customer, error) {
	var found *entity.Customer
	r.read(func(d *data) {
		for _, c := range sortedValues(d.customers, func(a, b entity.Customer) bool { return a.ID < b.ID }) {
			if (email != "" && c.Email != nil && *c.Email == email) || (phone != "" && c.Phone != nil && *c.Phone == phone) {
				found = &c
				return
			}
		}
	})
	if found == nil {
		return nil, repository.ErrNotFound
	}
	return found, nil
}

func (r customerRepository) FindByAuthUserID(_ context.Context, authUserID string) (*entity.Customer, error) {
	var found *entity.Customer
	r.read(func(d *data) {
		for _, c := range d.customers {
			if c.AuthUserID != nil && *c.AuthUserID == authUserID {
				found = &c
				return
			}
		}
	})
	if found == nil {
		return nil, repository.ErrNotFound
	}
	return found, nil
}

func (r customerRepository) FindAll(_ context.Context) ([]entity.Customer, error) {
	var out []entity.Customer
	r.read(func(d *data) {
		out = sortedValues(d.customers, func(a, b entity.Customer) bool { return a.ID > b.ID })
	})
	return out, nil
}

func (r customerRepository) Create(_ context.Context, c *entity.Customer) error {
	return r.write(func(d *data) error {
		c.ID = d.nextID()
		c.CreatedAt = r.s.now()
		c.UpdatedAt = c.CreatedAt
		d.customers[c.ID] = *c
		return nil
	})
}

func (r customerRepository) Update(_ context.Context, c *entity.Customer) error {
	return r.write(func(d *data) error {
		existing, ok := d.customers[c.ID]
		if !ok {
			return repository.ErrNotFound
		}
		c.CreatedAt = existing.CreatedAt
		c.UpdatedAt = r.s.now()
		d.customers[c.ID] = *c
		return nil
	})
}

type orderRepository struct{ base }

func (r orderRepository) Create(_ context.Context, o *entity.Order) error {
	return r.write(func(d *data) error {
		if o.ReservationState == "" {
			o.ReservationState = entity.ReservationUnreserved
		}
		o.ID = d.nextID()
		o.CreatedAt = r.s.now()
		o.UpdatedAt = o.CreatedAt
		d.orders[o.ID] = *o
		return nil
	})
}

func (r orderRepository) CreateItems(_ context.Context, orderID int64, items []entity.OrderItem) ([]entity.OrderItem, error) {
	created := make([]entity.OrderItem, 0, len(items))
	err := r.write(func(d *data) error {
		if _, ok := d.orders[orderID]; !ok {
			return repository.ErrNotFound
		}
		for _, item := range items {
			item.ID = d.nextID()
			item.OrderID = orderID
			d.items[item.ID] = item
			created = append(created, item)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (r orderRepository) FindByID(_ context.Context, id int64) (*entity.Order, error) {
	var (
		o  entity.Order
		ok bool
	)
	r.read(func(d *data) { o, ok = d.orders[id] })
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &o, nil
}

// Row locking is implied by the store-wide transaction lock.
func (r orderRepository) FindByIDForUpdate(ctx context.Context, id int64) (*entity.Order, error) {
	return r.FindByID(ctx, id)
}

func (r orderRepository) Find(_ context.Context, filter entity.OrderFilter) ([]entity.OrderSummary, error) {
	var out []entity.OrderSummary
	r.read(func(d *data) {
		orders := sortedValues(d.orders, func(a, b entity.Order) bool {
			if a.CreatedAt.Equal(b.CreatedAt) {
				return a.ID > b.ID
			}
			return a.CreatedAt.After(b.CreatedAt)
		})
		out = make([]entity.OrderSummary, 0, len(orders))
		for _, o := range orders {
			if filter.Status != "" && o.Status != filter.Status {
				continue
			}
			if filter.Email != "" && o.CustomerEmail != filter.Email {
				continue
			}
			if filter.Phone != "" && o.CustomerPhone != filter.Phone {
				continue
			}
			if filter.CustomerID != nil && (o.CustomerID == nil || *o.CustomerID != *filter.CustomerID) {
				continue
			}

			summary := entity.OrderSummary{Order: o}
			for _, item := range d.items {
				if item.OrderID == o.ID {
					summary.ItemsCount += item.Quantity
				}
			}
			var firstPayment *entity.Payment
			for _, p := range d.payments {
				if p.OrderID == o.ID && (firstPayment == nil || p.ID < firstPayment.ID) {
					p := p
					firstPayment = &p
				}
			}
			if firstPayment != nil {
				status := firstPayment.Status
				summary.PaymentStatus = &status
			}
			out = append(out, summary)
		}
	})
	return out, nil
}

func (r orderRepository) FindItems(_ context.Context, orderID int64) ([]entity.OrderItem, error) {
	out := []entity.OrderItem{}
	r.read(func(d *data) {
		for _, item := range sortedValues(d.items, func(a, b entity.OrderItem) bool { return a.ID < b.ID }) {
			if item.OrderID == orderID {
				out = append(out, item)
			}
		}
	})
	return out, nil
}

func (r orderRepository) UpdateStatus(_ context.Context, id int64, status string, state entity.ReservationState) (*entity.Order, error) {
	var updated entity.Order
	err := r.write(func(d *data) error {
		o, ok := d.orders[id]
		if !ok {
			return repository.ErrNotFound
		}
		o.Status = status
		o.ReservationState = state
		o.UpdatedAt = r.s.now()
		d.orders[id] = o
		updated = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r orderRepository) AppendHistory(_ context.Context, h *entity.StatusHistory) error {
	return r.write(func(d *data) error {
		h.ID = d.nextID()
		h.ChangedAt = r.s.now()
		d.history[h.ID] = *h
		return nil
	})
}

func (r orderRepository) FindHistory(_ context.Context, orderID int64) ([]entity.StatusHistory, error) {
	out := []entity.StatusHistory{}
	r.read(func(d *data) {
		all := sortedValues(d.history, func(a, b entity.StatusHistory) bool {
			if a.ChangedAt.Equal(b.ChangedAt) {
				return a.ID < b.ID
			}
			return a.ChangedAt.Before(b.ChangedAt)
		})
		for _, h := range all {
			if h.OrderID == orderID {
				out = append(out, h)
			}
		}
	})
	return out, nil
}

type paymentRepository struct{ base }

func (r paymentRepository) Create(_ context.Context, p *entity.Payment) error {
	return r.write(func(d *data) error {
		p.ID = d.nextID()
		p.CreatedAt = r.s.now()
		d.payments[p.ID] = *p
		return nil
	})
}

func (r paymentRepository) Find(_ context.Context, orderID *int64) ([]entity.Payment, error) {
	out := []entity.Payment{}
	r.read(func(d *data) {
		for _, p := range sortedValues(d.payments, func(a, b entity.Payment) bool { return a.ID > b.ID }) {
			if orderID == nil || p.OrderID == *orderID {
				out = append(out, p)
			}
		}
	})
	return out, nil
}

type productRepository struct{ base }

func (r productRepository) FindAll(_ context.Context) ([]entity.Product, error) {
	var out []entity.Product
	r.read(func(d *data) {
		out = sortedValues(d.products, func(a, b entity.Product) bool { return a.Name < b.Name })
	})
	return out, nil
}

func (r productRepository) AdjustProductStock(_ context.Context, productID int64, delta int) (int, error) {
	var stock int
	err := r.write(func(d *data) error {
		p, ok := d.products[productID]
		if !ok {
			return repository.ErrNotFound
		}
		p.StockQuantity = max(p.StockQuantity+delta, 0)
		p.InStock = p.StockQuantity > 0
		p.UpdatedAt = r.s.now()
		d.products[productID] = p
		stock = p.StockQuantity
		return nil
	})
	return stock, err
}

func (r productRepository) AdjustVariantStock(_ context.Context, variantID int64, delta int) (int, error) {
	var stock int
	err := r.write(func(d *data) error {
		v, ok := d.variants[variantID]
		if !ok {
			return repository.ErrNotFound
		}
		v.StockQuantity = max(v.StockQuantity+delta, 0)
		d.variants[variantID] = v
		stock = v.StockQuantity
		return nil
	})
	return stock, err
}

func (r productRepository) UpdateInventory(_ context.Context, productID int64, u entity.InventoryUpdate) (*entity.Product, error) {
	var updated entity.Product
	err := r.write(func(d *data) error {
		p, ok := d.products[productID]
		if !ok {
			return repository.ErrNotFound
		}
		p.StockQuantity = u.StockQuantity
		p.InStock = u.InStock
		if u.LowStockLevel != nil {
			level := *u.LowStockLevel
			p.LowStockLevel = &level
		}
		p.UpdatedAt = r.s.now()
		d.products[productID] = p
		updated = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r productRepository) Seed(_ context.Context, products []entity.Product) error {
	return r.write(func(d *data) error {
		if len(d.products) > 0 {
			return nil
		}
		for _, p := range products {
			p.ID = d.nextID()
			p.InStock = p.StockQuantity > 0
			p.UpdatedAt = r.s.now()
			d.products[p.ID] = p
		}
		return nil
	})
}

type faqRepository struct{ base }

func (r faqRepository) FindAll(_ context.Context, publishedOnly bool) ([]entity.FAQ, error) {
	out := []entity.FAQ{}
	r.read(func(d *data) {
		all := sortedValues(d.faqs, func(a, b entity.FAQ) bool {
			if a.SortOrder != b.SortOrder {
				return a.SortOrder < b.SortOrder
			}
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.Before(b.CreatedAt)
			}
			return a.ID < b.ID
		})
		for _, f := range all {
			if !publishedOnly || f.IsPublished {
				out = append(out, f)
			}
		}
	})
	return out, nil
}

func (r faqRepository) Create(_ context.Context, f *entity.FAQ) error {
	return r.write(func(d *data) error {
		f.ID = d.nextID()
		f.CreatedAt = r.s.now()
		f.UpdatedAt = f.CreatedAt
		d.faqs[f.ID] = *f
		return nil
	})
}

func (r faqRepository) Update(_ context.Context, f *entity.FAQ) error {
	return r.write(func(d *data) error {
		existing, ok := d.faqs[f.ID]
		if !ok {
			return repository.ErrNotFound
		}
		f.CreatedAt = existing.CreatedAt
		f.UpdatedAt = r.s.now()
		d.faqs[f.ID] = *f
		return nil
	})
}

func (r faqRepository) Delete(_ context.Context, id int64) error {
	return r.write(func(d *data) error {
		if _, ok := d.faqs[id]; !ok {
			return repository.ErrNotFound
		}
		delete(d.faqs, id)
		return nil
	})
}

type heroSlideRepository struct{ base }

func (r heroSlideRepository) FindAll(_ context.Context) ([]entity.HeroSlide, error) {
	var out []entity.HeroSlide
	r.read(func(d *data) {
		out = sortedValues(d.slides, func(a, b entity.HeroSlide) bool { return a.ID < b.ID })
	})
	return out, nil
}

func (r heroSlideRepository) FindByID(_ context.Context, id int64) (*entity.HeroSlide, error) {
	var (
		h  entity.HeroSlide
		ok bool
	)
	r.read(func(d *data) { h, ok = d.slides[id] })
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &h, nil
}

func (r heroSlideRepository) Create(_ context.Context, h *entity.HeroSlide) error {
	return r.write(func(d *data) error {
		h.ID = d.nextID()
		h.CreatedAt = r.s.now()
		h.UpdatedAt = h.CreatedAt
		d.slides[h.ID] = *h
		return nil
	})
}

func (r heroSlideRepository) Update(_ context.Context, h *entity.HeroSlide) error {
	return r.write(func(d *data) error {
		existing, ok := d.slides[h.ID]
		if !ok {
			return repository.ErrNotFound
		}
		h.CreatedAt = existing.CreatedAt
		h.UpdatedAt = r.s.now()
		d.slides[h.ID] = *h
		return nil
	})
}

func (r heroSlideRepository) Delete(_ context.Context, id int64) error {
	return r.write(func(d *data) error {
		if _, ok := d.slides[id]; !ok {
			return repository.ErrNotFound
		}
		delete(d.slides, id)
		return nil
	})
}

type trendRepository struct{ base }

func (r trendRepository) FindAll(_ context.Context) ([]entity.Trend, error) {
	var out []entity.Trend
	r.read(func(d *data) {
		out = sortedValues(d.trends, func(a, b entity.Trend) bool {
			if a.SortOrder != b.SortOrder {
				return a.SortOrder < b.SortOrder
			}
			return a.ID < b.ID
		})
	})
	return out, nil
}

func (r trendRepository) Create(_ context.Context, t *entity.Trend) error {
	return r.write(func(d *data) error {
		t.ID = d.nextID()
		t.CreatedAt = r.s.now()
		t.UpdatedAt = t.CreatedAt
		d.trends[t.ID] = *t
		return nil
	})
}

func (r trendRepository) Update(_ context.Context, t *entity.Trend) error {
	return r.write(func(d *data) error {
		existing, ok := d.trends[t.ID]
		if !ok {
			return repository.ErrNotFound
		}
		t.CreatedAt = existing.CreatedAt
		t.UpdatedAt = r.s.now()
		d.trends[t.ID] = *t
		return nil
	})
}

func (r trendRepository) Delete(_ context.Context, id int64) error {
	return r.write(func(d *data) error {
		if _, ok := d.trends[id]; !ok {
			return repository.ErrNotFound
		}
		delete(d.trends, id)
		return nil
	})
}
