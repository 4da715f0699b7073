package service

import (
	"context"
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"backoffice-service/internal/entity"
)

type memCategories struct {
	mu     sync.Mutex
	nextID int
	rows   map[int]entity.Category
}

func newMemCategories(names ...string) *memCategories {
	m := &memCategories{rows: map[int]entity.Category{}}
	for _, name := range names {
		_, _ = m.CreateCategory(context.Background(), &entity.Category{Name: name})
	}
	return m
}

func (m *memCategories) CreateCategory(_ context.Context, c *entity.Category) (*entity.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	c.ID = m.nextID
	m.rows[c.ID] = *c
	return c, nil
}

func (m *memCategories) GetCategories(context.Context) ([]*entity.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*entity.Category{}
	for _, c := range m.rows {
		c := c
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memCategories) GetCategoryByID(_ context.Context, id int) (*entity.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.rows[id]
	if !ok {
		return nil, entity.NotFound("category")
	}
	return &c, nil
}

func (m *memCategories) UpdateCategory(ctx context.Context, c *entity.Category) (*entity.Category, error) {
	m.mu.Lock()
	if _, ok := m.rows[c.ID]; !ok {
		m.mu.Unlock()
		return nil, entity.NotFound("category")
	}
	m.rows[c.ID] = *c
	m.mu.Unlock()
	return m.GetCategoryByID(ctx, c.ID)
}

func (m *memCategories) DeleteCategory(_ context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return entity.NotFound("category")
	}
	delete(m.rows, id)
	return nil
}

type memProducts struct {
	mu         sync.Mutex
	nextID     int
	rows       map[int]entity.Product
	categories *memCategories
	// vanish makes GetProductByID miss after an update, as if a concurrent
	// request deleted the row.
	vanish bool
}

func newMemProducts(categories *memCategories) *memProducts {
	return &memProducts{rows: map[int]entity.Product{}, categories: categories}
}

func (m *memProducts) CreateProduct(_ context.Context, p *entity.Product) (*entity.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	p.ID = m.nextID
	m.rows[p.ID] = *p
	return p, nil
}

func (m *memProducts) joined(p entity.Product) *entity.Product {
	if c, err := m.categories.GetCategoryByID(context.Background(), p.CategoryID); err == nil {
		p.Category = c
	}
	return &p
}

func (m *memProducts) GetProducts(context.Context) ([]*entity.Product, error) {
	return m.filter(func(entity.Product) bool { return true }), nil
}

func (m *memProducts) GetProductsByCategory(_ context.Context, categoryID int) ([]*entity.Product, error) {
	return m.filter(func(p entity.Product) bool { return p.CategoryID == categoryID }), nil
}

func (m *memProducts) filter(keep func(entity.Product) bool) []*entity.Product {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*entity.Product{}
	for _, p := range m.rows {
		if keep(p) {
			out = append(out, m.joined(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *memProducts) GetProductByID(_ context.Context, id int) (*entity.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.rows[id]
	if !ok || m.vanish {
		return nil, entity.NotFound("product")
	}
	return m.joined(p), nil
}

func (m *memProducts) UpdateProduct(_ context.Context, p *entity.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[p.ID]; ok {
		m.rows[p.ID] = *p
	}
	return nil
}

func (m *memProducts) DeleteProduct(_ context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return entity.NotFound("product")
	}
	delete(m.rows, id)
	return nil
}

type memUsers struct {
	mu     sync.Mutex
	nextID int
	rows   map[int]entity.User
}

func newMemUsers(names ...string) *memUsers {
	m := &memUsers{rows: map[int]entity.User{}}
	for _, name := range names {
		_, _ = m.CreateUser(context.Background(), &entity.User{Name: name})
	}
	return m
}

func (m *memUsers) GetUserByID(_ context.Context, id int) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.rows[id]
	if !ok {
		return nil, entity.NotFound("user")
	}
	return &u, nil
}

func (m *memUsers) CreateUser(_ context.Context, u *entity.User) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	u.ID = m.nextID
	m.rows[u.ID] = *u
	return u, nil
}

// memOrders places orders against memProducts under one lock, which gives
// it the same all-or-nothing behaviour as the SQL transaction.
type memOrders struct {
	mu       sync.Mutex
	nextID   int
	rows     map[int]*entity.Order
	users    *memUsers
	products *memProducts
}

func newMemOrders(users *memUsers, products *memProducts) *memOrders {
	return &memOrders{rows: map[int]*entity.Order{}, users: users, products: products}
}

func (m *memOrders) PlaceOrder(ctx context.Context, userID int, lines []entity.OrderLine) (*entity.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, err := m.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	m.products.mu.Lock()
	defer m.products.mu.Unlock()
	stock := map[int]int{}
	order := &entity.Order{UserID: userID, User: user, TotalPrice: decimal.Zero, Status: entity.OrderStatusCreated}
	for _, line := range lines {
		p, ok := m.products.rows[line.ProductID]
		if !ok {
			return nil, entity.NotFound("product")
		}
		left, seen := stock[p.ID]
		if !seen {
			left = p.Stock
		}
		if left < line.Quantity {
			return nil, entity.InsufficientStock(p.Name)
		}
		stock[p.ID] = left - line.Quantity
		price := p.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
		order.Items = append(order.Items, entity.OrderItem{ProductID: p.ID, Quantity: line.Quantity, Price: price})
		order.TotalPrice = order.TotalPrice.Add(price)
	}
	for id, left := range stock {
		p := m.products.rows[id]
		p.Stock = left
		m.products.rows[id] = p
	}

	m.nextID++
	order.ID = m.nextID
	for i := range order.Items {
		order.Items[i].OrderID = order.ID
		order.Items[i].ID = order.ID*100 + i
	}
	m.rows[order.ID] = order
	return order, nil
}

func (m *memOrders) GetOrders(context.Context) ([]*entity.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*entity.Order{}
	for _, o := range m.rows {
		cp := *o
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memOrders) GetOrderByID(_ context.Context, id int) (*entity.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.rows[id]
	if !ok {
		return nil, entity.NotFound("order")
	}
	cp := *o
	return &cp, nil
}

func (m *memOrders) UpdateOrderStatus(_ context.Context, id int, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.rows[id]
	if !ok {
		return entity.NotFound("order")
	}
	o.Status = status
	return nil
}

func (m *memOrders) DeleteOrder(_ context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return entity.NotFound("order")
	}
	delete(m.rows, id)
	return nil
}

type memIdempotency struct {
	mu   sync.Mutex
	keys map[string]bool
}

func (m *memIdempotency) Claim(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.keys == nil {
		m.keys = map[string]bool{}
	}
	if m.keys[key] {
		return false, nil
	}
	m.keys[key] = true
	return true, nil
}

// Release fails on a done context the way a Redis round trip would.
func (m *memIdempotency) Release(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.keys, key)
	return nil
}

type recordedEvent struct {
	orderID int
	event   string
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []recordedEvent
	err    error
}

func (p *recordingPublisher) PublishOrderEvent(_ context.Context, order *entity.Order, event string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, recordedEvent{orderID: order.ID, event: event})
	return p.err
}

// disconnectingOrders cancels the request context while the order is being
// placed, as when a client drops the connection mid-request.
type disconnectingOrders struct {
	*memOrders
	cancel context.CancelFunc
}

func (d *disconnectingOrders) PlaceOrder(ctx context.Context, _ int, _ []entity.OrderLine) (*entity.Order, error) {
	d.cancel()
	return nil, ctx.Err()
}

// vanishingOrders deletes the order right after it is read, as if a
// concurrent request removed it.
type vanishingOrders struct {
	*memOrders
}

func (v *vanishingOrders) GetOrderByID(ctx context.Context, id int) (*entity.Order, error) {
	order, err := v.memOrders.GetOrderByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return order, v.memOrders.DeleteOrder(ctx, id)
}
