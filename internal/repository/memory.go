package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/stitchdesk/stitchdesk/internal/domain"
)

// In-memory repositories satisfying the same contracts as the Postgres
// ones. Used by service tests and available as a backing store when no
// database is configured.

type InMemoryUserRepository struct {
	mu    sync.RWMutex
	users map[string]*domain.User
}

func NewInMemoryUserRepository() *InMemoryUserRepository {
	return &InMemoryUserRepository{users: make(map[string]*domain.User)}
}

func (r *InMemoryUserRepository) CreateUser(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.Role == "" {
		user.Role = domain.UserRoleTailor
	}
	for _, u := range r.users {
		if user.Username != "" && u.Username == user.Username {
			return &domain.ErrUserExists{Field: "username", Value: user.Username}
		}
		if user.UserCode != "" && u.UserCode == user.UserCode {
			return &domain.ErrUserExists{Field: "user_code", Value: user.UserCode}
		}
	}
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	cloned := *user
	r.users[user.ID] = &cloned
	return nil
}

func (r *InMemoryUserRepository) GetUserByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if u, ok := r.users[id]; ok {
		cloned := *u
		return &cloned, nil
	}
	return nil, domain.NewErrNotFound("user", id)
}

func (r *InMemoryUserRepository) GetUserByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.Username == username {
			cloned := *u
			return &cloned, nil
		}
	}
	return nil, domain.NewErrNotFound("user", username)
}

func (r *InMemoryUserRepository) GetUserByCode(_ context.Context, userCode string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.UserCode != "" && u.UserCode == userCode {
			cloned := *u
			return &cloned, nil
		}
	}
	return nil, domain.NewErrNotFound("user", userCode)
}

type InMemorySessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]*domain.Session
}

func NewInMemorySessionRepository() *InMemorySessionRepository {
	return &InMemorySessionRepository{sessions: make(map[string]*domain.Session)}
}

func (r *InMemorySessionRepository) CreateSession(_ context.Context, session *domain.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if session.ID == "" {
		session.ID = uuid.New().String()
	}
	session.CreatedAt = time.Now().UTC()
	cloned := *session
	r.sessions[session.ID] = &cloned
	return nil
}

func (r *InMemorySessionRepository) GetSessionByID(_ context.Context, id string) (*domain.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if s, ok := r.sessions[id]; ok {
		cloned := *s
		return &cloned, nil
	}
	return nil, domain.NewErrNotFound("session", id)
}

func (r *InMemorySessionRepository) DeleteSession(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
	return nil
}

func (r *InMemorySessionRepository) DeleteExpiredSessions(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	now := time.Now().UTC()
	for id, s := range r.sessions {
		if now.After(s.ExpiresAt) {
			delete(r.sessions, id)
			count++
		}
	}
	return count, nil
}

type InMemoryCustomerRepository struct {
	mu        sync.RWMutex
	customers map[string]*domain.Customer
}

func NewInMemoryCustomerRepository() *InMemoryCustomerRepository {
	return &InMemoryCustomerRepository{customers: make(map[string]*domain.Customer)}
}

func (r *InMemoryCustomerRepository) UpsertByPhone(_ context.Context, customer *domain.Customer) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.customers {
		if c.Phone == customer.Phone {
			*customer = *c
			return true, nil
		}
	}
	if customer.ID == "" {
		customer.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	customer.CreatedAt = now
	customer.UpdatedAt = now
	cloned := *customer
	r.customers[customer.ID] = &cloned
	return false, nil
}

func (r *InMemoryCustomerRepository) GetCustomerByID(_ context.Context, id string) (*domain.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if c, ok := r.customers[id]; ok {
		cloned := *c
		return &cloned, nil
	}
	return nil, domain.NewErrNotFound("customer", id)
}

func (r *InMemoryCustomerRepository) GetCustomerByPhone(_ context.Context, phone string) (*domain.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.customers {
		if c.Phone == phone {
			cloned := *c
			return &cloned, nil
		}
	}
	return nil, domain.NewErrNotFound("customer", phone)
}

func (r *InMemoryCustomerRepository) ListCustomers(_ context.Context, tailorID string) ([]*domain.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	customers := make([]*domain.Customer, 0)
	for _, c := range r.customers {
		if tailorID != "" && c.TailorID != tailorID {
			continue
		}
		cloned := *c
		customers = append(customers, &cloned)
	}
	sort.Slice(customers, func(i, j int) bool {
		return customers[i].CreatedAt.After(customers[j].CreatedAt)
	})
	return customers, nil
}

func (r *InMemoryCustomerRepository) UpdateCustomer(_ context.Context, customer *domain.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.customers[customer.ID]; !ok {
		return domain.NewErrNotFound("customer", customer.ID)
	}
	customer.UpdatedAt = time.Now().UTC()
	cloned := *customer
	r.customers[customer.ID] = &cloned
	return nil
}

type InMemoryOrderRepository struct {
	mu     sync.RWMutex
	orders map[string]*domain.Order
}

func NewInMemoryOrderRepository() *InMemoryOrderRepository {
	return &InMemoryOrderRepository{orders: make(map[string]*domain.Order)}
}

func (r *InMemoryOrderRepository) CreateOrder(_ context.Context, order *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	if order.OrderNumber == "" {
		order.OrderNumber = domain.NextOrderNumber()
	}
	if order.Status == "" {
		order.Status = domain.OrderStatusNew
	}
	now := time.Now().UTC()
	order.CreatedAt = now
	order.UpdatedAt = now
	cloned := *order
	r.orders[order.ID] = &cloned
	return nil
}

func (r *InMemoryOrderRepository) GetOrderByID(_ context.Context, id string) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if o, ok := r.orders[id]; ok {
		cloned := *o
		return &cloned, nil
	}
	return nil, domain.NewErrNotFound("order", id)
}

func (r *InMemoryOrderRepository) GetOrderByNumber(_ context.Context, orderNumber string) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, o := range r.orders {
		if o.OrderNumber == orderNumber {
			cloned := *o
			return &cloned, nil
		}
	}
	return nil, domain.NewErrNotFound("order", orderNumber)
}

func (r *InMemoryOrderRepository) ListOrdersByCustomer(_ context.Context, customerID string) ([]*domain.Order, error) {
	return r.list(func(o *domain.Order) bool { return o.CustomerID == customerID })
}

func (r *InMemoryOrderRepository) ListOrdersByPhone(_ context.Context, phone string) ([]*domain.Order, error) {
	return r.list(func(o *domain.Order) bool { return o.CustomerPhone == phone })
}

func (r *InMemoryOrderRepository) list(match func(*domain.Order) bool) ([]*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	orders := make([]*domain.Order, 0)
	for _, o := range r.orders {
		if match(o) {
			cloned := *o
			orders = append(orders, &cloned)
		}
	}
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	return orders, nil
}

func (r *InMemoryOrderRepository) UpdateOrder(_ context.Context, order *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orders[order.ID]; !ok {
		return domain.NewErrNotFound("order", order.ID)
	}
	order.UpdatedAt = time.Now().UTC()
	cloned := *order
	r.orders[order.ID] = &cloned
	return nil
}

type InMemoryMeasurementRepository struct {
	mu           sync.RWMutex
	measurements map[string]*domain.Measurement
	orderPhones  map[string]string // order ID -> customer phone
}

func NewInMemoryMeasurementRepository() *InMemoryMeasurementRepository {
	return &InMemoryMeasurementRepository{
		measurements: make(map[string]*domain.Measurement),
		orderPhones:  make(map[string]string),
	}
}

// LinkOrderPhone records the order→phone association that Postgres
// resolves with a join.
func (r *InMemoryMeasurementRepository) LinkOrderPhone(orderID, phone string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orderPhones[orderID] = phone
}

func (r *InMemoryMeasurementRepository) CreateMeasurement(_ context.Context, m *domain.Measurement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	m.CreatedAt = time.Now().UTC()
	cloned := *m
	r.measurements[m.ID] = &cloned
	return nil
}

func (r *InMemoryMeasurementRepository) GetMeasurementByID(_ context.Context, id string) (*domain.Measurement, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if m, ok := r.measurements[id]; ok {
		cloned := *m
		return &cloned, nil
	}
	return nil, domain.NewErrNotFound("measurement", id)
}

func (r *InMemoryMeasurementRepository) ListMeasurementsByOrder(_ context.Context, orderID string) ([]*domain.Measurement, error) {
	return r.list(func(m *domain.Measurement) bool { return m.OrderID == orderID })
}

func (r *InMemoryMeasurementRepository) ListMeasurementsByPhone(_ context.Context, phone string) ([]*domain.Measurement, error) {
	return r.list(func(m *domain.Measurement) bool { return r.orderPhones[m.OrderID] == phone })
}

func (r *InMemoryMeasurementRepository) list(match func(*domain.Measurement) bool) ([]*domain.Measurement, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	measurements := make([]*domain.Measurement, 0)
	for _, m := range r.measurements {
		if match(m) {
			cloned := *m
			measurements = append(measurements, &cloned)
		}
	}
	sort.Slice(measurements, func(i, j int) bool {
		return measurements[i].CreatedAt.Before(measurements[j].CreatedAt)
	})
	return measurements, nil
}

type InMemoryScheduledJobRepository struct {
	mu   sync.RWMutex
	jobs map[string]*domain.ScheduledJob
}

func NewInMemoryScheduledJobRepository() *InMemoryScheduledJobRepository {
	return &InMemoryScheduledJobRepository{jobs: make(map[string]*domain.ScheduledJob)}
}

func (r *InMemoryScheduledJobRepository) CreateJob(_ context.Context, job *domain.ScheduledJob) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if job.ID == "" {
		job.ID = uuid.New().String()
	}
	if job.Status == "" {
		job.Status = domain.JobStatusPending
	}
	now := time.Now().UTC()
	job.CreatedAt = now
	job.UpdatedAt = now
	cloned := *job
	r.jobs[job.ID] = &cloned
	return nil
}

func (r *InMemoryScheduledJobRepository) GetJobByID(_ context.Context, id string) (*domain.ScheduledJob, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if j, ok := r.jobs[id]; ok {
		cloned := *j
		return &cloned, nil
	}
	return nil, domain.NewErrNotFound("scheduled job", id)
}

func (r *InMemoryScheduledJobRepository) ListDueJobs(_ context.Context, until time.Time) ([]*domain.ScheduledJob, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	jobs := make([]*domain.ScheduledJob, 0)
	for _, j := range r.jobs {
		if j.Status == domain.JobStatusPending && !j.ScheduledFor.After(until) {
			cloned := *j
			jobs = append(jobs, &cloned)
		}
	}
	sort.Slice(jobs, func(i, j int) bool {
		return jobs[i].ScheduledFor.Before(jobs[j].ScheduledFor)
	})
	return jobs, nil
}

func (r *InMemoryScheduledJobRepository) UpdateJobStatus(_ context.Context, id string, status domain.JobStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	j, ok := r.jobs[id]
	if !ok {
		return domain.NewErrNotFound("scheduled job", id)
	}
	j.Status = status
	j.UpdatedAt = time.Now().UTC()
	return nil
}

type InMemoryOAuthTokenRepository struct {
	mu     sync.RWMutex
	tokens map[string]*domain.OAuthToken
}

func NewInMemoryOAuthTokenRepository() *InMemoryOAuthTokenRepository {
	return &InMemoryOAuthTokenRepository{tokens: make(map[string]*domain.OAuthToken)}
}

func (r *InMemoryOAuthTokenRepository) UpsertToken(_ context.Context, token *domain.OAuthToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	token.UpdatedAt = time.Now().UTC()
	if existing, ok := r.tokens[token.Service]; ok && token.RefreshToken == "" {
		token.RefreshToken = existing.RefreshToken
	}
	cloned := *token
	r.tokens[token.Service] = &cloned
	return nil
}

func (r *InMemoryOAuthTokenRepository) GetToken(_ context.Context, service string) (*domain.OAuthToken, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if t, ok := r.tokens[service]; ok {
		cloned := *t
		return &cloned, nil
	}
	return nil, domain.NewErrNotFound("oauth token", service)
}
