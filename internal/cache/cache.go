// Package cache holds the in-memory snapshot of the customer and training
// collections. The snapshot is the single source of truth for every derived
// view; it only ever changes by whole-collection replace after a successful
// reload from the record store.
package cache

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"gitea.jw6.us/james/traindesk/internal/domain"
)

// RecordStore is the slice of the remote client the cache depends on.
type RecordStore interface {
	ListCustomers(ctx context.Context) ([]domain.Customer, error)
	ListTrainings(ctx context.Context) ([]domain.Training, error)
	CreateCustomer(ctx context.Context, cust domain.Customer) (domain.Customer, error)
	UpdateCustomer(ctx context.Context, id string, cust domain.Customer) (domain.Customer, error)
	DeleteCustomer(ctx context.Context, id string) error
	CreateTraining(ctx context.Context, draft domain.TrainingDraft) error
	DeleteTraining(ctx context.Context, id string) error
}

// RefreshError reports that a mutation was accepted by the record store but
// the follow-up reload failed, so reads may serve a snapshot that predates
// the write.
type RefreshError struct {
	Err error
}

func (e *RefreshError) Error() string {
	return fmt.Sprintf("record saved but cache refresh failed: %v", e.Err)
}

func (e *RefreshError) Unwrap() error { return e.Err }

// Cache is safe for concurrent use.
type Cache struct {
	store RecordStore

	mu sync.Mutex

	customers       []domain.Customer
	customerVersion uint64
	customerTicket  uint64

	trainings       []domain.Training
	trainingVersion uint64
	trainingTicket  uint64
}

func New(store RecordStore) *Cache {
	return &Cache{store: store}
}

// Customers returns the last successfully reloaded customer collection.
func (c *Cache) Customers() []domain.Customer {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.customers)
}

// Trainings returns the last successfully reloaded training collection.
func (c *Cache) Trainings() []domain.Training {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.trainings)
}

// ReloadCustomers fetches the customer collection and installs it, unless a
// reload that started later has already committed. Each reload takes a
// monotonic ticket before fetching; a slow fetch whose ticket is older than
// the committed one is discarded so stale data never overwrites newer data.
func (c *Cache) ReloadCustomers(ctx context.Context) error {
	ticket := c.takeTicket(&c.customerTicket)

	customers, err := c.store.ListCustomers(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if ticket < c.customerVersion {
		return nil
	}
	c.customerVersion = ticket
	c.customers = customers
	return nil
}

// ReloadTrainings fetches the training collection under the same ticket
// discipline as ReloadCustomers.
func (c *Cache) ReloadTrainings(ctx context.Context) error {
	ticket := c.takeTicket(&c.trainingTicket)

	trainings, err := c.store.ListTrainings(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if ticket < c.trainingVersion {
		return nil
	}
	c.trainingVersion = ticket
	c.trainings = trainings
	return nil
}

// AddCustomer validates, creates the customer remotely, then reloads. Until
// the reload commits, reads observe the pre-mutation collection; there is no
// optimistic local insert.
func (c *Cache) AddCustomer(ctx context.Context, cust domain.Customer) error {
	if err := cust.Validate(); err != nil {
		return err
	}
	if _, err := c.store.CreateCustomer(ctx, cust); err != nil {
		return err
	}
	return c.refreshCustomers(ctx)
}

// EditCustomer validates, updates the customer remotely, then reloads.
func (c *Cache) EditCustomer(ctx context.Context, id string, cust domain.Customer) error {
	if err := cust.Validate(); err != nil {
		return err
	}
	if _, err := c.store.UpdateCustomer(ctx, id, cust); err != nil {
		return err
	}
	return c.refreshCustomers(ctx)
}

// RemoveCustomer deletes the customer remotely, then reloads. Trainings that
// referenced the customer are left orphaned; the join layer renders them with
// the fallback name.
func (c *Cache) RemoveCustomer(ctx context.Context, id string) error {
	if err := c.store.DeleteCustomer(ctx, id); err != nil {
		return err
	}
	return c.refreshCustomers(ctx)
}

// AddTraining validates the draft, creates the training remotely, then
// reloads the training collection.
func (c *Cache) AddTraining(ctx context.Context, draft domain.TrainingDraft) error {
	if err := draft.Validate(); err != nil {
		return err
	}
	if err := c.store.CreateTraining(ctx, draft); err != nil {
		return err
	}
	return c.refreshTrainings(ctx)
}

// RemoveTraining deletes the training remotely, then reloads.
func (c *Cache) RemoveTraining(ctx context.Context, id string) error {
	if err := c.store.DeleteTraining(ctx, id); err != nil {
		return err
	}
	return c.refreshTrainings(ctx)
}

func (c *Cache) refreshCustomers(ctx context.Context) error {
	if err := c.ReloadCustomers(ctx); err != nil {
		return &RefreshError{Err: err}
	}
	return nil
}

func (c *Cache) refreshTrainings(ctx context.Context) error {
	if err := c.ReloadTrainings(ctx); err != nil {
		return &RefreshError{Err: err}
	}
	return nil
}

func (c *Cache) takeTicket(counter *uint64) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	*counter++
	return *counter
}
