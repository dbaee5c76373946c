package db

import (
	"context"
	"fmt"
	"sync"

	"github.com/launchfold/waitlist-backend/models"
)

// Straw-man in-memory store (for testing!)
type MemDatabase struct {
	mu          sync.Mutex
	subscribers []models.Subscriber
}

// InitMemDatabase returns an empty in-memory store.
func InitMemDatabase() *MemDatabase {
	return &MemDatabase{}
}

func (db *MemDatabase) GetSubscriber(ctx context.Context, email string) (models.Subscriber, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	for _, subscriber := range db.subscribers {
		if subscriber.Email == email && subscriber.Status == models.StatusActive {
			return subscriber, nil
		}
	}
	return models.Subscriber{}, ErrNoSubscriber
}

func (db *MemDatabase) PutSubscriber(ctx context.Context, subscriber models.Subscriber) (string, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.subscribers = append(db.subscribers, subscriber)
	return fmt.Sprintf("%d", len(db.subscribers)-1), nil
}

func (db *MemDatabase) GetActiveSubscribers(ctx context.Context) ([]models.Subscriber, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	active := make([]models.Subscriber, 0)
	for _, subscriber := range db.subscribers {
		if subscriber.Status == models.StatusActive {
			active = append(active, subscriber)
		}
	}
	return active, nil
}

// Count reports how many documents the store holds, active or not.
func (db *MemDatabase) Count() int {
	db.mu.Lock()
	defer db.mu.Unlock()
	return len(db.subscribers)
}

// ClearCollections empties the store. For test teardown.
func (db *MemDatabase) ClearCollections() {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.subscribers = nil
}
