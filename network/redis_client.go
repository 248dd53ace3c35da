package network

import (
	"fmt"
	"time"

	"github.com/go-redis/redis/v7"

	"github.com/qrpstudio/media-services/models/service"
)

// RedisClient stores deletion-task state so operators can find files
// that leaked after retry exhaustion. All writes from the deletion
// scheduler are best effort.
type RedisClient struct {
	client *redis.Client
}

func NewRedisClient(address, password string, db int) *RedisClient {
	return &RedisClient{
		client: redis.NewClient(&redis.Options{
			Addr:     address,
			Password: password,
			DB:       db,
		}),
	}
}

func (c *RedisClient) Ping() (string, error) {
	return c.client.Ping().Result()
}

// DeletionStateGet returns the recorded state for a storage key.
func (c *RedisClient) DeletionStateGet(key string) (*service.DeletionState, error) {
	data, err := c.client.Get(deletionStateKey(key)).Result()
	if err != nil {
		return nil, fmt.Errorf("DeletionStateGet (%s): %s", key, err.Error())
	}
	return service.DeletionStateFromJSON(data)
}

// DeletionStateSave stores the state for a storage key.
func (c *RedisClient) DeletionStateSave(state *service.DeletionState) error {
	jsonData, err := state.ToJSON()
	if err != nil {
		return err
	}
	_, err = c.client.Set(deletionStateKey(state.Key), jsonData, 0).Result()
	return err
}

// DeletionStateDelete removes the recorded state for a storage key.
func (c *RedisClient) DeletionStateDelete(key string) error {
	_, err := c.client.Del(deletionStateKey(key)).Result()
	return err
}

func deletionStateKey(storageKey string) string {
	return fmt.Sprintf("deletion:%s", storageKey)
}

// The three methods below implement cleanup.StateKeeper. Errors are
// deliberately dropped: state keeping must never affect deletion.

func (c *RedisClient) DeletionAttempted(key string, attempt int, lastErr string) {
	c.saveState(&service.DeletionState{
		Key:         key,
		Attempts:    attempt,
		Disposition: service.DispositionPending,
		LastError:   lastErr,
		UpdatedAt:   time.Now().UTC(),
	})
}

func (c *RedisClient) DeletionSucceeded(key string, attempts int) {
	c.saveState(&service.DeletionState{
		Key:         key,
		Attempts:    attempts,
		Disposition: service.DispositionSucceeded,
		UpdatedAt:   time.Now().UTC(),
	})
}

func (c *RedisClient) DeletionExhausted(key string, attempts int, lastErr string) {
	c.saveState(&service.DeletionState{
		Key:         key,
		Attempts:    attempts,
		Disposition: service.DispositionExhausted,
		LastError:   lastErr,
		UpdatedAt:   time.Now().UTC(),
	})
}

func (c *RedisClient) saveState(state *service.DeletionState) {
	_ = c.DeletionStateSave(state)
}
