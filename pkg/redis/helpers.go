package redis

import (
	"context"
	"encoding/json"
	"time"
)

// SetJSON sets a key with JSON-encoded value
func (c *Client) SetJSON(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.Set(ctx, key, data, expiration)
}

// GetJSON gets a key and decodes JSON value
func (c *Client) GetJSON(ctx context.Context, key string, dest interface{}) error {
	data, err := c.Get(ctx, key)
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(data), dest)
}

// MGetJSON loads every key in one round trip and decodes the present ones through decode.
// Missing keys are skipped.
func (c *Client) MGetJSON(ctx context.Context, keys []string, decode func(data []byte) error) error {
	if len(keys) == 0 {
		return nil
	}
	values, err := c.client.MGet(ctx, keys...).Result()
	if err != nil {
		return err
	}
	for _, v := range values {
		s, ok := v.(string)
		if !ok {
			continue
		}
		if err := decode([]byte(s)); err != nil {
			return err
		}
	}
	return nil
}
