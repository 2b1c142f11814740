package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"formpulse/internal/model"
)

// DraftCache holds in-progress response snapshots in Redis so a returning
// respondent can resume without a Mongo round trip. Mongo stays authoritative;
// entries expire on their own if a draft is abandoned.
type DraftCache interface {
	Get(ctx context.Context, sessionID, questionnaireID string) (*model.Response, error)
	Set(ctx context.Context, resp *model.Response) error
	Delete(ctx context.Context, sessionID, questionnaireID string) error
}

type draftCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewDraftCache creates a new draft cache
func NewDraftCache(client *redis.Client) DraftCache {
	return &draftCache{
		client: client,
		ttl:    24 * time.Hour,
	}
}

func (c *draftCache) key(sessionID, questionnaireID string) string {
	return fmt.Sprintf("draft:%s:%s", questionnaireID, sessionID)
}

func (c *draftCache) Get(ctx context.Context, sessionID, questionnaireID string) (*model.Response, error) {
	data, err := c.client.Get(ctx, c.key(sessionID, questionnaireID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var resp model.Response
	if err := json.Unmarshal([]byte(data), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *draftCache) Set(ctx context.Context, resp *model.Response) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(resp.SessionID, resp.QuestionnaireID), data, c.ttl).Err()
}

func (c *draftCache) Delete(ctx context.Context, sessionID, questionnaireID string) error {
	return c.client.Del(ctx, c.key(sessionID, questionnaireID)).Err()
}
