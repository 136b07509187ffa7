package oauth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	stateKeyPrefix = "gym:oauth:state:"
	stateTTL       = 10 * time.Minute
)

var (
	ErrEmptyState   = errors.New("empty state parameter")
	ErrInvalidState = errors.New("invalid or expired state")
)

// StateData 授权发起时记录的上下文，回调时取回
type StateData struct {
	Provider    string    `json:"provider"`
	RedirectURI string    `json:"redirect_uri"`
	CreatedAt   time.Time `json:"created_at"`
}

// StateStore 在 Redis 中保存一次性的 OAuth state
type StateStore struct {
	rdb *redis.Client
}

func NewStateStore(rdb *redis.Client) *StateStore {
	return &StateStore{rdb: rdb}
}

// GenerateState 生成 256 位随机 state 并保存上下文
func (s *StateStore) GenerateState(ctx context.Context, provider, redirectURI string) (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate random state: %w", err)
	}
	state := hex.EncodeToString(buf)

	data, err := json.Marshal(StateData{
		Provider:    provider,
		RedirectURI: redirectURI,
		CreatedAt:   time.Now().UTC(),
	})
	if err != nil {
		return "", err
	}

	if err := s.rdb.Set(ctx, stateKeyPrefix+state, data, stateTTL).Err(); err != nil {
		return "", fmt.Errorf("failed to store state: %w", err)
	}

	return state, nil
}

// ValidateState 取出并删除 state，同一个 state 只能使用一次
func (s *StateStore) ValidateState(ctx context.Context, state string) (*StateData, error) {
	if state == "" {
		return nil, ErrEmptyState
	}

	raw, err := s.rdb.GetDel(ctx, stateKeyPrefix+state).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrInvalidState
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get state: %w", err)
	}

	var data StateData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, ErrInvalidState
	}
	return &data, nil
}
