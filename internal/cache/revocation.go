package cache

import (
	"context"
	"fmt"
	"time"
)

const revokedPrefix = "revoked:"

// RevocationList 以 Redis key 記錄已撤銷的 token id
// 每筆紀錄存活到 token 原本的到期時間，過期的 token 本來就無法通過驗證
type RevocationList struct {
	c   Cache
	now func() time.Time
}

func NewRevocationList(c Cache) *RevocationList {
	return &RevocationList{c: c, now: time.Now}
}

// Revoke 記錄 id 直到 expiresAt；已過期的 token 不需記錄
func (r *RevocationList) Revoke(ctx context.Context, id string, expiresAt time.Time) error {
	ttl := expiresAt.Sub(r.now())
	if ttl <= 0 {
		return nil
	}
	if err := r.c.Set(ctx, revokedPrefix+id, 1, ttl).Err(); err != nil {
		return fmt.Errorf("Revoke: %w", err)
	}
	return nil
}

func (r *RevocationList) IsRevoked(ctx context.Context, id string) (bool, error) {
	n, err := r.c.Exists(ctx, revokedPrefix+id).Result()
	if err != nil {
		return false, fmt.Errorf("IsRevoked: %w", err)
	}
	return n > 0, nil
}
