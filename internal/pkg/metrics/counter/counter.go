package counter

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/ddukddak/taleapi/internal/pkg/cache"
	"github.com/ddukddak/taleapi/internal/pkg/database"
)

const storyViewsKey = "story:counters:views"

// AddStoryView increments the pending view counter for a story in Redis
func AddStoryView(storyID string) error {
	ctx := context.Background()
	return cache.GetClient().HIncrBy(ctx, storyViewsKey, storyID, 1).Err()
}

// FlushAll flushes pending story view counters to the database
func FlushAll() error {
	return flushHashToTable(storyViewsKey, "stories", "view_count")
}

// flushHashToTable drains a Redis hash atomically and applies batched increments to the given table.
// Uses RENAME to a temporary key for atomic drain without losing in-flight increments.
func flushHashToTable(redisKey, table, column string) error {
	ctx := context.Background()
	rdb := cache.GetClient()

	// Atomically move the hash to a temp key for draining
	tmpKey := fmt.Sprintf("%s:tmp:%d", redisKey, time.Now().UnixNano())
	if err := rdb.Do(ctx, "RENAME", redisKey, tmpKey).Err(); err != nil {
		// If key does not exist, nothing to flush
		if strings.Contains(strings.ToLower(err.Error()), "no such key") {
			return nil
		}
		// Some Redis libs return redis.Nil; treat as empty
		if err.Error() == "redis: nil" {
			return nil
		}
		return err
	}

	// Ensure cleanup of tmpKey even if later steps fail
	defer rdb.Del(ctx, tmpKey)

	data, err := rdb.HGetAll(ctx, tmpKey).Result()
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return nil
	}

	// Build batched UPDATE using CASE WHEN id THEN inc
	type pair struct {
		id  string
		inc string
	}
	pairs := make([]pair, 0, len(data))
	for k, v := range data {
		if k == "" || v == "" || v == "0" {
			continue
		}
		pairs = append(pairs, pair{id: k, inc: v})
	}
	if len(pairs) == 0 {
		return nil
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].id < pairs[j].id })

	// UPDATE stories SET view_count = view_count + CASE id WHEN ? THEN ? ... END WHERE id IN ( ... )
	var builder strings.Builder
	args := make([]interface{}, 0, len(pairs)*3)
	builder.WriteString("UPDATE ")
	builder.WriteString(table)
	builder.WriteString(" SET ")
	builder.WriteString(column)
	builder.WriteString(" = ")
	builder.WriteString(column)
	builder.WriteString(" + CASE id ")
	for _, p := range pairs {
		builder.WriteString(" WHEN ? THEN ?")
		args = append(args, p.id, p.inc)
	}
	builder.WriteString(" END WHERE id IN (")
	for i, p := range pairs {
		if i > 0 {
			builder.WriteString(",")
		}
		builder.WriteString("?")
		args = append(args, p.id)
	}
	builder.WriteString(")")

	sql := builder.String()
	db := database.GetDB()
	if err := db.Exec(sql, args...).Error; err != nil {
		return err
	}
	return nil
}

// StartFlusher flushes pending counters on a fixed interval until ctx is cancelled.
func StartFlusher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				_ = FlushAll()
			}
		}
	}()
}
