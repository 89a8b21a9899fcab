// Package redis implements bpmnstore.TraceStore backed by Redis, for a
// low-latency sink where recorded runs can be given a TTL instead of
// living forever.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/smallnest/bpmnflow/bpmnstore"
)

// TraceStore implements bpmnstore.TraceStore using Redis.
type TraceStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// Options configures the Redis connection.
type Options struct {
	Addr     string
	Password string
	DB       int
	Prefix   string        // key prefix, default "bpmnflow:"
	TTL      time.Duration // expiration for a recorded run, default 0 (no expiration)
}

// New creates a Redis-backed trace store.
func New(opts Options) *TraceStore {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	prefix := opts.Prefix
	if prefix == "" {
		prefix = "bpmnflow:"
	}

	return &TraceStore{client: client, prefix: prefix, ttl: opts.TTL}
}

func (s *TraceStore) runKey(id string) string {
	return fmt.Sprintf("%srun:%s", s.prefix, id)
}

func (s *TraceStore) processKey(id string) string {
	return fmt.Sprintf("%sprocess:%s:runs", s.prefix, id)
}

// Save records a completed run.
func (s *TraceStore) Save(ctx context.Context, run *bpmnstore.Run) error {
	data, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("failed to marshal run: %w", err)
	}

	key := s.runKey(run.ID)
	pipe := s.client.Pipeline()
	pipe.Set(ctx, key, data, s.ttl)

	if run.ProcessID != "" {
		procKey := s.processKey(run.ProcessID)
		pipe.SAdd(ctx, procKey, run.ID)
		if s.ttl > 0 {
			pipe.Expire(ctx, procKey, s.ttl)
		}
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save run to redis: %w", err)
	}
	return nil
}

func (s *TraceStore) load(ctx context.Context, runID string) (*bpmnstore.Run, error) {
	data, err := s.client.Get(ctx, s.runKey(runID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, fmt.Errorf("run not found: %s", runID)
		}
		return nil, fmt.Errorf("failed to load run from redis: %w", err)
	}
	var run bpmnstore.Run
	if err := json.Unmarshal(data, &run); err != nil {
		return nil, fmt.Errorf("failed to unmarshal run: %w", err)
	}
	return &run, nil
}

// List returns every recorded run for the given process id, oldest first.
func (s *TraceStore) List(ctx context.Context, processID string) ([]*bpmnstore.Run, error) {
	runIDs, err := s.client.SMembers(ctx, s.processKey(processID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list runs for process %s: %w", processID, err)
	}
	if len(runIDs) == 0 {
		return []*bpmnstore.Run{}, nil
	}

	keys := make([]string, len(runIDs))
	for i, id := range runIDs {
		keys[i] = s.runKey(id)
	}

	results, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch runs: %w", err)
	}

	var runs []*bpmnstore.Run
	for _, result := range results {
		if result == nil {
			continue
		}
		strData, ok := result.(string)
		if !ok {
			continue
		}
		var run bpmnstore.Run
		if err := json.Unmarshal([]byte(strData), &run); err != nil {
			continue
		}
		runs = append(runs, &run)
	}
	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

// Delete removes a recorded run.
func (s *TraceStore) Delete(ctx context.Context, runID string) error {
	run, err := s.load(ctx, runID)
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Del(ctx, s.runKey(runID))
	if run.ProcessID != "" {
		pipe.SRem(ctx, s.processKey(run.ProcessID), runID)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}
	return nil
}

var _ bpmnstore.TraceStore = (*TraceStore)(nil)
