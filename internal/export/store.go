package export

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/strata-erp/strata-reports/internal/shared"
)

// Status of an async export job.
const (
	StatusPending = "pending"
	StatusReady   = "ready"
	StatusFailed  = "failed"
)

// Artifact is a stored export result addressed by ID.
type Artifact struct {
	ID          string    `json:"id"`
	Status      string    `json:"status"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"contentType"`
	Error       string    `json:"error,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`

	// Data is stored separately so status polls stay cheap.
	Data []byte `json:"-"`
}

// Store persists export artifacts in Redis with a bounded lifetime.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStore constructs an artifact store.
func NewStore(client *redis.Client, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl}
}

// Create registers a pending artifact and returns its ID.
func (s *Store) Create(ctx context.Context, filename, contentType string) (string, error) {
	id := uuid.NewString()
	art := Artifact{
		ID:          id,
		Status:      StatusPending,
		Filename:    filename,
		ContentType: contentType,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.writeMeta(ctx, art); err != nil {
		return "", err
	}
	return id, nil
}

// Complete stores the rendered bytes and marks the artifact ready.
func (s *Store) Complete(ctx context.Context, id string, data []byte) error {
	art, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.dataKey(id), data, s.ttl).Err(); err != nil {
		return err
	}
	art.Status = StatusReady
	return s.writeMeta(ctx, *art)
}

// MarkFailed records a render failure on the artifact.
func (s *Store) MarkFailed(ctx context.Context, id string, cause error) error {
	art, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	art.Status = StatusFailed
	if cause != nil {
		art.Error = cause.Error()
	}
	return s.writeMeta(ctx, *art)
}

// Get returns artifact metadata without the stored bytes.
func (s *Store) Get(ctx context.Context, id string) (*Artifact, error) {
	payload, err := s.client.Get(ctx, s.metaKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	var art Artifact
	if err := json.Unmarshal(payload, &art); err != nil {
		return nil, err
	}
	return &art, nil
}

// Fetch returns a ready artifact together with its bytes.
func (s *Store) Fetch(ctx context.Context, id string) (*Artifact, error) {
	art, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if art.Status != StatusReady {
		return art, nil
	}
	data, err := s.client.Get(ctx, s.dataKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	art.Data = data
	return art, nil
}

func (s *Store) writeMeta(ctx context.Context, art Artifact) error {
	payload, err := json.Marshal(art)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.metaKey(art.ID), payload, s.ttl).Err()
}

func (s *Store) metaKey(id string) string { return "export:meta:" + id }
func (s *Store) dataKey(id string) string { return "export:data:" + id }
