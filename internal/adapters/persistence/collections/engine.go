// Package collections interprets REST-shaped CRUD requests against the
// key-value store: each collection is one key holding a JSON array of
// records. Every operation is read-full / mutate / write-full with no
// cross-call mutual exclusion, so two overlapping writers to the same
// collection can lose an update. That matches the contract this engine
// emulates and is a documented limitation, not an invariant.
package collections

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"forza-loanapp/internal/adapters/persistence/kvstore"
	"forza-loanapp/internal/core/domain"

	"github.com/google/uuid"
)

// Collection keys
const (
	Users            = "users"
	LoanApplications = "loanApplications"
	LoanDetails      = "loanDetails"
	LoanProducts     = "loanProducts"
)

// Method is one of the four supported verbs
type Method string

const (
	MethodGet    Method = "GET"
	MethodPost   Method = "POST"
	MethodPut    Method = "PUT"
	MethodDelete Method = "DELETE"
)

// Params scopes a request to a single record or a user's records
type Params struct {
	ID     string
	UserID string
}

// Request is the descriptor the engine consumes
type Request struct {
	Collection string
	Method     Method
	Body       interface{}
	Params     Params
}

// Ack acknowledges a delete
type Ack struct {
	Success bool   `json:"success"`
	ID      string `json:"id,omitempty"`
}

// Engine executes requests against the key-value store
type Engine struct {
	store *kvstore.Store
}

// NewEngine creates a new collection query engine
func NewEngine(store *kvstore.Store) *Engine {
	return &Engine{store: store}
}

// Do executes a single request and returns the raw JSON result
func (e *Engine) Do(ctx context.Context, req Request) (json.RawMessage, error) {
	key := storageKey(req.Collection)

	switch req.Method {
	case MethodGet:
		return e.get(ctx, key, req.Params)
	case MethodPost:
		return e.post(ctx, key, req.Body)
	case MethodPut:
		return e.put(ctx, key, req.Params, req.Body)
	case MethodDelete:
		return e.delete(ctx, key, req.Params)
	default:
		return nil, fmt.Errorf("%w: method %q not supported", domain.ErrInvalidInput, req.Method)
	}
}

func (e *Engine) get(ctx context.Context, key string, params Params) (json.RawMessage, error) {
	items, err := e.load(ctx, key)
	if err != nil {
		return nil, err
	}

	switch {
	case params.ID != "":
		for _, item := range items {
			if recordField(item, "id") == params.ID {
				return json.Marshal(item)
			}
		}
		// a GET-by-id miss is a null result, not an error
		return json.RawMessage("null"), nil

	case params.UserID != "":
		matched := make([]map[string]interface{}, 0)
		for _, item := range items {
			if recordField(item, "userId") == params.UserID {
				matched = append(matched, item)
			}
		}
		return json.Marshal(matched)

	default:
		return json.Marshal(items)
	}
}

func (e *Engine) post(ctx context.Context, key string, body interface{}) (json.RawMessage, error) {
	items, err := e.load(ctx, key)
	if err != nil {
		return nil, err
	}

	record, err := toRecord(body)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)
	record["id"] = NewID()
	record["createdAt"] = now
	record["updatedAt"] = now

	items = append(items, record)
	if err := e.save(ctx, key, items); err != nil {
		return nil, err
	}
	return json.Marshal(record)
}

func (e *Engine) put(ctx context.Context, key string, params Params, body interface{}) (json.RawMessage, error) {
	// PUT without an id replaces the whole collection value verbatim
	if params.ID == "" {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("%w: encode body: %v", domain.ErrInvalidInput, err)
		}
		if err := e.store.Set(ctx, key, raw); err != nil {
			return nil, err
		}
		return raw, nil
	}

	items, err := e.load(ctx, key)
	if err != nil {
		return nil, err
	}

	index := -1
	for i, item := range items {
		if recordField(item, "id") == params.ID {
			index = i
			break
		}
	}
	if index == -1 {
		return nil, fmt.Errorf("%w: %s/%s", domain.ErrNotFound, key, params.ID)
	}

	patch, err := toRecord(body)
	if err != nil {
		return nil, err
	}
	for field, value := range patch {
		items[index][field] = value
	}
	items[index]["updatedAt"] = time.Now().UTC().Format(time.RFC3339Nano)

	if err := e.save(ctx, key, items); err != nil {
		return nil, err
	}
	return json.Marshal(items[index])
}

func (e *Engine) delete(ctx context.Context, key string, params Params) (json.RawMessage, error) {
	if params.ID == "" {
		if err := e.store.Delete(ctx, key); err != nil {
			return nil, err
		}
		return json.Marshal(Ack{Success: true})
	}

	items, err := e.load(ctx, key)
	if err != nil {
		return nil, err
	}

	// succeeds even when nothing matched
	filtered := make([]map[string]interface{}, 0, len(items))
	for _, item := range items {
		if recordField(item, "id") != params.ID {
			filtered = append(filtered, item)
		}
	}
	if err := e.save(ctx, key, filtered); err != nil {
		return nil, err
	}
	return json.Marshal(Ack{Success: true, ID: params.ID})
}

// load reads the full collection; an absent key is an empty collection
func (e *Engine) load(ctx context.Context, key string) ([]map[string]interface{}, error) {
	raw, ok, err := e.store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []map[string]interface{}{}, nil
	}

	var items []map[string]interface{}
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("parse collection %q: %w", key, err)
	}
	return items, nil
}

func (e *Engine) save(ctx context.Context, key string, items []map[string]interface{}) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode collection %q: %w", key, err)
	}
	return e.store.Set(ctx, key, raw)
}

// storageKey takes the collection segment of a request path
func storageKey(collection string) string {
	if i := strings.Index(collection, "/"); i >= 0 {
		return collection[:i]
	}
	return collection
}

func toRecord(body interface{}) (map[string]interface{}, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("%w: encode body: %v", domain.ErrInvalidInput, err)
	}
	var record map[string]interface{}
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, fmt.Errorf("%w: body must be an object", domain.ErrInvalidInput)
	}
	return record, nil
}

func recordField(record map[string]interface{}, field string) string {
	if v, ok := record[field].(string); ok {
		return v
	}
	return ""
}

// NewID returns a millisecond-timestamp prefix plus a random suffix.
// Collisions are treated as negligible, not formally impossible.
func NewID() string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
	return strconv.FormatInt(time.Now().UnixMilli(), 10) + suffix
}
