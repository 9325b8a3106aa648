// Package endpoints exposes the typed domain operations over the collection
// query engine. Query results are cached per endpoint+argument and tagged;
// a successful mutation invalidates every cached query carrying an affected
// tag, so the next read refetches from storage.
package endpoints

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"forza-loanapp/internal/adapters/persistence/collections"
	"forza-loanapp/internal/core/domain"
	"forza-loanapp/internal/pkg/phone"
)

// Client is the typed API surface over the query engine
type Client struct {
	engine *collections.Engine
	cache  *queryCache
}

// NewClient creates a new endpoints client
func NewClient(engine *collections.Engine) *Client {
	return &Client{
		engine: engine,
		cache:  newQueryCache(),
	}
}

// RegisterUser normalizes the phone to digits and appends the user to the
// users collection. The caller is responsible for any validation and for
// hashing the password before it reaches this endpoint.
func (c *Client) RegisterUser(ctx context.Context, user domain.User) (*domain.User, error) {
	user.Phone = phone.Normalize(user.Phone)

	raw, err := c.engine.Do(ctx, collections.Request{
		Collection: collections.Users,
		Method:     collections.MethodPost,
		Body:       user,
	})
	if err != nil {
		return nil, err
	}
	c.cache.invalidate(TagUser)

	return decodeOne[domain.User](raw)
}

// GetAllUsers returns the whole users collection
func (c *Client) GetAllUsers(ctx context.Context) ([]domain.User, error) {
	raw, err := c.query(ctx, "getAllUsers", collections.Request{
		Collection: collections.Users,
		Method:     collections.MethodGet,
	}, TagUser)
	if err != nil {
		return nil, err
	}
	return decodeMany[domain.User](raw)
}

// LoginByPhone scans all users for a normalized-phone match. A miss is a
// nil user, not an error. The lookup is a client-side O(n) scan; there is
// no index over the collection.
func (c *Client) LoginByPhone(ctx context.Context, rawPhone string) (*domain.User, error) {
	users, err := c.GetAllUsers(ctx)
	if err != nil {
		return nil, err
	}

	clean := phone.Normalize(rawPhone)
	for i := range users {
		if phone.Normalize(users[i].Phone) == clean {
			return &users[i], nil
		}
	}
	return nil, nil
}

// GetUserByID returns the user with the given id, or nil when absent
func (c *Client) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	raw, err := c.query(ctx, "getUserById:"+id, collections.Request{
		Collection: collections.Users,
		Method:     collections.MethodGet,
		Params:     collections.Params{ID: id},
	}, TagUser)
	if err != nil {
		return nil, err
	}
	return decodeOne[domain.User](raw)
}

// UpdateUser shallow-merges the patch over the stored user. A phone in the
// patch is normalized before storage.
func (c *Client) UpdateUser(ctx context.Context, id string, patch map[string]interface{}) (*domain.User, error) {
	if p, ok := patch["phone"].(string); ok {
		patch["phone"] = phone.Normalize(p)
	}

	raw, err := c.engine.Do(ctx, collections.Request{
		Collection: collections.Users,
		Method:     collections.MethodPut,
		Body:       patch,
		Params:     collections.Params{ID: id},
	})
	if err != nil {
		return nil, err
	}
	c.cache.invalidate(TagUser)

	return decodeOne[domain.User](raw)
}

// CreateLoanApplication generates the human-facing application number and
// appends the application to the collection
func (c *Client) CreateLoanApplication(ctx context.Context, app domain.LoanApplication) (*domain.LoanApplication, error) {
	app.BrojAplikacije = NewApplicationNumber()

	raw, err := c.engine.Do(ctx, collections.Request{
		Collection: collections.LoanApplications,
		Method:     collections.MethodPost,
		Body:       app,
	})
	if err != nil {
		return nil, err
	}
	c.cache.invalidate(TagLoanApplication)

	return decodeOne[domain.LoanApplication](raw)
}

// GetUserLoanApplications returns a user's applications in store order
func (c *Client) GetUserLoanApplications(ctx context.Context, userID string) ([]domain.LoanApplication, error) {
	raw, err := c.query(ctx, "getUserLoanApplications:"+userID, collections.Request{
		Collection: collections.LoanApplications,
		Method:     collections.MethodGet,
		Params:     collections.Params{UserID: userID},
	}, TagLoanApplication)
	if err != nil {
		return nil, err
	}
	return decodeMany[domain.LoanApplication](raw)
}

// GetLoanApplicationByID returns a single application, or nil when absent
func (c *Client) GetLoanApplicationByID(ctx context.Context, id string) (*domain.LoanApplication, error) {
	raw, err := c.query(ctx, "getLoanApplicationById:"+id, collections.Request{
		Collection: collections.LoanApplications,
		Method:     collections.MethodGet,
		Params:     collections.Params{ID: id},
	}, TagLoanApplication)
	if err != nil {
		return nil, err
	}
	return decodeOne[domain.LoanApplication](raw)
}

// UpdateLoanApplicationStatus sets the status on a stored application.
// A status change may later trigger loan creation, so both application
// and loan-details caches are invalidated.
func (c *Client) UpdateLoanApplicationStatus(ctx context.Context, id string, status domain.ApplicationStatus) (*domain.LoanApplication, error) {
	raw, err := c.engine.Do(ctx, collections.Request{
		Collection: collections.LoanApplications,
		Method:     collections.MethodPut,
		Body:       map[string]interface{}{"status": status},
		Params:     collections.Params{ID: id},
	})
	if err != nil {
		return nil, err
	}
	c.cache.invalidate(TagLoanApplication, TagLoanDetails)

	return decodeOne[domain.LoanApplication](raw)
}

// CreateLoanDetails appends a disbursed-loan record
func (c *Client) CreateLoanDetails(ctx context.Context, details domain.LoanDetails) (*domain.LoanDetails, error) {
	details.CreationDate = time.Now().UTC()

	raw, err := c.engine.Do(ctx, collections.Request{
		Collection: collections.LoanDetails,
		Method:     collections.MethodPost,
		Body:       details,
	})
	if err != nil {
		return nil, err
	}
	c.cache.invalidate(TagLoanDetails)

	return decodeOne[domain.LoanDetails](raw)
}

// GetUserLoanDetails returns a user's disbursed loans in store order
func (c *Client) GetUserLoanDetails(ctx context.Context, userID string) ([]domain.LoanDetails, error) {
	raw, err := c.query(ctx, "getUserLoanDetails:"+userID, collections.Request{
		Collection: collections.LoanDetails,
		Method:     collections.MethodGet,
		Params:     collections.Params{UserID: userID},
	}, TagLoanDetails)
	if err != nil {
		return nil, err
	}
	return decodeMany[domain.LoanDetails](raw)
}

// GetLoanDetailsByID returns a single disbursed loan, or nil when absent
func (c *Client) GetLoanDetailsByID(ctx context.Context, id string) (*domain.LoanDetails, error) {
	raw, err := c.query(ctx, "getLoanDetailsById:"+id, collections.Request{
		Collection: collections.LoanDetails,
		Method:     collections.MethodGet,
		Params:     collections.Params{ID: id},
	}, TagLoanDetails)
	if err != nil {
		return nil, err
	}
	return decodeOne[domain.LoanDetails](raw)
}

// GetLoanProducts returns the seeded product catalog
func (c *Client) GetLoanProducts(ctx context.Context) ([]domain.LoanProduct, error) {
	raw, err := c.query(ctx, "getLoanProducts", collections.Request{
		Collection: collections.LoanProducts,
		Method:     collections.MethodGet,
	}, TagLoanProduct)
	if err != nil {
		return nil, err
	}
	return decodeMany[domain.LoanProduct](raw)
}

// ClearAllData unconditionally removes the three data collections
func (c *Client) ClearAllData(ctx context.Context) error {
	for _, collection := range []string{collections.Users, collections.LoanApplications, collections.LoanDetails} {
		if _, err := c.engine.Do(ctx, collections.Request{
			Collection: collection,
			Method:     collections.MethodDelete,
		}); err != nil {
			return err
		}
	}
	c.cache.invalidate(TagUser, TagLoanApplication, TagLoanDetails)
	return nil
}

// query serves a read from cache or executes it and caches the result
func (c *Client) query(ctx context.Context, key string, req collections.Request, tags ...Tag) (json.RawMessage, error) {
	if cached, ok := c.cache.get(key); ok {
		return cached, nil
	}

	raw, err := c.engine.Do(ctx, req)
	if err != nil {
		return nil, err
	}
	c.cache.set(key, raw, tags...)
	return raw, nil
}

// NewApplicationNumber builds a brojAplikacije: "LA" + millisecond
// timestamp + zero-padded 3-digit random. Never reused in practice.
func NewApplicationNumber() string {
	return fmt.Sprintf("LA%d%03d", time.Now().UnixMilli(), rand.Intn(1000))
}

func decodeOne[T any](raw json.RawMessage) (*T, error) {
	if string(raw) == "null" {
		return nil, nil
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	return &v, nil
}

func decodeMany[T any](raw json.RawMessage) ([]T, error) {
	if string(raw) == "null" {
		return []T{}, nil
	}
	var v []T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}
	return v, nil
}
