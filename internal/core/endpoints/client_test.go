package endpoints

import (
	"context"
	"path/filepath"
	"regexp"
	"testing"

	"forza-loanapp/internal/adapters/persistence/collections"
	"forza-loanapp/internal/adapters/persistence/kvstore"
	"forza-loanapp/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	store, err := kvstore.Open(filepath.Join(t.TempDir(), "test.db"), false)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return NewClient(collections.NewEngine(store))
}

func TestRegisterUserNormalizesPhone(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	created, err := client.RegisterUser(ctx, domain.User{
		FirstName: "Ana",
		Phone:     "064 123-456",
	})
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, "064123456", created.Phone)
	assert.NotEmpty(t, created.ID)
}

func TestLoginByPhoneMatchesAnyFormatting(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	_, err := client.RegisterUser(ctx, domain.User{FirstName: "Ana", Phone: "0641234567"})
	require.NoError(t, err)

	found, err := client.LoginByPhone(ctx, "064 123 4567")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "Ana", found.FirstName)
}

func TestLoginByPhoneMissReturnsNil(t *testing.T) {
	client := newTestClient(t)

	found, err := client.LoginByPhone(context.Background(), "0640000000")
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestGetUserByIDMissReturnsNil(t *testing.T) {
	client := newTestClient(t)

	user, err := client.GetUserByID(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestApplicationNumberFormat(t *testing.T) {
	pattern := regexp.MustCompile(`^LA\d{13,}\d{3}$`)
	for i := 0; i < 10; i++ {
		number := NewApplicationNumber()
		assert.True(t, pattern.MatchString(number), "unexpected format %q", number)
	}
}

func TestCreateApplicationAssignsNumber(t *testing.T) {
	client := newTestClient(t)

	created, err := client.CreateLoanApplication(context.Background(), domain.LoanApplication{
		UserID:     "u1",
		LoanAmount: 1000,
		Status:     domain.ApplicationPending,
	})
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Regexp(t, `^LA\d+$`, created.BrojAplikacije)
}

func TestStatusUpdateInvalidatesApplicationQueries(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	created, err := client.CreateLoanApplication(ctx, domain.LoanApplication{
		UserID: "u1",
		Status: domain.ApplicationPending,
	})
	require.NoError(t, err)

	// prime the cache for this user's list
	apps, err := client.GetUserLoanApplications(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, apps, 1)
	assert.Equal(t, domain.ApplicationPending, apps[0].Status)

	_, err = client.UpdateLoanApplicationStatus(ctx, created.ID, domain.ApplicationApproved)
	require.NoError(t, err)

	apps, err = client.GetUserLoanApplications(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, apps, 1)
	assert.Equal(t, domain.ApplicationApproved, apps[0].Status)
}

func TestCachedQueryDoesNotSeeRawEngineWrites(t *testing.T) {
	store, err := kvstore.Open(filepath.Join(t.TempDir(), "test.db"), false)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	engine := collections.NewEngine(store)
	client := NewClient(engine)
	ctx := context.Background()

	users, err := client.GetAllUsers(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)

	// write behind the client's back; the cached read must not notice
	_, err = engine.Do(ctx, collections.Request{
		Collection: collections.Users,
		Method:     collections.MethodPost,
		Body:       map[string]interface{}{"firstName": "Ana"},
	})
	require.NoError(t, err)

	users, err = client.GetAllUsers(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestClearAllData(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	_, err := client.RegisterUser(ctx, domain.User{FirstName: "Ana", Phone: "0641234567"})
	require.NoError(t, err)
	_, err = client.CreateLoanApplication(ctx, domain.LoanApplication{UserID: "u1"})
	require.NoError(t, err)
	_, err = client.CreateLoanDetails(ctx, domain.LoanDetails{UserID: "u1"})
	require.NoError(t, err)

	require.NoError(t, client.ClearAllData(ctx))

	users, err := client.GetAllUsers(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)

	apps, err := client.GetUserLoanApplications(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, apps)

	loans, err := client.GetUserLoanDetails(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, loans)
}
