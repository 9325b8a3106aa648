package services

import (
	"context"
	"testing"

	"forza-loanapp/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRegistration() RegistrationInput {
	return RegistrationInput{
		Email:           "ana@example.com",
		Password:        "secret1",
		ConfirmPassword: "secret1",
	}
}

func TestRegistrationSuccess(t *testing.T) {
	f := newFixture(t)
	fillDraft(t, f)
	ctx := context.Background()

	app, err := f.registration.Submit(ctx, validRegistration())
	require.NoError(t, err)

	assert.Equal(t, domain.ApplicationPending, app.Status)
	assert.Equal(t, "microloan", app.SelectedProduct)

	// account created and session authenticated
	assert.True(t, f.authStore.IsAuthenticated())
	user := f.authStore.CurrentUser()
	require.NotNil(t, user)
	assert.Equal(t, "Ana", user.FirstName)
	assert.Equal(t, user.ID, app.UserID)

	// wizard moved to the documents step
	assert.Equal(t, domain.StepDocuments, f.form.Snapshot().CurrentStep)

	// markers stay as written: in-process and pending-loan both survive
	inProcess, err := f.prefs.InLoanProcess(ctx)
	require.NoError(t, err)
	assert.True(t, inProcess)

	pending, err := f.prefs.PendingLoan(ctx)
	require.NoError(t, err)
	require.NotNil(t, pending)
	assert.Equal(t, "microloan", pending.LoanData.SelectedProduct)
	assert.Equal(t, float64(2000), pending.LoanData.LoanAmount)
}

func TestRegistrationValidationNeverCreatesAccount(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(f *fixture, in *RegistrationInput)
		wantErr error
	}{
		{
			name: "missing applicant fields",
			mutate: func(f *fixture, in *RegistrationInput) {
				require.NoError(t, f.form.SetApplicant(context.Background(), domain.ApplicantData{
					FirstName: "Ana",
				}))
			},
			wantErr: ErrFieldsRequired,
		},
		{
			name: "jmbg wrong length",
			mutate: func(f *fixture, in *RegistrationInput) {
				require.NoError(t, f.form.SetApplicant(context.Background(), domain.ApplicantData{
					FirstName: "Ana",
					LastName:  "Anic",
					Phone:     "0641234567",
					JMBG:      "123",
				}))
			},
			wantErr: ErrJMBGLength,
		},
		{
			name: "password too short",
			mutate: func(f *fixture, in *RegistrationInput) {
				in.Password = "abc"
				in.ConfirmPassword = "abc"
			},
			wantErr: ErrPasswordTooShort,
		},
		{
			name: "passwords do not match",
			mutate: func(f *fixture, in *RegistrationInput) {
				in.ConfirmPassword = "different"
			},
			wantErr: ErrPasswordMismatch,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			fillDraft(t, f)
			ctx := context.Background()

			input := validRegistration()
			tc.mutate(f, &input)

			_, err := f.registration.Submit(ctx, input)
			assert.ErrorIs(t, err, tc.wantErr)

			users, err := f.client.GetAllUsers(ctx)
			require.NoError(t, err)
			assert.Empty(t, users)

			assert.False(t, f.authStore.IsAuthenticated())

			// in-process marker rolled back on validation failure
			inProcess, err := f.prefs.InLoanProcess(ctx)
			require.NoError(t, err)
			assert.False(t, inProcess)
		})
	}
}

func TestRegistrationSubmissionFailureRollsBackMarkers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// applicant fields pass validation but the draft has no product, so the
	// application submission inside the flow fails after account creation
	require.NoError(t, f.form.SetApplicant(ctx, domain.ApplicantData{
		FirstName: "Ana",
		LastName:  "Anic",
		Phone:     "0641234567",
		JMBG:      "0101990123456",
	}))

	_, err := f.registration.Submit(ctx, validRegistration())
	assert.ErrorIs(t, err, ErrSubmissionFailed)
	assert.ErrorIs(t, err, domain.ErrNoProductSelected)

	inProcess, err := f.prefs.InLoanProcess(ctx)
	require.NoError(t, err)
	assert.False(t, inProcess)

	pending, err := f.prefs.PendingLoan(ctx)
	require.NoError(t, err)
	assert.Nil(t, pending)

	// the account itself was created before the failure and is kept
	users, err := f.client.GetAllUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestRegistrationAuthenticatedSessionSkipsAccountCreation(t *testing.T) {
	f := newFixture(t)
	fillDraft(t, f)
	ctx := context.Background()

	require.NoError(t, f.auth.LoginAs(ctx, &domain.User{ID: "existing"}))

	app, err := f.registration.Submit(ctx, RegistrationInput{})
	require.NoError(t, err)
	assert.Equal(t, "existing", app.UserID)

	users, err := f.client.GetAllUsers(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)

	assert.Equal(t, domain.StepDocuments, f.form.Snapshot().CurrentStep)
}

func TestRegistrationNotReentrant(t *testing.T) {
	f := newFixture(t)

	f.registration.processing.Store(true)
	_, err := f.registration.Submit(context.Background(), validRegistration())
	assert.ErrorIs(t, err, ErrAlreadyProcessing)
}
