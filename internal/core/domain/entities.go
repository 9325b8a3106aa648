package domain

import "time"

// ApplicationStatus represents the lifecycle state of a loan application
type ApplicationStatus string

const (
	ApplicationPending   ApplicationStatus = "pending"
	ApplicationApproved  ApplicationStatus = "approved"
	ApplicationRejected  ApplicationStatus = "rejected"
	ApplicationCompleted ApplicationStatus = "completed"
)

// IsValid reports whether the status is one of the known application states
func (s ApplicationStatus) IsValid() bool {
	switch s {
	case ApplicationPending, ApplicationApproved, ApplicationRejected, ApplicationCompleted:
		return true
	}
	return false
}

// LoanStatus represents the state of a disbursed loan
type LoanStatus string

const (
	LoanActive  LoanStatus = "active"
	LoanPaid    LoanStatus = "paid"
	LoanOverdue LoanStatus = "overdue"
)

// LoanStep is a position in the loan application wizard
type LoanStep string

const (
	StepProductCategories LoanStep = "productcategories"
	StepCalculator        LoanStep = "calculator"
	StepRegistration      LoanStep = "registration"
	StepDocuments         LoanStep = "documents"
	StepConfirmation      LoanStep = "confirmation"
)

// LoanSteps is the wizard order. Next/Previous transitions clamp at the ends.
var LoanSteps = []LoanStep{
	StepProductCategories,
	StepCalculator,
	StepRegistration,
	StepDocuments,
	StepConfirmation,
}

// User represents a registered applicant.
// Password holds a bcrypt hash, never the plaintext credential.
type User struct {
	ID                 string    `json:"id"`
	FirstName          string    `json:"firstName"`
	LastName           string    `json:"lastName"`
	Phone              string    `json:"phone"` // digits-only canonical form
	JMBG               string    `json:"jmbg"`  // 13-digit national ID
	Email              string    `json:"email,omitempty"`
	Password           string    `json:"password"`
	Avatar             string    `json:"avatar,omitempty"`
	ResidentialAddress string    `json:"residentialAddress,omitempty"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt,omitempty"`
}

// LoanApplication represents a submitted credit request
type LoanApplication struct {
	ID              string            `json:"id"`
	UserID          string            `json:"userId"`
	BrojAplikacije  string            `json:"brojAplikacije"` // human-facing application number
	Status          ApplicationStatus `json:"status"`
	SelectedProduct string            `json:"selectedProduct"`
	LoanAmount      float64           `json:"loanAmount"`
	LoanPeriod      int               `json:"loanPeriod"` // months
	ApplicationDate time.Time         `json:"applicationDate"`
	LoanAmountValue float64           `json:"loanAmountValue"`
	MonthlyPayment  float64           `json:"monthlyPayment,omitempty"`
	CreatedAt       time.Time         `json:"createdAt"`
	UpdatedAt       time.Time         `json:"updatedAt"`
}

// LoanDetails represents a disbursed loan derived from an approved application
type LoanDetails struct {
	ID              string     `json:"id"`
	ApplicationID   string     `json:"applicationId"`
	UserID          string     `json:"userId"`
	CreationDate    time.Time  `json:"creationDate"`
	LoanAmount      float64    `json:"loanAmount"`
	Status          LoanStatus `json:"status"`
	RemainingAmount float64    `json:"remainingAmount"`
	NextPaymentDate *time.Time `json:"nextPaymentDate,omitempty"`
	CreatedAt       time.Time  `json:"createdAt,omitempty"`
	UpdatedAt       time.Time  `json:"updatedAt,omitempty"`
}

// LoanProduct is a catalog entry shown on the product selection step
type LoanProduct struct {
	ID        string    `json:"id"`
	Key       string    `json:"key"`
	Icon      string    `json:"icon"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}

// ApplicantData is the draft applicant section of the loan form
type ApplicantData struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
	JMBG      string `json:"jmbg"`
}

// LoanFormData is the in-progress multi-step application draft
type LoanFormData struct {
	SelectedProduct string        `json:"selectedProduct"`
	LoanAmount      float64       `json:"loanAmount"`
	LoanPeriod      int           `json:"loanPeriod"`
	UserData        ApplicantData `json:"userData"`
	CurrentStep     LoanStep      `json:"currentStep"`
}

// PendingLoan is the persisted marker written between account creation and
// application submission in the registration-and-apply flow
type PendingLoan struct {
	User     *User           `json:"user"`
	LoanData PendingLoanData `json:"loanData"`
}

// PendingLoanData carries just the draft figures needed to resume a submission
type PendingLoanData struct {
	SelectedProduct string  `json:"selectedProduct"`
	LoanAmount      float64 `json:"loanAmount"`
	LoanPeriod      int     `json:"loanPeriod"`
}

// ApplicationsStats aggregates a user's applications by status
type ApplicationsStats struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	Approved  int `json:"approved"`
	Rejected  int `json:"rejected"`
	Completed int `json:"completed"`
}

// LoansStats aggregates a user's disbursed loans by status.
// TotalDebt sums remaining amounts over active loans only.
type LoansStats struct {
	Total     int     `json:"total"`
	Active    int     `json:"active"`
	Paid      int     `json:"paid"`
	Overdue   int     `json:"overdue"`
	TotalDebt float64 `json:"totalDebt"`
}
