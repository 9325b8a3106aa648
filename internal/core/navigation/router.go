// Package navigation implements the app shell's flat screen router: one
// mutable current-screen value, no history stack. Transitions are pure
// functions of (state, event); the Router wrapper adds the persisted side
// effects (draft reset, in-loan-process flag) around them.
package navigation

import (
	"context"
	"sync"

	"forza-loanapp/internal/core/session"
)

// Screen identifies one of the app's screens
type Screen string

const (
	ScreenHome          Screen = "home"
	ScreenLoan          Screen = "loan"
	ScreenLogin         Screen = "login"
	ScreenRegister      Screen = "register"
	ScreenOTP           Screen = "otp"
	ScreenPassword      Screen = "password"
	ScreenBiometrics    Screen = "biometrics"
	ScreenProducts      Screen = "products"
	ScreenProfile       Screen = "profile"
	ScreenCallback      Screen = "callback"
	ScreenFirstPage     Screen = "firstpage"
	ScreenHowToPay      Screen = "howtopay"
	ScreenLocations     Screen = "locations"
	ScreenContacts      Screen = "contacts"
	ScreenResetPassword Screen = "resetpassword"
)

// IsValid reports whether the screen is a known destination
func (s Screen) IsValid() bool {
	switch s {
	case ScreenHome, ScreenLoan, ScreenLogin, ScreenRegister, ScreenOTP,
		ScreenPassword, ScreenBiometrics, ScreenProducts, ScreenProfile,
		ScreenCallback, ScreenFirstPage, ScreenHowToPay, ScreenLocations,
		ScreenContacts, ScreenResetPassword:
		return true
	}
	return false
}

// Params is the tagged union of per-destination navigation parameters.
// Each destination that accepts parameters has its own variant; screens
// without parameters navigate with a nil Params.
type Params interface {
	isParams()
}

// ProductsParams selects the initial tab on the products screen
type ProductsParams struct {
	Tab string
}

func (ProductsParams) isParams() {}

// PasswordParams selects the passcode screen mode
type PasswordParams struct {
	Mode string // "enter" or "create"
}

func (PasswordParams) isParams() {}

// State is the router's whole world: the current screen, its parameters,
// and the callback overlay bookkeeping
type State struct {
	Current         Screen
	Params          Params
	CallbackVisible bool
	CallbackSource  Screen
	InLoanProcess   bool
}

// Event is a navigation input
type Event interface {
	isEvent()
}

// Navigate moves to a destination screen
type Navigate struct {
	To     Screen
	Params Params
}

func (Navigate) isEvent() {}

// CloseCallback dismisses the callback overlay. The session facts are
// carried on the event so the transition stays pure.
type CloseCallback struct {
	Authenticated  bool
	PasscodeExists bool
}

func (CloseCallback) isEvent() {}

// ExitLoanProcess leaves the loan wizard
type ExitLoanProcess struct{}

func (ExitLoanProcess) isEvent() {}

// Transition applies an event to a state and returns the next state.
// Navigating to the callback screen does not change the current screen:
// it opens the overlay and remembers where it came from.
func Transition(state State, event Event) State {
	switch ev := event.(type) {
	case Navigate:
		if ev.To == ScreenCallback {
			state.CallbackSource = state.Current
			state.CallbackVisible = true
			return state
		}
		if ev.To == ScreenLoan {
			state.InLoanProcess = true
		}
		state.Current = ev.To
		state.Params = ev.Params
		return state

	case CloseCallback:
		state.CallbackVisible = false
		if state.CallbackSource != "" {
			state.Current = state.CallbackSource
			state.CallbackSource = ""
			return state
		}
		state.Current = fallbackScreen(ev.Authenticated, ev.PasscodeExists)
		return state

	case ExitLoanProcess:
		state.InLoanProcess = false
		return state
	}
	return state
}

// InitialScreen resolves the startup screen by priority: an in-flight loan
// process wins, then an authenticated session (passcode gate first when one
// exists), then the anonymous landing page.
func InitialScreen(inLoanProcess, authenticated, passcodeExists bool) Screen {
	if inLoanProcess {
		return ScreenLoan
	}
	if authenticated {
		return fallbackScreen(true, passcodeExists)
	}
	return ScreenFirstPage
}

func fallbackScreen(authenticated, passcodeExists bool) Screen {
	if !authenticated {
		return ScreenFirstPage
	}
	if passcodeExists {
		return ScreenPassword
	}
	return ScreenHome
}

// Router owns the current-screen pointer and wires the persisted side
// effects around the pure transitions. The router state itself is never
// persisted; only the in-loan-process flag survives restarts.
type Router struct {
	mu    sync.Mutex
	state State
	auth  *session.AuthStore
	form  *session.LoanFormStore
	prefs *session.Prefs
}

// NewRouter creates a router over the session stores
func NewRouter(auth *session.AuthStore, form *session.LoanFormStore, prefs *session.Prefs) *Router {
	return &Router{auth: auth, form: form, prefs: prefs}
}

// Resolve determines and records the startup screen
func (r *Router) Resolve(ctx context.Context) (Screen, error) {
	inLoan, err := r.prefs.InLoanProcess(ctx)
	if err != nil {
		return "", err
	}
	passcode, err := r.prefs.PasscodeExists(ctx)
	if err != nil {
		return "", err
	}

	screen := InitialScreen(inLoan, r.auth.IsAuthenticated(), passcode)

	r.mu.Lock()
	r.state.Current = screen
	r.state.Params = nil
	r.state.InLoanProcess = inLoan
	r.mu.Unlock()
	return screen, nil
}

// NavigateTo moves to a destination. Entering the loan screen resets the
// draft and persists the in-loan-process flag before the transition.
func (r *Router) NavigateTo(ctx context.Context, to Screen, params Params) error {
	if to == ScreenLoan {
		if err := r.form.Reset(ctx); err != nil {
			return err
		}
		if err := r.prefs.SetInLoanProcess(ctx); err != nil {
			return err
		}
	}

	r.mu.Lock()
	r.state = Transition(r.state, Navigate{To: to, Params: params})
	r.mu.Unlock()
	return nil
}

// CloseCallback dismisses the callback overlay, restoring the remembered
// screen or falling back by session state
func (r *Router) CloseCallback(ctx context.Context) error {
	passcode, err := r.prefs.PasscodeExists(ctx)
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.state = Transition(r.state, CloseCallback{
		Authenticated:  r.auth.IsAuthenticated(),
		PasscodeExists: passcode,
	})
	r.mu.Unlock()
	return nil
}

// ExitLoanProcess leaves the wizard and clears the persisted flag
func (r *Router) ExitLoanProcess(ctx context.Context) error {
	if err := r.prefs.ClearInLoanProcess(ctx); err != nil {
		return err
	}

	r.mu.Lock()
	r.state = Transition(r.state, ExitLoanProcess{})
	r.mu.Unlock()
	return nil
}

// State returns a copy of the router state
func (r *Router) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}
