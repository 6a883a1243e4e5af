package handlers

import (
	"net/http"

	"feeder-workbench/application/commands"
	"feeder-workbench/application/queries"
)

// SessionHandler covers login, the quota view and payments
type SessionHandler struct {
	Dispatcher
}

// NewSessionHandler creates a session handler
func NewSessionHandler(d Dispatcher) *SessionHandler {
	return &SessionHandler{Dispatcher: d}
}

// GetSession handles GET /session
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	h.ask(w, r, queries.GetSessionQuery{})
}

// GetPermissions handles GET /permissions
func (h *SessionHandler) GetPermissions(w http.ResponseWriter, r *http.Request) {
	h.ask(w, r, queries.GetPermissionsQuery{})
}

// AuthURL handles POST /session/auth-url
func (h *SessionHandler) AuthURL(w http.ResponseWriter, r *http.Request) {
	var q queries.GetAuthURLQuery
	if !h.decode(w, r, &q) {
		return
	}
	h.ask(w, r, q)
}

// Login handles POST /session/login
func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	var cmd commands.LoginCommand
	if !h.decode(w, r, &cmd) {
		return
	}
	h.send(w, r, cmd, http.StatusOK)
}

// Refresh handles POST /session/refresh
func (h *SessionHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	h.send(w, r, commands.RefreshTokenCommand{}, http.StatusOK)
}

// Logout handles POST /session/logout
func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.send(w, r, commands.LogoutCommand{}, http.StatusOK)
}

// Checkout handles POST /payments/checkout
func (h *SessionHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var cmd commands.CreateCheckoutCommand
	if !h.decode(w, r, &cmd) {
		return
	}
	h.send(w, r, cmd, http.StatusCreated)
}

// PaymentHistory handles GET /payments/history
func (h *SessionHandler) PaymentHistory(w http.ResponseWriter, r *http.Request) {
	h.ask(w, r, queries.PaymentHistoryQuery{})
}
