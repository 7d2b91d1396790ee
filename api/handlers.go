/*
handlers.go - HTTP API handlers for the savings ledger

PURPOSE:
  Exposes the savings engine via REST API. Handles HTTP request/response,
  JSON serialization, and delegates every mutation to engine.Store.Dispatch.

ENDPOINTS:
  Clients:
    GET    /api/clients                     List all clients
    POST   /api/clients                     Register client
    GET    /api/clients/{id}                Client details
    PUT    /api/clients/{id}                Update client
    DELETE /api/clients/{id}                Remove client
    GET    /api/clients/{id}/balance        Computed balance summary
    POST   /api/clients/{id}/renew          Restart the savings cycle
    POST   /api/clients/{id}/payments/{day} Toggle a schedule day

  Ledger:
    POST   /api/clients/{id}/deposits       Record deposit
    POST   /api/clients/{id}/withdrawals    Record withdrawal
    GET    /api/transfers                   List transfers
    POST   /api/transfers                   Transfer between clients
    POST   /api/transactions/reverse        Void a transaction

  Loans:
    POST   /api/clients/{id}/loans                   Open application
    DELETE /api/clients/{id}/loans/{loanID}          Remove loan
    POST   /api/clients/{id}/loans/{loanID}/status   Lifecycle transition
    POST   /api/clients/{id}/loans/{loanID}/payments Record repayment
    GET    /api/clients/{id}/loans/{loanID}/summary  Amortization view

  Plans, tontines, backup, profile, notifications: see server.go

REQUEST FLOW:
  1. Decode and validate the request body (validator/v10)
  2. Build the engine action
  3. Dispatch; the engine validates business rules
  4. Map typed errors to HTTP status, serialize the result

ERROR HANDLING:
  - 400: Validation errors, business rule violations (engine.IsClientError)
  - 404: Missing references (engine.IsNotFound)
  - 500: Everything else

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
  - engine: Action vocabulary and validation rules
*/
package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/tkane/savings-engine/backup"
	"github.com/tkane/savings-engine/engine"
	"github.com/tkane/savings-engine/ledger"
	"github.com/tkane/savings-engine/tontine"
)

const dateLayout = "2006-01-02"

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Engine   *engine.Store
	validate *validator.Validate
	log      *logrus.Entry

	// now is swappable in tests.
	now func() time.Time
}

// NewHandler creates a handler around the engine store.
func NewHandler(eng *engine.Store, log *logrus.Entry) *Handler {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Handler{
		Engine:   eng,
		validate: validator.New(),
		log:      log,
		now:      time.Now,
	}
}

// decode parses and validates a request body.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Validation failed", err)
		return false
	}
	return true
}

// dispatch runs the action and writes the mapped error on failure.
func (h *Handler) dispatch(w http.ResponseWriter, action engine.Action) (engine.State, bool) {
	state, err := h.Engine.Dispatch(action)
	if err != nil {
		writeEngineError(w, err)
		return state, false
	}
	return state, true
}

func parseDate(w http.ResponseWriter, value string) (time.Time, bool) {
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
		return time.Time{}, false
	}
	return t, true
}

// =============================================================================
// CLIENT HANDLERS
// =============================================================================

// ListClients returns all clients.
func (h *Handler) ListClients(w http.ResponseWriter, r *http.Request) {
	state := h.Engine.State()
	if state.Clients == nil {
		state.Clients = []ledger.Client{}
	}
	writeJSON(w, http.StatusOK, state.Clients)
}

// GetClient returns a single client.
func (h *Handler) GetClient(w http.ResponseWriter, r *http.Request) {
	id := ledger.ClientID(chi.URLParam(r, "id"))
	client, ok := h.Engine.State().FindClient(id)
	if !ok {
		writeError(w, http.StatusNotFound, "Client not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, client)
}

// CreateClient registers a new client.
func (h *Handler) CreateClient(w http.ResponseWriter, r *http.Request) {
	var req CreateClientRequest
	if !h.decode(w, r, &req) {
		return
	}
	start, ok := parseDate(w, req.StartDate)
	if !ok {
		return
	}

	client := ledger.Client{
		ID:        ledger.NewClientID(),
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		PlanID:    ledger.PlanID(req.PlanID),
		StartDate: start,
		Active:    true,
	}
	state, ok := h.dispatch(w, engine.AddClient{Client: client})
	if !ok {
		return
	}

	created, _ := state.FindClient(client.ID)
	writeJSON(w, http.StatusCreated, created)
}

// UpdateClient replaces a client's details.
func (h *Handler) UpdateClient(w http.ResponseWriter, r *http.Request) {
	id := ledger.ClientID(chi.URLParam(r, "id"))
	var req UpdateClientRequest
	if !h.decode(w, r, &req) {
		return
	}
	start, ok := parseDate(w, req.StartDate)
	if !ok {
		return
	}

	client := ledger.Client{
		ID:        id,
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		PlanID:    ledger.PlanID(req.PlanID),
		StartDate: start,
		Active:    req.Active,
	}
	state, ok := h.dispatch(w, engine.UpdateClient{Client: client})
	if !ok {
		return
	}

	updated, _ := state.FindClient(id)
	writeJSON(w, http.StatusOK, updated)
}

// DeleteClient removes a client.
func (h *Handler) DeleteClient(w http.ResponseWriter, r *http.Request) {
	id := ledger.ClientID(chi.URLParam(r, "id"))
	if _, ok := h.dispatch(w, engine.DeleteClient{ClientID: id}); !ok {
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RenewClient restarts a client's savings cycle from a new start date.
func (h *Handler) RenewClient(w http.ResponseWriter, r *http.Request) {
	id := ledger.ClientID(chi.URLParam(r, "id"))
	var req RenewPlanRequest
	if !h.decode(w, r, &req) {
		return
	}
	start, ok := parseDate(w, req.StartDate)
	if !ok {
		return
	}

	state, ok := h.dispatch(w, engine.RenewClientPlan{ClientID: id, StartDate: start})
	if !ok {
		return
	}
	renewed, _ := state.FindClient(id)
	writeJSON(w, http.StatusOK, renewed)
}

// GetClientBalance returns the computed financial summary for a client.
func (h *Handler) GetClientBalance(w http.ResponseWriter, r *http.Request) {
	id := ledger.ClientID(chi.URLParam(r, "id"))
	state := h.Engine.State()
	client, ok := state.FindClient(id)
	if !ok {
		writeError(w, http.StatusNotFound, "Client not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, toBalanceDTO(client, state.Plans, state.Transfers))
}

// TogglePayment marks a schedule day paid or unpaid.
func (h *Handler) TogglePayment(w http.ResponseWriter, r *http.Request) {
	id := ledger.ClientID(chi.URLParam(r, "id"))
	day, err := strconv.Atoi(chi.URLParam(r, "day"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid day", err)
		return
	}
	var req TogglePaymentRequest
	if !h.decode(w, r, &req) {
		return
	}

	state, ok := h.dispatch(w, engine.TogglePayment{
		ClientID: id,
		Day:      day,
		Paid:     req.Paid,
		At:       h.now(),
	})
	if !ok {
		return
	}
	client, _ := state.FindClient(id)
	writeJSON(w, http.StatusOK, client)
}

// =============================================================================
// LEDGER HANDLERS
// =============================================================================

// CreateDeposit records a deposit for a client.
func (h *Handler) CreateDeposit(w http.ResponseWriter, r *http.Request) {
	id := ledger.ClientID(chi.URLParam(r, "id"))
	var req TransactionRequest
	if !h.decode(w, r, &req) {
		return
	}
	date, ok := parseDate(w, req.Date)
	if !ok {
		return
	}

	deposit := ledger.Deposit{
		ID:     ledger.NewTxID(),
		Amount: req.Amount,
		Date:   date,
		Note:   req.Note,
	}
	if _, ok := h.dispatch(w, engine.AddDeposit{ClientID: id, Deposit: deposit}); !ok {
		return
	}
	writeJSON(w, http.StatusCreated, deposit)
}

// CreateWithdrawal records a withdrawal for a client.
func (h *Handler) CreateWithdrawal(w http.ResponseWriter, r *http.Request) {
	id := ledger.ClientID(chi.URLParam(r, "id"))
	var req TransactionRequest
	if !h.decode(w, r, &req) {
		return
	}
	date, ok := parseDate(w, req.Date)
	if !ok {
		return
	}

	withdrawal := ledger.Withdrawal{
		ID:     ledger.NewTxID(),
		Amount: req.Amount,
		Date:   date,
		Note:   req.Note,
	}
	if _, ok := h.dispatch(w, engine.AddWithdrawal{ClientID: id, Withdrawal: withdrawal}); !ok {
		return
	}
	writeJSON(w, http.StatusCreated, withdrawal)
}

// ListTransfers returns all transfers.
func (h *Handler) ListTransfers(w http.ResponseWriter, r *http.Request) {
	state := h.Engine.State()
	if state.Transfers == nil {
		state.Transfers = []ledger.Transfer{}
	}
	writeJSON(w, http.StatusOK, state.Transfers)
}

// CreateTransfer moves funds between two clients.
func (h *Handler) CreateTransfer(w http.ResponseWriter, r *http.Request) {
	var req TransferRequest
	if !h.decode(w, r, &req) {
		return
	}
	date, ok := parseDate(w, req.Date)
	if !ok {
		return
	}

	transfer := ledger.Transfer{
		ID:           ledger.NewTxID(),
		FromClientID: ledger.ClientID(req.FromClientID),
		ToClientID:   ledger.ClientID(req.ToClientID),
		Amount:       req.Amount,
		Date:         date,
		Note:         req.Note,
	}
	if _, ok := h.dispatch(w, engine.AddTransfer{Transfer: transfer}); !ok {
		return
	}
	writeJSON(w, http.StatusCreated, transfer)
}

// ReverseTransaction voids a deposit, withdrawal, or transfer.
func (h *Handler) ReverseTransaction(w http.ResponseWriter, r *http.Request) {
	var req ReverseRequest
	if !h.decode(w, r, &req) {
		return
	}

	if _, ok := h.dispatch(w, engine.ReverseTransaction{
		ClientID:      ledger.ClientID(req.ClientID),
		TransactionID: ledger.TxID(req.TransactionID),
		Kind:          engine.TransactionKind(req.Kind),
		Note:          req.Note,
		At:            h.now(),
	}); !ok {
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// PLAN HANDLERS
// =============================================================================

// ListPlans returns all plans with derived totals.
func (h *Handler) ListPlans(w http.ResponseWriter, r *http.Request) {
	state := h.Engine.State()
	dtos := make([]PlanDTO, len(state.Plans))
	for i, p := range state.Plans {
		dtos[i] = toPlanDTO(p)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreatePlan adds a plan to the catalog.
func (h *Handler) CreatePlan(w http.ResponseWriter, r *http.Request) {
	var req PlanRequest
	if !h.decode(w, r, &req) {
		return
	}

	plan := ledger.Plan{
		ID:              ledger.NewPlanID(),
		Name:            req.Name,
		BaseAmount:      req.BaseAmount,
		Duration:        req.Duration,
		AdminPercentage: req.AdminPercentage,
		Description:     req.Description,
	}
	if _, ok := h.dispatch(w, engine.AddPlan{Plan: plan}); !ok {
		return
	}
	writeJSON(w, http.StatusCreated, toPlanDTO(plan))
}

// UpdatePlan replaces a plan in the catalog.
func (h *Handler) UpdatePlan(w http.ResponseWriter, r *http.Request) {
	id := ledger.PlanID(chi.URLParam(r, "id"))
	var req PlanRequest
	if !h.decode(w, r, &req) {
		return
	}

	plan := ledger.Plan{
		ID:              id,
		Name:            req.Name,
		BaseAmount:      req.BaseAmount,
		Duration:        req.Duration,
		AdminPercentage: req.AdminPercentage,
		Description:     req.Description,
	}
	if _, ok := h.dispatch(w, engine.UpdatePlan{Plan: plan}); !ok {
		return
	}
	writeJSON(w, http.StatusOK, toPlanDTO(plan))
}

// DeletePlan removes an unreferenced plan.
func (h *Handler) DeletePlan(w http.ResponseWriter, r *http.Request) {
	id := ledger.PlanID(chi.URLParam(r, "id"))
	if _, ok := h.dispatch(w, engine.DeletePlan{PlanID: id}); !ok {
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// LOAN HANDLERS
// =============================================================================

// CreateLoan opens a loan application for a client.
func (h *Handler) CreateLoan(w http.ResponseWriter, r *http.Request) {
	id := ledger.ClientID(chi.URLParam(r, "id"))
	var req LoanRequest
	if !h.decode(w, r, &req) {
		return
	}
	start, ok := parseDate(w, req.StartDate)
	if !ok {
		return
	}
	due, ok := parseDate(w, req.DueDate)
	if !ok {
		return
	}

	loan := ledger.Loan{
		ID:           ledger.NewLoanID(),
		Amount:       req.Amount,
		InterestRate: req.InterestRate,
		StartDate:    start,
		DueDate:      due,
		Status:       ledger.LoanPending,
		Note:         req.Note,
	}
	if _, ok := h.dispatch(w, engine.AddLoan{ClientID: id, Loan: loan}); !ok {
		return
	}
	writeJSON(w, http.StatusCreated, loan)
}

// DeleteLoan removes a loan.
func (h *Handler) DeleteLoan(w http.ResponseWriter, r *http.Request) {
	clientID := ledger.ClientID(chi.URLParam(r, "id"))
	loanID := ledger.LoanID(chi.URLParam(r, "loanID"))
	if _, ok := h.dispatch(w, engine.DeleteLoan{ClientID: clientID, LoanID: loanID}); !ok {
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UpdateLoanStatus transitions a loan through its lifecycle.
func (h *Handler) UpdateLoanStatus(w http.ResponseWriter, r *http.Request) {
	clientID := ledger.ClientID(chi.URLParam(r, "id"))
	loanID := ledger.LoanID(chi.URLParam(r, "loanID"))
	var req LoanStatusRequest
	if !h.decode(w, r, &req) {
		return
	}

	state, ok := h.dispatch(w, engine.UpdateLoanStatus{
		ClientID: clientID,
		LoanID:   loanID,
		Status:   ledger.LoanStatus(req.Status),
	})
	if !ok {
		return
	}
	client, _ := state.FindClient(clientID)
	loan, _ := client.FindLoan(loanID)
	writeJSON(w, http.StatusOK, loan)
}

// CreateLoanPayment records a repayment against an approved loan.
func (h *Handler) CreateLoanPayment(w http.ResponseWriter, r *http.Request) {
	clientID := ledger.ClientID(chi.URLParam(r, "id"))
	loanID := ledger.LoanID(chi.URLParam(r, "loanID"))
	var req LoanPaymentRequest
	if !h.decode(w, r, &req) {
		return
	}
	date, ok := parseDate(w, req.Date)
	if !ok {
		return
	}

	payment := ledger.LoanPayment{
		ID:     ledger.NewTxID(),
		Amount: req.Amount,
		Date:   date,
		Type:   ledger.LoanPaymentType(req.Type),
	}
	state, ok := h.dispatch(w, engine.AddLoanPayment{
		ClientID: clientID,
		LoanID:   loanID,
		Payment:  payment,
	})
	if !ok {
		return
	}
	client, _ := state.FindClient(clientID)
	loan, _ := client.FindLoan(loanID)
	writeJSON(w, http.StatusCreated, toLoanSummaryDTO(loan))
}

// GetLoanSummary returns the amortization view of a loan.
func (h *Handler) GetLoanSummary(w http.ResponseWriter, r *http.Request) {
	clientID := ledger.ClientID(chi.URLParam(r, "id"))
	loanID := ledger.LoanID(chi.URLParam(r, "loanID"))

	client, ok := h.Engine.State().FindClient(clientID)
	if !ok {
		writeError(w, http.StatusNotFound, "Client not found", nil)
		return
	}
	loan, ok := client.FindLoan(loanID)
	if !ok {
		writeError(w, http.StatusNotFound, "Loan not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, toLoanSummaryDTO(loan))
}

// =============================================================================
// TONTINE HANDLERS
// =============================================================================

// ListTontines returns all rotation groups.
func (h *Handler) ListTontines(w http.ResponseWriter, r *http.Request) {
	state := h.Engine.State()
	if state.TontineGroups == nil {
		state.TontineGroups = []tontine.Group{}
	}
	writeJSON(w, http.StatusOK, state.TontineGroups)
}

// GetTontine returns one group.
func (h *Handler) GetTontine(w http.ResponseWriter, r *http.Request) {
	id := tontine.GroupID(chi.URLParam(r, "id"))
	group, ok := h.Engine.State().FindGroup(id)
	if !ok {
		writeError(w, http.StatusNotFound, "Tontine group not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, group)
}

// CreateTontine creates a rotation group.
func (h *Handler) CreateTontine(w http.ResponseWriter, r *http.Request) {
	var req TontineGroupRequest
	if !h.decode(w, r, &req) {
		return
	}
	start, ok := parseDate(w, req.StartDate)
	if !ok {
		return
	}

	group := tontine.Group{
		ID:                 tontine.NewGroupID(),
		Name:               req.Name,
		ContributionAmount: req.ContributionAmount,
		MemberCount:        req.MemberCount,
		Interval:           tontine.Interval(req.Interval),
		CustomDays:         req.CustomDays,
		StartDate:          start,
		Status:             tontine.GroupPending,
		Description:        req.Description,
	}
	if _, ok := h.dispatch(w, engine.AddTontineGroup{Group: group}); !ok {
		return
	}
	writeJSON(w, http.StatusCreated, group)
}

// UpdateTontine replaces group settings.
func (h *Handler) UpdateTontine(w http.ResponseWriter, r *http.Request) {
	id := tontine.GroupID(chi.URLParam(r, "id"))
	existing, found := h.Engine.State().FindGroup(id)
	if !found {
		writeError(w, http.StatusNotFound, "Tontine group not found", nil)
		return
	}

	var req TontineGroupRequest
	if !h.decode(w, r, &req) {
		return
	}
	start, ok := parseDate(w, req.StartDate)
	if !ok {
		return
	}

	group := existing
	group.Name = req.Name
	group.ContributionAmount = req.ContributionAmount
	group.MemberCount = req.MemberCount
	group.Interval = tontine.Interval(req.Interval)
	group.CustomDays = req.CustomDays
	group.StartDate = start
	group.Description = req.Description

	if _, ok := h.dispatch(w, engine.UpdateTontineGroup{Group: group}); !ok {
		return
	}
	writeJSON(w, http.StatusOK, group)
}

// DeleteTontine removes a group.
func (h *Handler) DeleteTontine(w http.ResponseWriter, r *http.Request) {
	id := tontine.GroupID(chi.URLParam(r, "id"))
	if _, ok := h.dispatch(w, engine.DeleteTontineGroup{GroupID: id}); !ok {
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddTontineMember admits a client into a group at a payout order.
func (h *Handler) AddTontineMember(w http.ResponseWriter, r *http.Request) {
	id := tontine.GroupID(chi.URLParam(r, "id"))
	var req AddMemberRequest
	if !h.decode(w, r, &req) {
		return
	}

	state, ok := h.dispatch(w, engine.AddTontineMember{
		GroupID:     id,
		ClientID:    ledger.ClientID(req.ClientID),
		PayoutOrder: req.PayoutOrder,
	})
	if !ok {
		return
	}
	group, _ := state.FindGroup(id)
	writeJSON(w, http.StatusCreated, group)
}

// UpdateContribution marks a member's contribution paid or pending.
func (h *Handler) UpdateContribution(w http.ResponseWriter, r *http.Request) {
	groupID := tontine.GroupID(chi.URLParam(r, "id"))
	memberID := tontine.MemberID(chi.URLParam(r, "memberID"))
	contributionID := tontine.ContributionID(chi.URLParam(r, "contributionID"))
	var req ContributionRequest
	if !h.decode(w, r, &req) {
		return
	}

	state, ok := h.dispatch(w, engine.UpdateTontineContribution{
		GroupID:        groupID,
		MemberID:       memberID,
		ContributionID: contributionID,
		Status:         tontine.ContributionStatus(req.Status),
	})
	if !ok {
		return
	}
	group, _ := state.FindGroup(groupID)
	writeJSON(w, http.StatusOK, group)
}

// GetEligibility reports whether a member can receive their payout now.
func (h *Handler) GetEligibility(w http.ResponseWriter, r *http.Request) {
	groupID := tontine.GroupID(chi.URLParam(r, "id"))
	memberID := tontine.MemberID(chi.URLParam(r, "memberID"))

	group, ok := h.Engine.State().FindGroup(groupID)
	if !ok {
		writeError(w, http.StatusNotFound, "Tontine group not found", nil)
		return
	}
	dto, ok := toEligibilityDTO(group, memberID, h.now())
	if !ok {
		writeError(w, http.StatusNotFound, "Member not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, dto)
}

// =============================================================================
// BACKUP HANDLERS
// =============================================================================

// ExportBackup returns the encrypted snapshot.
func (h *Handler) ExportBackup(w http.ResponseWriter, r *http.Request) {
	var req BackupExportRequest
	if !h.decode(w, r, &req) {
		return
	}

	snapshot, err := json.Marshal(h.Engine.State())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to encode snapshot", err)
		return
	}
	envelope, err := backup.Encrypt(snapshot, req.Password)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to encrypt backup", err)
		return
	}

	writeJSON(w, http.StatusOK, BackupExportDTO{
		Data:       envelope,
		ExportedAt: h.now(),
	})
}

// ImportBackup replaces the aggregate with a decrypted snapshot.
func (h *Handler) ImportBackup(w http.ResponseWriter, r *http.Request) {
	var req BackupImportRequest
	if !h.decode(w, r, &req) {
		return
	}

	snapshot, err := backup.Decrypt(req.Data, req.Password)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to decrypt backup", err)
		return
	}
	var state engine.State
	if err := json.Unmarshal(snapshot, &state); err != nil {
		writeError(w, http.StatusBadRequest, "Backup contains an invalid snapshot", err)
		return
	}

	if _, ok := h.dispatch(w, engine.LoadSnapshot{State: state}); !ok {
		return
	}
	h.log.Info("snapshot restored from backup")
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// PROFILE & NOTIFICATION HANDLERS
// =============================================================================

// GetProfile returns the admin profile.
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Engine.State().AdminProfile)
}

// UpdateProfile replaces the admin profile.
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req ProfileRequest
	if !h.decode(w, r, &req) {
		return
	}

	existing := h.Engine.State().AdminProfile
	profile := engine.AdminProfile{
		Name:             req.Name,
		Email:            req.Email,
		Role:             req.Role,
		Avatar:           req.Avatar,
		LastLogin:        existing.LastLogin,
		TwoFactorEnabled: req.TwoFactorEnabled,
	}
	if _, ok := h.dispatch(w, engine.UpdateAdminProfile{Profile: profile}); !ok {
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// ListNotifications returns all notifications, newest first.
func (h *Handler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	state := h.Engine.State()
	if state.Notifications == nil {
		state.Notifications = []engine.Notification{}
	}
	writeJSON(w, http.StatusOK, state.Notifications)
}

// CreateNotification publishes a notification.
func (h *Handler) CreateNotification(w http.ResponseWriter, r *http.Request) {
	var req NotificationRequest
	if !h.decode(w, r, &req) {
		return
	}

	notification := engine.Notification{
		ID:       engine.NewNotificationID(),
		Title:    req.Title,
		Message:  req.Message,
		Type:     req.Type,
		Date:     h.now(),
		Link:     req.Link,
		Category: req.Category,
		Priority: req.Priority,
	}
	if _, ok := h.dispatch(w, engine.AddNotification{Notification: notification}); !ok {
		return
	}
	writeJSON(w, http.StatusCreated, notification)
}

// MarkNotificationRead flags one notification as read.
func (h *Handler) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	id := engine.NotificationID(chi.URLParam(r, "id"))
	if _, ok := h.dispatch(w, engine.MarkNotificationRead{NotificationID: id}); !ok {
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ClearNotifications removes all notifications.
func (h *Handler) ClearNotifications(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.dispatch(w, engine.ClearNotifications{}); !ok {
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

func writeEngineError(w http.ResponseWriter, err error) {
	switch {
	case engine.IsNotFound(err):
		writeError(w, http.StatusNotFound, err.Error(), nil)
	case engine.IsClientError(err):
		writeError(w, http.StatusBadRequest, err.Error(), nil)
	default:
		writeError(w, http.StatusInternalServerError, "Internal error", err)
	}
}
