package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/rl1809/cold-storage/internal/core/domain"
	"github.com/rl1809/cold-storage/internal/core/service"
)

const (
	defaultBodyLimit  = 1 << 20
	settingsBodyLimit = 10 << 20
)

type HTTPHandler struct {
	ledger   *service.LedgerService
	admin    *service.LedgerAdminService
	accounts *service.AccountService
	logger   *zap.Logger
}

type SubmitEntryHTTPResponse struct {
	Success   bool                   `json:"success"`
	Entry     *domain.InventoryEntry `json:"entry"`
	LotNumber string                 `json:"lotNumber"`
}

type ErrorHTTPResponse struct {
	Error     string `json:"error"`
	LotNumber string `json:"lotNumber,omitempty"`
}

type SuccessHTTPResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

type orgRequest struct {
	OrgID string `json:"orgId"`
}

type entryRequest struct {
	OrgID   string `json:"orgId"`
	EntryID string `json:"entryId"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type addEmployeeRequest struct {
	OrgID    string `json:"orgId"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type removeEmployeeRequest struct {
	UserID string `json:"userId"`
}

type settingsRequest struct {
	OrgID        string `json:"orgId"`
	WatermarkURL string `json:"watermarkUrl"`
}

func NewHTTPHandler(ledger *service.LedgerService, admin *service.LedgerAdminService, accounts *service.AccountService, logger *zap.Logger) *HTTPHandler {
	return &HTTPHandler{
		ledger:   ledger,
		admin:    admin,
		accounts: accounts,
		logger:   logger,
	}
}

func (h *HTTPHandler) SubmitEntry(w http.ResponseWriter, r *http.Request) {
	var req SubmitEntryHTTPRequest
	if !h.decode(w, r, defaultBodyLimit, &req) {
		return
	}

	in := req.Input()
	if in.IdempotencyKey == "" {
		in.IdempotencyKey = r.Header.Get("Idempotency-Key")
	}

	entry, err := h.ledger.SubmitEntry(r.Context(), in)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, SubmitEntryHTTPResponse{
		Success:   true,
		Entry:     entry,
		LotNumber: entry.FullLotNumber,
	})
}

func (h *HTTPHandler) GetEntry(w http.ResponseWriter, r *http.Request) {
	var req entryRequest
	if !h.decode(w, r, defaultBodyLimit, &req) {
		return
	}

	entry, err := h.ledger.GetEntry(r.Context(), req.OrgID, req.EntryID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (h *HTTPHandler) ListEntries(w http.ResponseWriter, r *http.Request) {
	var req orgRequest
	if !h.decode(w, r, defaultBodyLimit, &req) {
		return
	}

	entries, err := h.admin.ListEntries(r.Context(), req.OrgID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *HTTPHandler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	var req entryRequest
	if !h.decode(w, r, defaultBodyLimit, &req) {
		return
	}

	if err := h.admin.DeleteEntry(r.Context(), req.EntryID); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, SuccessHTTPResponse{Success: true})
}

func (h *HTTPHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !h.decode(w, r, defaultBodyLimit, &req) {
		return
	}

	session, err := h.accounts.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (h *HTTPHandler) AddEmployee(w http.ResponseWriter, r *http.Request) {
	var req addEmployeeRequest
	if !h.decode(w, r, defaultBodyLimit, &req) {
		return
	}

	_, err := h.accounts.AddEmployee(r.Context(), service.AddEmployeeInput{
		OrgID:    req.OrgID,
		Name:     req.Name,
		Phone:    req.Phone,
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, SuccessHTTPResponse{Success: true, Message: "Employee Created"})
}

func (h *HTTPHandler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	var req orgRequest
	if !h.decode(w, r, defaultBodyLimit, &req) {
		return
	}

	profiles, err := h.accounts.ListEmployees(r.Context(), req.OrgID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profiles)
}

func (h *HTTPHandler) RemoveEmployee(w http.ResponseWriter, r *http.Request) {
	var req removeEmployeeRequest
	if !h.decode(w, r, defaultBodyLimit, &req) {
		return
	}

	if err := h.accounts.RemoveEmployee(r.Context(), req.UserID); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, SuccessHTTPResponse{Success: true})
}

func (h *HTTPHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req settingsRequest
	if !h.decode(w, r, settingsBodyLimit, &req) {
		return
	}

	if err := h.accounts.UpdateWatermark(r.Context(), req.OrgID, req.WatermarkURL); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, SuccessHTTPResponse{Success: true})
}

func (h *HTTPHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *HTTPHandler) decode(w http.ResponseWriter, r *http.Request, limit int64, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, ErrorHTTPResponse{Error: "request body too large"})
			return false
		}
		writeJSON(w, http.StatusBadRequest, ErrorHTTPResponse{Error: "invalid request body"})
		return false
	}
	return true
}

func (h *HTTPHandler) writeError(w http.ResponseWriter, err error) {
	status, resp := httpError(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", zap.Int("status", status), zap.Error(err))
	}
	writeJSON(w, status, resp)
}

func httpError(err error) (int, ErrorHTTPResponse) {
	var valErr *domain.ValidationError
	var allocErr *domain.AllocationError
	var persistErr *domain.PersistenceError

	switch {
	case errors.As(err, &valErr):
		return http.StatusBadRequest, ErrorHTTPResponse{Error: valErr.Error()}
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, ErrorHTTPResponse{Error: "Invalid User ID or Password"}
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, ErrorHTTPResponse{Error: "not found"}
	case errors.Is(err, domain.ErrDuplicateRequest):
		return http.StatusConflict, ErrorHTTPResponse{Error: "duplicate request"}
	case errors.Is(err, domain.ErrUsernameTaken):
		return http.StatusConflict, ErrorHTTPResponse{Error: "username already taken"}
	case errors.As(err, &allocErr):
		return http.StatusInternalServerError, ErrorHTTPResponse{Error: "could not allocate lot number"}
	case errors.As(err, &persistErr):
		return http.StatusInternalServerError, ErrorHTTPResponse{
			Error:     "entry not saved",
			LotNumber: persistErr.LotNumber,
		}
	default:
		return http.StatusInternalServerError, ErrorHTTPResponse{Error: "internal error"}
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
