package apihttp

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"hydrotrack-cloud/internal/auth"
	"hydrotrack-cloud/internal/dashboard"
	"hydrotrack-cloud/internal/ledger"
	"hydrotrack-cloud/internal/observability/metrics"
	"hydrotrack-cloud/internal/users"
)

// LoginHandler exchanges operator credentials for a session token.
type LoginHandler struct {
	users    users.Repository
	secret   []byte
	tokenTTL time.Duration
}

// NewLoginHandler constructs a LoginHandler.
func NewLoginHandler(repo users.Repository, secret []byte, tokenTTL time.Duration) (*LoginHandler, error) {
	if repo == nil {
		return nil, errors.New("apihttp: nil user repository")
	}
	if len(secret) == 0 {
		return nil, errors.New("apihttp: empty secret")
	}
	if tokenTTL <= 0 {
		return nil, errors.New("apihttp: invalid token ttl")
	}
	return &LoginHandler{users: repo, secret: secret, tokenTTL: tokenTTL}, nil
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token          string `json:"token"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	StationName    string `json:"station_name"`
	BusinessPermit string `json:"business_permit"`
	ContactNumber  string `json:"contact_number"`
	Address        string `json:"address"`
}

// ServeHTTP handles POST /api/v1/login.
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	session, account, err := dashboard.Login(h.users, req.Email, req.Password)
	if errors.Is(err, dashboard.ErrInvalidCredentials) {
		http.Error(w, "invalid email or password", http.StatusUnauthorized)
		return
	}
	if err != nil {
		http.Error(w, "login error", http.StatusInternalServerError)
		return
	}
	token, err := auth.IssueJWT(session.Operator(), h.secret, h.tokenTTL, time.Now())
	if err != nil {
		http.Error(w, "login error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{
		Token:          token,
		Name:           account.Name,
		Email:          account.Email,
		StationName:    account.StationName,
		BusinessPermit: account.BusinessPermit,
		ContactNumber:  account.ContactNumber,
		Address:        account.Address,
	})
}

// DashboardHandler serves the latest fleet snapshot.
type DashboardHandler struct {
	controller *dashboard.Controller
}

// NewDashboardHandler constructs a DashboardHandler.
func NewDashboardHandler(controller *dashboard.Controller) (*DashboardHandler, error) {
	if controller == nil {
		return nil, errors.New("apihttp: nil controller")
	}
	return &DashboardHandler{controller: controller}, nil
}

// ServeHTTP handles GET /api/v1/dashboard.
func (h *DashboardHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, h.controller.Latest(r.Context()))
}

// DeliveryHandler records a delivery action for a station.
type DeliveryHandler struct {
	controller *dashboard.Controller
}

// NewDeliveryHandler constructs a DeliveryHandler.
func NewDeliveryHandler(controller *dashboard.Controller) (*DeliveryHandler, error) {
	if controller == nil {
		return nil, errors.New("apihttp: nil controller")
	}
	return &DeliveryHandler{controller: controller}, nil
}

// ServeHTTP handles POST /api/v1/stations/{id}/delivery.
func (h *DeliveryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	stationID := deliveryStationID(r.URL.Path)
	if stationID == "" {
		http.Error(w, "station id is required", http.StatusBadRequest)
		return
	}
	operator := auth.OperatorFromContext(r.Context())
	if operator == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	result, err := h.controller.NotifyDelivery(r.Context(), operator, stationID)
	if errors.Is(err, dashboard.ErrUnknownStation) {
		http.Error(w, "unknown station", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "delivery record error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func deliveryStationID(path string) string {
	rest := strings.TrimPrefix(path, "/api/v1/stations/")
	if rest == path {
		return ""
	}
	parts := strings.Split(rest, "/")
	if len(parts) != 2 || parts[1] != "delivery" {
		return ""
	}
	return parts[0]
}

// SummaryHandler serves the per-station sales summary.
type SummaryHandler struct {
	controller *dashboard.Controller
}

// NewSummaryHandler constructs a SummaryHandler.
func NewSummaryHandler(controller *dashboard.Controller) (*SummaryHandler, error) {
	if controller == nil {
		return nil, errors.New("apihttp: nil controller")
	}
	return &SummaryHandler{controller: controller}, nil
}

// ServeHTTP handles GET /api/v1/sales/summary.
func (h *SummaryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	operator := auth.OperatorFromContext(r.Context())
	if operator == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	summary, err := h.controller.Summary(operator)
	if err != nil {
		http.Error(w, "ledger read error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// HistoryHandler serves the delivery history series.
type HistoryHandler struct {
	controller *dashboard.Controller
}

// NewHistoryHandler constructs a HistoryHandler.
func NewHistoryHandler(controller *dashboard.Controller) (*HistoryHandler, error) {
	if controller == nil {
		return nil, errors.New("apihttp: nil controller")
	}
	return &HistoryHandler{controller: controller}, nil
}

type historyResponse struct {
	NoHistory bool                 `json:"no_history"`
	Points    []ledger.SeriesPoint `json:"points"`
}

// ServeHTTP handles GET /api/v1/sales/history.
func (h *HistoryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	operator := auth.OperatorFromContext(r.Context())
	if operator == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	points, err := h.controller.History(operator)
	if errors.Is(err, ledger.ErrNoHistory) {
		writeJSON(w, http.StatusOK, historyResponse{NoHistory: true, Points: []ledger.SeriesPoint{}})
		return
	}
	if err != nil {
		http.Error(w, "ledger read error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, historyResponse{Points: points})
}

// ExportLedgerHandler serves ledger downloads in csv, pdf or xlsx form.
type ExportLedgerHandler struct {
	controller *dashboard.Controller
	format     string
}

// NewExportLedgerHandler constructs an export handler for one format.
func NewExportLedgerHandler(controller *dashboard.Controller, format string) (*ExportLedgerHandler, error) {
	if controller == nil {
		return nil, errors.New("apihttp: nil controller")
	}
	switch format {
	case "csv", "pdf", "xlsx":
	default:
		return nil, errors.New("apihttp: unsupported export format " + format)
	}
	return &ExportLedgerHandler{controller: controller, format: format}, nil
}

// ServeHTTP handles GET /api/v1/exports/ledger.{format}.
func (h *ExportLedgerHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	operator := auth.OperatorFromContext(r.Context())
	if operator == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	events, err := h.controller.Ledger(operator)
	if err != nil {
		metrics.IncExport(h.format, metrics.ResultError)
		http.Error(w, "ledger read error", http.StatusInternalServerError)
		return
	}

	filename := strings.ReplaceAll(operator, " ", "_") + "_ledger." + h.format
	switch h.format {
	case "csv":
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
		writer := csv.NewWriter(w)
		_ = writer.Write(ledger.Header)
		for _, event := range events {
			_ = writer.Write([]string{
				event.Date.Format(ledger.DateLayout),
				event.Station,
				strconv.Itoa(event.Bottles),
			})
		}
		writer.Flush()
		metrics.IncExport(h.format, metrics.ResultSuccess)
	case "pdf":
		summary, err := h.controller.Summary(operator)
		if err != nil {
			metrics.IncExport(h.format, metrics.ResultError)
			http.Error(w, "ledger read error", http.StatusInternalServerError)
			return
		}
		payload, err := ledger.BuildLedgerPDF(operator, summary, events, time.Now().UTC())
		if err != nil {
			metrics.IncExport(h.format, metrics.ResultError)
			http.Error(w, "export error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
		_, _ = w.Write(payload)
		metrics.IncExport(h.format, metrics.ResultSuccess)
	case "xlsx":
		summary, err := h.controller.Summary(operator)
		if err != nil {
			metrics.IncExport(h.format, metrics.ResultError)
			http.Error(w, "ledger read error", http.StatusInternalServerError)
			return
		}
		payload, err := ledger.BuildLedgerXLSX(operator, summary, events, time.Now().UTC())
		if err != nil {
			metrics.IncExport(h.format, metrics.ResultError)
			http.Error(w, "export error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
		_, _ = w.Write(payload)
		metrics.IncExport(h.format, metrics.ResultSuccess)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
