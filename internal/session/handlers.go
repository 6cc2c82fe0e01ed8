package session

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	validator "github.com/go-playground/validator/v10"

	"github.com/folio-labs/orderform-api/internal/common"
	"github.com/folio-labs/orderform-api/internal/form"
)

// Handler exposes the order-form endpoints.
type Handler struct {
	service  *Service
	validate *validator.Validate
}

// HandlerConfig configures the Handler dependencies.
type HandlerConfig struct {
	Service  *Service
	Validate *validator.Validate
}

// NewHandler constructs a Handler.
func NewHandler(cfg HandlerConfig) *Handler {
	v := cfg.Validate
	if v == nil {
		v = validator.New()
	}
	return &Handler{service: cfg.Service, validate: v}
}

func (h *Handler) decode(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return common.BadRequest("body", "invalid JSON payload", err)
	}
	if err := h.validate.Struct(dst); err != nil {
		return common.BadRequest("body", "payload failed validation", err)
	}
	return nil
}

// Form handles GET /api/v1/orderform.
func (h *Handler) Form(w http.ResponseWriter, r *http.Request) {
	common.Data(w, http.StatusOK, h.service.Form(r.Context()))
}

// UpdateCustomer handles PUT /api/v1/orderform/customer.
func (h *Handler) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	var payload form.Customer
	if err := h.decode(r, &payload); err != nil {
		common.WriteError(w, err)
		return
	}
	common.Data(w, http.StatusOK, h.service.SetCustomer(r.Context(), payload))
}

// UpdateBilling handles PUT /api/v1/orderform/billing.
func (h *Handler) UpdateBilling(w http.ResponseWriter, r *http.Request) {
	var payload form.Billing
	if err := h.decode(r, &payload); err != nil {
		common.WriteError(w, err)
		return
	}
	common.Data(w, http.StatusOK, h.service.SetBilling(r.Context(), payload))
}

// BillingSameAsCustomer handles POST /api/v1/orderform/billing/same-as-customer.
func (h *Handler) BillingSameAsCustomer(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Checked bool `json:"checked"`
	}
	if err := h.decode(r, &payload); err != nil {
		common.WriteError(w, err)
		return
	}
	common.Data(w, http.StatusOK, h.service.SetBillingSameAsCustomer(r.Context(), payload.Checked))
}

// UpdateDates handles PUT /api/v1/orderform/dates.
func (h *Handler) UpdateDates(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		QuoteDate  string `json:"quoteDate" validate:"omitempty,datetime=2006-01-02"`
		ExpiryDate string `json:"expiryDate" validate:"omitempty,datetime=2006-01-02"`
	}
	if err := h.decode(r, &payload); err != nil {
		common.WriteError(w, err)
		return
	}
	common.Data(w, http.StatusOK, h.service.SetDates(r.Context(), payload.QuoteDate, payload.ExpiryDate))
}

// UpdateContract handles PUT /api/v1/orderform/contract.
func (h *Handler) UpdateContract(w http.ResponseWriter, r *http.Request) {
	var payload form.Contract
	if err := h.decode(r, &payload); err != nil {
		common.WriteError(w, err)
		return
	}
	common.Data(w, http.StatusOK, h.service.SetContract(r.Context(), payload))
}

// UpdatePlan handles PUT /api/v1/orderform/plan.
func (h *Handler) UpdatePlan(w http.ResponseWriter, r *http.Request) {
	var payload form.Plan
	if err := h.decode(r, &payload); err != nil {
		common.WriteError(w, err)
		return
	}
	common.Data(w, http.StatusOK, h.service.SetPlan(r.Context(), payload))
}

func collectionParam(r *http.Request) form.Collection {
	return form.Collection(chi.URLParam(r, "collection"))
}

// UpdateItem handles PATCH /api/v1/orderform/items/{collection}/{id}.
func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Field string `json:"field" validate:"required,oneof=name price discount note unit"`
		Value string `json:"value"`
	}
	if err := h.decode(r, &payload); err != nil {
		common.WriteError(w, err)
		return
	}
	state, err := h.service.UpdateLineItem(r.Context(), collectionParam(r), chi.URLParam(r, "id"), payload.Field, payload.Value)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.Data(w, http.StatusOK, state)
}

// ToggleItem handles POST /api/v1/orderform/items/{collection}/{id}/toggle.
func (h *Handler) ToggleItem(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Enabled bool `json:"enabled"`
	}
	if err := h.decode(r, &payload); err != nil {
		common.WriteError(w, err)
		return
	}
	state, err := h.service.ToggleLineItem(r.Context(), collectionParam(r), chi.URLParam(r, "id"), payload.Enabled)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.Data(w, http.StatusOK, state)
}

// AddItem handles POST /api/v1/orderform/items/{collection}.
func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Unit string `json:"unit"`
	}
	if err := h.decode(r, &payload); err != nil {
		common.WriteError(w, err)
		return
	}
	state, id, err := h.service.AddCustomLineItem(r.Context(), collectionParam(r), payload.Unit)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": state, "id": id})
}

// RemoveItem handles DELETE /api/v1/orderform/items/{collection}/{id}.
func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	state, err := h.service.RemoveLineItem(r.Context(), collectionParam(r), chi.URLParam(r, "id"))
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.Data(w, http.StatusOK, state)
}

// AddTier handles POST /api/v1/orderform/tiers.
func (h *Handler) AddTier(w http.ResponseWriter, r *http.Request) {
	state, id := h.service.AddUsageTier(r.Context())
	common.JSON(w, http.StatusCreated, map[string]any{"data": state, "id": id})
}

// UpdateTier handles PATCH /api/v1/orderform/tiers/{id}.
func (h *Handler) UpdateTier(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Field string `json:"field" validate:"required,oneof=startMonth endMonth amount note"`
		Value string `json:"value"`
	}
	if err := h.decode(r, &payload); err != nil {
		common.WriteError(w, err)
		return
	}
	common.Data(w, http.StatusOK, h.service.UpdateUsageTier(r.Context(), chi.URLParam(r, "id"), payload.Field, payload.Value))
}

// RemoveTier handles DELETE /api/v1/orderform/tiers/{id}.
func (h *Handler) RemoveTier(w http.ResponseWriter, r *http.Request) {
	common.Data(w, http.StatusOK, h.service.RemoveUsageTier(r.Context(), chi.URLParam(r, "id")))
}

// ToggleTerm handles POST /api/v1/orderform/terms/{id}/toggle.
func (h *Handler) ToggleTerm(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Enabled bool `json:"enabled"`
	}
	if err := h.decode(r, &payload); err != nil {
		common.WriteError(w, err)
		return
	}
	common.Data(w, http.StatusOK, h.service.SetTermEnabled(r.Context(), chi.URLParam(r, "id"), payload.Enabled))
}

// UpdateTerm handles PATCH /api/v1/orderform/terms/{id}.
func (h *Handler) UpdateTerm(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Field string `json:"field" validate:"required,oneof=properties waiverDate"`
		Value string `json:"value"`
	}
	if err := h.decode(r, &payload); err != nil {
		common.WriteError(w, err)
		return
	}
	state, err := h.service.SetTermParameter(r.Context(), chi.URLParam(r, "id"), payload.Field, payload.Value)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.Data(w, http.StatusOK, state)
}

// Clear handles POST /api/v1/orderform/clear.
func (h *Handler) Clear(w http.ResponseWriter, r *http.Request) {
	common.Data(w, http.StatusOK, h.service.Clear(r.Context()))
}

// Generate handles POST /api/v1/orderform/generate.
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	common.Data(w, http.StatusOK, h.service.GenerateDocument(r.Context()))
}

// GenerateHTML handles GET /api/v1/orderform/generate/html.
func (h *Handler) GenerateHTML(w http.ResponseWriter, r *http.Request) {
	html, err := h.service.RenderHTML(r.Context())
	if err != nil {
		common.WriteError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(html))
}
