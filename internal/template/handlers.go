package template

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	validator "github.com/go-playground/validator/v10"

	"github.com/folio-labs/orderform-api/internal/common"
)

// Handler exposes the template endpoints.
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

// List handles GET /api/v1/templates.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	common.Data(w, http.StatusOK, h.service.List(r.Context()))
}

// Save handles POST /api/v1/templates.
func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Name string `json:"name" validate:"required,max=120"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.WriteError(w, common.BadRequest("body", "invalid JSON payload", err))
		return
	}
	if err := h.validate.Struct(&payload); err != nil {
		common.WriteError(w, common.BadRequest("name", "template name is required", err))
		return
	}
	tpl, err := h.service.Save(r.Context(), payload.Name)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.Data(w, http.StatusCreated, tpl)
}

// Apply handles POST /api/v1/templates/{id}/apply.
func (h *Handler) Apply(w http.ResponseWriter, r *http.Request) {
	state, err := h.service.Apply(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.Data(w, http.StatusOK, state)
}

// Delete handles DELETE /api/v1/templates/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		common.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
