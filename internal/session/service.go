// Package session owns the live order-form state. The in-memory state is
// authoritative; every mutation is written through to the store per slice
// on a best-effort basis, so a persistence outage degrades durability but
// never blocks editing.
package session

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/folio-labs/orderform-api/internal/common"
	"github.com/folio-labs/orderform-api/internal/document"
	"github.com/folio-labs/orderform-api/internal/form"
	"github.com/folio-labs/orderform-api/internal/obs"
	"github.com/folio-labs/orderform-api/internal/store"
)

// dates is the persisted shape of the quote/expiry slice.
type dates struct {
	QuoteDate  string `json:"quoteDate"`
	ExpiryDate string `json:"expiryDate"`
}

// Service loads, mutates, and persists the order form.
type Service struct {
	kv         store.KV
	log        zerolog.Logger
	metrics    *obs.DomainMetrics
	renderer   document.Renderer
	company    document.Company
	now        func() time.Time
	expiryDays int

	mu    sync.Mutex
	state form.State
}

// ServiceConfig groups Service dependencies.
type ServiceConfig struct {
	Store      store.KV
	Logger     zerolog.Logger
	Metrics    *obs.DomainMetrics
	Renderer   document.Renderer
	Company    document.Company
	Now        func() time.Time
	ExpiryDays int
}

// NewService constructs a Service and hydrates the form from the store.
// Missing or corrupt slices fall back to their defaults.
func NewService(ctx context.Context, cfg ServiceConfig) *Service {
	s := &Service{
		kv:         cfg.Store,
		log:        cfg.Logger,
		metrics:    cfg.Metrics,
		renderer:   cfg.Renderer,
		company:    cfg.Company,
		now:        cfg.Now,
		expiryDays: cfg.ExpiryDays,
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.renderer == nil {
		s.renderer = document.NewRenderer()
	}
	s.state = s.load(ctx)
	return s
}

// load assembles a State from the persisted slices, slice by slice, so one
// bad slice costs only that slice.
func (s *Service) load(ctx context.Context) form.State {
	def := form.NewState(s.now(), s.expiryDays)
	state := form.State{
		Customer:     store.LoadJSON(ctx, s.kv, s.log, store.KeyCustomer, def.Customer),
		Billing:      store.LoadJSON(ctx, s.kv, s.log, store.KeyBilling, def.Billing),
		Contract:     store.LoadJSON(ctx, s.kv, s.log, store.KeyContract, def.Contract),
		Plan:         store.LoadJSON(ctx, s.kv, s.log, store.KeyPlan, def.Plan),
		Products:     store.LoadJSON(ctx, s.kv, s.log, store.KeyProducts, def.Products),
		Integrations: store.LoadJSON(ctx, s.kv, s.log, store.KeyIntegrations, def.Integrations),
		Fees:         store.LoadJSON(ctx, s.kv, s.log, store.KeyFees, def.Fees),
		UsageTiers:   store.LoadJSON(ctx, s.kv, s.log, store.KeyUsageTiers, def.UsageTiers),
		Terms:        store.LoadJSON(ctx, s.kv, s.log, store.KeyTerms, def.Terms),
	}
	d := store.LoadJSON(ctx, s.kv, s.log, store.KeyDates, dates{
		QuoteDate:  def.QuoteDate,
		ExpiryDate: def.ExpiryDate,
	})
	state.QuoteDate = d.QuoteDate
	state.ExpiryDate = d.ExpiryDate
	return state
}

// persist writes one slice through to the store. Failures are logged and
// counted, never surfaced: the in-memory state stays authoritative.
func (s *Service) persist(ctx context.Context, key string, v any) {
	if err := store.SaveJSON(ctx, s.kv, key, v); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("write-through save failed")
		if s.metrics != nil {
			s.metrics.StoreSaveFailures.WithLabelValues(key).Inc()
		}
	}
}

// Form returns a copy of the current state.
func (s *Service) Form(context.Context) form.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// SetCustomer replaces the customer block.
func (s *Service) SetCustomer(ctx context.Context, c form.Customer) form.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = s.state.WithCustomer(c)
	s.persist(ctx, store.KeyCustomer, s.state.Customer)
	return s.state
}

// SetBilling replaces the billing block.
func (s *Service) SetBilling(ctx context.Context, b form.Billing) form.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = s.state.WithBilling(b)
	s.persist(ctx, store.KeyBilling, s.state.Billing)
	return s.state
}

// SetBillingSameAsCustomer applies the one-shot customer-to-billing copy.
func (s *Service) SetBillingSameAsCustomer(ctx context.Context, checked bool) form.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = s.state.ApplyBillingSameAsCustomer(checked)
	s.persist(ctx, store.KeyBilling, s.state.Billing)
	return s.state
}

// SetDates sets the quote and expiry dates. Empty strings leave the
// corresponding date untouched.
func (s *Service) SetDates(ctx context.Context, quote, expiry string) form.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	if quote != "" {
		s.state = s.state.WithQuoteDate(quote)
	}
	if expiry != "" {
		s.state = s.state.WithExpiryDate(expiry)
	}
	s.persist(ctx, store.KeyDates, dates{QuoteDate: s.state.QuoteDate, ExpiryDate: s.state.ExpiryDate})
	return s.state
}

// SetContract replaces the contract block.
func (s *Service) SetContract(ctx context.Context, c form.Contract) form.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = s.state.WithContract(c)
	s.persist(ctx, store.KeyContract, s.state.Contract)
	return s.state
}

// SetPlan replaces the plan block.
func (s *Service) SetPlan(ctx context.Context, p form.Plan) form.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = s.state.WithPlan(p)
	s.persist(ctx, store.KeyPlan, s.state.Plan)
	return s.state
}

func collectionKey(col form.Collection) string {
	switch col {
	case form.Products:
		return store.KeyProducts
	case form.Integrations:
		return store.KeyIntegrations
	case form.Fees:
		return store.KeyFees
	}
	return ""
}

func (s *Service) catalog(col form.Collection) form.Catalog {
	switch col {
	case form.Products:
		return s.state.Products
	case form.Integrations:
		return s.state.Integrations
	case form.Fees:
		return s.state.Fees
	}
	return form.Catalog{}
}

func (s *Service) requireCollection(col form.Collection) error {
	if !form.ValidCollection(col) {
		return common.BadRequest("collection", "unknown collection", nil)
	}
	return nil
}

// UpdateLineItem replaces one field of a line item.
func (s *Service) UpdateLineItem(ctx context.Context, col form.Collection, id, field, value string) (form.State, error) {
	if err := s.requireCollection(col); err != nil {
		return form.State{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = s.state.UpdateLineItem(col, id, field, value)
	s.persist(ctx, collectionKey(col), s.catalog(col))
	return s.state, nil
}

// ToggleLineItem flips the enabled flag of a fixed catalog item.
func (s *Service) ToggleLineItem(ctx context.Context, col form.Collection, id string, enabled bool) (form.State, error) {
	if err := s.requireCollection(col); err != nil {
		return form.State{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = s.state.ToggleLineItem(col, id, enabled)
	s.persist(ctx, collectionKey(col), s.catalog(col))
	return s.state, nil
}

// AddCustomLineItem appends a blank custom item and returns its generated id.
func (s *Service) AddCustomLineItem(ctx context.Context, col form.Collection, unit string) (form.State, string, error) {
	if err := s.requireCollection(col); err != nil {
		return form.State{}, "", err
	}
	id := uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = s.state.AddCustomLineItem(col, id, unit)
	s.persist(ctx, collectionKey(col), s.catalog(col))
	return s.state, id, nil
}

// RemoveLineItem deletes a removable item.
func (s *Service) RemoveLineItem(ctx context.Context, col form.Collection, id string) (form.State, error) {
	if err := s.requireCollection(col); err != nil {
		return form.State{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = s.state.RemoveLineItem(col, id)
	s.persist(ctx, collectionKey(col), s.catalog(col))
	return s.state, nil
}

// AddUsageTier appends an empty tier and returns its generated id.
func (s *Service) AddUsageTier(ctx context.Context) (form.State, string) {
	id := uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = s.state.AddUsageTier(id)
	s.persist(ctx, store.KeyUsageTiers, s.state.UsageTiers)
	return s.state, id
}

// UpdateUsageTier replaces one field of a tier.
func (s *Service) UpdateUsageTier(ctx context.Context, id, field, value string) form.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = s.state.UpdateUsageTier(id, field, value)
	s.persist(ctx, store.KeyUsageTiers, s.state.UsageTiers)
	return s.state
}

// RemoveUsageTier deletes a tier.
func (s *Service) RemoveUsageTier(ctx context.Context, id string) form.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = s.state.RemoveUsageTier(id)
	s.persist(ctx, store.KeyUsageTiers, s.state.UsageTiers)
	return s.state
}

// SetTermEnabled toggles a legal clause.
func (s *Service) SetTermEnabled(ctx context.Context, id string, enabled bool) form.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = s.state.SetTermEnabled(id, enabled)
	s.persist(ctx, store.KeyTerms, s.state.Terms)
	return s.state
}

// SetTermParameter sets a term's substitution parameter.
func (s *Service) SetTermParameter(ctx context.Context, id, field, value string) (form.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch field {
	case "properties":
		s.state = s.state.SetTermProperties(id, value)
	case "waiverDate":
		s.state = s.state.SetTermWaiverDate(id, value)
	default:
		return form.State{}, common.BadRequest("field", "unknown term parameter", nil)
	}
	s.persist(ctx, store.KeyTerms, s.state.Terms)
	return s.state, nil
}

// Clear resets the form to a fresh default state and drops the persisted
// slices.
func (s *Service) Clear(ctx context.Context) form.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = form.NewState(s.now(), s.expiryDays)
	for _, key := range []string{
		store.KeyCustomer, store.KeyBilling, store.KeyDates, store.KeyContract,
		store.KeyPlan, store.KeyProducts, store.KeyIntegrations, store.KeyFees,
		store.KeyUsageTiers, store.KeyTerms,
	} {
		if err := s.kv.Delete(ctx, key); err != nil {
			s.log.Warn().Err(err).Str("key", key).Msg("clear failed to drop slice")
		}
	}
	return s.state
}

// GenerateDocument assembles the order-form document from the current state.
func (s *Service) GenerateDocument(ctx context.Context) document.Document {
	state := s.Form(ctx)
	doc := document.Assemble(state)
	if s.metrics != nil {
		s.metrics.DocumentsAssembled.Inc()
	}
	return doc
}

// RenderHTML assembles the document and renders the printable page.
func (s *Service) RenderHTML(ctx context.Context) (string, error) {
	state := s.Form(ctx)
	doc := document.Assemble(state)
	if s.metrics != nil {
		s.metrics.DocumentsAssembled.Inc()
	}
	html, err := s.renderer.RenderHTML(document.RenderInput{
		Document:     doc,
		Company:      s.company,
		CustomerName: state.Customer.Name,
	})
	if err != nil {
		return "", common.NewAppError("RENDER_FAILED", "failed to render document", http.StatusInternalServerError, err)
	}
	return html, nil
}

// Snapshot captures the template subset of the current state.
func (s *Service) Snapshot(context.Context) form.TemplateData {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Snapshot()
}

// ApplyTemplate swaps the pricing/terms slices for the template's data and
// persists every affected slice.
func (s *Service) ApplyTemplate(ctx context.Context, data form.TemplateData) form.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = s.state.ApplyTemplate(data)
	s.persist(ctx, store.KeyPlan, s.state.Plan)
	s.persist(ctx, store.KeyContract, s.state.Contract)
	s.persist(ctx, store.KeyProducts, s.state.Products)
	s.persist(ctx, store.KeyIntegrations, s.state.Integrations)
	s.persist(ctx, store.KeyFees, s.state.Fees)
	s.persist(ctx, store.KeyUsageTiers, s.state.UsageTiers)
	s.persist(ctx, store.KeyTerms, s.state.Terms)
	return s.state
}
