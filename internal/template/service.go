// Package template persists reusable pricing configurations. A template
// captures the plan, contract, catalogs, tiers, and terms of a form but
// never the customer or billing identity.
package template

import (
	"context"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/folio-labs/orderform-api/internal/common"
	"github.com/folio-labs/orderform-api/internal/form"
	"github.com/folio-labs/orderform-api/internal/obs"
	"github.com/folio-labs/orderform-api/internal/store"
)

// Template is one saved pricing configuration.
type Template struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	CreatedAt time.Time         `json:"createdAt"`
	Data      form.TemplateData `json:"data"`
}

// FormState is the slice of the session the template service needs: a
// snapshot to save from and an apply to write back into.
type FormState interface {
	Snapshot(ctx context.Context) form.TemplateData
	ApplyTemplate(ctx context.Context, data form.TemplateData) form.State
}

// Service stores and applies templates. The full template list is kept as
// one JSON document under the templates key.
type Service struct {
	kv      store.KV
	log     zerolog.Logger
	metrics *obs.DomainMetrics
	session FormState
	now     func() time.Time

	mu sync.Mutex
}

// ServiceConfig groups Service dependencies.
type ServiceConfig struct {
	Store   store.KV
	Logger  zerolog.Logger
	Metrics *obs.DomainMetrics
	Session FormState
	Now     func() time.Time
}

// NewService constructs a Service.
func NewService(cfg ServiceConfig) *Service {
	s := &Service{
		kv:      cfg.Store,
		log:     cfg.Logger,
		metrics: cfg.Metrics,
		session: cfg.Session,
		now:     cfg.Now,
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

func (s *Service) list(ctx context.Context) []Template {
	return store.LoadJSON(ctx, s.kv, s.log, store.KeyTemplates, []Template(nil))
}

func (s *Service) saveList(ctx context.Context, templates []Template) error {
	if err := store.SaveJSON(ctx, s.kv, store.KeyTemplates, templates); err != nil {
		s.log.Error().Err(err).Msg("failed to persist template list")
		if s.metrics != nil {
			s.metrics.StoreSaveFailures.WithLabelValues(store.KeyTemplates).Inc()
		}
		return common.NewAppError("STORE_FAILED", "failed to save template", http.StatusInternalServerError, err)
	}
	return nil
}

// Save captures the current form's pricing configuration under the given
// name. Unlike form edits, a save that cannot be persisted is an error:
// the whole point of a template is surviving the session.
func (s *Service) Save(ctx context.Context, name string) (Template, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Template{}, common.BadRequest("name", "template name is required", nil)
	}
	tpl := Template{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: s.now().UTC(),
		Data:      s.session.Snapshot(ctx),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	templates := append(s.list(ctx), tpl)
	if err := s.saveList(ctx, templates); err != nil {
		return Template{}, err
	}
	if s.metrics != nil {
		s.metrics.TemplatesSaved.Inc()
	}
	return tpl, nil
}

// List returns all saved templates, newest first.
func (s *Service) List(ctx context.Context) []Template {
	s.mu.Lock()
	defer s.mu.Unlock()
	templates := s.list(ctx)
	sort.SliceStable(templates, func(i, j int) bool {
		return templates[i].CreatedAt.After(templates[j].CreatedAt)
	})
	return templates
}

// Apply replaces the form's pricing configuration with the named template's
// data and returns the resulting state.
func (s *Service) Apply(ctx context.Context, id string) (form.State, error) {
	s.mu.Lock()
	var found *Template
	for _, tpl := range s.list(ctx) {
		if tpl.ID == id {
			found = &tpl
			break
		}
	}
	s.mu.Unlock()
	if found == nil {
		return form.State{}, common.NotFound("template not found", nil)
	}
	state := s.session.ApplyTemplate(ctx, found.Data)
	if s.metrics != nil {
		s.metrics.TemplatesApplied.Inc()
	}
	return state, nil
}

// Delete removes a saved template.
func (s *Service) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	templates := s.list(ctx)
	kept := make([]Template, 0, len(templates))
	for _, tpl := range templates {
		if tpl.ID != id {
			kept = append(kept, tpl)
		}
	}
	if len(kept) == len(templates) {
		return common.NotFound("template not found", nil)
	}
	return s.saveList(ctx, kept)
}
