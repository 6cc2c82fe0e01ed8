package template_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/folio-labs/orderform-api/internal/form"
	"github.com/folio-labs/orderform-api/internal/session"
	"github.com/folio-labs/orderform-api/internal/store"
	"github.com/folio-labs/orderform-api/internal/template"
)

func fixedNow() time.Time {
	return time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
}

func newFixture(t *testing.T) (*session.Service, *template.Service) {
	t.Helper()
	kv := store.NewMemoryStore()
	sess := session.NewService(context.Background(), session.ServiceConfig{
		Store:  kv,
		Logger: zerolog.Nop(),
		Now:    fixedNow,
	})
	tpl := template.NewService(template.ServiceConfig{
		Store:   kv,
		Logger:  zerolog.Nop(),
		Session: sess,
		Now:     fixedNow,
	})
	return sess, tpl
}

func TestSaveCapturesPricingNotIdentity(t *testing.T) {
	sess, svc := newFixture(t)
	ctx := context.Background()

	sess.SetCustomer(ctx, form.Customer{Name: "Acme Hospitality"})
	sess.SetPlan(ctx, form.Plan{Name: "F&B Bundle"})
	sess.SetContract(ctx, form.Contract{StartDate: "2025-04-01", PaymentTerms: "Net 45"})
	_, err := sess.ToggleLineItem(ctx, form.Products, "buy", true)
	require.NoError(t, err)

	tpl, err := svc.Save(ctx, "Standard F&B")
	require.NoError(t, err)
	require.NotEmpty(t, tpl.ID)
	require.Equal(t, "F&B Bundle", tpl.Data.Plan.Name)
	require.Equal(t, "Net 45", tpl.Data.Contract.PaymentTerms)
	require.Empty(t, tpl.Data.Contract.StartDate, "start date belongs to the quote, not the template")
	require.True(t, tpl.Data.Products.Fixed[0].Enabled)
}

func TestSaveRequiresName(t *testing.T) {
	_, svc := newFixture(t)
	_, err := svc.Save(context.Background(), "   ")
	require.Error(t, err)
}

func TestApplySwapsCollectionsWholesale(t *testing.T) {
	sess, svc := newFixture(t)
	ctx := context.Background()

	_, err := sess.ToggleLineItem(ctx, form.Products, "buy", true)
	require.NoError(t, err)
	_, err = sess.UpdateLineItem(ctx, form.Products, "buy", "price", "200")
	require.NoError(t, err)
	tpl, err := svc.Save(ctx, "Standard")
	require.NoError(t, err)

	// Diverge the live form, then apply the template over it.
	_, err = sess.UpdateLineItem(ctx, form.Products, "buy", "price", "999")
	require.NoError(t, err)
	_, _, err = sess.AddCustomLineItem(ctx, form.Products, "/mo")
	require.NoError(t, err)
	sess.SetCustomer(ctx, form.Customer{Name: "Acme Hospitality"})
	sess.SetContract(ctx, form.Contract{StartDate: "2025-05-01", PaymentTerms: "Net 60"})

	state, err := svc.Apply(ctx, tpl.ID)
	require.NoError(t, err)
	require.Equal(t, "200", state.Products.Fixed[0].Price)
	require.Empty(t, state.Products.Custom, "collections are swapped, not merged")
	require.Equal(t, "Acme Hospitality", state.Customer.Name, "identity is untouched")
	require.Equal(t, "2025-05-01", state.Contract.StartDate, "quote start date survives the apply")
}

func TestApplyUnknownTemplate(t *testing.T) {
	_, svc := newFixture(t)
	_, err := svc.Apply(context.Background(), "nope")
	require.Error(t, err)
}

func TestListNewestFirstAndDelete(t *testing.T) {
	_, svc := newFixture(t)
	ctx := context.Background()

	first, err := svc.Save(ctx, "first")
	require.NoError(t, err)
	second, err := svc.Save(ctx, "second")
	require.NoError(t, err)

	// Same fixed clock, so order falls back to stable insertion order.
	list := svc.List(ctx)
	require.Len(t, list, 2)

	require.NoError(t, svc.Delete(ctx, first.ID))
	list = svc.List(ctx)
	require.Len(t, list, 1)
	require.Equal(t, second.ID, list[0].ID)

	require.Error(t, svc.Delete(ctx, first.ID))
}

func TestTemplateHandlers(t *testing.T) {
	sess, svc := newFixture(t)
	ctx := context.Background()
	sess.SetPlan(ctx, form.Plan{Name: "Bundle"})

	h := template.NewHandler(template.HandlerConfig{Service: svc})
	r := chi.NewRouter()
	r.Route("/api/v1/templates", func(tr chi.Router) {
		tr.Get("/", h.List)
		tr.Post("/", h.Save)
		tr.Post("/{id}/apply", h.Apply)
		tr.Delete("/{id}", h.Delete)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/templates", strings.NewReader(`{"name":"Standard"}`)))
	require.Equal(t, http.StatusCreated, rec.Code)

	var created struct {
		Data template.Template `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.Equal(t, "Standard", created.Data.Name)
	require.Equal(t, "Bundle", created.Data.Data.Plan.Name)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/templates", strings.NewReader(`{}`)))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/templates", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/templates/"+created.Data.ID+"/apply", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/v1/templates/"+created.Data.ID, nil))
	require.Equal(t, http.StatusNoContent, rec.Code)
}
