package session_test

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
)

type formResponse struct {
	Data form.State `json:"data"`
	ID   string     `json:"id"`
}

func fixedNow() time.Time {
	return time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
}

func newTestRouter(t *testing.T) (chi.Router, store.KV) {
	t.Helper()
	kv := store.NewMemoryStore()
	svc := session.NewService(context.Background(), session.ServiceConfig{
		Store:  kv,
		Logger: zerolog.Nop(),
		Now:    fixedNow,
	})
	h := session.NewHandler(session.HandlerConfig{Service: svc})

	r := chi.NewRouter()
	r.Route("/api/v1/orderform", func(o chi.Router) {
		o.Get("/", h.Form)
		o.Put("/customer", h.UpdateCustomer)
		o.Put("/billing", h.UpdateBilling)
		o.Post("/billing/same-as-customer", h.BillingSameAsCustomer)
		o.Put("/dates", h.UpdateDates)
		o.Put("/contract", h.UpdateContract)
		o.Put("/plan", h.UpdatePlan)
		o.Post("/items/{collection}", h.AddItem)
		o.Patch("/items/{collection}/{id}", h.UpdateItem)
		o.Post("/items/{collection}/{id}/toggle", h.ToggleItem)
		o.Delete("/items/{collection}/{id}", h.RemoveItem)
		o.Post("/tiers", h.AddTier)
		o.Patch("/tiers/{id}", h.UpdateTier)
		o.Delete("/tiers/{id}", h.RemoveTier)
		o.Post("/terms/{id}/toggle", h.ToggleTerm)
		o.Patch("/terms/{id}", h.UpdateTerm)
		o.Post("/clear", h.Clear)
		o.Post("/generate", h.Generate)
		o.Get("/generate/html", h.GenerateHTML)
	})
	return r, kv
}

func do(t *testing.T, r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeForm(t *testing.T, rec *httptest.ResponseRecorder) formResponse {
	t.Helper()
	var out formResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestFormReturnsSeededDefaults(t *testing.T) {
	r, _ := newTestRouter(t)
	rec := do(t, r, http.MethodGet, "/api/v1/orderform", "")
	require.Equal(t, http.StatusOK, rec.Code)

	state := decodeForm(t, rec).Data
	require.Equal(t, "2025-03-01", state.QuoteDate)
	require.Equal(t, "2025-03-15", state.ExpiryDate)
	require.Len(t, state.Products.Fixed, 4)
	require.Equal(t, "Folio Buy", state.Products.Fixed[0].Name)
	require.Equal(t, "Net 30", state.Contract.PaymentTerms)
	require.Len(t, state.UsageTiers, 4)
}

func TestUpdateCustomerPersists(t *testing.T) {
	r, kv := newTestRouter(t)
	rec := do(t, r, http.MethodPut, "/api/v1/orderform/customer",
		`{"name":"Acme Hospitality","contact":"Pat Jones","email":"pat@acme.test"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Acme Hospitality", decodeForm(t, rec).Data.Customer.Name)

	data, ok, err := kv.Load(context.Background(), store.KeyCustomer)
	require.NoError(t, err)
	require.True(t, ok)
	require.Contains(t, string(data), "Acme Hospitality")
}

func TestBillingSameAsCustomerCopiesOnce(t *testing.T) {
	r, _ := newTestRouter(t)
	do(t, r, http.MethodPut, "/api/v1/orderform/customer",
		`{"name":"Acme Hospitality","contact":"Pat Jones","address":"1 Main St"}`)

	rec := do(t, r, http.MethodPost, "/api/v1/orderform/billing/same-as-customer", `{"checked":true}`)
	require.Equal(t, http.StatusOK, rec.Code)
	billing := decodeForm(t, rec).Data.Billing
	require.True(t, billing.SameAsCustomer)
	require.Equal(t, "Pat Jones", billing.BillTo)
	require.Equal(t, "Acme Hospitality", billing.Contact)

	// A later customer edit must not re-sync the billing block.
	do(t, r, http.MethodPut, "/api/v1/orderform/customer", `{"name":"Other Co"}`)
	rec = do(t, r, http.MethodGet, "/api/v1/orderform", "")
	require.Equal(t, "Acme Hospitality", decodeForm(t, rec).Data.Billing.Contact)
}

func TestUpdateDatesRejectsMalformedDate(t *testing.T) {
	r, _ := newTestRouter(t)
	rec := do(t, r, http.MethodPut, "/api/v1/orderform/dates", `{"quoteDate":"03/01/2025"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, r, http.MethodPut, "/api/v1/orderform/dates", `{"expiryDate":"2025-06-30"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	state := decodeForm(t, rec).Data
	require.Equal(t, "2025-03-01", state.QuoteDate)
	require.Equal(t, "2025-06-30", state.ExpiryDate)
}

func TestLineItemLifecycle(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := do(t, r, http.MethodPost, "/api/v1/orderform/items/products/buy/toggle", `{"enabled":true}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, r, http.MethodPatch, "/api/v1/orderform/items/products/buy",
		`{"field":"price","value":"200"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	state := decodeForm(t, rec).Data
	require.True(t, state.Products.Fixed[0].Enabled)
	require.Equal(t, "200", state.Products.Fixed[0].Price)

	// Unknown collections are rejected.
	rec = do(t, r, http.MethodPatch, "/api/v1/orderform/items/bogus/buy",
		`{"field":"price","value":"200"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	// Unknown fields fail validation.
	rec = do(t, r, http.MethodPatch, "/api/v1/orderform/items/products/buy",
		`{"field":"enabled","value":"true"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCustomItemAddAndRemove(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := do(t, r, http.MethodPost, "/api/v1/orderform/items/integrations", `{"unit":"/mo"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	resp := decodeForm(t, rec)
	require.NotEmpty(t, resp.ID)
	require.Len(t, resp.Data.Integrations.Custom, 1)
	require.Equal(t, "/mo", resp.Data.Integrations.Custom[0].Unit)

	rec = do(t, r, http.MethodDelete, "/api/v1/orderform/items/integrations/"+resp.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Empty(t, decodeForm(t, rec).Data.Integrations.Custom)

	// Fixed items survive a delete attempt.
	rec = do(t, r, http.MethodDelete, "/api/v1/orderform/items/products/buy", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, decodeForm(t, rec).Data.Products.Fixed, 4)
}

func TestTierAndTermOps(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := do(t, r, http.MethodPost, "/api/v1/orderform/tiers", "")
	require.Equal(t, http.StatusCreated, rec.Code)
	resp := decodeForm(t, rec)
	require.Len(t, resp.Data.UsageTiers, 5)

	rec = do(t, r, http.MethodPatch, "/api/v1/orderform/tiers/"+resp.ID,
		`{"field":"amount","value":"1500"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, r, http.MethodDelete, "/api/v1/orderform/tiers/"+resp.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, decodeForm(t, rec).Data.UsageTiers, 4)

	rec = do(t, r, http.MethodPost, "/api/v1/orderform/terms/property-cap/toggle", `{"enabled":true}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, r, http.MethodPatch, "/api/v1/orderform/terms/property-cap",
		`{"field":"properties","value":"3"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	terms := decodeForm(t, rec).Data.Terms
	require.True(t, terms[0].Enabled)
	require.Equal(t, "3", terms[0].Properties)
}

func TestClearResetsFormAndStore(t *testing.T) {
	r, kv := newTestRouter(t)
	do(t, r, http.MethodPut, "/api/v1/orderform/customer", `{"name":"Acme"}`)

	rec := do(t, r, http.MethodPost, "/api/v1/orderform/clear", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Empty(t, decodeForm(t, rec).Data.Customer.Name)

	_, ok, err := kv.Load(context.Background(), store.KeyCustomer)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestGenerateDocument(t *testing.T) {
	r, _ := newTestRouter(t)
	do(t, r, http.MethodPut, "/api/v1/orderform/customer", `{"name":"Acme Hospitality"}`)
	do(t, r, http.MethodPost, "/api/v1/orderform/items/products/buy/toggle", `{"enabled":true}`)
	do(t, r, http.MethodPatch, "/api/v1/orderform/items/products/buy", `{"field":"price","value":"200"}`)

	rec := do(t, r, http.MethodPost, "/api/v1/orderform/generate", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var out struct {
		Data struct {
			Title    string `json:"title"`
			Sections []struct {
				ID   string `json:"id"`
				Rows []struct {
					Label string `json:"label"`
					Value string `json:"value"`
				} `json:"rows"`
			} `json:"sections"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Equal(t, "Folio Order Form", out.Data.Title)

	var sawFees bool
	for _, sec := range out.Data.Sections {
		if sec.ID == "product-fees" {
			sawFees = true
			require.Equal(t, "$200.00/property/mo", sec.Rows[0].Value)
		}
	}
	require.True(t, sawFees)
}

func TestGenerateHTML(t *testing.T) {
	r, _ := newTestRouter(t)
	do(t, r, http.MethodPut, "/api/v1/orderform/customer", `{"name":"Acme Hospitality"}`)

	rec := do(t, r, http.MethodGet, "/api/v1/orderform/generate/html", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	require.Contains(t, rec.Body.String(), "Acme Hospitality")
}

func TestServiceRehydratesFromStore(t *testing.T) {
	kv := store.NewMemoryStore()
	ctx := context.Background()

	svc := session.NewService(ctx, session.ServiceConfig{Store: kv, Logger: zerolog.Nop(), Now: fixedNow})
	svc.SetCustomer(ctx, form.Customer{Name: "Acme Hospitality"})
	svc.SetPlan(ctx, form.Plan{Name: "Bundle"})

	// A second service over the same store sees the saved slices.
	svc2 := session.NewService(ctx, session.ServiceConfig{Store: kv, Logger: zerolog.Nop(), Now: fixedNow})
	state := svc2.Form(ctx)
	require.Equal(t, "Acme Hospitality", state.Customer.Name)
	require.Equal(t, "Bundle", state.Plan.Name)
	require.Len(t, state.Products.Fixed, 4, "unsaved slices hydrate from defaults")
}
