// Package form defines the order-form state aggregate and the pure
// transition functions that mutate it. All monetary and numeric fields are
// kept as the raw text the user typed; parsing happens in the pricing
// engine at render time.
package form

import "strings"

// ItemKind distinguishes fixed catalog items from user-added custom items.
type ItemKind string

const (
	// ItemFixed is a catalog item toggled by its enabled flag.
	ItemFixed ItemKind = "fixed"
	// ItemCustom is a user-added item included whenever it has a name.
	ItemCustom ItemKind = "custom"
)

// Billing-unit labels form a closed set.
const (
	UnitPerPropertyPerMonth = "/property/mo"
	UnitPerMonth            = "/mo"
	UnitPerYear             = "/year"
	UnitPerProperty         = "/property"
	UnitOneTime             = "one-time"
)

// Units lists every valid billing-unit label.
var Units = []string{UnitPerPropertyPerMonth, UnitPerMonth, UnitPerYear, UnitPerProperty, UnitOneTime}

// ValidUnit reports whether the label belongs to the closed unit set.
func ValidUnit(unit string) bool {
	for _, u := range Units {
		if u == unit {
			return true
		}
	}
	return false
}

// LineItem is one priced offering: a product, integration, or fee.
type LineItem struct {
	ID        string   `json:"id"`
	Kind      ItemKind `json:"kind"`
	Name      string   `json:"name"`
	Price     string   `json:"price"`
	Unit      string   `json:"unit"`
	Discount  string   `json:"discount"`
	Enabled   bool     `json:"enabled"`
	Removable bool     `json:"removable"`
	Note      string   `json:"note,omitempty"`
}

// IsActive reports whether the item belongs in the generated document.
// Fixed items are gated by their enabled flag; for custom items presence
// with a non-empty name substitutes for enabled.
func (i LineItem) IsActive() bool {
	if i.Kind == ItemCustom {
		return strings.TrimSpace(i.Name) != ""
	}
	return i.Enabled
}

// Catalog holds the fixed and custom line items for one category.
type Catalog struct {
	Fixed  []LineItem `json:"fixed"`
	Custom []LineItem `json:"custom"`
}

// Collection names one of the three line-item catalogs.
type Collection string

const (
	Products     Collection = "products"
	Integrations Collection = "integrations"
	Fees         Collection = "fees"
)

// ValidCollection reports whether the name is a known catalog.
func ValidCollection(c Collection) bool {
	switch c {
	case Products, Integrations, Fees:
		return true
	}
	return false
}

// UsageTier is a minimum monthly spend commitment for a month range. A tier
// is active once both StartMonth and Amount are filled in.
type UsageTier struct {
	ID         string `json:"id"`
	StartMonth string `json:"startMonth"`
	EndMonth   string `json:"endMonth"`
	Amount     string `json:"amount"`
	Note       string `json:"note"`
}

// Placeholder tokens substitutable in term text.
const (
	TokenProperties = "{properties}"
	TokenWaiverDate = "{waiverDate}"
)

// Term is a parameterized legal clause. Text carries at most one
// placeholder token; the matching parameter field holds its value.
type Term struct {
	ID         string `json:"id"`
	Text       string `json:"text"`
	Enabled    bool   `json:"enabled"`
	Properties string `json:"properties,omitempty"`
	WaiverDate string `json:"waiverDate,omitempty"`
}

// Customer identifies the purchasing company.
type Customer struct {
	Name         string `json:"name"`
	Address      string `json:"address"`
	AddressLine2 string `json:"addressLine2"`
	Contact      string `json:"contact"`
	Email        string `json:"email"`
}

// Billing identifies the invoice recipient. SameAsCustomer records that the
// fields were copied from the customer block; the copy is one-shot, not a
// live binding.
type Billing struct {
	BillTo         string `json:"billTo"`
	Address        string `json:"address"`
	AddressLine2   string `json:"addressLine2"`
	Contact        string `json:"contact"`
	Email          string `json:"email"`
	SameAsCustomer bool   `json:"sameAsCustomer"`
}

// Contract captures the commercial terms of the agreement.
type Contract struct {
	StartDate        string `json:"startDate"`
	InitialTerm      string `json:"initialTerm"`
	RenewalTerm      string `json:"renewalTerm"`
	PaymentTerms     string `json:"paymentTerms"`
	BillingFrequency string `json:"billingFrequency"`
}

// PaymentTermOptions enumerates the supported payment-terms values.
var PaymentTermOptions = []string{"Net 15", "Net 30", "Net 45", "Net 60"}

// BillingFrequencyOptions enumerates the supported billing frequencies.
var BillingFrequencyOptions = []string{"Monthly", "Quarterly", "Annually"}

// Plan names the sold package.
type Plan struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// State is the aggregate root for one order form being drafted.
type State struct {
	Customer     Customer    `json:"customer"`
	Billing      Billing     `json:"billing"`
	QuoteDate    string      `json:"quoteDate"`
	ExpiryDate   string      `json:"expiryDate"`
	Contract     Contract    `json:"contract"`
	Plan         Plan        `json:"plan"`
	Products     Catalog     `json:"products"`
	Integrations Catalog     `json:"integrations"`
	Fees         Catalog     `json:"fees"`
	UsageTiers   []UsageTier `json:"usageTiers"`
	Terms        []Term      `json:"terms"`
}

// TemplateData is the pricing/terms-relevant subset of State captured by a
// saved template. Customer and billing identity are deliberately excluded.
type TemplateData struct {
	Plan         Plan        `json:"plan"`
	Contract     Contract    `json:"contract"`
	Products     Catalog     `json:"products"`
	Integrations Catalog     `json:"integrations"`
	Fees         Catalog     `json:"fees"`
	UsageTiers   []UsageTier `json:"usageTiers"`
	Terms        []Term      `json:"terms"`
}

// Snapshot captures the template subset of the state. The contract start
// date is blanked: it belongs to an individual quote, not to a reusable
// pricing configuration.
func (s State) Snapshot() TemplateData {
	data := TemplateData{
		Plan:         s.Plan,
		Contract:     s.Contract,
		Products:     s.Products.clone(),
		Integrations: s.Integrations.clone(),
		Fees:         s.Fees.clone(),
		UsageTiers:   cloneTiers(s.UsageTiers),
		Terms:        cloneTerms(s.Terms),
	}
	data.Contract.StartDate = ""
	return data
}

// ApplyTemplate replaces the pricing/terms slices of the state with the
// template's data. Collections are swapped wholesale, never merged item by
// item; customer, billing, and quote dates are untouched.
func (s State) ApplyTemplate(data TemplateData) State {
	next := s
	next.Plan = data.Plan
	startDate := s.Contract.StartDate
	next.Contract = data.Contract
	next.Contract.StartDate = startDate
	next.Products = data.Products.clone()
	next.Integrations = data.Integrations.clone()
	next.Fees = data.Fees.clone()
	next.UsageTiers = cloneTiers(data.UsageTiers)
	next.Terms = cloneTerms(data.Terms)
	return next
}

func (c Catalog) clone() Catalog {
	return Catalog{
		Fixed:  append([]LineItem(nil), c.Fixed...),
		Custom: append([]LineItem(nil), c.Custom...),
	}
}

func cloneTiers(tiers []UsageTier) []UsageTier {
	return append([]UsageTier(nil), tiers...)
}

func cloneTerms(terms []Term) []Term {
	return append([]Term(nil), terms...)
}
