// Package document turns an order-form state into a renderable document: an
// ordered list of named sections holding label/value rows or bullet lists.
// Assembly is a total function; missing fields render blank and empty
// sections are omitted rather than rendered empty.
package document

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/folio-labs/orderform-api/internal/form"
	"github.com/folio-labs/orderform-api/internal/pricing"
)

// Row is a single label/value line inside a section.
type Row struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Section is a named block of the document. Either Rows or Bullets is
// populated, never both.
type Section struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	Rows    []Row    `json:"rows,omitempty"`
	Bullets []string `json:"bullets,omitempty"`
}

// Document is the assembled order form, ready for direct rendering.
type Document struct {
	Title       string    `json:"title"`
	QuoteDate   string    `json:"quoteDate"`
	QuoteExpiry string    `json:"quoteExpiry"`
	Sections    []Section `json:"sections"`
}

// serviceDescriptions holds the per-product exhibit copy, keyed by fixed
// product id.
var serviceDescriptions = map[string][]string{
	"buy": {
		"Folio Buy provides order guides, supplier catalogs, and purchase-order workflows for each enrolled property.",
		"Order confirmations and substitutions are tracked within the platform.",
	},
	"bills": {
		"Folio Bills captures supplier invoices, codes line items, and routes approvals per the Customer's policy.",
		"Processed invoices are exported to the Customer's accounting system of record.",
	},
	"inventory": {
		"Folio Inventory supports scheduled counts, variance reporting, and recipe-level costing for each property.",
	},
	"pay": {
		"Folio Pay executes supplier payments on approved invoices, with remittance records available per property.",
	},
}

// Assemble projects the order-form state into a document. It never fails:
// any well-typed state yields a document.
func Assemble(state form.State) Document {
	doc := Document{
		Title:       "Folio Order Form",
		QuoteDate:   pricing.FormatDate(state.QuoteDate),
		QuoteExpiry: pricing.FormatDate(state.ExpiryDate),
	}

	doc.Sections = append(doc.Sections, customerSection(state.Customer))
	doc.Sections = append(doc.Sections, billingSection(state.Billing))
	if pkg, ok := packageSection(state.Plan); ok {
		doc.Sections = append(doc.Sections, pkg)
	}
	doc.Sections = append(doc.Sections, contractSection(state.Contract))

	products := form.ActiveLineItems(state.Products.Fixed, nil)
	if len(products) > 0 {
		doc.Sections = append(doc.Sections, itemSection("product-fees", "Product Fees", products))
	}
	if integrations := state.Integrations.Active(); len(integrations) > 0 {
		doc.Sections = append(doc.Sections, itemSection("integrations", "Integrations", integrations))
	}
	if fees := state.Fees.Active(); len(fees) > 0 {
		doc.Sections = append(doc.Sections, itemSection("additional-fees", "Additional Fees", fees))
	}
	if tiers := form.ActiveUsageTiers(state.UsageTiers); len(tiers) > 0 {
		doc.Sections = append(doc.Sections, usageSection(tiers))
	}
	if terms, ok := termsSection(state.Terms); ok {
		doc.Sections = append(doc.Sections, terms)
	}
	doc.Sections = append(doc.Sections, exhibitSections(products)...)

	return doc
}

func customerSection(c form.Customer) Section {
	return Section{
		ID:    "customer",
		Title: "Customer Information",
		Rows: []Row{
			{Label: "Customer", Value: c.Name},
			{Label: "Address", Value: joinLines(c.Address, c.AddressLine2)},
			{Label: "Contact name", Value: c.Contact},
			{Label: "Contact email", Value: c.Email},
		},
	}
}

func billingSection(b form.Billing) Section {
	return Section{
		ID:    "billing",
		Title: "Billing Contact Information",
		Rows: []Row{
			{Label: "Bill To", Value: b.BillTo},
			{Label: "Billing Address", Value: joinLines(b.Address, b.AddressLine2)},
			{Label: "Billing Contact", Value: b.Contact},
			{Label: "Invoice Email", Value: b.Email},
		},
	}
}

func packageSection(p form.Plan) (Section, bool) {
	if strings.TrimSpace(p.Name) == "" && strings.TrimSpace(p.Description) == "" {
		return Section{}, false
	}
	s := Section{ID: "package", Title: "Package"}
	if strings.TrimSpace(p.Name) != "" {
		s.Rows = append(s.Rows, Row{Label: "Plan", Value: p.Name})
	}
	if strings.TrimSpace(p.Description) != "" {
		s.Rows = append(s.Rows, Row{Label: "Description", Value: p.Description})
	}
	return s, true
}

func contractSection(c form.Contract) Section {
	return Section{
		ID:    "contract",
		Title: "Contract Terms",
		Rows: []Row{
			{Label: "Start Date", Value: pricing.FormatDate(c.StartDate)},
			{Label: "Initial Contract Term", Value: c.InitialTerm},
			{Label: "Renewal Contract Term", Value: c.RenewalTerm},
			{Label: "Payment Terms", Value: c.PaymentTerms},
			{Label: "Billing Frequency", Value: c.BillingFrequency},
		},
	}
}

func itemSection(id, title string, items []form.LineItem) Section {
	s := Section{ID: id, Title: title}
	for _, item := range items {
		value := PricedCell(item)
		if strings.TrimSpace(item.Note) != "" {
			value += fmt.Sprintf(" (%s)", item.Note)
		}
		s.Rows = append(s.Rows, Row{Label: item.Name, Value: value})
	}
	return s
}

// PricedCell renders the price column for a line item. With a nonzero
// discount on a priced item it shows the discounted price with the original
// noted alongside; otherwise the base price. The same rule serves product,
// integration, and fee rows.
func PricedCell(item form.LineItem) string {
	base := pricing.FormatCurrency(item.Price)
	unit := formatUnit(item.Unit)
	if base != "" && nonzeroPercent(item.Discount) {
		discounted := pricing.FormatCurrency(pricing.DiscountedPrice(item.Price, item.Discount))
		return fmt.Sprintf("%s%s  (%s%% discount from %s%s)",
			discounted, unit, strings.TrimSpace(item.Discount), base, unit)
	}
	return base + unit
}

func usageSection(tiers []form.UsageTier) Section {
	s := Section{ID: "minimum-usage", Title: "Minimum Usage"}
	for _, t := range tiers {
		value := pricing.FormatCurrency(t.Amount) + "/mo"
		if strings.TrimSpace(t.Note) != "" {
			value += fmt.Sprintf(" (%s)", t.Note)
		}
		s.Rows = append(s.Rows, Row{Label: form.TierLabel(t), Value: value})
	}
	return s
}

func termsSection(terms []form.Term) (Section, bool) {
	s := Section{ID: "terms", Title: "Terms & Conditions"}
	for _, term := range terms {
		if !term.Enabled {
			continue
		}
		s.Bullets = append(s.Bullets, renderTerm(term))
	}
	return s, len(s.Bullets) > 0
}

// renderTerm substitutes the placeholder token, if any, into the clause
// text. The property count is substituted verbatim; the waiver date goes
// through date formatting. Text without a token passes through unmodified.
func renderTerm(term form.Term) string {
	text := term.Text
	text = strings.ReplaceAll(text, form.TokenProperties, term.Properties)
	text = strings.ReplaceAll(text, form.TokenWaiverDate, pricing.FormatDate(term.WaiverDate))
	return text
}

func exhibitSections(products []form.LineItem) []Section {
	var out []Section
	for _, p := range products {
		desc, ok := serviceDescriptions[p.ID]
		if !ok {
			continue
		}
		out = append(out, Section{
			ID:      "exhibit-" + p.ID,
			Title:   "Description of Services: " + p.Name,
			Bullets: append([]string(nil), desc...),
		})
	}
	return out
}

func joinLines(lines ...string) string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}

func formatUnit(unit string) string {
	if unit == "" || strings.HasPrefix(unit, "/") {
		return unit
	}
	return " " + unit
}

func nonzeroPercent(discount string) bool {
	d, err := decimal.NewFromString(strings.TrimSpace(discount))
	if err != nil {
		return false
	}
	return !d.IsZero()
}
