// Command preview renders a sample filled order form to stdout as HTML.
// Useful for checking template changes without running the API:
//
//	go run ./cmd/tools/preview > /tmp/orderform.html
package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/folio-labs/orderform-api/internal/config"
	"github.com/folio-labs/orderform-api/internal/document"
	"github.com/folio-labs/orderform-api/internal/form"
)

func main() {
	asJSON := flag.Bool("json", false, "print the assembled document as JSON instead of HTML")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	state := sampleState(time.Now())
	doc := document.Assemble(state)

	if *asJSON {
		fmt.Printf("%+v\n", doc)
		return
	}

	renderer := document.NewRenderer()
	html, err := renderer.RenderHTML(document.RenderInput{
		Document: doc,
		Company: document.Company{
			Name:           cfg.CompanyName,
			Address:        cfg.CompanyAddress,
			Phone:          cfg.CompanyPhone,
			SignatoryName:  cfg.SignatoryName,
			SignatoryTitle: cfg.SignatoryTitle,
		},
		CustomerName: state.Customer.Name,
	})
	if err != nil {
		log.Fatalf("render: %v", err)
	}
	fmt.Print(html)
}

func sampleState(now time.Time) form.State {
	s := form.NewState(now, 0).
		WithCustomer(form.Customer{
			Name:    "Highline Hospitality Group",
			Address: "88 Market Street",
			Contact: "Jordan Reyes",
			Email:   "jordan@highline.test",
		}).
		ApplyBillingSameAsCustomer(true).
		WithPlan(form.Plan{Name: "F&B Operations Bundle", Description: "Buy + Bills for 3 properties"}).
		ToggleLineItem(form.Products, "buy", true).
		UpdateLineItem(form.Products, "buy", "price", "200").
		UpdateLineItem(form.Products, "buy", "discount", "10").
		ToggleLineItem(form.Products, "bills", true).
		UpdateLineItem(form.Products, "bills", "price", "150").
		ToggleLineItem(form.Integrations, "meez", true).
		UpdateLineItem(form.Integrations, "meez", "price", "50").
		ToggleLineItem(form.Fees, "setup", true).
		UpdateLineItem(form.Fees, "setup", "price", "500").
		UpdateUsageTier("tier1", "amount", "1000").
		UpdateUsageTier("tier2", "amount", "1500").
		UpdateUsageTier("tier4", "amount", "2500").
		SetTermEnabled("property-cap", true).
		SetTermProperties("property-cap", "3").
		SetTermEnabled("taxes", true)
	return s
}
