package form

// Transition functions. Every reducer returns a new State value and leaves
// its receiver untouched, so callers can treat states as immutable
// snapshots. Slices are copied before modification.

// WithCustomer replaces the customer block.
func (s State) WithCustomer(c Customer) State {
	s.Customer = c
	return s
}

// WithBilling replaces the billing block.
func (s State) WithBilling(b Billing) State {
	s.Billing = b
	return s
}

// ApplyBillingSameAsCustomer records the mirror flag and, when set, copies
// the customer fields into the billing block once. Later customer edits do
// not re-sync.
func (s State) ApplyBillingSameAsCustomer(checked bool) State {
	b := s.Billing
	b.SameAsCustomer = checked
	if checked {
		b.BillTo = s.Customer.Contact
		b.Address = s.Customer.Address
		b.AddressLine2 = s.Customer.AddressLine2
		b.Contact = s.Customer.Name
		b.Email = s.Customer.Email
	}
	s.Billing = b
	return s
}

// WithQuoteDate sets the quote date. The expiry date is left alone: it is
// derived once at initialization and independently overridable after.
func (s State) WithQuoteDate(date string) State {
	s.QuoteDate = date
	return s
}

// WithExpiryDate sets the quote expiry date.
func (s State) WithExpiryDate(date string) State {
	s.ExpiryDate = date
	return s
}

// WithContract replaces the contract block.
func (s State) WithContract(c Contract) State {
	s.Contract = c
	return s
}

// WithPlan replaces the plan block.
func (s State) WithPlan(p Plan) State {
	s.Plan = p
	return s
}

// UpdateLineItem replaces one field of a line item, fixed or custom, in the
// named collection. Unknown collections, ids, and fields leave the state
// unchanged.
func (s State) UpdateLineItem(col Collection, id, field, value string) State {
	return s.mapCatalog(col, func(c Catalog) Catalog {
		c.Fixed = updateItemField(c.Fixed, id, field, value)
		c.Custom = updateItemField(c.Custom, id, field, value)
		return c
	})
}

// ToggleLineItem flips the enabled flag of a fixed catalog item.
func (s State) ToggleLineItem(col Collection, id string, enabled bool) State {
	return s.mapCatalog(col, func(c Catalog) Catalog {
		fixed := append([]LineItem(nil), c.Fixed...)
		for i := range fixed {
			if fixed[i].ID == id {
				fixed[i].Enabled = enabled
			}
		}
		c.Fixed = fixed
		return c
	})
}

// AddCustomLineItem appends a blank custom item with the given id and unit.
// Custom items are always removable and are included in the document once
// they have a name.
func (s State) AddCustomLineItem(col Collection, id, unit string) State {
	if !ValidUnit(unit) {
		unit = UnitPerPropertyPerMonth
	}
	item := LineItem{ID: id, Kind: ItemCustom, Unit: unit, Removable: true}
	return s.mapCatalog(col, func(c Catalog) Catalog {
		c.Custom = append(append([]LineItem(nil), c.Custom...), item)
		return c
	})
}

// RemoveLineItem deletes a removable item from the named collection. Fixed
// catalog items are seeded non-removable and can only be disabled.
func (s State) RemoveLineItem(col Collection, id string) State {
	return s.mapCatalog(col, func(c Catalog) Catalog {
		c.Fixed = removeItem(c.Fixed, id)
		c.Custom = removeItem(c.Custom, id)
		return c
	})
}

// AddUsageTier appends an empty tier with the given id.
func (s State) AddUsageTier(id string) State {
	s.UsageTiers = append(cloneTiers(s.UsageTiers), UsageTier{ID: id})
	return s
}

// UpdateUsageTier replaces one field of a tier.
func (s State) UpdateUsageTier(id, field, value string) State {
	tiers := cloneTiers(s.UsageTiers)
	for i := range tiers {
		if tiers[i].ID != id {
			continue
		}
		switch field {
		case "startMonth":
			tiers[i].StartMonth = value
		case "endMonth":
			tiers[i].EndMonth = value
		case "amount":
			tiers[i].Amount = value
		case "note":
			tiers[i].Note = value
		}
	}
	s.UsageTiers = tiers
	return s
}

// RemoveUsageTier deletes a tier.
func (s State) RemoveUsageTier(id string) State {
	tiers := make([]UsageTier, 0, len(s.UsageTiers))
	for _, t := range s.UsageTiers {
		if t.ID == id {
			continue
		}
		tiers = append(tiers, t)
	}
	s.UsageTiers = tiers
	return s
}

// SetTermEnabled toggles a legal clause on or off.
func (s State) SetTermEnabled(id string, enabled bool) State {
	terms := cloneTerms(s.Terms)
	for i := range terms {
		if terms[i].ID == id {
			terms[i].Enabled = enabled
		}
	}
	s.Terms = terms
	return s
}

// SetTermProperties sets the property-count parameter of a term. The value
// is kept verbatim; it is substituted as text without numeric validation.
func (s State) SetTermProperties(id, value string) State {
	terms := cloneTerms(s.Terms)
	for i := range terms {
		if terms[i].ID == id {
			terms[i].Properties = value
		}
	}
	s.Terms = terms
	return s
}

// SetTermWaiverDate sets the waiver-date parameter of a term.
func (s State) SetTermWaiverDate(id, value string) State {
	terms := cloneTerms(s.Terms)
	for i := range terms {
		if terms[i].ID == id {
			terms[i].WaiverDate = value
		}
	}
	s.Terms = terms
	return s
}

func (s State) mapCatalog(col Collection, fn func(Catalog) Catalog) State {
	switch col {
	case Products:
		s.Products = fn(s.Products)
	case Integrations:
		s.Integrations = fn(s.Integrations)
	case Fees:
		s.Fees = fn(s.Fees)
	}
	return s
}

func updateItemField(items []LineItem, id, field, value string) []LineItem {
	out := append([]LineItem(nil), items...)
	for i := range out {
		if out[i].ID != id {
			continue
		}
		switch field {
		case "name":
			out[i].Name = value
		case "price":
			out[i].Price = value
		case "discount":
			out[i].Discount = value
		case "note":
			out[i].Note = value
		case "unit":
			if ValidUnit(value) {
				out[i].Unit = value
			}
		}
	}
	return out
}

func removeItem(items []LineItem, id string) []LineItem {
	out := make([]LineItem, 0, len(items))
	for _, item := range items {
		if item.ID == id && item.Removable {
			continue
		}
		out = append(out, item)
	}
	return out
}
