package planner

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/partysnap/partysnap-backend/pkg/db/models"
	"github.com/partysnap/partysnap-backend/pkg/enums"
)

var oneHundred = decimal.NewFromInt(100)

// CategorySpend is the accepted spend attributed to one category. Only
// categories with a positive amount appear in the breakdown.
type CategorySpend struct {
	Category enums.SupplierCategory `json:"category"`
	Label    string                 `json:"label"`
	Amount   decimal.Decimal        `json:"amount"`
}

// BudgetSummary compares accepted spend against the optional party budget.
// Remaining may be negative; it is nil when no budget is set, and OverBudget
// is always false in that case.
type BudgetSummary struct {
	Budget       *decimal.Decimal `json:"budget,omitempty"`
	TotalSpent   decimal.Decimal  `json:"totalSpent"`
	Remaining    *decimal.Decimal `json:"remaining,omitempty"`
	PercentSpent int              `json:"percentSpent"`
	OverBudget   bool             `json:"overBudget"`
	Categories   []CategorySpend  `json:"categories"`
}

// ComputeBudget sums accepted-enquiry prices and their add-ons per category.
// Add-ons with their own category key are attributed there; the rest follow
// the parent enquiry's category. Missing prices count as zero.
func ComputeBudget(enquiries []models.Enquiry, budget *decimal.Decimal) BudgetSummary {
	perCategory := make(map[enums.SupplierCategory]decimal.Decimal)

	for i := range enquiries {
		e := &enquiries[i]
		if !e.Active || e.Status != enums.EnquiryStatusAccepted {
			continue
		}

		perCategory[e.Category] = perCategory[e.Category].Add(enquiryPrice(e))

		for _, addon := range e.Addons {
			category := e.Category
			if addon.Category != nil && *addon.Category != "" {
				category = enums.SupplierCategory(*addon.Category)
			}
			perCategory[category] = perCategory[category].Add(addon.Price)
		}
	}

	summary := BudgetSummary{
		Budget:     budget,
		Categories: make([]CategorySpend, 0, len(perCategory)),
	}

	for category, amount := range perCategory {
		summary.TotalSpent = summary.TotalSpent.Add(amount)
		if amount.IsPositive() {
			summary.Categories = append(summary.Categories, CategorySpend{
				Category: category,
				Label:    category.Label(),
				Amount:   amount,
			})
		}
	}
	sort.Slice(summary.Categories, func(i, j int) bool {
		return summary.Categories[i].Category < summary.Categories[j].Category
	})

	if budget != nil {
		remaining := budget.Sub(summary.TotalSpent)
		summary.Remaining = &remaining
		summary.OverBudget = summary.TotalSpent.GreaterThan(*budget)
		if budget.IsPositive() {
			summary.PercentSpent = int(summary.TotalSpent.Div(*budget).Mul(oneHundred).Round(0).IntPart())
		}
	}

	return summary
}

// enquiryPrice prefers the final agreed price over the quote. Either may be
// unset early in the lifecycle.
func enquiryPrice(e *models.Enquiry) decimal.Decimal {
	if e.FinalPrice != nil {
		return *e.FinalPrice
	}
	if e.QuotedPrice != nil {
		return *e.QuotedPrice
	}
	return decimal.Zero
}
