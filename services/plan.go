package services

import (
	"sparestock/models"
)

// PlanLine is one part of a delivery plan: what was requested and what will
// actually ship.
type PlanLine struct {
	PartID    string `json:"part_id"`
	Requested int    `json:"requested"`
	Deliver   int    `json:"deliver"`
}

// DeliveryPlan is the reconciled item list a delivery commits against.
// Adjusted is true iff any line ships less than requested.
type DeliveryPlan struct {
	Lines    []PlanLine `json:"lines"`
	Adjusted bool       `json:"adjusted"`
}

// BuildDeliveryPlan aggregates the requested items per part (summing
// duplicates, dropping non-positive quantities) and applies the admin's draft
// adjustments. Draft values are clamped into [0, requested] rather than
// rejected; the admin can only reduce, never ship more than requested.
func BuildDeliveryPlan(items []models.RequestItem, draft map[string]int) *DeliveryPlan {
	requested := make(map[string]int)
	var order []string
	for _, item := range items {
		if item.Quantity <= 0 {
			continue
		}
		if _, seen := requested[item.PartID]; !seen {
			order = append(order, item.PartID)
		}
		requested[item.PartID] += item.Quantity
	}

	plan := &DeliveryPlan{}
	for _, partID := range order {
		line := PlanLine{
			PartID:    partID,
			Requested: requested[partID],
			Deliver:   requested[partID],
		}
		if qty, ok := draft[partID]; ok {
			line.Deliver = clamp(qty, 0, line.Requested)
		}
		if line.Deliver != line.Requested {
			plan.Adjusted = true
		}
		plan.Lines = append(plan.Lines, line)
	}
	return plan
}

// Empty reports whether nothing would ship.
func (p *DeliveryPlan) Empty() bool {
	for _, line := range p.Lines {
		if line.Deliver > 0 {
			return false
		}
	}
	return true
}

// ShippedPartIDs lists the parts with a positive deliver quantity, in plan
// order.
func (p *DeliveryPlan) ShippedPartIDs() []string {
	var ids []string
	for _, line := range p.Lines {
		if line.Deliver > 0 {
			ids = append(ids, line.PartID)
		}
	}
	return ids
}

// ShippedItems is the item list the request row is overwritten with on
// delivery: only lines with shipped quantity > 0 remain.
func (p *DeliveryPlan) ShippedItems() []models.RequestItem {
	var items []models.RequestItem
	for _, line := range p.Lines {
		if line.Deliver > 0 {
			items = append(items, models.RequestItem{PartID: line.PartID, Quantity: line.Deliver})
		}
	}
	return items
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
