package services

import (
	"testing"

	"sparestock/models"
)

func TestBuildDeliveryPlanDefaultsToRequested(t *testing.T) {
	items := []models.RequestItem{
		{PartID: "P1", Quantity: 5},
		{PartID: "P2", Quantity: 3},
	}

	plan := BuildDeliveryPlan(items, nil)

	if len(plan.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(plan.Lines))
	}
	for i, line := range plan.Lines {
		if line.Deliver != line.Requested {
			t.Errorf("line %d: deliver %d != requested %d", i, line.Deliver, line.Requested)
		}
	}
	if plan.Adjusted {
		t.Error("plan without draft must not be adjusted")
	}
}

func TestBuildDeliveryPlanAggregatesDuplicates(t *testing.T) {
	items := []models.RequestItem{
		{PartID: "P1", Quantity: 2},
		{PartID: "P2", Quantity: 1},
		{PartID: "P1", Quantity: 3},
		{PartID: "P3", Quantity: 0},
		{PartID: "P4", Quantity: -2},
	}

	plan := BuildDeliveryPlan(items, nil)

	if len(plan.Lines) != 2 {
		t.Fatalf("expected 2 lines after aggregation, got %d", len(plan.Lines))
	}
	if plan.Lines[0].PartID != "P1" || plan.Lines[0].Requested != 5 {
		t.Errorf("P1 should aggregate to 5, got %+v", plan.Lines[0])
	}
	if plan.Lines[1].PartID != "P2" || plan.Lines[1].Requested != 1 {
		t.Errorf("P2 should stay 1, got %+v", plan.Lines[1])
	}
}

func TestBuildDeliveryPlanClampsDraft(t *testing.T) {
	items := []models.RequestItem{{PartID: "P1", Quantity: 5}}

	cases := []struct {
		name  string
		draft int
		want  int
	}{
		{"negative clamps to zero", -3, 0},
		{"zero stays zero", 0, 0},
		{"in range kept", 2, 2},
		{"exact requested kept", 5, 5},
		{"over requested clamps down", 99, 5},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			plan := BuildDeliveryPlan(items, map[string]int{"P1": tc.draft})
			got := plan.Lines[0].Deliver
			if got != tc.want {
				t.Errorf("draft %d: deliver = %d, want %d", tc.draft, got, tc.want)
			}
			if got < 0 || got > plan.Lines[0].Requested {
				t.Errorf("clamp invariant violated: 0 <= %d <= %d", got, plan.Lines[0].Requested)
			}
			wantAdjusted := tc.want != 5
			if plan.Adjusted != wantAdjusted {
				t.Errorf("adjusted = %v, want %v", plan.Adjusted, wantAdjusted)
			}
		})
	}
}

func TestBuildDeliveryPlanIgnoresDraftForUnknownParts(t *testing.T) {
	items := []models.RequestItem{{PartID: "P1", Quantity: 5}}
	plan := BuildDeliveryPlan(items, map[string]int{"P9": 1})

	if len(plan.Lines) != 1 || plan.Lines[0].PartID != "P1" {
		t.Fatalf("draft for unrequested part must not add lines: %+v", plan.Lines)
	}
	if plan.Adjusted {
		t.Error("untouched plan must not be adjusted")
	}
}

func TestDeliveryPlanEmpty(t *testing.T) {
	items := []models.RequestItem{
		{PartID: "P1", Quantity: 5},
		{PartID: "P2", Quantity: 3},
	}

	plan := BuildDeliveryPlan(items, map[string]int{"P1": 0, "P2": 0})
	if !plan.Empty() {
		t.Error("plan with all quantities zeroed must be empty")
	}

	plan = BuildDeliveryPlan(items, map[string]int{"P1": 0})
	if plan.Empty() {
		t.Error("plan with one positive line must not be empty")
	}

	if BuildDeliveryPlan(nil, nil).Empty() != true {
		t.Error("plan of no items must be empty")
	}
}

func TestDeliveryPlanShippedItemsDropZeroLines(t *testing.T) {
	items := []models.RequestItem{
		{PartID: "P1", Quantity: 5},
		{PartID: "P2", Quantity: 3},
	}
	plan := BuildDeliveryPlan(items, map[string]int{"P1": 0, "P2": 2})

	shipped := plan.ShippedItems()
	if len(shipped) != 1 {
		t.Fatalf("expected 1 shipped item, got %d", len(shipped))
	}
	if shipped[0].PartID != "P2" || shipped[0].Quantity != 2 {
		t.Errorf("shipped = %+v, want {P2 2}", shipped[0])
	}

	ids := plan.ShippedPartIDs()
	if len(ids) != 1 || ids[0] != "P2" {
		t.Errorf("shipped part ids = %v, want [P2]", ids)
	}
}
