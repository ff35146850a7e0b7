package models_test

import (
	"testing"

	"factory-app/models"
	"factory-app/types"

	"github.com/shopspring/decimal"
)

func TestCalculateFlowFullLifecycle(t *testing.T) {
	run := &models.ProductionRun{
		QuantityProduced: 100,
		CuringQty:        100,
		GoodQty:          90,
		RejectedQty:      10,
		InternalUseQty:   5,
	}

	flow := models.CalculateFlow(run)

	if flow.MovedToCuringQty != 100 {
		t.Errorf("moved = %d, want 100", flow.MovedToCuringQty)
	}
	if flow.CompletedGoodQty != 90 {
		t.Errorf("good = %d, want 90", flow.CompletedGoodQty)
	}
	if flow.DamagedQty != 10 {
		t.Errorf("damaged = %d, want 10", flow.DamagedQty)
	}
	if flow.OnCuringQty != 0 {
		t.Errorf("on curing = %d, want 0", flow.OnCuringQty)
	}
	if flow.WaitingForCuringQty != 0 {
		t.Errorf("waiting = %d, want 0", flow.WaitingForCuringQty)
	}
	if flow.AvailableQty != 85 {
		t.Errorf("available = %d, want 85", flow.AvailableQty)
	}
	if got := models.StageOf(run); got != models.RunStatusCompleted {
		t.Errorf("stage = %q, want %q", got, models.RunStatusCompleted)
	}
}

func TestCalculateFlowPartialCuring(t *testing.T) {
	run := &models.ProductionRun{
		QuantityProduced: 100,
		CuringQty:        60,
		GoodQty:          30,
		RejectedQty:      5,
	}

	flow := models.CalculateFlow(run)

	if flow.MovedToCuringQty != 60 {
		t.Errorf("moved = %d, want 60", flow.MovedToCuringQty)
	}
	if flow.OnCuringQty != 25 {
		t.Errorf("on curing = %d, want 25", flow.OnCuringQty)
	}
	if flow.WaitingForCuringQty != 40 {
		t.Errorf("waiting = %d, want 40", flow.WaitingForCuringQty)
	}
	if flow.AvailableQty != 30 {
		t.Errorf("available = %d, want 30", flow.AvailableQty)
	}
	if got := models.StageOf(run); got != models.RunStatusOnCuring {
		t.Errorf("stage = %q, want %q", got, models.RunStatusOnCuring)
	}
}

func TestCalculateFlowFreshRun(t *testing.T) {
	run := &models.ProductionRun{QuantityProduced: 100}

	flow := models.CalculateFlow(run)

	if flow.WaitingForCuringQty != 100 {
		t.Errorf("waiting = %d, want 100", flow.WaitingForCuringQty)
	}
	if flow.MovedToCuringQty != 0 || flow.OnCuringQty != 0 || flow.AvailableQty != 0 {
		t.Errorf("unexpected non-zero flow: %+v", flow)
	}
	if got := models.StageOf(run); got != models.RunStatusStarted {
		t.Errorf("stage = %q, want %q", got, models.RunStatusStarted)
	}
}

func TestCalculateFlowDerivedRun(t *testing.T) {
	source := types.SnowflakeID(12345)
	run := &models.ProductionRun{
		QuantityProduced: 20,
		GoodQty:          20,
		SourceRunID:      &source,
		Status:           models.RunStatusCompleted,
	}

	flow := models.CalculateFlow(run)

	// Batch turunan tidak pernah lewat curing
	if flow.MovedToCuringQty != 0 || flow.OnCuringQty != 0 || flow.WaitingForCuringQty != 0 {
		t.Errorf("derived run has curing numbers: %+v", flow)
	}
	if flow.CompletedGoodQty != 20 {
		t.Errorf("good = %d, want 20", flow.CompletedGoodQty)
	}
	if flow.AvailableQty != 20 {
		t.Errorf("available = %d, want 20", flow.AvailableQty)
	}
	if got := models.StageOf(run); got != models.RunStatusCompleted {
		t.Errorf("stage = %q, want %q", got, models.RunStatusCompleted)
	}
}

func TestCalculateFlowLegacyCompletedWithoutCuringCounter(t *testing.T) {
	// Data lama: batch Completed tapi curing_qty belum pernah diisi
	run := &models.ProductionRun{
		QuantityProduced: 50,
		GoodQty:          45,
		RejectedQty:      5,
		Status:           models.RunStatusCompleted,
	}

	flow := models.CalculateFlow(run)

	if flow.MovedToCuringQty != 50 {
		t.Errorf("moved = %d, want 50", flow.MovedToCuringQty)
	}
	if flow.CompletedGoodQty != 45 {
		t.Errorf("good = %d, want 45", flow.CompletedGoodQty)
	}
	if flow.WaitingForCuringQty != 0 {
		t.Errorf("waiting = %d, want 0", flow.WaitingForCuringQty)
	}
	if flow.AvailableQty != 45 {
		t.Errorf("available = %d, want 45", flow.AvailableQty)
	}
}

func TestCalculateFlowClampsBadCounters(t *testing.T) {
	tests := []struct {
		name string
		run  models.ProductionRun
		want models.QuantityFlow
	}{
		{
			name: "curing melebihi produksi",
			run: models.ProductionRun{
				QuantityProduced: 100,
				CuringQty:        150,
				GoodQty:          80,
				RejectedQty:      40,
			},
			want: models.QuantityFlow{
				ProducedQty:      100,
				MovedToCuringQty: 100,
				CompletedGoodQty: 80,
				DamagedQty:       20,
				AvailableQty:     80,
			},
		},
		{
			name: "good melebihi yang masuk curing",
			run: models.ProductionRun{
				QuantityProduced: 100,
				CuringQty:        50,
				GoodQty:          60,
			},
			want: models.QuantityFlow{
				ProducedQty:         100,
				MovedToCuringQty:    50,
				CompletedGoodQty:    50,
				WaitingForCuringQty: 50,
				AvailableQty:        50,
			},
		},
		{
			name: "counter negatif",
			run: models.ProductionRun{
				QuantityProduced: 100,
				CuringQty:        -5,
				GoodQty:          -3,
			},
			want: models.QuantityFlow{
				ProducedQty:         100,
				WaitingForCuringQty: 100,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := models.CalculateFlow(&tt.run)
			if got != tt.want {
				t.Errorf("flow = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestStageOfEmptyRun(t *testing.T) {
	run := &models.ProductionRun{}
	if got := models.StageOf(run); got != models.RunStatusStarted {
		t.Errorf("stage = %q, want %q", got, models.RunStatusStarted)
	}
}

func TestComputeLabourCost(t *testing.T) {
	rate := decimal.RequireFromString("2.335")
	got := models.ComputeLabourCost(3, rate)
	if got.String() != "7.01" {
		t.Errorf("labour cost = %s, want 7.01", got.String())
	}

	if got := models.ComputeLabourCost(0, rate); !got.IsZero() {
		t.Errorf("labour cost for zero qty = %s, want 0", got.String())
	}
}
