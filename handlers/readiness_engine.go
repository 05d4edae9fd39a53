package handlers

import (
	"math"

	"p9e.in/cartrade/models"
)

// The readiness score is the gate between the acquisition pipeline and the
// sales pipeline: a vehicle may only be marked ready once every operational
// task is done and every applicable job cost carries invoice evidence.

// RequiredCostTypes returns the job-costing keys the vehicle must evidence.
// A cost recorded as zero (or negative) does not apply and needs nothing.
func RequiredCostTypes(jc models.JobCosting) []string {
	var required []string
	for _, ct := range models.CostTypes {
		if jc.Amount(ct) > 0 {
			required = append(required, ct)
		}
	}
	return required
}

// ReadinessScore computes the 0-100 completion percentage for a vehicle.
//
// Consignment vehicles are scored on the six operational tasks alone: they
// were never purchased, so purchase-cost evidence does not apply. Every other
// vehicle is scored on the six tasks plus one item per applicable job cost,
// where a cost counts as complete once ANY invoice carries evidence for it
// (job costs are shared across investor invoices).
func ReadinessScore(v *models.Vehicle) int {
	completedOps := v.OperationalChecklist.CompletedCount()

	if v.Status == models.StatusConsignment {
		return int(math.Round(100 * float64(completedOps) / float64(len(models.ChecklistTasks))))
	}

	required := RequiredCostTypes(v.JobCosting)
	totalItems := len(models.ChecklistTasks) + len(required)
	if totalItems == 0 {
		return 0
	}

	totalCompleted := completedOps
	for _, ct := range required {
		if models.FindCostEvidence(ct, v.Invoices) != nil {
			totalCompleted++
		}
	}
	return int(math.Round(100 * float64(totalCompleted) / float64(totalItems)))
}

// ReadinessBreakdown is the per-item view returned alongside the score so the
// frontend can show what is still blocking the vehicle.
type ReadinessBreakdown struct {
	Score             int             `json:"score"`
	OperationalDone   int             `json:"operationalDone"`
	OperationalTotal  int             `json:"operationalTotal"`
	RequiredCostTypes []string        `json:"requiredCostTypes"`
	EvidencedCosts    map[string]bool `json:"evidencedCosts"`
}

// BuildReadinessBreakdown expands ReadinessScore into its parts.
func BuildReadinessBreakdown(v *models.Vehicle) ReadinessBreakdown {
	required := RequiredCostTypes(v.JobCosting)
	evidenced := make(map[string]bool, len(required))
	if v.Status != models.StatusConsignment {
		for _, ct := range required {
			evidenced[ct] = models.FindCostEvidence(ct, v.Invoices) != nil
		}
	} else {
		required = nil
	}
	return ReadinessBreakdown{
		Score:             ReadinessScore(v),
		OperationalDone:   v.OperationalChecklist.CompletedCount(),
		OperationalTotal:  len(models.ChecklistTasks),
		RequiredCostTypes: required,
		EvidencedCosts:    evidenced,
	}
}
