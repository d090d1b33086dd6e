package services

import (
	"sort"

	"github.com/fadhlanhapp/splitbill-backend/metrics"
	"github.com/fadhlanhapp/splitbill-backend/models"
	"github.com/fadhlanhapp/splitbill-backend/utils"
)

const unknownParticipantName = "Unknown participant"

// SettlementService turns a settlement summary into the view shown to users
type SettlementService struct {
	calculator *CalculationService
}

// NewSettlementService creates a new settlement service
func NewSettlementService(calculator *CalculationService) *SettlementService {
	return &SettlementService{calculator: calculator}
}

// BuildView settles a loaded bill and lists every participant's total in
// participant order. Totals owed to ids no longer on the bill follow at the
// end under a placeholder name.
func (s *SettlementService) BuildView(bill *models.SplitBill) *models.SettlementView {
	summary := s.calculator.ComputeBillSettlement(bill)
	metrics.SettlementsComputed.Inc()

	view := &models.SettlementView{
		GrandTotal:           utils.Round(summary.GrandTotal),
		PerParticipantTotals: summary.PerParticipantTotals,
		Participants:         make([]models.ParticipantTotal, 0, len(bill.Participants)),
	}

	listed := make(map[string]bool, len(bill.Participants))
	for _, p := range bill.Participants {
		listed[p.ID] = true
		view.Participants = append(view.Participants, models.ParticipantTotal{
			ParticipantID: p.ID,
			Name:          p.Name,
			Total:         utils.Round(summary.PerParticipantTotals[p.ID]),
		})
	}

	var dangling []string
	for id := range summary.PerParticipantTotals {
		if !listed[id] {
			dangling = append(dangling, id)
		}
	}
	sort.Strings(dangling)
	for _, id := range dangling {
		view.Participants = append(view.Participants, models.ParticipantTotal{
			ParticipantID: id,
			Name:          unknownParticipantName,
			Total:         utils.Round(summary.PerParticipantTotals[id]),
		})
	}

	return view
}
