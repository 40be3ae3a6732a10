package consumers

import (
	"log"

	"referral-service/internal/services"
)

// SettlementProcessor handles payment-confirmed events. Distribution errors
// propagate so the queue retries the task; the commission records' unique
// key makes every retry safe.
type SettlementProcessor struct {
	Commission *services.CommissionService
}

func NewSettlementProcessor(commission *services.CommissionService) *SettlementProcessor {
	return &SettlementProcessor{Commission: commission}
}

func (p *SettlementProcessor) ProcessOrderSettlement(orderID, buyerID int, orderAmount float64) error {
	log.Printf("Processing commission distribution: order=%d buyer=%d amount=%.2f", orderID, buyerID, orderAmount)
	if err := p.Commission.Distribute(orderID, buyerID, orderAmount); err != nil {
		log.Printf("Commission distribution failed for order %d: %v", orderID, err)
		return err
	}
	return nil
}
