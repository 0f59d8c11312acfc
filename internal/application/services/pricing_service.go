package services

import (
	"context"
	"log"
	"time"

	"github.com/atlaserp/backend/internal/domain/models"
	"github.com/atlaserp/backend/internal/infrastructure/persistence"
	"github.com/atlaserp/backend/pkg/errors"
	"github.com/atlaserp/backend/pkg/expression"
	"github.com/atlaserp/backend/pkg/utils"
)

// PricingService evaluates per-company discount rules against invoice
// line context. Rules are expr expressions like
// "IF(quantity >= 10, 15.0, 0.0)" that yield a discount percentage.
type PricingService struct {
	engine   *expression.Engine
	invoices *persistence.InvoiceRepository
}

func NewPricingService(engine *expression.Engine, invoices *persistence.InvoiceRepository) *PricingService {
	return &PricingService{engine: engine, invoices: invoices}
}

// sampleEnv is used to compile-check rule expressions at save time.
var sampleEnv = map[string]interface{}{
	"quantity":   1.0,
	"unit_price": 0.0,
	"line_total": 0.0,
}

type PricingRuleRequest struct {
	CompanyID  string `json:"company_id" binding:"required"`
	Name       string `json:"name" binding:"required"`
	Expression string `json:"expression" binding:"required"`
}

func (s *PricingService) CreateRule(ctx context.Context, req PricingRuleRequest) (*models.PricingRule, error) {
	if err := s.engine.Validate(req.Expression, sampleEnv); err != nil {
		return nil, errors.NewValidationError("expression", err.Error())
	}

	rule := &models.PricingRule{
		ID:          utils.GenerateID(),
		CompanyID:   req.CompanyID,
		Name:        req.Name,
		Expression:  req.Expression,
		IsActive:    true,
		CreatedDate: time.Now(),
	}
	if err := s.invoices.InsertPricingRule(ctx, rule); err != nil {
		return nil, errors.NewPersistenceError("create pricing rule", err)
	}
	return rule, nil
}

func (s *PricingService) ListRules(ctx context.Context, companyID string) ([]*models.PricingRule, error) {
	rules, err := s.invoices.FindActivePricingRules(ctx, companyID)
	if err != nil {
		return nil, errors.NewPersistenceError("list pricing rules", err)
	}
	return rules, nil
}

func (s *PricingService) DeleteRule(ctx context.Context, id string) error {
	if err := s.invoices.DeletePricingRule(ctx, id); err != nil {
		return errors.NewPersistenceError("delete pricing rule", err)
	}
	return nil
}

// DiscountFor evaluates every active rule for the company against the
// line environment and returns the largest discount, clamped to
// [0, 100]. A rule that fails to evaluate is skipped, never fatal.
func (s *PricingService) DiscountFor(ctx context.Context, companyID string, env map[string]interface{}) float64 {
	if companyID == "" {
		return 0
	}
	rules, err := s.invoices.FindActivePricingRules(ctx, companyID)
	if err != nil {
		log.Printf("⚠️ Failed to load pricing rules for %s: %v", companyID, err)
		return 0
	}

	best := 0.0
	for _, rule := range rules {
		pct, err := s.engine.EvaluateNumber(rule.Expression, env)
		if err != nil {
			log.Printf("⚠️ Pricing rule %s failed to evaluate: %v", rule.ID, err)
			continue
		}
		if pct > best {
			best = pct
		}
	}

	if best < 0 {
		return 0
	}
	if best > 100 {
		return 100
	}
	return best
}
