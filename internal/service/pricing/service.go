package pricing

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-QuestScheduleService/internal/domain"
	pricingRuleRepo "github.com/m04kA/SMC-QuestScheduleService/internal/infra/storage/pricingrule"
	questRepo "github.com/m04kA/SMC-QuestScheduleService/internal/infra/storage/quest"
	"github.com/m04kA/SMC-QuestScheduleService/internal/service/pricing/models"
)

// Service сервис управления правилами ценообразования
type Service struct {
	ruleRepo  RuleRepository
	questRepo QuestRepository
	logger    Logger
}

// NewService создает новый экземпляр сервиса правил
func NewService(ruleRepo RuleRepository, questRepo QuestRepository, logger Logger) *Service {
	return &Service{
		ruleRepo:  ruleRepo,
		questRepo: questRepo,
		logger:    logger,
	}
}

// UpsertPricingRule создает правило (ID == 0) или обновляет существующее
// Изменение правила влияет только на последующие генерации расписания
func (s *Service) UpsertPricingRule(ctx context.Context, req *models.UpsertRuleRequest) (*models.RuleResponse, error) {
	s.logger.Info("UpsertPricingRule: id=%d, quests=%v, blocked=%t, priority=%d",
		req.ID, req.QuestIDs, req.IsBlocked, req.Priority)

	// 1. Валидируем форму правила
	if err := validateRule(req); err != nil {
		s.logger.Warn("UpsertPricingRule: validation failed: %v", err)
		return nil, err
	}

	// 2. Проверяем существование всех квестов
	for _, questID := range req.QuestIDs {
		if _, err := s.questRepo.GetByID(ctx, questID); err != nil {
			if errors.Is(err, questRepo.ErrQuestNotFound) {
				s.logger.Warn("UpsertPricingRule: quest id=%d not found", questID)
				return nil, ErrQuestNotFound
			}
			s.logger.Error("UpsertPricingRule: failed to get quest id=%d: %v", questID, err)
			return nil, fmt.Errorf("%w: UpsertPricingRule - get quest: %v", ErrInternal, err)
		}
	}

	rule := req.ToDomainRule()

	// 3. Создаем новое правило
	if rule.ID == 0 {
		created, err := s.ruleRepo.Create(ctx, rule)
		if err != nil {
			s.logger.Error("UpsertPricingRule: failed to create rule: %v", err)
			return nil, fmt.Errorf("%w: UpsertPricingRule - create: %v", ErrInternal, err)
		}
		s.logger.Info("UpsertPricingRule: rule id=%d created", created.ID)
		return models.FromDomainRule(created), nil
	}

	// 4. Обновляем существующее
	updated, err := s.ruleRepo.Update(ctx, rule)
	if err != nil {
		if errors.Is(err, pricingRuleRepo.ErrRuleNotFound) {
			s.logger.Warn("UpsertPricingRule: rule id=%d not found", rule.ID)
			return nil, ErrRuleNotFound
		}
		s.logger.Error("UpsertPricingRule: failed to update rule id=%d: %v", rule.ID, err)
		return nil, fmt.Errorf("%w: UpsertPricingRule - update: %v", ErrInternal, err)
	}

	s.logger.Info("UpsertPricingRule: rule id=%d updated", updated.ID)
	return models.FromDomainRule(updated), nil
}

// GetByID возвращает правило по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*models.RuleResponse, error) {
	rule, err := s.ruleRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pricingRuleRepo.ErrRuleNotFound) {
			return nil, ErrRuleNotFound
		}
		s.logger.Error("GetByID: repository error for rule id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainRule(rule), nil
}

// List возвращает правила, опционально только для квеста и только активные
func (s *Service) List(ctx context.Context, req *models.ListRulesRequest) (*models.RuleListResponse, error) {
	rules, err := s.ruleRepo.List(ctx, domain.PricingRuleFilter{
		QuestID:    req.QuestID,
		OnlyActive: req.OnlyActive,
	})
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainRuleList(rules), nil
}

// Delete удаляет правило
func (s *Service) Delete(ctx context.Context, id int64) error {
	s.logger.Info("Delete: deleting rule id=%d", id)

	if err := s.ruleRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, pricingRuleRepo.ErrRuleNotFound) {
			s.logger.Warn("Delete: rule id=%d not found", id)
			return ErrRuleNotFound
		}
		s.logger.Error("Delete: repository error for rule id=%d: %v", id, err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	return nil
}
