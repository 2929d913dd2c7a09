package service

import (
	"context"

	"lastwill-backend/internal/domain/entity"
	"lastwill-backend/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type AuditService interface {
	LogAction(ctx context.Context, db *gorm.DB, userID *uuid.UUID, action string, entityName string, entityID string, metadata interface{}) error
}

type auditService struct {
	log       *logrus.Logger
	auditRepo repository.AuditLogRepository
}

func NewAuditService(log *logrus.Logger, auditRepo repository.AuditLogRepository) AuditService {
	return &auditService{
		log:       log,
		auditRepo: auditRepo,
	}
}

// LogAction records one lifecycle action for the audit trail. Audit failures
// are logged and reported but callers treat them as non-fatal.
func (s *auditService) LogAction(ctx context.Context, db *gorm.DB, userID *uuid.UUID, action string, entityName string, entityID string, metadata interface{}) error {
	auditLog := &entity.AuditLog{
		UserID: userID,
		Action: action,
		Metadata: entity.JSON{
			"entity":    entityName,
			"entity_id": entityID,
			"detail":    metadata,
		},
	}

	if err := s.auditRepo.Create(db, auditLog); err != nil {
		s.log.Warnf("Failed to create audit log: %+v", err)
		return err
	}

	return nil
}
