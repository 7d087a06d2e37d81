package audit

import (
	"encoding/json"
	"fmt"

	"stroy-backend/internal/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type LogOptions struct {
	EntityType  string
	EntityID    uint
	Action      models.AuditAction
	Description string
	Before      any
	After       any
	RequestID   string
	RemoteIP    string
}

// WriteLog пишет запись в той же транзакции, что и само изменение
func WriteLog(tx *gorm.DB, opts LogOptions) error {
	entry := models.AuditLog{
		EntityType:  opts.EntityType,
		EntityID:    opts.EntityID,
		Action:      opts.Action,
		Description: truncate(opts.Description, 255),
		BeforeData:  snapshot(opts.Before),
		AfterData:   snapshot(opts.After),
		RequestID:   opts.RequestID,
		RemoteIP:    opts.RemoteIP,
	}

	if err := tx.Create(&entry).Error; err != nil {
		return fmt.Errorf("audit log не сохранен: %w", err)
	}
	return nil
}

// snapshot: пустое состояние хранится как JSON null
func snapshot(v any) datatypes.JSON {
	if v == nil {
		return datatypes.JSON("null")
	}
	b, err := json.Marshal(v)
	if err != nil {
		return datatypes.JSON("null")
	}
	return datatypes.JSON(b)
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
