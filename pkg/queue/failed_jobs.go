package queue

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sudeviagro/backoffice/pkg/logger"
	"gorm.io/gorm"
)

// FailedJobRecord is a job that exhausted its retries.
type FailedJobRecord struct {
	ID       uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	JobType  string    `gorm:"size:255;not null;index" json:"job_type"`
	Payload  string    `gorm:"type:text;not null" json:"payload"`
	Error    string    `gorm:"type:text" json:"error"`
	Attempts int       `gorm:"not null" json:"attempts"`
	FailedAt time.Time `gorm:"index" json:"failed_at"`
}

func (FailedJobRecord) TableName() string { return "failed_jobs" }

// UseDB persists failures to the failed_jobs table. The table is created
// by the migrations.
func UseDB(db *gorm.DB) { std.UseDB(db) }

func (m *Manager) UseDB(db *gorm.DB) {
	m.mu.Lock()
	m.db = db
	m.mu.Unlock()
}

func (m *Manager) recordFailure(ctx context.Context, typeName string, job Job, lastErr error, attempts int) {
	now := time.Now().UTC()
	m.mu.Lock()
	m.failed = append(m.failed, FailedJob{Type: typeName, Job: job, Err: lastErr, FailedAt: now, Attempts: attempts})
	db := m.db
	m.mu.Unlock()

	if db == nil {
		return
	}

	payload, _ := json.Marshal(job)
	msg := ""
	if lastErr != nil {
		msg = lastErr.Error()
	}
	rec := FailedJobRecord{JobType: typeName, Payload: string(payload), Error: msg, Attempts: attempts, FailedAt: now}
	if err := db.WithContext(context.WithoutCancel(ctx)).Create(&rec).Error; err != nil {
		logger.WithCtx(ctx).Error("queue: persist failed job", "type", typeName, "error", err)
	}
}
