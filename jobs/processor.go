// jobs/processor.go — proses task dari queue
package jobs

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"gorm.io/gorm"
)

type EmailProcessor struct {
	db  *gorm.DB
	rdb *redis.Client
	cfg MailerConfig
}

func NewEmailProcessor(db *gorm.DB, rdb *redis.Client, cfg MailerConfig) *EmailProcessor {
	return &EmailProcessor{db: db, rdb: rdb, cfg: cfg}
}

func (p *EmailProcessor) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload OrderConfirmationPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("invalid payload: %w", err)
	}

	job := NewOrderConfirmationJob(payload.OrderID, p.db, p.rdb, p.cfg)
	return job.Handle(ctx)
}
