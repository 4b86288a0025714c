package performance

import (
	"context"

	"gorm.io/gorm"

	"github.com/orderplus/orderplus-backend/pkg/db/models"
	"github.com/orderplus/orderplus-backend/pkg/enums"
	"github.com/orderplus/orderplus-backend/pkg/logger"
	"github.com/orderplus/orderplus-backend/pkg/metrics"
)

// Recorder writes agent performance point rows after an order update commits.
// Failures never reach the caller; they are logged and counted so the drop
// stays observable.
type Recorder struct {
	db      *gorm.DB
	logg    *logger.Logger
	metrics *metrics.PipelineMetrics
}

// NewRecorder constructs a performance recorder.
func NewRecorder(db *gorm.DB, logg *logger.Logger, m *metrics.PipelineMetrics) *Recorder {
	return &Recorder{db: db, logg: logg, metrics: m}
}

// RecordInput carries the order update context worth a point.
type RecordInput struct {
	UserID   int64
	UserName string
	OrderID  int64
	Type     string
}

// Record appends one EmployeeRange point row. Best effort only.
func (r *Recorder) Record(ctx context.Context, input RecordInput) {
	if r == nil || r.db == nil {
		return
	}

	row := models.EmployeeRange{
		Name:    input.UserName,
		UserID:  input.UserID,
		OrderID: input.OrderID,
		Type:    input.Type,
		Stage:   enums.EmployeeStageBasic,
		Status:  enums.EmployeeRangeStatusActive,
		Point:   "1",
	}

	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if r.metrics != nil {
			r.metrics.IncPerformanceFailure()
		}
		if r.logg != nil {
			logCtx := r.logg.WithFields(ctx, map[string]any{
				"user_id":  input.UserID,
				"order_id": input.OrderID,
				"type":     input.Type,
			})
			r.logg.Error(logCtx, "recording performance point", err)
		}
	}
}
