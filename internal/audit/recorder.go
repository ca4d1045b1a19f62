package audit

import (
	"context"

	EventBus "github.com/asaskevich/EventBus"
	"github.com/talkincode/catalogadmin/internal/domain"
	"go.uber.org/zap"
)

// Recorder persists events published on TopicOprLog.
type Recorder struct {
	repo OprLogRepository
	bus  EventBus.Bus
}

func NewRecorder(repo OprLogRepository) *Recorder {
	return &Recorder{repo: repo}
}

// Subscribe starts recording events from bus asynchronously.
func (r *Recorder) Subscribe(bus EventBus.Bus) error {
	r.bus = bus
	return bus.SubscribeAsync(TopicOprLog, r.handle, false)
}

// Close unsubscribes and waits for pending writes.
func (r *Recorder) Close() {
	if r.bus == nil {
		return
	}
	_ = r.bus.Unsubscribe(TopicOprLog, r.handle)
	r.bus.WaitAsync()
	r.bus = nil
}

func (r *Recorder) handle(evt Event) {
	entry := &domain.SysOprLog{
		OprId:     evt.OprId,
		OprName:   evt.OprName,
		OptAction: evt.Action,
		OptDesc:   evt.Desc,
		OptTime:   evt.Time,
	}
	if err := r.repo.Create(context.Background(), entry); err != nil {
		zap.L().Error("failed to record admin operation",
			zap.String("action", evt.Action),
			zap.Int64("opr_id", evt.OprId),
			zap.Error(err))
	}
}
