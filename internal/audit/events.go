package audit

import (
	"context"
	"time"

	EventBus "github.com/asaskevich/EventBus"
	"github.com/talkincode/catalogadmin/internal/domain"
)

// TopicOprLog is the event bus topic carrying admin operations.
const TopicOprLog = "audit:oprlog"

const (
	ActionLogin          = "admin.login"
	ActionProductAdd     = "product.add"
	ActionProductUpdate  = "product.update"
	ActionProductDelete  = "product.delete"
	ActionProductBulkDel = "product.bulk_delete"
)

// Event is an admin operation waiting to be written to sys_opr_log.
type Event struct {
	OprId   int64
	OprName string
	Action  string
	Desc    string
	Time    time.Time
}

// Publish sends evt on the bus. A nil bus drops the event.
func Publish(bus EventBus.Bus, evt Event) {
	if bus == nil {
		return
	}
	if evt.Time.IsZero() {
		evt.Time = time.Now()
	}
	bus.Publish(TopicOprLog, evt)
}

// PublishFromContext publishes an event attributed to the identity on ctx.
func PublishFromContext(ctx context.Context, bus EventBus.Bus, action, desc string) {
	evt := Event{Action: action, Desc: desc}
	if id, ok := domain.IdentityFromContext(ctx); ok {
		evt.OprId = id.ID
		evt.OprName = id.Email
	}
	Publish(bus, evt)
}
