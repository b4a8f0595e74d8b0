package adventure

import (
	"context"
	"log/slog"
	"strings"

	"github.com/KirkDiggler/rpg-toolkit/events"

	"github.com/RevenantSoul/Text-base-RPG-Game/internal/entities/game"
	"github.com/RevenantSoul/Text-base-RPG-Game/internal/errors"
)

// journalPriority runs the journal after gameplay subscribers
const journalPriority = 1000

// Journal writes every adventure event published on a bus to a structured log
type Journal struct {
	bus    events.EventBus
	logger *slog.Logger
	subIDs []string
}

// NewJournal subscribes to every adventure event kind. A nil logger uses slog.Default.
func NewJournal(bus events.EventBus, logger *slog.Logger) (*Journal, error) {
	if bus == nil {
		return nil, errors.InvalidArgument("event bus is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	j := &Journal{bus: bus, logger: logger}
	for _, kind := range game.EventKinds() {
		id := bus.SubscribeFunc(EventTypePrefix+string(kind), journalPriority, j.handle)
		j.subIDs = append(j.subIDs, id)
	}

	return j, nil
}

// Close removes the journal's subscriptions
func (j *Journal) Close() error {
	for _, id := range j.subIDs {
		if err := j.bus.Unsubscribe(id); err != nil {
			return errors.Wrapf(err, "failed to unsubscribe %s", id)
		}
	}
	j.subIDs = nil
	return nil
}

func (j *Journal) handle(ctx context.Context, event events.Event) error {
	attrs := []any{
		"event", strings.TrimPrefix(event.Type(), EventTypePrefix),
	}
	if source := event.Source(); source != nil {
		attrs = append(attrs, "session_id", source.GetID())
	}
	for _, key := range []string{
		ContextKeyStyle,
		ContextKeyDamageDealt,
		ContextKeyHealthLost,
		ContextKeyGoldGained,
		ContextKeyItemGained,
	} {
		if value, ok := event.Context().Get(key); ok {
			attrs = append(attrs, key, value)
		}
	}

	message, _ := event.Context().Get(ContextKeyMessage)
	msg, _ := message.(string)
	j.logger.InfoContext(ctx, "Adventure event: "+firstLine(msg), attrs...)
	return nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
