// Package adventure implements the adventure orchestrator. It loads a
// session, runs one engine action, persists the result and announces the
// produced events.
package adventure

//go:generate mockgen -destination=mock/mock_service.go -package=adventuremock github.com/RevenantSoul/Text-base-RPG-Game/internal/orchestrators/adventure Service

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/KirkDiggler/rpg-toolkit/dice"
	"github.com/KirkDiggler/rpg-toolkit/events"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/RevenantSoul/Text-base-RPG-Game/internal/engine"
	"github.com/RevenantSoul/Text-base-RPG-Game/internal/entities/game"
	"github.com/RevenantSoul/Text-base-RPG-Game/internal/errors"
	"github.com/RevenantSoul/Text-base-RPG-Game/internal/pkg/idgen"
	"github.com/RevenantSoul/Text-base-RPG-Game/internal/repositories/sessions"
)

const (
	// MaxPlayerNameLength bounds the player name in characters
	MaxPlayerNameLength = 64

	// EventTypePrefix is prepended to game.EventKind for bus event types
	EventTypePrefix = "adventure."

	// Bus event context keys
	ContextKeyMessage     = "message"
	ContextKeyStyle       = "style"
	ContextKeyDamageDealt = "damage_dealt"
	ContextKeyHealthLost  = "health_lost"
	ContextKeyGoldGained  = "gold_gained"
	ContextKeyItemGained  = "item_gained"

	welcomeMessage = "Welcome to the text RPG!"
	promptMessage  = "Choose an action to begin your journey."

	tracerName = "github.com/RevenantSoul/Text-base-RPG-Game/internal/orchestrators/adventure"
)

// Service defines the interface for adventure operations
type Service interface {
	StartSession(ctx context.Context, input *StartSessionInput) (*StartSessionOutput, error)
	GetSession(ctx context.Context, input *GetSessionInput) (*GetSessionOutput, error)
	DeleteSession(ctx context.Context, input *DeleteSessionInput) (*DeleteSessionOutput, error)

	// Player actions; each fails with InvalidSessionState once the session has ended
	Explore(ctx context.Context, input *ExploreInput) (*ExploreOutput, error)
	Attack(ctx context.Context, input *AttackInput) (*AttackOutput, error)
	Quit(ctx context.Context, input *QuitInput) (*QuitOutput, error)
}

// Config holds the dependencies for the adventure orchestrator
type Config struct {
	SessionRepo sessions.Repository
	IDGenerator idgen.Generator
	EventBus    events.EventBus

	// Roller supplies every random draw. Nil uses a crypto roller.
	Roller dice.Roller

	// SessionTTL is applied on start and slid forward on every action.
	// Zero uses sessions.DefaultTTL.
	SessionTTL time.Duration
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.SessionRepo == nil {
		vb.RequiredField("SessionRepo")
	}
	if c.IDGenerator == nil {
		vb.RequiredField("IDGenerator")
	}
	if c.EventBus == nil {
		vb.RequiredField("EventBus")
	}
	if c.SessionTTL < 0 {
		vb.Field("SessionTTL", "must not be negative")
	}

	return vb.Build()
}

type orchestrator struct {
	sessionRepo sessions.Repository
	idGen       idgen.Generator
	eventBus    events.EventBus
	roller      dice.Roller
	sessionTTL  time.Duration
	tracer      trace.Tracer

	// locks holds one *sync.Mutex per session ID
	locks sync.Map
}

// NewOrchestrator creates a new adventure orchestrator with the provided dependencies
func NewOrchestrator(cfg *Config) (Service, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	roller := cfg.Roller
	if roller == nil {
		roller = &dice.CryptoRoller{}
	}

	ttl := cfg.SessionTTL
	if ttl == 0 {
		ttl = sessions.DefaultTTL
	}

	return &orchestrator{
		sessionRepo: cfg.SessionRepo,
		idGen:       cfg.IDGenerator,
		eventBus:    cfg.EventBus,
		roller:      roller,
		sessionTTL:  ttl,
		tracer:      otel.Tracer(tracerName),
	}, nil
}

// StartSession creates a fresh character and greets the player
func (o *orchestrator) StartSession(ctx context.Context, input *StartSessionInput) (*StartSessionOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	name := strings.TrimSpace(input.PlayerName)
	if name == "" {
		name = game.DefaultPlayerName
	}
	if utf8.RuneCountInString(name) > MaxPlayerNameLength {
		return nil, errors.InvalidArgumentf("player name must be at most %d characters", MaxPlayerNameLength).
			WithMeta("field", "PlayerName")
	}

	sessionID := o.idGen.Generate()
	ctx, span := o.tracer.Start(ctx, "adventure.StartSession",
		trace.WithAttributes(attribute.String("adventure.session_id", sessionID)))
	defer span.End()

	slog.Info("Adventure session start requested",
		"session_id", sessionID,
		"player_name", name)

	session, err := engine.NewSession(&engine.SessionConfig{
		PlayerName: name,
		Roller:     o.roller,
	})
	if err != nil {
		return nil, recordError(span, errors.Wrap(err, "failed to create session"))
	}

	welcome := []game.Event{
		{Kind: game.EventKindWelcome, Message: welcomeMessage},
		{Kind: game.EventKindWelcome, Message: promptMessage},
	}

	created, err := o.sessionRepo.Create(ctx, sessions.CreateInput{
		Session: &sessions.SessionData{
			ID:        sessionID,
			Character: session.Character(),
			Status:    session.Status(),
			Events:    welcome,
		},
		TTL: o.sessionTTL,
	})
	if err != nil {
		return nil, recordError(span, errors.Wrapf(err, "failed to store session"))
	}

	o.publish(ctx, sessionID, welcome)

	return &StartSessionOutput{
		SessionID: sessionID,
		Events:    welcome,
		Snapshot:  session.Snapshot(),
		ExpiresAt: created.Session.ExpiresAt,
	}, nil
}

// GetSession returns the current state and the full event log
func (o *orchestrator) GetSession(ctx context.Context, input *GetSessionInput) (*GetSessionOutput, error) {
	if input == nil || input.SessionID == "" {
		return nil, errors.InvalidArgument("session ID is required")
	}

	ctx, span := o.tracer.Start(ctx, "adventure.GetSession",
		trace.WithAttributes(attribute.String("adventure.session_id", input.SessionID)))
	defer span.End()

	unlock := o.lock(input.SessionID)
	defer unlock()

	out, err := o.sessionRepo.Get(ctx, sessions.GetInput{SessionID: input.SessionID})
	if err != nil {
		return nil, recordError(span, errors.Wrapf(err, "failed to get session"))
	}

	data := out.Session
	return &GetSessionOutput{
		SessionID: data.ID,
		Snapshot:  game.NewSnapshot(data.Character, data.Status),
		Events:    data.Events,
		CreatedAt: data.CreatedAt,
		ExpiresAt: data.ExpiresAt,
	}, nil
}

// DeleteSession discards a session regardless of its status
func (o *orchestrator) DeleteSession(ctx context.Context, input *DeleteSessionInput) (*DeleteSessionOutput, error) {
	if input == nil || input.SessionID == "" {
		return nil, errors.InvalidArgument("session ID is required")
	}

	unlock := o.lock(input.SessionID)
	defer unlock()

	out, err := o.sessionRepo.Delete(ctx, sessions.DeleteInput{SessionID: input.SessionID})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to delete session")
	}

	slog.Info("Adventure session deleted",
		"session_id", input.SessionID,
		"deleted", out.Deleted)

	return &DeleteSessionOutput{Deleted: out.Deleted}, nil
}

// Explore draws one reward for the session's character
func (o *orchestrator) Explore(ctx context.Context, input *ExploreInput) (*ExploreOutput, error) {
	if input == nil || input.SessionID == "" {
		return nil, errors.InvalidArgument("session ID is required")
	}

	result, err := o.act(ctx, input.SessionID, "explore", func(s *engine.Session) (*game.Event, error) {
		return s.Explore()
	})
	if err != nil {
		return nil, err
	}

	return &ExploreOutput{
		SessionID: input.SessionID,
		Events:    result.events,
		Snapshot:  result.snapshot,
	}, nil
}

// Attack resolves one attack in the given style. Unrecognized styles are not
// an error; they produce an unrecognized-attack event.
func (o *orchestrator) Attack(ctx context.Context, input *AttackInput) (*AttackOutput, error) {
	if input == nil || input.SessionID == "" {
		return nil, errors.InvalidArgument("session ID is required")
	}

	style := game.AttackStyle(strings.ToLower(strings.TrimSpace(string(input.Style))))

	result, err := o.act(ctx, input.SessionID, "attack", func(s *engine.Session) (*game.Event, error) {
		return s.Attack(style)
	})
	if err != nil {
		return nil, err
	}

	return &AttackOutput{
		SessionID: input.SessionID,
		Events:    result.events,
		Snapshot:  result.snapshot,
	}, nil
}

// Quit ends the session
func (o *orchestrator) Quit(ctx context.Context, input *QuitInput) (*QuitOutput, error) {
	if input == nil || input.SessionID == "" {
		return nil, errors.InvalidArgument("session ID is required")
	}

	result, err := o.act(ctx, input.SessionID, "quit", func(s *engine.Session) (*game.Event, error) {
		return s.Quit()
	})
	if err != nil {
		return nil, err
	}

	return &QuitOutput{
		SessionID: input.SessionID,
		Events:    result.events,
		Snapshot:  result.snapshot,
	}, nil
}

type actionResult struct {
	events   []game.Event
	snapshot game.Snapshot
}

// act runs one engine action under the session lock: load, restore, apply,
// persist, publish
func (o *orchestrator) act(
	ctx context.Context,
	sessionID, action string,
	apply func(*engine.Session) (*game.Event, error),
) (*actionResult, error) {
	ctx, span := o.tracer.Start(ctx, "adventure."+action,
		trace.WithAttributes(
			attribute.String("adventure.session_id", sessionID),
			attribute.String("adventure.action", action),
		))
	defer span.End()

	unlock := o.lock(sessionID)
	defer unlock()

	out, err := o.sessionRepo.Get(ctx, sessions.GetInput{SessionID: sessionID})
	if err != nil {
		return nil, recordError(span, errors.Wrapf(err, "failed to get session"))
	}
	data := out.Session

	session, err := engine.NewSession(&engine.SessionConfig{
		Character: data.Character,
		Status:    data.Status,
		Roller:    o.roller,
	})
	if err != nil {
		return nil, recordError(span, errors.WrapWithCode(err, errors.CodeInternal, "stored session is inconsistent"))
	}

	event, err := apply(session)
	if err != nil {
		if errors.IsInvalidSessionState(err) {
			slog.Info("Adventure action rejected",
				"session_id", sessionID,
				"action", action,
				"status", session.Status())
			span.SetAttributes(attribute.String("adventure.status", session.Status().String()))
			return nil, err
		}
		return nil, recordError(span, err)
	}

	data.Character = session.Character()
	data.Status = session.Status()
	data.Events = append(data.Events, *event)

	if _, err := o.sessionRepo.Update(ctx, sessions.UpdateInput{
		Session: data,
		TTL:     o.sessionTTL,
	}); err != nil {
		return nil, recordError(span, errors.Wrapf(err, "failed to save session"))
	}

	produced := []game.Event{*event}
	o.publish(ctx, sessionID, produced)

	snapshot := session.Snapshot()
	slog.Info("Adventure action resolved",
		"session_id", sessionID,
		"action", action,
		"event", event.Kind,
		"health", snapshot.Health,
		"gold", snapshot.Gold,
		"status", snapshot.Status)
	span.SetAttributes(
		attribute.String("adventure.event", string(event.Kind)),
		attribute.String("adventure.status", snapshot.Status.String()),
	)

	return &actionResult{
		events:   produced,
		snapshot: snapshot,
	}, nil
}

// publish announces events on the bus. Bus failures are logged and do not
// fail the action since the session is already persisted.
func (o *orchestrator) publish(ctx context.Context, sessionID string, produced []game.Event) {
	source := &engine.CharacterEntity{SessionID: sessionID}
	for _, e := range produced {
		busEvent := events.NewGameEvent(EventTypePrefix+string(e.Kind), source, nil)
		busEvent.Context().Set(ContextKeyMessage, e.Message)
		if e.Style != "" {
			busEvent.Context().Set(ContextKeyStyle, string(e.Style))
		}
		if e.DamageDealt != 0 {
			busEvent.Context().Set(ContextKeyDamageDealt, e.DamageDealt)
		}
		if e.HealthLost != 0 {
			busEvent.Context().Set(ContextKeyHealthLost, e.HealthLost)
		}
		if e.GoldGained != 0 {
			busEvent.Context().Set(ContextKeyGoldGained, e.GoldGained)
		}
		if e.ItemGained != "" {
			busEvent.Context().Set(ContextKeyItemGained, e.ItemGained)
		}

		if err := o.eventBus.Publish(ctx, busEvent); err != nil {
			slog.Warn("Failed to publish adventure event",
				"session_id", sessionID,
				"event", e.Kind,
				"error", err)
		}
	}
}

func (o *orchestrator) lock(sessionID string) func() {
	value, _ := o.locks.LoadOrStore(sessionID, &sync.Mutex{})
	mu := value.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

func recordError(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(otelcodes.Error, err.Error())
	return err
}
