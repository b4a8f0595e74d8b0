// Package v1alpha1 handles the adventure gRPC service interface
package v1alpha1

import (
	"context"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/RevenantSoul/Text-base-RPG-Game/internal/entities/game"
	"github.com/RevenantSoul/Text-base-RPG-Game/internal/errors"
	"github.com/RevenantSoul/Text-base-RPG-Game/internal/orchestrators/adventure"
)

// HandlerConfig holds dependencies for the adventure handler
type HandlerConfig struct {
	AdventureService adventure.Service
}

// Validate ensures all required dependencies are present
func (c *HandlerConfig) Validate() error {
	if c.AdventureService == nil {
		return errors.InvalidArgument("adventure service is required")
	}
	return nil
}

// Handler implements the adventure gRPC service
type Handler struct {
	adventureService adventure.Service
}

var _ AdventureServiceServer = (*Handler)(nil)

// NewHandler creates a new adventure handler with the given configuration
func NewHandler(cfg *HandlerConfig) (*Handler, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Handler{
		adventureService: cfg.AdventureService,
	}, nil
}

// StartSession begins a new adventure. player_name is optional.
func (h *Handler) StartSession(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	output, err := h.adventureService.StartSession(ctx, &adventure.StartSessionInput{
		PlayerName: stringField(req, FieldPlayerName),
	})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	return respond(&SessionView{
		SessionID: output.SessionID,
		Character: output.Snapshot,
		Events:    output.Events,
		ExpiresAt: timePtr(output.ExpiresAt),
	})
}

// GetSession returns the current state and the full event log
func (h *Handler) GetSession(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	sessionID := stringField(req, FieldSessionID)
	if sessionID == "" {
		return nil, errors.ToGRPCError(errors.InvalidArgument("session_id is required"))
	}

	output, err := h.adventureService.GetSession(ctx, &adventure.GetSessionInput{SessionID: sessionID})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	return respond(&SessionView{
		SessionID: output.SessionID,
		Character: output.Snapshot,
		Events:    output.Events,
		CreatedAt: timePtr(output.CreatedAt),
		ExpiresAt: timePtr(output.ExpiresAt),
	})
}

// Explore runs one exploration
func (h *Handler) Explore(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	sessionID := stringField(req, FieldSessionID)
	if sessionID == "" {
		return nil, errors.ToGRPCError(errors.InvalidArgument("session_id is required"))
	}

	output, err := h.adventureService.Explore(ctx, &adventure.ExploreInput{SessionID: sessionID})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	return respond(&SessionView{
		SessionID: output.SessionID,
		Character: output.Snapshot,
		Events:    output.Events,
	})
}

// Attack resolves one attack. Unknown styles are answered, not rejected.
func (h *Handler) Attack(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	sessionID := stringField(req, FieldSessionID)
	if sessionID == "" {
		return nil, errors.ToGRPCError(errors.InvalidArgument("session_id is required"))
	}

	output, err := h.adventureService.Attack(ctx, &adventure.AttackInput{
		SessionID: sessionID,
		Style:     game.AttackStyle(stringField(req, FieldStyle)),
	})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	return respond(&SessionView{
		SessionID: output.SessionID,
		Character: output.Snapshot,
		Events:    output.Events,
	})
}

// Quit ends the session
func (h *Handler) Quit(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	sessionID := stringField(req, FieldSessionID)
	if sessionID == "" {
		return nil, errors.ToGRPCError(errors.InvalidArgument("session_id is required"))
	}

	output, err := h.adventureService.Quit(ctx, &adventure.QuitInput{SessionID: sessionID})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	return respond(&SessionView{
		SessionID: output.SessionID,
		Character: output.Snapshot,
		Events:    output.Events,
	})
}

// DeleteSession discards a session
func (h *Handler) DeleteSession(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	sessionID := stringField(req, FieldSessionID)
	if sessionID == "" {
		return nil, errors.ToGRPCError(errors.InvalidArgument("session_id is required"))
	}

	output, err := h.adventureService.DeleteSession(ctx, &adventure.DeleteSessionInput{SessionID: sessionID})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	return respond(&DeleteView{Deleted: output.Deleted})
}

func respond(view any) (*structpb.Struct, error) {
	out, err := toStruct(view)
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}
	return out, nil
}
