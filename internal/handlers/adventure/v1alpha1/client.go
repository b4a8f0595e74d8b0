package v1alpha1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/RevenantSoul/Text-base-RPG-Game/internal/entities/game"
	"github.com/RevenantSoul/Text-base-RPG-Game/internal/errors"
)

// Client is a typed client for the adventure service. Returned errors are
// converted back with errors.FromGRPCError so callers can use the errors
// package helpers.
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient wraps a client connection
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// StartSession begins a new adventure
func (c *Client) StartSession(ctx context.Context, playerName string, opts ...grpc.CallOption) (*SessionView, error) {
	req := &structpb.Struct{Fields: map[string]*structpb.Value{}}
	if playerName != "" {
		req.Fields[FieldPlayerName] = structpb.NewStringValue(playerName)
	}
	return c.session(ctx, AdventureService_StartSession_FullMethodName, req, opts...)
}

// GetSession loads the current state and the full event log
func (c *Client) GetSession(ctx context.Context, sessionID string, opts ...grpc.CallOption) (*SessionView, error) {
	return c.session(ctx, AdventureService_GetSession_FullMethodName, sessionRequest(sessionID), opts...)
}

// Explore runs one exploration
func (c *Client) Explore(ctx context.Context, sessionID string, opts ...grpc.CallOption) (*SessionView, error) {
	return c.session(ctx, AdventureService_Explore_FullMethodName, sessionRequest(sessionID), opts...)
}

// Attack resolves one attack in style
func (c *Client) Attack(ctx context.Context, sessionID string, style game.AttackStyle, opts ...grpc.CallOption) (*SessionView, error) {
	req := sessionRequest(sessionID)
	req.Fields[FieldStyle] = structpb.NewStringValue(string(style))
	return c.session(ctx, AdventureService_Attack_FullMethodName, req, opts...)
}

// Quit ends the session
func (c *Client) Quit(ctx context.Context, sessionID string, opts ...grpc.CallOption) (*SessionView, error) {
	return c.session(ctx, AdventureService_Quit_FullMethodName, sessionRequest(sessionID), opts...)
}

// DeleteSession discards a session and reports whether it existed
func (c *Client) DeleteSession(ctx context.Context, sessionID string, opts ...grpc.CallOption) (bool, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, AdventureService_DeleteSession_FullMethodName, sessionRequest(sessionID), out, opts...); err != nil {
		return false, errors.FromGRPCError(err)
	}

	var view DeleteView
	if err := fromStruct(out, &view); err != nil {
		return false, err
	}
	return view.Deleted, nil
}

func (c *Client) session(ctx context.Context, method string, req *structpb.Struct, opts ...grpc.CallOption) (*SessionView, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, req, out, opts...); err != nil {
		return nil, errors.FromGRPCError(err)
	}

	var view SessionView
	if err := fromStruct(out, &view); err != nil {
		return nil, err
	}
	return &view, nil
}
