package main

import (
	"bytes"
	"context"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/KirkDiggler/rpg-toolkit/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/test/bufconn"

	v1alpha1 "github.com/RevenantSoul/Text-base-RPG-Game/internal/handlers/adventure/v1alpha1"
	"github.com/RevenantSoul/Text-base-RPG-Game/internal/orchestrators/adventure"
	"github.com/RevenantSoul/Text-base-RPG-Game/internal/pkg/idgen"
	"github.com/RevenantSoul/Text-base-RPG-Game/internal/repositories/sessions"
)

// nothingRoller always lands on the last face, the empty exploration outcome
type nothingRoller struct{}

func (nothingRoller) Roll(size int) (int, error) { return size, nil }

func (nothingRoller) RollN(count, size int) ([]int, error) {
	out := make([]int, count)
	for i := range out {
		out[i] = size
	}
	return out, nil
}

func newTestClient(t *testing.T) *v1alpha1.Client {
	t.Helper()

	orchestrator, err := adventure.NewOrchestrator(&adventure.Config{
		SessionRepo: sessions.NewInMemory(nil),
		IDGenerator: idgen.NewSequential("adv"),
		EventBus:    events.NewBus(),
		Roller:      nothingRoller{},
	})
	require.NoError(t, err)

	handler, err := v1alpha1.NewHandler(&v1alpha1.HandlerConfig{AdventureService: orchestrator})
	require.NoError(t, err)

	listener := bufconn.Listen(1024 * 1024)
	srv := grpc.NewServer()
	v1alpha1.RegisterAdventureServiceServer(srv, handler)
	go func() { _ = srv.Serve(listener) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return listener.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return v1alpha1.NewClient(conn)
}

func TestPlay_ExploreAttackQuit(t *testing.T) {
	timeout = 5 * time.Second
	c := newTestClient(t)

	var out bytes.Buffer
	err := play(context.Background(), c, strings.NewReader("1\n9\n3\n5\n"), &out, "Aria")
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "Welcome to the text RPG!")
	assert.Contains(t, text, "STATUS (Aria)")
	assert.Contains(t, text, "found nothing of interest")
	assert.Contains(t, text, "❓ Pick a number from 1 to 5.")
	assert.Contains(t, text, "Heavy Attack dealing 6 damage")
	assert.Contains(t, text, "❤️ HP: 95")
	assert.Contains(t, text, "Thanks for playing")
	assert.Contains(t, text, "Session quit")
}

func TestPlay_EndOfInput(t *testing.T) {
	timeout = 5 * time.Second
	c := newTestClient(t)

	var out bytes.Buffer
	err := play(context.Background(), c, strings.NewReader("2\n"), &out, "")
	require.NoError(t, err)

	assert.Contains(t, out.String(), "STATUS (Hero)")
	assert.Contains(t, out.String(), "Quick Attack dealing 3 damage")
}

func TestParseChoice(t *testing.T) {
	for _, input := range []string{"1", " explore ", "2", "HEAVY", "4", "q"} {
		_, ok := parseChoice(input)
		assert.True(t, ok, input)
	}

	_, ok := parseChoice("dance")
	assert.False(t, ok)
}
