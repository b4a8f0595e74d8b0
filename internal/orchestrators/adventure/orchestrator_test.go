package adventure_test

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/KirkDiggler/rpg-toolkit/events"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/RevenantSoul/Text-base-RPG-Game/internal/engine"
	"github.com/RevenantSoul/Text-base-RPG-Game/internal/entities/game"
	"github.com/RevenantSoul/Text-base-RPG-Game/internal/errors"
	"github.com/RevenantSoul/Text-base-RPG-Game/internal/orchestrators/adventure"
	"github.com/RevenantSoul/Text-base-RPG-Game/internal/pkg/clock"
	"github.com/RevenantSoul/Text-base-RPG-Game/internal/pkg/idgen"
	"github.com/RevenantSoul/Text-base-RPG-Game/internal/repositories/sessions"
	sessionsmock "github.com/RevenantSoul/Text-base-RPG-Game/internal/repositories/sessions/mock"
	"github.com/RevenantSoul/Text-base-RPG-Game/internal/testutils/builders"
)

// scriptedRoller returns queued rolls in order and fails when exhausted
type scriptedRoller struct {
	mu    sync.Mutex
	rolls []int
}

func (r *scriptedRoller) queue(rolls ...int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rolls = append(r.rolls, rolls...)
}

func (r *scriptedRoller) Roll(size int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.rolls) == 0 {
		return 0, fmt.Errorf("no scripted roll left for d%d", size)
	}
	next := r.rolls[0]
	r.rolls = r.rolls[1:]
	return next, nil
}

func (r *scriptedRoller) RollN(count, size int) ([]int, error) {
	out := make([]int, 0, count)
	for i := 0; i < count; i++ {
		v, err := r.Roll(size)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

type OrchestratorTestSuite struct {
	suite.Suite
	ctx          context.Context
	clock        *clock.Fake
	repo         *sessions.InMemoryRepository
	bus          events.EventBus
	roller       *scriptedRoller
	orchestrator adventure.Service
}

func (s *OrchestratorTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.clock = clock.NewFake(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	s.repo = sessions.NewInMemory(s.clock)
	s.bus = events.NewBus()
	s.roller = &scriptedRoller{}

	var err error
	s.orchestrator, err = adventure.NewOrchestrator(&adventure.Config{
		SessionRepo: s.repo,
		IDGenerator: idgen.NewSequential("adv"),
		EventBus:    s.bus,
		Roller:      s.roller,
		SessionTTL:  time.Hour,
	})
	s.Require().NoError(err)
}

func (s *OrchestratorTestSuite) start() string {
	out, err := s.orchestrator.StartSession(s.ctx, &adventure.StartSessionInput{})
	s.Require().NoError(err)
	return out.SessionID
}

func (s *OrchestratorTestSuite) TestNewOrchestrator_Validation() {
	_, err := adventure.NewOrchestrator(nil)
	s.True(errors.IsInvalidArgument(err))

	_, err = adventure.NewOrchestrator(&adventure.Config{})
	s.Require().Error(err)
	s.Contains(err.Error(), "SessionRepo")
	s.Contains(err.Error(), "IDGenerator")
	s.Contains(err.Error(), "EventBus")
}

func (s *OrchestratorTestSuite) TestStartSession_Defaults() {
	out, err := s.orchestrator.StartSession(s.ctx, &adventure.StartSessionInput{PlayerName: "   "})
	s.Require().NoError(err)

	s.Equal("adv_1", out.SessionID)
	s.Equal(game.DefaultPlayerName, out.Snapshot.Name)
	s.Equal(game.StartingHealth, out.Snapshot.Health)
	s.Equal(game.StartingGold, out.Snapshot.Gold)
	s.Equal(game.WeaponWoodenSword, out.Snapshot.Weapon)
	s.Empty(out.Snapshot.Armor)
	s.Equal([]string{game.ItemPotion, game.WeaponWoodenSword}, out.Snapshot.Inventory)
	s.Equal(game.SessionStatusActive, out.Snapshot.Status)
	s.Equal(s.clock.Now().Add(time.Hour), out.ExpiresAt)

	s.Require().Len(out.Events, 2)
	s.Equal("Welcome to the text RPG!", out.Events[0].Message)
	s.Equal("Choose an action to begin your journey.", out.Events[1].Message)
}

func (s *OrchestratorTestSuite) TestStartSession_NamedPlayer() {
	out, err := s.orchestrator.StartSession(s.ctx, &adventure.StartSessionInput{PlayerName: " Aria "})
	s.Require().NoError(err)
	s.Equal("Aria", out.Snapshot.Name)
}

func (s *OrchestratorTestSuite) TestStartSession_NameTooLong() {
	_, err := s.orchestrator.StartSession(s.ctx, &adventure.StartSessionInput{
		PlayerName: strings.Repeat("a", adventure.MaxPlayerNameLength+1),
	})
	s.True(errors.IsInvalidArgument(err))
}

func (s *OrchestratorTestSuite) TestExplore_Gold() {
	id := s.start()
	s.roller.queue(1, 11)

	out, err := s.orchestrator.Explore(s.ctx, &adventure.ExploreInput{SessionID: id})
	s.Require().NoError(err)

	s.Require().Len(out.Events, 1)
	s.Equal(game.EventKindGoldFound, out.Events[0].Kind)
	s.Equal(15, out.Events[0].GoldGained)
	s.Equal(game.StartingGold+15, out.Snapshot.Gold)
}

func (s *OrchestratorTestSuite) TestExplore_EquipsWeapon() {
	id := s.start()
	s.roller.queue(6)

	out, err := s.orchestrator.Explore(s.ctx, &adventure.ExploreInput{SessionID: id})
	s.Require().NoError(err)

	s.Equal(game.EventKindWeaponEquipped, out.Events[0].Kind)
	s.Equal(game.WeaponMagicSword, out.Snapshot.Weapon)
	s.Contains(out.Snapshot.Inventory, game.WeaponMagicSword)

	got, err := s.orchestrator.GetSession(s.ctx, &adventure.GetSessionInput{SessionID: id})
	s.Require().NoError(err)
	s.Equal(game.WeaponMagicSword, got.Snapshot.Weapon)
}

func (s *OrchestratorTestSuite) TestExplore_RollerFailure() {
	id := s.start()

	_, err := s.orchestrator.Explore(s.ctx, &adventure.ExploreInput{SessionID: id})
	s.True(errors.IsInternal(err))

	got, err := s.orchestrator.GetSession(s.ctx, &adventure.GetSessionInput{SessionID: id})
	s.Require().NoError(err)
	s.Len(got.Events, 2)
}

func (s *OrchestratorTestSuite) TestAttack_Heavy() {
	id := s.start()

	out, err := s.orchestrator.Attack(s.ctx, &adventure.AttackInput{SessionID: id, Style: " Heavy "})
	s.Require().NoError(err)

	event := out.Events[0]
	s.Equal(game.EventKindAttack, event.Kind)
	s.Equal(game.AttackStyleHeavy, event.Style)
	s.Equal(6, event.DamageDealt)
	s.Equal(engine.SelfDamage, event.HealthLost)
	s.Equal(game.StartingHealth-engine.SelfDamage, out.Snapshot.Health)
	s.Contains(out.Snapshot.Inventory, game.ItemGoblinEar)
}

func (s *OrchestratorTestSuite) TestAttack_Unrecognized() {
	id := s.start()

	out, err := s.orchestrator.Attack(s.ctx, &adventure.AttackInput{SessionID: id, Style: "kick"})
	s.Require().NoError(err)

	s.Equal(game.EventKindUnrecognizedAttack, out.Events[0].Kind)
	s.True(out.Events[0].Unrecognized)
	s.Equal(game.StartingHealth, out.Snapshot.Health)
	s.NotContains(out.Snapshot.Inventory, game.ItemGoblinEar)
}

func (s *OrchestratorTestSuite) TestAttack_UntilDefeated() {
	id := s.start()

	attacks := game.StartingHealth / engine.SelfDamage
	var last *adventure.AttackOutput
	for i := 0; i < attacks; i++ {
		out, err := s.orchestrator.Attack(s.ctx, &adventure.AttackInput{SessionID: id, Style: game.AttackStyleQuick})
		s.Require().NoError(err)
		last = out
	}

	s.Equal(game.EventKindDefeated, last.Events[0].Kind)
	s.Equal(0, last.Snapshot.Health)
	s.Equal(game.SessionStatusDefeated, last.Snapshot.Status)
	s.Len(last.Snapshot.Inventory, 2+attacks-1)

	_, err := s.orchestrator.Explore(s.ctx, &adventure.ExploreInput{SessionID: id})
	s.True(errors.IsInvalidSessionState(err))

	_, err = s.orchestrator.Attack(s.ctx, &adventure.AttackInput{SessionID: id, Style: game.AttackStyleQuick})
	s.True(errors.IsInvalidSessionState(err))

	_, err = s.orchestrator.Quit(s.ctx, &adventure.QuitInput{SessionID: id})
	s.True(errors.IsInvalidSessionState(err))
}

func (s *OrchestratorTestSuite) TestQuit() {
	id := s.start()

	out, err := s.orchestrator.Quit(s.ctx, &adventure.QuitInput{SessionID: id})
	s.Require().NoError(err)
	s.Equal(game.EventKindFarewell, out.Events[0].Kind)
	s.Equal(game.SessionStatusQuit, out.Snapshot.Status)

	_, err = s.orchestrator.Quit(s.ctx, &adventure.QuitInput{SessionID: id})
	s.True(errors.IsInvalidSessionState(err))
	s.Equal("quit", errors.GetMeta(err)["status"])

	got, err := s.orchestrator.GetSession(s.ctx, &adventure.GetSessionInput{SessionID: id})
	s.Require().NoError(err)
	s.Len(got.Events, 3)
	s.Equal(game.EventKindFarewell, got.Events[2].Kind)
}

func (s *OrchestratorTestSuite) TestGetSession_EventLog() {
	id := s.start()
	s.roller.queue(13)

	_, err := s.orchestrator.Explore(s.ctx, &adventure.ExploreInput{SessionID: id})
	s.Require().NoError(err)
	_, err = s.orchestrator.Attack(s.ctx, &adventure.AttackInput{SessionID: id, Style: game.AttackStyleMagic})
	s.Require().NoError(err)

	got, err := s.orchestrator.GetSession(s.ctx, &adventure.GetSessionInput{SessionID: id})
	s.Require().NoError(err)

	kinds := make([]game.EventKind, 0, len(got.Events))
	for _, e := range got.Events {
		kinds = append(kinds, e.Kind)
	}
	s.Equal([]game.EventKind{
		game.EventKindWelcome,
		game.EventKindWelcome,
		game.EventKindNothingFound,
		game.EventKindAttack,
	}, kinds)
}

func (s *OrchestratorTestSuite) TestActionsSlideExpiry() {
	id := s.start()

	s.clock.Advance(50 * time.Minute)
	_, err := s.orchestrator.Attack(s.ctx, &adventure.AttackInput{SessionID: id, Style: game.AttackStyleQuick})
	s.Require().NoError(err)

	s.clock.Advance(50 * time.Minute)
	got, err := s.orchestrator.GetSession(s.ctx, &adventure.GetSessionInput{SessionID: id})
	s.Require().NoError(err)
	s.Equal(s.clock.Now().Add(10*time.Minute), got.ExpiresAt)
}

func (s *OrchestratorTestSuite) TestMissingSession() {
	_, err := s.orchestrator.Explore(s.ctx, &adventure.ExploreInput{SessionID: "nope"})
	s.True(errors.IsNotFound(err))

	_, err = s.orchestrator.GetSession(s.ctx, &adventure.GetSessionInput{SessionID: "nope"})
	s.True(errors.IsNotFound(err))

	_, err = s.orchestrator.Attack(s.ctx, &adventure.AttackInput{})
	s.True(errors.IsInvalidArgument(err))
}

func (s *OrchestratorTestSuite) TestDeleteSession() {
	id := s.start()

	out, err := s.orchestrator.DeleteSession(s.ctx, &adventure.DeleteSessionInput{SessionID: id})
	s.Require().NoError(err)
	s.True(out.Deleted)

	_, err = s.orchestrator.GetSession(s.ctx, &adventure.GetSessionInput{SessionID: id})
	s.True(errors.IsNotFound(err))
}

func (s *OrchestratorTestSuite) TestPublishesEvents() {
	var (
		mu       sync.Mutex
		received []events.Event
	)
	s.bus.SubscribeFunc(adventure.EventTypePrefix+string(game.EventKindGoldFound), 0,
		func(_ context.Context, e events.Event) error {
			mu.Lock()
			defer mu.Unlock()
			received = append(received, e)
			return nil
		})

	id := s.start()
	s.roller.queue(1, 16)

	_, err := s.orchestrator.Explore(s.ctx, &adventure.ExploreInput{SessionID: id})
	s.Require().NoError(err)

	mu.Lock()
	defer mu.Unlock()
	s.Require().Len(received, 1)
	s.Equal(id, received[0].Source().GetID())
	gold, ok := received[0].Context().Get(adventure.ContextKeyGoldGained)
	s.True(ok)
	s.Equal(20, gold)
}

func (s *OrchestratorTestSuite) TestConcurrentActionsAreSerialised() {
	id := s.start()

	const attacks = 10
	var wg sync.WaitGroup
	for i := 0; i < attacks; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.orchestrator.Attack(s.ctx, &adventure.AttackInput{SessionID: id, Style: game.AttackStyleQuick})
			s.NoError(err)
		}()
	}
	wg.Wait()

	got, err := s.orchestrator.GetSession(s.ctx, &adventure.GetSessionInput{SessionID: id})
	s.Require().NoError(err)
	s.Equal(game.StartingHealth-attacks*engine.SelfDamage, got.Snapshot.Health)
	s.Len(got.Events, 2+attacks)
}

func TestOrchestratorTestSuite(t *testing.T) {
	suite.Run(t, new(OrchestratorTestSuite))
}

// RepositoryFailureTestSuite drives the orchestrator against a mocked store
type RepositoryFailureTestSuite struct {
	suite.Suite
	ctx          context.Context
	ctrl         *gomock.Controller
	mockRepo     *sessionsmock.MockRepository
	orchestrator adventure.Service
}

func (s *RepositoryFailureTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.ctrl = gomock.NewController(s.T())
	s.mockRepo = sessionsmock.NewMockRepository(s.ctrl)

	var err error
	s.orchestrator, err = adventure.NewOrchestrator(&adventure.Config{
		SessionRepo: s.mockRepo,
		IDGenerator: idgen.NewSequential("adv"),
		EventBus:    events.NewBus(),
		Roller:      &scriptedRoller{},
	})
	s.Require().NoError(err)
}

func (s *RepositoryFailureTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *RepositoryFailureTestSuite) TestStartSession_CreateFails() {
	s.mockRepo.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		Return(nil, errors.Unavailable("redis down"))

	_, err := s.orchestrator.StartSession(s.ctx, &adventure.StartSessionInput{})
	s.Equal(errors.CodeUnavailable, errors.GetCode(err))
}

func (s *RepositoryFailureTestSuite) TestStartSession_UsesConfiguredTTL() {
	s.mockRepo.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input sessions.CreateInput) (*sessions.CreateOutput, error) {
			s.Equal(sessions.DefaultTTL, input.TTL)
			s.Equal("adv_1", input.Session.ID)
			return &sessions.CreateOutput{Session: input.Session}, nil
		})

	_, err := s.orchestrator.StartSession(s.ctx, &adventure.StartSessionInput{})
	s.Require().NoError(err)
}

func (s *RepositoryFailureTestSuite) TestAttack_UpdateFails() {
	stored := builders.NewSessionBuilder().WithID("s1").Build()

	s.mockRepo.EXPECT().
		Get(gomock.Any(), sessions.GetInput{SessionID: "s1"}).
		Return(&sessions.GetOutput{Session: stored}, nil)
	s.mockRepo.EXPECT().
		Update(gomock.Any(), gomock.Any()).
		Return(nil, errors.NotFound("session not found"))

	_, err := s.orchestrator.Attack(s.ctx, &adventure.AttackInput{SessionID: "s1", Style: game.AttackStyleQuick})
	s.True(errors.IsNotFound(err))
}

func (s *RepositoryFailureTestSuite) TestAttack_InconsistentStoredSession() {
	stored := builders.NewSessionBuilder().WithID("s1").WithHealth(0).Build()

	s.mockRepo.EXPECT().
		Get(gomock.Any(), sessions.GetInput{SessionID: "s1"}).
		Return(&sessions.GetOutput{Session: stored}, nil)

	_, err := s.orchestrator.Attack(s.ctx, &adventure.AttackInput{SessionID: "s1", Style: game.AttackStyleQuick})
	s.True(errors.IsInternal(err))
}

func (s *RepositoryFailureTestSuite) TestExplore_TerminalSessionIsNotSaved() {
	stored := builders.NewSessionBuilder().WithID("s1").Defeated().Build()

	s.mockRepo.EXPECT().
		Get(gomock.Any(), sessions.GetInput{SessionID: "s1"}).
		Return(&sessions.GetOutput{Session: stored}, nil)

	_, err := s.orchestrator.Explore(s.ctx, &adventure.ExploreInput{SessionID: "s1"})
	s.True(errors.IsInvalidSessionState(err))
}

func (s *RepositoryFailureTestSuite) TestAttack_AppendsToStoredSession() {
	welcome := game.Event{Kind: game.EventKindWelcome, Message: "Welcome to the text RPG!"}
	stored := builders.NewSessionBuilder().
		WithID("s1").
		WithWeapon(game.WeaponMagicSword).
		WithArmor(game.ArmorStone).
		WithInventory(game.WeaponMagicSword, game.ArmorStone).
		WithEvents(welcome).
		Build()
	damage := engine.BaseDamage(stored.Character)

	s.mockRepo.EXPECT().
		Get(gomock.Any(), sessions.GetInput{SessionID: "s1"}).
		Return(&sessions.GetOutput{Session: stored}, nil)
	s.mockRepo.EXPECT().
		Update(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input sessions.UpdateInput) (*sessions.UpdateOutput, error) {
			s.Equal(sessions.DefaultTTL, input.TTL)
			s.Require().Len(input.Session.Events, 2)
			s.Equal(welcome, input.Session.Events[0])
			s.Equal(game.EventKindAttack, input.Session.Events[1].Kind)
			s.Equal([]string{game.WeaponMagicSword, game.ArmorStone, game.ItemGoblinEar}, input.Session.Character.Inventory)
			return &sessions.UpdateOutput{Session: input.Session}, nil
		})

	out, err := s.orchestrator.Attack(s.ctx, &adventure.AttackInput{SessionID: "s1", Style: game.AttackStyleQuick})
	s.Require().NoError(err)
	s.Require().Len(out.Events, 1)
	s.Equal(damage, out.Events[0].DamageDealt)
	s.Equal(game.WeaponMagicSword, out.Snapshot.Weapon)
	s.Equal(game.ArmorStone, out.Snapshot.Armor)
}

func (s *RepositoryFailureTestSuite) TestGetSession_WaitsForInFlightAction() {
	stored := builders.NewSessionBuilder().WithID("s1").Build()
	saving := make(chan struct{})
	release := make(chan struct{})

	s.mockRepo.EXPECT().
		Get(gomock.Any(), sessions.GetInput{SessionID: "s1"}).
		Return(&sessions.GetOutput{Session: stored}, nil).
		Times(2)
	s.mockRepo.EXPECT().
		Update(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input sessions.UpdateInput) (*sessions.UpdateOutput, error) {
			close(saving)
			<-release
			return &sessions.UpdateOutput{Session: input.Session}, nil
		})

	attackErr := make(chan error, 1)
	go func() {
		_, err := s.orchestrator.Attack(s.ctx, &adventure.AttackInput{SessionID: "s1", Style: game.AttackStyleQuick})
		attackErr <- err
	}()
	<-saving

	type readResult struct {
		out *adventure.GetSessionOutput
		err error
	}
	read := make(chan readResult, 1)
	go func() {
		out, err := s.orchestrator.GetSession(s.ctx, &adventure.GetSessionInput{SessionID: "s1"})
		read <- readResult{out: out, err: err}
	}()

	select {
	case <-read:
		close(release)
		s.Fail("GetSession returned while the attack was still saving")
		return
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	s.Require().NoError(<-attackErr)

	got := <-read
	s.Require().NoError(got.err)
	s.Len(got.out.Events, 1)
}

func TestRepositoryFailureTestSuite(t *testing.T) {
	suite.Run(t, new(RepositoryFailureTestSuite))
}
