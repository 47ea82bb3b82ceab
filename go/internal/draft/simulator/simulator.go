package simulator

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/mockdraft/go/internal/config"
	"github.com/mcdev12/mockdraft/go/internal/draft"
	"github.com/mcdev12/mockdraft/go/internal/draft/eligibility"
	"github.com/mcdev12/mockdraft/go/internal/draft/events"
	"github.com/mcdev12/mockdraft/go/internal/draft/orchestrator"
	"github.com/mcdev12/mockdraft/go/internal/models"
)

var (
	// ErrInputClosed is returned when input ends before the draft does.
	ErrInputClosed = errors.New("input closed before the draft completed")
	// ErrStalled is returned in auto mode when the user's pick has no eligible player.
	ErrStalled = errors.New("draft stalled")
)

// Config tunes a simulated draft.
type Config struct {
	Settings      config.Settings
	AutoPickDelay time.Duration
	StallPolicy   orchestrator.StallPolicy
	Workers       int
	// Auto drafts the best eligible player for the user as well.
	Auto bool
	// Suggestions is how many players are listed when the user is on the clock.
	Suggestions int
	// Clock drives auto-pick delays and retries. Defaults to the real clock.
	Clock clockwork.Clock
}

// DefaultConfig is a default-settings draft with a short AI delay.
func DefaultConfig() Config {
	return Config{
		Settings:      config.DefaultSettings(),
		AutoPickDelay: 250 * time.Millisecond,
		StallPolicy:   orchestrator.StallBlock,
		Workers:       2,
		Suggestions:   8,
	}
}

// Simulator runs one draft session in a terminal.
type Simulator struct {
	cfg       Config
	out       io.Writer
	app       *draft.App
	scheduler *orchestrator.Scheduler
	queue     *eventQueue
	clock     clockwork.Clock
	intn      func(n int) int

	sessionID uuid.UUID
	userTeam  int
	drafted   []models.Player
}

// New builds a simulator drafting from catalog.
func New(catalog draft.PlayerCatalog, cfg Config, out io.Writer) *Simulator {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.Suggestions < 1 {
		cfg.Suggestions = 8
	}

	clock := cfg.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	policy := eligibility.DefaultPolicy()
	scheduler := orchestrator.NewScheduler(clock, cfg.Workers)
	queue := newEventQueue()

	return &Simulator{
		cfg:       cfg,
		out:       out,
		scheduler: scheduler,
		queue:     queue,
		clock:     clock,
		intn:      rand.IntN,
		app: draft.NewApp(catalog, scheduler, queue, draft.EngineConfig{
			AutoPickDelay: cfg.AutoPickDelay,
			Policy:        policy,
			Strategy:      orchestrator.NewStrategy(policy, cfg.StallPolicy),
			Clock:         clock,
		}),
	}
}

// Run starts the draft and reads commands from in until the draft completes,
// the user quits or ctx is cancelled. In auto mode in may be nil.
func (s *Simulator) Run(ctx context.Context, in io.Reader) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		if err := s.scheduler.Run(ctx); err != nil {
			log.Error().Err(err).Msg("scheduler stopped")
		}
	}()
	defer s.app.Close(context.Background())

	spec, params, err := s.cfg.Settings.Resolve(s.intn)
	if err != nil {
		return fmt.Errorf("invalid draft settings: %w", err)
	}

	s.sessionID = s.app.CreateSession(ctx)
	s.userTeam = params.UserTeam
	if _, err := s.app.StartDraft(ctx, s.sessionID, spec, params); err != nil {
		return err
	}

	var lines <-chan string
	if !s.cfg.Auto && in != nil {
		lines = readLines(ctx, in)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-s.queue.ready:
			for _, env := range s.queue.drain() {
				done, err := s.handleEvent(ctx, env)
				if err != nil || done {
					return err
				}
			}

		case line, ok := <-lines:
			if !ok {
				for _, env := range s.queue.drain() {
					if done, err := s.handleEvent(ctx, env); err != nil || done {
						return err
					}
				}
				return ErrInputClosed
			}
			quit, err := s.handleCommand(ctx, line)
			if err != nil {
				fmt.Fprintf(s.out, "error: %v\n", err)
			}
			if quit {
				return s.app.StopDraft(ctx, s.sessionID)
			}
		}
	}
}

func readLines(ctx context.Context, in io.Reader) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- strings.TrimSpace(scanner.Text()):
			case <-ctx.Done():
				return
			}
		}
	}()
	return lines
}

// handleEvent renders env and reports whether the draft is over.
func (s *Simulator) handleEvent(ctx context.Context, env events.Envelope) (bool, error) {
	switch env.Type {
	case events.EventTypeDraftStarted:
		var p events.DraftStartedPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			return false, err
		}
		fmt.Fprintf(s.out, "%s draft: %d teams, %d rounds. You pick from slot %d.\n",
			p.DraftType, p.NumTeams, p.TotalRounds, p.UserTeam)

	case events.EventTypePickStarted:
		var p events.PickStartedPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			return false, err
		}
		if !p.UserTurn {
			return false, nil
		}
		if s.cfg.Auto {
			return false, s.autoPick(ctx)
		}
		fmt.Fprintf(s.out, "\nRound %d, pick %d (#%d): you are on the clock.\n", p.Round, p.Pick, p.OverallPick)
		if err := s.printAvailable(draft.AvailableFilter{}, s.cfg.Suggestions); err != nil {
			return false, err
		}
		fmt.Fprintln(s.out, "Enter a player id, or 'help'.")

	case events.EventTypePickMade:
		var p events.PickMadePayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			return false, err
		}
		marker := " "
		if p.Team == s.userTeam {
			marker = "*"
		}
		fmt.Fprintf(s.out, "%s%4d. R%d.%02d  Team %-2d  %s (%s)\n",
			marker, p.OverallPick, p.Round, p.Pick, p.Team, p.PlayerName, p.Position)

	case events.EventTypeDraftStalled:
		var p events.DraftStalledPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			return false, err
		}
		if s.cfg.Auto {
			return false, fmt.Errorf("%w at pick %d: %s", ErrStalled, p.OverallPick, p.Reason)
		}
		fmt.Fprintf(s.out, "Pick #%d for team %d stalled: %s. Use 'force <id>' to pick for them or 'quit'.\n",
			p.OverallPick, p.Team, p.Reason)

	case events.EventTypeDraftCompleted:
		var p events.DraftCompletedPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			return false, err
		}
		fmt.Fprintf(s.out, "\nDraft complete: %d picks in %s.\n", p.TotalPicks, p.Duration)
		roster, err := s.app.GetTeamRoster(ctx, s.sessionID, s.userTeam)
		if err != nil {
			return true, err
		}
		s.drafted = roster
		return true, s.printRoster(s.userTeam)
	}
	return false, nil
}

func (s *Simulator) autoPick(ctx context.Context) error {
	players, err := s.app.ListAvailablePlayers(ctx, s.sessionID, draft.AvailableFilter{})
	if err != nil {
		return err
	}
	for _, p := range players {
		if !p.Eligible {
			continue
		}
		// The auto task that put us on the clock may still hold the pick lock.
		for {
			_, err := s.app.MakePick(ctx, s.sessionID, p.ID)
			if !errors.Is(err, draft.ErrPickInProgress) {
				return err
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-s.clock.After(5 * time.Millisecond):
			}
		}
	}
	return fmt.Errorf("%w: no eligible player for the user", ErrStalled)
}

// handleCommand runs one input line and reports whether the user quit.
func (s *Simulator) handleCommand(ctx context.Context, line string) (bool, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}

	switch cmd := strings.ToLower(fields[0]); cmd {
	case "quit", "exit":
		return true, nil

	case "help":
		fmt.Fprintln(s.out, "  <id> | pick <id>          draft a player")
		fmt.Fprintln(s.out, "  force <id>                settle a stalled pick with any player")
		fmt.Fprintln(s.out, "  list [POS|ALL] [search]   show available players")
		fmt.Fprintln(s.out, "  roster [team]             show a team's picks")
		fmt.Fprintln(s.out, "  status                    show the clock")
		fmt.Fprintln(s.out, "  quit                      stop the draft")
		return false, nil

	case "list":
		var position, search string
		if len(fields) > 1 {
			position = fields[1]
		}
		if len(fields) > 2 {
			search = strings.Join(fields[2:], " ")
		}
		filter, err := draft.ParseAvailableFilter(strings.ToUpper(position), search)
		if err != nil {
			return false, err
		}
		return false, s.printAvailable(filter, 25)

	case "roster":
		team := s.userTeam
		if len(fields) > 1 {
			n, err := strconv.Atoi(fields[1])
			if err != nil {
				return false, fmt.Errorf("bad team %q", fields[1])
			}
			team = n
		}
		return false, s.printRoster(team)

	case "status":
		snap, err := s.app.GetSnapshot(ctx, s.sessionID)
		if err != nil {
			return false, err
		}
		if snap.Clock == nil || snap.Clock.Complete {
			fmt.Fprintf(s.out, "state %s\n", snap.State)
			return false, nil
		}
		fmt.Fprintf(s.out, "pick %d of %d, round %d, team %d on the clock\n",
			snap.Clock.CurrentPick, snap.Clock.TotalPicks, snap.Clock.CurrentRound, snap.Clock.CurrentTeam)
		return false, nil

	case "force":
		if len(fields) < 2 {
			return false, errors.New("force needs a player id")
		}
		id, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			return false, fmt.Errorf("bad player id %q", fields[1])
		}
		_, err = s.app.ForcePick(ctx, s.sessionID, id)
		return false, err

	default:
		arg := fields[0]
		if cmd == "pick" {
			if len(fields) < 2 {
				return false, errors.New("pick needs a player id")
			}
			arg = fields[1]
		}
		id, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			return false, fmt.Errorf("unknown command %q", fields[0])
		}
		_, err = s.app.MakePick(ctx, s.sessionID, id)
		return false, err
	}
}

func (s *Simulator) printAvailable(filter draft.AvailableFilter, limit int) error {
	players, err := s.app.ListAvailablePlayers(context.Background(), s.sessionID, filter)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(s.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tPLAYER\tPOS\tTEAM\tRANK\tPROJ\t")
	shown := 0
	for _, p := range players {
		if shown == limit {
			break
		}
		name := p.Name
		if !p.Eligible {
			name += " (later)"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\t%.1f\t\n", p.ID, name, p.Position, p.Team, p.RankOverall, p.ProjectedPoints)
		shown++
	}
	return tw.Flush()
}

func (s *Simulator) printRoster(team int) error {
	roster, err := s.app.GetTeamRoster(context.Background(), s.sessionID, team)
	if err != nil {
		return err
	}

	fmt.Fprintf(s.out, "Team %d roster:\n", team)
	tw := tabwriter.NewWriter(s.out, 0, 4, 2, ' ', 0)
	for i, p := range roster {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t\n", i+1, p.Name, p.Position, p.Team)
	}
	return tw.Flush()
}

// UserTeam is the draft slot the user picked from in the last run.
func (s *Simulator) UserTeam() int { return s.userTeam }

// Drafted returns the user's roster from the last completed run.
func (s *Simulator) Drafted() []models.Player {
	return s.drafted
}
