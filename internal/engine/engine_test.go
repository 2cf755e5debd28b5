package engine

import (
	"testing"

	"github.com/rsiwady29/tennis-scoreboard/internal/domain"
)

func newMatch(tiebreak bool) domain.MatchState {
	return New(domain.Rules{SetsToWin: 2, Tiebreak: tiebreak}, "home", "away")
}

func applyPoints(st domain.MatchState, sides ...domain.Side) domain.MatchState {
	for _, side := range sides {
		st = ApplyPoint(st, side)
	}
	return st
}

// takeGame scores four straight points for one side from a fresh game.
func takeGame(st domain.MatchState, side domain.Side) domain.MatchState {
	return applyPoints(st, side, side, side, side)
}

func winGames(st domain.MatchState, side domain.Side, n int) domain.MatchState {
	for i := 0; i < n; i++ {
		st = takeGame(st, side)
	}
	return st
}

func toDeuce(st domain.MatchState) domain.MatchState {
	return applyPoints(st,
		domain.Home, domain.Home, domain.Home,
		domain.Away, domain.Away, domain.Away)
}

func TestPointProgression(t *testing.T) {
	tests := []struct {
		name      string
		sides     []domain.Side
		wantHome  domain.Point
		wantAway  domain.Point
		wantGames [2]int
	}{
		{
			name:     "first point",
			sides:    []domain.Side{domain.Home},
			wantHome: domain.Fifteen,
		},
		{
			name:     "thirty all",
			sides:    []domain.Side{domain.Home, domain.Away, domain.Home, domain.Away},
			wantHome: domain.Thirty,
			wantAway: domain.Thirty,
		},
		{
			name: "forty thirty",
			sides: []domain.Side{
				domain.Home, domain.Home, domain.Home,
				domain.Away, domain.Away,
			},
			wantHome: domain.Forty,
			wantAway: domain.Thirty,
		},
		{
			name: "clean game",
			sides: []domain.Side{
				domain.Home, domain.Home, domain.Home, domain.Home,
			},
			wantGames: [2]int{1, 0},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := applyPoints(newMatch(false), tt.sides...)
			if st.HomeScore != tt.wantHome || st.AwayScore != tt.wantAway {
				t.Errorf("points = %s/%s, want %s/%s",
					st.HomeScore, st.AwayScore, tt.wantHome, tt.wantAway)
			}
			if st.HomeGames != tt.wantGames[0] || st.AwayGames != tt.wantGames[1] {
				t.Errorf("games = %d/%d, want %d/%d",
					st.HomeGames, st.AwayGames, tt.wantGames[0], tt.wantGames[1])
			}
		})
	}
}

func TestDeuceGoesToAdvantageNeverGame(t *testing.T) {
	st := toDeuce(newMatch(false))
	if st.HomeScore != domain.Forty || st.AwayScore != domain.Forty {
		t.Fatalf("expected deuce, got %s/%s", st.HomeScore, st.AwayScore)
	}

	forHome := ApplyPoint(st, domain.Home)
	if forHome.HomeScore != domain.Advantage || forHome.HomeGames != 0 {
		t.Errorf("home point at deuce: got %s, games %d, want Ad and 0 games",
			forHome.HomeScore, forHome.HomeGames)
	}
	forAway := ApplyPoint(st, domain.Away)
	if forAway.AwayScore != domain.Advantage || forAway.AwayGames != 0 {
		t.Errorf("away point at deuce: got %s, games %d, want Ad and 0 games",
			forAway.AwayScore, forAway.AwayGames)
	}
}

func TestAdvantageLostReturnsToDeuce(t *testing.T) {
	st := ApplyPoint(toDeuce(newMatch(false)), domain.Home)

	st = ApplyPoint(st, domain.Away)
	if st.HomeScore != domain.Forty || st.AwayScore != domain.Forty {
		t.Errorf("got %s/%s, want deuce", st.HomeScore, st.AwayScore)
	}
	if st.AwayScore == domain.Advantage {
		t.Error("away must not gain advantage directly")
	}
}

func TestAdvantageConvertedWinsGame(t *testing.T) {
	st := ApplyPoint(toDeuce(newMatch(false)), domain.Home)

	st = ApplyPoint(st, domain.Home)
	if st.HomeGames != 1 {
		t.Errorf("homeGames = %d, want 1", st.HomeGames)
	}
	if st.HomeScore != domain.Love || st.AwayScore != domain.Love {
		t.Errorf("points not reset: %s/%s", st.HomeScore, st.AwayScore)
	}
	if st.Server != domain.Away {
		t.Errorf("server = %s, want away after first game", st.Server)
	}
}

func TestServerRotatesEveryGame(t *testing.T) {
	st := newMatch(false)
	want := []domain.Side{domain.Away, domain.Home, domain.Away}
	for i, w := range want {
		st = takeGame(st, domain.Home)
		if st.Server != w {
			t.Fatalf("after game %d server = %s, want %s", i+1, st.Server, w)
		}
	}
}

func TestSetWinConditions(t *testing.T) {
	t.Run("6-4 wins the set", func(t *testing.T) {
		st := winGames(newMatch(false), domain.Away, 4)
		st = winGames(st, domain.Home, 6)
		if st.HomeSets != 1 {
			t.Errorf("homeSets = %d, want 1", st.HomeSets)
		}
		if st.HomeGames != 0 || st.AwayGames != 0 {
			t.Errorf("games not reset: %d/%d", st.HomeGames, st.AwayGames)
		}
	})

	t.Run("6-5 does not win, 7-5 does", func(t *testing.T) {
		st := newMatch(false)
		// Alternate to 5-5.
		for i := 0; i < 5; i++ {
			st = takeGame(st, domain.Home)
			st = takeGame(st, domain.Away)
		}
		st = takeGame(st, domain.Home)
		if st.HomeSets != 0 || st.HomeGames != 6 {
			t.Fatalf("at 6-5: sets %d games %d, want 0 and 6", st.HomeSets, st.HomeGames)
		}
		st = takeGame(st, domain.Home)
		if st.HomeSets != 1 {
			t.Errorf("at 7-5: homeSets = %d, want 1", st.HomeSets)
		}
	})

	t.Run("no tiebreak by default, 8-6 wins", func(t *testing.T) {
		st := newMatch(false)
		for i := 0; i < 6; i++ {
			st = takeGame(st, domain.Home)
			st = takeGame(st, domain.Away)
		}
		if st.InTiebreak {
			t.Fatal("tiebreak must stay off unless configured")
		}
		st = takeGame(st, domain.Home)
		st = takeGame(st, domain.Home)
		if st.HomeSets != 1 {
			t.Errorf("at 8-6: homeSets = %d, want 1", st.HomeSets)
		}
	})
}

func TestTiebreak(t *testing.T) {
	sixAll := func() domain.MatchState {
		st := newMatch(true)
		for i := 0; i < 6; i++ {
			st = takeGame(st, domain.Home)
			st = takeGame(st, domain.Away)
		}
		return st
	}

	t.Run("starts at six all", func(t *testing.T) {
		st := sixAll()
		if !st.InTiebreak {
			t.Fatal("tiebreak should start at 6-6")
		}
	})

	t.Run("first to seven with margin two", func(t *testing.T) {
		st := sixAll()
		st = applyPoints(st, domain.Away, domain.Away, domain.Away)
		for i := 0; i < 7; i++ {
			st = ApplyPoint(st, domain.Home)
		}
		if st.InTiebreak {
			t.Error("tiebreak should be over at 7-3")
		}
		if st.HomeSets != 1 {
			t.Errorf("homeSets = %d, want 1", st.HomeSets)
		}
		if st.HomeGames != 0 || st.AwayGames != 0 {
			t.Errorf("games not reset: %d/%d", st.HomeGames, st.AwayGames)
		}
	})

	t.Run("7-6 is not enough", func(t *testing.T) {
		st := sixAll()
		for i := 0; i < 6; i++ {
			st = ApplyPoint(st, domain.Home)
			st = ApplyPoint(st, domain.Away)
		}
		st = ApplyPoint(st, domain.Home)
		if !st.InTiebreak {
			t.Fatal("tiebreak must continue at 7-6")
		}
		st = ApplyPoint(st, domain.Home)
		if st.InTiebreak || st.HomeSets != 1 {
			t.Errorf("8-6 should win the set: inTiebreak=%v sets=%d", st.InTiebreak, st.HomeSets)
		}
	})
}

func TestMatchCompletion(t *testing.T) {
	st := New(domain.Rules{SetsToWin: 1}, "home", "away")
	serverBefore := st.Server
	st = winGames(st, domain.Home, 6)

	if st.Status != domain.Completed {
		t.Fatalf("status = %s, want completed", st.Status)
	}
	if st.Winner == nil || *st.Winner != domain.Home {
		t.Error("winner should be home")
	}
	if st.HomeSets != 1 {
		t.Errorf("homeSets = %d, want 1", st.HomeSets)
	}
	// Five completed games rotate the serve, the final one must not.
	wantServer := serverBefore
	for i := 0; i < 5; i++ {
		wantServer = wantServer.Other()
	}
	if st.Server != wantServer {
		t.Errorf("server = %s, want %s (no rotation after final point)", st.Server, wantServer)
	}
}

func TestCompletedMatchIgnoresPoints(t *testing.T) {
	st := winGames(New(domain.Rules{SetsToWin: 1}, "home", "away"), domain.Home, 6)
	before := st
	histBefore := len(st.History)

	st = applyPoints(st, domain.Away, domain.Home, domain.Away)
	if st.AwaySets != before.AwaySets || st.HomeSets != before.HomeSets ||
		st.HomeScore != before.HomeScore || st.AwayScore != before.AwayScore {
		t.Error("completed match must not change")
	}
	if len(st.History) != histBefore {
		t.Errorf("history grew from %d to %d on ignored points", histBefore, len(st.History))
	}
}

func TestSwapServer(t *testing.T) {
	st := newMatch(false)
	st = SwapServer(st)
	if st.Server != domain.Away {
		t.Errorf("server = %s, want away", st.Server)
	}
	st = SwapServer(st)
	if st.Server != domain.Home {
		t.Errorf("server = %s, want home", st.Server)
	}
	if len(st.History) != 2 {
		t.Errorf("history = %d entries, want 2", len(st.History))
	}
}

func TestResetMidGame(t *testing.T) {
	st := newMatch(false)
	st = winGames(st, domain.Home, 3)
	st = applyPoints(st, domain.Away, domain.Away)
	st = SwapServer(st)

	reset := Reset(st)
	if reset.ID != st.ID {
		t.Error("reset must keep match identity")
	}
	if !reset.StartedAt.Equal(st.StartedAt) {
		t.Error("reset must keep the start timestamp")
	}
	if reset.HomeGames != 0 || reset.AwayGames != 0 ||
		reset.HomeScore != domain.Love || reset.AwayScore != domain.Love ||
		reset.HomeSets != 0 || reset.AwaySets != 0 {
		t.Error("reset must zero all counters")
	}
	if reset.Server != domain.Home {
		t.Errorf("server = %s, want home baseline", reset.Server)
	}
	if reset.Status != domain.InProgress {
		t.Errorf("status = %s, want in_progress", reset.Status)
	}
}

func TestNewMatchAssignsFreshIdentity(t *testing.T) {
	rules := domain.Rules{SetsToWin: 2}
	a := New(rules, "home", "away")
	b := New(rules, "home", "away")
	if a.ID == b.ID {
		t.Error("each match needs its own id")
	}
	if a.Rules != rules {
		t.Errorf("rules = %+v, want %+v", a.Rules, rules)
	}
}

func TestHistoryRecordsEveryAppliedEvent(t *testing.T) {
	st := newMatch(false)
	st = applyPoints(st, domain.Home, domain.Away)
	st = SwapServer(st)

	if len(st.History) != 3 {
		t.Fatalf("history = %d entries, want 3", len(st.History))
	}
	if st.History[0].Type != domain.EventPoint || *st.History[0].Side != domain.Home {
		t.Error("first event should be home point")
	}
	if st.History[2].Type != domain.EventSwapServer {
		t.Error("third event should be the swap")
	}
}

func TestApplyPointDoesNotMutateInput(t *testing.T) {
	st := applyPoints(newMatch(false), domain.Home)
	next := ApplyPoint(st, domain.Home)
	if st.HomeScore != domain.Fifteen {
		t.Errorf("input state mutated: %s", st.HomeScore)
	}
	if next.HomeScore != domain.Thirty {
		t.Errorf("next = %s, want 30", next.HomeScore)
	}
	if len(st.History) != 1 || len(next.History) != 2 {
		t.Errorf("history sharing: %d/%d", len(st.History), len(next.History))
	}
}

func TestBestOfThreeScenario(t *testing.T) {
	st := newMatch(false)
	st = winGames(st, domain.Home, 6)
	st = winGames(st, domain.Away, 6)
	if st.HomeSets != 1 || st.AwaySets != 1 {
		t.Fatalf("sets = %d/%d, want 1/1", st.HomeSets, st.AwaySets)
	}
	st = winGames(st, domain.Home, 6)
	if st.Status != domain.Completed || st.HomeSets != 2 {
		t.Errorf("status=%s sets=%d, want completed and 2", st.Status, st.HomeSets)
	}
}
