package arena_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rialo-labs/builders-arena/internal/arena"
	"github.com/rialo-labs/builders-arena/pkg/models"
	"github.com/rialo-labs/builders-arena/pkg/repository/mock"
)

func seedEvent(t *testing.T, s *mock.Store, id, status string) {
	t.Helper()
	err := s.CreateEvent(context.Background(), &models.Event{
		ID:           id,
		EventType:    models.EventBuildersHub,
		WeekNumber:   1,
		Title:        "Week 1",
		VotingStatus: status,
	})
	if err != nil {
		t.Fatalf("seed event: %v", err)
	}
}

func seedParticipant(t *testing.T, s *mock.Store, id, eventID, discordID string) {
	t.Helper()
	err := s.CreateParticipant(context.Background(), &models.Participant{
		ID:              id,
		EventID:         eventID,
		DiscordID:       discordID,
		DiscordUsername: discordID,
		ProjectName:     "proj-" + id,
		ProjectOneLiner: "a project",
		ProjectStatus:   models.StatusBuilding,
		TeamSize:        models.TeamSolo,
	})
	if err != nil {
		t.Fatalf("seed participant: %v", err)
	}
}

func memberVote(participantID, eventID, voter string) arena.VoteRequest {
	return arena.VoteRequest{
		ParticipantID:  participantID,
		EventID:        eventID,
		VoterDiscordID: voter,
		VoterUsername:  voter,
		IsMember:       true,
	}
}

func TestCastVote_StandardWeight(t *testing.T) {
	s := mock.NewStore()
	seedEvent(t, s, "E1", models.VotingOpen)
	seedParticipant(t, s, "P1", "E1", "alice")
	ledger := arena.NewLedger(s, nil)

	res, err := ledger.CastVote(context.Background(), memberVote("P1", "E1", "bob"))
	if err != nil {
		t.Fatalf("CastVote: %v", err)
	}
	if res.Weight != 1 {
		t.Fatalf("expected weight 1, got %d", res.Weight)
	}

	p, _ := s.GetParticipant(context.Background(), "P1")
	if p.VoteCount != 1 {
		t.Fatalf("expected vote_count 1, got %d", p.VoteCount)
	}
	if len(s.Votes) != 1 {
		t.Fatalf("expected 1 vote row, got %d", len(s.Votes))
	}
}

func TestCastVote_ClubMemberWeight(t *testing.T) {
	s := mock.NewStore()
	seedEvent(t, s, "E1", models.VotingOpen)
	seedParticipant(t, s, "P1", "E1", "alice")
	ledger := arena.NewLedger(s, nil)

	req := memberVote("P1", "E1", "bob")
	req.IsClubMember = true
	res, err := ledger.CastVote(context.Background(), req)
	if err != nil {
		t.Fatalf("CastVote: %v", err)
	}
	if res.Weight != 2 {
		t.Fatalf("expected weight 2, got %d", res.Weight)
	}

	p, _ := s.GetParticipant(context.Background(), "P1")
	if p.VoteCount != 2 {
		t.Fatalf("expected vote_count 2, got %d", p.VoteCount)
	}
}

func TestCastVote_Duplicate(t *testing.T) {
	s := mock.NewStore()
	seedEvent(t, s, "E1", models.VotingOpen)
	seedParticipant(t, s, "P1", "E1", "alice")
	ledger := arena.NewLedger(s, nil)
	ctx := context.Background()

	if _, err := ledger.CastVote(ctx, memberVote("P1", "E1", "bob")); err != nil {
		t.Fatalf("first vote: %v", err)
	}
	if _, err := ledger.CastVote(ctx, memberVote("P1", "E1", "bob")); !errors.Is(err, arena.ErrDuplicateVote) {
		t.Fatalf("expected ErrDuplicateVote, got %v", err)
	}

	// counter unchanged by the rejected attempt
	p, _ := s.GetParticipant(ctx, "P1")
	if p.VoteCount != 1 {
		t.Fatalf("expected vote_count 1 after duplicate, got %d", p.VoteCount)
	}

	// a different voter is still fine
	if _, err := ledger.CastVote(ctx, memberVote("P1", "E1", "carol")); err != nil {
		t.Fatalf("second voter: %v", err)
	}
	p, _ = s.GetParticipant(ctx, "P1")
	if p.VoteCount != 2 {
		t.Fatalf("expected vote_count 2, got %d", p.VoteCount)
	}
}

func TestCastVote_VotingStateGate(t *testing.T) {
	for _, status := range []string{models.VotingUpcoming, models.VotingClosed} {
		s := mock.NewStore()
		seedEvent(t, s, "E1", status)
		seedParticipant(t, s, "P1", "E1", "alice")
		ledger := arena.NewLedger(s, nil)

		// even a club member is rejected while voting is not open
		req := memberVote("P1", "E1", "bob")
		req.IsClubMember = true
		if _, err := ledger.CastVote(context.Background(), req); !errors.Is(err, arena.ErrVotingClosed) {
			t.Fatalf("status %s: expected ErrVotingClosed, got %v", status, err)
		}
	}
}

func TestCastVote_UnknownEvent(t *testing.T) {
	s := mock.NewStore()
	ledger := arena.NewLedger(s, nil)

	if _, err := ledger.CastVote(context.Background(), memberVote("P1", "nope", "bob")); !errors.Is(err, arena.ErrVotingClosed) {
		t.Fatalf("expected ErrVotingClosed for unknown event, got %v", err)
	}
}

func TestCastVote_NotMember(t *testing.T) {
	s := mock.NewStore()
	seedEvent(t, s, "E1", models.VotingOpen)
	seedParticipant(t, s, "P1", "E1", "alice")
	ledger := arena.NewLedger(s, nil)

	req := memberVote("P1", "E1", "bob")
	req.IsMember = false
	if _, err := ledger.CastVote(context.Background(), req); !errors.Is(err, arena.ErrNotMember) {
		t.Fatalf("expected ErrNotMember, got %v", err)
	}
}

func TestCastVote_MissingFields(t *testing.T) {
	s := mock.NewStore()
	ledger := arena.NewLedger(s, nil)

	if _, err := ledger.CastVote(context.Background(), memberVote("", "E1", "bob")); !errors.Is(err, arena.ErrMissingFields) {
		t.Fatalf("expected ErrMissingFields, got %v", err)
	}
	if _, err := ledger.CastVote(context.Background(), memberVote("P1", "", "bob")); !errors.Is(err, arena.ErrMissingFields) {
		t.Fatalf("expected ErrMissingFields, got %v", err)
	}
}

func TestCastVote_UnknownParticipant(t *testing.T) {
	s := mock.NewStore()
	seedEvent(t, s, "E1", models.VotingOpen)
	ledger := arena.NewLedger(s, nil)

	if _, err := ledger.CastVote(context.Background(), memberVote("ghost", "E1", "bob")); !errors.Is(err, arena.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
