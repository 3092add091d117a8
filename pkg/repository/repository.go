package repository

import (
	"context"

	"github.com/rialo-labs/builders-arena/pkg/models"
)

// Repository interfaces for domain entities. These are the public contracts
// consumers should depend on; concrete implementations live under internal/.

type EventRepo interface {
	CreateEvent(ctx context.Context, e *models.Event) error
	GetEvent(ctx context.Context, id string) (*models.Event, error)
	ListEvents(ctx context.Context) ([]models.Event, error)
	UpdateEvent(ctx context.Context, e *models.Event) error
	DeleteEvent(ctx context.Context, id string) error
}

type ParticipantRepo interface {
	CreateParticipant(ctx context.Context, p *models.Participant) error
	GetParticipant(ctx context.Context, id string) (*models.Participant, error)
	ListByEvent(ctx context.Context, eventID string) ([]models.Participant, error)
	// ListByDiscordID returns the identity's participations ordered by
	// creation time ascending (oldest first).
	ListByDiscordID(ctx context.Context, discordID string) ([]models.Participant, error)
	ListWinners(ctx context.Context) ([]models.Participant, error)
	UpdateParticipant(ctx context.Context, p *models.Participant) error
	SetWinner(ctx context.Context, id string, isWinner bool) error
	SetVoteCount(ctx context.Context, id string, count int64) error
	// IncrementVoteCount applies vote_count = vote_count + delta as a single
	// statement and reports whether the row existed.
	IncrementVoteCount(ctx context.Context, id string, delta int64) (bool, error)
	SetAvatarByDiscordID(ctx context.Context, discordID, avatarURL string) error
	DeleteParticipant(ctx context.Context, id string) error
}

type VoteRepo interface {
	CreateVote(ctx context.Context, v *models.Vote) error
	// HasVote reports whether a ballot exists for the (participant, voter) pair.
	HasVote(ctx context.Context, participantID, voterDiscordID string) (bool, error)
	CountVotesByEvent(ctx context.Context, eventID string) (int64, error)
}

type ProfileRepo interface {
	CreateProfile(ctx context.Context, p *models.BuilderProfile) error
	GetProfile(ctx context.Context, discordID string) (*models.BuilderProfile, error)
	ListProfiles(ctx context.Context) ([]models.BuilderProfile, error)
	UpdateProfile(ctx context.Context, p *models.BuilderProfile) error
	DeleteProfile(ctx context.Context, discordID string) error
}

type SettingsRepo interface {
	GetSettings(ctx context.Context) (*models.SiteSettings, error)
	UpdateSettings(ctx context.Context, s *models.SiteSettings) error
}

// Store bundles the entity repositories with a transaction runner. InTx runs
// fn against a store bound to a single database transaction: if fn returns an
// error the transaction is rolled back, otherwise it is committed. Calling
// InTx on an already transaction-bound store reuses the open transaction.
type Store interface {
	EventRepo
	ParticipantRepo
	VoteRepo
	ProfileRepo
	SettingsRepo

	InTx(ctx context.Context, fn func(Store) error) error
}
