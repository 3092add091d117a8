package arena

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rialo-labs/builders-arena/internal/metrics"
	"github.com/rialo-labs/builders-arena/pkg/models"
	"github.com/rialo-labs/builders-arena/pkg/repository"
)

// Reconciler keeps each builder profile consistent with the underlying set of
// participant rows for that identity. Every operation runs in one
// transaction: either the participation change and the profile change both
// land, or neither does.
type Reconciler struct {
	store  repository.Store
	logger *slog.Logger
}

func NewReconciler(store repository.Store, logger *slog.Logger) *Reconciler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reconciler{store: store, logger: logger}
}

// CreateParticipant inserts the submission and creates or updates the
// submitter's profile.
func (rc *Reconciler) CreateParticipant(ctx context.Context, p *models.Participant) error {
	err := rc.store.InTx(ctx, func(s repository.Store) error {
		if err := s.CreateParticipant(ctx, p); err != nil {
			return fmt.Errorf("insert participant: %w", err)
		}
		return rc.applyCreated(ctx, s, p)
	})
	if err != nil {
		return err
	}
	metrics.ParticipantsCreated.Inc()
	return nil
}

func (rc *Reconciler) applyCreated(ctx context.Context, s repository.Store, p *models.Participant) error {
	prof, err := s.GetProfile(ctx, p.DiscordID)
	if err != nil {
		return fmt.Errorf("load profile: %w", err)
	}

	if prof == nil {
		prof = &models.BuilderProfile{
			DiscordID:           p.DiscordID,
			DiscordUsername:     p.DiscordUsername,
			DiscordAvatarURL:    avatarOf(p),
			TwitterHandle:       p.TwitterHandle,
			GitHubUsername:      p.GitHubUsername,
			TotalParticipations: 1,
			FirstParticipated:   p.Created,
			Updated:             time.Now().UTC().UnixMilli(),
		}
		var added []string
		prof.Badges, added = unionBadges(nil, submissionBadges(p, 1))
		countAwards(added)

		if err := s.CreateProfile(ctx, prof); err != nil {
			return fmt.Errorf("create profile: %w", err)
		}
		rc.logger.Info("builder profile created", slog.String("discord_id", p.DiscordID))
		return nil
	}

	prof.TotalParticipations++

	// first-write-wins: a later submission never clobbers identity fields
	// already present on the profile
	if prof.DiscordAvatarURL == "" {
		prof.DiscordAvatarURL = avatarOf(p)
	}
	if prof.TwitterHandle == "" {
		prof.TwitterHandle = p.TwitterHandle
	}
	if prof.GitHubUsername == "" {
		prof.GitHubUsername = p.GitHubUsername
	}

	var added []string
	prof.Badges, added = unionBadges(prof.Badges, submissionBadges(p, prof.TotalParticipations))
	countAwards(added)

	prof.Updated = time.Now().UTC().UnixMilli()
	if err := s.UpdateProfile(ctx, prof); err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	return nil
}

// SetWinner flips the winner flag and adjusts the profile win count and win
// badges. A toggle that does not change the stored flag is a no-op, so
// re-applying the same PATCH cannot double count.
func (rc *Reconciler) SetWinner(ctx context.Context, participantID string, isWinner bool) error {
	return rc.store.InTx(ctx, func(s repository.Store) error {
		p, err := s.GetParticipant(ctx, participantID)
		if err != nil {
			return fmt.Errorf("load participant: %w", err)
		}
		if p == nil {
			return ErrNotFound
		}
		if p.IsWinner == isWinner {
			return nil
		}

		if err := s.SetWinner(ctx, participantID, isWinner); err != nil {
			return fmt.Errorf("set winner flag: %w", err)
		}

		prof, err := s.GetProfile(ctx, p.DiscordID)
		if err != nil {
			return fmt.Errorf("load profile: %w", err)
		}
		if prof == nil {
			// should not happen while a participation exists
			rc.logger.Warn("winner toggle without profile", slog.String("discord_id", p.DiscordID))
			return nil
		}

		if isWinner {
			prof.TotalWins++

			event, err := s.GetEvent(ctx, p.EventID)
			if err != nil {
				return fmt.Errorf("load event: %w", err)
			}
			if event != nil {
				candidates := []string{winBadge(event.EventType)}
				merged, _ := unionBadges(prof.Badges, candidates)
				if hasBadge(merged, BadgeChampion) && hasBadge(merged, BadgeSharkKing) {
					merged, _ = unionBadges(merged, []string{BadgeDiamond})
				}
				var added []string
				prof.Badges, added = diffApply(prof.Badges, merged)
				countAwards(added)
			}
		} else if prof.TotalWins > 0 {
			prof.TotalWins--
		}

		prof.Updated = time.Now().UTC().UnixMilli()
		if err := s.UpdateProfile(ctx, prof); err != nil {
			return fmt.Errorf("update profile: %w", err)
		}
		return nil
	})
}

// DeleteParticipant removes the submission and recomputes (or deletes) the
// submitter's profile from the remaining rows.
func (rc *Reconciler) DeleteParticipant(ctx context.Context, id string) error {
	return rc.store.InTx(ctx, func(s repository.Store) error {
		p, err := s.GetParticipant(ctx, id)
		if err != nil {
			return fmt.Errorf("load participant: %w", err)
		}
		if p == nil {
			return ErrNotFound
		}

		if err := s.DeleteParticipant(ctx, id); err != nil {
			return fmt.Errorf("delete participant: %w", err)
		}
		return rc.recomputeProfile(ctx, s, p.DiscordID)
	})
}

// DeleteEvent removes the event, its participants (store cascade) and
// reconciles every affected profile.
func (rc *Reconciler) DeleteEvent(ctx context.Context, eventID string) error {
	return rc.store.InTx(ctx, func(s repository.Store) error {
		event, err := s.GetEvent(ctx, eventID)
		if err != nil {
			return fmt.Errorf("load event: %w", err)
		}
		if event == nil {
			return ErrNotFound
		}

		parts, err := s.ListByEvent(ctx, eventID)
		if err != nil {
			return fmt.Errorf("list participants: %w", err)
		}

		if err := s.DeleteEvent(ctx, eventID); err != nil {
			return fmt.Errorf("delete event: %w", err)
		}

		seen := make(map[string]bool, len(parts))
		for _, p := range parts {
			if seen[p.DiscordID] {
				continue
			}
			seen[p.DiscordID] = true
			if err := rc.recomputeProfile(ctx, s, p.DiscordID); err != nil {
				return err
			}
		}
		return nil
	})
}

// recomputeProfile rebuilds the aggregate from the identity's remaining
// participations. Badges are left untouched: they are permanent. Identity
// fields come from the oldest remaining participation so the profile tracks
// the longest-standing record.
func (rc *Reconciler) recomputeProfile(ctx context.Context, s repository.Store, discordID string) error {
	remaining, err := s.ListByDiscordID(ctx, discordID)
	if err != nil {
		return fmt.Errorf("list remaining participations: %w", err)
	}

	if len(remaining) == 0 {
		if err := s.DeleteProfile(ctx, discordID); err != nil {
			return fmt.Errorf("delete profile: %w", err)
		}
		rc.logger.Info("builder profile deleted", slog.String("discord_id", discordID))
		return nil
	}

	prof, err := s.GetProfile(ctx, discordID)
	if err != nil {
		return fmt.Errorf("load profile: %w", err)
	}
	if prof == nil {
		rc.logger.Warn("participations without profile", slog.String("discord_id", discordID))
		return nil
	}

	var wins, votes int64
	for _, p := range remaining {
		if p.IsWinner {
			wins++
		}
		votes += p.VoteCount
	}

	oldest := remaining[0]
	prof.TotalParticipations = int64(len(remaining))
	prof.TotalWins = wins
	prof.TotalVotesReceived = votes
	prof.DiscordUsername = oldest.DiscordUsername
	prof.DiscordAvatarURL = avatarOf(&oldest)
	prof.Updated = time.Now().UTC().UnixMilli()

	if err := s.UpdateProfile(ctx, prof); err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	return nil
}

// SyncAvatar copies the profile avatar back onto all of the identity's
// participant rows.
func (rc *Reconciler) SyncAvatar(ctx context.Context, discordID string) error {
	prof, err := rc.store.GetProfile(ctx, discordID)
	if err != nil {
		return fmt.Errorf("load profile: %w", err)
	}
	if prof == nil || prof.DiscordAvatarURL == "" {
		return ErrNotFound
	}
	if err := rc.store.SetAvatarByDiscordID(ctx, discordID, prof.DiscordAvatarURL); err != nil {
		return fmt.Errorf("sync avatar: %w", err)
	}
	return nil
}

// avatarOf picks the best avatar available on a submission.
func avatarOf(p *models.Participant) string {
	if p.DiscordAvatarURL != "" {
		return p.DiscordAvatarURL
	}
	if p.GitHub != nil {
		return p.GitHub.AvatarURL
	}
	return ""
}

// diffApply returns merged along with the entries not present in held.
func diffApply(held, merged []string) (out, added []string) {
	for _, b := range merged {
		if !hasBadge(held, b) {
			added = append(added, b)
		}
	}
	return merged, added
}

func countAwards(badges []string) {
	for _, b := range badges {
		metrics.BadgesAwarded.WithLabelValues(b).Inc()
	}
}
