package sqlite

import (
	"context"
	"fmt"

	"github.com/rialo-labs/builders-arena/pkg/models"
)

func (r *SQLiteRepo) CreateVote(ctx context.Context, v *models.Vote) error {
	if v == nil {
		return fmt.Errorf("vote is nil")
	}

	if v.Created == 0 {
		v.Created = now()
	}
	_, err := r.q.Exec(ctx, `INSERT INTO votes (id, participant_id, event_id, voter_discord_id, voter_username, vote_weight, created) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		v.ID, v.ParticipantID, v.EventID, v.VoterDiscordID, nullable(v.VoterUsername), v.Weight, v.Created)
	return err
}

func (r *SQLiteRepo) HasVote(ctx context.Context, participantID, voterDiscordID string) (bool, error) {
	var exists int
	row := r.q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM votes WHERE participant_id = ? AND voter_discord_id = ?)`, participantID, voterDiscordID)
	if err := row.Scan(&exists); err != nil {
		return false, err
	}
	return exists == 1, nil
}

func (r *SQLiteRepo) CountVotesByEvent(ctx context.Context, eventID string) (int64, error) {
	var count int64
	row := r.q.QueryRow(ctx, `SELECT COUNT(1) FROM votes WHERE event_id = ?`, eventID)
	if err := row.Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
