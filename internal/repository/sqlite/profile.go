package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/rialo-labs/builders-arena/pkg/models"
)

const profileCols = `discord_id, discord_username, discord_avatar_url, twitter_handle, github_username,
	total_participations, total_wins, total_votes_received, badges, first_participated, updated`

func (r *SQLiteRepo) CreateProfile(ctx context.Context, p *models.BuilderProfile) error {
	if p == nil {
		return fmt.Errorf("profile is nil")
	}

	badges, err := json.Marshal(orEmpty(p.Badges))
	if err != nil {
		return fmt.Errorf("marshal badges: %w", err)
	}
	p.Updated = now()
	_, err = r.q.Exec(ctx, `INSERT INTO builder_profiles (`+profileCols+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.DiscordID, p.DiscordUsername, nullable(p.DiscordAvatarURL), nullable(p.TwitterHandle), nullable(p.GitHubUsername),
		p.TotalParticipations, p.TotalWins, p.TotalVotesReceived, string(badges), p.FirstParticipated, p.Updated)
	return err
}

func (r *SQLiteRepo) GetProfile(ctx context.Context, discordID string) (*models.BuilderProfile, error) {
	row := r.q.QueryRow(ctx, `SELECT `+profileCols+` FROM builder_profiles WHERE discord_id = ?`, discordID)
	p, err := scanProfile(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return p, err
}

func (r *SQLiteRepo) ListProfiles(ctx context.Context) ([]models.BuilderProfile, error) {
	rows, err := r.q.QueryRows(ctx, `SELECT `+profileCols+` FROM builder_profiles ORDER BY total_wins DESC, total_votes_received DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.BuilderProfile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (r *SQLiteRepo) UpdateProfile(ctx context.Context, p *models.BuilderProfile) error {
	if p == nil {
		return fmt.Errorf("profile is nil")
	}

	badges, err := json.Marshal(orEmpty(p.Badges))
	if err != nil {
		return fmt.Errorf("marshal badges: %w", err)
	}
	_, err = r.q.Exec(ctx, `UPDATE builder_profiles SET discord_username = ?, discord_avatar_url = ?, twitter_handle = ?, github_username = ?, total_participations = ?, total_wins = ?, total_votes_received = ?, badges = ?, updated = ? WHERE discord_id = ?`,
		p.DiscordUsername, nullable(p.DiscordAvatarURL), nullable(p.TwitterHandle), nullable(p.GitHubUsername),
		p.TotalParticipations, p.TotalWins, p.TotalVotesReceived, string(badges), now(), p.DiscordID)
	return err
}

func (r *SQLiteRepo) DeleteProfile(ctx context.Context, discordID string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM builder_profiles WHERE discord_id = ?`, discordID)
	return err
}

func scanProfile(s scanner) (*models.BuilderProfile, error) {
	var p models.BuilderProfile
	var avatar, twitter, ghUser sql.NullString
	var badges string

	err := s.Scan(&p.DiscordID, &p.DiscordUsername, &avatar, &twitter, &ghUser,
		&p.TotalParticipations, &p.TotalWins, &p.TotalVotesReceived, &badges, &p.FirstParticipated, &p.Updated)
	if err != nil {
		return nil, err
	}

	p.DiscordAvatarURL = avatar.String
	p.TwitterHandle = twitter.String
	p.GitHubUsername = ghUser.String
	if err := json.Unmarshal([]byte(badges), &p.Badges); err != nil {
		return nil, fmt.Errorf("unmarshal badges: %w", err)
	}

	return &p, nil
}
