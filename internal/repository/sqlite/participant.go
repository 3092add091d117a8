package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/rialo-labs/builders-arena/pkg/models"
)

const participantCols = `id, event_id, discord_id, discord_username, discord_avatar_url, twitter_handle, github_username,
	github_avatar_url, github_bio, github_public_repos, github_followers, github_total_stars, github_top_languages,
	github_repos_data, github_created_at, project_name, project_one_liner, project_pitch, project_link,
	project_github_link, project_screenshot_url, project_category, tech_stack, project_status, team_size,
	vote_count, is_winner, created, updated`

func (r *SQLiteRepo) CreateParticipant(ctx context.Context, p *models.Participant) error {
	if p == nil {
		return fmt.Errorf("participant is nil")
	}

	ts := now()
	p.Created = ts
	p.Updated = ts

	gh := p.GitHub
	if gh == nil {
		gh = &models.GitHubStats{}
	}
	langs, err := json.Marshal(orEmpty(gh.TopLanguages))
	if err != nil {
		return fmt.Errorf("marshal top languages: %w", err)
	}
	repos, err := json.Marshal(orEmpty(gh.Repos))
	if err != nil {
		return fmt.Errorf("marshal repos: %w", err)
	}
	stack, err := json.Marshal(orEmpty(p.TechStack))
	if err != nil {
		return fmt.Errorf("marshal tech stack: %w", err)
	}

	_, err = r.q.Exec(ctx, `INSERT INTO participants (`+participantCols+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.EventID, p.DiscordID, p.DiscordUsername, nullable(p.DiscordAvatarURL), nullable(p.TwitterHandle), nullable(p.GitHubUsername),
		nullable(gh.AvatarURL), nullable(gh.Bio), gh.PublicRepos, gh.Followers, gh.TotalStars, string(langs),
		string(repos), nullable(gh.AccountCreated), p.ProjectName, p.ProjectOneLiner, nullable(p.ProjectPitch), nullable(p.ProjectLink),
		nullable(p.ProjectGitHubLink), nullable(p.ProjectScreenshotURL), nullable(p.ProjectCategory), string(stack), p.ProjectStatus, p.TeamSize,
		p.VoteCount, p.IsWinner, p.Created, p.Updated)
	return err
}

func (r *SQLiteRepo) GetParticipant(ctx context.Context, id string) (*models.Participant, error) {
	row := r.q.QueryRow(ctx, `SELECT `+participantCols+` FROM participants WHERE id = ?`, id)
	p, err := scanParticipant(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return p, err
}

func (r *SQLiteRepo) ListByEvent(ctx context.Context, eventID string) ([]models.Participant, error) {
	return r.listParticipants(ctx, `SELECT `+participantCols+` FROM participants WHERE event_id = ? ORDER BY vote_count DESC, created ASC`, eventID)
}

func (r *SQLiteRepo) ListByDiscordID(ctx context.Context, discordID string) ([]models.Participant, error) {
	return r.listParticipants(ctx, `SELECT `+participantCols+` FROM participants WHERE discord_id = ? ORDER BY created ASC`, discordID)
}

func (r *SQLiteRepo) ListWinners(ctx context.Context) ([]models.Participant, error) {
	return r.listParticipants(ctx, `SELECT `+participantCols+` FROM participants WHERE is_winner = 1 ORDER BY created DESC`)
}

func (r *SQLiteRepo) listParticipants(ctx context.Context, query string, args ...any) ([]models.Participant, error) {
	rows, err := r.q.QueryRows(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Participant
	for rows.Next() {
		p, err := scanParticipant(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (r *SQLiteRepo) UpdateParticipant(ctx context.Context, p *models.Participant) error {
	if p == nil {
		return fmt.Errorf("participant is nil")
	}

	_, err := r.q.Exec(ctx, `UPDATE participants SET discord_username = ?, discord_avatar_url = ?, project_name = ?, project_one_liner = ?, project_pitch = ?, project_link = ?, project_screenshot_url = ?, updated = ? WHERE id = ?`,
		p.DiscordUsername, nullable(p.DiscordAvatarURL), p.ProjectName, p.ProjectOneLiner, nullable(p.ProjectPitch), nullable(p.ProjectLink), nullable(p.ProjectScreenshotURL), now(), p.ID)
	return err
}

func (r *SQLiteRepo) SetWinner(ctx context.Context, id string, isWinner bool) error {
	_, err := r.q.Exec(ctx, `UPDATE participants SET is_winner = ?, updated = ? WHERE id = ?`, isWinner, now(), id)
	return err
}

func (r *SQLiteRepo) SetVoteCount(ctx context.Context, id string, count int64) error {
	_, err := r.q.Exec(ctx, `UPDATE participants SET vote_count = ?, updated = ? WHERE id = ?`, count, now(), id)
	return err
}

func (r *SQLiteRepo) IncrementVoteCount(ctx context.Context, id string, delta int64) (bool, error) {
	res, err := r.q.Exec(ctx, `UPDATE participants SET vote_count = vote_count + ?, updated = ? WHERE id = ?`, delta, now(), id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *SQLiteRepo) SetAvatarByDiscordID(ctx context.Context, discordID, avatarURL string) error {
	_, err := r.q.Exec(ctx, `UPDATE participants SET discord_avatar_url = ?, updated = ? WHERE discord_id = ?`, avatarURL, now(), discordID)
	return err
}

func (r *SQLiteRepo) DeleteParticipant(ctx context.Context, id string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM participants WHERE id = ?`, id)
	return err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanParticipant(s scanner) (*models.Participant, error) {
	var p models.Participant
	var gh models.GitHubStats
	var avatar, twitter, ghUser, ghAvatar, ghBio, ghCreated, pitch, link, ghLink, shot, category sql.NullString
	var langs, repos, stack string

	err := s.Scan(&p.ID, &p.EventID, &p.DiscordID, &p.DiscordUsername, &avatar, &twitter, &ghUser,
		&ghAvatar, &ghBio, &gh.PublicRepos, &gh.Followers, &gh.TotalStars, &langs,
		&repos, &ghCreated, &p.ProjectName, &p.ProjectOneLiner, &pitch, &link,
		&ghLink, &shot, &category, &stack, &p.ProjectStatus, &p.TeamSize,
		&p.VoteCount, &p.IsWinner, &p.Created, &p.Updated)
	if err != nil {
		return nil, err
	}

	p.DiscordAvatarURL = avatar.String
	p.TwitterHandle = twitter.String
	p.GitHubUsername = ghUser.String
	p.ProjectPitch = pitch.String
	p.ProjectLink = link.String
	p.ProjectGitHubLink = ghLink.String
	p.ProjectScreenshotURL = shot.String
	p.ProjectCategory = category.String

	if err := json.Unmarshal([]byte(stack), &p.TechStack); err != nil {
		return nil, fmt.Errorf("unmarshal tech stack: %w", err)
	}

	gh.AvatarURL = ghAvatar.String
	gh.Bio = ghBio.String
	gh.AccountCreated = ghCreated.String
	if err := json.Unmarshal([]byte(langs), &gh.TopLanguages); err != nil {
		return nil, fmt.Errorf("unmarshal top languages: %w", err)
	}
	if err := json.Unmarshal([]byte(repos), &gh.Repos); err != nil {
		return nil, fmt.Errorf("unmarshal repos: %w", err)
	}
	if gh.AvatarURL != "" || gh.Bio != "" || gh.PublicRepos > 0 || gh.Followers > 0 ||
		gh.TotalStars > 0 || gh.AccountCreated != "" || len(gh.TopLanguages) > 0 || len(gh.Repos) > 0 {
		p.GitHub = &gh
	}

	return &p, nil
}

// orEmpty keeps JSON columns as [] instead of null.
func orEmpty[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	return in
}
