package models

// Domain models matching the database schema in db/migrations/0001_init.sql

// Event category identifiers. Two recurring weekly competitions run in the
// arena; every event belongs to exactly one of them.
const (
	EventBuildersHub = "builders_hub"
	EventSharkTank   = "shark_tank"
)

// Voting status values for an event. Transitions are admin-driven.
const (
	VotingUpcoming = "upcoming"
	VotingOpen     = "open"
	VotingClosed   = "closed"
)

// Project status values for a participant submission.
const (
	StatusIdea     = "idea"
	StatusBuilding = "building"
	StatusLive     = "live"
	StatusLaunched = "launched"
)

// Team size values for a participant submission.
const (
	TeamSolo = "solo"
	TeamDuo  = "duo"
	TeamTeam = "team"
)

// Event is one recurring competition instance.
type Event struct {
	ID           string `json:"id" db:"id"`
	EventType    string `json:"event_type" db:"event_type"`
	WeekNumber   int    `json:"week_number" db:"week_number"`
	Title        string `json:"title" db:"title"`
	Description  string `json:"description,omitempty" db:"description"`
	VotingStatus string `json:"voting_status" db:"voting_status"`
	Created      int64  `json:"created_at" db:"created"`
	Updated      int64  `json:"updated_at" db:"updated"`
}

// LanguageStat is one entry of a GitHub top-languages breakdown.
type LanguageStat struct {
	Name       string `json:"name"`
	Percentage int    `json:"percentage"`
}

// GitHubRepo is a trimmed representation of a public repository, kept for
// display on participant cards.
type GitHubRepo struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	HTMLURL     string   `json:"html_url"`
	Stars       int      `json:"stargazers_count"`
	Forks       int      `json:"forks_count"`
	Language    string   `json:"language,omitempty"`
	Topics      []string `json:"topics,omitempty"`
	Fork        bool     `json:"fork"`
}

// GitHubStats is the profile-API snapshot embedded on a participant at
// submission time. It is a point-in-time capture, never refreshed.
type GitHubStats struct {
	AvatarURL      string         `json:"avatar_url,omitempty"`
	Bio            string         `json:"bio,omitempty"`
	PublicRepos    int            `json:"public_repos"`
	Followers      int            `json:"followers"`
	TotalStars     int            `json:"total_stars"`
	TopLanguages   []LanguageStat `json:"top_languages,omitempty"`
	Repos          []GitHubRepo   `json:"repos,omitempty"`
	AccountCreated string         `json:"account_created_at,omitempty"`
}

// Participant is one project submission tied to one event and one submitter.
type Participant struct {
	ID                   string       `json:"id" db:"id"`
	EventID              string       `json:"event_id" db:"event_id"`
	DiscordID            string       `json:"discord_id" db:"discord_id"`
	DiscordUsername      string       `json:"discord_username" db:"discord_username"`
	DiscordAvatarURL     string       `json:"discord_avatar_url,omitempty" db:"discord_avatar_url"`
	TwitterHandle        string       `json:"twitter_handle,omitempty" db:"twitter_handle"`
	GitHubUsername       string       `json:"github_username,omitempty" db:"github_username"`
	GitHub               *GitHubStats `json:"github,omitempty"`
	ProjectName          string       `json:"project_name" db:"project_name"`
	ProjectOneLiner      string       `json:"project_one_liner" db:"project_one_liner"`
	ProjectPitch         string       `json:"project_pitch,omitempty" db:"project_pitch"`
	ProjectLink          string       `json:"project_link,omitempty" db:"project_link"`
	ProjectGitHubLink    string       `json:"project_github_link,omitempty" db:"project_github_link"`
	ProjectScreenshotURL string       `json:"project_screenshot_url,omitempty" db:"project_screenshot_url"`
	ProjectCategory      string       `json:"project_category,omitempty" db:"project_category"`
	TechStack            []string     `json:"tech_stack,omitempty"`
	ProjectStatus        string       `json:"project_status" db:"project_status"`
	TeamSize             string       `json:"team_size" db:"team_size"`
	VoteCount            int64        `json:"vote_count" db:"vote_count"`
	IsWinner             bool         `json:"is_winner" db:"is_winner"`
	Created              int64        `json:"created_at" db:"created"`
	Updated              int64        `json:"updated_at" db:"updated"`
}

// Vote is one cast ballot. Rows are written once and never mutated.
type Vote struct {
	ID             string `json:"id" db:"id"`
	ParticipantID  string `json:"participant_id" db:"participant_id"`
	EventID        string `json:"event_id" db:"event_id"`
	VoterDiscordID string `json:"voter_discord_id" db:"voter_discord_id"`
	VoterUsername  string `json:"voter_username,omitempty" db:"voter_username"`
	Weight         int64  `json:"vote_weight" db:"vote_weight"`
	Created        int64  `json:"voted_at" db:"created"`
}

// BuilderProfile is the per-identity aggregate derived from that identity's
// participations. Participant rows are authoritative; this record is a cache
// kept consistent by the reconciler.
type BuilderProfile struct {
	DiscordID           string   `json:"discord_id" db:"discord_id"`
	DiscordUsername     string   `json:"discord_username" db:"discord_username"`
	DiscordAvatarURL    string   `json:"discord_avatar_url,omitempty" db:"discord_avatar_url"`
	TwitterHandle       string   `json:"twitter_handle,omitempty" db:"twitter_handle"`
	GitHubUsername      string   `json:"github_username,omitempty" db:"github_username"`
	TotalParticipations int64    `json:"total_participations" db:"total_participations"`
	TotalWins           int64    `json:"total_wins" db:"total_wins"`
	TotalVotesReceived  int64    `json:"total_votes_received" db:"total_votes_received"`
	Badges              []string `json:"badges"`
	FirstParticipated   int64    `json:"first_participated_at" db:"first_participated"`
	Updated             int64    `json:"updated_at" db:"updated"`
}

// SiteSettings is the single row of editable site copy and week counters.
type SiteSettings struct {
	ID                  int64  `json:"id" db:"id"`
	HeroTitle           string `json:"hero_title" db:"hero_title"`
	HeroSubtitle        string `json:"hero_subtitle" db:"hero_subtitle"`
	CurrentBuildersWeek int    `json:"current_builders_hub_week" db:"current_builders_hub_week"`
	CurrentSharkWeek    int    `json:"current_shark_tank_week" db:"current_shark_tank_week"`
	AnnouncementText    string `json:"announcement_text,omitempty" db:"announcement_text"`
}
