// Package mock provides an in-memory repository.Store for unit tests.
package mock

import (
	"context"
	"sort"
	"sync"

	"github.com/rialo-labs/builders-arena/pkg/models"
	"github.com/rialo-labs/builders-arena/pkg/repository"
)

// Store keeps everything in maps. InTx runs the callback directly without
// rollback semantics; transactional behavior is covered by the sqlite tests.
type Store struct {
	mu           sync.Mutex
	seq          int64
	Events       map[string]*models.Event
	Participants map[string]*models.Participant
	Votes        map[string]*models.Vote
	Profiles     map[string]*models.BuilderProfile
	Settings     *models.SiteSettings

	// ForcedErr, when set, is returned by every call. Useful for
	// failure-path tests.
	ForcedErr error
}

var _ repository.Store = (*Store)(nil)

func NewStore() *Store {
	return &Store{
		Events:       make(map[string]*models.Event),
		Participants: make(map[string]*models.Participant),
		Votes:        make(map[string]*models.Vote),
		Profiles:     make(map[string]*models.BuilderProfile),
		Settings:     &models.SiteSettings{ID: 1, HeroTitle: "Rialo Builders Arena", HeroSubtitle: "Build. Ship. Win.", CurrentBuildersWeek: 1, CurrentSharkWeek: 1},
	}
}

func (m *Store) next() int64 {
	m.seq++
	return m.seq
}

func (m *Store) InTx(ctx context.Context, fn func(repository.Store) error) error {
	if m.ForcedErr != nil {
		return m.ForcedErr
	}
	return fn(m)
}

// Events

func (m *Store) CreateEvent(ctx context.Context, e *models.Event) error {
	if m.ForcedErr != nil {
		return m.ForcedErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	ts := m.next()
	e.Created = ts
	e.Updated = ts
	cp := *e
	m.Events[e.ID] = &cp
	return nil
}

func (m *Store) GetEvent(ctx context.Context, id string) (*models.Event, error) {
	if m.ForcedErr != nil {
		return nil, m.ForcedErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.Events[id]
	if !ok {
		return nil, nil
	}
	cp := *e
	return &cp, nil
}

func (m *Store) ListEvents(ctx context.Context) ([]models.Event, error) {
	if m.ForcedErr != nil {
		return nil, m.ForcedErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Event, 0, len(m.Events))
	for _, e := range m.Events {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Created < out[j].Created })
	return out, nil
}

func (m *Store) UpdateEvent(ctx context.Context, e *models.Event) error {
	if m.ForcedErr != nil {
		return m.ForcedErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *e
	m.Events[e.ID] = &cp
	return nil
}

func (m *Store) DeleteEvent(ctx context.Context, id string) error {
	if m.ForcedErr != nil {
		return m.ForcedErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Events, id)
	// cascade, mirroring the FK in the real schema
	for pid, p := range m.Participants {
		if p.EventID == id {
			delete(m.Participants, pid)
		}
	}
	return nil
}

// Participants

func (m *Store) CreateParticipant(ctx context.Context, p *models.Participant) error {
	if m.ForcedErr != nil {
		return m.ForcedErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	ts := m.next()
	p.Created = ts
	p.Updated = ts
	cp := *p
	m.Participants[p.ID] = &cp
	return nil
}

func (m *Store) GetParticipant(ctx context.Context, id string) (*models.Participant, error) {
	if m.ForcedErr != nil {
		return nil, m.ForcedErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.Participants[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (m *Store) ListByEvent(ctx context.Context, eventID string) ([]models.Participant, error) {
	return m.listWhere(func(p *models.Participant) bool { return p.EventID == eventID })
}

func (m *Store) ListByDiscordID(ctx context.Context, discordID string) ([]models.Participant, error) {
	return m.listWhere(func(p *models.Participant) bool { return p.DiscordID == discordID })
}

func (m *Store) ListWinners(ctx context.Context) ([]models.Participant, error) {
	return m.listWhere(func(p *models.Participant) bool { return p.IsWinner })
}

func (m *Store) listWhere(keep func(*models.Participant) bool) ([]models.Participant, error) {
	if m.ForcedErr != nil {
		return nil, m.ForcedErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Participant
	for _, p := range m.Participants {
		if keep(p) {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Created < out[j].Created })
	return out, nil
}

func (m *Store) UpdateParticipant(ctx context.Context, p *models.Participant) error {
	if m.ForcedErr != nil {
		return m.ForcedErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	m.Participants[p.ID] = &cp
	return nil
}

func (m *Store) SetWinner(ctx context.Context, id string, isWinner bool) error {
	if m.ForcedErr != nil {
		return m.ForcedErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.Participants[id]; ok {
		p.IsWinner = isWinner
	}
	return nil
}

func (m *Store) SetVoteCount(ctx context.Context, id string, count int64) error {
	if m.ForcedErr != nil {
		return m.ForcedErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.Participants[id]; ok {
		p.VoteCount = count
	}
	return nil
}

func (m *Store) IncrementVoteCount(ctx context.Context, id string, delta int64) (bool, error) {
	if m.ForcedErr != nil {
		return false, m.ForcedErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.Participants[id]
	if !ok {
		return false, nil
	}
	p.VoteCount += delta
	return true, nil
}

func (m *Store) SetAvatarByDiscordID(ctx context.Context, discordID, avatarURL string) error {
	if m.ForcedErr != nil {
		return m.ForcedErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.Participants {
		if p.DiscordID == discordID {
			p.DiscordAvatarURL = avatarURL
		}
	}
	return nil
}

func (m *Store) DeleteParticipant(ctx context.Context, id string) error {
	if m.ForcedErr != nil {
		return m.ForcedErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Participants, id)
	return nil
}

// Votes

func (m *Store) CreateVote(ctx context.Context, v *models.Vote) error {
	if m.ForcedErr != nil {
		return m.ForcedErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *v
	m.Votes[v.ID] = &cp
	return nil
}

func (m *Store) HasVote(ctx context.Context, participantID, voterDiscordID string) (bool, error) {
	if m.ForcedErr != nil {
		return false, m.ForcedErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, v := range m.Votes {
		if v.ParticipantID == participantID && v.VoterDiscordID == voterDiscordID {
			return true, nil
		}
	}
	return false, nil
}

func (m *Store) CountVotesByEvent(ctx context.Context, eventID string) (int64, error) {
	if m.ForcedErr != nil {
		return 0, m.ForcedErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, v := range m.Votes {
		if v.EventID == eventID {
			n++
		}
	}
	return n, nil
}

// Profiles

func (m *Store) CreateProfile(ctx context.Context, p *models.BuilderProfile) error {
	if m.ForcedErr != nil {
		return m.ForcedErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	cp.Badges = append([]string(nil), p.Badges...)
	m.Profiles[p.DiscordID] = &cp
	return nil
}

func (m *Store) GetProfile(ctx context.Context, discordID string) (*models.BuilderProfile, error) {
	if m.ForcedErr != nil {
		return nil, m.ForcedErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.Profiles[discordID]
	if !ok {
		return nil, nil
	}
	cp := *p
	cp.Badges = append([]string(nil), p.Badges...)
	return &cp, nil
}

func (m *Store) ListProfiles(ctx context.Context) ([]models.BuilderProfile, error) {
	if m.ForcedErr != nil {
		return nil, m.ForcedErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.BuilderProfile, 0, len(m.Profiles))
	for _, p := range m.Profiles {
		cp := *p
		cp.Badges = append([]string(nil), p.Badges...)
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DiscordID < out[j].DiscordID })
	return out, nil
}

func (m *Store) UpdateProfile(ctx context.Context, p *models.BuilderProfile) error {
	if m.ForcedErr != nil {
		return m.ForcedErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	cp.Badges = append([]string(nil), p.Badges...)
	m.Profiles[p.DiscordID] = &cp
	return nil
}

func (m *Store) DeleteProfile(ctx context.Context, discordID string) error {
	if m.ForcedErr != nil {
		return m.ForcedErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Profiles, discordID)
	return nil
}

// Settings

func (m *Store) GetSettings(ctx context.Context) (*models.SiteSettings, error) {
	if m.ForcedErr != nil {
		return nil, m.ForcedErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *m.Settings
	return &cp, nil
}

func (m *Store) UpdateSettings(ctx context.Context, s *models.SiteSettings) error {
	if m.ForcedErr != nil {
		return m.ForcedErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *s
	m.Settings = &cp
	return nil
}
