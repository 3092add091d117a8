package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rialo-labs/builders-arena/pkg/models"
)

func (r *SQLiteRepo) GetSettings(ctx context.Context) (*models.SiteSettings, error) {
	row := r.q.QueryRow(ctx, `SELECT id, hero_title, hero_subtitle, current_builders_hub_week, current_shark_tank_week, announcement_text FROM site_settings WHERE id = 1`)
	var s models.SiteSettings
	var announcement sql.NullString
	if err := row.Scan(&s.ID, &s.HeroTitle, &s.HeroSubtitle, &s.CurrentBuildersWeek, &s.CurrentSharkWeek, &announcement); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}
	s.AnnouncementText = announcement.String

	return &s, nil
}

func (r *SQLiteRepo) UpdateSettings(ctx context.Context, s *models.SiteSettings) error {
	if s == nil {
		return fmt.Errorf("settings is nil")
	}

	_, err := r.q.Exec(ctx, `UPDATE site_settings SET hero_title = ?, hero_subtitle = ?, current_builders_hub_week = ?, current_shark_tank_week = ?, announcement_text = ? WHERE id = 1`,
		s.HeroTitle, s.HeroSubtitle, s.CurrentBuildersWeek, s.CurrentSharkWeek, nullable(s.AnnouncementText))
	return err
}
