package arena

import "github.com/rialo-labs/builders-arena/pkg/models"

// Badge identifiers. Badges are permanent: once earned they are never
// revoked, even when the participation that earned them is deleted.
const (
	BadgeFirstTimer       = "first_timer"
	BadgeCodeIsLaw        = "code_is_law"
	BadgeStarCollector    = "star_collector"
	BadgeOpenSourceKing   = "open_source_king"
	BadgeCommunityBuilder = "community_builder"
	BadgePolyglot         = "polyglot"
	BadgeVeteran          = "veteran"
	BadgeChampion         = "champion"
	BadgeSharkKing        = "shark_king"
	BadgeDiamond          = "diamond"
)

// Qualification thresholds.
const (
	starCollectorStars    = 100
	openSourceKingStars   = 500
	communityFollowers    = 100
	polyglotLanguages     = 3
	veteranParticipations = 5
)

// submissionBadges returns the badges a submission qualifies for, evaluated
// against the aggregate participation count after the submission is counted.
func submissionBadges(p *models.Participant, totalParticipations int64) []string {
	var out []string

	if totalParticipations == 1 {
		out = append(out, BadgeFirstTimer)
	}
	if p.GitHubUsername != "" {
		out = append(out, BadgeCodeIsLaw)
	}
	if p.GitHub != nil {
		if p.GitHub.TotalStars >= starCollectorStars {
			out = append(out, BadgeStarCollector)
		}
		if p.GitHub.TotalStars >= openSourceKingStars {
			out = append(out, BadgeOpenSourceKing)
		}
		if p.GitHub.Followers >= communityFollowers {
			out = append(out, BadgeCommunityBuilder)
		}
		if len(p.GitHub.TopLanguages) >= polyglotLanguages {
			out = append(out, BadgePolyglot)
		}
	}
	if totalParticipations >= veteranParticipations {
		out = append(out, BadgeVeteran)
	}

	return out
}

// winBadge maps an event category to its win badge.
func winBadge(eventType string) string {
	if eventType == models.EventSharkTank {
		return BadgeSharkKing
	}
	return BadgeChampion
}

func hasBadge(badges []string, id string) bool {
	for _, b := range badges {
		if b == id {
			return true
		}
	}
	return false
}

// unionBadges adds the candidates not already held and returns the merged
// set plus the list of newly granted badges. Existing badges are never
// removed or reordered.
func unionBadges(held, candidates []string) (merged, added []string) {
	merged = held
	for _, c := range candidates {
		if !hasBadge(merged, c) {
			merged = append(merged, c)
			added = append(added, c)
		}
	}
	return merged, added
}
