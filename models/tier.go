package models

// ProductLimit bounds how many products a creator may put into one collaboration.
type ProductLimit struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Tier: static loyalty level config. Loaded once at process start, never mutated.
// Rank is the position in the ascending order — access and deadline rules key off it.
type Tier struct {
	ID                 string       `json:"id"`
	Name               string       `json:"name"`
	Rank               int          `json:"rank"`
	MinFollowers       int64        `json:"min_followers"`
	MinEngagementRate  float64      `json:"min_engagement_rate"` // percent, e.g. 3.0
	ProductLimit       ProductLimit `json:"product_limit"`
	DeadlineDays       int          `json:"deadline_days"`
	MaxCollabsPerMonth int          `json:"max_collabs_per_month"`
	MaxActiveCollabs   int          `json:"max_active_collabs"`
	CooldownDays       int          `json:"cooldown_days"`
	PointsToNext       *int64       `json:"points_to_next,omitempty"` // nil on the top tier
}

func ptsToNext(v int64) *int64 { return &v }

// TierCatalog is the fixed tier table, ascending by rank.
// Thresholds must stay strictly monotonic in rank.
var TierCatalog = []Tier{
	{
		ID:                 "beginner",
		Name:               "Beginner",
		Rank:               1,
		MinFollowers:       0,
		MinEngagementRate:  0,
		ProductLimit:       ProductLimit{Min: 1, Max: 4},
		DeadlineDays:       14,
		MaxCollabsPerMonth: 1,
		MaxActiveCollabs:   1,
		CooldownDays:       14,
		PointsToNext:       ptsToNext(1000),
	},
	{
		ID:                 "active",
		Name:               "Active Creator",
		Rank:               2,
		MinFollowers:       5000,
		MinEngagementRate:  2.0,
		ProductLimit:       ProductLimit{Min: 2, Max: 6},
		DeadlineDays:       14,
		MaxCollabsPerMonth: 2,
		MaxActiveCollabs:   2,
		CooldownDays:       10,
		PointsToNext:       ptsToNext(2500),
	},
	{
		ID:                 "pro",
		Name:               "Pro Creator",
		Rank:               3,
		MinFollowers:       15000,
		MinEngagementRate:  3.0,
		ProductLimit:       ProductLimit{Min: 3, Max: 8},
		DeadlineDays:       10,
		MaxCollabsPerMonth: 3,
		MaxActiveCollabs:   2,
		CooldownDays:       7,
		PointsToNext:       ptsToNext(5000),
	},
	{
		ID:                 "expert",
		Name:               "Expert",
		Rank:               4,
		MinFollowers:       50000,
		MinEngagementRate:  4.0,
		ProductLimit:       ProductLimit{Min: 4, Max: 10},
		DeadlineDays:       10,
		MaxCollabsPerMonth: 4,
		MaxActiveCollabs:   3,
		CooldownDays:       5,
		PointsToNext:       ptsToNext(10000),
	},
	{
		ID:                 "ambassador",
		Name:               "Ambassador",
		Rank:               5,
		MinFollowers:       100000,
		MinEngagementRate:  5.0,
		ProductLimit:       ProductLimit{Min: 5, Max: 12},
		DeadlineDays:       7,
		MaxCollabsPerMonth: 6,
		MaxActiveCollabs:   4,
		CooldownDays:       3,
		PointsToNext:       nil, // top tier
	},
}

// TierByID returns the catalog entry for id, or nil if unknown.
func TierByID(id string) *Tier {
	for i := range TierCatalog {
		if TierCatalog[i].ID == id {
			return &TierCatalog[i]
		}
	}
	return nil
}

// LowestTier is the fallback assignment when no thresholds are met.
func LowestTier() *Tier {
	return &TierCatalog[0]
}
