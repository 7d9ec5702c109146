package search

import (
	"strconv"
	"strings"

	"github.com/perktap/perktap/internal/model"
)

// CriteriaInput is the raw field state of the text-search form. Strings
// arrive as typed, including empties.
type CriteriaInput struct {
	BusinessName  string
	Sector        string
	Country       string
	Region        string
	City          string
	Street        string
	Postcode      string
	Distance      string // miles, free-typed
	RewardsOnly   bool
	CampaignsOnly bool
}

// BuildCriteria snapshots form fields into immutable criteria. Empty
// strings are normalized to absent fields — the wire never carries "".
// Sort order is fixed to distance and the page is always 1.
func BuildCriteria(in CriteriaInput) model.SearchCriteria {
	c := model.SearchCriteria{
		BusinessName: optional(in.BusinessName),
		Sector:       optional(in.Sector),
		Location: model.LocationCriteria{
			Country:  optional(in.Country),
			Region:   optional(in.Region),
			City:     optional(in.City),
			Street:   optional(in.Street),
			Postcode: optional(in.Postcode),
		},
		RewardsOnly:   in.RewardsOnly,
		CampaignsOnly: in.CampaignsOnly,
		SortBy:        model.SortDistance,
		Page:          1,
		PageSize:      model.DefaultPageSize,
	}

	if d := strings.TrimSpace(in.Distance); d != "" {
		if miles, err := strconv.ParseFloat(d, 64); err == nil && miles > 0 {
			c.Distance = &miles
		}
	}
	return c
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// Summary renders criteria as a short human-readable line for history
// entries and log output.
func Summary(c model.SearchCriteria) string {
	var parts []string
	add := func(label string, v *string) {
		if v != nil {
			parts = append(parts, label+"="+*v)
		}
	}
	add("name", c.BusinessName)
	add("sector", c.Sector)
	add("country", c.Location.Country)
	add("region", c.Location.Region)
	add("city", c.Location.City)
	add("street", c.Location.Street)
	add("postcode", c.Location.Postcode)
	if c.Distance != nil {
		parts = append(parts, "distance="+strconv.FormatFloat(*c.Distance, 'f', -1, 64)+"mi")
	}
	if c.RewardsOnly {
		parts = append(parts, "rewards-only")
	}
	if c.CampaignsOnly {
		parts = append(parts, "campaigns-only")
	}
	if len(parts) == 0 {
		return "(no filters)"
	}
	return strings.Join(parts, " ")
}
