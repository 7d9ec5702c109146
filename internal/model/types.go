package model

// Coordinates is a WGS84 point.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// MapBounds is a rectangular geospatial query region. Northeast must be
// strictly north and east of southwest. Bounds are always derived from a
// center point, never hand-entered.
type MapBounds struct {
	Northeast Coordinates `json:"northeast"`
	Southwest Coordinates `json:"southwest"`
}

func (b MapBounds) Valid() bool {
	return b.Northeast.Lat > b.Southwest.Lat && b.Northeast.Lng > b.Southwest.Lng
}

// LocationCriteria narrows a search hierarchically: country ⊇ region ⊇
// city ⊇ street. Each level is optional and independently settable; a nil
// field means unconstrained, never empty string.
type LocationCriteria struct {
	Country     *string      `json:"country,omitempty"`
	Region      *string      `json:"region,omitempty"`
	City        *string      `json:"city,omitempty"`
	Street      *string      `json:"street,omitempty"`
	Postcode    *string      `json:"postcode,omitempty"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
}

func (l LocationCriteria) IsZero() bool {
	return l.Country == nil && l.Region == nil && l.City == nil &&
		l.Street == nil && l.Postcode == nil && l.Coordinates == nil
}

type SortOrder string

const (
	SortDistance  SortOrder = "distance"
	SortName      SortOrder = "name"
	SortRelevance SortOrder = "relevance"
)

const DefaultPageSize = 20

// SearchCriteria is the structured filter set a text search is evaluated
// against. Built fresh per submission; never mutated after dispatch.
type SearchCriteria struct {
	BusinessName  *string          `json:"businessName,omitempty"`
	Sector        *string          `json:"sector,omitempty"`
	Location      LocationCriteria `json:"location"`
	RewardsOnly   bool             `json:"rewardsOnly"`
	CampaignsOnly bool             `json:"campaignsOnly"`
	Distance      *float64         `json:"distance,omitempty"` // miles
	SortBy        SortOrder        `json:"sortBy"`
	Page          int              `json:"page"`
	PageSize      int              `json:"pageSize"`
}

// RewardProgram is a loyalty program attached to a business.
type RewardProgram struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

// Campaign is a time-boxed promotion attached to a business.
type Campaign struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

// BusinessLocation is the resolved address of a business.
type BusinessLocation struct {
	FormattedAddress string      `json:"formattedAddress"`
	City             string      `json:"city"`
	Postcode         string      `json:"postcode"`
	CountryCode      string      `json:"countryCode"`
	Coordinates      Coordinates `json:"coordinates"`
}

// Business is a read-only projection returned by the gateway. No
// client-side mutation.
type Business struct {
	ID             string           `json:"id"`
	Name           string           `json:"name"`
	Sector         string           `json:"sector"`
	Location       BusinessLocation `json:"location"`
	RewardPrograms []RewardProgram  `json:"rewardPrograms"`
	Campaigns      []Campaign       `json:"campaigns"`
	// DistanceFromSearch is populated only when the query carried a
	// spatial component. Miles.
	DistanceFromSearch *float64 `json:"distanceFromSearch,omitempty"`
}

func (b Business) ActiveRewardCount() int {
	n := 0
	for _, p := range b.RewardPrograms {
		if p.Active {
			n++
		}
	}
	return n
}

func (b Business) ActiveCampaignCount() int {
	n := 0
	for _, c := range b.Campaigns {
		if c.Active {
			n++
		}
	}
	return n
}

// SearchResult wraps one page of businesses.
type SearchResult struct {
	Results    []Business `json:"results"`
	TotalCount int        `json:"totalCount"`
	Page       *int       `json:"page,omitempty"`
	HasMore    *bool      `json:"hasMore,omitempty"`
}
