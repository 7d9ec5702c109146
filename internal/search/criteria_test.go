package search

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/perktap/perktap/internal/model"
)

func TestBuildCriteriaAllEmpty(t *testing.T) {
	c := BuildCriteria(CriteriaInput{})

	if c.BusinessName != nil || c.Sector != nil || c.Distance != nil {
		t.Errorf("optional fields must be nil when empty: %+v", c)
	}
	if !c.Location.IsZero() {
		t.Errorf("location must be fully unconstrained: %+v", c.Location)
	}
	if c.SortBy != model.SortDistance {
		t.Errorf("SortBy = %q, want distance", c.SortBy)
	}
	if c.Page != 1 || c.PageSize != model.DefaultPageSize {
		t.Errorf("paging defaults wrong: page=%d pageSize=%d", c.Page, c.PageSize)
	}

	// The wire form must omit absent fields entirely, never send "".
	data, err := json.Marshal(c)
	if err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"businessName", "sector", "country", "region", "city", "street", "postcode", "distance"} {
		if strings.Contains(string(data), `"`+key+`"`) {
			t.Errorf("marshalled criteria must omit %q: %s", key, data)
		}
	}
}

func TestBuildCriteriaTrimsAndKeeps(t *testing.T) {
	c := BuildCriteria(CriteriaInput{
		BusinessName: "  Rise Bakery  ",
		Sector:       "Bakery",
		Country:      "United Kingdom",
		City:         "Middlesbrough",
		Distance:     " 5 ",
		RewardsOnly:  true,
	})

	if c.BusinessName == nil || *c.BusinessName != "Rise Bakery" {
		t.Errorf("businessName not trimmed: %v", c.BusinessName)
	}
	if c.Location.Country == nil || *c.Location.Country != "United Kingdom" {
		t.Errorf("country missing: %+v", c.Location)
	}
	if c.Location.Region != nil || c.Location.Street != nil {
		t.Error("unset hierarchy levels must stay nil; no level implies another")
	}
	if c.Distance == nil || *c.Distance != 5 {
		t.Errorf("distance = %v, want 5", c.Distance)
	}
	if !c.RewardsOnly || c.CampaignsOnly {
		t.Errorf("flags wrong: %+v", c)
	}
}

func TestBuildCriteriaInvalidDistance(t *testing.T) {
	for _, d := range []string{"abc", "-3", "0"} {
		c := BuildCriteria(CriteriaInput{Distance: d})
		if c.Distance != nil {
			t.Errorf("distance %q should be dropped, got %v", d, *c.Distance)
		}
	}
}

func TestSummary(t *testing.T) {
	if got := Summary(BuildCriteria(CriteriaInput{})); got != "(no filters)" {
		t.Errorf("empty criteria summary = %q", got)
	}

	c := BuildCriteria(CriteriaInput{Sector: "Bakery", City: "Leeds", RewardsOnly: true})
	got := Summary(c)
	for _, want := range []string{"sector=Bakery", "city=Leeds", "rewards-only"} {
		if !strings.Contains(got, want) {
			t.Errorf("summary %q missing %q", got, want)
		}
	}
}
