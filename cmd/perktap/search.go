package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/perktap/perktap/internal/config"
	"github.com/perktap/perktap/internal/geo"
	"github.com/perktap/perktap/internal/location"
	"github.com/perktap/perktap/internal/logging"
	"github.com/perktap/perktap/internal/model"
	"github.com/perktap/perktap/internal/search"
	"github.com/perktap/perktap/internal/tui/components"
)

func runSearch(args []string) error {
	var in search.CriteriaInput
	var useMap bool
	var lat, lng float64
	var format, output string

	fs := flag.NewFlagSet("search", flag.ExitOnError)
	fs.StringVar(&in.BusinessName, "name", "", "Business name")
	fs.StringVar(&in.Sector, "sector", "", "Business sector")
	fs.StringVar(&in.Country, "country", "", "Country")
	fs.StringVar(&in.Region, "region", "", "Region/state")
	fs.StringVar(&in.City, "city", "", "City")
	fs.StringVar(&in.Street, "street", "", "Street")
	fs.StringVar(&in.Postcode, "postcode", "", "Postcode")
	fs.StringVar(&in.Distance, "distance", "", "Max distance in miles")
	fs.BoolVar(&in.RewardsOnly, "rewards", false, "Only businesses with active rewards")
	fs.BoolVar(&in.CampaignsOnly, "campaigns", false, "Only businesses with active campaigns")
	fs.BoolVar(&useMap, "map", false, "Search the area around a point instead of by criteria")
	fs.Float64Var(&lat, "lat", 0, "Map center latitude (default: resolved location)")
	fs.Float64Var(&lng, "lng", 0, "Map center longitude")
	fs.StringVar(&format, "format", "table", "Output format: table or csv")
	fs.StringVar(&output, "output", "", "Write CSV to file instead of stdout")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: perktap search [flags]\n\nFlags:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  perktap search -sector Bakery -city Middlesbrough\n")
		fmt.Fprintf(os.Stderr, "  perktap search -map -lat 54.50 -lng -1.25 -rewards\n")
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if format != "table" && format != "csv" {
		return fmt.Errorf("unsupported format: %s", format)
	}

	cfg, err := config.Load(configPath())
	if err != nil {
		return err
	}
	logger := logging.Console(cfg.Log.Level)

	// Graceful shutdown: a second signal kills the process outright.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nCancelled")
		cancel()
	}()

	deps, cleanup := buildDeps(cfg, logger)
	defer cleanup()

	var (
		res      *model.SearchResult
		criteria model.SearchCriteria
		mode     string
		summary  string
	)

	if useMap {
		center := model.Coordinates{Lat: lat, Lng: lng}
		if lat == 0 && lng == 0 {
			provider := location.FromConfig(cfg.Location)
			granted, err := provider.RequestPermission(ctx)
			if err != nil {
				return fmt.Errorf("requesting location: %w", err)
			}
			if !granted {
				return fmt.Errorf("location is disabled; pass -lat/-lng explicitly")
			}
			coords, err := provider.CurrentLocation(ctx)
			if err != nil {
				return fmt.Errorf("resolving location: %w", err)
			}
			center = *coords
		}

		bounds := geo.BoundsAround(center)
		logger.Info().Float64("lat", center.Lat).Float64("lng", center.Lng).Msg("searching area")

		criteria = model.SearchCriteria{
			Location:      model.LocationCriteria{Coordinates: &center},
			RewardsOnly:   in.RewardsOnly,
			CampaignsOnly: in.CampaignsOnly,
			SortBy:        model.SortDistance,
			Page:          1,
			PageSize:      model.DefaultPageSize,
		}
		res, err = deps.Client.SearchMap(ctx, bounds, &criteria)
		if err == nil {
			geo.FillDistances(center, res.Results)
		}
		mode = "map"
		summary = fmt.Sprintf("area around %.4f, %.4f", center.Lat, center.Lng)
	} else {
		criteria = search.BuildCriteria(in)
		if criteria.BusinessName == nil && criteria.Sector == nil &&
			criteria.Location.IsZero() && !criteria.RewardsOnly && !criteria.CampaignsOnly {
			return fmt.Errorf("at least one search criterion is required")
		}
		logger.Info().Str("criteria", search.Summary(criteria)).Msg("searching")

		res, err = deps.Client.SearchText(ctx, criteria)
		mode = "text"
		summary = search.Summary(criteria)
	}
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if deps.History != nil {
		if err := deps.History.Record(mode, summary, criteria, res.TotalCount); err != nil {
			logger.Warn().Err(err).Msg("recording search history")
		}
	}

	if format == "csv" || output != "" {
		return writeCSV(res.Results, output)
	}
	printTable(res)
	return nil
}

func printTable(res *model.SearchResult) {
	fmt.Println(components.CountLabel(res.TotalCount))
	if len(res.Results) == 0 {
		return
	}
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tSECTOR\tADDRESS\tDISTANCE\tREWARDS\tCAMPAIGNS")
	for _, b := range res.Results {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\n",
			b.Name, b.Sector, b.Location.FormattedAddress,
			components.FormatDistance(b.DistanceFromSearch),
			b.ActiveRewardCount(), b.ActiveCampaignCount())
	}
	w.Flush()
}

func writeCSV(businesses []model.Business, path string) error {
	out := os.Stdout
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("creating output: %w", err)
		}
		defer f.Close()
		out = f
	}

	w := csv.NewWriter(out)
	defer w.Flush()

	w.Write([]string{
		"id", "name", "sector", "address", "city", "postcode", "country_code",
		"lat", "lng", "distance_mi", "active_rewards", "active_campaigns",
	})
	for _, b := range businesses {
		distance := ""
		if b.DistanceFromSearch != nil {
			distance = fmt.Sprintf("%.1f", *b.DistanceFromSearch)
		}
		w.Write([]string{
			b.ID,
			b.Name,
			b.Sector,
			b.Location.FormattedAddress,
			b.Location.City,
			b.Location.Postcode,
			b.Location.CountryCode,
			fmt.Sprintf("%.6f", b.Location.Coordinates.Lat),
			fmt.Sprintf("%.6f", b.Location.Coordinates.Lng),
			distance,
			fmt.Sprintf("%d", b.ActiveRewardCount()),
			fmt.Sprintf("%d", b.ActiveCampaignCount()),
		})
	}

	if path != "" {
		fmt.Fprintf(os.Stderr, "Exported %d businesses to %s\n", len(businesses), path)
	}
	return nil
}
