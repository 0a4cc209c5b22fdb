package extract

import (
	"fmt"
	"math"
	"time"

	"github.com/MartinUnity/games-terra-invicta/internal/dataset"
	"github.com/MartinUnity/games-terra-invicta/internal/registry"
)

// Mission control capacity formula, calibrated against observed saves:
// one slot per controlled region plus one per ~290B GDP.
const (
	mcBasePerRegion = 1.0
	mcGDPDivisor    = 290.0
)

// cpCostScale fits the game's square-root control-point maintenance curve.
const cpCostScale = 1.1

// Nations extracts the per-nation economy table: demographics, economic
// indicators, mission control capacity and the efficiency ratios derived
// from them. It is the only table subject to the tracked-entities
// allow-list.
type Nations struct{}

func (Nations) Name() string { return "nations" }

func (Nations) Columns() []string {
	return []string{
		"date",
		"nation_id",
		"nation_name",
		"population_millions",
		"region_count",
		"gdp_billions",
		"gdp_capita",
		"inequality",
		"democracy",
		"unrest",
		"cohesion",
		"monthly_research",
		"monthly_ip",
		"cp_maintenance_cost",
		"ui_cost_per_point",
		"efficiency_research",
		"efficiency_ip",
		"mc_built",
		"mc_cap",
		"mc_utilization",
	}
}

// geoStats aggregates region-level data per owning nation. Regions carry
// the population and built mission control; nations only reference them.
type geoStats struct {
	regions     int
	popMillions float64
	mcBuilt     float64
}

func (x Nations) Extract(reg *registry.Registry, cfg Config) (*dataset.Dataset, error) {
	ds := dataset.New(x.Name(), x.Columns())

	geo, err := aggregateRegions(reg)
	if err != nil {
		return nil, err
	}

	date := SaveDate(reg)

	for i, rec := range reg.Kind(registry.KindNation) {
		if rec.Fields == nil {
			return nil, errMalformed(registry.KindNation, i)
		}

		name, _ := fieldString(rec.Fields, "displayName")
		stats := geo[rec.ID]

		// Phantom nations own no regions; the alien administration is not
		// a nation in any analytical sense.
		if stats.regions == 0 || name == "Alien Administration" {
			continue
		}
		if !cfg.Tracks(name) {
			continue
		}

		rawGDP, _ := fieldNumber(rec.Fields, "GDP", "grossDomesticProduct")
		gdpBillions := rawGDP / 1e9

		var gdpCapita any
		if stats.popMillions > 0 {
			gdpCapita = round(rawGDP/(stats.popMillions*1e6), 0)
		}

		mcCap := int(float64(stats.regions)*mcBasePerRegion + gdpBillions/mcGDPDivisor)
		mcUtilization := 100.0
		if mcCap > 0 {
			mcUtilization = stats.mcBuilt / float64(mcCap) * 100
		}

		cpCost := cpCostScale * math.Sqrt(gdpBillions)

		monthlyResearch := 0.0
		if history, ok := fieldSlice(rec.Fields, "historyResearch"); ok && len(history) > 0 {
			if v, ok := history[0].(float64); ok {
				monthlyResearch = v
			}
		}

		baseIP, _ := fieldNumber(rec.Fields, "economyScore")

		var effResearch, effIP float64
		if cpCost > 0 {
			effResearch = monthlyResearch / cpCost
			effIP = baseIP / cpCost
		}

		controlPoints, _ := fieldNumber(rec.Fields, "numControlPoints")
		controlPoints = math.Max(controlPoints, 1)

		inequality, _ := fieldNumber(rec.Fields, "inequality")
		democracy, _ := fieldNumber(rec.Fields, "democracy")
		unrest, _ := fieldNumber(rec.Fields, "unrest")
		cohesion, _ := fieldNumber(rec.Fields, "cohesion")

		ds.Append(dataset.Row{
			"date":                date,
			"nation_id":           rec.ID,
			"nation_name":         name,
			"population_millions": round(stats.popMillions, 3),
			"region_count":        stats.regions,
			"gdp_billions":        round(gdpBillions, 1),
			"gdp_capita":          gdpCapita,
			"inequality":          inequality,
			"democracy":           democracy,
			"unrest":              unrest,
			"cohesion":            cohesion,
			"monthly_research":    round(monthlyResearch, 1),
			"monthly_ip":          round(baseIP, 2),
			"cp_maintenance_cost": round(cpCost, 2),
			"ui_cost_per_point":   round(cpCost/controlPoints, 2),
			"efficiency_research": round(effResearch, 2),
			"efficiency_ip":       round(effIP, 2),
			"mc_built":            round(stats.mcBuilt, 1),
			"mc_cap":              mcCap,
			"mc_utilization":      round(mcUtilization, 1),
		})
	}

	return ds, nil
}

// aggregateRegions sums population, region count and built mission control
// per owning nation, keyed by the nation's canonical identifier.
func aggregateRegions(reg *registry.Registry) (map[string]geoStats, error) {
	geo := make(map[string]geoStats)
	for i, rec := range reg.Kind(registry.KindRegion) {
		if rec.Fields == nil {
			return nil, errMalformed(registry.KindRegion, i)
		}

		nationID := registry.RefID(rec.Fields["nation"])
		if nationID == "" {
			continue
		}

		stats := geo[nationID]
		stats.regions++
		if pop, ok := fieldNumber(rec.Fields, "populationInMillions"); ok {
			stats.popMillions += pop
		}
		if mc, ok := fieldNumber(rec.Fields, "missionControl"); ok {
			stats.mcBuilt += mc
		}
		geo[nationID] = stats
	}
	return geo, nil
}

// SaveDate reads the in-game date from the time state. It returns nil (the
// missing marker) when the save carries no time state, keeping output
// byte-identical across re-runs rather than stamping wall-clock time.
func SaveDate(reg *registry.Registry) any {
	recs := reg.Kind(registry.KindTime)
	if len(recs) == 0 || recs[0].Fields == nil {
		return nil
	}
	current, ok := fieldMap(recs[0].Fields, "currentDateTime")
	if !ok {
		return nil
	}
	year, _ := fieldNumber(current, "year")
	month, _ := fieldNumber(current, "month")
	day, _ := fieldNumber(current, "day")
	if year == 0 {
		return nil
	}
	if month == 0 {
		month = 1
	}
	if day == 0 {
		day = 1
	}
	d := time.Date(int(year), time.Month(month), int(day), 0, 0, 0, 0, time.UTC)
	return fmt.Sprintf("%04d-%02d-%02d", d.Year(), d.Month(), d.Day())
}
