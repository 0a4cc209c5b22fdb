package extract

import (
	"github.com/MartinUnity/games-terra-invicta/internal/dataset"
	"github.com/MartinUnity/games-terra-invicta/internal/registry"
)

// Factions extracts the per-faction resource table, joined with counts of
// the orbital assets and fleets each faction owns.
type Factions struct{}

func (Factions) Name() string { return "factions" }

func (Factions) Columns() []string {
	return []string{
		"faction_id",
		"faction_name",
		"money",
		"influence",
		"ops",
		"boost",
		"research_income",
		"hab_count",
		"fleet_count",
		"mission_control",
	}
}

// factionAssets aggregates owned habs and fleets per faction identifier.
type factionAssets struct {
	habs   int
	fleets int
	mc     float64
}

func (x Factions) Extract(reg *registry.Registry, cfg Config) (*dataset.Dataset, error) {
	ds := dataset.New(x.Name(), x.Columns())

	owned := make(map[string]factionAssets)
	for _, rec := range reg.Kind(registry.KindHab) {
		if rec.Fields == nil {
			continue
		}
		id := registry.RefID(rec.Fields["faction"])
		if id == "" {
			continue
		}
		a := owned[id]
		a.habs++
		if mc, ok := fieldNumber(rec.Fields, "missionControl"); ok {
			a.mc += mc
		}
		owned[id] = a
	}
	for _, rec := range reg.Kind(registry.KindFleet) {
		if rec.Fields == nil {
			continue
		}
		id := registry.RefID(rec.Fields["faction"])
		if id == "" {
			continue
		}
		a := owned[id]
		a.fleets++
		owned[id] = a
	}

	for i, rec := range reg.Kind(registry.KindFaction) {
		if rec.Fields == nil {
			return nil, errMalformed(registry.KindFaction, i)
		}

		name, _ := fieldString(rec.Fields, "displayName")
		assets := owned[rec.ID]

		ds.Append(dataset.Row{
			"faction_id":      rec.ID,
			"faction_name":    name,
			"money":           resourceValue(rec.Fields, "money", "Money"),
			"influence":       resourceValue(rec.Fields, "influence", "Influence"),
			"ops":             resourceValue(rec.Fields, "ops", "Operations"),
			"boost":           resourceValue(rec.Fields, "boost", "Boost"),
			"research_income": resourceValue(rec.Fields, "researchIncome", "Research"),
			"hab_count":       assets.habs,
			"fleet_count":     assets.fleets,
			"mission_control": assets.mc,
		})
	}

	return ds, nil
}

// resourceValue reads a faction resource, trying the flat field first and
// then the nested "resources" object newer saves use.
func resourceValue(fields map[string]any, flatKey, nestedKey string) any {
	if v, ok := fieldNumber(fields, flatKey); ok {
		return v
	}
	if resources, ok := fieldMap(fields, "resources"); ok {
		if v, ok := fieldNumber(resources, nestedKey); ok {
			return v
		}
	}
	return nil
}
