package extract

import (
	"github.com/MartinUnity/games-terra-invicta/internal/dataset"
	"github.com/MartinUnity/games-terra-invicta/internal/registry"
)

// SpaceAssets extracts the orbital asset table: stations and bases with
// their owning faction resolved to a name, crew, power balance and mission
// control contribution.
type SpaceAssets struct{}

func (SpaceAssets) Name() string { return "space_assets" }

func (SpaceAssets) Columns() []string {
	return []string{
		"hab_id",
		"hab_name",
		"hab_type",
		"tier",
		"body",
		"faction_id",
		"faction_name",
		"crew",
		"power_supply",
		"power_demand",
		"under_powered",
		"mission_control",
	}
}

func (x SpaceAssets) Extract(reg *registry.Registry, cfg Config) (*dataset.Dataset, error) {
	ds := dataset.New(x.Name(), x.Columns())

	for i, rec := range reg.Kind(registry.KindHab) {
		if rec.Fields == nil {
			return nil, errMalformed(registry.KindHab, i)
		}

		name, _ := fieldString(rec.Fields, "displayName")
		habType, _ := fieldString(rec.Fields, "templateName", "habType")
		tier, _ := fieldNumber(rec.Fields, "tier")
		body, _ := fieldString(rec.Fields, "body", "orbitBody")
		crew, _ := fieldNumber(rec.Fields, "crew", "population")
		mc, _ := fieldNumber(rec.Fields, "missionControl")

		powerSupply, _ := fieldNumber(rec.Fields, "powerSupply", "power")
		powerDemand, _ := fieldNumber(rec.Fields, "powerDemand")

		row := dataset.Row{
			"hab_id":          rec.ID,
			"hab_name":        name,
			"hab_type":        habType,
			"tier":            tier,
			"body":            body,
			"crew":            crew,
			"power_supply":    powerSupply,
			"power_demand":    powerDemand,
			"under_powered":   powerSupply < powerDemand,
			"mission_control": mc,
		}

		faction := reg.ResolveRef(registry.KindFaction, rec.Fields["faction"])
		row["faction_id"] = orMissing(faction.ID)
		if faction.Missing() {
			ds.Unresolved++
			cfg.logger().Debug("unresolved faction reference",
				"table", x.Name(), "hab", rec.ID, "faction", faction.ID)
		} else if owner, ok := faction.Field("displayName").(string); ok {
			row["faction_name"] = owner
		}

		ds.Append(row)
	}

	return ds, nil
}

// orMissing maps an empty identifier to the missing marker so foreign-key
// columns are explicitly null rather than empty strings.
func orMissing(id string) any {
	if id == "" {
		return nil
	}
	return id
}
