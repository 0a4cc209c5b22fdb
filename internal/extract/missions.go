package extract

import (
	"github.com/MartinUnity/games-terra-invicta/internal/dataset"
	"github.com/MartinUnity/games-terra-invicta/internal/registry"
)

// Missions extracts the mission logistics table. Missions are the most
// reference-dense records in a save: each row resolves the assigned
// councilor, the sponsoring faction and the target orbital asset, then
// chains through the asset to its owning faction and logistics balance.
type Missions struct{}

func (Missions) Name() string { return "missions" }

func (Missions) Columns() []string {
	return []string{
		"mission_id",
		"mission",
		"phase",
		"councilor_id",
		"councilor_name",
		"faction_id",
		"faction_name",
		"asset_id",
		"asset_name",
		"asset_owner",
		"supply",
		"demand",
		"under_supplied",
	}
}

func (x Missions) Extract(reg *registry.Registry, cfg Config) (*dataset.Dataset, error) {
	ds := dataset.New(x.Name(), x.Columns())

	for i, rec := range reg.Kind(registry.KindMission) {
		if rec.Fields == nil {
			return nil, errMalformed(registry.KindMission, i)
		}

		mission, _ := fieldString(rec.Fields, "missionTemplateName", "templateName")
		phase, _ := fieldString(rec.Fields, "phase")

		row := dataset.Row{
			"mission_id": orMissing(rec.ID),
			"mission":    mission,
			"phase":      phase,
		}

		councilor := reg.ResolveRef(registry.KindCouncilor, rec.Fields["councilor"])
		row["councilor_id"] = orMissing(councilor.ID)
		if councilor.Missing() {
			ds.Unresolved++
		} else if name, ok := councilor.Field("displayName").(string); ok {
			row["councilor_name"] = name
		}

		faction := reg.ResolveRef(registry.KindFaction, rec.Fields["faction"])
		row["faction_id"] = orMissing(faction.ID)
		if faction.Missing() {
			ds.Unresolved++
		} else if name, ok := faction.Field("displayName").(string); ok {
			row["faction_name"] = name
		}

		asset := reg.ResolveRef(registry.KindHab, refField(rec.Fields, "target", "hab"))
		row["asset_id"] = orMissing(asset.ID)
		if asset.Missing() {
			// Asset-derived columns stay at the missing marker; the row is
			// kept so the mission is still visible downstream.
			ds.Unresolved++
			cfg.logger().Debug("unresolved asset reference",
				"table", x.Name(), "mission", rec.ID, "asset", asset.ID)
		} else {
			if name, ok := asset.Field("displayName").(string); ok {
				row["asset_name"] = name
			}

			// Second level of indirection: the asset's own faction field.
			owner := reg.ResolveRef(registry.KindFaction, asset.Field("faction"))
			if owner.Missing() {
				ds.Unresolved++
			} else if name, ok := owner.Field("displayName").(string); ok {
				row["asset_owner"] = name
			}

			supply, _ := fieldNumber(asset.Record.Fields, "logisticsSupply", "supply")
			demand, _ := fieldNumber(asset.Record.Fields, "logisticsDemand", "demand")
			row["supply"] = supply
			row["demand"] = demand
			row["under_supplied"] = supply < demand
		}

		ds.Append(row)
	}

	return ds, nil
}

// refField returns the first present reference field among keys.
func refField(fields map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := fields[k]; ok {
			return v
		}
	}
	return nil
}
