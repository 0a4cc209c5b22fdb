package extract

import (
	"github.com/MartinUnity/games-terra-invicta/internal/dataset"
	"github.com/MartinUnity/games-terra-invicta/internal/registry"
)

// Research extracts per-faction technology progress: the project each
// faction is researching, its progress and the faction's research rate.
type Research struct{}

func (Research) Name() string { return "research" }

func (Research) Columns() []string {
	return []string{
		"faction_id",
		"faction_name",
		"current_project",
		"project_progress",
		"accumulated_research",
		"monthly_research",
	}
}

func (x Research) Extract(reg *registry.Registry, cfg Config) (*dataset.Dataset, error) {
	ds := dataset.New(x.Name(), x.Columns())

	for i, rec := range reg.Kind(registry.KindFaction) {
		if rec.Fields == nil {
			return nil, errMalformed(registry.KindFaction, i)
		}

		name, _ := fieldString(rec.Fields, "displayName")

		row := dataset.Row{
			"faction_id":   rec.ID,
			"faction_name": name,
		}

		if project, ok := fieldString(rec.Fields, "currentProjectName", "currentResearch"); ok {
			row["current_project"] = project
		}
		if progress, ok := fieldNumber(rec.Fields, "projectProgress", "researchProgress"); ok {
			row["project_progress"] = round(progress, 3)
		}
		if accumulated, ok := fieldNumber(rec.Fields, "accumulatedResearch"); ok {
			row["accumulated_research"] = round(accumulated, 1)
		}
		if monthly, ok := fieldNumber(rec.Fields, "researchIncome", "monthlyResearch"); ok {
			row["monthly_research"] = round(monthly, 1)
		}

		ds.Append(row)
	}

	return ds, nil
}
