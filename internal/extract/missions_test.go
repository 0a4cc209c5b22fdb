package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MartinUnity/games-terra-invicta/internal/registry"
)

func missionFixture() map[string][]any {
	return map[string][]any{
		registry.KindCouncilor: {
			entry(float64(10), map[string]any{"displayName": "Dr. Elena Weber"}),
		},
		registry.KindFaction: {
			entry(float64(20), map[string]any{"displayName": "The Resistance"}),
		},
		registry.KindHab: {
			entry(float64(30), map[string]any{
				"displayName":     "Aldrin Station",
				"faction":         ref(20),
				"logisticsSupply": float64(4),
				"logisticsDemand": float64(7),
			}),
		},
		registry.KindMission: {
			entry(float64(500), map[string]any{
				"missionTemplateName": "Advise",
				"phase":               "active",
				"councilor":           ref(10),
				"faction":             ref(20),
				"target":              ref(30),
			}),
			entry(float64(501), map[string]any{
				"missionTemplateName": "Sabotage Facility",
				"councilor":           ref(10),
				"faction":             ref(20),
				"target":              ref(99),
			}),
		},
	}
}

func TestMissions_ResolvesReferenceChain(t *testing.T) {
	ds, err := Missions{}.Extract(buildRegistry(missionFixture()), Config{})
	require.NoError(t, err)
	require.Len(t, ds.Rows, 2)

	row := ds.Rows[0]
	assert.Equal(t, "Advise", row["mission"])
	assert.Equal(t, "Dr. Elena Weber", row["councilor_name"])
	assert.Equal(t, "The Resistance", row["faction_name"])
	assert.Equal(t, "Aldrin Station", row["asset_name"])
	// Two levels of indirection: mission -> asset -> owning faction.
	assert.Equal(t, "The Resistance", row["asset_owner"])
	assert.Equal(t, 4.0, row["supply"])
	assert.Equal(t, 7.0, row["demand"])
	assert.Equal(t, true, row["under_supplied"])
}

func TestMissions_MissingAssetKeepsRow(t *testing.T) {
	ds, err := Missions{}.Extract(buildRegistry(missionFixture()), Config{})
	require.NoError(t, err)

	row := ds.Rows[1]
	assert.Equal(t, "Sabotage Facility", row["mission"])
	assert.Equal(t, "99", row["asset_id"], "original id kept as foreign key")
	assert.Nil(t, row["asset_name"])
	assert.Nil(t, row["asset_owner"])
	assert.Nil(t, row["supply"])
	assert.Nil(t, row["demand"])
	assert.Nil(t, row["under_supplied"])

	assert.Equal(t, 1, ds.Unresolved, "exactly one unresolved reference counted")
}

func TestMissions_WellSuppliedAsset(t *testing.T) {
	fixture := missionFixture()
	fixture[registry.KindHab] = []any{
		entry(float64(30), map[string]any{
			"displayName":     "Aldrin Station",
			"faction":         ref(20),
			"logisticsSupply": float64(9),
			"logisticsDemand": float64(7),
		}),
	}

	ds, err := Missions{}.Extract(buildRegistry(fixture), Config{})
	require.NoError(t, err)
	assert.Equal(t, false, ds.Rows[0]["under_supplied"])
}

func TestMissions_AllowListDoesNotApply(t *testing.T) {
	cfg := Config{TrackedEntities: []string{"Germany"}}

	ds, err := Missions{}.Extract(buildRegistry(missionFixture()), cfg)
	require.NoError(t, err)
	assert.Len(t, ds.Rows, 2, "logistics table is unaffected by the nation allow-list")
}

func TestMissions_MalformedRecordFailsTable(t *testing.T) {
	fixture := missionFixture()
	fixture[registry.KindMission] = append(fixture[registry.KindMission], float64(42))

	_, err := Missions{}.Extract(buildRegistry(fixture), Config{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mission record 2")
}
