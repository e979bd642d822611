package assembly

import (
	"io"
	"log/slog"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"hexhub/config"
	"hexhub/dims"
	"hexhub/hex"
	"hexhub/hub"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func derived(t *testing.T) dims.Derived {
	t.Helper()
	d, err := dims.Derive(dims.Default())
	require.NoError(t, err)
	return d
}

// pairVariant is the smallest mating honeycomb: one column, top and bottom.
// The bottom hub faces its only neighbor north, the top one south.
func pairVariant() config.Variant {
	return config.Variant{
		Name: "Pair",
		Kind: config.KindHoneycomb,
		Slots: []config.Slot{
			{ID: "top", Col: 0, Row: 0},
			{ID: "bot", Col: 0, Row: 1},
		},
	}
}

func TestRunDefaultConfig(t *testing.T) {
	res, err := Run(config.Default(), discard())
	require.NoError(t, err)
	assert.Empty(t, res.Failed)

	var names []string
	for _, p := range res.Parts {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{
		"TypeA_Hub_Body", "TypeA_Modifier",
		"TypeB_Hub_Body", "TypeB_Modifier",
		"Single_Hub_Body", "Single_Modifier",
		"Lids_Lid_Horizontal", "Lids_Lid_Sloped",
		"Kit_Tile_Floor", "Kit_Tile_Tray",
		"Kit_Pogo_Adapter", "Kit_Board_Spacer",
	}, names, "part order and naming are part of the output contract")

	assert.Equal(t, hub.BodyColor, res.Parts[0].Color)
	assert.Equal(t, hub.ModifierColor, res.Parts[1].Color)
}

func TestRunContinuesPastFailedVariant(t *testing.T) {
	cfg := config.Default()
	cfg.Variants = []config.Variant{
		{Name: "Broken", Kind: config.KindHoneycomb, Slots: []config.Slot{
			{ID: "x", Col: 0, Row: 0},
			{ID: "x", Col: 1, Row: 0},
		}},
		{Name: "Lids", Kind: config.KindLids},
	}
	res, err := Run(cfg, discard())
	require.NoError(t, err, "a failing variant must not abort the run")
	assert.Equal(t, []string{"Broken"}, res.Failed)
	require.Len(t, res.Parts, 2)
	assert.Equal(t, "Lids_Lid_Horizontal", res.Parts[0].Name)
}

func TestRunRejectsBadDimensions(t *testing.T) {
	cfg := config.Default()
	cfg.Dimensions.WallThickness = 50 // walls meet in the middle
	_, err := Run(cfg, discard())
	require.Error(t, err, "an unusable dimension set is a hard stop")
}

func TestBuildUnknownKind(t *testing.T) {
	_, err := Build(derived(t), config.Variant{Name: "X", Kind: "tray"}, discard())
	require.Error(t, err)
}

func TestTypeASlotFeatures(t *testing.T) {
	v := config.Variant{Name: "TypeA", Kind: config.KindHoneycomb, HubType: "A", Slots: config.DefaultGrid()}
	layout := hex.NewLayout(85.2, 1.0, v.Shift())
	slots := make([]hex.Slot, len(v.Slots))
	for i, s := range v.Slots {
		slots[i] = hex.Slot{ID: s.ID, Col: s.Col, Row: s.Row}
	}
	neighbors, err := layout.Neighbors(slots)
	require.NoError(t, err)

	byID := make(map[string]hub.Features, len(v.Slots))
	for _, s := range v.Slots {
		f, err := slotFeatures(s, featureTable(v.HubType), neighbors[s.ID], discard())
		require.NoError(t, err)
		byID[s.ID] = f
	}

	// The controller slot. Its only rail is the south female: the north
	// face has no neighbor, so the common north male is dropped.
	f2 := byID["slot2"]
	assert.True(t, f2.ControllerMounts)
	assert.Nil(t, f2.USB)
	assert.Equal(t, map[hex.Side]hub.ConnectorKind{hex.South: hub.Female}, f2.Connectors)
	assert.ElementsMatch(t, []hex.Side{hex.North, hex.NorthEast, hex.NorthWest}, f2.OpenSides)

	// The USB slot keeps its south female and the SW corner female.
	f3 := byID["slot3"]
	assert.False(t, f3.ControllerMounts)
	require.NotNil(t, f3.USB)
	assert.Equal(t, 0.0, f3.USB.Angle)
	assert.Equal(t, map[hex.Side]hub.ConnectorKind{
		hex.South:     hub.Female,
		hex.SouthWest: hub.Female,
	}, f3.Connectors)
	assert.ElementsMatch(t, []hex.Side{hex.North, hex.NorthEast, hex.SouthEast}, f3.OpenSides)

	// The middle hub touches five neighbors and carries the male rails of
	// both diagonal pairs; only its south face stays open.
	f5 := byID["slot5"]
	assert.Equal(t, map[hex.Side]hub.ConnectorKind{
		hex.North:     hub.Male,
		hex.NorthEast: hub.Male,
		hex.NorthWest: hub.Male,
	}, f5.Connectors)
	assert.Equal(t, []hex.Side{hex.South}, f5.OpenSides)

	// Every slot carries the standard kit.
	for id, f := range byID {
		assert.True(t, f.FloorHoles, id)
		assert.True(t, f.MagnetPillars, id)
		assert.True(t, f.PogoPillars, id)
		assert.True(t, f.Modifier, id)
	}
}

func TestTypeBSlotFeatures(t *testing.T) {
	v := config.Variant{Name: "TypeB", Kind: config.KindHoneycomb, HubType: "B", Slots: config.DefaultGrid()}
	require.Equal(t, hex.ShiftDown, v.Shift())

	layout := hex.NewLayout(85.2, 1.0, v.Shift())
	slots := make([]hex.Slot, len(v.Slots))
	for i, s := range v.Slots {
		slots[i] = hex.Slot{ID: s.ID, Col: s.Col, Row: s.Row}
	}
	neighbors, err := layout.Neighbors(slots)
	require.NoError(t, err)

	// In type B the middle column sits low, so slot2 is the five-neighbor
	// middle hub and carries both corner females of the diagonal pairs.
	f2, err := slotFeatures(v.Slots[1], featureTable("B"), neighbors["slot2"], discard())
	require.NoError(t, err)
	assert.Equal(t, map[hex.Side]hub.ConnectorKind{
		hex.South:     hub.Female,
		hex.SouthEast: hub.Female,
		hex.SouthWest: hub.Female,
	}, f2.Connectors)
	assert.Equal(t, []hex.Side{hex.North}, f2.OpenSides)

	// The controller moved to slot5, the USB stayed on slot3.
	f5, err := slotFeatures(v.Slots[4], featureTable("B"), neighbors["slot5"], discard())
	require.NoError(t, err)
	assert.True(t, f5.ControllerMounts)
	f3, err := slotFeatures(v.Slots[2], featureTable("B"), neighbors["slot3"], discard())
	require.NoError(t, err)
	require.NotNil(t, f3.USB)
}

func TestUSBMagnetCollisionPolicy(t *testing.T) {
	f, err := hubFeatures(&config.Features{
		USB: &config.USB{Enabled: true, Angle: 60},
		Magnets: []config.Magnet{
			{Side: "SE", Positions: []string{"left", "right"}},
			{Side: "SW", Positions: []string{"left"}},
		},
	}, discard())
	require.NoError(t, err)

	// Angle 60 claims the south-east wall: its pockets are silently
	// dropped, the south-west ones survive.
	assert.NotContains(t, f.Magnets, hex.SouthEast)
	assert.Equal(t, []hub.MagnetPos{hub.MagnetLeft}, f.Magnets[hex.SouthWest])
	require.NotNil(t, f.USB)
}

func TestChannelsAvoidRailsAndUSB(t *testing.T) {
	f, err := hubFeatures(&config.Features{
		USB:        &config.USB{Enabled: true, Angle: 0},
		OpenSides:  []string{"N", "S", "SE"},
		Connectors: []config.Connector{{Side: "N", Kind: "male"}},
	}, discard())
	require.NoError(t, err)

	// North holds a rail and south the USB opening; only SE gets its
	// channel.
	assert.Equal(t, []hex.Side{hex.SouthEast}, f.OpenSides)
}

func TestHoneycombPairMates(t *testing.T) {
	parts, err := Build(derived(t), pairVariant(), discard())
	require.NoError(t, err)
	require.Len(t, parts, 2)
	assert.Equal(t, "Pair_Hub_Body", parts[0].Name)
	assert.Equal(t, "Pair_Modifier", parts[1].Name)
	body := parts[0].Body

	probe := func(x, y, z float64) float64 {
		return body.Evaluate(r3.Vec{X: x, Y: y, Z: z})
	}

	// The bottom hub's north pin crosses the rim gap and fills the top
	// hub's south slideway: the fused body is solid inside the top hub's
	// wall where a lone female cutout would be open.
	assert.Negative(t, probe(0, -41.4, 3), "male pin must seat in the female slideway")
	// The housing flank beside the slideway is wall material.
	assert.Negative(t, probe(3.3, -41.4, 3))

	// Occupied faces keep their walls closed: no channel at the top hub's
	// south channel spot nor at the bottom hub's north one.
	assert.Negative(t, probe(-14.21, -41.4, 3.5))
	assert.Negative(t, probe(14.21, -86.2+41.4, 3.5))

	// The bottom hub's south face is open: its channel is cut.
	assert.Positive(t, probe(-14.21, -86.2-41.4, 3.5), "open face must carry a cable channel")
	// And no connector housing grows into its cavity there.
	assert.Positive(t, probe(3.3, -86.2-38.6, 3))
}

func TestHoneycombMirrorSymmetry(t *testing.T) {
	d := derived(t)
	a, err := Build(d, config.Variant{Name: "A", Kind: config.KindHoneycomb, HubType: "A", Slots: config.DefaultGrid()}, discard())
	require.NoError(t, err)
	b, err := Build(d, config.Variant{Name: "B", Kind: config.KindHoneycomb, HubType: "B", Slots: config.DefaultGrid()}, discard())
	require.NoError(t, err)

	ba, bb := a[0].Body.Bounds(), b[0].Body.Bounds()

	// Identical column spacing and heights.
	assert.InDelta(t, ba.Min.X, bb.Min.X, 1e-9)
	assert.InDelta(t, ba.Max.X, bb.Max.X, 1e-9)
	assert.InDelta(t, ba.Min.Z, bb.Min.Z, 1e-9)
	assert.InDelta(t, ba.Max.Z, bb.Max.Z, 1e-9)

	// Mirror symmetry about the X axis up to a whole-grid translation:
	// reflecting A's span and shifting it must land exactly on B's.
	shiftLow := bb.Min.Y + ba.Max.Y
	shiftHigh := bb.Max.Y + ba.Min.Y
	assert.InDelta(t, shiftLow, shiftHigh, 1e-9, "B must be a translated mirror of A")
	assert.Greater(t, math.Abs(ba.Min.Y-bb.Min.Y), 1.0, "A and B must not be identical")
}

func TestSingleSlotHoneycombNeedsNoFuse(t *testing.T) {
	v := config.Variant{
		Name:  "Solo",
		Kind:  config.KindHoneycomb,
		Slots: []config.Slot{{ID: "only", Col: 0, Row: 0}},
	}
	parts, err := Build(derived(t), v, discard())
	require.NoError(t, err)
	require.Len(t, parts, 2)

	// No neighbors anywhere: no rails, channels all around.
	f, err := slotFeatures(v.Slots[0], nil, nil, discard())
	require.NoError(t, err)
	assert.Empty(t, f.Connectors)
	assert.Len(t, f.OpenSides, 6)
}

func TestSlotFeatureOverride(t *testing.T) {
	// An explicit per-slot feature block replaces the table entry: slot2
	// loses the type A controller mounts and brings its own magnets.
	s := config.Slot{ID: "slot2", Col: 1, Row: 0, Features: &config.Features{
		Magnets: []config.Magnet{{Side: "NW", Positions: []string{"right"}}},
	}}
	f, err := slotFeatures(s, featureTable("A"), []hex.Side{hex.South}, discard())
	require.NoError(t, err)
	assert.False(t, f.ControllerMounts)
	assert.Equal(t, []hub.MagnetPos{hub.MagnetRight}, f.Magnets[hex.NorthWest])
	assert.Equal(t, map[hex.Side]hub.ConnectorKind{hex.South: hub.Female}, f.Connectors,
		"common rails survive an override that lists no connectors")
}

func TestHubFeatureParsing(t *testing.T) {
	_, err := hubFeatures(&config.Features{OpenSides: []string{"NNW"}}, discard())
	require.Error(t, err)
	_, err = hubFeatures(&config.Features{Connectors: []config.Connector{{Side: "N", Kind: "both"}}}, discard())
	require.Error(t, err)
	_, err = hubFeatures(&config.Features{Magnets: []config.Magnet{{Side: "SE", Positions: []string{"mid"}}}}, discard())
	require.Error(t, err)

	f, err := hubFeatures(nil, discard())
	require.NoError(t, err)
	assert.Equal(t, hub.StandardKit(), f)
}
