package artifact

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeParams struct {
	Weights []float64 `json:"weights"`
	Bias    float64   `json:"bias"`
}

func testArtifact(t *testing.T, bias float64) *Artifact {
	t.Helper()
	a, err := New("forest", []string{"email_quality", "phone_validity"},
		time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		fakeParams{Weights: []float64{0.5, 0.5}, Bias: bias})
	require.NoError(t, err)
	return a
}

func TestVersionIsContentAddressed(t *testing.T) {
	a := testArtifact(t, 0.1)
	b := testArtifact(t, 0.1)
	assert.Equal(t, a.Version, b.Version)

	c := testArtifact(t, 0.2)
	assert.NotEqual(t, a.Version, c.Version)

	assert.True(t, len(a.Version) > len("forest-"))
	assert.Contains(t, a.Version, "forest-")
}

func TestVersionIgnoresTrainedAt(t *testing.T) {
	a, err := New("forest", []string{"f"}, time.Now(), fakeParams{})
	require.NoError(t, err)
	b, err := New("forest", []string{"f"}, time.Now().Add(time.Hour), fakeParams{})
	require.NoError(t, err)
	assert.Equal(t, a.Version, b.Version)
}

func TestDecodeParamsRoundTrip(t *testing.T) {
	a := testArtifact(t, 0.3)

	var decoded fakeParams
	require.NoError(t, a.DecodeParams(&decoded))
	assert.Equal(t, fakeParams{Weights: []float64{0.5, 0.5}, Bias: 0.3}, decoded)
}

func TestStoreSaveAndLoad(t *testing.T) {
	store, err := NewStore(t.TempDir(), zap.NewNop())
	require.NoError(t, err)

	a := testArtifact(t, 0.4)
	path, err := store.Save(a)
	require.NoError(t, err)
	assert.FileExists(t, path)
	assert.FileExists(t, store.LatestPath())

	latest, err := store.LoadLatest()
	require.NoError(t, err)
	assert.Equal(t, a.Version, latest.Version)
	assert.Equal(t, a.FeatureNames, latest.FeatureNames)

	byVersion, err := store.LoadVersion(a.Version)
	require.NoError(t, err)
	assert.Equal(t, a.Version, byVersion.Version)
}

func TestStoreKeepsOldVersions(t *testing.T) {
	store, err := NewStore(t.TempDir(), zap.NewNop())
	require.NoError(t, err)

	first := testArtifact(t, 0.1)
	_, err = store.Save(first)
	require.NoError(t, err)

	second := testArtifact(t, 0.9)
	_, err = store.Save(second)
	require.NoError(t, err)

	latest, err := store.LoadLatest()
	require.NoError(t, err)
	assert.Equal(t, second.Version, latest.Version)

	old, err := store.LoadVersion(first.Version)
	require.NoError(t, err)
	assert.Equal(t, first.Version, old.Version)

	versions, err := store.Versions()
	require.NoError(t, err)
	assert.Len(t, versions, 2)
	assert.Contains(t, versions, first.Version)
	assert.Contains(t, versions, second.Version)
}

func TestLoadLatestMissing(t *testing.T) {
	store, err := NewStore(t.TempDir(), zap.NewNop())
	require.NoError(t, err)

	_, err = store.LoadLatest()
	require.Error(t, err)
}

func TestSaveRejectsInvalid(t *testing.T) {
	store, err := NewStore(t.TempDir(), zap.NewNop())
	require.NoError(t, err)

	_, err = store.Save(&Artifact{Algorithm: "forest"})
	require.Error(t, err)
}
