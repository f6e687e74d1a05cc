package showroom

import (
	"context"
	"errors"
	"math/rand/v2"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/showroom/internal/config"
	"github.com/Faultbox/showroom/internal/engine/geometry"
	"github.com/Faultbox/showroom/internal/engine/mode"
	"github.com/Faultbox/showroom/internal/engine/model"
	"github.com/Faultbox/showroom/internal/engine/notice"
	"github.com/Faultbox/showroom/internal/engine/panel"
	"github.com/Faultbox/showroom/internal/engine/parts"
	"github.com/Faultbox/showroom/internal/engine/scenegraph"
	"github.com/Faultbox/showroom/pkg/math"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func stubAsset() *model.Asset {
	return &model.Asset{Root: &scenegraph.Prefab{
		Name:      "root",
		Transform: math.NewTransform(),
		Children: []*scenegraph.Prefab{{
			Name:      "body",
			Transform: math.NewTransform(),
			Mesh:      &scenegraph.Mesh{Shape: geometry.Sphere(10, 8, 6)},
		}},
	}}
}

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Audio.MusicPath = ""
	cfg.Audio.ApplausePath = ""
	cfg.Disco.Seed = 7
	return cfg
}

func newTestEngine(t *testing.T, cfg *config.Config, loader model.Loader) *Engine {
	t.Helper()
	e, err := New(Options{
		Config:  cfg,
		Loader:  loader,
		Notices: notice.NewBoard(notice.WithTTL(time.Hour)),
		Rand:    rand.New(rand.NewPCG(1, 2)),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = e.Close() })
	return e
}

// settle ticks until every model request has resolved.
func settle(t *testing.T, e *Engine, now time.Time) time.Time {
	t.Helper()
	require.Eventually(t, func() bool {
		now = now.Add(16 * time.Millisecond)
		e.Tick(now)
		return e.Registry().Pending() == 0
	}, 2*time.Second, 5*time.Millisecond)
	return now
}

func noticeTexts(b *notice.Board) []string {
	var out []string
	for _, n := range b.Active() {
		out = append(out, n.Text)
	}
	return out
}

func okLoader() model.Loader {
	return model.LoaderFunc(func(context.Context, string) (*model.Asset, error) {
		return stubAsset(), nil
	})
}

func TestStartLoadsModels(t *testing.T) {
	e := newTestEngine(t, testConfig(), okLoader())
	rec := panel.NewRecorder()
	require.NoError(t, e.Start(rec))
	settle(t, e, time.Unix(0, 0))

	for _, name := range []string{"Yelling Knight", "Twerking Zombie", "Speakers"} {
		_, ok := e.Registry().Lookup(name)
		assert.True(t, ok, name)
	}

	texts := noticeTexts(e.Notices())
	assert.Contains(t, texts, "Building GUI...")
	assert.Contains(t, texts, "Loading model: 'Speakers'")
	assert.Contains(t, texts, "Successfully load model: 'Yelling Knight'")

	_, ok := rec.Control(mode.Disco.String())
	assert.True(t, ok, "mode controls built")
}

func TestFloorFollowingModels(t *testing.T) {
	e := newTestEngine(t, testConfig(), okLoader())
	require.NoError(t, e.Start(nil))
	now := settle(t, e, time.Unix(0, 0))

	zombie, ok := e.Registry().Lookup("Twerking Zombie")
	require.True(t, ok)
	knight, ok := e.Registry().Lookup("Yelling Knight")
	require.True(t, ok)
	assert.Equal(t, float32(-250+10), zombie.Transform.Position.Y)
	assert.Equal(t, float32(-100), knight.Transform.Position.Y)

	g := e.Params()
	g.LegHeight = 300
	e.SetParams(g)
	e.Tick(now.Add(time.Millisecond))
	assert.Equal(t, float32(-300+10), zombie.Transform.Position.Y)
	assert.Equal(t, float32(-100), knight.Transform.Position.Y, "fixed models stay put")
}

func TestSetParamsClamps(t *testing.T) {
	e := newTestEngine(t, testConfig(), okLoader())
	g := e.Params()
	g.LegCount = 100
	g.LegRadius = 1
	e.SetParams(g)

	assert.Equal(t, 30, e.Params().LegCount)
	assert.Equal(t, float32(5), e.Params().LegRadius)
	_, ok := e.Scene().PartNode(parts.LegID(29))
	assert.True(t, ok)
}

func TestSwitchModeTogglesRigs(t *testing.T) {
	e := newTestEngine(t, testConfig(), okLoader())
	require.NoError(t, e.Start(nil))
	settle(t, e, time.Unix(0, 0))

	assert.Equal(t, mode.Normal, e.Mode())
	assert.True(t, e.Scene().MainLightVisible())
	assert.False(t, e.Scene().DiscoRigVisible())

	require.True(t, e.SwitchMode(mode.Disco))
	assert.False(t, e.SwitchMode(mode.Disco), "already in disco")
	assert.False(t, e.Scene().MainLightVisible())
	assert.True(t, e.Scene().DiscoRigVisible())
	assert.True(t, e.Music().IsPlaying())
	assert.True(t, e.Applause().IsPlaying())
	assert.Contains(t, noticeTexts(e.Notices()), "It's time for a Disco Party !")

	require.True(t, e.SwitchMode(mode.Normal))
	assert.False(t, e.Music().IsPlaying())
	assert.True(t, e.Scene().MainLightVisible())
}

func TestStartModeFromConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Disco.StartMode = "disco"
	e := newTestEngine(t, cfg, okLoader())
	require.NoError(t, e.Start(nil))
	settle(t, e, time.Unix(0, 0))
	assert.Equal(t, mode.Disco, e.Mode())
}

func TestBadStartMode(t *testing.T) {
	cfg := testConfig()
	cfg.Disco.StartMode = "rave"
	e := newTestEngine(t, cfg, okLoader())
	assert.Error(t, e.Start(nil))
	settle(t, e, time.Unix(0, 0))
}

func TestBadPalette(t *testing.T) {
	cfg := testConfig()
	cfg.Disco.Palette = []string{"not-a-colour"}
	_, err := New(Options{Config: cfg, Loader: okLoader()})
	assert.Error(t, err)
}

func TestFailedModelLoadKeepsRunning(t *testing.T) {
	loader := model.LoaderFunc(func(_ context.Context, path string) (*model.Asset, error) {
		if path == "assets/models/speakers.rsm" {
			return nil, errors.New("corrupt")
		}
		return stubAsset(), nil
	})
	e := newTestEngine(t, testConfig(), loader)
	require.NoError(t, e.Start(nil))
	settle(t, e, time.Unix(0, 0))

	_, ok := e.Registry().Lookup("Speakers")
	assert.False(t, ok)
	_, ok = e.Registry().Lookup("Yelling Knight")
	assert.True(t, ok)
}

func TestDiscoBeatsOnlyWhileRunning(t *testing.T) {
	cfg := testConfig()
	cfg.Disco.StartMode = "disco"
	e := newTestEngine(t, cfg, okLoader())
	require.NoError(t, e.Start(nil))
	now := settle(t, e, time.Unix(0, 0))

	ball, ok := e.Scene().PartNode(parts.ID{Kind: parts.DiscoBall})
	require.True(t, ok)
	before := ball.Transform.Rotation
	e.Tick(now.Add(16 * time.Millisecond))
	assert.NotEqual(t, before, ball.Transform.Rotation, "ball spins in disco")

	g := e.Params()
	g.AnimationPaused = true
	e.SetParams(g)
	paused := ball.Transform.Rotation
	e.Tick(now.Add(32 * time.Millisecond))
	assert.Equal(t, paused, ball.Transform.Rotation, "paused ball holds still")
}

func TestSaveSettingsFromPanel(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("config dir comes from XDG_CONFIG_HOME on linux only")
	}
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	e := newTestEngine(t, testConfig(), okLoader())
	rec := panel.NewRecorder()
	require.NoError(t, e.Start(rec))

	require.NoError(t, rec.Set("Legs Count", 7))
	require.NoError(t, rec.Set("Chair Texture", "Pink Leather"))
	require.NoError(t, rec.Click(mode.Disco.String()))
	require.NoError(t, rec.Click("Save Settings"))
	assert.Contains(t, noticeTexts(e.Notices()), "Settings saved")

	data, err := os.ReadFile(filepath.Join(dir, "showroom", "config.yaml"))
	require.NoError(t, err)
	var saved config.Config
	require.NoError(t, yaml.Unmarshal(data, &saved))
	assert.Equal(t, 7, saved.Chair.LegCount)
	assert.Equal(t, "Pink Leather", saved.Chair.ChairMaterial)
	assert.Equal(t, "disco", saved.Disco.StartMode)
	assert.Len(t, saved.Models, 3)
}

func TestSaveSettingsFailureIsReported(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("config dir comes from XDG_CONFIG_HOME on linux only")
	}
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))
	t.Setenv("XDG_CONFIG_HOME", blocker)

	e := newTestEngine(t, testConfig(), okLoader())
	require.NoError(t, e.Start(nil))
	assert.Error(t, e.SaveSettings())
	assert.Contains(t, noticeTexts(e.Notices()), "Could not save settings")
}

func TestTrackName(t *testing.T) {
	assert.Equal(t, "music", trackName("sounds/music.mp3"))
	assert.Equal(t, "", trackName(""))
}
