package infra

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	logic "github.com/skovsen/D2D_InterceptLogic"
)

// EnvPrefix scopes environment overrides: INTERCEPTSIM_WORLD_KILL_RADIUS=75
const EnvPrefix = "INTERCEPTSIM"

// Config is the root of the simulator configuration
type Config struct {
	Simulation  SimulationConfig  `mapstructure:"simulation"`
	World       WorldConfig       `mapstructure:"world"`
	Sensor      SensorConfig      `mapstructure:"sensor"`
	Interceptor InterceptorConfig `mapstructure:"interceptor"`
	Threat      ThreatConfig      `mapstructure:"threat"`
	Reward      RewardConfig      `mapstructure:"reward"`
	Logger      LoggerConfig      `mapstructure:"logger"`
	Metrics     MetricsConfig     `mapstructure:"metrics"`
	View        ViewConfig        `mapstructure:"view"`
	Output      OutputConfig      `mapstructure:"output"`
}

// SimulationConfig drives the episode loop
type SimulationConfig struct {
	Threats           int     `mapstructure:"threats"`
	Seed              int64   `mapstructure:"seed"`
	MaxTime           float64 `mapstructure:"max_time"`
	Redundant         bool    `mapstructure:"redundant"`
	TargetProbability float64 `mapstructure:"target_probability"`
	// Realtime plays ticks at wall clock speed times Speedup
	Realtime bool    `mapstructure:"realtime"`
	Speedup  float64 `mapstructure:"speedup"`
}

type WorldConfig struct {
	Width        float64 `mapstructure:"width"`
	Height       float64 `mapstructure:"height"`
	TimeStep     float64 `mapstructure:"time_step"`
	AssetX       float64 `mapstructure:"asset_x"`
	AssetY       float64 `mapstructure:"asset_y"`
	BreachRadius float64 `mapstructure:"breach_radius"`
	KillRadius   float64 `mapstructure:"kill_radius"`
	// ZonePath is an optional GeoJSON polygon; its centroid replaces asset_x/asset_y
	ZonePath string `mapstructure:"zone_path"`
}

type SensorConfig struct {
	DetectionRadius float64 `mapstructure:"detection_radius"`
}

type InterceptorConfig struct {
	Count        int     `mapstructure:"count"`
	MaxSpeed     float64 `mapstructure:"max_speed"`
	FuelCapacity float64 `mapstructure:"fuel_capacity"`
	FuelBurnRate float64 `mapstructure:"fuel_burn_rate"`
	PayloadType  string  `mapstructure:"payload_type"`
}

type ThreatConfig struct {
	Speed       float64 `mapstructure:"speed"`
	SpawnMargin float64 `mapstructure:"spawn_margin"`
}

type RewardConfig struct {
	Hit              float64 `mapstructure:"hit"`
	Breach           float64 `mapstructure:"breach"`
	Time             float64 `mapstructure:"time"`
	ExtraInterceptor float64 `mapstructure:"extra_interceptor"`
	Collision        float64 `mapstructure:"collision"`
	PerfectDefense   float64 `mapstructure:"perfect_defense"`
}

// LoggerConfig configures the zap logger
type LoggerConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json, console
}

type MetricsConfig struct {
	// Addr of the /metrics listener, empty disables it
	Addr string `mapstructure:"addr"`
}

type ViewConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

type OutputConfig struct {
	// TracksPath receives the GeoJSON tracks, empty disables export
	TracksPath  string `mapstructure:"tracks_path"`
	SampleEvery int    `mapstructure:"sample_every"`
}

// LoadConfig merges defaults, the config file, the environment and the
// command line flags, in increasing priority.
func LoadConfig(flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	v.SetConfigName("interceptsim")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if flags != nil {
		if err := bindFlags(v, flags); err != nil {
			return nil, err
		}
		if path, _ := flags.GetString("config"); path != "" {
			v.SetConfigFile(path)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// no file: defaults, env and flags only
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	def := logic.DefaultScenario()

	v.SetDefault("simulation.threats", 1)
	v.SetDefault("simulation.seed", 0)
	v.SetDefault("simulation.max_time", logic.DefaultMaxTime)
	v.SetDefault("simulation.redundant", false)
	v.SetDefault("simulation.target_probability", logic.DefaultTargetProbability)
	v.SetDefault("simulation.realtime", false)
	v.SetDefault("simulation.speedup", 1.0)

	v.SetDefault("world.width", def.World.Width)
	v.SetDefault("world.height", def.World.Height)
	v.SetDefault("world.time_step", def.World.Dt)
	v.SetDefault("world.asset_x", def.World.Asset.X)
	v.SetDefault("world.asset_y", def.World.Asset.Y)
	v.SetDefault("world.breach_radius", def.World.BreachRadius)
	v.SetDefault("world.kill_radius", def.World.KillRadius)

	v.SetDefault("sensor.detection_radius", def.DetectionRadius)

	v.SetDefault("interceptor.count", def.Interceptors)
	v.SetDefault("interceptor.max_speed", def.Interceptor.MaxSpeed)
	v.SetDefault("interceptor.fuel_capacity", def.Interceptor.FuelCapacity)
	v.SetDefault("interceptor.fuel_burn_rate", def.Interceptor.FuelBurnRate)
	v.SetDefault("interceptor.payload_type", def.Interceptor.PayloadType)

	v.SetDefault("threat.speed", def.TargetSpeed)
	v.SetDefault("threat.spawn_margin", def.SpawnMargin)

	v.SetDefault("reward.hit", def.Rewards.Hit)
	v.SetDefault("reward.breach", def.Rewards.Breach)
	v.SetDefault("reward.time", def.Rewards.Time)
	v.SetDefault("reward.extra_interceptor", def.Rewards.ExtraInterceptor)
	v.SetDefault("reward.collision", def.Rewards.Collision)
	v.SetDefault("reward.perfect_defense", def.Rewards.PerfectDefense)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("output.sample_every", 10)
}

// flagKeys maps command line flags onto config keys
var flagKeys = map[string]string{
	"threats":            "simulation.threats",
	"seed":               "simulation.seed",
	"max-time":           "simulation.max_time",
	"redundant":          "simulation.redundant",
	"target-probability": "simulation.target_probability",
	"realtime":           "simulation.realtime",
	"speedup":            "simulation.speedup",
	"zone":               "world.zone_path",
	"log-level":          "logger.level",
	"log-format":         "logger.format",
	"metrics-addr":       "metrics.addr",
	"view":               "view.enabled",
	"tracks":             "output.tracks_path",
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := flags.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind flag %s: %w", name, err)
		}
	}
	return nil
}

// Scenario maps the configuration onto the engine's parameter set. A zone
// file, when configured, moves the protected point onto its centroid.
func (c *Config) Scenario() (logic.Scenario, error) {
	sc := logic.Scenario{
		World: logic.WorldParams{
			Width:        c.World.Width,
			Height:       c.World.Height,
			Dt:           c.World.TimeStep,
			Asset:        logic.Vector{X: c.World.AssetX, Y: c.World.AssetY},
			BreachRadius: c.World.BreachRadius,
			KillRadius:   c.World.KillRadius,
		},
		DetectionRadius: c.Sensor.DetectionRadius,
		Interceptors:    c.Interceptor.Count,
		Interceptor: logic.InterceptorSpec{
			MaxSpeed:     c.Interceptor.MaxSpeed,
			FuelCapacity: c.Interceptor.FuelCapacity,
			FuelBurnRate: c.Interceptor.FuelBurnRate,
			PayloadType:  c.Interceptor.PayloadType,
		},
		TargetSpeed: c.Threat.Speed,
		SpawnMargin: c.Threat.SpawnMargin,
		Rewards: logic.RewardWeights{
			Hit:              c.Reward.Hit,
			Breach:           c.Reward.Breach,
			Time:             c.Reward.Time,
			ExtraInterceptor: c.Reward.ExtraInterceptor,
			Collision:        c.Reward.Collision,
			PerfectDefense:   c.Reward.PerfectDefense,
		},
	}

	if c.World.ZonePath != "" {
		m := logic.Mission{Description: c.World.ZonePath}
		if err := m.LoadFeatures(c.World.ZonePath); err != nil {
			return sc, err
		}
		if err := m.Apply(&sc); err != nil {
			return sc, err
		}
	}

	if err := sc.Validate(); err != nil {
		return sc, err
	}
	return sc, nil
}

// Mission returns the defended zone: the configured GeoJSON polygon, or a
// circle of breach radius around the asset.
func (c *Config) Mission() (*logic.Mission, error) {
	if c.World.ZonePath != "" {
		m := &logic.Mission{Description: c.World.ZonePath}
		if err := m.LoadFeatures(c.World.ZonePath); err != nil {
			return nil, err
		}
		return m, nil
	}
	asset := logic.Vector{X: c.World.AssetX, Y: c.World.AssetY}
	return &logic.Mission{
		Description: "breach radius",
		Zone:        logic.CircularZone(asset, c.World.BreachRadius, 64),
	}, nil
}
