package config

import (
	"fmt"
	"os"
	"path"
	"strings"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/bash0C7/goflying-mpu6886/mpu6886web"
	"github.com/bash0C7/goflying-mpu6886/sensors/bus"
	"github.com/bash0C7/goflying-mpu6886/sensors/mpu6886"
)

const DefaultAppName = "mpu6886"
const DefaultConfigName = "config"
const DefaultBusDriver = bus.DriverEmbd
const DefaultBusNumber = 1
const DefaultAccelRange = 2
const DefaultGyroRange = 250
const DefaultInterval = 100 * time.Millisecond
const DefaultWebInterface = "0.0.0.0"
const DefaultWebPort = mpu6886web.Port

var userHomeDir, _ = os.UserHomeDir()
var DefaultConfig = path.Join(userHomeDir, ".config", DefaultAppName, DefaultConfigName+".yaml")
var DefaultConfigSearchPath0 = path.Join(userHomeDir, ".config", DefaultAppName)

const DefaultConfigSearchPath1 = "/etc/" + DefaultAppName
const DefaultConfigSearchPath2 = "./"

type BusOpt struct {
	Driver string `yaml:"driver" mapstructure:"driver"`
	Number int    `yaml:"number" mapstructure:"number"`
	Name   string `yaml:"name" mapstructure:"name"`
}

type SensorOpt struct {
	AccelRange      int     `yaml:"accel_range" mapstructure:"accel_range"`
	GyroRange       int     `yaml:"gyro_range" mapstructure:"gyro_range"`
	MotionThreshold float64 `yaml:"motion_threshold" mapstructure:"motion_threshold"`
}

type StreamOpt struct {
	Interval time.Duration `yaml:"interval" mapstructure:"interval"`
}

type WebOpt struct {
	Interface string `yaml:"interface" mapstructure:"interface"`
	Port      int    `yaml:"port" mapstructure:"port"`
}

type LogOpt struct {
	File string `yaml:"file" mapstructure:"file"`
}

type Opt struct {
	Bus    BusOpt    `yaml:"bus" mapstructure:"bus"`
	Sensor SensorOpt `yaml:"sensor" mapstructure:"sensor"`
	Stream StreamOpt `yaml:"stream" mapstructure:"stream"`
	Web    WebOpt    `yaml:"web" mapstructure:"web"`
	Log    LogOpt    `yaml:"log" mapstructure:"log"`
	Debug  bool      `yaml:"debug" mapstructure:"debug"`
}

func NewOpt() Opt {
	return Opt{
		Bus: BusOpt{
			Driver: DefaultBusDriver,
			Number: DefaultBusNumber,
		},
		Sensor: SensorOpt{
			AccelRange:      DefaultAccelRange,
			GyroRange:       DefaultGyroRange,
			MotionThreshold: mpu6886.DefaultMotionThreshold,
		},
		Stream: StreamOpt{
			Interval: DefaultInterval,
		},
		Web: WebOpt{
			Interface: DefaultWebInterface,
			Port:      DefaultWebPort,
		},
		Debug: false,
	}
}

// Parse layers defaults, the config file, MPU6886_* environment variables and
// command line flags, in increasing order of precedence.
func Parse(cmd *cobra.Command) (Opt, error) {
	o := NewOpt()
	vipCfg := viper.New()
	vipCfg.SetDefault("bus.driver", o.Bus.Driver)
	vipCfg.SetDefault("bus.number", o.Bus.Number)
	vipCfg.SetDefault("bus.name", o.Bus.Name)
	vipCfg.SetDefault("sensor.accel_range", o.Sensor.AccelRange)
	vipCfg.SetDefault("sensor.gyro_range", o.Sensor.GyroRange)
	vipCfg.SetDefault("sensor.motion_threshold", o.Sensor.MotionThreshold)
	vipCfg.SetDefault("stream.interval", o.Stream.Interval)
	vipCfg.SetDefault("web.interface", o.Web.Interface)
	vipCfg.SetDefault("web.port", o.Web.Port)
	vipCfg.SetDefault("log.file", o.Log.File)
	vipCfg.SetDefault("debug", o.Debug)

	if configFileCmd, err := cmd.Flags().GetString("config"); err == nil && configFileCmd != "" {
		vipCfg.SetConfigFile(configFileCmd)
	} else if configFileEnv := os.Getenv("MPU6886_CONFIG"); configFileEnv != "" {
		vipCfg.SetConfigFile(configFileEnv)
	} else {
		vipCfg.SetConfigName(DefaultConfigName)
		vipCfg.SetConfigType("yaml")
		vipCfg.AddConfigPath(DefaultConfigSearchPath0)
		vipCfg.AddConfigPath(DefaultConfigSearchPath1)
		vipCfg.AddConfigPath(DefaultConfigSearchPath2)
	}

	vipCfg.SetEnvPrefix(DefaultAppName)
	vipCfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	vipCfg.AutomaticEnv()

	for key, flag := range map[string]string{
		"bus.driver":              "driver",
		"bus.number":              "bus",
		"sensor.accel_range":      "accel-range",
		"sensor.gyro_range":       "gyro-range",
		"sensor.motion_threshold": "threshold",
		"stream.interval":         "interval",
		"web.interface":           "interface",
		"web.port":                "port",
		"log.file":                "output",
		"debug":                   "debug",
	} {
		if f := cmd.Flags().Lookup(flag); f != nil {
			_ = vipCfg.BindPFlag(key, f)
		}
	}

	if err := vipCfg.ReadInConfig(); err == nil {
		log.Debugln("using config file:", vipCfg.ConfigFileUsed())
	} else if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
		return o, errors.Wrap(err, "reading config")
	}

	if err := vipCfg.Unmarshal(&o); err != nil {
		return o, errors.Wrap(err, "failed to unmarshal config")
	}
	if err := o.Validate(); err != nil {
		return o, err
	}
	o.PostParse()
	return o, nil
}

// Validate checks the values the sensor and bus layers cannot default.
func (o *Opt) Validate() error {
	if _, err := mpu6886.AccelRangeFromG(o.Sensor.AccelRange); err != nil {
		return err
	}
	if _, err := mpu6886.GyroRangeFromDPS(o.Sensor.GyroRange); err != nil {
		return err
	}
	switch o.Bus.Driver {
	case bus.DriverEmbd, bus.DriverPeriph, bus.DriverD2r2:
	default:
		return errors.Errorf("unknown bus driver %q", o.Bus.Driver)
	}
	if o.Stream.Interval <= 0 {
		return errors.Errorf("stream interval must be positive, got %s", o.Stream.Interval)
	}
	return nil
}

func (o *Opt) PostParse() {
	if o.Debug {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.InfoLevel)
	}
}

// WebAddr is the listen address for the web streamer.
func (o *Opt) WebAddr() string {
	return fmt.Sprintf("%s:%d", o.Web.Interface, o.Web.Port)
}

// Dump writes the default configuration as YAML to outputPath, or to stdout when
// printOnly is set. An existing file is only replaced when overwrite is set.
func Dump(o Opt, outputPath string, printOnly, overwrite bool) error {
	buf, err := yaml.Marshal(o)
	if err != nil {
		return err
	}
	if printOnly {
		fmt.Println(string(buf))
		return nil
	}
	if _, err := os.Stat(outputPath); err == nil && !overwrite {
		return errors.Errorf("%s exists, use --yes to overwrite", outputPath)
	}
	if err := os.MkdirAll(path.Dir(outputPath), 0755); err != nil {
		return err
	}
	return os.WriteFile(outputPath, buf, 0644)
}
