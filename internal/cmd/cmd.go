package cmd

import (
	"github.com/spf13/cobra"

	"github.com/bash0C7/goflying-mpu6886/internal/config"
	"github.com/bash0C7/goflying-mpu6886/sensors/mpu6886"
)

var RootCmd = &cobra.Command{
	Use:   "mpu6886",
	Short: "read an MPU6886 6-axis IMU over I2C",
	Long:  "read an MPU6886 6-axis IMU (accelerometer, gyroscope, thermometer) over I2C",
}

// SensorFlags adds the flags every command that opens the sensor understands.
func SensorFlags(cmd *cobra.Command) {
	cmd.Flags().String("config", "", "configuration file path")
	cmd.Flags().String("driver", config.DefaultBusDriver, "i2c driver: embd, periph or d2r2")
	cmd.Flags().Int("bus", config.DefaultBusNumber, "i2c bus number")
	cmd.Flags().Int("accel-range", config.DefaultAccelRange, "accelerometer full scale in G: 2, 4, 8 or 16")
	cmd.Flags().Int("gyro-range", config.DefaultGyroRange, "gyroscope full scale in °/s: 250, 500, 1000 or 2000")
	cmd.Flags().Float64("threshold", mpu6886.DefaultMotionThreshold, "motion threshold in G")
	cmd.Flags().Bool("debug", false, "toggle debug logging")
}

// PollFlags adds the flags of the commands that sample continuously.
func PollFlags(cmd *cobra.Command) {
	SensorFlags(cmd)
	cmd.Flags().Duration("interval", config.DefaultInterval, "sampling interval")
}

var ReadCmd = &cobra.Command{
	Use:   "read",
	Short: "read takes a single sample and prints it",
	Long: `read initializes the sensor, takes one sample and prints acceleration,
rotation rate, temperature and the derived tilt, magnitude and motion flag.`,
	Example: `  mpu6886 read --accel-range 4 --driver periph`,
	RunE:    ReadCmdRunE,
}

var StreamCmd = &cobra.Command{
	Use:     "stream",
	Short:   "stream prints samples to stdout as CSV",
	Example: `  mpu6886 stream --interval 10ms`,
	RunE:    StreamCmdRunE,
}

var LogCmd = &cobra.Command{
	Use:     "log",
	Short:   "log writes samples to a CSV file",
	Example: `  mpu6886 log -o /tmp/imu.csv`,
	RunE:    LogCmdRunE,
}

var ServeCmd = &cobra.Command{
	Use: "serve",
	SuggestFor: []string{
		"ser", "web",
	},
	Short: "serve streams samples to browsers over websocket",
	Long: `serve starts a web server whose /imu endpoint upgrades to a websocket
and receives every sample as JSON. Configuration is taken, in order, from
1. command line flags
2. MPU6886_* environment variables
3. the file given by --config or MPU6886_CONFIG
4. $HOME/.config/mpu6886/config.yaml, /etc/mpu6886/config.yaml, ./config.yaml
`,
	Example: `  mpu6886 serve --port 8000`,
	RunE:    ServeCmdRunE,
}

func InitCmdFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("print", false, "print config to stdout")
	cmd.Flags().BoolP("yes", "y", false, "overwrite")
	cmd.Flags().StringP("output", "o", config.DefaultConfig, "output path")
}

var InitCmd = &cobra.Command{
	Use: "init",
	SuggestFor: []string{
		"ini", "in",
	},
	Short: "init creates a configuration template",
	Example: `  mpu6886 init --print
  mpu6886 init -o /etc/mpu6886/config.yaml -y`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		printFlag, _ := cmd.Flags().GetBool("print")
		outputPath, _ := cmd.Flags().GetString("output")
		overwriteFlag, _ := cmd.Flags().GetBool("yes")
		return config.Dump(config.NewOpt(), outputPath, printFlag, overwriteFlag)
	},
}

func getRootCmd() *cobra.Command {
	SensorFlags(ReadCmd)
	RootCmd.AddCommand(ReadCmd)

	PollFlags(StreamCmd)
	RootCmd.AddCommand(StreamCmd)

	PollFlags(LogCmd)
	LogCmd.Flags().StringP("output", "o", "", "CSV output path")
	RootCmd.AddCommand(LogCmd)

	PollFlags(ServeCmd)
	ServeCmd.Flags().StringP("interface", "i", config.DefaultWebInterface, "interface to listen on")
	ServeCmd.Flags().IntP("port", "p", config.DefaultWebPort, "port to listen on")
	RootCmd.AddCommand(ServeCmd)

	InitCmdFlags(InitCmd)
	RootCmd.AddCommand(InitCmd)

	return RootCmd
}

func Execute() error {
	return getRootCmd().Execute()
}
