package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/haskel/calburn/internal/config"
	"github.com/haskel/calburn/internal/logger"
)

var (
	// Global flags
	cfgFile  string
	envFile  string
	host     string
	port     int
	jsonOut  bool
	verbose  bool
	user     string
	password string

	// Version info (set from main)
	Version = "0.1.0"
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "calburn",
	Short: "Workout calorie burn predictor",
	Long: `Calburn estimates the calories burned in a workout from seven biometric
inputs (gender, age, height, weight, duration, heart rate, body temperature)
using a trained regression model, and compares the result with the athlete
benchmark for your BMI category.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadEnv,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before the config")
	rootCmd.PersistentFlags().StringVar(&host, "host", "localhost", "server host")
	rootCmd.PersistentFlags().IntVarP(&port, "port", "p", 8080, "server port")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&user, "user", "", "auth username (env CALBURN_USER)")
	rootCmd.PersistentFlags().StringVar(&password, "password", "", "auth password (env CALBURN_PASSWORD)")
}

// loadEnv populates the environment from the dotenv file so that ${VAR}
// references in the config and the credential fallbacks can see it.
func loadEnv(cmd *cobra.Command, args []string) error {
	if err := config.LoadDotEnv(envFile); err != nil {
		return err
	}
	if user == "" {
		user = os.Getenv("CALBURN_USER")
	}
	if password == "" {
		password = os.Getenv("CALBURN_PASSWORD")
	}
	return nil
}

func loadConfig() (*config.Config, error) {
	return config.LoadOrDefault(cfgFile)
}

func newLogger(cfg *config.Config) *slog.Logger {
	level := cfg.Logging.Level
	if verbose {
		level = "debug"
	}
	return logger.NewWithWriter(os.Stderr, level, cfg.Logging.Format)
}

// SetVersion sets the version for the CLI
func SetVersion(v string) {
	Version = v
	rootCmd.Version = v
}

// GetServerURL returns the server URL based on flags
func GetServerURL() string {
	return fmt.Sprintf("http://%s:%d", host, port)
}

// GetConfigFile returns the config file path
func GetConfigFile() string {
	return cfgFile
}

// IsJSON returns whether JSON output is enabled
func IsJSON() bool {
	return jsonOut
}

// IsVerbose returns whether verbose output is enabled
func IsVerbose() bool {
	return verbose
}

// GetAuth returns auth credentials
func GetAuth() (string, string) {
	return user, password
}
