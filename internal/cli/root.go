package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/lexalign/lexalign/internal/model"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "lexalign",
	Short: "Lexalign - align extracted article paragraphs with labeled ground truth",
	Long: `Lexalign builds training corpora for legal-text classifiers.

It aligns paragraphs extracted from law-review PDFs with ground-truth
paragraphs whose labels (body text vs. footnote text) are already known,
relabels each extracted paragraph from its matched counterpart, measures
alignment quality per class, and emits a deduplicated CSV corpus.

Extraction artifacts that match nothing (running headers, page numbers,
mid-sentence fragments) are dropped, not guessed at.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Display the version number and build information for Lexalign.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("lexalign v0.2.1")
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.lexalign/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// Bind flags to viper
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		// Search for config in home directory
		viper.AddConfigPath(home + "/.lexalign")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	configureViper()

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// configureViper binds LEXALIGN_* environment variables and registers every
// config key's default, so file and env settings both decode into
// model.Config.
func configureViper() {
	viper.SetEnvPrefix("LEXALIGN")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Register defaults per section so viper knows every nested key
	// (env overrides only apply to keys viper knows about).
	data, err := yaml.Marshal(model.DefaultConfig())
	if err != nil {
		return
	}
	var sections map[string]interface{}
	if err := yaml.Unmarshal(data, &sections); err != nil {
		return
	}
	for key, value := range sections {
		viper.SetDefault(key, value)
	}
}

// loadConfig returns the merged configuration: defaults, then the config
// file, then LEXALIGN_* environment variables. Each command applies its
// flag overrides on top. Weak typing is required because env values always
// arrive as strings.
func loadConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	err := viper.Unmarshal(cfg, func(dc *mapstructure.DecoderConfig) {
		dc.WeaklyTypedInput = true
	})
	if err != nil {
		return nil, fmt.Errorf("parse configuration: %w", err)
	}
	return cfg, nil
}
