package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	ut "github.com/go-playground/universal-translator"
	"github.com/spf13/viper"
)

type Config struct {
	Build      BuildConfig      `mapstructure:"build"`
	Processing ProcessingConfig `mapstructure:"processing"`
	Templates  TemplatesConfig  `mapstructure:"templates"`
	Overrides  OverridesConfig  `mapstructure:"overrides"`
}

type BuildConfig struct {
	Format     string `mapstructure:"format" validate:"required,output_format"`
	OutputPath string `mapstructure:"output_path"`
	// BuildDirectory overrides the staging directory next to the output.
	BuildDirectory string `mapstructure:"build_directory"`

	// ZipWith selects the epub archiver: "lib" in process, "cli" for the zip tool.
	ZipWith          string `mapstructure:"zip_with" validate:"oneof=lib cli"`
	MobiCompression  int    `mapstructure:"mobi_compression" validate:"min=0,max=2"`
	KindleGenPath    string `mapstructure:"kindlegen_path" validate:"omitempty,file"`
	DontRunKindleGen bool   `mapstructure:"dont_run_kindlegen"`
	KeepBuildFiles   bool   `mapstructure:"keep_build_files"`
}

type ProcessingConfig struct {
	Skip         bool `mapstructure:"skip"`
	StripSeeAlso bool `mapstructure:"strip_see_also"`
}

type TemplatesConfig struct {
	// Directory holds "<name>.tmpl" files that replace the embedded templates.
	Directory       string `mapstructure:"directory" validate:"omitempty,dir"`
	EntriesTemplate string `mapstructure:"entries_template"`
}

// OverridesConfig replaces metadata read from the sources.
type OverridesConfig struct {
	Title     string `mapstructure:"title"`
	DictLabel string `mapstructure:"dict_label"`
}

type ConfigLoader struct {
	viper      *viper.Viper
	validator  *validator.Validate
	translator ut.Translator
}

func NewConfigLoader(configFile string) (*ConfigLoader, error) {
	validate, trans, err := newValidator()
	if err != nil {
		return nil, fmt.Errorf("failed to create new validator: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/dictforge")
	}

	return &ConfigLoader{
		viper:      v,
		validator:  validate,
		translator: trans,
	}, nil
}

// Viper exposes the underlying instance so commands can bind flags to keys.
func (loader *ConfigLoader) Viper() *viper.Viper {
	return loader.viper
}

func (loader *ConfigLoader) Load() (*Config, error) {
	v := loader.viper

	v.SetDefault("build.format", "epub")
	v.SetDefault("build.output_path", "")
	v.SetDefault("build.zip_with", "lib")
	v.SetDefault("build.mobi_compression", 0)
	v.SetDefault("build.dont_run_kindlegen", false)
	v.SetDefault("build.keep_build_files", false)
	v.SetDefault("processing.skip", false)
	v.SetDefault("processing.strip_see_also", false)
	// Templates are optional. Embedded templates are used when empty.
	v.SetDefault("templates.directory", "")
	v.SetDefault("templates.entries_template", "")

	if err := v.BindEnv("build.kindlegen_path", "KINDLEGEN_PATH"); err != nil {
		return nil, fmt.Errorf("failed to bind KINDLEGEN_PATH environment variable: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("configuration file found but could not be read: %w. Please check the file format and permissions", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration format: %w", err)
	}

	if err := loader.validator.Struct(cfg); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		var errorMsgs []string
		for _, e := range validationErrors {
			errorMsgs = append(errorMsgs, translate(e, loader.translator))
		}
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(errorMsgs, ", "))
	}

	return &cfg, nil
}
