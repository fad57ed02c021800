/*
 * Copyright 2022 Medicines Discovery Catapult
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *     http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package lib

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const configFlag = "config"

type BaseConfig struct {
	LogLevel string `mapstructure:"log_level"`
}

// InitializeConfig parses the command line for --config and loads the config
// file it names into targetStruct. See LoadConfig.
func InitializeConfig(defaultPath string, defaultConfig map[string]interface{}, targetStruct interface{}) error {
	if pflag.Lookup(configFlag) == nil {
		pflag.String(configFlag, defaultPath, "The config file path.")
	}
	pflag.Parse()
	return LoadConfig(pflag.CommandLine, defaultConfig, targetStruct)
}

// AddConfigFlag registers --config on a flag set that is parsed elsewhere,
// e.g. by a cobra command.
func AddConfigFlag(flags *pflag.FlagSet, defaultPath string) {
	flags.String(configFlag, defaultPath, "The config file path.")
}

/*
	LoadConfig reads the YAML config file named by the --config flag of flags on top
	of defaultConfig and unmarshals it into targetStruct. Environment variables
	override keys of the config, with "." replaced by "_": DICTIONARY_PIPELINE_SIZE
	sets dictionary.pipeline_size. A missing config file is not an error.

	The log_level key sets the global zerolog level.
*/
func LoadConfig(flags *pflag.FlagSet, defaultConfig map[string]interface{}, targetStruct interface{}) error {
	v := viper.New()
	if err := v.BindPFlags(flags); err != nil {
		return err
	}

	configFile := v.GetString(configFlag)
	if configFile != "" && !filepath.IsAbs(configFile) {
		abs, err := filepath.Abs(configFile)
		if err != nil {
			return err
		}
		configFile = abs
	}

	v.SetDefault("log_level", "info")
	for k, val := range defaultConfig {
		v.SetDefault(k, val)
	}

	// an env var is only read for keys viper already knows about
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if configFile != "" {
		v.SetConfigFile(configFile)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			if !isNotFound(err) {
				return err
			}
			log.Warn().Err(err).Str("path", configFile).Msg("default settings applied")
		}
	}

	var bc BaseConfig
	if err := v.Unmarshal(&bc); err != nil {
		return err
	}
	lvl, err := zerolog.ParseLevel(bc.LogLevel)
	if err != nil {
		return err
	}
	zerolog.SetGlobalLevel(lvl)

	return v.Unmarshal(targetStruct)
}

func isNotFound(err error) bool {
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		return true
	}
	// SetConfigFile bypasses viper's search, so a missing file surfaces as a path error
	return errors.Is(err, os.ErrNotExist)
}
