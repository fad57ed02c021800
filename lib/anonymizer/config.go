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

package anonymizer

import (
	"gitlab.mdcatapult.io/informatics/software-engineering/anonymizer/lib/backend/dictionary"
	"gitlab.mdcatapult.io/informatics/software-engineering/anonymizer/lib/backend/grpcbackend"
	"gitlab.mdcatapult.io/informatics/software-engineering/anonymizer/lib/backend/httpbackend"
	"gitlab.mdcatapult.io/informatics/software-engineering/anonymizer/lib/cache"
	"gitlab.mdcatapult.io/informatics/software-engineering/anonymizer/lib/cache/remote"
	"gitlab.mdcatapult.io/informatics/software-engineering/anonymizer/lib/generator"
)

// Config describes the extractors and policies an Anonymizer is built from.
type Config struct {
	LabelsFile    string         `mapstructure:"labels_file"`
	BlocklistFile string         `mapstructure:"blocklist_file"`
	DetectRepeats bool           `mapstructure:"detect_repeats"`
	Threshold     float64        `mapstructure:"threshold"`
	Concurrency   int            `mapstructure:"concurrency"`
	Policy        PolicyConfig   `mapstructure:"policy"`
	Backends      BackendsConfig `mapstructure:"backends"`
}

type PolicyConfig struct {
	// Placeholder replaces entities under the redact policy and is the
	// pseudonym of labels without a generator.
	Placeholder string `mapstructure:"placeholder"`
	// Mask is repeated once per masked character.
	Mask       string                     `mapstructure:"mask"`
	Generators map[string]GeneratorConfig `mapstructure:"generators"`
}

// GeneratorConfig selects the pseudonym generator of a label.
type GeneratorConfig struct {
	Type      string              `mapstructure:"type"`
	Value     string              `mapstructure:"value"`
	Layout    string              `mapstructure:"layout"`
	Operation generator.Operation `mapstructure:"operation"`
	Sigma     int                 `mapstructure:"sigma"`
}

const (
	GeneratorConstant = "constant"
	GeneratorNumber   = "number"
	GeneratorLetters  = "letters"
	GeneratorDate     = "date"
)

// BackendsConfig names the model backends. Every grpc and http entry becomes
// one model extractor named after its key.
type BackendsConfig struct {
	Grpc       map[string]grpcbackend.Config `mapstructure:"grpc"`
	Http       map[string]httpbackend.Config `mapstructure:"http"`
	Dictionary *DictionaryConfig             `mapstructure:"dictionary"`
}

type DictionaryConfig struct {
	Cache         cache.Type                 `mapstructure:"cache"`
	File          string                     `mapstructure:"file"`
	Redis         remote.RedisConfig         `mapstructure:"redis"`
	Elasticsearch remote.ElasticsearchConfig `mapstructure:"elasticsearch"`
	dictionary.Config `mapstructure:",squash"`
}

var DefaultConfig = map[string]interface{}{
	"labels_file":        "config/labels.yml",
	"detect_repeats":     true,
	"threshold":          0.5,
	"concurrency":        4,
	"policy.placeholder": "[REDACTED]",
	"policy.mask":        "*",
}
