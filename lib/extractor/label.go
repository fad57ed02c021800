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

package extractor

import (
	"fmt"
	"os"
	"regexp"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v2"

	"gitlab.mdcatapult.io/informatics/software-engineering/anonymizer/lib/entity"
)

// Label defines a kind of entity: its name, its type and the pattern its text
// must satisfy. Pattern holds token sequences used by the pattern extractor.
type Label struct {
	Label   string           `yaml:"label" json:"label"`
	Type    entity.Type      `yaml:"type" json:"type,omitempty"`
	Regex   string           `yaml:"regex" json:"regex,omitempty"`
	Pattern [][]TokenPattern `yaml:"pattern" json:"pattern,omitempty"`
}

// TokenPattern matches one token. Every field that is set must hold.
type TokenPattern struct {
	Text    string `yaml:"text" json:"text,omitempty"`
	Lower   string `yaml:"lower" json:"lower,omitempty"`
	Regex   string `yaml:"regex" json:"regex,omitempty"`
	IsAlpha bool   `yaml:"is_alpha" json:"is_alpha,omitempty"`
	IsDigit bool   `yaml:"is_digit" json:"is_digit,omitempty"`
	IsPunct bool   `yaml:"is_punct" json:"is_punct,omitempty"`
	LikeNum bool   `yaml:"like_num" json:"like_num,omitempty"`
}

// ValidationRegex is the explicit regex of the label or the default of its type.
func (l Label) ValidationRegex() (string, error) {
	if l.Regex != "" {
		return l.Regex, nil
	}
	if l.Type == entity.TypeCustom {
		return "", fmt.Errorf("%w: label %q", entity.ErrCustomRegexRequired, l.Label)
	}
	return entity.RegexFor(l.Type), nil
}

// Entity builds an entity of this label.
func (l Label) Entity(text string, start, end int, score float64) (entity.Entity, error) {
	return entity.New(text, l.Label, start, end,
		entity.WithType(l.Type),
		entity.WithRegex(l.Regex),
		entity.WithScore(score),
	)
}

type Labels []Label

// Names returns the label names in definition order.
func (labels Labels) Names() []string {
	names := make([]string, len(labels))
	for i, l := range labels {
		names[i] = l.Label
	}
	return names
}

// Lookup finds the definition of a label by name.
func (labels Labels) Lookup(name string) (Label, error) {
	for _, l := range labels {
		if l.Label == name {
			return l, nil
		}
	}
	return Label{}, fmt.Errorf("%w: %q", ErrUnknownLabel, name)
}

// Validate checks that every label has a name, is defined once and carries
// a usable regex.
func (labels Labels) Validate() error {
	seen := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		if l.Label == "" {
			return fmt.Errorf("label without a name")
		}
		if _, ok := seen[l.Label]; ok {
			return fmt.Errorf("label %q defined twice", l.Label)
		}
		seen[l.Label] = struct{}{}

		re, err := l.ValidationRegex()
		if err != nil {
			return err
		}
		if _, err := regexp.Compile(re); err != nil {
			return fmt.Errorf("label %q: %w", l.Label, err)
		}
		for _, sequence := range l.Pattern {
			for _, token := range sequence {
				if token.Regex == "" {
					continue
				}
				if _, err := regexp.Compile(token.Regex); err != nil {
					return fmt.Errorf("label %q token pattern: %w", l.Label, err)
				}
			}
		}
	}
	return nil
}

// LoadLabels reads a YAML list of label definitions.
func LoadLabels(path string) (Labels, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var labels Labels
	if err := yaml.Unmarshal(bytes, &labels); err != nil {
		return nil, fmt.Errorf("could not load labels from %v: %w", path, err)
	}
	if err := labels.Validate(); err != nil {
		return nil, fmt.Errorf("invalid labels in %v: %w", path, err)
	}

	log.Info().Str("path", path).Strs("labels", labels.Names()).Msg("labels loaded")
	return labels, nil
}
