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

package anonymize

import (
	"fmt"
	"regexp"
	"strings"

	"gitlab.mdcatapult.io/informatics/software-engineering/anonymizer/lib/entity"
)

const (
	DefaultPlaceholder = "[REDACTED]"
	DefaultSubstitute  = "*"
)

// Policy turns the entities found in a text into replacements and applies them.
type Policy interface {
	Anonymize(text string, entities []entity.Entity) (string, []entity.Replacement, error)
}

// Redaction replaces every entity with the same placeholder.
type Redaction struct {
	Placeholder string
}

func NewRedaction(placeholder string) Redaction {
	if placeholder == "" {
		placeholder = DefaultPlaceholder
	}
	return Redaction{Placeholder: placeholder}
}

func (p Redaction) Anonymize(text string, entities []entity.Entity) (string, []entity.Replacement, error) {
	replacements := make([]entity.Replacement, 0, len(entities))
	for _, e := range entities {
		replacements = append(replacements, entity.NewReplacement(e, p.Placeholder))
	}
	return Apply(text, replacements)
}

// Masking replaces every whitespace separated token of an entity with a run of
// Substitute as long as the token. Tokens are joined with single spaces.
type Masking struct {
	Substitute string
}

func NewMasking(substitute string) Masking {
	if substitute == "" {
		substitute = DefaultSubstitute
	}
	return Masking{Substitute: substitute}
}

var whitespace = regexp.MustCompile(`\s+`)

func (p Masking) Anonymize(text string, entities []entity.Entity) (string, []entity.Replacement, error) {
	replacements := make([]entity.Replacement, 0, len(entities))
	for _, e := range entities {
		replacements = append(replacements, entity.NewReplacement(e, p.mask(e.Text)))
	}
	return Apply(text, replacements)
}

func (p Masking) mask(s string) string {
	tokens := whitespace.Split(s, -1)
	masked := make([]string, len(tokens))
	for i, token := range tokens {
		masked[i] = strings.Repeat(p.Substitute, len([]rune(token)))
	}
	return strings.Join(masked, " ")
}

// MappingFunc produces the substitute of an entity found in text.
type MappingFunc func(text string, e entity.Entity) (string, error)

// Pseudonymization replaces entities with the output of Mapping. Within one call
// every entity with the same text gets the substitute produced for the first of
// them, whatever its label.
type Pseudonymization struct {
	Mapping MappingFunc
}

func NewPseudonymization(mapping MappingFunc) Pseudonymization {
	return Pseudonymization{Mapping: mapping}
}

func (p Pseudonymization) Anonymize(text string, entities []entity.Entity) (string, []entity.Replacement, error) {
	if p.Mapping == nil {
		return "", nil, fmt.Errorf("pseudonymization requires a mapping function")
	}

	memo := make(map[string]string)
	replacements := make([]entity.Replacement, 0, len(entities))
	for _, e := range entities {
		substitute, ok := memo[e.Text]
		if !ok {
			var err error
			if substitute, err = p.Mapping(text, e); err != nil {
				return "", nil, fmt.Errorf("pseudonymizing %s: %w", e, err)
			}
			memo[e.Text] = substitute
		}
		replacements = append(replacements, entity.NewReplacement(e, substitute))
	}
	return Apply(text, replacements)
}

// LabelMapping returns a mapping that substitutes entities by label, falling back
// to fallback for labels it does not know.
func LabelMapping(substitutes map[string]string, fallback string) MappingFunc {
	return func(_ string, e entity.Entity) (string, error) {
		if substitute, ok := substitutes[e.Label]; ok {
			return substitute, nil
		}
		return fallback, nil
	}
}
