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

package pipeline

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"

	"gitlab.mdcatapult.io/informatics/software-engineering/anonymizer/lib/anonymize"
	"gitlab.mdcatapult.io/informatics/software-engineering/anonymizer/lib/entity"
	"gitlab.mdcatapult.io/informatics/software-engineering/anonymizer/lib/extractor"
	"gitlab.mdcatapult.io/informatics/software-engineering/anonymizer/lib/resolver"
)

var (
	ErrNoExtractor = errors.New("pipeline requires an extractor")
	ErrNoPolicy    = errors.New("pipeline requires a policy")
)

// Result is the anonymized text with the entities found in the original and
// the replacements that were made, both ascending by start index.
type Result struct {
	Text         string               `json:"anonymized_text"`
	Entities     []entity.Entity      `json:"entities"`
	Replacements []entity.Replacement `json:"replacements"`
}

// Pipeline extracts the entities of a text and anonymizes them with a policy.
type Pipeline struct {
	extractor extractor.Extractor
	policy    anonymize.Policy
}

func New(ex extractor.Extractor, policy anonymize.Policy) (*Pipeline, error) {
	if ex == nil {
		return nil, ErrNoExtractor
	}
	if policy == nil {
		return nil, ErrNoPolicy
	}
	return &Pipeline{extractor: ex, policy: policy}, nil
}

func (p *Pipeline) Anonymize(ctx context.Context, text string) (Result, error) {
	if strings.TrimSpace(text) == "" {
		return Result{Text: text, Entities: []entity.Entity{}, Replacements: []entity.Replacement{}}, nil
	}

	entities, err := p.extractor.Extract(ctx, text)
	if err != nil {
		return Result{}, err
	}
	entities = resolver.Resolve(entities)

	anonymized, replacements, err := p.policy.Anonymize(text, entities)
	if err != nil {
		return Result{}, err
	}
	log.Debug().Int("entities", len(entities)).Msg("text anonymized")

	return Result{
		Text:         anonymized,
		Entities:     entities,
		Replacements: replacements,
	}, nil
}
