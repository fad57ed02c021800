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
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"gitlab.mdcatapult.io/informatics/software-engineering/anonymizer/lib/blocklist"
	"gitlab.mdcatapult.io/informatics/software-engineering/anonymizer/lib/entity"
	"gitlab.mdcatapult.io/informatics/software-engineering/anonymizer/lib/resolver"
	"gitlab.mdcatapult.io/informatics/software-engineering/anonymizer/lib/text"
)

const DefaultThreshold = 0.5

// Request is what a backend is asked to predict.
type Request struct {
	Text      string   `json:"text"`
	Labels    []string `json:"labels"`
	Threshold float64  `json:"threshold"`
}

// Span is a raw prediction of a backend, in character offsets.
type Span struct {
	Text  string  `json:"text"`
	Label string  `json:"label"`
	Start int     `json:"start"`
	End   int     `json:"end"`
	Score float64 `json:"score"`
}

// Backend predicts labelled spans in a text, e.g. a NER model server.
type Backend interface {
	Predict(ctx context.Context, req Request) ([]Span, error)
}

// ModelExtractor turns the predictions of a backend into entities of the
// configured labels. Predictions failing the regex of their label are dropped
// and overlapping predictions are resolved.
type ModelExtractor struct {
	backend       Backend
	labels        Labels
	threshold     float64
	blocklist     *blocklist.Blocklist
	detectRepeats bool
}

type ModelOption func(*ModelExtractor)

// WithThreshold sets the minimum score the backend should report spans for.
func WithThreshold(threshold float64) ModelOption {
	return func(m *ModelExtractor) { m.threshold = threshold }
}

func WithBlocklist(bl *blocklist.Blocklist) ModelOption {
	return func(m *ModelExtractor) { m.blocklist = bl }
}

// WithRepeatDetection makes the extractor report every verbatim repeat of the
// entities the backend found.
func WithRepeatDetection(detect bool) ModelOption {
	return func(m *ModelExtractor) { m.detectRepeats = detect }
}

func NewModelExtractor(backend Backend, labels Labels, opts ...ModelOption) (*ModelExtractor, error) {
	if backend == nil {
		return nil, fmt.Errorf("model extractor requires a backend")
	}
	if err := labels.Validate(); err != nil {
		return nil, err
	}
	m := &ModelExtractor{
		backend:   backend,
		labels:    labels,
		threshold: DefaultThreshold,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

func (m *ModelExtractor) Extract(ctx context.Context, source string) ([]entity.Entity, error) {
	spans, err := m.backend.Predict(ctx, Request{
		Text:      source,
		Labels:    m.labels.Names(),
		Threshold: m.threshold,
	})
	if err != nil {
		return nil, fmt.Errorf("backend prediction failed: %w", err)
	}

	length := text.Len(source)
	entities := make([]entity.Entity, 0, len(spans))
	for _, span := range spans {
		label, err := m.labels.Lookup(span.Label)
		if err != nil {
			return nil, err
		}
		if span.Start < 0 || span.End > length || span.Start >= span.End {
			return nil, fmt.Errorf("%w: backend returned [%d, %d) for a text of length %d", entity.ErrInvalidOffsets, span.Start, span.End, length)
		}

		e, err := label.Entity(text.Slice(source, span.Start, span.End), span.Start, span.End, span.Score)
		if err != nil {
			return nil, err
		}
		ok, err := e.Matches()
		if err != nil {
			return nil, err
		}
		if !ok {
			log.Debug().Str("label", e.Label).Str("text", e.Text).Str("regex", e.Regex).Msg("span does not match label regex")
			continue
		}
		entities = append(entities, e)
	}

	if m.blocklist != nil {
		entities = m.blocklist.FilterEntities(entities)
	}
	if m.detectRepeats {
		return resolver.DetectRepeats(source, entities), nil
	}
	return resolver.Resolve(entities), nil
}
