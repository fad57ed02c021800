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
	"reflect"

	"golang.org/x/sync/errgroup"

	"gitlab.mdcatapult.io/informatics/software-engineering/anonymizer/lib/entity"
	"gitlab.mdcatapult.io/informatics/software-engineering/anonymizer/lib/resolver"
)

// MultiExtractor runs several extractors over the same text and merges their
// findings into one resolved set.
type MultiExtractor struct {
	extractors    []Extractor
	detectRepeats bool
	concurrency   int
}

type MultiOption func(*MultiExtractor)

func WithMergedRepeatDetection(detect bool) MultiOption {
	return func(m *MultiExtractor) { m.detectRepeats = detect }
}

// WithConcurrency runs up to n extractors at the same time. The merged result
// does not depend on n.
func WithConcurrency(n int) MultiOption {
	return func(m *MultiExtractor) { m.concurrency = n }
}

func NewMultiExtractor(extractors []Extractor, opts ...MultiOption) (*MultiExtractor, error) {
	if len(extractors) == 0 {
		return nil, ErrNoExtractors
	}
	for i, e := range extractors {
		if e == nil || (reflect.ValueOf(e).Kind() == reflect.Ptr && reflect.ValueOf(e).IsNil()) {
			return nil, fmt.Errorf("%w: extractor %d is nil", ErrInvalidExtractor, i)
		}
	}

	m := &MultiExtractor{extractors: extractors, concurrency: 1}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// ExtractAll returns the output of every extractor, in the order the extractors
// were given, together with the merged entities.
func (m *MultiExtractor) ExtractAll(ctx context.Context, text string) ([][]entity.Entity, []entity.Entity, error) {
	outputs := make([][]entity.Entity, len(m.extractors))
	g, gctx := errgroup.WithContext(ctx)
	if m.concurrency > 0 {
		g.SetLimit(m.concurrency)
	}
	for i, e := range m.extractors {
		i, e := i, e
		g.Go(func() error {
			found, err := e.Extract(gctx, text)
			if err != nil {
				return fmt.Errorf("extractor %d: %w", i, err)
			}
			outputs[i] = found
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	var all []entity.Entity
	for _, found := range outputs {
		all = append(all, found...)
	}

	merged := resolver.Resolve(all)
	if m.detectRepeats {
		merged = resolver.DetectRepeats(text, merged)
	}
	return outputs, merged, nil
}

func (m *MultiExtractor) Extract(ctx context.Context, text string) ([]entity.Entity, error) {
	_, merged, err := m.ExtractAll(ctx, text)
	return merged, err
}
