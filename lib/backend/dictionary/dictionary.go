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

package dictionary

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"gitlab.mdcatapult.io/informatics/software-engineering/anonymizer/lib/cache"
	"gitlab.mdcatapult.io/informatics/software-engineering/anonymizer/lib/extractor"
	"gitlab.mdcatapult.io/informatics/software-engineering/anonymizer/lib/text"
)

type Config struct {
	// CompoundTokenLength is the maximum number of tokens a dictionary term spans.
	CompoundTokenLength int `mapstructure:"compound_token_length"`
	PipelineSize        int `mapstructure:"pipeline_size"`
}

var DefaultConfig = Config{
	CompoundTokenLength: 5,
	PipelineSize:        10000,
}

// Backend finds dictionary terms in a text. Every run of up to
// CompoundTokenLength consecutive tokens not crossing a delimiter is looked up
// in the cache by its normalised key.
type Backend struct {
	client cache.Client
	config Config
}

func New(client cache.Client, config Config) *Backend {
	if config.CompoundTokenLength <= 0 {
		config.CompoundTokenLength = DefaultConfig.CompoundTokenLength
	}
	if config.PipelineSize <= 0 {
		config.PipelineSize = DefaultConfig.PipelineSize
	}
	return &Backend{client: client, config: config}
}

// Key is the cache key of a term: its normalised tokens joined by single spaces.
func Key(term string) (string, error) {
	tokens, err := text.Tokens(term, false)
	if err != nil {
		return "", err
	}
	keys := make([]string, len(tokens))
	for i, token := range tokens {
		keys[i] = text.NormalizeString(token.Text)
	}
	return strings.Join(keys, " "), nil
}

type position struct {
	start int
	end   int
}

type request struct {
	source    []rune
	labels    map[string]struct{}
	threshold float64
	// results of executed lookups, nil for misses
	results map[string]*cache.Lookup
	// positions of keys queued on a pipeline that has not been executed yet
	pending map[string][]position
	spans   []extractor.Span
}

func (b *Backend) Predict(ctx context.Context, req extractor.Request) ([]extractor.Span, error) {
	r := &request{
		source:    []rune(req.Text),
		labels:    make(map[string]struct{}, len(req.Labels)),
		threshold: req.Threshold,
		results:   make(map[string]*cache.Lookup),
		pending:   make(map[string][]position),
	}
	for _, l := range req.Labels {
		r.labels[l] = struct{}{}
	}

	pipe := b.client.NewGetPipeline(b.config.PipelineSize)
	var history []text.Token
	var keyHistory []string

	err := text.Tokenize(req.Text, func(token text.Token) error {
		// delimiters end a compound token and are never looked up themselves
		if text.IsTokenDelimiter(token.Text) {
			history = history[:0]
			keyHistory = keyHistory[:0]
			return nil
		}

		if len(history) == b.config.CompoundTokenLength {
			history = history[1:]
			keyHistory = keyHistory[1:]
		}
		history = append(history, token)
		keyHistory = append(keyHistory, text.NormalizeString(token.Text))

		for i, historical := range history {
			key := strings.Join(keyHistory[i:], " ")
			p := position{start: historical.Start, end: token.End}
			if lookup, ok := r.results[key]; ok {
				r.emit(lookup, p)
				continue
			}
			if _, ok := r.pending[key]; !ok {
				pipe.Get(key)
			}
			r.pending[key] = append(r.pending[key], p)
		}

		if pipe.Size() >= b.config.PipelineSize {
			if err := pipe.ExecGet(ctx, r.onResult); err != nil {
				return err
			}
			pipe = b.client.NewGetPipeline(b.config.PipelineSize)
		}
		return nil
	}, false)
	if err != nil {
		return nil, fmt.Errorf("dictionary lookup failed: %w", err)
	}
	if pipe.Size() > 0 {
		if err := pipe.ExecGet(ctx, r.onResult); err != nil {
			return nil, fmt.Errorf("dictionary lookup failed: %w", err)
		}
	}

	sort.Slice(r.spans, func(i, j int) bool {
		if r.spans[i].Start != r.spans[j].Start {
			return r.spans[i].Start < r.spans[j].Start
		}
		return r.spans[i].End < r.spans[j].End
	})
	log.Debug().Int("spans", len(r.spans)).Int("keys", len(r.results)).Msg("dictionary lookup complete")
	return r.spans, nil
}

func (r *request) onResult(key string, lookup *cache.Lookup) error {
	r.results[key] = lookup
	for _, p := range r.pending[key] {
		r.emit(lookup, p)
	}
	delete(r.pending, key)
	return nil
}

func (r *request) emit(lookup *cache.Lookup, p position) {
	if lookup == nil {
		return
	}
	if _, ok := r.labels[lookup.Label]; len(r.labels) > 0 && !ok {
		return
	}
	score := lookup.Score
	if score == 0 {
		score = 1
	}
	if score < r.threshold {
		return
	}
	r.spans = append(r.spans, extractor.Span{
		Text:  string(r.source[p.start:p.end]),
		Label: lookup.Label,
		Start: p.start,
		End:   p.end,
		Score: score,
	})
}
