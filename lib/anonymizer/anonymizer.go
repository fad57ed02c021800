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
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/rs/zerolog/log"
	"google.golang.org/grpc"

	"gitlab.mdcatapult.io/informatics/software-engineering/anonymizer/lib/anonymize"
	"gitlab.mdcatapult.io/informatics/software-engineering/anonymizer/lib/backend/dictionary"
	"gitlab.mdcatapult.io/informatics/software-engineering/anonymizer/lib/backend/grpcbackend"
	"gitlab.mdcatapult.io/informatics/software-engineering/anonymizer/lib/backend/httpbackend"
	"gitlab.mdcatapult.io/informatics/software-engineering/anonymizer/lib/blocklist"
	"gitlab.mdcatapult.io/informatics/software-engineering/anonymizer/lib/cache"
	"gitlab.mdcatapult.io/informatics/software-engineering/anonymizer/lib/cache/local"
	"gitlab.mdcatapult.io/informatics/software-engineering/anonymizer/lib/cache/remote"
	"gitlab.mdcatapult.io/informatics/software-engineering/anonymizer/lib/extractor"
	"gitlab.mdcatapult.io/informatics/software-engineering/anonymizer/lib/generator"
	"gitlab.mdcatapult.io/informatics/software-engineering/anonymizer/lib/pipeline"
)

const (
	PatternExtractor    = "patterns"
	DictionaryExtractor = "dictionary"
)

const (
	PolicyRedact       = "redact"
	PolicyMask         = "mask"
	PolicyPseudonymize = "pseudonymize"
)

var (
	ErrUnknownExtractor = errors.New("unknown extractor")
	ErrUnknownPolicy    = errors.New("unknown policy")
	ErrUnknownGenerator = errors.New("unknown generator type")
)

// Anonymizer holds the named extractors and the policies built from a Config.
type Anonymizer struct {
	config     Config
	labels     extractor.Labels
	extractors map[string]extractor.Extractor
	generators map[string]generator.Generator
	conns      []*grpc.ClientConn
}

// New builds an Anonymizer from explicit labels and extractors. Extractors are
// addressed by their key.
func New(config Config, labels extractor.Labels, extractors map[string]extractor.Extractor) (*Anonymizer, error) {
	if len(extractors) == 0 {
		return nil, extractor.ErrNoExtractors
	}
	generators, err := newGenerators(config.Policy.Generators)
	if err != nil {
		return nil, err
	}
	return &Anonymizer{
		config:     config,
		labels:     labels,
		extractors: extractors,
		generators: generators,
	}, nil
}

// Load reads the label and blocklist files named by config and connects to its
// backends. Labels with a regex or token patterns also get the pattern extractor.
func Load(ctx context.Context, config Config) (*Anonymizer, error) {
	labels, err := extractor.LoadLabels(config.LabelsFile)
	if err != nil {
		return nil, err
	}

	var modelOptions []extractor.ModelOption
	if config.Threshold > 0 {
		modelOptions = append(modelOptions, extractor.WithThreshold(config.Threshold))
	}
	modelOptions = append(modelOptions, extractor.WithRepeatDetection(config.DetectRepeats))
	if config.BlocklistFile != "" {
		bl, err := blocklist.Load(config.BlocklistFile)
		if err != nil {
			return nil, err
		}
		modelOptions = append(modelOptions, extractor.WithBlocklist(bl))
	}

	extractors := make(map[string]extractor.Extractor)
	var conns []*grpc.ClientConn
	closeAll := func() {
		for _, conn := range conns {
			_ = conn.Close()
		}
	}

	if hasPatterns(labels) {
		pe, err := extractor.NewPatternExtractor(labels)
		if err != nil {
			return nil, err
		}
		extractors[PatternExtractor] = pe
	}

	addModel := func(name string, backend extractor.Backend) error {
		if _, ok := extractors[name]; ok {
			return fmt.Errorf("extractor %q is configured twice", name)
		}
		me, err := extractor.NewModelExtractor(backend, labels, modelOptions...)
		if err != nil {
			return err
		}
		extractors[name] = me
		return nil
	}

	for name, conf := range config.Backends.Grpc {
		backend, conn, err := grpcbackend.Dial(conf)
		if err != nil {
			closeAll()
			return nil, err
		}
		conns = append(conns, conn)
		if err := addModel(name, backend); err != nil {
			closeAll()
			return nil, err
		}
		log.Info().Str("extractor", name).Str("host", conf.Host).Int("port", conf.GrpcPort).Msg("grpc backend configured")
	}

	for name, conf := range config.Backends.Http {
		if err := addModel(name, httpbackend.New(conf)); err != nil {
			closeAll()
			return nil, err
		}
		log.Info().Str("extractor", name).Str("url", conf.Url).Msg("http backend configured")
	}

	if conf := config.Backends.Dictionary; conf != nil {
		client, err := DictionaryCache(ctx, *conf)
		if err != nil {
			closeAll()
			return nil, err
		}
		if err := addModel(DictionaryExtractor, dictionary.New(client, conf.Config)); err != nil {
			closeAll()
			return nil, err
		}
		log.Info().Str("cache", string(conf.Cache)).Msg("dictionary backend configured")
	}

	a, err := New(config, labels, extractors)
	if err != nil {
		closeAll()
		return nil, err
	}
	a.conns = conns
	return a, nil
}

func hasPatterns(labels extractor.Labels) bool {
	for _, l := range labels {
		if l.Regex != "" || len(l.Pattern) > 0 {
			return true
		}
	}
	return false
}

// DictionaryCache connects to the cache named by conf. When conf names a
// dictionary file, its terms are imported into the cache first.
func DictionaryCache(ctx context.Context, conf DictionaryConfig) (cache.Client, error) {
	var client cache.Client
	switch conf.Cache {
	case cache.Redis:
		client = remote.NewRedisClient(conf.Redis)
	case cache.Elasticsearch:
		var err error
		if client, err = remote.NewElasticsearchClient(conf.Elasticsearch); err != nil {
			return nil, err
		}
	case cache.Local, "":
		client = local.New()
	default:
		return nil, fmt.Errorf("unsupported dictionary cache %q", conf.Cache)
	}
	if conf.File == "" {
		return client, nil
	}

	entries, err := dictionary.LoadFile(conf.File)
	if err != nil {
		return nil, err
	}
	n, err := dictionary.Import(ctx, client, entries, conf.PipelineSize)
	if err != nil {
		return nil, err
	}
	log.Info().Int("terms", n).Str("file", conf.File).Str("cache", string(conf.Cache)).Msg("dictionary imported")
	return client, nil
}

func newGenerators(configs map[string]GeneratorConfig) (map[string]generator.Generator, error) {
	generators := make(map[string]generator.Generator, len(configs))
	for label, conf := range configs {
		switch conf.Type {
		case GeneratorConstant:
			generators[label] = generator.Constant(conf.Value)
		case GeneratorNumber:
			generators[label] = generator.NewNumber()
		case GeneratorLetters:
			generators[label] = generator.NewLetters()
		case GeneratorDate:
			g, err := generator.NewDate(conf.Layout, conf.Operation, conf.Sigma)
			if err != nil {
				return nil, fmt.Errorf("generator of label %q: %w", label, err)
			}
			generators[label] = g
		default:
			return nil, fmt.Errorf("%w %q for label %q", ErrUnknownGenerator, conf.Type, label)
		}
	}
	return generators, nil
}

// Labels returns the configured labels.
func (a *Anonymizer) Labels() extractor.Labels {
	return a.labels
}

// ExtractorNames returns the names of the configured extractors in order.
func (a *Anonymizer) ExtractorNames() []string {
	names := make([]string, 0, len(a.extractors))
	for name := range a.extractors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Extractor combines the named extractors, or all of them when names is empty.
func (a *Anonymizer) Extractor(names ...string) (*extractor.MultiExtractor, error) {
	if len(names) == 0 {
		names = a.ExtractorNames()
	}
	selected := make([]extractor.Extractor, 0, len(names))
	for _, name := range names {
		ex, ok := a.extractors[name]
		if !ok {
			return nil, fmt.Errorf("%w %q", ErrUnknownExtractor, name)
		}
		selected = append(selected, ex)
	}
	return extractor.NewMultiExtractor(selected,
		extractor.WithMergedRepeatDetection(a.config.DetectRepeats),
		extractor.WithConcurrency(a.config.Concurrency),
	)
}

// Policy returns the policy registered under name.
func (a *Anonymizer) Policy(name string) (anonymize.Policy, error) {
	switch name {
	case PolicyRedact:
		return anonymize.NewRedaction(a.config.Policy.Placeholder), nil
	case PolicyMask:
		return anonymize.NewMasking(a.config.Policy.Mask), nil
	case PolicyPseudonymize:
		placeholder := a.config.Policy.Placeholder
		if placeholder == "" {
			placeholder = anonymize.DefaultPlaceholder
		}
		return anonymize.NewPseudonymization(generator.Mapping(a.generators, generator.Constant(placeholder))), nil
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownPolicy, name)
	}
}

// Pipeline pairs the named extractors with a policy.
func (a *Anonymizer) Pipeline(policy string, extractors ...string) (*pipeline.Pipeline, error) {
	p, err := a.Policy(policy)
	if err != nil {
		return nil, err
	}
	ex, err := a.Extractor(extractors...)
	if err != nil {
		return nil, err
	}
	return pipeline.New(ex, p)
}

// Close releases the grpc connections of the backends.
func (a *Anonymizer) Close() error {
	var first error
	for _, conn := range a.conns {
		if err := conn.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
