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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.mdcatapult.io/informatics/software-engineering/anonymizer/lib/cache"
	"gitlab.mdcatapult.io/informatics/software-engineering/anonymizer/lib/entity"
	"gitlab.mdcatapult.io/informatics/software-engineering/anonymizer/lib/extractor"
)

const labelsYaml = `
- label: name
  type: string
- label: ssn
  type: custom
  regex: '\d{3}-\d{2}-\d{4}'
`

const record = "Patient John Doe, SSN 123-45-6789. John Doe."

type fixedExtractor []entity.Entity

func (f fixedExtractor) Extract(context.Context, string) ([]entity.Entity, error) {
	return f, nil
}

func writeFile(t *testing.T, name, content string) string {
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func loadLocal(t *testing.T, config Config) *Anonymizer {
	config.LabelsFile = writeFile(t, "labels.yml", labelsYaml)
	config.DetectRepeats = true
	config.Backends.Dictionary = &DictionaryConfig{
		Cache: cache.Local,
		File:  writeFile(t, "dictionary.yml", "name:\n  - John Doe\n"),
	}
	a, err := Load(context.Background(), config)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func TestLoad_LocalDictionaryAndPatterns(t *testing.T) {
	a := loadLocal(t, Config{})

	assert.Equal(t, []string{DictionaryExtractor, PatternExtractor}, a.ExtractorNames())
	assert.Equal(t, []string{"name", "ssn"}, a.Labels().Names())

	p, err := a.Pipeline(PolicyRedact)
	require.NoError(t, err)
	result, err := p.Anonymize(context.Background(), record)
	require.NoError(t, err)

	assert.Equal(t, "Patient [REDACTED], SSN [REDACTED]. [REDACTED].", result.Text)
	require.Len(t, result.Entities, 3)
	assert.Equal(t, []int{8, 22, 35}, []int{
		result.Entities[0].StartIndex,
		result.Entities[1].StartIndex,
		result.Entities[2].StartIndex,
	})
}

func TestLoad_SelectedExtractor(t *testing.T) {
	a := loadLocal(t, Config{})

	p, err := a.Pipeline(PolicyMask, PatternExtractor)
	require.NoError(t, err)
	result, err := p.Anonymize(context.Background(), record)
	require.NoError(t, err)
	assert.Equal(t, "Patient John Doe, SSN ***********. John Doe.", result.Text)
}

func TestLoad_Pseudonymize(t *testing.T) {
	a := loadLocal(t, Config{Policy: PolicyConfig{
		Placeholder: "<hidden>",
		Generators: map[string]GeneratorConfig{
			"name": {Type: GeneratorConstant, Value: "Jane Roe"},
		},
	}})

	p, err := a.Pipeline(PolicyPseudonymize)
	require.NoError(t, err)
	result, err := p.Anonymize(context.Background(), record)
	require.NoError(t, err)
	assert.Equal(t, "Patient Jane Roe, SSN <hidden>. Jane Roe.", result.Text)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(context.Background(), Config{LabelsFile: filepath.Join(t.TempDir(), "missing.yml")})
	assert.Error(t, err)

	_, err = Load(context.Background(), Config{
		LabelsFile: writeFile(t, "labels.yml", labelsYaml),
		Backends:   BackendsConfig{Dictionary: &DictionaryConfig{Cache: "memcached"}},
	})
	assert.Error(t, err)
}

func TestNew(t *testing.T) {
	_, err := New(Config{}, nil, nil)
	assert.ErrorIs(t, err, extractor.ErrNoExtractors)

	_, err = New(Config{Policy: PolicyConfig{Generators: map[string]GeneratorConfig{"name": {Type: "markov"}}}},
		nil, map[string]extractor.Extractor{"fixed": fixedExtractor{}})
	assert.ErrorIs(t, err, ErrUnknownGenerator)

	_, err = New(Config{Policy: PolicyConfig{Generators: map[string]GeneratorConfig{"date": {Type: GeneratorDate, Operation: "tomorrow"}}}},
		nil, map[string]extractor.Extractor{"fixed": fixedExtractor{}})
	assert.Error(t, err)
}

func TestPolicyAndExtractorLookup(t *testing.T) {
	e, err := entity.New("Ana", "name", 0, 3)
	require.NoError(t, err)
	a, err := New(Config{}, nil, map[string]extractor.Extractor{"fixed": fixedExtractor{e}})
	require.NoError(t, err)

	_, err = a.Policy("shred")
	assert.ErrorIs(t, err, ErrUnknownPolicy)
	_, err = a.Extractor("fixed", "missing")
	assert.ErrorIs(t, err, ErrUnknownExtractor)

	for policy, want := range map[string]string{
		PolicyRedact:       "[REDACTED] was here",
		PolicyMask:         "*** was here",
		PolicyPseudonymize: "[REDACTED] was here",
	} {
		p, err := a.Pipeline(policy, "fixed")
		require.NoError(t, err)
		result, err := p.Anonymize(context.Background(), "Ana was here")
		require.NoError(t, err)
		assert.Equal(t, want, result.Text, policy)
	}
}
