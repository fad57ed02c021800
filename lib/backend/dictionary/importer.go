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
	"os"
	"sort"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v2"

	"gitlab.mdcatapult.io/informatics/software-engineering/anonymizer/lib/cache"
)

// Entries maps a label to the terms that are entities of that label.
type Entries map[string][]string

// LoadFile reads a YAML dictionary of the form `label: [term, ...]`.
func LoadFile(path string) (Entries, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var entries Entries
	if err := yaml.Unmarshal(bytes, &entries); err != nil {
		return nil, fmt.Errorf("could not load dictionary from %v: %w", path, err)
	}
	return entries, nil
}

// Import writes the entries into the cache in batches of batchSize. When a
// term appears under several labels, the last label in alphabetical order wins.
func Import(ctx context.Context, client cache.Client, entries Entries, batchSize int) (int, error) {
	if batchSize <= 0 {
		batchSize = DefaultConfig.PipelineSize
	}

	labels := make([]string, 0, len(entries))
	for label := range entries {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	imported := 0
	pipe := client.NewSetPipeline(batchSize)
	flush := func() error {
		if pipe.Size() == 0 {
			return nil
		}
		if err := pipe.ExecSet(ctx); err != nil {
			return err
		}
		imported += pipe.Size()
		log.Debug().Int("imported", imported).Msg("dictionary batch written")
		pipe = client.NewSetPipeline(batchSize)
		return nil
	}

	for _, label := range labels {
		for _, term := range entries[label] {
			key, err := Key(term)
			if err != nil {
				return imported, err
			}
			if key == "" {
				continue
			}
			pipe.Set(key, cache.Lookup{Label: label})
			if pipe.Size() >= batchSize {
				if err := flush(); err != nil {
					return imported, err
				}
			}
		}
	}
	if err := flush(); err != nil {
		return imported, err
	}
	return imported, nil
}
