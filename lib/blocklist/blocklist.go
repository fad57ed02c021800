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

package blocklist

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v2"

	"gitlab.mdcatapult.io/informatics/software-engineering/anonymizer/lib/entity"
)

// Blocklist holds terms that must never be reported as entities, e.g. common
// words a model keeps tagging as names.
type Blocklist struct {
	CaseSensitive   map[string]bool
	CaseInsensitive map[string]bool
}

// New builds a blocklist from term lists. Case insensitive terms are stored lower case.
func New(caseSensitive, caseInsensitive []string) Blocklist {
	res := Blocklist{
		CaseSensitive:   map[string]bool{},
		CaseInsensitive: map[string]bool{},
	}
	for _, v := range caseSensitive {
		res.CaseSensitive[v] = true
	}
	for _, v := range caseInsensitive {
		res.CaseInsensitive[strings.ToLower(v)] = true
	}
	return res
}

// Allowed returns true if text is not blocklisted.
func (blocklist Blocklist) Allowed(text string) bool {
	if _, ok := blocklist.CaseSensitive[text]; ok {
		return false
	}

	if _, ok := blocklist.CaseInsensitive[strings.ToLower(text)]; ok {
		return false
	}

	return true
}

// FilterEntities drops the entities whose text is blocklisted.
func (blocklist Blocklist) FilterEntities(entities []entity.Entity) []entity.Entity {
	res := make([]entity.Entity, 0, len(entities))
	for _, e := range entities {
		if blocklist.Allowed(e.Text) {
			res = append(res, e)
		}
	}
	return res
}

// Load returns an unmarshalled blocklist from a YAML file at the given path.
func Load(path string) (*Blocklist, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		log.Error().Str("path", path).Msg("could not find blocklist")
		return nil, err
	}

	type yamlBlocklist struct {
		CaseSensitive   []string `yaml:"case_sensitive"`
		CaseInsensitive []string `yaml:"case_insensitive"`
	}

	yamlBl := yamlBlocklist{}
	if err := yaml.Unmarshal(bytes, &yamlBl); err != nil {
		return nil, fmt.Errorf("could not load blocklist from %v: %w", path, err)
	}

	res := New(yamlBl.CaseSensitive, yamlBl.CaseInsensitive)
	log.Info().Str("path", path).Int("terms", len(res.CaseSensitive)+len(res.CaseInsensitive)).Msg("blocklist set")

	return &res, nil
}
