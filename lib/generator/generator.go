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

package generator

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"gitlab.mdcatapult.io/informatics/software-engineering/anonymizer/lib/anonymize"
	"gitlab.mdcatapult.io/informatics/software-engineering/anonymizer/lib/entity"
)

var (
	ErrTypeMismatch = errors.New("entity type not supported by generator")
	ErrNoGenerator  = errors.New("no generator for label")
)

// Generator produces a substitute for an entity.
type Generator interface {
	Generate(e entity.Entity) (string, error)
}

// checkType fails unless the entity has one of the accepted types. Custom
// entities are let through with a warning.
func checkType(generator string, e entity.Entity, accepted ...entity.Type) error {
	if e.Type == entity.TypeCustom {
		log.Warn().Str("generator", generator).Str("label", e.Label).Msg("entity type is custom, make sure the generator returns appropriate values")
		return nil
	}
	for _, t := range accepted {
		if e.Type == t {
			return nil
		}
	}
	return fmt.Errorf("%w: %s cannot generate for %q entities", ErrTypeMismatch, generator, e.Type)
}

// source is a random source safe for concurrent use.
type source struct {
	mut *sync.Mutex
	rnd *rand.Rand
}

func newSource(seed int64) source {
	return source{mut: &sync.Mutex{}, rnd: rand.New(rand.NewSource(seed))}
}

func defaultSource() source {
	return newSource(time.Now().UnixNano())
}

func (s source) Intn(n int) int {
	s.mut.Lock()
	defer s.mut.Unlock()
	return s.rnd.Intn(n)
}

// Constant always generates the same text.
type Constant string

func (c Constant) Generate(entity.Entity) (string, error) {
	return string(c), nil
}

// Mapping selects a generator by entity label, falling back to fallback for
// labels without one. A nil fallback makes unknown labels an error.
func Mapping(generators map[string]Generator, fallback Generator) anonymize.MappingFunc {
	return func(_ string, e entity.Entity) (string, error) {
		g, ok := generators[e.Label]
		if !ok {
			g = fallback
		}
		if g == nil {
			return "", fmt.Errorf("%w %q", ErrNoGenerator, e.Label)
		}
		return g.Generate(e)
	}
}
