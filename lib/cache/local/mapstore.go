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

package local

import (
	"context"
	"sync"

	"gitlab.mdcatapult.io/informatics/software-engineering/anonymizer/lib/cache"
)

// New returns an in-process cache. Pipelines are applied when executed.
func New() cache.Client {
	return &local{
		store: make(map[string]cache.Lookup),
		mut:   &sync.RWMutex{},
	}
}

type local struct {
	store map[string]cache.Lookup
	mut   *sync.RWMutex
}

func (l *local) Ready() bool {
	return true
}

func (l *local) NewGetPipeline(size int) cache.GetPipeline {
	return &getPipeline{local: l, keys: make(map[string]struct{}, size)}
}

func (l *local) NewSetPipeline(size int) cache.SetPipeline {
	return &setPipeline{local: l, lookups: make(map[string]cache.Lookup, size)}
}

type getPipeline struct {
	*local
	keys map[string]struct{}
}

func (p *getPipeline) Get(key string) {
	p.keys[key] = struct{}{}
}

func (p *getPipeline) ExecGet(_ context.Context, onResult func(string, *cache.Lookup) error) error {
	p.mut.RLock()
	results := make(map[string]*cache.Lookup, len(p.keys))
	for key := range p.keys {
		if lookup, ok := p.store[key]; ok {
			results[key] = &lookup
		} else {
			results[key] = nil
		}
	}
	p.mut.RUnlock()

	for key, lookup := range results {
		if err := onResult(key, lookup); err != nil {
			return err
		}
	}
	return nil
}

func (p *getPipeline) Size() int {
	return len(p.keys)
}

type setPipeline struct {
	*local
	lookups map[string]cache.Lookup
}

func (p *setPipeline) Set(key string, lookup cache.Lookup) {
	p.lookups[key] = lookup
}

func (p *setPipeline) ExecSet(_ context.Context) error {
	p.mut.Lock()
	defer p.mut.Unlock()

	for key, lookup := range p.lookups {
		p.store[key] = lookup
	}
	return nil
}

func (p *setPipeline) Size() int {
	return len(p.lookups)
}
