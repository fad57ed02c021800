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

package cache

import "context"

// Lookup is the value stored against a normalised dictionary term.
type Lookup struct {
	Label string  `json:"label"`
	Score float64 `json:"score,omitempty"`
}

type Type string

const (
	Local         Type = "local"
	Redis         Type = "redis"
	Elasticsearch Type = "elasticsearch"
)

// Client stores lookups by key. Reads and writes are batched in pipelines.
type Client interface {
	NewGetPipeline(size int) GetPipeline
	NewSetPipeline(size int) SetPipeline
	Ready() bool
}

type Pipeline interface {
	Size() int
}

// GetPipeline queues keys and resolves them in one round trip. onResult is
// called once per distinct key with a nil lookup for misses, in no particular order.
type GetPipeline interface {
	Get(key string)
	ExecGet(ctx context.Context, onResult func(key string, lookup *Lookup) error) error
	Pipeline
}

type SetPipeline interface {
	Set(key string, lookup Lookup)
	ExecSet(ctx context.Context) error
	Pipeline
}
