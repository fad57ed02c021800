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

package remote

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis"

	"gitlab.mdcatapult.io/informatics/software-engineering/anonymizer/lib/cache"
)

type RedisConfig struct {
	Host string
	Port int
}

func NewRedisClient(conf RedisConfig) cache.Client {
	return &redisClient{
		Client: redis.NewClient(&redis.Options{
			Addr: fmt.Sprintf("%s:%d", conf.Host, conf.Port)}),
	}
}

type redisClient struct {
	*redis.Client
}

type redisGetPipeline struct {
	client *redisClient
	keys   []string
}

type redisSetPipeline struct {
	client  *redisClient
	lookups map[string]cache.Lookup
}

func (r *redisClient) NewGetPipeline(size int) cache.GetPipeline {
	return &redisGetPipeline{
		client: r,
		keys:   make([]string, 0, size),
	}
}

func (r *redisClient) NewSetPipeline(size int) cache.SetPipeline {
	return &redisSetPipeline{
		client:  r,
		lookups: make(map[string]cache.Lookup, size),
	}
}

func (r *redisClient) Ready() bool {
	return r.Ping().Err() == nil
}

func (r *redisSetPipeline) Set(key string, lookup cache.Lookup) {
	r.lookups[key] = lookup
}

func (r *redisSetPipeline) ExecSet(ctx context.Context) error {
	pipe := r.client.WithContext(ctx).Pipeline()
	for key, lookup := range r.lookups {
		data, err := json.Marshal(lookup)
		if err != nil {
			return err
		}
		pipe.Set(key, data, 0)
	}
	_, err := pipe.Exec()
	return err
}

func (r *redisSetPipeline) Size() int {
	return len(r.lookups)
}

func (r *redisGetPipeline) Get(key string) {
	r.keys = append(r.keys, key)
}

func (r *redisGetPipeline) ExecGet(ctx context.Context, onResult func(string, *cache.Lookup) error) error {
	pipe := r.client.WithContext(ctx).Pipeline()
	cmds := make(map[string]*redis.StringCmd, len(r.keys))
	for _, key := range r.keys {
		if _, ok := cmds[key]; !ok {
			cmds[key] = pipe.Get(key)
		}
	}

	_, err := pipe.Exec()
	if err != nil && err != redis.Nil {
		return err
	}

	for key, cmd := range cmds {
		b, err := cmd.Bytes()
		if err == redis.Nil {
			if err = onResult(key, nil); err != nil {
				return err
			}
			continue
		} else if err != nil {
			return err
		}

		var lookup cache.Lookup
		if err = json.Unmarshal(b, &lookup); err != nil {
			return err
		}

		if err = onResult(key, &lookup); err != nil {
			return err
		}
	}

	return nil
}

func (r *redisGetPipeline) Size() int {
	return len(r.keys)
}
