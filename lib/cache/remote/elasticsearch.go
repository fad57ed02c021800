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
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/elastic/go-elasticsearch/v7"

	"gitlab.mdcatapult.io/informatics/software-engineering/anonymizer/lib/cache"
)

type ElasticsearchConfig struct {
	Host  string
	Port  int
	Index string
}

// esLookup is the document indexed for every dictionary term.
type esLookup struct {
	Term  string  `json:"term"`
	Label string  `json:"label"`
	Score float64 `json:"score,omitempty"`
}

type esResponse struct {
	Responses []struct {
		Hits struct {
			Hits []struct {
				Source esLookup `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
		Status int `json:"status"`
	} `json:"responses"`
}

func NewElasticsearchClient(conf ElasticsearchConfig) (cache.Client, error) {
	return newElasticsearchClient(elasticsearch.Config{
		Addresses: []string{fmt.Sprintf("http://%s:%d", conf.Host, conf.Port)},
	}, conf.Index)
}

func newElasticsearchClient(config elasticsearch.Config, index string) (cache.Client, error) {
	c, err := elasticsearch.NewClient(config)
	if err != nil {
		return nil, err
	}
	return &esClient{
		Client: c,
		index:  index,
	}, nil
}

type esClient struct {
	*elasticsearch.Client
	index string
}

func (e *esClient) Ready() bool {
	res, err := e.Info()
	if err != nil {
		return false
	}
	defer res.Body.Close()
	return res.StatusCode == 200
}

func (e *esClient) NewGetPipeline(size int) cache.GetPipeline {
	return &esPipeline{
		esClient: e,
		buf:      bytes.NewBuffer(nil),
		keys:     make([]string, 0, size),
	}
}

func (e *esClient) NewSetPipeline(size int) cache.SetPipeline {
	return &esPipeline{
		esClient: e,
		buf:      bytes.NewBuffer(nil),
		keys:     make([]string, 0, size),
	}
}

type esPipeline struct {
	*esClient
	buf  *bytes.Buffer
	keys []string
	err  error
}

func (p *esPipeline) write(v interface{}) {
	if p.err != nil {
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		p.err = err
		return
	}
	p.buf.Write(b)
	p.buf.WriteByte('\n')
}

func (p *esPipeline) Set(key string, lookup cache.Lookup) {
	p.write(map[string]interface{}{"index": map[string]string{"_id": key}})
	p.write(esLookup{Term: key, Label: lookup.Label, Score: lookup.Score})
	p.keys = append(p.keys, key)
}

func (p *esPipeline) ExecSet(ctx context.Context) error {
	if p.err != nil {
		return p.err
	}
	res, err := p.Bulk(p.buf, p.Bulk.WithIndex(p.index), p.Bulk.WithContext(ctx))
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.IsError() {
		return errors.New(res.String())
	}
	return nil
}

func (p *esPipeline) Get(key string) {
	p.write(map[string]interface{}{})
	p.write(map[string]interface{}{
		"size":  1,
		"query": map[string]interface{}{"term": map[string]string{"term": key}},
	})
	p.keys = append(p.keys, key)
}

func (p *esPipeline) ExecGet(ctx context.Context, onResult func(string, *cache.Lookup) error) error {
	if p.err != nil {
		return p.err
	}
	if len(p.keys) == 0 {
		return nil
	}
	res, err := p.Msearch(p.buf, p.Msearch.WithIndex(p.index), p.Msearch.WithContext(ctx))
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.IsError() {
		return errors.New(res.String())
	}

	b, err := io.ReadAll(res.Body)
	if err != nil {
		return err
	}
	var esresponse esResponse
	if err := json.Unmarshal(b, &esresponse); err != nil {
		return err
	}
	if len(esresponse.Responses) != len(p.keys) {
		return fmt.Errorf("elasticsearch returned %d responses for %d queries", len(esresponse.Responses), len(p.keys))
	}

	seen := make(map[string]struct{}, len(p.keys))
	for i, response := range esresponse.Responses {
		key := p.keys[i]
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}

		var lookup *cache.Lookup
		if len(response.Hits.Hits) > 0 {
			source := response.Hits.Hits[0].Source
			lookup = &cache.Lookup{Label: source.Label, Score: source.Score}
		}
		if err := onResult(key, lookup); err != nil {
			return err
		}
	}
	return nil
}

func (p *esPipeline) Size() int {
	return len(p.keys)
}
