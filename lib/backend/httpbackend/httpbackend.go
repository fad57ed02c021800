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

package httpbackend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"gitlab.mdcatapult.io/informatics/software-engineering/anonymizer/lib"
	"gitlab.mdcatapult.io/informatics/software-engineering/anonymizer/lib/extractor"
)

type Config struct {
	Url             string     `mapstructure:"url"`
	QueryParameters url.Values `mapstructure:"query_parameters"`
}

// Response is the body a model server answers a prediction request with.
type Response struct {
	Entities []extractor.Span `json:"entities"`
}

func New(config Config) *Backend {
	return &Backend{
		config:     config,
		httpClient: http.DefaultClient,
	}
}

// Backend posts the text to a model server over HTTP and reads back its
// predictions.
type Backend struct {
	config     Config
	httpClient lib.HttpClient
}

func (b *Backend) url() string {
	if len(b.config.QueryParameters) == 0 {
		return b.config.Url
	}
	return b.config.Url + "?" + b.config.QueryParameters.Encode()
}

func (b *Backend) Predict(ctx context.Context, req extractor.Request) ([]extractor.Span, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, b.url(), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := b.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("model server responded %d: %s", resp.StatusCode, string(respBody))
	}

	var response Response
	if err := json.Unmarshal(respBody, &response); err != nil {
		return nil, err
	}
	return response.Entities, nil
}
