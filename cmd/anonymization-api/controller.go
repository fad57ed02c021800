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

package main

import (
	"context"
	"errors"
	"io"

	"gitlab.mdcatapult.io/informatics/software-engineering/anonymizer/lib/anonymizer"
	"gitlab.mdcatapult.io/informatics/software-engineering/anonymizer/lib/entity"
	"gitlab.mdcatapult.io/informatics/software-engineering/anonymizer/lib/extractor"
	"gitlab.mdcatapult.io/informatics/software-engineering/anonymizer/lib/pipeline"
	"gitlab.mdcatapult.io/informatics/software-engineering/anonymizer/lib/text"
)

type contentType int

const (
	contentTypePlaintext contentType = iota
	contentTypeHTML
)

var allowedContentTypeEnumMap = map[string]contentType{
	"text/plain": contentTypePlaintext,
	"text/html":  contentTypeHTML,
}

type controller struct {
	anonymizer *anonymizer.Anonymizer
}

func (c controller) ListExtractors() []string {
	return c.anonymizer.ExtractorNames()
}

func (c controller) ListLabels() extractor.Labels {
	return c.anonymizer.Labels()
}

func (c controller) HTMLToText(reader io.Reader) (string, error) {
	return readText(reader, contentTypeHTML)
}

func (c controller) Tokenize(reader io.Reader, ct contentType) ([]text.Token, error) {
	source, err := readText(reader, ct)
	if err != nil {
		return nil, err
	}
	tokens, err := text.Tokens(source, false)
	if err != nil {
		return nil, err
	}
	if tokens == nil {
		tokens = []text.Token{}
	}
	return tokens, nil
}

func (c controller) Extract(ctx context.Context, reader io.Reader, ct contentType, extractors []string) ([]entity.Entity, error) {
	source, err := readText(reader, ct)
	if err != nil {
		return nil, err
	}
	ex, err := c.anonymizer.Extractor(extractors...)
	if err != nil {
		return nil, asHttpError(err)
	}
	entities, err := ex.Extract(ctx, source)
	if err != nil {
		return nil, err
	}
	if entities == nil {
		entities = []entity.Entity{}
	}
	return entities, nil
}

func (c controller) Anonymize(ctx context.Context, reader io.Reader, ct contentType, policy string, extractors []string) (pipeline.Result, error) {
	source, err := readText(reader, ct)
	if err != nil {
		return pipeline.Result{}, err
	}
	p, err := c.anonymizer.Pipeline(policy, extractors...)
	if err != nil {
		return pipeline.Result{}, asHttpError(err)
	}
	return p.Anonymize(ctx, source)
}

func readText(reader io.Reader, ct contentType) (string, error) {
	if ct == contentTypeHTML {
		s, err := text.HtmlToText(reader)
		if err != nil {
			return "", NewHttpError(400, err)
		}
		return s, nil
	}
	b, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// asHttpError turns errors caused by the request into bad requests.
func asHttpError(err error) error {
	if errors.Is(err, anonymizer.ErrUnknownExtractor) || errors.Is(err, anonymizer.ErrUnknownPolicy) {
		return NewHttpError(400, err)
	}
	return err
}
