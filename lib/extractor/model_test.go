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

package extractor

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"gitlab.mdcatapult.io/informatics/software-engineering/anonymizer/lib/blocklist"
	"gitlab.mdcatapult.io/informatics/software-engineering/anonymizer/lib/entity"
)

type ModelExtractorSuite struct {
	suite.Suite
	labels Labels
}

func TestModelExtractorSuite(t *testing.T) {
	suite.Run(t, new(ModelExtractorSuite))
}

func (s *ModelExtractorSuite) SetupTest() {
	s.labels = Labels{
		{Label: "name", Type: entity.TypeString},
		{Label: "social security number", Type: entity.TypeCustom, Regex: "[0-9]{3}-[0-9]{2}-[0-9]{4}"},
		{Label: "date of birth", Type: entity.TypeDate},
		{Label: "date", Type: entity.TypeDate},
	}
}

func (s *ModelExtractorSuite) Test_Extract() {
	backend := new(mockBackend)
	backend.On("Predict", mock.Anything, Request{
		Text:      medicalRecord,
		Labels:    []string{"name", "social security number", "date of birth", "date"},
		Threshold: 0.7,
	}).Return([]Span{
		{Label: "date of birth", Start: 54, End: 64, Score: 0.9},
		{Label: "name", Start: 30, End: 38, Score: 0.95},
		{Label: "social security number", Start: 121, End: 132, Score: 0.8},
		// rejected by the date regex
		{Label: "date", Start: 157, End: 165, Score: 0.6},
	}, nil)

	extractor, err := NewModelExtractor(backend, s.labels, WithThreshold(0.7))
	s.Require().NoError(err)

	entities, err := extractor.Extract(context.Background(), medicalRecord)
	s.Require().NoError(err)
	backend.AssertExpectations(s.T())

	s.Require().Len(entities, 3)
	s.Equal(entity.Entity{
		Text: "John Doe", Label: "name", StartIndex: 30, EndIndex: 38, Score: 0.95,
		Type: entity.TypeString, Regex: entity.RegexString,
	}, entities[0])
	s.Equal("15-01-1985", entities[1].Text)
	s.Equal(entity.RegexDate, entities[1].Regex)
	s.Equal("123-45-6789", entities[2].Text)
	s.Equal("[0-9]{3}-[0-9]{2}-[0-9]{4}", entities[2].Regex)
}

func (s *ModelExtractorSuite) Test_Extract_UnknownLabel() {
	backend := new(mockBackend)
	backend.On("Predict", mock.Anything, mock.Anything).Return([]Span{
		{Label: "diagnosis", Start: 0, End: 7, Score: 0.9},
	}, nil)

	extractor, err := NewModelExtractor(backend, s.labels)
	s.Require().NoError(err)

	_, err = extractor.Extract(context.Background(), medicalRecord)
	s.ErrorIs(err, ErrUnknownLabel)
	s.Contains(err.Error(), "diagnosis")
}

func (s *ModelExtractorSuite) Test_Extract_InvalidOffsets() {
	backend := new(mockBackend)
	backend.On("Predict", mock.Anything, mock.Anything).Return([]Span{
		{Label: "name", Start: 700, End: 800, Score: 0.9},
	}, nil)

	extractor, err := NewModelExtractor(backend, s.labels)
	s.Require().NoError(err)

	_, err = extractor.Extract(context.Background(), medicalRecord)
	s.ErrorIs(err, entity.ErrInvalidOffsets)
}

func (s *ModelExtractorSuite) Test_Extract_BackendError() {
	failure := errors.New("model unavailable")
	backend := new(mockBackend)
	backend.On("Predict", mock.Anything, mock.Anything).Return(nil, failure)

	extractor, err := NewModelExtractor(backend, s.labels)
	s.Require().NoError(err)

	_, err = extractor.Extract(context.Background(), medicalRecord)
	s.ErrorIs(err, failure)
}

func (s *ModelExtractorSuite) Test_Extract_RepeatsAndBlocklist() {
	backend := new(mockBackend)
	backend.On("Predict", mock.Anything, mock.Anything).Return([]Span{
		{Label: "name", Start: 30, End: 38, Score: 0.95},
		{Label: "name", Start: 24, End: 28, Score: 0.55},
	}, nil)

	bl := blocklist.New(nil, []string{"name"})
	extractor, err := NewModelExtractor(backend, s.labels, WithBlocklist(&bl), WithRepeatDetection(true))
	s.Require().NoError(err)

	entities, err := extractor.Extract(context.Background(), medicalRecord)
	s.Require().NoError(err)
	s.Require().Len(entities, 2)
	s.Equal(30, entities[0].StartIndex)
	s.Equal(157, entities[1].StartIndex)
	s.Equal(165, entities[1].EndIndex)
	s.Equal(0.95, entities[1].Score)
}

func (s *ModelExtractorSuite) Test_New_CustomWithoutRegex() {
	_, err := NewModelExtractor(new(mockBackend), Labels{{Label: "id", Type: entity.TypeCustom}})
	s.ErrorIs(err, entity.ErrCustomRegexRequired)
}
