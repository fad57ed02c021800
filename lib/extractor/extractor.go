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

	"gitlab.mdcatapult.io/informatics/software-engineering/anonymizer/lib/entity"
)

var (
	ErrUnknownLabel     = errors.New("unknown label")
	ErrNoExtractors     = errors.New("at least one extractor is required")
	ErrInvalidExtractor = errors.New("invalid extractor")
)

// Extractor finds the entities of a text. Entities are returned ascending by start index.
type Extractor interface {
	Extract(ctx context.Context, text string) ([]entity.Entity, error)
}
