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

	"github.com/stretchr/testify/mock"

	"gitlab.mdcatapult.io/informatics/software-engineering/anonymizer/lib/entity"
)

const medicalRecord = `Medical Record

Patient Name: John Doe
Date of Birth: 15-01-1985
Date of Examination: 20-05-2024
Social Security Number: 123-45-6789

Examination Procedure:
John Doe underwent a routine physical examination. The procedure included measuring vital signs (blood pressure, heart rate, temperature), a comprehensive blood panel, and a cardiovascular stress test. The patient also reported occasional headaches and dizziness, prompting a neurological assessment and an MRI scan to rule out any underlying issues.

Medication Prescribed:

Ibuprofen 200 mg: Take one tablet every 6-8 hours as needed for headache and pain relief.
Lisinopril 10 mg: Take one tablet daily to manage high blood pressure.
Next Examination Date:
15-11-2024
`

type mockBackend struct {
	mock.Mock
}

func (m *mockBackend) Predict(ctx context.Context, req Request) ([]Span, error) {
	args := m.Called(ctx, req)
	spans, _ := args.Get(0).([]Span)
	return spans, args.Error(1)
}

type stubExtractor struct {
	entities []entity.Entity
	err      error
}

func (s stubExtractor) Extract(context.Context, string) ([]entity.Entity, error) {
	return s.entities, s.err
}
