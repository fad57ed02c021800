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
	"fmt"
	"time"

	"gitlab.mdcatapult.io/informatics/software-engineering/anonymizer/lib/entity"
)

type Operation string

const (
	FirstDayOfTheMonth Operation = "first_day_of_the_month"
	LastDayOfTheMonth  Operation = "last_day_of_the_month"
	MiddleOfTheMonth   Operation = "middle_of_the_month"
	MiddleOfTheYear    Operation = "middle_of_the_year"
	Random             Operation = "random"
)

const DefaultSigma = 30

// Layouts are tried in order when a date generator has no layout of its own.
// Day first layouts come before month first ones.
var Layouts = []string{
	"2006-01-02 15:04:05",
	"02-01-2006 15:04:05",
	"01-02-2006 15:04:05",
	"2006/01/02 15:04:05",
	"02/01/2006 15:04:05",
	"01/02/2006 15:04:05",
	"2006.01.02 15:04:05",
	"02.01.2006 15:04:05",
	"01.02.2006 15:04:05",
	"2006 01 02 15:04:05",
	"02 01 2006 15:04:05",
	"2006-01-02 03:04 PM",
	"02-01-2006 03:04 PM",
	"01-02-2006 03:04 PM",
	"2006/01/02 03:04 PM",
	"02/01/2006 03:04 PM",
	"01/02/2006 03:04 PM",
	"2006-01-02 15:04",
	"02-01-2006 15:04",
	"01-02-2006 15:04",
	"2006/01/02 15:04",
	"02/01/2006 15:04",
	"01/02/2006 15:04",
	"2006.01.02 15:04",
	"02.01.2006 15:04",
	"01.02.2006 15:04",
	"Monday, 02 January 2006 15:04:05",
	"Monday, January 02, 2006 15:04:05",
	"January 02, 2006 15:04:05",
	"02 January 2006 15:04:05",
	"Jan 02, 2006 15:04:05",
	"02 Jan 2006 15:04:05",
	"2006-01-02",
	"02-01-2006",
	"01-02-2006",
	"2006/01/02",
	"02/01/2006",
	"01/02/2006",
	"2006.01.02",
	"02.01.2006",
	"2.1.2006",
	"01.02.2006",
	"2006 01 02",
	"02 01 2006",
	"January 2, 2006",
	"January 02, 2006",
	"2 January 2006",
	"02 January 2006",
	"Jan 2, 2006",
	"Jan 02, 2006",
	"2 Jan 2006",
	"02 Jan 2006",
	"Monday, 2 January 2006",
	"Monday, January 2, 2006",
}

// Date moves a date according to Operation and writes it back in the layout
// it was found in.
type Date struct {
	// Layout is the Go time layout of the entities, empty to detect it.
	Layout    string
	Operation Operation
	// Sigma is the maximum number of days a random date is moved by.
	Sigma int
	src   source
}

func NewDate(layout string, operation Operation, sigma int) (*Date, error) {
	if operation == "" {
		operation = Random
	}
	switch operation {
	case FirstDayOfTheMonth, LastDayOfTheMonth, MiddleOfTheMonth, MiddleOfTheYear, Random:
	default:
		return nil, fmt.Errorf("unknown date operation %q", operation)
	}
	if sigma <= 0 {
		sigma = DefaultSigma
	}
	return &Date{Layout: layout, Operation: operation, Sigma: sigma, src: defaultSource()}, nil
}

func (d *Date) Generate(e entity.Entity) (string, error) {
	if err := checkType("date", e, entity.TypeDate); err != nil {
		return "", err
	}

	date, layout, err := d.parse(e.Text)
	if err != nil {
		return "", err
	}
	return d.apply(date).Format(layout), nil
}

func (d *Date) parse(text string) (time.Time, string, error) {
	if d.Layout != "" {
		date, err := time.Parse(d.Layout, text)
		if err != nil {
			return time.Time{}, "", fmt.Errorf("entity %q is not a valid date: %w", text, err)
		}
		return date, d.Layout, nil
	}
	date, layout, ok := DetectLayout(text)
	if !ok {
		return time.Time{}, "", fmt.Errorf("entity %q is not a valid date", text)
	}
	return date, layout, nil
}

func (d *Date) apply(date time.Time) time.Time {
	switch d.Operation {
	case FirstDayOfTheMonth:
		return time.Date(date.Year(), date.Month(), 1, date.Hour(), date.Minute(), date.Second(), 0, date.Location())
	case LastDayOfTheMonth:
		// day 0 of the next month is the last day of this one
		return time.Date(date.Year(), date.Month()+1, 0, date.Hour(), date.Minute(), date.Second(), 0, date.Location())
	case MiddleOfTheMonth:
		return time.Date(date.Year(), date.Month(), 15, date.Hour(), date.Minute(), date.Second(), 0, date.Location())
	case MiddleOfTheYear:
		return time.Date(date.Year(), time.July, 1, date.Hour(), date.Minute(), date.Second(), 0, date.Location())
	default:
		delta := d.src.Intn(2*d.Sigma+1) - d.Sigma
		return date.AddDate(0, 0, delta)
	}
}

// DetectLayout finds the first of Layouts that parses text and formats the
// parsed date back to exactly text.
func DetectLayout(text string) (time.Time, string, bool) {
	for _, layout := range Layouts {
		date, err := time.Parse(layout, text)
		if err != nil {
			continue
		}
		if date.Format(layout) == text {
			return date, layout, true
		}
	}
	return time.Time{}, "", false
}
