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

package entity

import "strings"

// Type is the semantic category of an entity. It selects the default
// validation pattern when a label does not declare its own.
type Type string

const (
	TypeNone        Type = ""
	TypeCustom      Type = "custom"
	TypeString      Type = "string"
	TypeInteger     Type = "integer"
	TypeFloat       Type = "float"
	TypeDate        Type = "date"
	TypeEmail       Type = "email"
	TypeWebsiteURL  Type = "website_url"
	TypePhoneNumber Type = "phone_number"
)

const (
	RegexString      = `.*`
	RegexInteger     = `\d+`
	RegexFloat       = `[\d\.,]+`
	RegexEmail       = "[a-zA-Z0-9.!#$%&’*+/=?^_`{|}~-]+@[a-zA-Z0-9-]+(?:\\.[a-zA-Z0-9-]+)*"
	RegexPhoneNumber = `[(]?[\+]?[(]?[0-9]{1,3}[)]?[-\s\.]?([0-9]{2,}[-\s\.]?){2,}([0-9]{3,})`
	RegexWebsiteURL  = `((https?|ftp|smtp):\/\/)?(www.)?([a-zA-Z0-9]+\.)+[a-z]{2,}(\/[a-zA-Z0-9#\?\_\.\=\-\&]+|\/?)*`

	// DefaultRegex is used for types missing from the lookup table.
	DefaultRegex = RegexString
)

// month names per language, longest alternatives first
var dateAlternatives = []string{
	// numeric
	`(\d{4}[-/.\s]\d{1,2}[-/.\s]\d{1,2}(?:[ T]\d{2}:\d{2}:\d{2})?)`,
	`(\d{1,2}[-/.\s]\d{1,2}[-/.\s]\d{4}(?:[ T]\d{2}:\d{2}:\d{2})?)`,
	`(\d{1,2}[-/.\s]\d{1,2}[-/.\s]\d{4}(?:[ T]\d{2}:\d{2})?)`,
	`(\d{4}[-/.\s]\d{1,2}[-/.\s]\d{1,2}(?:[ T]\d{2}:\d{2})?)`,
	`(\d{4}[-/.\s]\d{1,2}[-/.\s]\d{1,2}(?:[ T]\d{2}:\d{2} [APap][mM])?)`,
	`(\d{1,2}[-/.\s]\d{1,2}[-/.\s]\d{4}(?:[ T]\d{2}:\d{2} [APap][mM])?)`,
	// english
	`(\d{1,2}[ ](January|February|March|April|May|June|July|August|September|October|November|December)[ ]\d{4}(?:[ ]?\d{2}:\d{2}:\d{2})?)`,
	`(\d{1,2}[ ](Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[ ]\d{4}(?:[ ]?\d{2}:\d{2}:\d{2})?)`,
	`(\d{1,2}[ ](January|February|March|April|May|June|July|August|September|October|November|December)[ ]\d{4}(?:[ ]?\d{2}:\d{2}[ ]?[APap][mM])?)`,
	`([A-Za-z]+,[ ]\d{1,2}[ ](January|February|March|April|May|June|July|August|September|October|November|December),?[ ]\d{4}(?:[ ]?\d{2}:\d{2}:\d{2})?)`,
	`([A-Za-z]+,[ ](January|February|March|April|May|June|July|August|September|October|November|December)[ ]\d{1,2},?[ ]\d{4}(?:[ ]?\d{2}:\d{2}:\d{2})?)`,
	`((January|February|March|April|May|June|July|August|September|October|November|December)[ ]\d{1,2},[ ]\d{4})`,
	// dutch
	`(\d{1,2}[\.]?[ ](januari|februari|maart|april|mei|juni|juli|augustus|september|oktober|november|december)[ ]\d{4}(?:[ ]?\d{2}:\d{2}(?::\d{2})?)?)`,
	`(\d{1,2}[\.]?[ ](jan|feb|mrt|apr|mei|jun|jul|aug|sep|okt|nov|dec)[\.]?[ ]\d{4}(?:[ ]?\d{2}:\d{2}(?::\d{2})?)?)`,
	// french
	`(\d{1,2}(er)?[ ](janvier|février|mars|avril|mai|juin|juillet|août|septembre|octobre|novembre|décembre)[ ]\d{4}(?:[ ]?\d{2}:\d{2}(?::\d{2})?)?)`,
	`(\d{1,2}(er)?[ ](jan|févr|mars|avr|mai|juin|juil|août|sept|oct|nov|déc)[\.]?[ ]\d{4}(?:[ ]?\d{2}:\d{2}(?::\d{2})?)?)`,
	// german
	`(\d{1,2}[\.]?[ ](Januar|Februar|März|April|Mai|Juni|Juli|August|September|Oktober|November|Dezember)[ ]\d{4}(?:[ ]?\d{2}:\d{2}(?::\d{2})?)?)`,
	`(\d{1,2}[\.]?[ ](Jan|Feb|Mär|Apr|Mai|Jun|Jul|Aug|Sep|Okt|Nov|Dez)[\.]?[ ]\d{4}(?:[ ]?\d{2}:\d{2}(?::\d{2})?)?)`,
	// slovene
	`(\d{1,2}[\.]?[ ](januar|februar|marec|april|maj|junij|julij|avgust|september|oktober|november|december)[ ]\d{4}(?:[ ]?\d{2}:\d{2}(?::\d{2})?)?)`,
	`(\d{1,2}[\.]?[ ](januarja|februarja|marca|aprila|maja|junija|julija|avgusta|septembra|oktobra|novembra|decembra)[ ]\d{4}(?:[ ]?\d{2}:\d{2}(?::\d{2})?)?)`,
	// italian
	`(\d{1,2}°?[ ](gennaio|febbraio|marzo|aprile|maggio|giugno|luglio|agosto|settembre|ottobre|novembre|dicembre)[ ]\d{4}(?:[ ]?\d{2}:\d{2}(?::\d{2})?)?)`,
	// spanish
	`(\d{1,2}°?( de)?[ ](enero|febrero|marzo|abril|mayo|junio|julio|agosto|septiembre|octubre|noviembre|diciembre)( de)?[ ]\d{4}(?:[ ]?\d{2}:\d{2}(?::\d{2})?)?)`,
}

// RegexDate matches the numeric and written date formats of the supported languages.
var RegexDate = "(" + strings.Join(dateAlternatives, "|") + ")"

var regexByType = map[Type]string{
	TypeString:      RegexString,
	TypeInteger:     RegexInteger,
	TypeFloat:       RegexFloat,
	TypeDate:        RegexDate,
	TypeEmail:       RegexEmail,
	TypePhoneNumber: RegexPhoneNumber,
	TypeWebsiteURL:  RegexWebsiteURL,
}

// RegexFor returns the default validation pattern for t. Types without an
// entry, including TypeNone and TypeCustom, get DefaultRegex.
func RegexFor(t Type) string {
	if re, ok := regexByType[t]; ok {
		return re
	}
	return DefaultRegex
}
