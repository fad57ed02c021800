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
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"gitlab.mdcatapult.io/informatics/software-engineering/anonymizer/lib"
	"gitlab.mdcatapult.io/informatics/software-engineering/anonymizer/lib/anonymizer"
	"gitlab.mdcatapult.io/informatics/software-engineering/anonymizer/lib/text"
)

type options struct {
	policy     string
	extractors []string
	html       bool
	jsonOutput bool
	entities   bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "anonymize [file]",
		Short: "Anonymize the entities of a text",
		Long: `Finds the entities of a text with the configured extractors and replaces
them according to a policy. The text is read from the file argument or from
standard input when no file is given.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args, opts)
		},
	}

	lib.AddConfigFlag(cmd.PersistentFlags(), "./config/anonymize.yml")
	cmd.Flags().StringVarP(&opts.policy, "policy", "p", anonymizer.PolicyRedact,
		fmt.Sprintf("anonymization policy: %s, %s or %s", anonymizer.PolicyRedact, anonymizer.PolicyMask, anonymizer.PolicyPseudonymize))
	cmd.Flags().StringSliceVarP(&opts.extractors, "extractor", "e", nil, "extractors to run, all when unset")
	cmd.Flags().BoolVar(&opts.html, "html", false, "read the input as HTML")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "print the entities and replacements as JSON")
	cmd.Flags().BoolVar(&opts.entities, "entities", false, "only print the entities found, as JSON")
	return cmd
}

func run(cmd *cobra.Command, args []string, opts *options) error {
	var conf anonymizer.Config
	if err := lib.LoadConfig(cmd.PersistentFlags(), anonymizer.DefaultConfig, &conf); err != nil {
		return err
	}

	input, err := readInput(cmd, args, opts.html)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	a, err := anonymizer.Load(ctx, conf)
	if err != nil {
		return err
	}
	defer a.Close()

	out := cmd.OutOrStdout()
	if opts.entities {
		ex, err := a.Extractor(opts.extractors...)
		if err != nil {
			return err
		}
		entities, err := ex.Extract(ctx, input)
		if err != nil {
			return err
		}
		return writeJSON(out, entities)
	}

	p, err := a.Pipeline(opts.policy, opts.extractors...)
	if err != nil {
		return err
	}
	result, err := p.Anonymize(ctx, input)
	if err != nil {
		return err
	}
	if opts.jsonOutput {
		return writeJSON(out, result)
	}
	_, err = io.WriteString(out, result.Text)
	if err == nil && !strings.HasSuffix(result.Text, "\n") {
		_, err = io.WriteString(out, "\n")
	}
	return err
}

func readInput(cmd *cobra.Command, args []string, html bool) (string, error) {
	var r io.Reader = cmd.InOrStdin()
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return "", err
		}
		defer f.Close()
		r = f
	}
	if html {
		return text.HtmlToText(r)
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
