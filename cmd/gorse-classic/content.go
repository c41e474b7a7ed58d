// Copyright 2020 gorse Project Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"github.com/gorse-io/classic/recommend"
	"github.com/gorse-io/classic/similarity"
	"github.com/juju/errors"
	"github.com/spf13/cobra"
)

func (a *app) newContentCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "content",
		Short: "Recommend documents with similar descriptions",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("input")
			if path == "" {
				return errors.NotValidf("empty input path")
			}
			sep, _ := cmd.Flags().GetString("sep")
			titleColumn, _ := cmd.Flags().GetString("title-col")
			textColumn, _ := cmd.Flags().GetString("text-col")
			query, _ := cmd.Flags().GetString("title")
			var titles, texts []string
			err := readTable(path, sep, []string{titleColumn, textColumn}, func(fields map[string]string) error {
				if fields[titleColumn] != "" {
					titles = append(titles, fields[titleColumn])
					texts = append(texts, fields[textColumn])
				}
				return nil
			})
			if err != nil {
				return errors.Trace(err)
			}
			tfidf := &similarity.TFIDF{MaxFeatures: a.conf.Content.MaxFeatures}
			if a.conf.Content.StopWords {
				tfidf.StopWords = similarity.EnglishStopWords
			}
			recommender, err := recommend.NewContentBased(titles, texts, tfidf, a.conf.Runtime.Jobs)
			if err != nil {
				return errors.Trace(err)
			}
			list, err := recommender.Recommend(cmd.Context(), query, countFlag(cmd, a.conf.Content.N))
			if err != nil {
				return errors.Trace(err)
			}
			return writeList(cmd.OutOrStdout(), "Title", list)
		},
	}
	cmd.Flags().StringP("input", "i", "", "path of the CSV file")
	cmd.Flags().String("sep", ",", "field separator")
	cmd.Flags().String("title-col", "title", "column of titles")
	cmd.Flags().String("text-col", "overview", "column of descriptions")
	cmd.Flags().String("title", "", "query title")
	cmd.Flags().IntP("n", "n", 0, "number of recommendations, overrides content.n")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}
