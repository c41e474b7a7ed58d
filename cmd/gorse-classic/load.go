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
	"bufio"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/gorse-io/classic/base"
	"github.com/gorse-io/classic/base/log"
	"github.com/gorse-io/classic/dataset"
	"github.com/juju/errors"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

// csvSource describes which columns of a CSV file with a header line form
// records.
type csvSource struct {
	Path      string
	Sep       string
	Row       string
	Column    string
	Value     string
	Timestamp string
	// Where keeps lines whose column equals the value.
	Where map[string]string
	// Exclude drops lines whose column contains the value.
	Exclude map[string]string
}

func addSourceFlags(flags *pflag.FlagSet, row, column, value, timestamp string) {
	flags.StringP("input", "i", "", "path of the CSV file")
	flags.String("sep", ",", "field separator")
	flags.String("row-col", row, "column of row ids")
	flags.String("column-col", column, "column of column ids")
	flags.String("value-col", value, "column of values, empty means 1")
	flags.String("time-col", timestamp, "column of timestamps, empty means none")
	flags.StringToString("where", nil, "keep lines whose column equals the value")
	flags.StringToString("exclude", nil, "drop lines whose column contains the value")
}

func sourceFromFlags(flags *pflag.FlagSet) (*csvSource, error) {
	s := &csvSource{}
	s.Path, _ = flags.GetString("input")
	if s.Path == "" {
		return nil, errors.NotValidf("empty input path")
	}
	s.Sep, _ = flags.GetString("sep")
	s.Row, _ = flags.GetString("row-col")
	s.Column, _ = flags.GetString("column-col")
	s.Value, _ = flags.GetString("value-col")
	s.Timestamp, _ = flags.GetString("time-col")
	s.Where, _ = flags.GetStringToString("where")
	s.Exclude, _ = flags.GetStringToString("exclude")
	return s, nil
}

// readTable calls handler with the named fields of each line after the header.
func readTable(path, sep string, columns []string, handler func(fields map[string]string) error) error {
	file, err := os.Open(path)
	if err != nil {
		return errors.Trace(err)
	}
	defer file.Close()
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), 16*1024*1024)
	var (
		header  map[string]int
		failure error
	)
	err = base.ReadLines(scanner, sep, func(line int, values []string) bool {
		if header == nil {
			header = make(map[string]int, len(values))
			for i, name := range values {
				header[strings.TrimPrefix(strings.TrimSpace(name), "\ufeff")] = i
			}
			for _, name := range columns {
				if _, ok := header[name]; name != "" && !ok {
					failure = errors.NotFoundf("column %s in %s", name, path)
					return false
				}
			}
			return true
		}
		fields := make(map[string]string, len(header))
		for name, i := range header {
			if i < len(values) {
				fields[name] = values[i]
			}
		}
		if failure = handler(fields); failure != nil {
			return false
		}
		return true
	})
	if err != nil {
		return errors.Trace(err)
	}
	return failure
}

// load reads records. Lines with a blank id, an unparsable value or an
// unparsable timestamp are skipped.
func (s *csvSource) load() ([]dataset.Record, error) {
	columns := []string{s.Row, s.Column, s.Value, s.Timestamp}
	for name := range s.Where {
		columns = append(columns, name)
	}
	for name := range s.Exclude {
		columns = append(columns, name)
	}
	var (
		records []dataset.Record
		skipped int
	)
	err := readTable(s.Path, s.Sep, columns, func(fields map[string]string) error {
		for name, value := range s.Where {
			if fields[name] != value {
				return nil
			}
		}
		for name, value := range s.Exclude {
			if strings.Contains(fields[name], value) {
				return nil
			}
		}
		record := dataset.Record{Row: fields[s.Row], Column: fields[s.Column], Value: 1}
		if base.ValidateId(record.Row) != nil || base.ValidateId(record.Column) != nil {
			skipped++
			return nil
		}
		if s.Value != "" {
			value, err := strconv.ParseFloat(strings.TrimSpace(fields[s.Value]), 64)
			if err != nil {
				skipped++
				return nil
			}
			record.Value = value
		}
		if s.Timestamp != "" {
			timestamp, err := parseTimestamp(fields[s.Timestamp])
			if err != nil {
				skipped++
				return nil
			}
			record.Timestamp = timestamp
		}
		records = append(records, record)
		return nil
	})
	if err != nil {
		return nil, errors.Trace(err)
	}
	log.Logger().Info("load records",
		zap.String("path", s.Path),
		zap.Int("n_records", len(records)),
		zap.Int("n_skipped", skipped))
	return records, nil
}

func parseTimestamp(text string) (time.Time, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return time.Time{}, nil
	}
	timestamp, err := dateparse.ParseAny(text)
	if err != nil {
		return time.Time{}, errors.Trace(err)
	}
	return timestamp, nil
}

// loadNames maps ids in column key to names in column name.
func loadNames(path, sep, key, name string) (map[string]string, error) {
	names := make(map[string]string)
	err := readTable(path, sep, []string{key, name}, func(fields map[string]string) error {
		if fields[key] != "" && fields[name] != "" {
			names[fields[key]] = fields[name]
		}
		return nil
	})
	if err != nil {
		return nil, errors.Trace(err)
	}
	return names, nil
}

// renameColumns replaces column ids by names and drops records without a name.
func renameColumns(records []dataset.Record, names map[string]string) []dataset.Record {
	renamed := make([]dataset.Record, 0, len(records))
	for _, record := range records {
		if name, ok := names[record.Column]; ok {
			record.Column = name
			renamed = append(renamed, record)
		}
	}
	return renamed
}
