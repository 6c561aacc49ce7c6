package dataset

import (
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/fairbench/berq/internal/errors"
)

// Columns names the CSV columns the loader reads. Defaults match the
// evaluation pipeline's export format.
type Columns struct {
	Label      string // true label column (default "labels")
	Prediction string // predicted label column (default "prediction")
	Subgroup   string // demographic split column, e.g. "gender_source_value"
}

// DefaultColumns returns the column names the evaluation pipeline emits
func DefaultColumns(subgroupField string) Columns {
	return Columns{
		Label:      "labels",
		Prediction: "prediction",
		Subgroup:   subgroupField,
	}
}

// Dataset is an in-memory prediction table partitioned by subgroup value
type Dataset struct {
	groups  []string // observed subgroup values, in first-seen order
	samples map[string][]LabeledExample
}

// Groups returns the distinct subgroup values in first-seen order
func (d *Dataset) Groups() []string {
	return d.groups
}

// Sample returns the subgroup sample for one subgroup value
func (d *Dataset) Sample(group string) (SubgroupSample, error) {
	examples, ok := d.samples[group]
	if !ok {
		return SubgroupSample{}, errors.ValidationErrorf(
			"subgroup %q not present in input (observed: %s)",
			group, strings.Join(d.groups, ", "))
	}
	return SubgroupSample{Group: group, Examples: examples}, nil
}

// LoadCSV reads a prediction table from a CSV file and partitions it by the
// subgroup column. The file must have a header row containing all three
// configured columns.
func LoadCSV(path string, cols Columns) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.FileSystemErrorf(err, "failed to open input file %s", path)
	}
	defer f.Close()

	return Load(f, cols)
}

// Load reads a prediction table from an open CSV stream
func Load(r io.Reader, cols Columns) (*Dataset, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, errors.ValidationErrorf("failed to read CSV header: %v", err)
	}

	labelIdx, err := columnIndex(header, cols.Label)
	if err != nil {
		return nil, err
	}
	predIdx, err := columnIndex(header, cols.Prediction)
	if err != nil {
		return nil, err
	}
	groupIdx, err := columnIndex(header, cols.Subgroup)
	if err != nil {
		return nil, err
	}

	ds := &Dataset{samples: make(map[string][]LabeledExample)}

	row := 1 // header was row 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.ValidationErrorf("failed to read CSV row %d: %v", row+1, err)
		}
		row++

		actual, err := parseLabel(record[labelIdx])
		if err != nil {
			return nil, errors.ValidationErrorf(
				"row %d column %q: %v", row, cols.Label, err)
		}
		predicted, err := parseLabel(record[predIdx])
		if err != nil {
			return nil, errors.ValidationErrorf(
				"row %d column %q: %v", row, cols.Prediction, err)
		}

		group := strings.TrimSpace(record[groupIdx])
		if group == "" {
			return nil, errors.ValidationErrorf(
				"row %d column %q: empty subgroup value", row, cols.Subgroup)
		}

		if _, seen := ds.samples[group]; !seen {
			ds.groups = append(ds.groups, group)
		}
		ds.samples[group] = append(ds.samples[group], LabeledExample{
			Actual:    actual,
			Predicted: predicted,
		})
	}

	if len(ds.groups) == 0 {
		return nil, errors.ValidationError("input contains no data rows")
	}

	return ds, nil
}

func columnIndex(header []string, name string) (int, error) {
	for i, h := range header {
		if strings.TrimSpace(h) == name {
			return i, nil
		}
	}
	return 0, errors.ValidationErrorf(
		"column %q not found in CSV header (found: %s)",
		name, strings.Join(header, ", "))
}

// parseLabel accepts the 0/1 form the evaluation pipeline writes plus
// true/false spellings
func parseLabel(cell string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(cell)) {
	case "1", "true", "t":
		return true, nil
	case "0", "false", "f":
		return false, nil
	default:
		return false, errors.ValidationErrorf("cannot parse %q as a binary label", cell)
	}
}
