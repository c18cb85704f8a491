// Package ingest parses the external-interface tables described in spec.md
// §6 (barcodes, lineage-to-clade, genome records, Newick tree) into the
// core rebar package's types.
package ingest

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/shenwei356/breader"

	"github.com/phac-nml/rebar-go"
)

// barcodeRow is the intermediate record type the breader parseFunc returns
// for one line of the barcodes table, following taxonomy.go's pattern of
// parsing into a small unexported struct before assembling the final
// collection.
type barcodeRow struct {
	Lineage string
	Subs    []rebar.Substitution
}

// LoadBarcodeMatrix parses the barcodes table (spec.md §6): first column
// `lineage`, remaining columns are substitution labels matching
// `[ACGT]\d+[ACGT]` with 0/1 values. Duplicate lineage rows are an
// InputMalformedError.
func LoadBarcodeMatrix(file string) (*rebar.BarcodeMatrix, error) {
	var header []string
	var subCols []rebar.Substitution

	lineNo := 0
	parseFunc := func(line string) (interface{}, bool, error) {
		lineNo++
		fields := strings.Split(strings.TrimRight(line, "\r\n"), "\t")
		if len(fields) < 2 {
			fields = strings.Split(strings.TrimRight(line, "\r\n"), ",")
		}
		if lineNo == 1 {
			header = fields
			subCols = make([]rebar.Substitution, len(fields))
			for i := 1; i < len(fields); i++ {
				sub, err := rebar.ParseSubstitution(fields[i])
				if err != nil {
					return nil, false, errors.Wrapf(err, "barcode header column %d", i)
				}
				subCols[i] = sub
			}
			return nil, false, nil
		}

		if len(fields) != len(header) {
			return nil, false, fmt.Errorf("row %d: expected %d columns, got %d", lineNo, len(header), len(fields))
		}

		row := barcodeRow{Lineage: fields[0]}
		for i := 1; i < len(fields); i++ {
			v := strings.TrimSpace(fields[i])
			if v == "1" {
				row.Subs = append(row.Subs, subCols[i])
			} else if v != "0" {
				return nil, false, fmt.Errorf("row %d: non-binary barcode value %q", lineNo, v)
			}
		}
		return row, true, nil
	}

	reader, err := breader.NewBufferedReader(file, 4, 100, parseFunc)
	if err != nil {
		return nil, &rebar.InputMalformedError{Source: file, Reason: err.Error()}
	}

	byLineage := make(map[string]rebar.SubSet)
	for chunk := range reader.Ch {
		if chunk.Err != nil {
			return nil, &rebar.InputMalformedError{Source: file, Reason: chunk.Err.Error()}
		}
		for _, data := range chunk.Data {
			row := data.(barcodeRow)
			if _, dup := byLineage[row.Lineage]; dup {
				return nil, &rebar.InputMalformedError{Source: file, Reason: "duplicate lineage row: " + row.Lineage}
			}
			byLineage[row.Lineage] = rebar.NewSubSet(row.Subs...)
		}
	}

	return rebar.NewBarcodeMatrix(byLineage), nil
}

// ParseManualEdits parses a barcode-manual-edits table given as a map from
// lineage to a comma-separated list of substitutions to add, into the form
// BarcodeMatrix.ApplyManualEdits takes (SPEC_FULL.md §5's supplemented
// BARCODE_MANUAL_EDITS feature).
func ParseManualEdits(raw map[string]string) (map[string][]rebar.Substitution, error) {
	out := make(map[string][]rebar.Substitution, len(raw))
	for lineage, list := range raw {
		var subs []rebar.Substitution
		for _, tok := range strings.Split(list, ",") {
			tok = strings.TrimSpace(tok)
			if tok == "" {
				continue
			}
			sub, err := rebar.ParseSubstitution(tok)
			if err != nil {
				return nil, errors.Wrapf(err, "manual edit for %s", lineage)
			}
			subs = append(subs, sub)
		}
		out[lineage] = subs
	}
	return out, nil
}
