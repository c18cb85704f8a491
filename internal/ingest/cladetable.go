package ingest

import (
	"strings"

	"github.com/shenwei356/breader"

	"github.com/phac-nml/rebar-go"
)

type cladeRow struct {
	Lineage string
	Clade   string
}

// LoadLineageToClade parses the two-column lineage-to-clade table (spec.md
// §6): `lineage`, `nextstrainClade`.
func LoadLineageToClade(file string) (map[string]string, error) {
	lineNo := 0
	parseFunc := func(line string) (interface{}, bool, error) {
		lineNo++
		fields := strings.Split(strings.TrimRight(line, "\r\n"), "\t")
		if len(fields) < 2 {
			fields = strings.Split(strings.TrimRight(line, "\r\n"), ",")
		}
		if lineNo == 1 || len(fields) < 2 {
			return nil, false, nil
		}
		return cladeRow{Lineage: fields[0], Clade: fields[1]}, true, nil
	}

	reader, err := breader.NewBufferedReader(file, 4, 100, parseFunc)
	if err != nil {
		return nil, &rebar.InputMalformedError{Source: file, Reason: err.Error()}
	}

	out := make(map[string]string)
	for chunk := range reader.Ch {
		if chunk.Err != nil {
			return nil, &rebar.InputMalformedError{Source: file, Reason: chunk.Err.Error()}
		}
		for _, data := range chunk.Data {
			row := data.(cladeRow)
			out[row.Lineage] = row.Clade
		}
	}
	return out, nil
}
