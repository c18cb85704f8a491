package ingest

import (
	"strings"

	"github.com/shenwei356/breader"

	"github.com/phac-nml/rebar-go"
)

// DefaultGenomeLength is used when a genome table carries no explicit
// length column; SARS-CoV-2's reference genome is the only target this
// reimplementation has been exercised against.
const DefaultGenomeLength = 29903

type genomeRow struct {
	ID            string
	Substitutions []rebar.Substitution
	Deletions     []int
	Missing       []int
}

// LoadGenomeTable parses the genome-records table (spec.md §6): id,
// substitutions (comma-separated or NA), deletions/missing (comma-separated
// intervals or NA), and the optional reversion/labeled/unlabeled
// substitution columns, which this reimplementation folds into the plain
// substitutions set (their distinction only matters to the source's privacy
// bookkeeping, not to barcode matching).
func LoadGenomeTable(file string) ([]*rebar.Genome, error) {
	var header []string
	colIndex := make(map[string]int)

	lineNo := 0
	parseFunc := func(line string) (interface{}, bool, error) {
		lineNo++
		fields := strings.Split(strings.TrimRight(line, "\r\n"), "\t")
		if lineNo == 1 {
			header = fields
			for i, h := range fields {
				colIndex[h] = i
			}
			return nil, false, nil
		}
		if len(fields) != len(header) {
			return nil, false, &rebar.InputMalformedError{Source: file, Reason: "row has wrong column count"}
		}

		get := func(name string) string {
			i, ok := colIndex[name]
			if !ok || i >= len(fields) {
				return ""
			}
			return fields[i]
		}

		id := get("strain")
		if id == "" {
			id = get("id")
		}

		subs, err := parseSubstitutionList(get("substitutions"))
		if err != nil {
			return nil, false, err
		}
		for _, col := range []string{"privateNucMutations.reversionSubstitutions", "labeledSubstitutions", "unlabeledSubstitutions"} {
			extra, err := parseSubstitutionList(stripLabels(get(col)))
			if err != nil {
				return nil, false, err
			}
			subs = append(subs, extra...)
		}

		deletions, err := rebar.ParseIntervalList(get("deletions"))
		if err != nil {
			return nil, false, err
		}
		missing, err := rebar.ParseIntervalList(get("missing"))
		if err != nil {
			return nil, false, err
		}

		return genomeRow{ID: id, Substitutions: subs, Deletions: deletions, Missing: missing}, true, nil
	}

	reader, err := breader.NewBufferedReader(file, 8, 100, parseFunc)
	if err != nil {
		return nil, &rebar.InputMalformedError{Source: file, Reason: err.Error()}
	}

	var genomes []*rebar.Genome
	for chunk := range reader.Ch {
		if chunk.Err != nil {
			return nil, &rebar.InputMalformedError{Source: file, Reason: chunk.Err.Error()}
		}
		for _, data := range chunk.Data {
			row := data.(genomeRow)
			genomes = append(genomes, rebar.NewGenome(row.ID, DefaultGenomeLength, row.Substitutions, row.Deletions, row.Missing))
		}
	}
	return genomes, nil
}

// stripLabels reduces a pipe-separated `sub|label` list (spec.md §6's
// `labeledSubstitutions` format) to just the substitution tokens, taking
// the first field of each pipe-separated pair.
func stripLabels(field string) string {
	if field == "" || field == rebar.NoDataChar {
		return field
	}
	parts := strings.Split(field, ",")
	for i, p := range parts {
		if idx := strings.Index(p, "|"); idx >= 0 {
			parts[i] = p[:idx]
		}
	}
	return strings.Join(parts, ",")
}

func parseSubstitutionList(field string) ([]rebar.Substitution, error) {
	if field == "" || field == rebar.NoDataChar {
		return nil, nil
	}
	var out []rebar.Substitution
	for _, tok := range strings.Split(field, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" || tok == rebar.NoDataChar {
			continue
		}
		sub, err := rebar.ParseSubstitution(tok)
		if err != nil {
			return nil, err
		}
		out = append(out, sub)
	}
	return out, nil
}
