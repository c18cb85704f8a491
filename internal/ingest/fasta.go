package ingest

import (
	"io"

	"github.com/shenwei356/bio/seqio/fastx"

	"github.com/phac-nml/rebar-go"
)

// LoadGenomesFromAlignment derives genome records directly from a reference
// -aligned multi-FASTA consensus file - the Nextclade/Nextalign-alignment
// style input the original rebar tool accepts as an alternative to its
// tabular genome records table (spec.md §6). Every record is compared
// position-by-position against referenceFile's single sequence: a mismatch
// to an unambiguous base is a substitution, 'N' marks a missing coordinate,
// '-' marks a deletion.
func LoadGenomesFromAlignment(alignmentFile, referenceFile string) ([]*rebar.Genome, error) {
	ref, err := readSingleFastaRecord(referenceFile)
	if err != nil {
		return nil, err
	}

	reader, err := fastx.NewDefaultReader(alignmentFile)
	if err != nil {
		return nil, &rebar.InputMalformedError{Source: alignmentFile, Reason: err.Error()}
	}

	var genomes []*rebar.Genome
	for {
		record, err := reader.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, &rebar.InputMalformedError{Source: alignmentFile, Reason: err.Error()}
		}
		genomes = append(genomes, diffAgainstReference(string(record.Name), record.Seq.Seq, ref))
	}
	return genomes, nil
}

func readSingleFastaRecord(file string) ([]byte, error) {
	reader, err := fastx.NewDefaultReader(file)
	if err != nil {
		return nil, &rebar.InputMalformedError{Source: file, Reason: err.Error()}
	}
	record, err := reader.Read()
	if err != nil {
		return nil, &rebar.InputMalformedError{Source: file, Reason: err.Error()}
	}
	return append([]byte(nil), record.Seq.Seq...), nil
}

// diffAgainstReference walks both sequences in lockstep; coordinates are
// 1-based, matching spec.md §6's substitution wire form.
func diffAgainstReference(id string, seq, ref []byte) *rebar.Genome {
	n := len(seq)
	if len(ref) < n {
		n = len(ref)
	}
	var subs []rebar.Substitution
	var deletions, missing []int
	for i := 0; i < n; i++ {
		coord := i + 1
		base := seq[i]
		refBase := ref[i]
		switch {
		case base == refBase:
		case base == 'N' || base == 'n':
			missing = append(missing, coord)
		case base == '-':
			deletions = append(deletions, coord)
		case base == 'A' || base == 'C' || base == 'G' || base == 'T':
			subs = append(subs, rebar.Substitution{Ref: refBase, Coord: coord, Alt: base})
		}
	}
	return rebar.NewGenome(id, len(ref), subs, deletions, missing)
}
