package cmd

import (
	"os"

	humanize "github.com/dustin/go-humanize"
	logging "github.com/shenwei356/go-logging"
	"github.com/shenwei356/stable"
	"github.com/spf13/cobra"

	rebar "github.com/phac-nml/rebar-go"
	"github.com/phac-nml/rebar-go/internal/export"
	"github.com/phac-nml/rebar-go/internal/ingest"
)

var log = logging.MustGetLogger("rebar")

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Detect recombinant lineages in a batch of genomes",
	Long: `run matches every genome in a table against a barcode/lineage
reference, classifies recombinant status, and (for candidate
recombinants) locates parental regions and breakpoints.
`,
	Run: func(cmd *cobra.Command, args []string) {
		barcodesFile := expandPath(getFlagString(cmd, "barcodes"))
		treeFile := expandPath(getFlagString(cmd, "tree"))
		cladesFile := expandPath(getFlagString(cmd, "lineages"))
		genomesFile := expandPath(getFlagString(cmd, "genomes"))
		alignmentFile := expandPath(getFlagString(cmd, "alignment"))
		referenceFile := expandPath(getFlagString(cmd, "reference"))
		outFile := expandPath(getFlagString(cmd, "output"))

		checkInputFile("barcodes", barcodesFile)
		checkInputFile("tree", treeFile)
		checkInputFile("lineages", cladesFile)

		if alignmentFile != "" {
			checkInputFile("alignment", alignmentFile)
			checkInputFile("reference", referenceFile)
		} else {
			checkInputFile("genomes", genomesFile)
		}

		barcodes, err := ingest.LoadBarcodeMatrix(barcodesFile)
		checkError(err)

		tree, err := ingest.LoadLineageTreeFile(treeFile)
		checkError(err)

		lineageToClade, err := ingest.LoadLineageToClade(cladesFile)
		checkError(err)

		var genomes []*rebar.Genome
		if alignmentFile != "" {
			genomes, err = ingest.LoadGenomesFromAlignment(alignmentFile, referenceFile)
		} else {
			genomes, err = ingest.LoadGenomeTable(genomesFile)
		}
		checkError(err)

		recombinantLineages := make(map[string]struct{})
		for _, name := range tree.Descendants("X") {
			recombinantLineages[name] = struct{}{}
		}

		ds := &rebar.Dataset{
			Tree:                tree,
			Barcodes:            barcodes,
			LineageToClade:      lineageToClade,
			RecombinantLineages: recombinantLineages,
		}

		cfg := rebar.Config{
			Thresholds:          rebar.DefaultThresholds(),
			ProblematicLineages: getFlagCommaList(cmd, "problematic-lineages"),
			Threads:             getFlagPositiveInt(cmd, "threads"),
			Debug:               getFlagBool(cmd, "debug"),
		}
		if v := getFlagInt(cmd, "max-breakpoints"); v > 0 {
			cfg.Thresholds.MaxBreakpoints = v
		}
		if v := getFlagInt(cmd, "min-subs"); v >= 0 {
			cfg.Thresholds.MinSubs = v
		}
		if v := getFlagInt(cmd, "min-consecutive"); v > 0 {
			cfg.Thresholds.MinConsecutive = v
		}
		if v := getFlagInt(cmd, "min-length"); v > 0 {
			cfg.Thresholds.MinLength = v
		}

		var logf func(format string, args ...interface{})
		if cfg.Debug {
			logf = log.Debugf
		}

		results := rebar.AnalyzeBatch(genomes, ds, cfg, logf, nil)
		log.Infof("analyzed %s genomes, %s produced a result",
			humanize.Comma(int64(len(genomes))), humanize.Comma(int64(len(results))))

		printSummaryTable(results)

		out, err := outWriter(outFile)
		checkError(err)
		defer out.Close()

		checkError(export.WriteTSV(out, results))
	},
}

// printSummaryTable renders a small plain-style counts table to stderr,
// the same style and layout as the teacher's `unikmer info`/`unikmer stats`
// non-tabular summary output.
func printSummaryTable(results []*rebar.Result) {
	var recombinantNamed, recombinantX, nonRecombinant int
	for _, r := range results {
		if r.Primary == nil {
			continue
		}
		switch r.Primary.RecombinantStatus {
		case rebar.RecombinantNamed:
			recombinantNamed++
		case rebar.RecombinantX:
			recombinantX++
		case rebar.RecombinantNo:
			nonRecombinant++
		}
	}

	style := &stable.TableStyle{
		Name:      "plain",
		HeaderRow: stable.RowStyle{Begin: "", Sep: "  ", End: ""},
		DataRow:   stable.RowStyle{Begin: "", Sep: "  ", End: ""},
		Padding:   "",
	}
	tbl := stable.New()
	tbl.HeaderWithFormat([]stable.Column{
		{Header: "category"},
		{Header: "count", Align: stable.AlignRight},
	})
	tbl.AddRow([]interface{}{"named recombinant group", humanize.Comma(int64(recombinantNamed))})
	tbl.AddRow([]interface{}{"unnamed (X) recombinant", humanize.Comma(int64(recombinantX))})
	tbl.AddRow([]interface{}{"non-recombinant", humanize.Comma(int64(nonRecombinant))})
	os.Stderr.Write(tbl.Render(style))
}

func init() {
	RootCmd.AddCommand(runCmd)

	runCmd.Flags().StringP("barcodes", "b", "", "lineage barcodes table")
	runCmd.Flags().StringP("tree", "t", "", "Newick lineage tree")
	runCmd.Flags().StringP("lineages", "l", "", "lineage-to-clade table")
	runCmd.Flags().StringP("genomes", "g", "", "genome records table")
	runCmd.Flags().String("alignment", "", "reference-aligned multi-FASTA consensus file, as an alternative to --genomes")
	runCmd.Flags().String("reference", "", "reference FASTA, required with --alignment")
	runCmd.Flags().StringP("output", "o", "-", "output TSV file (\"-\" for stdout)")
	runCmd.Flags().String("problematic-lineages", "BA.2.85", "comma-separated lineages excluded from every candidate pool")
	runCmd.Flags().Int("max-breakpoints", 0, "override the default max-breakpoints threshold (0 = use default)")
	runCmd.Flags().Int("min-subs", -1, "override the default min-subs threshold (-1 = use default)")
	runCmd.Flags().Int("min-consecutive", 0, "override the default min-consecutive threshold (0 = use default)")
	runCmd.Flags().Int("min-length", 0, "override the default min-length threshold (0 = use default)")
}
