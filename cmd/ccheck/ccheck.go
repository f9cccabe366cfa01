// ccheck reads an assembled consensus and the reads it was built from
// and tries to quantify contamination from a supplied reference:
// reference and assembly are aligned globally with a Myers O(nd)
// aligner (it grasps ambiguity codes and runs fast enough for long,
// similar sequences), positions where they differ become diagnostic,
// and every read crossing a diagnostic position is realigned against
// the lifted reference window and classified as endogenous or
// contaminant. A summary with a 95% confidence interval for the
// contamination rate closes the report.
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"strings"

	"github.com/dasnellings/ccheck/classify"
	"github.com/dasnellings/ccheck/diagnostic"
	"github.com/dasnellings/ccheck/myers"
	"github.com/dasnellings/ccheck/reads"
	"github.com/guptarohit/asciigraph"
	"github.com/pkg/profile"
	"github.com/vertgenlab/gonomics/align"
	"github.com/vertgenlab/gonomics/exception"
	"github.com/vertgenlab/gonomics/fileio"
)

func usage() {
	fmt.Print(
		"ccheck - quantify contamination in an assembled consensus\n" +
			"Usage:\n" +
			"  ccheck [options] -r ref.fasta assembly.fasta reads.bam\n\n" +
			"Reads an assembly and the reads it was built from and tries to\n" +
			"quantify contamination from the likely contaminant reference.\n\n")
	flag.PrintDefaults()
}

func main() {
	ref := flag.String("r", "", "FASTA file with the likely contaminant.")
	output := flag.String("o", "stdout", "Output file for the report.")
	ancient := flag.Bool("ancient", false, "Treat DNA as ancient (i.e. likely deaminated).")
	transversions := flag.Bool("t", false, "Only transversions are diagnostic.")
	span := flag.String("s", "", "Only look at assembly positions M-N (1-based, inclusive).")
	maxDist := flag.Int("d", 1000, "Allow up to this many differences between the references.")
	verbose := flag.Int("v", 0, "Level of verbosity in log.")
	cpuprofile := flag.Bool("cpuprofile", false, "Write cpu profile.")
	memprofile := flag.Bool("memprofile", false, "Write memory profile.")
	flag.Parse()

	if *memprofile && *cpuprofile {
		usage()
		log.Fatal("ERROR: -memprofile and -cpuprofile are mutually exclusive.")
	}
	if *memprofile {
		defer profile.Start(profile.MemProfile).Stop()
	}
	if *cpuprofile {
		defer profile.Start(profile.CPUProfile).Stop()
	}

	if *ref == "" || flag.NArg() != 2 {
		usage()
		log.Fatal("ERROR: must specify a reference (-r), an assembly fasta, and a sam/bam of reads.")
	}

	spanStart, spanEnd := 0, math.MaxInt
	if *span != "" {
		if _, err := fmt.Sscanf(*span, "%d-%d", &spanStart, &spanEnd); err != nil {
			log.Fatal("ERROR: -s must have the form M-N.")
		}
		spanStart--
	}

	ccheck(*ref, flag.Arg(0), flag.Arg(1), *output, *ancient, *transversions, spanStart, spanEnd, *maxDist, *verbose)
}

func ccheck(refFile, asmFile, samFile, output string, ancient, transversionsOnly bool, spanStart, spanEnd, maxDist, verbose int) {
	refName, refSeq := reads.ReadFasta(refFile)
	asmName, asmSeq := reads.ReadFasta(asmFile)
	if verbose >= 1 {
		log.Printf("aligning %s (%d bp) against %s (%d bp)\n", refName, len(refSeq), asmName, len(asmSeq))
	}

	aln, d, err := myers.Align(refSeq, asmSeq, myers.Global, maxDist)
	if err != nil {
		log.Fatal("ERROR: couldn't align the references (try to increase -d).")
	}
	if verbose >= 1 {
		log.Printf("%d total differences between reference and assembly\n", d)
	}
	if verbose >= 6 {
		fmt.Print(aln.Pretty(72))
	}

	idx := diagnostic.New(aln, transversionsOnly, spanStart, spanEnd)
	if verbose >= 1 {
		log.Printf("%d diagnostic positions, %d of which are transversions\n", idx.Len(), idx.Transversions())
	}
	if verbose >= 3 && idx.Len() > 0 {
		log.Println(positionList(idx.Overlapping(0, math.MaxInt)))
		fmt.Println(densityPlot(idx, len(asmSeq)))
	}

	cl := classify.New(aln, idx, asmSeq, align.HumanChimpTwoScoreMatrix, ancient, verbose)
	for frag := range reads.GoReadFragments(samFile) {
		cl.Process(frag)
	}
	for _, id := range cl.Finish() {
		log.Printf("%s/b is missing its front\n", id)
	}

	out := fileio.EasyCreate(output)
	_, err = fmt.Fprint(out, cl.Summary().Report())
	exception.PanicOnErr(err)
	err = out.Close()
	exception.PanicOnErr(err)
}

func positionList(ps []diagnostic.Position) string {
	s := make([]string, len(ps))
	for i := range ps {
		s[i] = ps[i].String()
	}
	return strings.Join(s, ", ")
}

// densityPlot renders diagnostic-position counts along the assembly in
// fixed-width bins.
func densityPlot(idx *diagnostic.Index, asmLen int) string {
	const bins = 72
	counts := make([]float64, bins)
	for _, p := range idx.Overlapping(0, math.MaxInt) {
		b := p.Pos * bins / asmLen
		if b >= bins {
			b = bins - 1
		}
		counts[b]++
	}
	return asciigraph.Plot(counts, asciigraph.Height(10), asciigraph.Caption("diagnostic positions along the assembly"))
}
