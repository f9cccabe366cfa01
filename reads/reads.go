// Package reads loads the inputs of a contamination check: a FASTA
// reader that keeps IUPAC ambiguity codes intact, and a converter from
// SAM/BAM records aligned against the assembly into Fragment values.
package reads

import (
	"strings"

	"github.com/vertgenlab/gonomics/dna"
	"github.com/vertgenlab/gonomics/exception"
	"github.com/vertgenlab/gonomics/fileio"
	"github.com/vertgenlab/gonomics/sam"
)

// Fragment is one sequencing read (or half of a read pair) placed
// against the assembly.
type Fragment struct {
	ID      string
	Segment byte // 'b' back half, 'f' front half, 'a' whole read
	Start   int  // assembly coordinates, 0-based inclusive
	End     int
	Seq     string   // read bases gapped against the assembly window
	Ins     []string // insertion after each gapped column, "" when none
}

// Ungapped reconstructs the read as sequenced over its aligned portion:
// gaps dropped, insertions spliced back in after their columns.
func (f Fragment) Ungapped() string {
	var b strings.Builder
	for i := 0; i < len(f.Seq); i++ {
		if f.Seq[i] != '-' {
			b.WriteByte(f.Seq[i])
		}
		if i < len(f.Ins) && f.Ins[i] != "" {
			b.WriteString(f.Ins[i])
		}
	}
	return b.String()
}

// ReadFasta returns the name and uppercased sequence of the first
// record in a FASTA file. Ambiguity codes are kept as-is, which is why
// this does not go through fasta.Read and dna.Base.
func ReadFasta(file string) (string, string) {
	var name string
	var sawHeader bool
	var seq strings.Builder
	in := fileio.EasyOpen(file)
	for line, done := fileio.EasyNextRealLine(in); !done; line, done = fileio.EasyNextRealLine(in) {
		if strings.HasPrefix(line, ">") {
			if sawHeader {
				break // first record only
			}
			sawHeader = true
			if fields := strings.Fields(line[1:]); len(fields) > 0 {
				name = fields[0]
			}
			continue
		}
		seq.WriteString(strings.ToUpper(line))
	}
	err := in.Close()
	exception.PanicOnErr(err)
	return name, seq.String()
}

const (
	flagPaired        = 1
	flagUnmapped      = 4
	flagFirstInPair   = 64
	flagSecondInPair  = 128
	flagSecondary     = 256
	flagSupplementary = 2048
)

// GoReadFragments streams fragments converted from a SAM/BAM file of
// reads aligned against the assembly.
func GoReadFragments(file string) <-chan Fragment {
	out := make(chan Fragment, 1000)
	go func() {
		records, _ := sam.GoReadToChan(file)
		for r := range records {
			if f, ok := FromSam(r); ok {
				out <- f
			}
		}
		close(out)
	}()
	return out
}

// FromSam converts one alignment record into a Fragment. The CIGAR is
// replayed to gap the read against the assembly window and to collect
// per-column insertion strings, the way a maln record carries them.
// ok is false for records with no usable placement (unmapped,
// secondary, supplementary).
func FromSam(r sam.Sam) (Fragment, bool) {
	var f Fragment
	if r.RName == "" || r.Flag&flagUnmapped != 0 || r.Flag&(flagSecondary|flagSupplementary) != 0 {
		return f, false
	}
	f.ID = r.QName
	switch {
	case r.Flag&flagPaired == 0:
		f.Segment = 'a'
	case r.Flag&flagFirstInPair != 0:
		f.Segment = 'b'
	default:
		f.Segment = 'f'
	}
	f.Start = r.GetChromStart()
	f.End = r.GetChromEnd() - 1

	bases := strings.ToUpper(dna.BasesToString(r.Seq))
	var seq strings.Builder
	var ins []string
	var qpos int
	for _, c := range r.Cigar {
		switch c.Op {
		case 'M', '=', 'X':
			for j := 0; j < c.RunLength; j++ {
				seq.WriteByte(bases[qpos])
				ins = append(ins, "")
				qpos++
			}
		case 'I':
			// attach to the previous column; a leading insertion has no
			// anchor and is dropped like a clip
			if len(ins) > 0 {
				ins[len(ins)-1] += bases[qpos : qpos+c.RunLength]
			}
			qpos += c.RunLength
		case 'D', 'N':
			for j := 0; j < c.RunLength; j++ {
				seq.WriteByte('-')
				ins = append(ins, "")
			}
		case 'S':
			qpos += c.RunLength
		}
	}
	f.Seq = seq.String()
	f.Ins = ins
	if f.Seq == "" {
		return f, false
	}
	return f, true
}
