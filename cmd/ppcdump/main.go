package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/broadwayrc/ppcdecomp/abi"
	"github.com/broadwayrc/ppcdecomp/corefail"
	"github.com/broadwayrc/ppcdecomp/structurizer"
	"github.com/broadwayrc/ppcdecomp/subroutine"
	"github.com/grimdork/climate"
)

// Flags is ppcdump's declarative flag set: an image to load, the entry
// point to analyze from, and the optional TOC/small-data base values,
// which are recorded in the ABI configuration.
type Flags struct {
	Image   string `flag:"image" help:"Path to a flat binary image."`
	Base    string `flag:"base" help:"Load address for the image (hex)." default:"0"`
	Entry   string `flag:"entry" help:"Subroutine entry address (hex)."`
	Rtoc    string `flag:"rtoc" help:"TOC base register value (hex), if known."`
	SDABase string `flag:"sda" help:"Small-data base register value (hex), if known."`
}

func main() {
	var f Flags
	cmd := climate.Command{
		Name:  "ppcdump",
		Usage: "ppcdump -image <file> -base <hex> -entry <hex>",
		Flags: &f,
	}
	if err := cmd.Parse(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "ppcdump: %v\n", err)
		os.Exit(1)
	}

	if f.Image == "" || f.Entry == "" {
		fmt.Fprintln(os.Stderr, "ppcdump: -image and -entry are required")
		fmt.Fprintln(os.Stderr, cmd.Usage)
		os.Exit(1)
	}

	base, err := parseHex(f.Base)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ppcdump: bad -base: %v\n", err)
		os.Exit(1)
	}
	entry, err := parseHex(f.Entry)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ppcdump: bad -entry: %v\n", err)
		os.Exit(1)
	}

	raw, err := os.ReadFile(f.Image)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ppcdump: %v\n", err)
		os.Exit(1)
	}

	var data abi.SectionedData
	if !data.AddSection(uint32(base), raw) {
		fmt.Fprintln(os.Stderr, "ppcdump: image section overlaps itself")
		os.Exit(1)
	}

	cfgABI, err := buildABI(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ppcdump: %v\n", err)
		os.Exit(1)
	}

	sub, err := subroutine.Analyze(&data, uint32(entry), cfgABI)
	if err != nil {
		var failure *corefail.Failure
		if errors.As(err, &failure) && failure.Severity == corefail.Fatal {
			fmt.Fprintf(os.Stderr, "ppcdump: %v\n", err)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "ppcdump: warning: %v\n", err)
	}

	dump(sub.Tree.Root, 0)
}

func buildABI(f Flags) (abi.CWABIConfiguration, error) {
	var cfgABI abi.CWABIConfiguration
	if f.Rtoc != "" {
		v, err := parseHex(f.Rtoc)
		if err != nil {
			return cfgABI, fmt.Errorf("bad -rtoc: %w", err)
		}
		cfgABI.RtocBase = uint32(v)
		cfgABI.HasRtocBase = true
	}
	if f.SDABase != "" {
		v, err := parseHex(f.SDABase)
		if err != nil {
			return cfgABI, fmt.Errorf("bad -sda: %w", err)
		}
		cfgABI.R13Base = uint32(v)
		cfgABI.HasR13Base = true
	}
	return cfgABI, nil
}

func parseHex(s string) (uint64, error) {
	return strconv.ParseUint(strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X"), 16, 32)
}

// dump renders tree as indented text, one line per node; the only output
// format this demo command produces (spec.md §1 keeps rendering out of
// the analysis core).
func dump(n *structurizer.ACN, depth int) {
	if n == nil {
		return
	}
	pad := strings.Repeat("  ", depth)
	fmt.Printf("%s%s\n", pad, label(n))

	switch n.Kind {
	case structurizer.Seq, structurizer.Switch:
		for _, c := range n.Children {
			dump(c, depth+1)
		}
	case structurizer.If:
		dump(n.Then, depth+1)
	case structurizer.IfElse, structurizer.IfElseIf:
		dump(n.Then, depth+1)
		dump(n.Else, depth+1)
		for _, c := range n.Children {
			dump(c, depth+1)
		}
	case structurizer.SelfLoop, structurizer.While, structurizer.DoWhile, structurizer.For:
		dump(n.Body, depth+1)
	}
}

func label(n *structurizer.ACN) string {
	switch n.Kind {
	case structurizer.Basic:
		return fmt.Sprintf("basic (%d insts)", len(n.Block.Insts))
	case structurizer.Seq:
		return "seq"
	case structurizer.If:
		return "if"
	case structurizer.IfElse:
		return "if/else"
	case structurizer.IfElseIf:
		return "if/elseif"
	case structurizer.Switch:
		return "switch"
	case structurizer.SelfLoop:
		return "self-loop"
	case structurizer.While:
		return "while"
	case structurizer.DoWhile:
		return "do-while"
	case structurizer.For:
		return fmt.Sprintf("for (%s += %d)", n.For.InductionReg, n.For.Step)
	case structurizer.Goto:
		return "goto " + n.TargetLabel
	case structurizer.Tail:
		return "tail"
	default:
		return "?"
	}
}
