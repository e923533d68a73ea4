package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/vmlinuz719/ist66/core"
	"github.com/vmlinuz719/ist66/ist"
)

var output = flag.String("out", "-", "file name for the output, - for stdout")
var listing = flag.Bool("listing", false,
	"emit a memory-initializer listing instead of a loader tape")

func main() {
	flag.Parse()

	// Grab the first argument and assemble it.
	file := flag.Arg(0)
	if file == "" {
		fmt.Fprintf(os.Stderr, "usage: %s [-listing] [-out file] source\n", os.Args[0])
		os.Exit(1)
	}

	lines, err := readLines(file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	w := os.Stdout
	if *output != "-" {
		f, err := os.Create(*output)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		w = f
	}

	if err := core.MasterAssembler(&ist.Driver{}, lines, *listing, w); err != nil {
		fmt.Fprintf(os.Stderr, "assembly error: %v\n", err)
		os.Exit(1)
	}
}

func readLines(file string) ([]string, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		lines = append(lines, strings.TrimRight(sc.Text(), " \t\r"))
	}
	return lines, sc.Err()
}
