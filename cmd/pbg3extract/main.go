// This file is part of eosd.
//
// eosd is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// eosd is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with eosd.  If not, see <https://www.gnu.org/licenses/>.

// Command pbg3extract lists and extracts the contents of a PBG3 archive
// (e.g. MD.DAT), optionally verifying each entry's checksum as it goes. It
// is the consumer package pbg3/lzss/bitstream were always meant to have
// (spec §8 scenario 6: open MD.DAT, list files, extract with checksum=true,
// verify every checksum matches).
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kurokoma/eosd/pbg3"
)

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: pbg3extract <archive> <outdir> [--check]\n")
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	check := false
	var positional []string
	for _, a := range args {
		if a == "--check" {
			check = true
			continue
		}
		positional = append(positional, a)
	}
	if len(positional) != 2 {
		usage()
		return 1
	}
	archivePath, outDir := positional[0], positional[1]

	f, err := os.Open(archivePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open %s: %v\n", archivePath, err)
		return 2
	}
	defer f.Close()

	archive, err := pbg3.Open(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "parse %s: %v\n", archivePath, err)
		return 2
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "mkdir %s: %v\n", outDir, err)
		return 2
	}

	names := archive.ListFiles()
	for _, name := range names {
		data, err := archive.GetFile(name, check)
		if err != nil {
			fmt.Fprintf(os.Stderr, "extract %s: %v\n", name, err)
			return 2
		}
		dest := filepath.Join(outDir, filepath.Clean(filepath.FromSlash(name)))
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			fmt.Fprintf(os.Stderr, "mkdir %s: %v\n", filepath.Dir(dest), err)
			return 2
		}
		if err := os.WriteFile(dest, data, 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "write %s: %v\n", dest, err)
			return 2
		}
		fmt.Printf("%s (%d bytes)\n", name, len(data))
	}

	return 0
}
