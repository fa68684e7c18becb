// Copyright (C) 2022 Sneller, Inc.
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

// Command qdump prints the decoded value tree of one or more q/kdb+ IPC
// frames, reading each input as a self-contained stream of frames.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/kdbipc/qwire/qwire"
)

func main() {
	universal := flag.Bool("universal", false, "convert temporal values to calendar dates/timespans instead of raw tagged integers")
	raw := flag.Bool("raw", false, "dump undecoded frame body bytes instead of the value tree")
	flag.Parse()

	o := bufio.NewWriter(os.Stdout)
	args := flag.Args()
	if len(args) == 0 {
		args = []string{"-"}
	}
	opts := qwire.ReadOptions{Raw: *raw, Universal: *universal}
	for _, arg := range args {
		var in *os.File
		if arg == "-" {
			in = os.Stdin
		} else {
			var err error
			in, err = os.Open(arg)
			if err != nil {
				fmt.Fprintf(os.Stderr, "can't open %q: %s\n", arg, err)
				os.Exit(1)
			}
		}
		if err := dumpAll(o, in, opts); err != nil {
			fmt.Fprintf(os.Stderr, "input %s: %s\n", arg, err)
			os.Exit(1)
		}
	}
	if err := o.Flush(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// dumpAll decodes and prints every frame found in r until EOF.
func dumpAll(w io.Writer, r io.Reader, opts qwire.ReadOptions) error {
	reader := qwire.NewReader(qwire.NewStreamSource(r), opts)
	for {
		msg, err := reader.Read()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			if qe, ok := err.(*qwire.QException); ok {
				fmt.Fprintf(w, "'%s\n", qe.Message())
				continue
			}
			return err
		}
		if opts.Raw {
			fmt.Fprintf(w, "% x\n", msg.Raw)
			continue
		}
		writeValue(w, msg.Data)
		fmt.Fprintln(w)
	}
}
