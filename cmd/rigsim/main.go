// Copyright 2016 The Rigfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command rigsim runs one rig equilibrium simulation from a JSON payload
// file and writes the result as JSON, following the flag-driven,
// defer/recover CLI shape of gofem's own main.go. The solve is a single
// in-process call with no distributed coordination to bootstrap.
package main

import (
	"encoding/json"
	"flag"
	"os"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/rigfem/fem"
	"github.com/cpmech/rigfem/inp"
)

func main() {
	verbose := true

	defer func() {
		if err := recover(); err != nil {
			chk.Verbose = true
			for i := 8; i > 3; i-- {
				chk.CallerInfo(i)
			}
			io.PfRed("ERROR: %v\n", err)
		}
	}()

	io.PfWhite("\nrigsim -- sailing rig equilibrium solver\n\n")

	outPath := flag.String("o", "", "output JSON path (default: stdout)")
	flag.BoolVar(&verbose, "v", true, "print a one-line summary after solving")
	flag.Parse()

	if len(flag.Args()) < 1 {
		chk.Panic("please provide a payload filename. Ex.: rigsim boat.json")
	}
	payloadPath := flag.Arg(0)
	if io.FnExt(payloadPath) == "" {
		payloadPath += ".json"
	}

	buf, err := io.ReadFile(payloadPath)
	if err != nil {
		chk.Panic("cannot read payload file %q: %v", payloadPath, err)
	}

	var p inp.Payload
	if err := json.Unmarshal(buf, &p); err != nil {
		chk.Panic("cannot parse payload file %q: %v", payloadPath, err)
	}

	res := fem.Simulate(&p)

	out, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		chk.Panic("cannot encode result: %v", err)
	}

	if *outPath == "" {
		io.Pf("%s\n", out)
	} else {
		if err := os.WriteFile(*outPath, out, 0644); err != nil {
			chk.Panic("cannot write result file %q: %v", *outPath, err)
		}
	}

	if verbose {
		if res.Ok {
			io.Pfgreen("solved: converged=%v iterations=%d gradInf=%.4g solver=%s\n",
				res.Converged, res.Iterations, res.GradInf, res.Solver)
		} else {
			io.Pfyel("not solved: reason=%s\n", res.Reason)
		}
	}
}
