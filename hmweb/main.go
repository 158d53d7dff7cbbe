// Copyright 2026 The Heatmap Multiplexer Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command hmweb serves the heatmap engine over HTTP for a browser
// front end.
//
// hmweb loads one CSV dataset at startup and exposes:
//
//	GET  /api/columns  classified dataset columns
//	GET  /api/spec     suggested default specification
//	POST /api/heatmap  specification in, grid out
//
// The control surface re-posts the full specification on every
// settled edit; the engine diffs it against the previous one and
// recomputes only what changed.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/ric-evans/heatmap-multiplexer/dataset"
)

func main() {
	log.SetPrefix("hmweb: ")
	log.SetFlags(0)

	var (
		flagAddr = flag.String("addr", defaultAddr(), "listen `address` (also $HMWEB_ADDR)")
		flagCSV  = flag.String("csv", "", "dataset CSV `file` (required)")
	)
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s -csv file.csv [flags]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if *flagCSV == "" {
		flag.Usage()
		os.Exit(2)
	}

	ds, err := dataset.ReadCSVFile(*flagCSV)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("loaded %s: %d records, %d columns", *flagCSV, ds.Rows(), len(ds.Names()))

	e := echo.New()
	e.HideBanner = true
	e.JSONSerializer = goJSONSerializer{}
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	newHandler(ds).register(e)
	e.Logger.Fatal(e.Start(*flagAddr))
}

func defaultAddr() string {
	if addr := os.Getenv("HMWEB_ADDR"); addr != "" {
		return addr
	}
	return ":8050"
}
