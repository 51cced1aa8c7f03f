// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// LifeTree is a tool to assemble a single,
// time calibrated phylogenetic tree of life
// from hand curated skeleton trees
// and a reference taxonomy.
package main

import (
	"github.com/js-arias/command"
	"github.com/js-arias/lifetree/cmd/lifetree/build"
	"github.com/js-arias/lifetree/cmd/lifetree/calibrate"
	"github.com/js-arias/lifetree/cmd/lifetree/check"
	"github.com/js-arias/lifetree/cmd/lifetree/draw"
	"github.com/js-arias/lifetree/cmd/lifetree/export"
	"github.com/js-arias/lifetree/cmd/lifetree/extract"
	"github.com/js-arias/lifetree/cmd/lifetree/fix"
	"github.com/js-arias/lifetree/cmd/lifetree/minimal"
	"github.com/js-arias/lifetree/cmd/lifetree/set"
)

var app = &command.Command{
	Usage: "lifetree <command> [<argument>...]",
	Short: "a tool to assemble a time calibrated tree of life",
}

func init() {
	app.Add(build.Command)
	app.Add(calibrate.Command)
	app.Add(check.Command)
	app.Add(draw.Command)
	app.Add(export.Command)
	app.Add(extract.Command)
	app.Add(fix.Command)
	app.Add(minimal.Command)
	app.Add(set.Command)
}

func main() {
	app.Main()
}
