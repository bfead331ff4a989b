// anaflow drives the analog design-automation flow for one design: layout
// generation, schematic generation with LVS, testbench simulation, result
// persistence and plotting. All heavy lifting happens in the EDA daemon; run
// edamockd for a dry run without the real toolchain.
package main

import (
	"flag"
	"fmt"
	"log"
	"sort"

	"anaflow/pkg/eda"
	"anaflow/pkg/flow"
	"anaflow/pkg/render"
	"anaflow/pkg/result"
	"anaflow/pkg/specfile"
	"anaflow/pkg/util"
)

func main() {
	specPath := flag.String("spec", "demo_specs/demo.yaml", "flow specification file")
	dsnName := flag.String("design", "amp_sf", "design name within the spec")
	addr := flag.String("addr", "localhost:8461", "EDA daemon address")
	runLVS := flag.Bool("lvs", true, "run LVS after schematic generation")
	plotOnly := flag.Bool("plot-only", false, "skip generation and simulation, replot persisted results")
	outDir := flag.String("out", "plots", "plot output directory")
	mongoURL := flag.String("mongo", "", "optional MongoDB URL to archive results to")
	flag.Parse()

	specs, err := specfile.Load(*specPath)
	if err != nil {
		log.Fatalf("Error reading spec file: %v", err)
	}

	f, err := flow.New(eda.Dial(*addr), specs, *dsnName)
	if err != nil {
		log.Fatal(err)
	}

	if *mongoURL != "" {
		archiver, err := result.NewArchiver(*mongoURL, "anaflow", "results")
		if err != nil {
			log.Fatalf("Error connecting result archive: %v", err)
		}
		defer archiver.Close()
		f.Archiver = archiver
	}

	if !*plotOnly {
		fmt.Printf("\n[1] Generating %s layout\n", *dsnName)
		schParams, err := f.GenerateLayout()
		if err != nil {
			log.Fatalf("Layout generation failed: %v", err)
		}

		fmt.Println("\n[2] Generating schematics")
		if err := f.GenerateSchematics(schParams, *runLVS); err != nil {
			log.Fatalf("Schematic generation failed: %v", err)
		}

		fmt.Println("\n[3] Running simulations")
		if _, err := f.Simulate(); err != nil {
			log.Fatalf("Simulation failed: %v", err)
		}
	}

	fmt.Println("\n[4] Loading persisted results")
	results, err := f.LoadResults()
	if err != nil {
		log.Fatalf("Loading results failed: %v", err)
	}
	printSummary(results)

	fmt.Println("\n[5] Rendering plots")
	if err := render.RenderAll(results, *outDir); err != nil {
		log.Fatalf("Plot rendering failed: %v", err)
	}
	fmt.Printf("plots written to %s\n", *outDir)
}

func printSummary(results map[string]*result.Table) {
	fmt.Println("\nSimulation Results:")
	fmt.Println("===================")

	names := make([]string, 0, len(results))
	for name := range results {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		tbl := results[name]
		fmt.Printf("\n%s_%s (envs: %v)\n", tbl.Cell, tbl.Testbench, tbl.Envs)

		vecNames := make([]string, 0, len(tbl.Vectors))
		for vn := range tbl.Vectors {
			vecNames = append(vecNames, vn)
		}
		sort.Strings(vecNames)

		for _, vn := range vecNames {
			vec := tbl.Vectors[vn]
			kind := "real"
			if vec.IsComplex() {
				kind = "complex"
			}
			fmt.Printf("  %-12s %5d points (%s)\n", vn, len(vec.Real), kind)
		}

		if freq, err := tbl.Float("freq"); err == nil && len(freq) > 0 {
			fmt.Printf("  frequency span: %s to %s\n",
				util.FormatFrequency(freq[0]), util.FormatFrequency(freq[len(freq)-1]))
		}
		if tvec, err := tbl.Float("time"); err == nil && len(tvec) > 0 {
			fmt.Printf("  time span: %s to %s\n",
				util.FormatValue(tvec[0], "s"), util.FormatValue(tvec[len(tvec)-1], "s"))
		}
	}
}
