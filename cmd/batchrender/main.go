// Command batchrender renders every mockup of a project at full resolution
// without opening the editor. Output goes to a directory of images or to a
// single zip archive, manifest included either way.
//
// Usage:
//
//	batchrender -project shirts.mockup -out renders/ -format webp -workers 8
//	batchrender -project shirts.mockup -archive -out shirts.zip
//	batchrender -config batch.json -scale 0.5
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/NV08hv/canvas-mockup-sub000/internal/app"
	"github.com/NV08hv/canvas-mockup-sub000/internal/export"
)

func main() {
	var (
		configPath = flag.String("config", "", "JSON config file; explicit flags override it")
		project    = flag.String("project", "", ".mockup project file to render")
		out        = flag.String("out", "", "output directory, or archive path with -archive")
		format     = flag.String("format", "", "output format: png or webp (default png)")
		archive    = flag.Bool("archive", false, "write one zip archive instead of a directory")
		workers    = flag.Int("workers", 0, "parallel renderers (default: CPU count)")
		scale      = flag.Float64("scale", 0, "output scale factor (default 1.0)")
	)
	flag.Parse()

	var cfg Config
	if *configPath != "" {
		var err error
		if cfg, err = loadConfig(*configPath); err != nil {
			log.Fatalf("batchrender: %v", err)
		}
	}

	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if set["project"] {
		cfg.Project = *project
	}
	if set["out"] {
		cfg.Out = *out
	}
	if set["format"] {
		cfg.Format = *format
	}
	if set["archive"] {
		cfg.Archive = *archive
	}
	if set["workers"] {
		cfg.Workers = *workers
	}
	if set["scale"] {
		cfg.Scale = *scale
	}
	cfg.resolve()

	if cfg.Project == "" {
		fmt.Fprintln(os.Stderr, "batchrender: -project (or a config file naming one) is required")
		flag.Usage()
		os.Exit(2)
	}

	fmtParsed, err := export.ParseFormat(cfg.Format)
	if err != nil {
		log.Fatalf("batchrender: %v", err)
	}

	state := app.NewState()
	if err := state.LoadProject(cfg.Project); err != nil {
		log.Fatalf("batchrender: %v", err)
	}
	if state.MockupCount() == 0 {
		log.Fatalf("batchrender: project %s has no mockups", cfg.Project)
	}

	job := &export.Job{
		Mockups: state.MockupsSnapshot(),
		Layers:  state.Layers(),
		Format:  fmtParsed,
		Scale:   cfg.Scale,
	}

	fmt.Printf("Rendering %d mockups from %s (%s, scale %.2f)\n",
		len(job.Mockups), cfg.Project, job.Format, cfg.Scale)
	start := time.Now()

	if cfg.Archive {
		runArchive(job, cfg.Out)
	} else {
		runDir(job, cfg.Out, cfg.Workers)
	}

	fmt.Printf("Done in %.1fs\n", time.Since(start).Seconds())
}

func runArchive(job *export.Job, path string) {
	f, err := os.Create(path)
	if err != nil {
		log.Fatalf("batchrender: failed to create archive: %v", err)
	}
	defer f.Close()

	err = job.WriteArchive(f, func(done, total int) {
		fmt.Printf("  [%d/%d] %s\n", done, total, job.FileName(done-1))
	})
	if err != nil {
		log.Fatalf("batchrender: %v", err)
	}
	fmt.Printf("Wrote %s\n", path)
}

func runDir(job *export.Job, dir string, workers int) {
	results, err := export.RunParallel(job, dir, workers)
	if err != nil {
		log.Fatalf("batchrender: %v", err)
	}

	failed := 0
	for _, r := range results {
		if !r.Success {
			failed++
			fmt.Fprintf(os.Stderr, "  FAILED %s: %s\n", r.File, r.Error)
		}
	}

	fmt.Printf("Wrote %d of %d images to %s\n", len(results)-failed, len(results), dir)
	if failed > 0 {
		os.Exit(1)
	}
}
