package export

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"
)

// Result holds the outcome of exporting one mockup.
type Result struct {
	Index   int
	File    string
	Success bool
	Error   string
}

// RunParallel renders and writes every mockup in the job into dir using a
// worker pool, reporting throughput while it runs. Rendering only reads the
// job's state, so workers never contend.
func RunParallel(j *Job, dir string, workers int) ([]Result, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create export directory: %w", err)
	}
	if workers < 1 {
		workers = 1
	}

	total := len(j.Mockups)
	results := make([]Result, total)
	var processed atomic.Int64

	start := time.Now()

	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				p := processed.Load()
				if p > 0 {
					elapsed := time.Since(start).Seconds()
					rate := float64(p) / elapsed
					fmt.Printf("  [%d/%d] %.1f mockups/sec\n", p, total, rate)
				}
			}
		}
	}()

	indexChan := make(chan int, workers*2)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexChan {
				results[i] = exportOne(j, dir, i)
				processed.Add(1)
			}
		}()
	}

	for i := range j.Mockups {
		indexChan <- i
	}
	close(indexChan)

	wg.Wait()
	close(done)

	if err := writeManifestFile(filepath.Join(dir, "manifest.json"), j); err != nil {
		return results, err
	}
	return results, nil
}

func exportOne(j *Job, dir string, i int) Result {
	name := j.FileName(i)
	if err := j.writeFile(filepath.Join(dir, name), i); err != nil {
		return Result{Index: i, File: name, Error: err.Error()}
	}
	return Result{Index: i, File: name, Success: true}
}
