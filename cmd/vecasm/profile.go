package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"
)

// Profile file names, written to the working directory.
const (
	cpuProfileName = "cpu.prof"
	memProfileName = "mem.prof"
)

// profiler brackets one run with a CPU profile and finishes it with a heap
// snapshot.
type profiler struct {
	dir string
	cpu *os.File
}

func startProfiling(dir string) (*profiler, error) {
	path := filepath.Join(dir, cpuProfileName)
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", cpuProfileName, err)
	}
	if err := pprof.StartCPUProfile(file); err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("starting CPU profile: %w", err)
	}
	slog.Info("cpu profiling started", "file", path)
	return &profiler{dir: dir, cpu: file}, nil
}

// stop ends CPU profiling and writes the heap profile. It is safe to call
// more than once.
func (p *profiler) stop() error {
	if p == nil || p.cpu == nil {
		return nil
	}
	pprof.StopCPUProfile()
	cpuErr := p.cpu.Close()
	p.cpu = nil

	return errors.Join(cpuErr, p.writeHeap())
}

func (p *profiler) writeHeap() error {
	path := filepath.Join(p.dir, memProfileName)
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", memProfileName, err)
	}
	defer file.Close()

	runtime.GC() // up-to-date allocation statistics
	if err := pprof.WriteHeapProfile(file); err != nil {
		return fmt.Errorf("writing memory profile: %w", err)
	}
	slog.Info("memory profiling completed", "file", path)
	return nil
}
