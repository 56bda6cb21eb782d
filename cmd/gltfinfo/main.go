// Command gltfinfo loads a glTF 1.0 scene and prints its node tree, world
// bounds and normalizing fit.
//
// Usage:
//
//	gltfinfo [-config file.toml] [-gpu] [-workers n] [-v] <path-or-url>
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/Carmen-Shannon/oxy-gltf/common"
	"github.com/Carmen-Shannon/oxy-gltf/engine/loader"
	"github.com/Carmen-Shannon/oxy-gltf/engine/model"
	"github.com/Carmen-Shannon/oxy-gltf/engine/profiler"
	"github.com/Carmen-Shannon/oxy-gltf/engine/renderer"
	"github.com/Carmen-Shannon/oxy-gltf/engine/scene"
	"github.com/mitchellh/go-homedir"
)

const (
	exitOK    = 0
	exitLoad  = 1
	exitUsage = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("gltfinfo", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "optional TOML config file")
	gpu := fs.Bool("gpu", false, "upload to a headless WebGPU device")
	workers := fs.Int("workers", 0, "number of concurrent fetches")
	verbose := fs.Bool("v", false, "debug logging")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: gltfinfo [-config file.toml] [-gpu] [-workers n] [-v] <path-or-url>")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return exitUsage
	}

	cfg := DefaultConfig()
	if *configPath != "" {
		c, err := LoadConfig(*configPath)
		if err != nil {
			fmt.Fprintln(stderr, "gltfinfo:", err)
			return exitUsage
		}
		cfg = c
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "gpu":
			cfg.GPU = *gpu
		case "workers":
			cfg.Workers = *workers
		case "v":
			if *verbose {
				cfg.LogLevel = "debug"
			}
		}
	})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(stderr, "gltfinfo:", err)
		return exitUsage
	}

	level, _ := cfg.Level()
	timeout, _ := cfg.Timeout()
	log := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	backend := renderer.BackendTypeCPU
	if cfg.GPU {
		backend = renderer.BackendTypeWGPU
	}
	ctx, err := renderer.NewContext(backend, renderer.WithLabel("gltfinfo"))
	if err != nil {
		fmt.Fprintln(stderr, "gltfinfo: render context:", err)
		return exitLoad
	}
	defer ctx.Release()

	ldr := loader.NewLoader(loader.BackendTypeGLTF,
		loader.WithRenderContext(ctx),
		loader.WithLogger(log.With("component", "gltf")),
		loader.WithWorkers(cfg.Workers),
		loader.WithHTTPClient(&http.Client{Timeout: timeout}),
	)
	defer ldr.Close()

	location := fs.Arg(0)
	if !strings.Contains(location, "://") {
		if p, err := homedir.Expand(location); err == nil {
			location = p
		}
	}

	res, err := ldr.LoadSync(location)
	if err != nil {
		fmt.Fprintln(stderr, "gltfinfo:", err)
		if errors.Is(err, model.ErrConfig) {
			return exitUsage
		}
		return exitLoad
	}
	defer res.Document.Release()

	printResult(stdout, res)
	if cpu, ok := ctx.(renderer.CPUContext); ok {
		s := cpu.Stats()
		fmt.Fprintf(stdout, "uploads: %d buffers, %d vertex arrays, %d textures, %d bytes\n", s.Buffers, s.VertexArrays, s.Textures, s.Bytes)
	}
	printStages(stdout, res.Stages)
	return exitOK
}

func printStages(w io.Writer, stages []profiler.Stage) {
	if len(stages) == 0 {
		return
	}
	var total time.Duration
	parts := make([]string, 0, len(stages))
	for _, s := range stages {
		total += s.Duration
		parts = append(parts, fmt.Sprintf("%s %v", s.Name, s.Duration.Round(time.Microsecond)))
	}
	fmt.Fprintf(w, "time: %v (%s)\n", total.Round(time.Microsecond), strings.Join(parts, ", "))
}

func printResult(w io.Writer, res *loader.Result) {
	doc := res.Document
	fmt.Fprintf(w, "document: %s\n", res.Path)
	fmt.Fprintf(w, "scene: %q (%d scenes, %d nodes, %d meshes, %d materials, %d programs)\n",
		res.Root.SceneID, len(doc.Scenes), len(doc.Nodes), len(doc.Meshes), len(doc.Materials), len(doc.Programs))

	res.Root.Walk(func(n *scene.Node, depth int) bool {
		p := common.TransformPoint(n.Global[:], [3]float32{})
		fmt.Fprintf(w, "%s- %s at (%g, %g, %g)\n", strings.Repeat("  ", depth), nodeLabel(n), p[0], p[1], p[2])
		for _, m := range n.Meshes {
			for i, prim := range m.Primitives {
				fmt.Fprintf(w, "%s  mesh %q[%d]: %s, %d indices, %d attributes, material %s\n",
					strings.Repeat("  ", depth), m.ID, i, prim.Topology, len(prim.IndexData), len(prim.VertexAttributes), prim.Binding.Kind)
			}
		}
		return true
	})

	b := res.Root.Bounds
	if b.IsEmpty() {
		fmt.Fprintln(w, "bounds: empty")
		return
	}
	f := res.Root.Fit
	fmt.Fprintf(w, "bounds: min %v max %v\n", b.Min, b.Max)
	fmt.Fprintf(w, "fit: scale %g offset %v\n", f.Scale, f.Offset)
}

func nodeLabel(n *scene.Node) string {
	switch {
	case n.Name != "" && n.ID != "" && n.Name != n.ID:
		return fmt.Sprintf("%s (%s)", n.Name, n.ID)
	case n.Name != "":
		return n.Name
	case n.ID != "":
		return n.ID
	default:
		return "<root>"
	}
}
