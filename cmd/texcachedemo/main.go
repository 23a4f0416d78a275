// Command texcachedemo loads a directory of images into a texture cache
// backed by a noop GPU device and prints the cache state.
//
// Configuration comes from TEXCACHE_* environment variables, overridden by
// flags:
//
//	texcachedemo -dir ./assets -budget 4194304 -v
package main

import (
	"context"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"

	"github.com/gogpu/texcache"
	"github.com/gogpu/texcache/gpu"
	"github.com/gogpu/texcache/label"
	"github.com/gogpu/texcache/loader"
)

// Config is the demo configuration.
type Config struct {
	Dir      string        `env:"TEXCACHE_DIR" envDefault:"."`
	Budget   int64         `env:"TEXCACHE_BUDGET" envDefault:"67108864"`
	Capacity int           `env:"TEXCACHE_CAPACITY" envDefault:"4093"`
	Workers  int           `env:"TEXCACHE_WORKERS" envDefault:"4"`
	Frame    time.Duration `env:"TEXCACHE_FRAME" envDefault:"16ms"`
	Dump     bool          `env:"TEXCACHE_DUMP" envDefault:"true"`
	Verbose  bool          `env:"TEXCACHE_VERBOSE"`
}

var imageExts = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true,
	".bmp": true, ".tif": true, ".tiff": true, ".webp": true,
}

func init() {
	// The render loop runs on the main goroutine; keep it on one thread.
	runtime.LockOSThread()
}

func main() {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("Failed to read environment: %v", err)
	}
	flag.StringVar(&cfg.Dir, "dir", cfg.Dir, "directory of images to load")
	flag.Int64Var(&cfg.Budget, "budget", cfg.Budget, "resident byte budget, 0 = unlimited")
	flag.IntVar(&cfg.Capacity, "capacity", cfg.Capacity, "cache table slots")
	flag.IntVar(&cfg.Workers, "workers", cfg.Workers, "decode workers")
	flag.DurationVar(&cfg.Frame, "frame", cfg.Frame, "frame interval")
	flag.BoolVar(&cfg.Dump, "dump", cfg.Dump, "print the cache dump on exit")
	flag.BoolVar(&cfg.Verbose, "v", cfg.Verbose, "debug logging")
	flag.Parse()

	if cfg.Verbose {
		texcache.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	if err := run(cfg); err != nil {
		log.Fatal(err)
	}
}

func run(cfg Config) error {
	paths, err := findImages(cfg.Dir)
	if err != nil {
		return err
	}

	device, queue, cleanup, err := openNoopDevice()
	if err != nil {
		return err
	}
	defer cleanup()
	creator := gpu.NewCreator(device, queue)

	pool := texcache.NewSurfacePool(4)
	cache := texcache.New(
		texcache.WithCapacity(cfg.Capacity),
		texcache.WithByteBudget(cfg.Budget),
		texcache.WithSurfacePool(pool),
		texcache.WithDecoder(texcache.FileDecoder{Pool: pool}),
	)
	cache.BindOwnerThread(texcache.CurrentThreadID())

	title, err := addLabel(cache, fmt.Sprintf("%d images", len(paths)))
	if err != nil {
		return err
	}

	l := loader.New(cache, loader.WithConcurrency(cfg.Workers))
	done := make(chan struct{})
	go func() {
		defer close(done)
		for _, p := range paths {
			if _, err := l.Enqueue(context.Background(), p); err != nil {
				log.Printf("Skipping %s: %v", p, err)
			}
		}
		l.Wait()
	}()

	ticker := time.NewTicker(cfg.Frame)
	defer ticker.Stop()

	frames, total := 0, 0
	for finished := false; !finished; {
		select {
		case <-done:
			finished = true
		case <-ticker.C:
		}
		n, err := cache.Resolve(creator)
		if err != nil {
			return err
		}
		if cache.Lookup(title) == nil {
			return fmt.Errorf("label texture was evicted")
		}
		frames++
		total += n
		if n > 0 {
			log.Printf("Frame %d: promoted %d, resident %d bytes", frames, n, cache.ResidentBytes())
		}
	}

	log.Printf("Loaded %d textures in %d frames, %d failed", total, frames, l.Failures())
	log.Print(cache.Stats())
	if cfg.Dump {
		fmt.Print(cache.Dump())
	}
	return nil
}

// addLabel inserts a locked text texture.
func addLabel(cache *texcache.Cache, text string) (texcache.ID, error) {
	s, err := label.Render(text, label.Options{Padding: 2})
	if err != nil {
		return texcache.InvalidID, err
	}
	id, err := cache.Put("label:title", nil)
	if err != nil {
		return texcache.InvalidID, err
	}
	if err := cache.Lock(id); err != nil {
		return texcache.InvalidID, err
	}
	if err := cache.Attach(id, s); err != nil {
		return texcache.InvalidID, err
	}
	return id, nil
}

func findImages(dir string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && imageExts[strings.ToLower(filepath.Ext(path))] {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", dir, err)
	}
	return paths, nil
}

func openNoopDevice() (hal.Device, hal.Queue, func(), error) {
	api := noop.API{}
	instance, err := api.CreateInstance(nil)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("create instance: %w", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, nil, nil, fmt.Errorf("no adapters")
	}
	openDev, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, nil, nil, fmt.Errorf("open device: %w", err)
	}
	cleanup := func() {
		openDev.Device.Destroy()
		instance.Destroy()
	}
	return openDev.Device, openDev.Queue, cleanup, nil
}
