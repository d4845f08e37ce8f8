package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/catnap-watch/catnap/internal/config"
	"github.com/catnap-watch/catnap/internal/debug"
	"github.com/catnap-watch/catnap/internal/photos"
)

func main() {
	cfgPath := flag.String("config", filepath.Join("configs", "default.yaml"), "path to config file")
	dir := flag.String("dir", "", "photo directory (overrides config)")
	cleanup := flag.Bool("cleanup", false, "clean up old photos")
	dryRun := flag.Bool("dry-run", false, "show what would be deleted without actually deleting")
	maxPhotos := flag.Int("max-photos", 0, "maximum photos to keep (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config failed: %v\n", err)
		os.Exit(1)
	}
	debug.Init(cfg.Defaults.DebugLevel)

	photoDir := cfg.Photos.Dir
	if *dir != "" {
		photoDir = *dir
	}
	max := cfg.Photos.MaxStored
	if *maxPhotos > 0 {
		max = *maxPhotos
	}

	store, err := photos.NewStore(photoDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open photo store: %v\n", err)
		os.Exit(1)
	}

	// Default action is the info report, matching -info behavior of
	// running with no flags at all.
	if !*cleanup {
		if err := printInfo(store, max); err != nil {
			fmt.Fprintf(os.Stderr, "storage info: %v\n", err)
			os.Exit(1)
		}
		return
	}

	fmt.Printf("\n🧹 Photo Cleanup (max: %d photos)\n", max)
	fmt.Println("========================================")

	result, err := store.Enforce(max, *dryRun)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cleanup failed: %v\n", err)
		os.Exit(1)
	}

	if *dryRun {
		for _, p := range result.Selected {
			fmt.Printf("  - %s (from %s)\n", p.Name, p.Taken.Format("2006-01-02 15:04:05"))
		}
		fmt.Printf("\nDRY RUN: would delete %d photos\n", len(result.Selected))
		return
	}

	fmt.Printf("\nDeleted %d old photos, kept %d\n", len(result.Deleted), result.Kept)
	if result.Failed > 0 {
		fmt.Fprintf(os.Stderr, "failed to delete %d photos\n", result.Failed)
		os.Exit(1)
	}
}

func printInfo(store *photos.Store, max int) error {
	info, err := store.Info()
	if err != nil {
		return err
	}

	fmt.Println("\n📊 CatNap Watch Photo Storage Info")
	fmt.Println("===================================")
	fmt.Printf("📸 Total photos: %d\n", info.Count)
	fmt.Printf("💾 Total size: %.2f MB\n", float64(info.TotalSize)/(1024*1024))
	if info.Count > 0 {
		fmt.Printf("📅 Oldest photo: %s\n", info.Oldest.Format("2006-01-02 15:04:05"))
		fmt.Printf("🕒 Newest photo: %s\n", info.Newest.Format("2006-01-02 15:04:05"))
	}
	if info.Count > max {
		fmt.Printf("⚠️  %d photos exceed the limit of %d\n", info.Count-max, max)
	}
	fmt.Println()
	return nil
}
