package main

import (
	"flag"
	"log"
	"os"
	"runtime/pprof"

	"github.com/hailam/chessplay/internal/engine"
	"github.com/hailam/chessplay/internal/storage"
	"github.com/hailam/chessplay/internal/uci"
)

var (
	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")
	ttSize     = flag.Int("ttsize", engine.DefaultTTEntries, "transposition table size, in entries (rounded down to a power of two)")
	ttStore    = flag.String("ttstore", "", "path to a BadgerDB directory for persisting the transposition table across runs; empty disables persistence")
)

func main() {
	flag.Parse()

	profilePath := *cpuprofile
	if profilePath == "" {
		profilePath = os.Getenv("CPUPROFILE")
	}
	if profilePath != "" {
		f, err := os.Create(profilePath)
		if err != nil {
			log.Fatal("could not create CPU profile: ", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal("could not start CPU profile: ", err)
		}
		defer pprof.StopCPUProfile()
		log.Printf("CPU profiling enabled, writing to %s", profilePath)
	}

	eng := engine.NewEngine(*ttSize)

	var store *storage.Store
	if *ttStore != "" {
		s, err := storage.Open(*ttStore)
		if err != nil {
			log.Printf("warning: could not open TT store at %s: %v", *ttStore, err)
		} else {
			store = s
			if err := store.LoadTT(eng.TT()); err != nil {
				log.Printf("warning: could not load TT snapshot: %v", err)
			}
		}
	}

	protocol := uci.New(eng)
	protocol.Run()

	if store != nil {
		if err := store.SaveTT(eng.TT()); err != nil {
			log.Printf("warning: could not save TT snapshot: %v", err)
		}
		if err := store.Close(); err != nil {
			log.Printf("warning: could not close TT store: %v", err)
		}
	}
}
