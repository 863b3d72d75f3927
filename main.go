// SPDX-License-Identifier: GPL-2.0-or-later

// Demo host: generates a terrain, scatters walkers, crates and trigger
// plates, and runs the fixed-tick loop while reporting contact and
// grid statistics.
package main

import (
	"flag"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chewxy/math32"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"stride/collide"
	"stride/cvars"
	"stride/ent"
	"stride/math"
	"stride/math/vec"
	"stride/mover"
	"stride/sim"
	"stride/simlog"
	"stride/store"
	"stride/terrain"
	"stride/tune"
	"stride/world"
)

var (
	entities = flag.Int("entities", 24, "number of roaming walkers")
	ticks    = flag.Int("ticks", 400, "ticks to simulate (0 = until interrupted)")
	tickrate = flag.Float64("tickrate", 0, "override host_tickrate")
	seed     = flag.Uint("seed", 1, "terrain and scatter seed")
	tilePath = flag.String("tile", "", "terrain tile file, created if missing")
	tunePath = flag.String("tune", "", "yaml cvar overlay, watched for changes")
	savePath = flag.String("save", "", "sqlite snapshot database")
	realtime = flag.Bool("realtime", false, "pace the loop with a wall clock")
	dev      = flag.Bool("dev", false, "developer log chatter")
)

func main() {
	flag.Parse()
	simlog.SetDev(*dev)

	if *tickrate > 0 {
		cvars.HostTickRate.SetValue(float32(*tickrate))
	}
	if *tunePath != "" {
		if err := tune.Load(*tunePath); err != nil {
			log.Fatalf("tune: %v", err)
		}
		w, err := tune.Watch(*tunePath, func(err error) {
			if err != nil {
				simlog.Printf("tune reload: %v", err)
				return
			}
			simlog.Printf("tune reloaded")
		})
		if err != nil {
			log.Fatalf("tune: %v", err)
		}
		defer w.Close()
	}

	if err := run(); err != nil {
		log.Fatalf("%v", err)
	}
}

func run() error {
	ter, err := loadTerrain(*tilePath, uint32(*seed))
	if err != nil {
		return err
	}
	s, err := sim.New(ter, collide.AllowAll())
	if err != nil {
		return err
	}

	var db *store.Store
	if *savePath != "" {
		db, err = store.Open(*savePath)
		if err != nil {
			return err
		}
		defer db.Close()
		// stable session key so a rerun with -save resumes the world
		s.Session = uuid.NewSHA1(uuid.NameSpaceOID, []byte("stride demo"))
		s.Persist(db)
		if cvars.HostPersistEvery.Value() == 0 {
			cvars.HostPersistEvery.SetValue(20)
		}
	}

	ws := populate(s, ter, uint32(*seed), *entities)
	simlog.Printf("session %s: %d entities", s.Session, s.Len())

	if db != nil {
		snap, ok, err := db.LoadLatest(s.Session.String())
		if err != nil {
			return err
		}
		if ok {
			n := s.Restore(snap)
			simlog.Printf("resumed at tick %d, %d entities matched", snap.Tick, n)
		}
	}

	var entered, exited, triggered int
	s.OnEvent(func(ev world.Event) {
		switch ev.Phase {
		case world.Entered:
			entered++
			if ev.Trigger {
				triggered++
			}
			simlog.DPrintf("contact %v/%v", ev.A, ev.B)
		case world.Exited:
			exited++
		}
	})

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	step := 1.0 / float64(math.Clamp(1, cvars.HostTickRate.Value(), 240))
	var ticker *time.Ticker
	if *realtime {
		ticker = time.NewTicker(time.Duration(float64(time.Second) * step))
		defer ticker.Stop()
	}

	rng := rand.New(rand.NewSource(int64(*seed) + 1))
	steered := ^uint64(0)
	start := time.Now()
	last := start

run:
	for *ticks == 0 || s.Tick() < uint64(*ticks) {
		elapsed := step
		if *realtime {
			select {
			case <-stop:
				break run
			case now := <-ticker.C:
				elapsed = now.Sub(last).Seconds()
				last = now
			}
		} else {
			select {
			case <-stop:
				break run
			default:
			}
		}
		// wander: fresh headings every couple of seconds
		if epoch := s.Tick() / 40; epoch != steered {
			steered = epoch
			steer(s, rng, ws)
		}
		s.Advance(elapsed)
	}

	wall := time.Since(start).Seconds()
	if wall <= 0 {
		wall = 1e-9
	}
	gs := s.Set().Grid().Stats()
	simlog.Printf("ran %d ticks in %.2fs (%.0f ticks/s), sim time %.1fs",
		s.Tick(), wall, float64(s.Tick())/wall, s.Time())
	simlog.Printf("grid: %d entities over %d cells, densest holds %d",
		gs.Entities, gs.Cells, gs.MaxPerCell)
	simlog.Printf("contacts: %d entered (%d trigger), %d exited", entered, triggered, exited)
	return nil
}

func loadTerrain(path string, seed uint32) (*terrain.Terrain, error) {
	if path != "" {
		ter, err := terrain.LoadTile(path)
		if err == nil {
			simlog.Printf("loaded terrain tile %s", path)
			return ter, nil
		}
		if !os.IsNotExist(errors.Cause(err)) {
			return nil, err
		}
	}
	ter, err := terrain.Generate(96, 96, 2, vec.Vec3{X: -96, Z: -96}, seed, 6, 24)
	if err != nil {
		return nil, err
	}
	if path != "" {
		if err := ter.SaveTile(path); err != nil {
			return nil, err
		}
		simlog.Printf("wrote terrain tile %s", path)
	}
	return ter, nil
}

type walker struct {
	id      ent.ID
	heading float32
}

func populate(s *sim.Sim, ter *terrain.Terrain, seed uint32, n int) []walker {
	rng := rand.New(rand.NewSource(int64(seed)))
	at := func() (float32, float32) {
		return rng.Float32()*160 - 80, rng.Float32()*160 - 80
	}

	walkerCol := collide.Collider{
		Shape: collide.MustSphere(0.5),
		Layer: collide.Player,
		Mask:  collide.MaskAll,
	}
	ws := make([]walker, 0, n)
	for i := 0; i < n; i++ {
		x, z := at()
		pos := vec.Vec3{X: x, Y: ter.HeightAt(x, z) + 1, Z: z}
		ws = append(ws, walker{
			id:      s.Spawn(walkerCol, pos, true),
			heading: rng.Float32() * 2 * math32.Pi,
		})
	}

	crate := collide.Collider{
		Shape: collide.MustBox(vec.Vec3{X: 0.8, Y: 0.8, Z: 0.8}),
		Layer: collide.Environment,
		Mask:  collide.MaskAll,
	}
	for i := 0; i < n/3+1; i++ {
		x, z := at()
		s.Spawn(crate, vec.Vec3{X: x, Y: ter.HeightAt(x, z) + 0.8, Z: z}, false)
	}

	plate := collide.Collider{
		Shape:   collide.MustBox(vec.Vec3{X: 1.5, Y: 1, Z: 1.5}),
		Layer:   collide.Trigger,
		Mask:    collide.MaskAll,
		Trigger: true,
	}
	for i := 0; i < n/4+1; i++ {
		x, z := at()
		s.Spawn(plate, vec.Vec3{X: x, Y: ter.HeightAt(x, z) + 0.5, Z: z}, false)
	}
	return ws
}

func steer(s *sim.Sim, rng *rand.Rand, ws []walker) {
	for i := range ws {
		w := &ws[i]
		w.heading += (rng.Float32() - 0.5) * 0.6
		s.SetInput(w.id, mover.Input{
			Move: vec.Vec3{X: math32.Cos(w.heading), Z: math32.Sin(w.heading)},
			Jump: rng.Float32() < 0.05,
		})
	}
}
