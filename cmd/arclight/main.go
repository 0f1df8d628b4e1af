// Command arclight runs a scripted engagement in the kinematic arena: one
// piloted fighter against a drifting drone, with an optional HTML trace
// report of the run.
package main

import (
	"flag"
	"log"

	"github.com/arclight-sim/arclight/internal/config"
	"github.com/arclight-sim/arclight/internal/geom"
	"github.com/arclight-sim/arclight/internal/sim"
)

func main() {
	configPath := flag.String("config", "", "Path to a tuning JSON file (defaults apply when empty)")
	ticks := flag.Int("ticks", 1800, "Number of ticks to simulate")
	seed := flag.Int64("seed", 1, "Seed for sensor noise")
	traceOut := flag.String("trace-out", "", "Write an HTML engagement trace to this path")
	droneX := flag.Float64("drone-x", 2000, "Drone start X position in meters")
	droneY := flag.Float64("drone-y", 500, "Drone start Y position in meters")
	droneVX := flag.Float64("drone-vx", -40, "Drone X velocity in m/s")
	droneVY := flag.Float64("drone-vy", 0, "Drone Y velocity in m/s")
	flag.Parse()

	tuning := config.EmptyTuning()
	if *configPath != "" {
		var err error
		tuning, err = config.LoadTuning(*configPath)
		if err != nil {
			log.Fatalf("load tuning: %v", err)
		}
	}
	if err := tuning.Validate(); err != nil {
		log.Fatalf("invalid tuning: %v", err)
	}
	if *ticks <= 0 {
		log.Fatalf("ticks must be positive, got %d", *ticks)
	}

	world := sim.NewWorld(tuning, *seed)
	fighter := world.AddFighter(1, geom.V(0, 0), 0)
	drone := world.AddDrone(2, geom.V(*droneX, *droneY), geom.V(*droneVX, *droneVY))

	log.Printf("run %s: fighter vs drone at (%.0f, %.0f), %d ticks", world.RunID, *droneX, *droneY, *ticks)

	for i := 0; i < *ticks; i++ {
		world.Step()
		if !drone.Alive {
			log.Printf("drone destroyed at tick %d", world.Tick())
			break
		}
		if !fighter.Alive {
			log.Printf("fighter destroyed at tick %d", world.Tick())
			break
		}
	}
	if drone.Alive && fighter.Alive {
		log.Printf("engagement unresolved after %d ticks", world.Tick())
	}

	if *traceOut != "" {
		if err := world.WriteTraceReport(*traceOut); err != nil {
			log.Fatalf("write trace report: %v", err)
		}
		log.Printf("trace written to %s", *traceOut)
	}
}
