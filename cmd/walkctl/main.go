// Command walkctl is a local, gRPC-free CLI for exercising the walking
// pipeline end to end: it wires a MotionSwitchboard and Enactor to the fake
// hardware adapters, dispatches one command through motion.Interface, ticks
// the whole pipeline for a configurable duration, and reports the resulting
// odometry. It never talks to real actuators; swap hardware/fake for
// hardware/dynamixelbus and hardware/modbussensors to drive a real robot.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/edaniels/golog"
	"github.com/urfave/cli/v2"

	"github.com/bowdoin-robotics/biped/config"
	"github.com/bowdoin-robotics/biped/enactor"
	"github.com/bowdoin-robotics/biped/gait"
	"github.com/bowdoin-robotics/biped/hardware/fake"
	"github.com/bowdoin-robotics/biped/kinematics"
	"github.com/bowdoin-robotics/biped/motion"
	"github.com/bowdoin-robotics/biped/providers"
	"github.com/bowdoin-robotics/biped/transcriber"
	"github.com/bowdoin-robotics/biped/walk"
)

var logger = golog.NewDevelopmentLogger("walkctl")

const tickHz = 50

type pipeline struct {
	motion      *motion.Interface
	transcriber *transcriber.Transcriber
	enactor     *enactor.Enactor
	sb          *providers.MotionSwitchboard
}

func newPipeline(g gait.Gait) (*pipeline, error) {
	solver := walk.NewClosedFormIK(walk.DefaultLegGeometry())
	neutral := walk.ArmJointAngles{1.5, 0.2, -1.5, -0.5}
	gen := walk.NewStepGenerator(g, solver, neutral, logger)
	meta := gait.NewMetaGait(g)

	walkP := providers.NewWalkProvider(gen, meta, logger)
	scriptedP := providers.NewScriptedProvider(tickHz, [kinematics.NumJoints]float32{})
	headP := providers.NewHeadProvider(tickHz)
	sb := providers.NewMotionSwitchboard(walkP, scriptedP, headP, logger)

	sensorSource := fake.NewSensorSource()
	trans := transcriber.New(sensorSource, transcriber.DefaultAccelCalibration(), logger)

	actuatorBus := fake.NewActuatorBus()
	e, err := enactor.New(actuatorBus, sb, trans.Sensors(), kinematics.MaxVelNoLoad, logger)
	if err != nil {
		return nil, err
	}

	return &pipeline{
		motion:      motion.New(sb, g.Stiffness.Head, logger),
		transcriber: trans,
		enactor:     e,
		sb:          sb,
	}, nil
}

// run ticks the switchboard, transcriber, and enactor together for dur,
// mirroring the motion-tick/actuator-frame relationship described in
// spec.md §5 at a 1:1 ratio for this offline CLI (no sendDelay jitter to
// absorb since there's no real bus latency to hide).
func (p *pipeline) run(dur time.Duration) error {
	ticker := time.NewTicker(time.Second / tickHz)
	defer ticker.Stop()

	deadline := time.Now().Add(dur)
	for range ticker.C {
		if err := p.transcriber.Tick(); err != nil {
			return err
		}
		if err := p.sb.Tick(); err != nil {
			return err
		}
		if err := p.enactor.Tick(); err != nil {
			return err
		}
		if time.Now().After(deadline) {
			return nil
		}
	}
	return nil
}

func main() {
	app := &cli.App{
		Name:  "walkctl",
		Usage: "drive the bipedal walking pipeline against fake hardware",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Usage: "optional YAML config file naming gaits/calibration/hardware"},
			&cli.DurationFlag{Name: "duration", Value: 2 * time.Second, Usage: "how long to run the pipeline after dispatching the command"},
		},
		Commands: []*cli.Command{
			walkCommand,
			stepCommand,
			distanceCommand,
			gaitCommand,
			freezeCommand,
			unfreezeCommand,
			stopCommand,
		},
	}
	if err := app.Run(os.Args); err != nil {
		logger.Fatalw("walkctl: fatal error", "error", err)
	}
}

func loadGait(c *cli.Context) gait.Gait {
	path := c.String("config")
	if path == "" {
		return gait.Default()
	}
	cfg, err := config.Load(path)
	if err != nil {
		logger.Warnw("walkctl: failed to load config, falling back to default gait", "error", err)
		return gait.Default()
	}
	return config.DefaultGaitOrFallback(cfg)
}

func reportOdometry(p *pipeline) {
	dx, dy, dtheta := p.motion.GetOdometryUpdate()
	fmt.Printf("odometry delta: x=%.1fmm y=%.1fmm theta=%.3frad\n", dx, dy, dtheta)
}

var walkCommand = &cli.Command{
	Name:  "walk",
	Usage: "walk at a continuous velocity",
	Flags: []cli.Flag{
		&cli.Float64Flag{Name: "x", Usage: "forward velocity, mm/s"},
		&cli.Float64Flag{Name: "y", Usage: "lateral velocity, mm/s"},
		&cli.Float64Flag{Name: "theta", Usage: "turn velocity, rad/s"},
	},
	Action: func(c *cli.Context) error {
		p, err := newPipeline(loadGait(c))
		if err != nil {
			return err
		}
		if err := p.motion.SetNextWalkCommand(float32(c.Float64("x")), float32(c.Float64("y")), float32(c.Float64("theta"))); err != nil {
			return err
		}
		if err := p.run(c.Duration("duration")); err != nil {
			return err
		}
		reportOdometry(p)
		return nil
	},
}

var stepCommand = &cli.Command{
	Name:  "step",
	Usage: "take a fixed number of steps at a velocity",
	Flags: []cli.Flag{
		&cli.Float64Flag{Name: "x", Usage: "forward velocity, mm/s"},
		&cli.Float64Flag{Name: "y", Usage: "lateral velocity, mm/s"},
		&cli.Float64Flag{Name: "theta", Usage: "turn velocity, rad/s"},
		&cli.IntFlag{Name: "num-steps", Value: 4, Usage: "number of steps to take"},
	},
	Action: func(c *cli.Context) error {
		p, err := newPipeline(loadGait(c))
		if err != nil {
			return err
		}
		if err := p.motion.SendStepCommand(float32(c.Float64("x")), float32(c.Float64("y")), float32(c.Float64("theta")), c.Int("num-steps")); err != nil {
			return err
		}
		if err := p.run(c.Duration("duration")); err != nil {
			return err
		}
		reportOdometry(p)
		return nil
	},
}

var distanceCommand = &cli.Command{
	Name:  "distance",
	Usage: "walk a fixed planar distance",
	Flags: []cli.Flag{
		&cli.Float64Flag{Name: "x-mm", Usage: "forward distance, mm"},
		&cli.Float64Flag{Name: "y-mm", Usage: "lateral distance, mm"},
		&cli.Float64Flag{Name: "theta-rad", Usage: "turn distance, rad"},
	},
	Action: func(c *cli.Context) error {
		p, err := newPipeline(loadGait(c))
		if err != nil {
			return err
		}
		if err := p.motion.SendDistanceCommand(float32(c.Float64("x-mm")), float32(c.Float64("y-mm")), float32(c.Float64("theta-rad"))); err != nil {
			return err
		}
		if err := p.run(c.Duration("duration")); err != nil {
			return err
		}
		reportOdometry(p)
		return nil
	},
}

var gaitCommand = &cli.Command{
	Name:  "gait",
	Usage: "report the gait the pipeline would start from",
	Action: func(c *cli.Context) error {
		g := loadGait(c)
		fmt.Printf("gait %q: step=%.2fs footLift=%.0fmm stiffness(leg=%.2f arm=%.2f head=%.2f)\n",
			g.Name, g.Step.DurationSec, g.Stance.FootLiftMM, g.Stiffness.Leg, g.Stiffness.Arm, g.Stiffness.Head)
		return nil
	},
}

var freezeCommand = &cli.Command{
	Name:  "freeze",
	Usage: "freeze the robot in its current pose at a given stiffness",
	Flags: []cli.Flag{
		&cli.Float64Flag{Name: "stiffness", Value: 0.3},
	},
	Action: func(c *cli.Context) error {
		p, err := newPipeline(loadGait(c))
		if err != nil {
			return err
		}
		if err := p.motion.SendFreezeCommand(float32(c.Float64("stiffness"))); err != nil {
			return err
		}
		return p.run(c.Duration("duration"))
	},
}

var unfreezeCommand = &cli.Command{
	Name:  "unfreeze",
	Usage: "release a prior freeze and restore the walk provider",
	Action: func(c *cli.Context) error {
		p, err := newPipeline(loadGait(c))
		if err != nil {
			return err
		}
		if err := p.motion.SendUnfreezeCommand(); err != nil {
			return err
		}
		return p.run(c.Duration("duration"))
	},
}

var stopCommand = &cli.Command{
	Name:  "stop",
	Usage: "request the active body provider wind down to a stop",
	Action: func(c *cli.Context) error {
		p, err := newPipeline(loadGait(c))
		if err != nil {
			return err
		}
		if err := p.motion.SetNextWalkCommand(20, 0, 0); err != nil {
			return err
		}
		p.motion.StopBodyMoves()
		if err := p.run(c.Duration("duration")); err != nil {
			return err
		}
		reportOdometry(p)
		return nil
	},
}
