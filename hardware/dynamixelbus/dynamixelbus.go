// Package dynamixelbus implements hardware.ActuatorBus over a Dynamixel
// servo chain, the concrete adapter named in SPEC_FULL.md §4.7. It wires
// go.viam.com/dynamixel atop a serial port opened with
// github.com/jacobsa/go-serial/serial, the same pairing the example pack's
// own hexapod servo driver uses (github.com/adammck/dynamixel plus the
// identical jacobsa/go-serial.OpenOptions shape).
package dynamixelbus

import (
	"time"

	"github.com/jacobsa/go-serial/serial"
	"github.com/pkg/errors"
	"go.viam.com/dynamixel/network"
	"go.viam.com/dynamixel/servo"
	"go.viam.com/dynamixel/servo/s_model"
)

// jointServoID maps a joint name to its Dynamixel bus ID; a real robot's
// wiring table. The values are placeholders; config carries no servo map.
type jointServoID map[string]int

// Bus drives one Dynamixel chain as a hardware.ActuatorBus: CreateAlias
// records which joint names (and therefore which servo IDs) an alias
// covers, and SetAlias writes one goal-position command per servo.
type Bus struct {
	net  *network.Network
	ids  jointServoID
	servos map[int]*servo.Servo

	aliasJoints map[string][]string
}

// Open opens portName at baud and returns a Bus ready for CreateAlias
// calls. ids maps every joint name the caller will ever alias to its servo
// bus ID.
func Open(portName string, baud uint, ids map[string]int) (*Bus, error) {
	options := serial.OpenOptions{
		PortName:              portName,
		BaudRate:              uint(baud),
		DataBits:              8,
		StopBits:              1,
		MinimumReadSize:       1,
		InterCharacterTimeout: 100,
	}
	port, err := serial.Open(options)
	if err != nil {
		return nil, errors.Wrapf(err, "dynamixelbus: opening %s", portName)
	}

	net := network.New(port)
	b := &Bus{
		net:         net,
		ids:         ids,
		servos:      make(map[int]*servo.Servo, len(ids)),
		aliasJoints: make(map[string][]string),
	}
	for name, id := range ids {
		sv, err := s_model.New(net, id)
		if err != nil {
			return nil, errors.Wrapf(err, "dynamixelbus: initializing servo %q (id %d)", name, id)
		}
		b.servos[id] = sv
	}
	return b, nil
}

// CreateAlias records which joints (by name) the alias addresses.
func (b *Bus) CreateAlias(name string, jointList []string) error {
	for _, j := range jointList {
		if _, ok := b.ids[j]; !ok {
			return errors.Errorf("dynamixelbus: joint %q has no servo ID mapping", j)
		}
	}
	b.aliasJoints[name] = append([]string(nil), jointList...)
	return nil
}

// SetAlias writes one goal-position command per servo covered by alias.
// command values are radians; the underlying servo library takes degrees.
func (b *Bus) SetAlias(alias string, command []float32) error {
	joints, ok := b.aliasJoints[alias]
	if !ok {
		return errors.Errorf("dynamixelbus: unknown alias %q", alias)
	}
	if len(joints) != len(command) {
		return errors.Errorf("dynamixelbus: alias %q covers %d joints, got %d values", alias, len(joints), len(command))
	}
	for i, j := range joints {
		id := b.ids[j]
		sv := b.servos[id]
		degrees := float64(command[i]) * 180 / 3.14159265
		if err := sv.SetGoalPosition(degrees); err != nil {
			return errors.Wrapf(err, "dynamixelbus: setting goal position for %q", j)
		}
	}
	return nil
}

// GetTime returns the host clock plus offset; Dynamixel servos carry no
// independent clock to query.
func (b *Bus) GetTime(offset time.Duration) time.Time {
	return time.Now().Add(offset)
}
