// Package modbussensors implements hardware.SensorSource by polling an
// FSR/IMU breakout board over Modbus RTU via github.com/goburrow/modbus,
// the concrete sensor adapter named in SPEC_FULL.md §4.7.
package modbussensors

import (
	"time"

	"github.com/goburrow/modbus"
	"github.com/pkg/errors"
)

// RegisterMap gives each named sensor its Modbus holding-register address;
// a real robot's breakout-board wiring table, passed to Open by the caller.
type RegisterMap map[string]uint16

// Source polls holding registers over Modbus RTU and converts each raw
// reading, taken as a signed int16, to a float32 via one scale factor
// shared by all registers.
type Source struct {
	client  modbus.Client
	handler *modbus.RTUClientHandler
	regs    RegisterMap
	scale   float32
}

// Open opens portName for Modbus RTU communication at baud and returns a
// Source that answers GetValues against regs, scaling every raw register
// reading by scale (counts -> engineering units).
func Open(portName string, baud int, slaveID byte, regs RegisterMap, scale float32) (*Source, error) {
	handler := modbus.NewRTUClientHandler(portName)
	handler.BaudRate = baud
	handler.DataBits = 8
	handler.Parity = "N"
	handler.StopBits = 1
	handler.SlaveId = slaveID
	handler.Timeout = 50 * time.Millisecond

	if err := handler.Connect(); err != nil {
		return nil, errors.Wrapf(err, "modbussensors: connecting to %s", portName)
	}

	return &Source{
		client:  modbus.NewClient(handler),
		handler: handler,
		regs:    regs,
		scale:   scale,
	}, nil
}

// Close releases the underlying serial connection.
func (s *Source) Close() error {
	return s.handler.Close()
}

// GetValues reads one holding register per requested name and scales it.
func (s *Source) GetValues(names []string) ([]float32, error) {
	out := make([]float32, len(names))
	for i, name := range names {
		addr, ok := s.regs[name]
		if !ok {
			return nil, errors.Errorf("modbussensors: no register mapped for sensor %q", name)
		}
		raw, err := s.client.ReadHoldingRegisters(addr, 1)
		if err != nil {
			return nil, errors.Wrapf(err, "modbussensors: reading register for %q", name)
		}
		value := int16(uint16(raw[0])<<8 | uint16(raw[1]))
		out[i] = float32(value) * s.scale
	}
	return out, nil
}
