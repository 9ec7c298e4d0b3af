// Package script implements I/O devices written in Lua.
//
// A script may define
//
//	function io_read(port)         -- return a byte, or nil to pass the read on
//	function io_write(port, value) -- return true if the write was handled
//
// and may call set_line(name, asserted) to drive a CPU input line ("IRQ0",
// "IRQ1", "IRQ2", "DREQ0", "DREQ1", "NMI"), serial_rx(channel, byte) to
// feed an ASCI receiver, and log(message).
package script

import (
	"fmt"
	"log/slog"

	lua "github.com/yuin/gopher-lua"

	"github.com/oisee/z180emu/pkg/bus"
	"github.com/oisee/z180emu/pkg/cpu"
)

// Machine is what scripts can drive.
type Machine interface {
	SetInput(line cpu.Line, asserted bool)
	ReceiveSerial(ch int, b uint8)
}

var lineNames = map[string]cpu.Line{}

func init() {
	for _, l := range []cpu.Line{
		cpu.LineIRQ0, cpu.LineIRQ1, cpu.LineIRQ2,
		cpu.LineDREQ0, cpu.LineDREQ1, cpu.LineNMI,
	} {
		lineNames[l.String()] = l
	}
}

// Device is an I/O space served by a Lua script. Ports the script does not
// claim go to the next space.
type Device struct {
	L       *lua.LState
	next    bus.Space
	machine Machine
	log     *slog.Logger
	err     error

	readFn, writeFn lua.LValue
}

// New runs src and returns a device in front of next.
func New(src string, next bus.Space, log *slog.Logger) (*Device, error) {
	d := newDevice(next, log)
	if err := d.L.DoString(src); err != nil {
		d.Close()
		return nil, fmt.Errorf("script: %w", err)
	}
	d.bind()
	return d, nil
}

// Load runs the script file at path.
func Load(path string, next bus.Space, log *slog.Logger) (*Device, error) {
	d := newDevice(next, log)
	if err := d.L.DoFile(path); err != nil {
		d.Close()
		return nil, fmt.Errorf("script %s: %w", path, err)
	}
	d.bind()
	return d, nil
}

func newDevice(next bus.Space, log *slog.Logger) *Device {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	d := &Device{L: lua.NewState(), next: next, log: log}
	d.L.SetGlobal("set_line", d.L.NewFunction(d.setLine))
	d.L.SetGlobal("serial_rx", d.L.NewFunction(d.serialRx))
	d.L.SetGlobal("log", d.L.NewFunction(d.logMsg))
	return d
}

func (d *Device) bind() {
	if fn, ok := d.L.GetGlobal("io_read").(*lua.LFunction); ok {
		d.readFn = fn
	}
	if fn, ok := d.L.GetGlobal("io_write").(*lua.LFunction); ok {
		d.writeFn = fn
	}
}

// Attach sets the machine that set_line and serial_rx drive.
func (d *Device) Attach(m Machine) {
	d.machine = m
}

// Close releases the Lua state.
func (d *Device) Close() {
	d.L.Close()
}

// Err returns the first error raised by a script callback.
func (d *Device) Err() error {
	return d.err
}

// Read implements bus.Space.
func (d *Device) Read(addr uint32) uint8 {
	if d.readFn != nil {
		if v, ok := d.call(d.readFn, lua.LNumber(uint16(addr))); ok {
			if n, isNum := v.(lua.LNumber); isNum {
				return uint8(int(n))
			}
		}
	}
	return d.next.Read(addr)
}

// Write implements bus.Space.
func (d *Device) Write(addr uint32, value uint8) {
	if d.writeFn != nil {
		if v, ok := d.call(d.writeFn, lua.LNumber(uint16(addr)), lua.LNumber(value)); ok && lua.LVAsBool(v) {
			return
		}
	}
	d.next.Write(addr, value)
}

// WaitStates implements bus.Waiter by deferring to the next space.
func (d *Device) WaitStates(addr uint32, write bool) int {
	return bus.Wait(d.next, addr, write)
}

func (d *Device) call(fn lua.LValue, args ...lua.LValue) (lua.LValue, bool) {
	err := d.L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, args...)
	if err != nil {
		if d.err == nil {
			d.err = err
		}
		d.log.Error("script callback failed", "err", err)
		return lua.LNil, false
	}
	v := d.L.Get(-1)
	d.L.Pop(1)
	return v, true
}

func (d *Device) setLine(L *lua.LState) int {
	name := L.CheckString(1)
	on := L.ToBool(2)
	line, ok := lineNames[name]
	if !ok {
		L.ArgError(1, "unknown line "+name)
		return 0
	}
	if d.machine == nil {
		L.RaiseError("set_line: no machine attached")
		return 0
	}
	d.machine.SetInput(line, on)
	return 0
}

func (d *Device) serialRx(L *lua.LState) int {
	ch := L.CheckInt(1)
	b := L.CheckInt(2)
	if ch < 0 || ch > 1 {
		L.ArgError(1, "channel must be 0 or 1")
		return 0
	}
	if d.machine == nil {
		L.RaiseError("serial_rx: no machine attached")
		return 0
	}
	d.machine.ReceiveSerial(ch, uint8(b))
	return 0
}

func (d *Device) logMsg(L *lua.LState) int {
	d.log.Info(L.CheckString(1), "source", "script")
	return 0
}
