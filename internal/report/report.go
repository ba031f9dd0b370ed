// Package report defines the wire-level report and command entities that
// flow between the physical wheel and the virtual G29 device, along with
// the IFORCE packet framing used on the physical wheel port.
package report

import "encoding/binary"

// ThrustmasterInputReport is the 8-byte input report read from the
// physical wheel.
type ThrustmasterInputReport struct {
	Steering int16 // raw, [-32768, 32767]
	Throttle uint8 // 0-255
	Brake    uint8
	Clutch   uint8
	Buttons  uint16 // bitfield
	DPad     uint8  // 0-7 compass points, 8 = centre
}

// ParseThrustmasterInputReport decodes an 8-byte wire buffer into a
// ThrustmasterInputReport.
func ParseThrustmasterInputReport(data []byte) ThrustmasterInputReport {
	return ThrustmasterInputReport{
		Steering: int16(binary.LittleEndian.Uint16(data[0:2])),
		Throttle: data[2],
		Brake:    data[3],
		Clutch:   data[4],
		Buttons:  binary.LittleEndian.Uint16(data[5:7]),
		DPad:     data[7] & 0x0F,
	}
}

// G29InputReport is the USB HID input report published to the virtual G29
// device. ReportID is always 0x01; Steering centres at 0x8000; Throttle/
// Brake/Clutch are 10-bit values right-aligned in 16-bit fields; Buttons
// holds 24 buttons in the low bits and the D-pad in the top byte.
type G29InputReport struct {
	ReportID uint8
	Steering uint16
	Throttle uint16
	Brake    uint16
	Clutch   uint16
	Buttons  uint32
	unused   [4]byte
}

// Bytes encodes the report for transmission to the virtual HID device:
// [id, steer_lo, steer_hi, thr_lo, thr_hi, brk_lo, brk_hi, clu_lo, clu_hi,
//  btn0, btn1, btn2, btn3, pad...].
func (r G29InputReport) Bytes() []byte {
	buf := make([]byte, 18)
	buf[0] = r.ReportID
	binary.LittleEndian.PutUint16(buf[1:3], r.Steering)
	binary.LittleEndian.PutUint16(buf[3:5], r.Throttle)
	binary.LittleEndian.PutUint16(buf[5:7], r.Brake)
	binary.LittleEndian.PutUint16(buf[7:9], r.Clutch)
	binary.LittleEndian.PutUint32(buf[9:13], r.Buttons)
	return buf
}

// G29OutputReport is a raw FFB output report received from the virtual G29
// device (originated by a game's PID driver).
type G29OutputReport struct {
	ReportID uint8
	Data     []byte
}

// IforceCommand is a single IFORCE command destined for the physical
// wheel, prior to wire framing.
type IforceCommand struct {
	CommandID uint8
	Data      []byte
}

// Frame encodes the command using IFORCE packet framing:
// [length, command_id, payload..., xor_checksum], where
// length = len(payload) + 2 (covering command_id and checksum) and
// xor_checksum is the XOR of every preceding byte in the frame.
func (c IforceCommand) Frame() []byte {
	length := byte(len(c.Data) + 2)
	frame := make([]byte, 0, len(c.Data)+3)
	frame = append(frame, length, c.CommandID)
	frame = append(frame, c.Data...)

	var checksum byte
	for _, b := range frame {
		checksum ^= b
	}
	frame = append(frame, checksum)
	return frame
}
