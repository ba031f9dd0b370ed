package device

// G29ReportDescriptor is the HID report descriptor the virtual port
// advertises so conforming games recognise the device as a Logitech G29
// and address it with PID-class FFB output reports. Layout: a joystick
// collection with X (steering), Y/Z/Rz (pedals), 24 buttons and an 8-way
// hat switch, matching the field layout in report.G29InputReport.
var G29ReportDescriptor = []byte{
	0x05, 0x01, // Usage Page (Generic Desktop)
	0x09, 0x04, // Usage (Joystick)
	0xA1, 0x01, // Collection (Application)
	0x85, 0x01, //   Report ID (1)
	0x09, 0x30, //   Usage (X) - steering
	0x16, 0x00, 0x00, //   Logical Minimum (0)
	0x26, 0xFF, 0xFF, //   Logical Maximum (65535)
	0x75, 0x10, //   Report Size (16)
	0x95, 0x01, //   Report Count (1)
	0x81, 0x02, //   Input (Data, Var, Abs)
	0x09, 0x31, //   Usage (Y) - throttle
	0x09, 0x32, //   Usage (Z) - brake
	0x09, 0x35, //   Usage (Rz) - clutch
	0x16, 0x00, 0x00,
	0x26, 0xFF, 0x03, //   Logical Maximum (1023)
	0x75, 0x10,
	0x95, 0x03,
	0x81, 0x02,
	0x05, 0x09, //   Usage Page (Button)
	0x19, 0x01, //   Usage Minimum (Button 1)
	0x29, 0x18, //   Usage Maximum (Button 24)
	0x15, 0x00,
	0x25, 0x01,
	0x75, 0x01,
	0x95, 0x18,
	0x81, 0x02,
	0x05, 0x01,
	0x09, 0x39, //   Usage (Hat switch)
	0x15, 0x00,
	0x25, 0x07,
	0x35, 0x00,
	0x46, 0x3B, 0x01,
	0x65, 0x14,
	0x75, 0x08,
	0x95, 0x01,
	0x81, 0x42, //   Input (Data, Var, Abs, Null State)
	0x95, 0x05, //   5 bytes padding to reach the 18-byte report
	0x75, 0x08,
	0x81, 0x01,
	0x05, 0x0F, //   Usage Page (PID Page)
	0x09, 0x92, //   Usage (PID State Report)
	0x85, 0x02, //   Report ID (2) - PID output reports
	0x75, 0x08,
	0x95, 0x1F,
	0x91, 0x02, //   Output (Data, Var, Abs)
	0xC0, // End Collection
}
