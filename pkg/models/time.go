package models

import "time"

// deviceTimeLayout accepts unpadded day, month and clock fields, matching
// what the kiosk agents actually write ("3/6/2024 9:05:07" and
// "03/06/2024 09:05:07" both parse).
const deviceTimeLayout = "2/1/2006 15:4:5"

// ParseDeviceTime parses a device timestamp in DD/MM/YYYY HH:MM:SS form.
// The zero time reports failure.
func ParseDeviceTime(s string) (time.Time, bool) {
	t, err := time.Parse(deviceTimeLayout, s)
	if err != nil {
		return time.Time{}, false
	}

	return t, true
}

// DeviceTime extracts the timestamp of a device record from its "waktu"
// field, falling back to "waktu_start". A non-string or unparsable value
// yields the zero time.
func DeviceTime(device Record) (time.Time, bool) {
	value := device[FieldTime]
	if !Truthy(value) {
		value = device[FieldTimeStart]
	}

	s, ok := value.(string)
	if !ok {
		return time.Time{}, false
	}

	return ParseDeviceTime(s)
}
