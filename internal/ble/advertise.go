package ble

// AdvFlags are the two flags carried in the advertising payload: general
// discoverable, BR/EDR not supported.
const (
	AdvFlagGeneralDiscoverable = 0x02
	AdvFlagBREDRNotSupported   = 0x04
)

// AdvData builds the primary advertising payload: flags plus the Config
// service UUID in little-endian order. The local name does NOT fit here —
// see ScanResponseData.
func AdvData() []byte {
	var flags = byte(AdvFlagGeneralDiscoverable | AdvFlagBREDRNotSupported)

	var uuidLE = make([]byte, 16)
	for i, b := range ConfigServiceUUID {
		uuidLE[15-i] = b
	}

	var out []byte
	out = append(out, 2, 0x01, flags)       // AD structure: length, type=Flags, value
	out = append(out, 17, 0x07)             // length, type=Complete List of 128-bit UUIDs
	out = append(out, uuidLE...)

	return out
}

// ScanResponseData builds the scan response payload: the complete local
// name. Splitting name and service UUID across adv_data/scan_data is
// mandatory because together they exceed the 31-byte advertising budget.
func ScanResponseData() []byte {
	var name = []byte(LocalName)
	var out []byte
	out = append(out, byte(len(name)+1), 0x09) // length, type=Complete Local Name
	out = append(out, name...)

	return out
}
