package domain

import "strings"

// CountryCode is the international prefix of every number in the fleet.
const CountryCode = "+95"

// InternationalMSISDN converts a local number to the international form used
// by the network test API. A single leading zero is dropped:
// "09123456789" becomes "+959123456789".
func InternationalMSISDN(phone string) string {
	return CountryCode + strings.TrimPrefix(phone, "0")
}
