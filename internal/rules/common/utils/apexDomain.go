package utils

import (
	"net"

	"golang.org/x/net/publicsuffix"
)

// GetApexDomain reduces name to its registrable domain (eTLD+1).
// IP literals, bare public suffixes and names publicsuffix cannot parse are
// returned canonicalized but otherwise unchanged.
func GetApexDomain(name string) string {
	name = CanonicalDNSName(name)
	if name == "" || net.ParseIP(name) != nil {
		return name
	}
	apex, err := publicsuffix.EffectiveTLDPlusOne(name)
	if err != nil {
		return name
	}
	return apex
}
