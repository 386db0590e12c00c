package cpufeat

import (
	"fmt"
	"io"
	"strings"
)

// Auxiliary vector keys, from <elf.h>.
const (
	atHWCap  = 16
	atHWCap2 = 26
)

// Bit is one named hwcap bit.
type Bit struct {
	Name string
	Mask uint64
}

// ARM64Bits are the AT_HWCAP bits of linux/arm64, in bit order.
var ARM64Bits = []Bit{
	{"FP", 1 << 0},
	{"ASIMD", 1 << 1},
	{"EVTSTRM", 1 << 2},
	{"AES", 1 << 3},
	{"PMULL", 1 << 4},
	{"SHA1", 1 << 5},
	{"SHA2", 1 << 6},
	{"CRC32", 1 << 7},
	{"ATOMICS", 1 << 8},
	{"FPHP", 1 << 9},
	{"ASIMDHP", 1 << 10},
	{"CPUID", 1 << 11},
	{"ASIMDRDM", 1 << 12},
	{"JSCVT", 1 << 13},
	{"FCMA", 1 << 14},
	{"LRCPC", 1 << 15},
	{"DCPOP", 1 << 16},
	{"SHA3", 1 << 17},
	{"SM3", 1 << 18},
	{"SM4", 1 << 19},
	{"ASIMDDP", 1 << 20},
	{"SHA512", 1 << 21},
	{"SVE", 1 << 22},
	{"ASIMDFHM", 1 << 23},
	{"DIT", 1 << 24},
	{"USCAT", 1 << 25},
	{"ILRCPC", 1 << 26},
	{"FLAGM", 1 << 27},
	{"SSBS", 1 << 28},
	{"SB", 1 << 29},
	{"PACA", 1 << 30},
	{"PACG", 1 << 31},
}

// DecodeARM64 returns the names of the known bits set in hwcap.
func DecodeARM64(hwcap uint64) []string {
	var names []string
	for _, b := range ARM64Bits {
		if hwcap&b.Mask != 0 {
			names = append(names, b.Name)
		}
	}
	return names
}

// WriteHWCap prints hwcap in binary, then "HWCAP_<NAME> <hwcap&mask>" for
// every arm64 bit, then hwcap2 in decimal. Bit lines are only meaningful
// on arm64 and are skipped elsewhere.
func WriteHWCap(w io.Writer, arch string, hwcap, hwcap2 uint64) error {
	var b strings.Builder
	fmt.Fprintf(&b, "hwcaps %b\n", hwcap)
	if arch == "arm64" {
		for _, bit := range ARM64Bits {
			fmt.Fprintf(&b, "HWCAP_%s %d\n", bit.Name, hwcap&bit.Mask)
		}
	}
	fmt.Fprintf(&b, "%d\n", hwcap2)
	_, err := io.WriteString(w, b.String())
	return err
}

// lookup finds key in an auxiliary vector.
func lookup(auxv [][2]uintptr, key uintptr) (uint64, bool) {
	for _, kv := range auxv {
		if kv[0] == key {
			return uint64(kv[1]), true
		}
	}
	return 0, false
}
