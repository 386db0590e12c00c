// Package cpufeat reports the CPU features Go detected at run time and the
// raw ELF hwcap words the kernel exposes.
package cpufeat

import (
	"errors"
	"fmt"
	"io"
	"runtime"
	"strings"

	"golang.org/x/sys/cpu"
)

// ErrUnsupported is returned by HWCap where there is no auxiliary vector.
var ErrUnsupported = errors.New("cpufeat: hwcap not available on this platform")

// Feature is one CPU capability flag.
type Feature struct {
	Arch    string
	Name    string
	Present bool
}

type flag struct {
	name string
	has  *bool
}

// x86 names follow the compiler's target-feature spelling.
var x86Flags = []flag{
	{"adx", &cpu.X86.HasADX},
	{"aes", &cpu.X86.HasAES},
	{"avx", &cpu.X86.HasAVX},
	{"avx2", &cpu.X86.HasAVX2},
	{"avx512bf16", &cpu.X86.HasAVX512BF16},
	{"avx512bitalg", &cpu.X86.HasAVX512BITALG},
	{"avx512bw", &cpu.X86.HasAVX512BW},
	{"avx512cd", &cpu.X86.HasAVX512CD},
	{"avx512dq", &cpu.X86.HasAVX512DQ},
	{"avx512er", &cpu.X86.HasAVX512ER},
	{"avx512f", &cpu.X86.HasAVX512F},
	{"avx512ifma", &cpu.X86.HasAVX512IFMA},
	{"avx512pf", &cpu.X86.HasAVX512PF},
	{"avx512vbmi", &cpu.X86.HasAVX512VBMI},
	{"avx512vbmi2", &cpu.X86.HasAVX512VBMI2},
	{"avx512vl", &cpu.X86.HasAVX512VL},
	{"avx512vnni", &cpu.X86.HasAVX512VNNI},
	{"avx512vpopcntdq", &cpu.X86.HasAVX512VPOPCNTDQ},
	{"bmi1", &cpu.X86.HasBMI1},
	{"bmi2", &cpu.X86.HasBMI2},
	{"cmpxchg16b", &cpu.X86.HasCX16},
	{"ermsb", &cpu.X86.HasERMS},
	{"fma", &cpu.X86.HasFMA},
	{"osxsave", &cpu.X86.HasOSXSAVE},
	{"pclmulqdq", &cpu.X86.HasPCLMULQDQ},
	{"popcnt", &cpu.X86.HasPOPCNT},
	{"rdrand", &cpu.X86.HasRDRAND},
	{"rdseed", &cpu.X86.HasRDSEED},
	{"sse2", &cpu.X86.HasSSE2},
	{"sse3", &cpu.X86.HasSSE3},
	{"sse4.1", &cpu.X86.HasSSE41},
	{"sse4.2", &cpu.X86.HasSSE42},
	{"ssse3", &cpu.X86.HasSSSE3},
}

var arm64Flags = []flag{
	{"fp", &cpu.ARM64.HasFP},
	{"asimd", &cpu.ARM64.HasASIMD},
	{"evtstrm", &cpu.ARM64.HasEVTSTRM},
	{"aes", &cpu.ARM64.HasAES},
	{"pmull", &cpu.ARM64.HasPMULL},
	{"sha1", &cpu.ARM64.HasSHA1},
	{"sha2", &cpu.ARM64.HasSHA2},
	{"crc32", &cpu.ARM64.HasCRC32},
	{"atomics", &cpu.ARM64.HasATOMICS},
	{"fphp", &cpu.ARM64.HasFPHP},
	{"asimdhp", &cpu.ARM64.HasASIMDHP},
	{"cpuid", &cpu.ARM64.HasCPUID},
	{"asimdrdm", &cpu.ARM64.HasASIMDRDM},
	{"jscvt", &cpu.ARM64.HasJSCVT},
	{"fcma", &cpu.ARM64.HasFCMA},
	{"lrcpc", &cpu.ARM64.HasLRCPC},
	{"dcpop", &cpu.ARM64.HasDCPOP},
	{"sha3", &cpu.ARM64.HasSHA3},
	{"sm3", &cpu.ARM64.HasSM3},
	{"sm4", &cpu.ARM64.HasSM4},
	{"asimddp", &cpu.ARM64.HasASIMDDP},
	{"sha512", &cpu.ARM64.HasSHA512},
	{"sve", &cpu.ARM64.HasSVE},
	{"asimdfhm", &cpu.ARM64.HasASIMDFHM},
}

// Features lists every known flag for the running architecture. It is
// empty on architectures other than amd64, 386 and arm64.
func Features() []Feature {
	return featuresFor(runtime.GOARCH)
}

func featuresFor(arch string) []Feature {
	var flags []flag
	switch arch {
	case "amd64", "386":
		flags = x86Flags
	case "arm64":
		flags = arm64Flags
	}
	out := make([]Feature, len(flags))
	for i, f := range flags {
		out[i] = Feature{Arch: arch, Name: f.name, Present: *f.has}
	}
	return out
}

// Enabled returns the present features only.
func Enabled() []Feature {
	var out []Feature
	for _, f := range Features() {
		if f.Present {
			out = append(out, f)
		}
	}
	return out
}

// WriteFeatures prints one "feature <name>" line per feature, the name
// left-aligned in 30 columns.
func WriteFeatures(w io.Writer, fs []Feature) error {
	var b strings.Builder
	for _, f := range fs {
		fmt.Fprintf(&b, "feature %-30s\n", f.Name)
	}
	_, err := io.WriteString(w, b.String())
	return err
}
