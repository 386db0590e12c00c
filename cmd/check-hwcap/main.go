// Command check-hwcap prints the ELF hwcap words and, on arm64, each
// HWCAP_* bit masked out of them.
package main

import (
	"log"
	"os"
	"runtime"

	"github.com/randomizedcoder/spsc-ringbuf/internal/cpufeat"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("check-hwcap: ")

	hwcap, hwcap2, err := cpufeat.HWCap()
	if err != nil {
		log.Fatal(err)
	}
	if runtime.GOARCH != "arm64" {
		log.Printf("HWCAP bit names are arm64 only; printing raw words on %s", runtime.GOARCH)
	}
	if err := cpufeat.WriteHWCap(os.Stdout, runtime.GOARCH, hwcap, hwcap2); err != nil {
		log.Fatal(err)
	}
}
