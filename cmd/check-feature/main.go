// Command check-feature prints the CPU features detected at run time.
package main

import (
	"flag"
	"log"
	"os"

	"github.com/randomizedcoder/spsc-ringbuf/internal/cpufeat"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("check-feature: ")

	all := flag.Bool("all", false, "list absent features too")
	flag.Parse()

	fs := cpufeat.Enabled()
	if *all {
		fs = cpufeat.Features()
	}
	if len(fs) == 0 {
		log.Print("no known features for this architecture")
	}
	if err := cpufeat.WriteFeatures(os.Stdout, fs); err != nil {
		log.Fatal(err)
	}
}
