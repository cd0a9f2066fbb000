package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"

	"github.com/armada-cluster/armada/internal/launch/spool"
)

// Dumps a spool file as one JSON document per line.
func main() {
	spoolPath := flag.String("spool", "", "spool file path")

	flag.Parse()

	if *spoolPath == "" {
		log.Fatal("argument is not enough")
	}

	stream, errchan := spool.NewFSSpool(*spoolPath).Stream(context.Background())

	for {
		select {
		case err := <-errchan:
			log.Fatal(err)
		case req, ok := <-stream:
			if !ok {
				return
			}

			b, _ := json.Marshal(req)
			fmt.Printf("%s\n", b)
		}
	}
}
