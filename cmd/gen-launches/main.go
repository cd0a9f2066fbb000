package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"

	"github.com/armada-cluster/armada/internal/launch"
	"github.com/armada-cluster/armada/internal/launch/spool"
	"github.com/armada-cluster/armada/internal/task"
	"github.com/google/uuid"
	"github.com/ryanolee/go-chaff"
)

var (
	num       int
	spoolPath string
	framework string
	agent     string
)

func processParameters() {
	var (
		_num       = flag.Int("n", 1, "number of generated requests")
		_spoolPath = flag.String("spool", "launches", "spool file path")
		_framework = flag.String("framework", "", "framework id to stamp on every request")
		_agent     = flag.String("agent", "", "agent id to stamp on every request")
	)

	flag.Parse()

	num = *_num
	spoolPath = *_spoolPath
	framework = *_framework
	agent = *_agent
}

// Generates random launch requests from the embedded request schema.
// Useful for exercising the admission worker: the output is structurally
// valid but not necessarily semantically valid.
func main() {
	processParameters()

	generator, err := chaff.ParseSchema(launch.RawSchema(), &chaff.ParserOptions{})
	if err != nil {
		log.Fatal(err)
	}

	sp := spool.NewFSSpool(spoolPath)

	for i := 0; i < num; i++ {
		result := generator.Generate(&chaff.GeneratorOptions{})

		b, err := json.Marshal(result)
		if err != nil {
			log.Fatal(err)
		}

		var req launch.Request
		if err := json.Unmarshal(b, &req); err != nil {
			// Not everything the schema admits is representable
			// (e.g. secret data that is not valid base64).
			log.Printf("skipping unrepresentable request: %v", err)
			continue
		}

		req.ID = uuid.New()
		if framework != "" {
			req.FrameworkID = task.FrameworkID{Value: framework}
		}
		if agent != "" {
			req.Task.AgentID = task.AgentID{Value: agent}
		}

		if err := sp.Append(context.Background(), req); err != nil {
			log.Fatal(err)
		}
	}
}
