package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"stcss/internal/buildpipeline"
)

// errDiagnostics is returned after error diagnostics were printed.
var errDiagnostics = errors.New("stylesheets have errors")

var stageVerbs = map[buildpipeline.Stage]string{
	buildpipeline.StageLoad:      "loaded",
	buildpipeline.StageAnalyze:   "analyzed",
	buildpipeline.StageLink:      "linked",
	buildpipeline.StageTransform: "scoped",
	buildpipeline.StageEmit:      "written",
}

func formatTimings(timings buildpipeline.Timings) string {
	var b strings.Builder
	for _, stage := range buildpipeline.Stages {
		if !timings.Has(stage) {
			continue
		}
		fmt.Fprintf(&b, "%s %.1f ms\n", stageVerbs[stage], toMillis(timings.Duration(stage)))
	}
	return b.String()
}

func toMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
