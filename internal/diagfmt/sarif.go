package diagfmt

import (
	"encoding/json"
	"io"
	"slices"
	"strings"

	"stcss/internal/diag"
	"stcss/internal/source"
)

const (
	sarifVersion = "2.1.0"
	sarifSchema  = "https://json.schemastore.org/sarif-2.1.0.json"
)

// SarifLog is the root object of a SARIF document.
type SarifLog struct {
	Version string     `json:"version"`
	Schema  string     `json:"$schema"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool        sarifTool         `json:"tool"`
	Invocations []sarifInvocation `json:"invocations,omitempty"`
	Results     []sarifResult     `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name    string      `json:"name"`
	Version string      `json:"version,omitempty"`
	Rules   []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID               string       `json:"id"`
	Name             string       `json:"name"`
	ShortDescription sarifMessage `json:"shortDescription"`
}

type sarifInvocation struct {
	CommandLine         string `json:"commandLine,omitempty"`
	ExecutionSuccessful bool   `json:"executionSuccessful"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifResult struct {
	RuleID           string          `json:"ruleId"`
	RuleIndex        int             `json:"ruleIndex"`
	Level            string          `json:"level"`
	Message          sarifMessage    `json:"message"`
	Locations        []sarifLocation `json:"locations"`
	RelatedLocations []sarifLocation `json:"relatedLocations,omitempty"`
}

type sarifLocation struct {
	ID               int                   `json:"id,omitempty"`
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
	Message          *sarifMessage         `json:"message,omitempty"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifactLocation `json:"artifactLocation"`
	Region           sarifRegion           `json:"region"`
}

type sarifArtifactLocation struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine   uint32 `json:"startLine"`
	StartColumn uint32 `json:"startColumn"`
	EndLine     uint32 `json:"endLine"`
	EndColumn   uint32 `json:"endColumn"`
	ByteOffset  uint32 `json:"byteOffset"`
	ByteLength  uint32 `json:"byteLength"`
}

func sarifLevel(s diag.Severity) string {
	switch s {
	case diag.SevError:
		return "error"
	case diag.SevWarning:
		return "warning"
	default:
		return "note"
	}
}

func sarifLoc(span source.Span, fs *source.FileSet, mode PathMode) sarifPhysicalLocation {
	start, end := fs.Resolve(span)
	uri := formatPath(fs.Get(span.File), fs, mode)
	return sarifPhysicalLocation{
		ArtifactLocation: sarifArtifactLocation{URI: strings.ReplaceAll(uri, "\\", "/")},
		Region: sarifRegion{
			StartLine:   start.Line,
			StartColumn: start.Col,
			EndLine:     end.Line,
			EndColumn:   end.Col,
			ByteOffset:  span.Start,
			ByteLength:  span.End - min(span.Start, span.End),
		},
	}
}

// BuildSarif собирает SARIF-лог (v2.1.0) без сериализации.
// Правила перечисляются в порядке возрастания кода.
func BuildSarif(bag *diag.Bag, fs *source.FileSet, meta SarifRunMeta) SarifLog {
	items := bag.Items()

	codes := make([]diag.Code, 0, len(items))
	for _, d := range items {
		if !slices.Contains(codes, d.Code) {
			codes = append(codes, d.Code)
		}
	}
	slices.Sort(codes)
	rules := make([]sarifRule, len(codes))
	for i, c := range codes {
		rules[i] = sarifRule{ID: c.ID(), Name: c.Title(), ShortDescription: sarifMessage{Text: c.Title()}}
	}

	results := make([]sarifResult, 0, len(items))
	for _, d := range items {
		r := sarifResult{
			RuleID:    d.Code.ID(),
			RuleIndex: slices.Index(codes, d.Code),
			Level:     sarifLevel(d.Severity),
			Message:   sarifMessage{Text: d.Message},
			Locations: []sarifLocation{{PhysicalLocation: sarifLoc(d.Primary, fs, meta.PathMode)}},
		}
		for i, n := range d.Notes {
			r.RelatedLocations = append(r.RelatedLocations, sarifLocation{
				ID:               i + 1,
				PhysicalLocation: sarifLoc(n.Span, fs, meta.PathMode),
				Message:          &sarifMessage{Text: n.Msg},
			})
		}
		results = append(results, r)
	}

	name := meta.ToolName
	if name == "" {
		name = "stcss"
	}
	run := sarifRun{
		Tool:    sarifTool{Driver: sarifDriver{Name: name, Version: meta.ToolVersion, Rules: rules}},
		Results: results,
	}
	if len(meta.InvocationArgs) > 0 {
		run.Invocations = []sarifInvocation{{
			CommandLine:         strings.Join(meta.InvocationArgs, " "),
			ExecutionSuccessful: !bag.HasErrors(),
		}}
	}
	return SarifLog{Version: sarifVersion, Schema: sarifSchema, Runs: []sarifRun{run}}
}

// Sarif форматирует диагностики в SARIF формат (v2.1.0)
func Sarif(w io.Writer, bag *diag.Bag, fs *source.FileSet, meta SarifRunMeta) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(BuildSarif(bag, fs, meta))
}
