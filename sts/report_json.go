package sts

import (
	"encoding/json"
	"time"
)

// Value's JSON representation is a string, per spec.md §9 ("only the
// serialization boundary encodes values as strings; everywhere else a
// Value keeps its native Go type"). MarshalJSON is the one place that
// conversion happens.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(formatValue(v))
}

// Value has no corresponding UnmarshalJSON: a bare wire string carries no
// type information of its own (spec.md §9's "type comes from the parent
// record, not the value"). Every decode path (ParseParameterJSON) calls
// parseValue with the type taken from the surrounding ParameterInfo/
// parameterEntry instead.

// reportJSON is the spec.md §6 wire shape for a finalized Report: a
// header block, the resolved parameter set, and one entry per
// configuration carrying its test history, aggregate metrics, and
// seven-criteria evaluation.
type reportJSON struct {
	Header         reportHeaderJSON        `json:"header"`
	Parameters     parameterJSON           `json:"parameter set"`
	Configurations []configurationJSON     `json:"configurations"`
}

type reportHeaderJSON struct {
	TestName      string    `json:"test name"`
	Suite         string    `json:"suite"`
	ScheduleID    string    `json:"schedule id,omitempty"`
	Description   string    `json:"description,omitempty"`
	Conductor     string    `json:"conductor,omitempty"`
	Notes         string    `json:"notes,omitempty"`
	Level         float64   `json:"significance level"`
	ProgramName   string    `json:"program name"`
	ProgramVer    string    `json:"program version"`
	OS            string    `json:"os"`
	Arch          string    `json:"arch"`
	EntropySource string    `json:"entropy source,omitempty"`
	StartTime     time.Time `json:"start time"`
}

type configurationAttributesJSON struct {
	Direction      string `json:"direction,omitempty"`
	Template       string `json:"template,omitempty"`
	ExcursionState *int   `json:"excursion state,omitempty"`
}

type calculationJSON struct {
	Name      string `json:"name"`
	Type      string `json:"data type"`
	Units     string `json:"units,omitempty"`
	Precision int    `json:"precision,omitempty"`
	Value     Value  `json:"value"`
}

type criterionJSON struct {
	Description string `json:"description"`
	Passed      bool   `json:"passed"`
}

type valueSetEntryJSON struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type valueSetJSON struct {
	Label   string              `json:"label"`
	Entries []valueSetEntryJSON `json:"entries"`
}

type testResultJSON struct {
	TestID       int               `json:"test id"`
	Calculations []calculationJSON `json:"calculations"`
	Criteria     []criterionJSON   `json:"criteria"`
	ValueSets    []valueSetJSON    `json:"value sets,omitempty"`
	PValue       float64           `json:"p-value"`
	Passed       bool              `json:"passed"`
}

type metricsJSON struct {
	BitstreamsTested        int        `json:"bitstreams tested"`
	MinimumTestsRequired    int        `json:"minimum tests required"`
	ConfidenceIntervalLower float64    `json:"confidence interval lower"`
	ConfidenceIntervalUpper float64    `json:"confidence interval upper"`
	Histogram               [10]int    `json:"uniformity histogram"`
	Uniformity              float64    `json:"uniformity"`
	MeanPValue              float64    `json:"mean p-value"`
	VariancePValue          float64    `json:"variance p-value"`
}

type configurationJSON struct {
	ID         int                         `json:"id"`
	Attributes configurationAttributesJSON `json:"attributes"`
	Tests      []testResultJSON            `json:"tests"`
	Metrics    metricsJSON                 `json:"metrics"`
	Criteria   []criterionJSON             `json:"aggregate criteria"`
	Evaluation string                      `json:"evaluation"`
}

func toCalculationsJSON(calcs []Calculation) []calculationJSON {
	out := make([]calculationJSON, len(calcs))
	for i, c := range calcs {
		out[i] = calculationJSON{Name: c.Name, Type: string(c.Type), Units: c.Units, Precision: c.Precision, Value: c.Value}
	}
	return out
}

func toCriteriaJSON(criteria []Criterion) []criterionJSON {
	out := make([]criterionJSON, len(criteria))
	for i, c := range criteria {
		out[i] = criterionJSON{Description: c.Description, Passed: c.Passed}
	}
	return out
}

func toValueSetsJSON(vs []ValueSet) []valueSetJSON {
	if len(vs) == 0 {
		return nil
	}
	out := make([]valueSetJSON, len(vs))
	for i, v := range vs {
		entries := make([]valueSetEntryJSON, len(v.Entries))
		for j, e := range v.Entries {
			entries[j] = valueSetEntryJSON{Key: e.Key, Value: e.Value}
		}
		out[i] = valueSetJSON{Label: v.Label, Entries: entries}
	}
	return out
}

func toAttributesJSON(attrs ConfigurationAttributes) configurationAttributesJSON {
	out := configurationAttributesJSON{Direction: attrs.Direction}
	if len(attrs.Template) > 0 {
		s := make([]byte, len(attrs.Template))
		for i, b := range attrs.Template {
			if b != 0 {
				s[i] = '1'
			} else {
				s[i] = '0'
			}
		}
		out.Template = string(s)
	}
	if attrs.ExcursionState != 0 {
		x := attrs.ExcursionState
		out.ExcursionState = &x
	}
	return out
}

// MarshalJSON renders a finalized Report to the spec.md §6 wire shape.
// Callers should Freeze the report first; MarshalJSON does not itself
// enforce that, since a caller may reasonably want to inspect an
// in-progress report during testing.
func (r *Report) MarshalJSON() ([]byte, error) {
	doc := reportJSON{
		Header: reportHeaderJSON{
			TestName:      r.Header.TestName,
			Suite:         r.Header.Suite,
			ScheduleID:    r.Header.ScheduleID,
			Description:   r.Header.Description,
			Conductor:     r.Header.Conductor,
			Notes:         r.Header.Notes,
			Level:         r.Header.Level,
			ProgramName:   r.Header.ProgramName,
			ProgramVer:    r.Header.ProgramVer,
			OS:            r.Header.OS,
			Arch:          r.Header.Arch,
			EntropySource: r.Header.EntropySource,
			StartTime:     r.Header.StartTime,
		},
		Parameters: toParameterJSON(r.Params),
	}
	for _, cfg := range r.Configurations {
		tests := make([]testResultJSON, len(cfg.Tests))
		for i, t := range cfg.Tests {
			tests[i] = testResultJSON{
				TestID:       t.TestID,
				Calculations: toCalculationsJSON(t.Calculations),
				Criteria:     toCriteriaJSON(t.Criteria),
				ValueSets:    toValueSetsJSON(t.ValueSets),
				PValue:       t.PValue,
				Passed:       t.Passed,
			}
		}
		doc.Configurations = append(doc.Configurations, configurationJSON{
			ID:         cfg.ID,
			Attributes: toAttributesJSON(cfg.Attributes),
			Tests:      tests,
			Metrics: metricsJSON{
				BitstreamsTested:        cfg.Metrics.BitstreamsTested,
				MinimumTestsRequired:    cfg.Metrics.MinimumTestsRequired,
				ConfidenceIntervalLower: cfg.Metrics.ConfidenceIntervalLower,
				ConfidenceIntervalUpper: cfg.Metrics.ConfidenceIntervalUpper,
				Histogram:               cfg.Metrics.Histogram,
				Uniformity:              cfg.Metrics.Uniformity,
				MeanPValue:              cfg.Metrics.MeanPValue,
				VariancePValue:          cfg.Metrics.VariancePValue,
			},
			Criteria:   toCriteriaJSON(cfg.Criteria),
			Evaluation: string(cfg.Evaluation),
		})
	}
	return json.MarshalIndent(doc, "", "  ")
}
