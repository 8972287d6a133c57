package sars

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Data file names expected under the data directory.
const (
	Section12HFile = "section_12h_learnerships.json"
	ETIFile        = "eti_employment_incentive.json"
)

// AllowancePair holds the able-bodied and disability rates for one NQF band.
type AllowancePair struct {
	AbleBodied float64 `json:"able_bodied"`
	Disability float64 `json:"disability"`
}

// AllowanceTable holds rates per NQF band. NQF levels 1-6 and 7-10 carry
// different amounts.
type AllowanceTable struct {
	NQF1To6  AllowancePair `json:"nqf_1_to_6"`
	NQF7To10 AllowancePair `json:"nqf_7_to_10"`
}

// rateFor returns the rate for the given NQF level and disability status.
func (t AllowanceTable) rateFor(nqfLevel int, disabled bool) float64 {
	pair := t.NQF1To6
	if nqfLevel > 6 {
		pair = t.NQF7To10
	}
	if disabled {
		return pair.Disability
	}
	return pair.AbleBodied
}

// Section12HData is the Section 12H learnership regulation file.
type Section12HData struct {
	Regulation      string   `json:"regulation"`
	Description     string   `json:"description"`
	Status          string   `json:"status"`
	LastUpdated     string   `json:"last_updated"`
	OfficialSources []string `json:"official_sources"`
	Allowances      struct {
		Annual     AllowanceTable `json:"annual_allowance"`
		Completion AllowanceTable `json:"completion_allowance"`
	} `json:"allowances"`
	CalculationExamples []CalculationExample `json:"calculation_examples"`
}

// ETIData is the Employment Tax Incentive regulation file.
type ETIData struct {
	Regulation           string   `json:"regulation"`
	Description          string   `json:"description"`
	LastUpdated          string   `json:"last_updated"`
	OfficialSources      []string `json:"official_sources"`
	MonthlyAllowance2025 struct {
		EffectiveFrom string `json:"effective_from"`
	} `json:"monthly_allowance_2025"`
	CalculationExamples []CalculationExample `json:"calculation_examples"`
}

// CalculationExample is one worked example from a regulation file. Fields
// beyond the scenario vary per regulation, so they stay in Extra.
type CalculationExample struct {
	Scenario string
	Extra    map[string]any
}

// UnmarshalJSON keeps the scenario as a first-class field and everything
// else in Extra, matching the loosely-shaped source files.
func (e *CalculationExample) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if s, ok := raw["scenario"].(string); ok {
		e.Scenario = s
	}
	delete(raw, "scenario")
	e.Extra = raw
	return nil
}

// stringField renders one Extra field, falling back to "N/A" when absent.
func (e CalculationExample) stringField(key string) string {
	v, ok := e.Extra[key]
	if !ok {
		return "N/A"
	}
	return fmt.Sprintf("%v", v)
}

// detail renders the full example as compact JSON for document flattening.
func (e CalculationExample) detail() string {
	full := make(map[string]any, len(e.Extra)+1)
	for k, v := range e.Extra {
		full[k] = v
	}
	full["scenario"] = e.Scenario
	data, err := json.Marshal(full)
	if err != nil {
		return e.Scenario
	}
	return string(data)
}

func loadSection12H(dataDir string) (*Section12HData, error) {
	var data Section12HData
	if err := loadJSON(filepath.Join(dataDir, Section12HFile), &data); err != nil {
		return nil, err
	}
	return &data, nil
}

func loadETI(dataDir string) (*ETIData, error) {
	var data ETIData
	if err := loadJSON(filepath.Join(dataDir, ETIFile), &data); err != nil {
		return nil, err
	}
	return &data, nil
}

func loadJSON(path string, out any) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return nil
}
