package crisis

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// LoadSheddingFile is the data file name expected under the data directory.
const LoadSheddingFile = "loadshedding_2024.json"

// Performance summarizes the grid's most recent load-shedding record.
type Performance struct {
	Status                string `json:"status"`
	ConsecutiveDaysNoCuts int    `json:"consecutive_days_no_loadshedding_as_of_dec_2024"`
	LastLoadSheddingDate  string `json:"last_loadshedding_date"`
}

// Indicator is one predictive grid-health indicator.
type Indicator struct {
	Indicator     string `json:"indicator"`
	RiskLevel     string `json:"risk_level"`
	LikelyOutcome string `json:"likely_outcome"`
}

// SectorImpact describes how load-shedding stages hit one business sector.
type SectorImpact struct {
	Stage2     string `json:"stage_2"`
	Stage4     string `json:"stage_4"`
	Mitigation string `json:"mitigation"`
}

// stageImpact returns the impact description for a stage, if recorded.
func (s SectorImpact) stageImpact(stage int) (string, bool) {
	switch stage {
	case 2:
		return s.Stage2, true
	case 4:
		return s.Stage4, true
	default:
		return "", false
	}
}

// LoadSheddingData is the grid intelligence file.
type LoadSheddingData struct {
	Performance2024      Performance             `json:"2024_performance"`
	PredictiveIndicators []Indicator             `json:"predictive_indicators"`
	BusinessImpactMatrix map[string]SectorImpact `json:"business_impact_matrix"`
	DataSources          []string                `json:"data_sources"`
}

func loadLoadShedding(dataDir string) (*LoadSheddingData, error) {
	path := filepath.Join(dataDir, LoadSheddingFile)
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", LoadSheddingFile, err)
	}
	var data LoadSheddingData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("parse %s: %w", LoadSheddingFile, err)
	}
	return &data, nil
}
