package crisis

import (
	"fmt"
	"time"
)

// RiskLevel orders overall grid risk from Low to Critical.
type RiskLevel string

const (
	RiskLow      RiskLevel = "Low"
	RiskMedium   RiskLevel = "Medium"
	RiskHigh     RiskLevel = "High"
	RiskCritical RiskLevel = "Critical"
)

// AlertLevel is the color-coded alert matching a risk level.
type AlertLevel string

const (
	AlertGreen  AlertLevel = "GREEN"
	AlertYellow AlertLevel = "YELLOW"
	AlertOrange AlertLevel = "ORANGE"
	AlertRed    AlertLevel = "RED"
)

// Grid thresholds that trigger risk findings.
const (
	eafCriticalThreshold   = 60.0
	eafHighThreshold       = 65.0
	outagesCriticalMW      = 15000.0
	coalStockpileDaysFloor = 20.0
)

// GridMetrics carries current grid measurements. A zero value means the
// metric was not reported and is skipped.
type GridMetrics struct {
	// EAF is the energy availability factor, in percent.
	EAF float64 `json:"eaf"`

	// UnplannedOutagesMW is the unplanned generation loss, in megawatts.
	UnplannedOutagesMW float64 `json:"unplanned_outages_mw"`

	// CoalStockpileDays is the remaining coal supply, in days.
	CoalStockpileDays float64 `json:"coal_stockpile_days"`
}

// RiskFinding is one threshold breach detected in the metrics.
type RiskFinding struct {
	Indicator     string    `json:"indicator"`
	CurrentValue  float64   `json:"current_value"`
	Threshold     float64   `json:"threshold"`
	RiskLevel     RiskLevel `json:"risk_level"`
	LikelyOutcome string    `json:"likely_outcome"`
	Action        string    `json:"action"`
}

// RiskAssessment is the outcome of evaluating grid metrics against the
// published thresholds.
type RiskAssessment struct {
	Timestamp       time.Time     `json:"timestamp"`
	OverallRisk     RiskLevel     `json:"overall_risk"`
	AlertLevel      AlertLevel    `json:"alert_level"`
	Risks           []RiskFinding `json:"risks"`
	Recommendations []string      `json:"recommendations"`
	Source          string        `json:"source"`
}

// AssessRisk evaluates the metrics against grid thresholds: EAF below 60%
// or unplanned outages above 15,000 MW are Critical/RED, EAF below 65% is
// High/ORANGE, and a coal stockpile under 20 days is Medium/YELLOW. The
// overall level is the worst finding; recommendations match it.
//
// AssessRisk works purely on the metrics, so it stays available even when
// the knowledge base has not been initialized.
func (d *Detector) AssessRisk(metrics GridMetrics) *RiskAssessment {
	assessment := &RiskAssessment{
		Timestamp:   time.Now(),
		OverallRisk: RiskLow,
		AlertLevel:  AlertGreen,
		Risks:       []RiskFinding{},
	}
	if d.data != nil && len(d.data.DataSources) > 0 {
		assessment.Source = d.data.DataSources[0]
	}

	switch {
	case metrics.EAF != 0 && metrics.EAF < eafCriticalThreshold:
		assessment.Risks = append(assessment.Risks, RiskFinding{
			Indicator:     "Energy Availability Factor below 60%",
			CurrentValue:  metrics.EAF,
			Threshold:     eafCriticalThreshold,
			RiskLevel:     RiskCritical,
			LikelyOutcome: "Stage 4-6 loadshedding imminent",
			Action:        "Activate backup generators immediately",
		})
		assessment.OverallRisk = RiskCritical
		assessment.AlertLevel = AlertRed
	case metrics.EAF != 0 && metrics.EAF < eafHighThreshold:
		assessment.Risks = append(assessment.Risks, RiskFinding{
			Indicator:     "Energy Availability Factor below 65%",
			CurrentValue:  metrics.EAF,
			Threshold:     eafHighThreshold,
			RiskLevel:     RiskHigh,
			LikelyOutcome: "Stage 2-4 loadshedding within 48 hours",
			Action:        "Prepare backup power systems",
		})
		assessment.OverallRisk = RiskHigh
		assessment.AlertLevel = AlertOrange
	}

	if metrics.UnplannedOutagesMW > outagesCriticalMW {
		assessment.Risks = append(assessment.Risks, RiskFinding{
			Indicator:     "Unplanned outages above 15,000 MW",
			CurrentValue:  metrics.UnplannedOutagesMW,
			Threshold:     outagesCriticalMW,
			RiskLevel:     RiskCritical,
			LikelyOutcome: "Stage 4-6 loadshedding imminent",
			Action:        "Implement emergency protocols",
		})
		assessment.OverallRisk = RiskCritical
		assessment.AlertLevel = AlertRed
	}

	if metrics.CoalStockpileDays != 0 && metrics.CoalStockpileDays < coalStockpileDaysFloor {
		assessment.Risks = append(assessment.Risks, RiskFinding{
			Indicator:     "Coal stockpile below 20 days",
			CurrentValue:  metrics.CoalStockpileDays,
			Threshold:     coalStockpileDaysFloor,
			RiskLevel:     RiskMedium,
			LikelyOutcome: "Increased risk within 2-4 weeks",
			Action:        "Monitor situation closely",
		})
		if assessment.OverallRisk == RiskLow {
			assessment.OverallRisk = RiskMedium
		}
		if assessment.AlertLevel == AlertGreen {
			assessment.AlertLevel = AlertYellow
		}
	}

	assessment.Recommendations = recommendationsFor(assessment.OverallRisk)
	return assessment
}

// ImpactSeverity classifies how hard a load-shedding stage hits operations.
type ImpactSeverity string

const (
	SeverityMinor    ImpactSeverity = "Minor"
	SeverityModerate ImpactSeverity = "Moderate"
	SeveritySevere   ImpactSeverity = "Severe"
)

// BusinessImpactReport describes the expected effect of a load-shedding
// stage on one business sector.
type BusinessImpactReport struct {
	Sector     string         `json:"sector"`
	Stage      int            `json:"stage"`
	Impact     string         `json:"impact"`
	Mitigation string         `json:"mitigation"`
	Severity   ImpactSeverity `json:"severity"`
}

// BusinessImpact reports the recorded impact of a load-shedding stage on
// the given sector. Stages without a recorded description still get a
// severity classification: stage 4 and up is Severe, stage 2-3 Moderate,
// below that Minor.
func (d *Detector) BusinessImpact(sector string, stage int) (*BusinessImpactReport, error) {
	if d.data == nil {
		return nil, ErrNotInitialized
	}

	impacts, ok := d.data.BusinessImpactMatrix[sector]
	if !ok {
		return nil, fmt.Errorf("unknown sector: %q", sector)
	}

	impact, recorded := impacts.stageImpact(stage)
	if !recorded || impact == "" {
		impact = "Unknown impact for this stage"
	}

	severity := SeverityMinor
	switch {
	case stage >= 4:
		severity = SeveritySevere
	case stage >= 2:
		severity = SeverityModerate
	}

	return &BusinessImpactReport{
		Sector:     sector,
		Stage:      stage,
		Impact:     impact,
		Mitigation: impacts.Mitigation,
		Severity:   severity,
	}, nil
}

// recommendationsFor returns the action list for a risk level.
func recommendationsFor(level RiskLevel) []string {
	switch level {
	case RiskCritical:
		return []string{
			"Activate all backup power systems immediately",
			"Reschedule critical operations to off-peak hours",
			"Alert all stakeholders of imminent disruption",
			"Implement emergency business continuity protocols",
		}
	case RiskHigh:
		return []string{
			"Test backup generators and UPS systems",
			"Stock up on diesel/battery reserves",
			"Schedule flexible work arrangements",
			"Communicate potential disruptions to clients",
		}
	case RiskMedium:
		return []string{
			"Monitor Eskom announcements closely",
			"Review business continuity plans",
			"Ensure backup systems are operational",
			"Consider demand-side management options",
		}
	default:
		return []string{
			"Maintain regular monitoring schedule",
			"Keep backup systems in standby mode",
			"Continue normal operations",
		}
	}
}
