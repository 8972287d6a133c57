package sars

// Eligibility bounds for the Employment Tax Incentive.
const (
	etiMinAge       = 18
	etiMaxAge       = 29
	etiSalaryCeil   = 7500
	etiLowerBand    = 2500
	etiUpperBand    = 5500
	corporateTaxPct = 0.28
)

// Learnership is one registered learnership agreement.
type Learnership struct {
	ID        string `json:"id"`
	NQFLevel  int    `json:"nqf_level"`
	Disabled  bool   `json:"disabled"`
	Completed bool   `json:"completed"`
}

// Section12HLine is the allowance breakdown for one learnership.
type Section12HLine struct {
	LearnerID           string  `json:"learner_id"`
	NQFLevel            int     `json:"nqf_level"`
	AnnualAllowance     float64 `json:"annual_allowance"`
	CompletionAllowance float64 `json:"completion_allowance"`
	Total               float64 `json:"total"`
}

// Section12HResult is the full Section 12H calculation outcome.
type Section12HResult struct {
	Regulation       string           `json:"regulation"`
	TotalRecovery    float64          `json:"total_recovery"`
	TaxSaving        float64          `json:"tax_saving_28_percent"`
	LearnershipCount int              `json:"learnerships_count"`
	Breakdown        []Section12HLine `json:"breakdown"`
	Source           string           `json:"source"`
	LastVerified     string           `json:"last_verified"`
}

// CalculateSection12H computes the learnership allowances a company can
// claim: the annual allowance per registered learnership plus, for
// completed learnerships, the completion allowance. Rates depend on NQF
// level band and disability status. The tax saving applies the 28%
// corporate rate to the total deduction.
func (kb *KnowledgeBase) CalculateSection12H(learnerships []Learnership) (*Section12HResult, error) {
	if kb.section12H == nil {
		return nil, ErrNotInitialized
	}

	allowances := kb.section12H.Allowances
	result := &Section12HResult{
		Regulation:       "Section 12H - Learnership Allowances",
		LearnershipCount: len(learnerships),
		Breakdown:        make([]Section12HLine, 0, len(learnerships)),
		LastVerified:     kb.section12H.LastUpdated,
	}
	if len(kb.section12H.OfficialSources) > 0 {
		result.Source = kb.section12H.OfficialSources[0]
	}

	for _, l := range learnerships {
		annual := allowances.Annual.rateFor(l.NQFLevel, l.Disabled)
		completion := 0.0
		if l.Completed {
			completion = allowances.Completion.rateFor(l.NQFLevel, l.Disabled)
		}

		total := annual + completion
		result.TotalRecovery += total
		result.Breakdown = append(result.Breakdown, Section12HLine{
			LearnerID:           l.ID,
			NQFLevel:            l.NQFLevel,
			AnnualAllowance:     annual,
			CompletionAllowance: completion,
			Total:               total,
		})
	}

	result.TaxSaving = result.TotalRecovery * corporateTaxPct
	return result, nil
}

// Employee is one employee evaluated for the ETI.
type Employee struct {
	ID             string  `json:"id"`
	Age            int     `json:"age"`
	MonthlySalary  float64 `json:"monthly_salary"`
	MonthsEmployed int     `json:"months_employed"`
}

// ETILine is the incentive breakdown for one qualifying employee.
type ETILine struct {
	EmployeeID     string  `json:"employee_id"`
	Age            int     `json:"age"`
	Salary         float64 `json:"salary"`
	MonthsEmployed int     `json:"months_employed"`
	MonthlyETI     float64 `json:"monthly_eti"`
}

// ETIResult is the full Employment Tax Incentive calculation outcome.
type ETIResult struct {
	Regulation          string    `json:"regulation"`
	MonthlyETI          float64   `json:"monthly_eti"`
	AnnualETI           float64   `json:"annual_eti"`
	QualifyingEmployees int       `json:"qualifying_employees"`
	Breakdown           []ETILine `json:"breakdown"`
	Source              string    `json:"source"`
	LastVerified        string    `json:"last_verified"`
}

// CalculateETI computes the monthly Employment Tax Incentive across a
// workforce. Only employees aged 18-29 earning under R7,500/month qualify.
// The first 12 months of employment pay out at double the second-year
// rates; in both periods the incentive tapers to zero above R5,500/month.
func (kb *KnowledgeBase) CalculateETI(employees []Employee) (*ETIResult, error) {
	if kb.eti == nil {
		return nil, ErrNotInitialized
	}

	result := &ETIResult{
		Regulation:   "Employment Tax Incentive (ETI)",
		Breakdown:    make([]ETILine, 0, len(employees)),
		LastVerified: kb.eti.LastUpdated,
	}
	if len(kb.eti.OfficialSources) > 0 {
		result.Source = kb.eti.OfficialSources[0]
	}

	for _, e := range employees {
		if e.Age < etiMinAge || e.Age > etiMaxAge {
			continue
		}
		if e.MonthlySalary >= etiSalaryCeil {
			continue
		}

		monthsEmployed := e.MonthsEmployed
		if monthsEmployed < 1 {
			monthsEmployed = 1
		}

		monthly := monthlyIncentive(e.MonthlySalary, monthsEmployed)
		result.MonthlyETI += monthly
		result.Breakdown = append(result.Breakdown, ETILine{
			EmployeeID:     e.ID,
			Age:            e.Age,
			Salary:         e.MonthlySalary,
			MonthsEmployed: monthsEmployed,
			MonthlyETI:     monthly,
		})
	}

	result.QualifyingEmployees = len(result.Breakdown)
	result.AnnualETI = result.MonthlyETI * 12
	return result, nil
}

// monthlyIncentive applies the ETI rate bands for one employee.
func monthlyIncentive(salary float64, monthsEmployed int) float64 {
	var incentive float64
	if monthsEmployed <= 12 {
		switch {
		case salary < etiLowerBand:
			incentive = salary * 0.6
		case salary < etiUpperBand:
			incentive = 1500
		default:
			incentive = 1500 - 0.75*(salary-etiUpperBand)
		}
	} else {
		switch {
		case salary < etiLowerBand:
			incentive = salary * 0.3
		case salary < etiUpperBand:
			incentive = 750
		default:
			incentive = 750 - 0.375*(salary-etiUpperBand)
		}
	}
	return max(0, incentive)
}
