package reports

import "time"

// Report is one persisted analysis: the client's problem plus the three generated parts.
type Report struct {
	ID                  int64     `json:"id"`
	ClientProblem       string    `json:"client_problem"`
	DiagnosticQuestion  string    `json:"diagnostic_question"`
	RootCauseAnalysis   string    `json:"root_cause_analysis"`
	ForesightPrediction string    `json:"foresight_prediction"`
	CreatedAt           time.Time `json:"created_at"`
}

// Analysis is the generated payload returned to the caller of /analyze
type Analysis struct {
	DiagnosticQuestion  string `json:"diagnostic_question"`
	RootCauseAnalysis   string `json:"root_cause_analysis"`
	ForesightPrediction string `json:"foresight_prediction"`
}

// Analysis projects the generated fields of the report.
func (r *Report) Analysis() Analysis {
	return Analysis{
		DiagnosticQuestion:  r.DiagnosticQuestion,
		RootCauseAnalysis:   r.RootCauseAnalysis,
		ForesightPrediction: r.ForesightPrediction,
	}
}
