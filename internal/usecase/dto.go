package usecase

// Every batch operation reports counts; partial failure is never silent.

type IngestInput struct {
	Source  string      `json:"source"`
	Records []RawRecord `json:"records"`
}

type IngestOutput struct {
	Received int `json:"received"`
	Inserted int `json:"inserted"`
	Updated  int `json:"updated"`
	Filtered int `json:"filtered"`
	Rejected int `json:"rejected"`
}

type QualifyOutput struct {
	Scored       int `json:"scored"`
	Qualified    int `json:"qualified"`
	Disqualified int `json:"disqualified"`
	Failed       int `json:"failed"`
}

type DraftOutput struct {
	Eligible int `json:"eligible"`
	Drafted  int `json:"drafted"`
	Skipped  int `json:"skipped"`
	Failed   int `json:"failed"`
}

type DispatchOutput struct {
	DryRun    bool `json:"dry_run"`
	Attempted int  `json:"attempted"`
	Sent      int  `json:"sent"`
	Failed    int  `json:"failed"`
	Remaining int  `json:"remaining"`
}
