package harness

// TranscriptEntry is one operation as the machine performed it.
type TranscriptEntry struct {
	Seq     int64  `json:"seq"`
	Op      string `json:"op"`
	Input   string `json:"input"`
	Output  string `json:"output"`
	Windows string `json:"windows"`
}

// Result is the outcome of a test scenario execution.
type Result struct {
	// Pass indicates overall test success.
	// True if every step expectation and assertion holds.
	Pass bool `json:"pass"`

	// Transcript contains every step in order, as journaled.
	Transcript []TranscriptEntry `json:"transcript"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Session is the token the transcript was journaled under.
	Session string `json:"session"`

	// KeyID is the content-addressed ID of the machine configuration.
	KeyID string `json:"key_id"`
}

// NewResult creates a new passing result.
// Used as the starting point for test execution.
func NewResult() *Result {
	return &Result{
		Pass:       true,
		Transcript: []TranscriptEntry{},
		Errors:     []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddEntry appends a step to the transcript.
func (r *Result) AddEntry(e TranscriptEntry) {
	r.Transcript = append(r.Transcript, e)
}

// FinalWindows returns the rotor windows after the last step, or "" if no
// step ran.
func (r *Result) FinalWindows() string {
	if len(r.Transcript) == 0 {
		return ""
	}
	return r.Transcript[len(r.Transcript)-1].Windows
}
