package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/waterbills/constants"
)

// Outcome is the per-document pipeline result. A successful outcome
// serializes as the bare CanonicalRecord; anything else serializes as
// {"ok":false,"message":...,"File_Name":...}.
type Outcome struct {
	ID          uuid.UUID               `json:"-"`
	OK          bool                    `json:"-"`
	Status      constants.OutcomeStatus `json:"-"`
	FileName    string                  `json:"-"`
	Region      constants.Region        `json:"-"`
	Message     string                  `json:"-"`
	Record      *CanonicalRecord        `json:"-"`
	ProcessedAt time.Time               `json:"-"`
}

type failurePayload struct {
	OK       bool   `json:"ok"`
	Message  string `json:"message"`
	FileName string `json:"File_Name"`
}

func Success(fileName string, region constants.Region, rec CanonicalRecord) Outcome {
	return Outcome{
		ID:          uuid.New(),
		OK:          true,
		Status:      constants.StatusExtracted,
		FileName:    fileName,
		Region:      region,
		Record:      &rec,
		ProcessedAt: time.Now().UTC(),
	}
}

func Failure(fileName string, status constants.OutcomeStatus, message string) Outcome {
	return Outcome{
		ID:          uuid.New(),
		Status:      status,
		FileName:    fileName,
		Region:      constants.Unknown,
		Message:     message,
		ProcessedAt: time.Now().UTC(),
	}
}

// WithFileName forces the file name on both the outcome and its record.
func (o Outcome) WithFileName(name string) Outcome {
	o.FileName = name
	if o.Record != nil {
		rec := *o.Record
		rec.SetFileName(name)
		o.Record = &rec
	}
	return o
}

func (o Outcome) MarshalJSON() ([]byte, error) {
	if o.OK && o.Record != nil {
		return json.Marshal(o.Record)
	}
	return json.Marshal(failurePayload{OK: false, Message: o.Message, FileName: o.FileName})
}

// BatchResult aggregates outcomes for a multi-document request. OK reports
// that the batch ran; individual entries carry their own status.
type BatchResult struct {
	OK      bool      `json:"ok"`
	Total   int       `json:"total"`
	Results []Outcome `json:"results"`
}

func NewBatchResult(results []Outcome) BatchResult {
	return BatchResult{OK: true, Total: len(results), Results: results}
}

// Succeeded counts outcomes that produced a record.
func (b BatchResult) Succeeded() int {
	n := 0
	for _, r := range b.Results {
		if r.OK {
			n++
		}
	}
	return n
}
