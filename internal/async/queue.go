package async

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Job is one bill file waiting to be extracted.
type Job struct {
	Path        string
	Hash        string // content hash, when the producer computed one
	SubmittedAt time.Time
	TraceID     uuid.UUID
}

func NewJob(path string) Job {
	return Job{Path: path, SubmittedAt: time.Now().UTC(), TraceID: uuid.New()}
}

type Queue interface {
	Enqueue(ctx context.Context, job Job) error
	Shutdown(ctx context.Context)
}
