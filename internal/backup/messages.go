package backup

import (
	"encoding/json"
	"time"
)

// Job is the lightweight queue message asking the worker to take a backup.
// It carries only the reason; the worker reads the data fresh from storage.
type Job struct {
	Reason      string    `json:"reason"`
	RequestedAt time.Time `json:"requested_at"`
}

func NewJob(reason string) *Job {
	return &Job{Reason: reason, RequestedAt: time.Now()}
}

func (j *Job) ToJSON() ([]byte, error) {
	return json.Marshal(j)
}

func JobFromJSON(data []byte) (*Job, error) {
	var j Job
	if err := json.Unmarshal(data, &j); err != nil {
		return nil, err
	}
	return &j, nil
}
