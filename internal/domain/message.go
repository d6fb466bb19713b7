package domain

// JobMessage is the dispatch signal published to the pipeline queue and
// consumed by the worker. DeliveryTag is filled in on the consuming side.
type JobMessage struct {
	JobID       int64  `json:"job_id"`
	Kind        string `json:"kind"`
	DeliveryTag uint64 `json:"-"`
}
