package models

// ChatTurn is the reply shape for the /chat endpoint. When the model emits
// valid JSON the parsed object is passed through verbatim; this struct backs
// the fallback turn and documents the schema the frontend renders.
type ChatTurn struct {
	Answer        string         `json:"answer"`
	Visualization *Visualization `json:"visualization"`
}

// Visualization carries the gauge data for a single metric mentioned in an
// answer. Status is one of High, Low or Normal.
type Visualization struct {
	Metric string  `json:"metric"`
	Value  float64 `json:"value"`
	Unit   string  `json:"unit"`
	Status string  `json:"status"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}
