package behavior

import "time"

// Metrics is the aggregate view of a session's event log. It is recomputed
// from the log on every call and never cached; TimeSpent moves with the
// wall clock.
type Metrics struct {
	TimeSpent         int64 `json:"timeSpent"` // ms since tracking start
	FocusCount        int   `json:"focusCount"`
	BlurCount         int   `json:"blurCount"`
	FieldChanges      int   `json:"fieldChanges"`
	FieldInteractions int   `json:"fieldInteractions"`
	DeleteCount       int   `json:"deleteCount"`
	MouseInteractions int   `json:"mouseInteractions"`
	CopyCount         int   `json:"copyCount"`
	PasteCount        int   `json:"pasteCount"`
	CutCount          int   `json:"cutCount"`
	CustomEventCount  int   `json:"customEventCount"`
}

// ClipboardTotal is the combined copy/paste/cut count.
func (m Metrics) ClipboardTotal() int {
	return m.CopyCount + m.PasteCount + m.CutCount
}

// Insights combines metrics, detected patterns, the heuristic risk score and
// the host device snapshot. Flagged compares the score against the
// configured risk threshold as a caller convenience; the threshold never
// gates scoring itself.
type Insights struct {
	SessionID          string     `json:"sessionId"`
	Metrics            Metrics    `json:"metrics"`
	SuspiciousPatterns []string   `json:"suspiciousPatterns"`
	RiskScore          float64    `json:"riskScore"`
	RiskThreshold      float64    `json:"riskThreshold"`
	Flagged            bool       `json:"flagged"`
	Device             DeviceInfo `json:"device"`
	GeneratedAt        time.Time  `json:"generatedAt"`
}

// CustomEventStats summarizes application-triggered custom events.
type CustomEventStats struct {
	Total   int            `json:"total"`
	ByName  map[string]int `json:"byName"`
	FirstAt int64          `json:"firstAt,omitempty"` // ms since epoch
	LastAt  int64          `json:"lastAt,omitempty"`
}
