package model

import "time"

// Sample is one timestamped system-wide CPU/memory observation.
type Sample struct {
	Timestamp time.Time
	CPU       float64 // percent 0-100
	Memory    float64 // percent 0-100
}

// CPU aggregates load figures shown in the header.
type CPU struct {
	Load1  float64
	Load5  float64
	Load15 float64
}

// IO holds disk and network throughput numbers.
type IO struct {
	DiskReadMBs  float64
	DiskWriteMBs float64
	NetRxMbps    float64
	NetTxMbps    float64
}

// Summary is the system line drawn under the title.
type Summary struct {
	Timestamp time.Time
	Uptime    time.Duration
	Swap      float64 // percent 0-100
	CPU       CPU
	IO        IO
}

// Zero returns an empty summary for initialization.
func Zero() Summary { return Summary{Timestamp: time.Now()} }
