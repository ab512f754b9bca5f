package timing

import "github.com/wesleyorama2/perfume/perfume/observer"

// Navigation timing keys.
const (
	FetchTime       = "fetchTime"
	WorkerTime      = "workerTime"
	TotalTime       = "totalTime"
	DownloadTime    = "downloadTime"
	TimeToFirstByte = "timeToFirstByte"
	HeaderSize      = "headerSize"
	DNSLookupTime   = "dnsLookupTime"
)

// NavigationTiming derives the navigation timing breakdown from a navigation
// entry. Times are milliseconds, HeaderSize is bytes.
func NavigationTiming(n observer.Entry) map[string]float64 {
	workerTime := 0.0
	if n.WorkerStart > 0 {
		workerTime = n.ResponseEnd - n.WorkerStart
	}

	return map[string]float64{
		FetchTime:       n.ResponseEnd - n.FetchStart,
		WorkerTime:      workerTime,
		TotalTime:       n.ResponseEnd - n.RequestStart,
		DownloadTime:    n.ResponseEnd - n.ResponseStart,
		TimeToFirstByte: n.ResponseStart - n.RequestStart,
		HeaderSize:      n.TransferSize - n.EncodedBodySize,
		DNSLookupTime:   n.DomainLookupEnd - n.DomainLookupStart,
	}
}
