package timing

import (
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wesleyorama2/perfume/perfume/observer"
)

func TestPerformance_Now(t *testing.T) {
	mock := clock.NewMock()
	p := NewPerformance(mock)

	assert.Equal(t, 0.0, p.Now())

	mock.Add(1500 * time.Microsecond)
	assert.InDelta(t, 1.5, p.Now(), 1e-9)
}

func TestPerformance_MarkAndMeasure(t *testing.T) {
	mock := clock.NewMock()
	p := NewPerformance(mock)

	start := p.Now()
	p.Mark("checkout", PhaseStart)
	mock.Add(250 * time.Millisecond)
	end := p.Now()
	p.Mark("checkout", PhaseEnd)

	d := p.Measure("checkout", Interval{Start: start, End: end})
	assert.InDelta(t, 250.0, d, 1e-9)

	marks := p.Entries(observer.TypeMark)
	require.Len(t, marks, 2)
	assert.Equal(t, "checkout-start", marks[0].Name)
	assert.Equal(t, "checkout-end", marks[1].Name)
	assert.InDelta(t, 250.0, marks[1].StartTime, 1e-9)

	measures := p.Entries(observer.TypeMeasure)
	require.Len(t, measures, 1)
	assert.Equal(t, "checkout", measures[0].Name)
	assert.InDelta(t, 250.0, measures[0].Duration, 1e-9)

	assert.Len(t, p.Entries(""), 3)
}

func TestPerformance_Navigation(t *testing.T) {
	p := NewPerformance(clock.NewMock())

	_, ok := p.NavigationEntry()
	assert.False(t, ok)

	p.SetNavigation(observer.Entry{Name: "https://example.com/", ResponseEnd: 300})
	nav, ok := p.NavigationEntry()
	require.True(t, ok)
	assert.Equal(t, observer.TypeNavigation, nav.EntryType)
	assert.Equal(t, 300.0, nav.ResponseEnd)
}

func TestNavigationTiming(t *testing.T) {
	n := observer.Entry{
		FetchStart:        10,
		WorkerStart:       0,
		DomainLookupStart: 12,
		DomainLookupEnd:   20,
		RequestStart:      30,
		ResponseStart:     80,
		ResponseEnd:       130,
		TransferSize:      5300,
		EncodedBodySize:   5000,
	}

	got := NavigationTiming(n)

	assert.Equal(t, map[string]float64{
		FetchTime:       120,
		WorkerTime:      0,
		TotalTime:       100,
		DownloadTime:    50,
		TimeToFirstByte: 50,
		HeaderSize:      300,
		DNSLookupTime:   8,
	}, got)

	n.WorkerStart = 25
	assert.Equal(t, 105.0, NavigationTiming(n)[WorkerTime])
}
