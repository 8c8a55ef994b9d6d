package transport

import (
	"cmp"
	"net"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ghettovoice/sipwire/header"
	"github.com/ghettovoice/sipwire/sip"
)

// StatsReport is a snapshot of [StatsRecorder] counters.
type StatsReport struct {
	Time  time.Time   `json:"time"`
	Conns []ConnStats `json:"conns"`
}

// ConnStats are counters of serve loops reading from the same local address.
type ConnStats struct {
	// Network is a network of the local address, such as "tcp" or "udp".
	Network string `json:"network"`
	// LocalAddr is a local address.
	LocalAddr string `json:"local_addr"`
	// BytesReceived is a number of bytes read from the connections.
	BytesReceived uint64 `json:"bytes_received"`
	// RequestsReceived is a number of parsed requests.
	RequestsReceived uint64 `json:"requests_received"`
	// ResponsesReceived is a number of parsed responses.
	ResponsesReceived uint64 `json:"responses_received"`
	// ParseErrors is a number of messages that came with a parse error.
	ParseErrors uint64 `json:"parse_errors"`
	// Dropped is a number of datagrams that did not yield a message.
	Dropped uint64 `json:"dropped"`
	// AvgRTT is an average round-trip time measured with the Timestamp header of responses.
	AvgRTT time.Duration `json:"avg_rtt"`
	// NumRTT is a number of round-trip measurements.
	NumRTT uint64 `json:"num_rtt"`
}

// StatsRecorder counts messages read by serve loops, see [Options.Stats].
// A nil recorder records nothing.
type StatsRecorder struct {
	stats sync.Map // map[connKey]*connStats
}

type connKey struct {
	network,
	laddr string
}

type connStats struct {
	inBytes,
	inReqs,
	inRess,
	parseErrs,
	dropped,
	rttSum,
	rttNum atomic.Uint64
}

func (rcdr *StatsRecorder) connStats(laddr net.Addr) *connStats {
	if rcdr == nil {
		return nil
	}

	var key connKey
	if laddr != nil {
		key = connKey{laddr.Network(), laddr.String()}
	}
	stats, _ := rcdr.stats.LoadOrStore(key, &connStats{})
	return stats.(*connStats) //nolint:forcetypeassert
}

// Report returns the current values of counters.
func (rcdr *StatsRecorder) Report() StatsReport {
	report := StatsReport{
		Time: time.Now(),
	}
	if rcdr == nil {
		return report
	}

	rcdr.stats.Range(func(key, value any) bool {
		stats, ok := value.(*connStats)
		if !ok {
			return true
		}
		ck, ok := key.(connKey)
		if !ok {
			return true
		}

		rttNum := stats.rttNum.Load()
		rttSum := stats.rttSum.Load()
		avgRTT := time.Duration(0)
		if rttNum > 0 {
			avgRTT = time.Duration(rttSum / rttNum)
		}

		report.Conns = append(report.Conns, ConnStats{
			Network:           ck.network,
			LocalAddr:         ck.laddr,
			BytesReceived:     stats.inBytes.Load(),
			RequestsReceived:  stats.inReqs.Load(),
			ResponsesReceived: stats.inRess.Load(),
			ParseErrors:       stats.parseErrs.Load(),
			Dropped:           stats.dropped.Load(),
			AvgRTT:            avgRTT,
			NumRTT:            rttNum,
		})
		return true
	})
	slices.SortFunc(report.Conns, func(a, b ConnStats) int {
		return cmp.Or(cmp.Compare(a.Network, b.Network), cmp.Compare(a.LocalAddr, b.LocalAddr))
	})
	return report
}

func (s *connStats) bytesRead(n int) {
	if s == nil || n <= 0 {
		return
	}
	s.inBytes.Add(uint64(n))
}

func (s *connStats) drop() {
	if s == nil {
		return
	}
	s.dropped.Add(1)
}

func (s *connStats) msgRead(msg sip.Message, perr *sip.ParseError) {
	if s == nil {
		return
	}

	if perr != nil {
		s.parseErrs.Add(1)
	}

	switch m := msg.(type) {
	case *sip.Request:
		s.inReqs.Add(1)
	case *sip.Response:
		s.inRess.Add(1)
		s.measureRTT(m)
	}
}

// measureRTT takes the round-trip time from the Timestamp header echoed by the remote side,
// RFC 3261 Section 8.2.6.1.
func (s *connStats) measureRTT(res *sip.Response) {
	for _, hdr := range res.Headers.Get("Timestamp") {
		ts, ok := hdr.(*header.Timestamp)
		if !ok || ts.RequestTime.IsZero() {
			continue
		}
		if now := time.Now(); !now.Before(ts.RequestTime.Add(ts.ResponseDelay)) {
			s.rttNum.Add(1)
			s.rttSum.Add(uint64(now.Sub(ts.RequestTime) - ts.ResponseDelay))
		}
		return
	}
}
