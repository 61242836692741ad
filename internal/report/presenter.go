package report

import (
	"fmt"
	"github.com/Borislavv/go-ash-pi/model"
	"go-hep.org/x/hep/hbook"
	"io"
	"time"
)

// Estimates always land in [0, 4]; the upper edge is padded so 4 is not an overflow.
const (
	histBins = 400
	histLow  = 0.0
	histHigh = 4.01
)

// Presenter renders results as they arrive and accumulates run statistics.
// It is used from the coordinator goroutine only.
type Presenter struct {
	out     io.Writer
	hist    *hbook.H1D
	samples uint64
	elapsed time.Duration
	absErr  float64 // sum of |error| over presented iterations
}

func NewPresenter(out io.Writer) *Presenter {
	return &Presenter{
		out:  out,
		hist: hbook.NewH1D(histBins, histLow, histHigh),
	}
}

// Present writes one line per iteration:
//
//	[2/3] pi=3.141234 error=-0.000359 elapsed=12ms
func (p *Presenter) Present(res model.Result) error {
	p.hist.Fill(res.Value, 1)
	p.samples += res.Samples
	p.elapsed += res.Elapsed
	p.absErr += res.AbsError()

	_, err := fmt.Fprintf(p.out, "[%d/%d] pi=%.6f error=%+.6f elapsed=%dms\n",
		res.Iteration, res.Iterations, res.Value, res.Error, res.Elapsed.Milliseconds())
	return err
}

// Summary aggregates every presented iteration.
type Summary struct {
	Iterations   int64
	Mean         float64
	StdDev       float64 // zero with fewer than two iterations
	StdErr       float64
	MeanAbsError float64 // mean of |estimate - π| per iteration, not |Mean - π|
	Samples      uint64
	Elapsed      time.Duration
}

// Throughput returns samples per second over the summed iteration time.
func (s Summary) Throughput() float64 {
	if s.Elapsed <= 0 {
		return 0
	}
	return float64(s.Samples) / s.Elapsed.Seconds()
}

func (p *Presenter) Summary() Summary {
	s := Summary{
		Iterations: p.hist.Entries(),
		Samples:    p.samples,
		Elapsed:    p.elapsed,
	}
	if s.Iterations == 0 {
		return s
	}
	s.Mean = p.hist.XMean()
	s.MeanAbsError = p.absErr / float64(s.Iterations)
	if s.Iterations > 1 {
		s.StdDev = p.hist.XStdDev()
		s.StdErr = p.hist.XStdErr()
	}
	return s
}

// WriteSummary prints the run summary; nothing is printed for an empty run.
func (p *Presenter) WriteSummary() error {
	s := p.Summary()
	if s.Iterations == 0 {
		return nil
	}
	_, err := fmt.Fprintf(p.out, "mean=%.6f stddev=%.6f stderr=%.6f mean_abs_error=%.6f samples=%d throughput=%.0f/s\n",
		s.Mean, s.StdDev, s.StdErr, s.MeanAbsError, s.Samples, s.Throughput())
	return err
}
