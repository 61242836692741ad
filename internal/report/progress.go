package report

import (
	"github.com/Borislavv/go-ash-pi/model"
	"github.com/cheggaaa/pb/v3"
	"io"
)

// Progress draws an iteration progress bar on w.
type Progress struct {
	bar *pb.ProgressBar
}

func NewProgress(w io.Writer, iterations int) *Progress {
	bar := pb.New(iterations)
	bar.SetWriter(w)
	return &Progress{bar: bar.Start()}
}

// Wrap advances the bar after next has handled the result.
func (p *Progress) Wrap(next func(model.Result) error) func(model.Result) error {
	return func(res model.Result) error {
		if err := next(res); err != nil {
			return err
		}
		p.bar.Increment()
		return nil
	}
}

func (p *Progress) Current() int64 {
	return p.bar.Current()
}

func (p *Progress) Finish() {
	p.bar.Finish()
}
